package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/usifszone1/bills/dto"
	"github.com/usifszone1/bills/logger"
	"github.com/usifszone1/bills/service"
	"github.com/usifszone1/bills/utils"
)

// ReceiptHandler handles pharmacy claim extraction requests
type ReceiptHandler struct {
	receipts     *service.ReceiptService
	documents    *service.DocumentService
	logger       *zap.Logger
	maxFileSize  int64
	maxBatchSize int
}

// NewReceiptHandler creates a new ReceiptHandler instance
func NewReceiptHandler(
	receipts *service.ReceiptService,
	documents *service.DocumentService,
	log *zap.Logger,
	maxFileSize int64,
	maxBatchSize int,
) *ReceiptHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReceiptHandler{
		receipts:     receipts,
		documents:    documents,
		logger:       log,
		maxFileSize:  maxFileSize,
		maxBatchSize: maxBatchSize,
	}
}

// RegisterRoutes mounts the receipt endpoints under rg.
func (h *ReceiptHandler) RegisterRoutes(rg *gin.RouterGroup) {
	receipts := rg.Group("/receipts")
	{
		receipts.POST("/extract", h.ExtractText)
		receipts.POST("/upload", h.Upload)
		receipts.POST("/batch", h.ExtractBatch)
	}
}

// ExtractText handles the POST /receipts/extract endpoint
func (h *ReceiptHandler) ExtractText(c *gin.Context) {
	var req dto.ExtractTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	invoiceID := req.InvoiceID
	if invoiceID == "" {
		invoiceID = uuid.NewString()
	}

	receipt := h.receipts.ExtractReceiptDataWithIDs(req.Text, invoiceID, req.SequenceNumber)
	c.JSON(http.StatusOK, utils.RoundReceipt(receipt))
}

// Upload handles the POST /receipts/upload endpoint
func (h *ReceiptHandler) Upload(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.logger)

	file, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "A file is required", err)
		return
	}

	request := &dto.UploadRequest{
		File:      file,
		Password:  c.PostForm("password"),
		InvoiceID: c.PostForm("invoice_id"),
	}
	if seq := c.PostForm("sequence_number"); seq != "" {
		request.SequenceNumber, err = strconv.Atoi(seq)
		if err != nil {
			h.sendError(c, http.StatusBadRequest, "sequence_number must be an integer", nil)
			return
		}
	}

	if err := request.Validate(h.maxFileSize); err != nil {
		if errors.Is(err, dto.ErrFileTooLarge) {
			h.sendError(c, http.StatusRequestEntityTooLarge, "File too large", err)
			return
		}
		h.sendError(c, http.StatusBadRequest, "Invalid upload", err)
		return
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = dto.MimeTypeFromFilename(file.Filename)
	}
	if !dto.IsSupportedMimeType(mimeType) {
		h.sendError(c, http.StatusBadRequest, "Invalid file type. Supported: PDF, PNG, JPEG", nil)
		return
	}

	reader, err := file.Open()
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to open uploaded file", err)
		return
	}
	defer reader.Close()

	fileData, err := io.ReadAll(reader)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to read file data", err)
		return
	}

	if request.InvoiceID == "" {
		request.InvoiceID = uuid.NewString()
	}

	log.Info("processing claim upload",
		zap.String("filename", file.Filename),
		zap.String("mime_type", mimeType),
		zap.Int64("size", file.Size),
	)

	receipt, err := h.documents.ProcessWithIDs(c.Request.Context(), fileData, mimeType, request.Password, request.InvoiceID, request.SequenceNumber)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPDFDecrypt):
			h.sendError(c, http.StatusBadRequest, "Failed to decrypt PDF. Check password.", err)
		case errors.Is(err, dto.ErrUnsupportedFileType):
			h.sendError(c, http.StatusBadRequest, "Unsupported file", err)
		case errors.Is(err, dto.ErrNoTextExtracted):
			h.sendError(c, http.StatusUnprocessableEntity, "No text could be extracted", err)
		default:
			h.sendError(c, http.StatusInternalServerError, "Failed to extract receipt", err)
		}
		return
	}

	c.JSON(http.StatusOK, utils.RoundReceipt(*receipt))
}

// ExtractBatch handles the POST /receipts/batch endpoint
func (h *ReceiptHandler) ExtractBatch(c *gin.Context) {
	var req dto.BatchExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := req.Validate(h.maxBatchSize); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid batch", err)
		return
	}

	for i := range req.Documents {
		if req.Documents[i].InvoiceID == "" {
			req.Documents[i].InvoiceID = uuid.NewString()
		}
	}

	items := h.receipts.ExtractBatch(c.Request.Context(), req.Documents)
	for i := range items {
		if items[i].Receipt != nil {
			rounded := utils.RoundReceipt(*items[i].Receipt)
			items[i].Receipt = &rounded
		}
	}

	c.JSON(http.StatusOK, dto.BatchExtractResponse{
		Items:       items,
		ProcessedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// sendError sends a structured error response
func (h *ReceiptHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		_ = c.Error(err)
		logger.WithContext(c.Request.Context(), h.logger).Warn(message, zap.Error(err))
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "RECEIPT_EXTRACTION_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}
