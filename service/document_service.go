package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/usifszone1/bills/dto"
	"github.com/usifszone1/bills/metrics"
)

// minTextLayerChars is the number of non-space characters below which a PDF
// is treated as scanned and its page images are sent to OCR.
const minTextLayerChars = 20

// Document kinds reported by ExtractText.
const (
	KindPDF        = "pdf"
	KindScannedPDF = "scanned_pdf"
	KindImage      = "image"
)

// OCRClient recognizes text in an encoded image.
type OCRClient interface {
	ExtractTextAndQuality(imageData []byte) (string, float64, error)
}

// ExtractedText is the raw text recovered from an uploaded document.
type ExtractedText struct {
	Text       string
	Kind       string
	Confidence float64
	ClaimCode  string
}

// DocumentService acquires text from uploaded claim files and hands it to
// the ReceiptService.
type DocumentService struct {
	logger       *zap.Logger
	metrics      *metrics.Metrics
	pdfProcessor PDFProcessor
	ocr          OCRClient
	barcodes     ClaimCodeReader
	receipts     *ReceiptService
}

// NewDocumentService wires the acquisition collaborators. ocr and barcodes
// may be nil, which disables OCR and barcode lookup respectively.
func NewDocumentService(
	pdfProcessor PDFProcessor,
	ocr OCRClient,
	barcodes ClaimCodeReader,
	receipts *ReceiptService,
	logger *zap.Logger,
	m *metrics.Metrics,
) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{
		logger:       logger,
		metrics:      m,
		pdfProcessor: pdfProcessor,
		ocr:          ocr,
		barcodes:     barcodes,
		receipts:     receipts,
	}
}

// Process extracts a receipt from an uploaded PDF, PNG or JPEG.
func (s *DocumentService) Process(ctx context.Context, data []byte, mimeType, password string) (*dto.ReceiptData, error) {
	return s.ProcessWithIDs(ctx, data, mimeType, password, "", 0)
}

// ProcessWithIDs is Process with caller-assigned identifiers echoed into the
// receipt. A barcode claim code only fills the field when the text had none.
func (s *DocumentService) ProcessWithIDs(ctx context.Context, data []byte, mimeType, password, invoiceID string, sequenceNumber int) (*dto.ReceiptData, error) {
	extracted, err := s.ExtractText(ctx, data, mimeType, password)
	if err != nil {
		return nil, err
	}

	receipt := s.receipts.ExtractReceiptDataWithIDs(extracted.Text, invoiceID, sequenceNumber)
	if receipt.Customer.ClaimCode == "" && extracted.ClaimCode != "" {
		receipt.Customer.ClaimCode = extracted.ClaimCode
	}
	return &receipt, nil
}

// ExtractText recovers document text without interpreting it.
func (s *DocumentService) ExtractText(ctx context.Context, data []byte, mimeType, password string) (*ExtractedText, error) {
	var (
		extracted *ExtractedText
		err       error
		kind      = KindImage
	)

	switch {
	case dto.IsPDFMimeType(mimeType):
		kind = KindPDF
		extracted, err = s.extractPDF(ctx, data, password)
	case dto.IsImageMimeType(mimeType):
		extracted, err = s.extractImage(data, mimeType)
	default:
		return nil, fmt.Errorf("%w: %q", dto.ErrUnsupportedFileType, mimeType)
	}

	if err == nil && strings.TrimSpace(extracted.Text) == "" {
		err = dto.ErrNoTextExtracted
	}
	if err != nil {
		s.metrics.RecordDocument(kind, false)
		return nil, err
	}

	s.metrics.RecordDocument(extracted.Kind, true)
	s.logger.Info("document text extracted",
		zap.String("kind", extracted.Kind),
		zap.Int("chars", len(extracted.Text)),
		zap.Float64("confidence", extracted.Confidence),
		zap.Bool("claim_barcode", extracted.ClaimCode != ""),
	)
	return extracted, nil
}

func (s *DocumentService) extractPDF(ctx context.Context, data []byte, password string) (*ExtractedText, error) {
	text, err := s.pdfProcessor.ExtractText(data, password)
	if err != nil {
		if errors.Is(err, ErrPDFDecrypt) {
			return nil, err
		}
		s.logger.Warn("pdf text extraction failed", zap.Error(err))
	}

	if nonSpaceChars(text) >= minTextLayerChars {
		return &ExtractedText{Text: text, Kind: KindPDF, Confidence: 100}, nil
	}

	s.logger.Info("pdf has little or no text layer, attempting page OCR",
		zap.Int("chars", nonSpaceChars(text)),
	)

	images, err := s.pdfProcessor.ExtractImages(data, password)
	if err != nil || len(images) == 0 {
		s.logger.Warn("failed to extract page images", zap.Error(err))
		if nonSpaceChars(text) > 0 {
			return &ExtractedText{Text: text, Kind: KindPDF, Confidence: 100}, nil
		}
		return nil, fmt.Errorf("%w: pdf has no text layer and no page images", dto.ErrNoTextExtracted)
	}

	extracted, err := s.ocrPages(ctx, images)
	if err != nil {
		return nil, err
	}
	extracted.Kind = KindScannedPDF
	return extracted, nil
}

func (s *DocumentService) extractImage(data []byte, mimeType string) (*ExtractedText, error) {
	img, err := decodeImage(data, mimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image: %v", dto.ErrUnsupportedFileType, err)
	}

	if s.ocr == nil {
		return nil, fmt.Errorf("%w: OCR is disabled", dto.ErrNoTextExtracted)
	}

	text, conf, err := s.ocr.ExtractTextAndQuality(data)
	s.metrics.RecordOCRPage(err == nil)
	if err != nil {
		return nil, fmt.Errorf("image OCR failed: %w", err)
	}

	return &ExtractedText{
		Text:       text,
		Kind:       KindImage,
		Confidence: conf,
		ClaimCode:  s.readClaimCode(img),
	}, nil
}

// ocrPages recognizes each page in order and joins the text with newlines.
// A page that fails is logged and skipped.
func (s *DocumentService) ocrPages(ctx context.Context, pages []image.Image) (*ExtractedText, error) {
	if s.ocr == nil {
		return nil, fmt.Errorf("%w: scanned pdf and OCR is disabled", dto.ErrNoTextExtracted)
	}

	var (
		combined  strings.Builder
		totalConf float64
		ocrCount  int
		claimCode string
	)

	for idx, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if claimCode == "" {
			claimCode = s.readClaimCode(page)
		}

		buf := new(bytes.Buffer)
		if err := png.Encode(buf, page); err != nil {
			s.logger.Warn("failed to encode page", zap.Int("page", idx+1), zap.Error(err))
			continue
		}

		pageText, conf, err := s.ocr.ExtractTextAndQuality(buf.Bytes())
		s.metrics.RecordOCRPage(err == nil)
		if err != nil {
			s.logger.Warn("page OCR failed", zap.Int("page", idx+1), zap.Error(err))
			continue
		}

		combined.WriteString(pageText)
		combined.WriteString("\n")
		totalConf += conf
		ocrCount++
	}

	if ocrCount == 0 {
		return nil, fmt.Errorf("%w: OCR failed on every page", dto.ErrNoTextExtracted)
	}

	return &ExtractedText{
		Text:       combined.String(),
		Confidence: totalConf / float64(ocrCount),
		ClaimCode:  claimCode,
	}, nil
}

func (s *DocumentService) readClaimCode(img image.Image) string {
	if s.barcodes == nil {
		return ""
	}
	code, err := s.barcodes.ReadClaimCode(img)
	s.metrics.RecordBarcode(err == nil)
	if err != nil {
		if !errors.Is(err, ErrNoClaimBarcode) {
			s.logger.Debug("claim barcode lookup failed", zap.Error(err))
		}
		return ""
	}
	return code
}

func decodeImage(data []byte, mimeType string) (image.Image, error) {
	reader := bytes.NewReader(data)

	if dto.IsPNGMimeType(mimeType) {
		return png.Decode(reader)
	} else if dto.IsJPEGMimeType(mimeType) {
		return jpeg.Decode(reader)
	}

	img, _, err := image.Decode(reader)
	return img, err
}

func nonSpaceChars(text string) int {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
