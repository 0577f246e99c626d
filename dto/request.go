package dto

import (
	"fmt"
	"mime/multipart"
)

// ExtractTextRequest is the JSON body of POST /receipts/extract.
// An empty Text is allowed and yields the default receipt.
type ExtractTextRequest struct {
	Text           string `json:"text"`
	InvoiceID      string `json:"invoice_id"`
	SequenceNumber int    `json:"sequence_number"`
}

// BatchExtractRequest is the JSON body of POST /receipts/batch.
type BatchExtractRequest struct {
	Documents []TextDocument `json:"documents" binding:"required"`
}

// Validate checks the batch size against the configured limit
func (r *BatchExtractRequest) Validate(maxDocuments int) error {
	if len(r.Documents) == 0 {
		return fmt.Errorf("%w: no documents provided", ErrEmptyBatch)
	}
	if maxDocuments > 0 && len(r.Documents) > maxDocuments {
		return fmt.Errorf("%w: got %d, limit is %d", ErrTooManyDocuments, len(r.Documents), maxDocuments)
	}
	return nil
}

// UploadRequest represents a claim document uploaded as multipart form data
type UploadRequest struct {
	File           *multipart.FileHeader
	Password       string
	InvoiceID      string
	SequenceNumber int
}

// Validate validates the uploaded file's size and extension
func (r *UploadRequest) Validate(maxSize int64) error {
	if r.File == nil {
		return fmt.Errorf("file is required")
	}
	if maxSize > 0 && r.File.Size > maxSize {
		return fmt.Errorf("%w: %d bytes", ErrFileTooLarge, r.File.Size)
	}

	if MimeTypeFromFilename(r.File.Filename) != "" {
		return nil
	}
	return fmt.Errorf("%w: supported types are PDF, PNG, JPG", ErrUnsupportedFileType)
}
