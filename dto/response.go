package dto

import "errors"

// Custom errors
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrNoTextExtracted     = errors.New("no text could be extracted from the document")
	ErrFileTooLarge        = errors.New("file exceeds the maximum upload size")
	ErrEmptyBatch          = errors.New("batch is empty")
	ErrTooManyDocuments    = errors.New("too many documents in batch")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// BatchExtractResponse is the response of POST /receipts/batch
type BatchExtractResponse struct {
	Items       []BatchItem `json:"items"`
	ProcessedAt string      `json:"processed_at"`
}
