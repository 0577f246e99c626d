package dto

import (
	"path/filepath"
	"strings"
)

// Supported document MIME types
const (
	MimeTypePDF  = "application/pdf"
	MimeTypePNG  = "image/png"
	MimeTypeJPEG = "image/jpeg"
)

var extensionMimeTypes = map[string]string{
	".pdf":  MimeTypePDF,
	".png":  MimeTypePNG,
	".jpg":  MimeTypeJPEG,
	".jpeg": MimeTypeJPEG,
}

// MimeTypeFromFilename returns the MIME type for a supported file extension,
// or "" for anything else.
func MimeTypeFromFilename(filename string) string {
	return extensionMimeTypes[strings.ToLower(filepath.Ext(filename))]
}

// IsPDFMimeType reports whether mimeType names a PDF. Parameters and case are ignored.
func IsPDFMimeType(mimeType string) bool {
	return strings.Contains(strings.ToLower(mimeType), "pdf")
}

func IsPNGMimeType(mimeType string) bool {
	return strings.Contains(strings.ToLower(mimeType), "png")
}

// IsJPEGMimeType accepts both image/jpeg and the non-standard image/jpg.
func IsJPEGMimeType(mimeType string) bool {
	lower := strings.ToLower(mimeType)
	return strings.Contains(lower, "jpeg") || strings.Contains(lower, "jpg")
}

func IsImageMimeType(mimeType string) bool {
	return IsPNGMimeType(mimeType) || IsJPEGMimeType(mimeType)
}

// IsSupportedMimeType reports whether a document of this type can be processed
func IsSupportedMimeType(mimeType string) bool {
	return IsPDFMimeType(mimeType) || IsImageMimeType(mimeType)
}
