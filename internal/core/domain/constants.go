package domain

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrUnsupportedFormat      = errors.New("unsupported image format")
	ErrInvalidParameters      = errors.New("invalid parameters")
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrInvalidFilename        = errors.New("invalid filename")
	ErrUploadTooLarge         = errors.New("upload too large")

	// ErrPending signals that a derivative is missing but generation has been scheduled.
	ErrPending = errors.New("derivative generation in progress")
	// ErrBusy signals that the background queue cannot take more work.
	ErrBusy = errors.New("generation queue full")
)

// AllowedContentTypes lists the content types accepted for uploads.
var AllowedContentTypes = []string{"image/jpeg", "image/png", "image/gif"}
