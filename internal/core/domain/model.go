package domain

import (
	"image"
	"io"
	"strings"
)

type Format string

const (
	FormatPNG     Format = "png"
	FormatJPEG    Format = "jpeg"
	FormatGIF     Format = "gif"
	FormatWEBP    Format = "webp"
	FormatUnknown Format = "unknown"
)

// FormatFromExtension maps a filename extension, without the dot, to its format.
func FormatFromExtension(ext string) Format {
	switch strings.ToLower(ext) {
	case "png":
		return FormatPNG
	case "jpg", "jpeg":
		return FormatJPEG
	case "gif":
		return FormatGIF
	case "webp":
		return FormatWEBP
	default:
		return FormatUnknown
	}
}

// Asset is a stored image blob, either an original upload or a generated derivative.
type Asset struct {
	Name        string
	Data        []byte
	ContentType string
}

// Upload is an incoming file as declared by the client.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type CropParams struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect returns the source region covered by the crop box.
func (p CropParams) Rect() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
}

func (p CropParams) Validate() error {
	if p.X < 0 || p.Y < 0 || p.Width < 0 || p.Height < 0 {
		return ErrInvalidParameters
	}

	return nil
}

type ResizeParams struct {
	Width        int
	Height       int
	CenterOnFace bool
}

func (p ResizeParams) Validate() error {
	if p.Width < 0 || p.Height < 0 {
		return ErrInvalidParameters
	}

	return nil
}

// FaceRegion is a face bounding box in source pixel coordinates.
type FaceRegion struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (f FaceRegion) Rect() image.Rectangle {
	return image.Rect(f.X, f.Y, f.X+f.Width, f.Y+f.Height)
}
