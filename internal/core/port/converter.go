package port

import (
	"image"

	"imager/internal/core/domain"
)

type ImageConverter interface {
	// Detect sniffs the encoded format from the image bytes, ignoring any filename.
	Detect(data []byte) domain.Format
	// Decode decodes the image bytes into a pixel buffer.
	Decode(data []byte) (image.Image, error)
	// Crop copies the given region of img into a new image whose origin is (0, 0).
	Crop(img image.Image, region image.Rectangle) (image.Image, error)
	// Scale interpolates the region of img into a new width x height image.
	Scale(img image.Image, region image.Rectangle, width, height int) (image.Image, error)
	// Encode writes img with the codec registered for format.
	Encode(img image.Image, format domain.Format) ([]byte, error)
}
