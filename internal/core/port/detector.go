package port

import (
	"image"

	"imager/internal/core/domain"
)

type FaceDetector interface {
	// Detect returns the faces found in img in detector order.
	Detect(img image.Image) ([]domain.FaceRegion, error)
}
