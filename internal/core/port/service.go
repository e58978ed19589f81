package port

import (
	"context"

	"imager/internal/core/domain"
)

type ImageService interface {
	Original(ctx context.Context, name string) (*domain.Asset, error)
	Upload(ctx context.Context, upload domain.Upload) (string, error)
	RequestCrop(ctx context.Context, name string, params domain.CropParams) error
	// Resized returns the resize derivative, or domain.ErrPending once generation is scheduled.
	Resized(ctx context.Context, name string, params domain.ResizeParams) (*domain.Asset, error)
}
