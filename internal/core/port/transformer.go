package port

import (
	"context"

	"imager/internal/core/domain"
)

type Cropper interface {
	// Crop writes the crop derivative of the named source through storage.
	Crop(ctx context.Context, name string, params domain.CropParams) error
}

type Resizer interface {
	// Resize writes the resize derivative of the named source through storage.
	Resize(ctx context.Context, name string, params domain.ResizeParams) error
}

type Scheduler interface {
	// Submit queues task for background execution under key and returns without waiting.
	// It fails with domain.ErrBusy when the queue is full.
	Submit(key string, task func(ctx context.Context) error) error
}
