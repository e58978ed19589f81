package port

import (
	"context"

	"imager/internal/core/domain"
)

type Storage interface {
	// Fetch reads the asset stored under name, failing with domain.ErrNotFound when it is absent.
	Fetch(ctx context.Context, name string) (*domain.Asset, error)
	// FetchDerivative reads the derivative of name produced by params. It never generates.
	FetchDerivative(ctx context.Context, name string, params domain.Params) (*domain.Asset, error)
	// Exists reports whether an asset is stored under name.
	Exists(ctx context.Context, name string) (bool, error)
	// Store writes data under the suffix-normalized form of name and returns the stored name.
	// An empty contentType means the type is unknown.
	Store(ctx context.Context, data []byte, name, contentType string) (string, error)
	// StoreUpload stores an upload under its declared filename and content type.
	StoreUpload(ctx context.Context, upload domain.Upload) (string, error)
}
