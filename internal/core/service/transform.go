package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"imager/internal/core/domain"
	"imager/internal/core/port"
	"imager/internal/metrics"

	"github.com/rs/zerolog/log"
)

const (
	kindCrop   = "crop"
	kindResize = "resize"
)

// TransformService serves originals and derivatives and schedules derivative generation in the
// background. A derivative key is queued or generating at most once at a time.
type TransformService struct {
	storage   port.Storage
	cropper   port.Cropper
	resizer   port.Resizer
	scheduler port.Scheduler

	mu      sync.Mutex
	pending map[string]struct{}
}

func NewTransformService(storage port.Storage, cropper port.Cropper, resizer port.Resizer,
	scheduler port.Scheduler) *TransformService {
	return &TransformService{
		storage:   storage,
		cropper:   cropper,
		resizer:   resizer,
		scheduler: scheduler,
		pending:   make(map[string]struct{}),
	}
}

// Original returns the stored asset under name.
func (s *TransformService) Original(ctx context.Context, name string) (*domain.Asset, error) {
	if err := domain.ValidateFilename(name); err != nil {
		return nil, err
	}

	return s.storage.Fetch(ctx, name)
}

// Upload stores an upload whose declared content type is allowed.
func (s *TransformService) Upload(ctx context.Context, upload domain.Upload) (string, error) {
	contentType, err := allowedContentType(upload.ContentType)
	if err != nil {
		return "", err
	}

	if err := domain.ValidateFilename(upload.Filename); err != nil {
		return "", err
	}

	upload.ContentType = contentType

	stored, err := s.storage.StoreUpload(ctx, upload)
	if err != nil {
		return "", err
	}

	log.Info().Str("filename", stored).Str("contentType", contentType).Msg("upload stored")

	return stored, nil
}

// RequestCrop schedules a crop of the named source and returns once it is accepted.
func (s *TransformService) RequestCrop(ctx context.Context, name string, params domain.CropParams) error {
	if err := params.Validate(); err != nil {
		return fmt.Errorf("crop %s: %w", params, err)
	}

	if err := s.ensureSource(ctx, name); err != nil {
		return err
	}

	return s.schedule(kindCrop, domain.DerivativeKey(name, params), func(ctx context.Context) error {
		return s.cropper.Crop(ctx, name, params)
	})
}

// Resized returns the resize derivative when it exists. Otherwise it schedules generation and
// fails with domain.ErrPending.
func (s *TransformService) Resized(ctx context.Context, name string, params domain.ResizeParams) (*domain.Asset, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("resize %s: %w", params, err)
	}

	if err := domain.ValidateFilename(name); err != nil {
		return nil, err
	}

	asset, err := s.storage.FetchDerivative(ctx, name, params)
	if err == nil {
		metrics.RecordCacheLookup(true)
		return asset, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	metrics.RecordCacheLookup(false)

	if err := s.ensureSource(ctx, name); err != nil {
		return nil, err
	}

	err = s.schedule(kindResize, domain.DerivativeKey(name, params), func(ctx context.Context) error {
		return s.resizer.Resize(ctx, name, params)
	})
	if err != nil {
		return nil, err
	}

	return nil, domain.ErrPending
}

func (s *TransformService) ensureSource(ctx context.Context, name string) error {
	if err := domain.ValidateFilename(name); err != nil {
		return err
	}

	exists, err := s.storage.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}

	return nil
}

// schedule submits generate under key. A key that is already queued or generating is not
// submitted again; the request joins the pending generation.
func (s *TransformService) schedule(kind, key string, generate func(ctx context.Context) error) error {
	if !s.claim(key) {
		metrics.DeduplicatedTotal.WithLabelValues(kind).Inc()
		log.Debug().Str("key", key).Str("kind", kind).Msg("generation already pending")
		return nil
	}

	err := s.scheduler.Submit(key, func(ctx context.Context) error {
		defer s.release(key)

		start := time.Now()
		err := generate(ctx)
		metrics.RecordGeneration(kind, err, time.Since(start))

		return err
	})
	if err != nil {
		s.release(key)
		if errors.Is(err, domain.ErrBusy) {
			metrics.RejectedTotal.WithLabelValues(kind).Inc()
			log.Warn().Str("key", key).Msg("generation queue full")
		}

		return err
	}

	log.Debug().Str("key", key).Str("kind", kind).Msg("generation scheduled")

	return nil
}

// claim marks key pending and reports whether it was free.
func (s *TransformService) claim(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[key]; ok {
		return false
	}
	s.pending[key] = struct{}{}

	return true
}

func (s *TransformService) release(key string) {
	s.mu.Lock()
	delete(s.pending, key)
	s.mu.Unlock()
}

// allowedContentType normalizes a declared content type and checks it against the allow list.
func allowedContentType(declared string) (string, error) {
	contentType, _, _ := strings.Cut(declared, ";")
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	if !slices.Contains(domain.AllowedContentTypes, contentType) {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedContentType, declared)
	}

	return contentType, nil
}
