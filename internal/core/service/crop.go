package service

import (
	"context"
	"fmt"

	"imager/internal/core/domain"
	"imager/internal/core/port"

	"github.com/rs/zerolog/log"
)

// cropContentTypes are handed to storage with crop output. JPEG uses "image/jpg" so the
// derivative key keeps its source extension through suffix normalization.
var cropContentTypes = map[domain.Format]string{
	domain.FormatPNG:  "image/png",
	domain.FormatJPEG: "image/jpg",
	domain.FormatGIF:  "image/gif",
	domain.FormatWEBP: "image/webp",
}

type CropService struct {
	storage   port.Storage
	converter port.ImageConverter
}

func NewCropService(storage port.Storage, converter port.ImageConverter) *CropService {
	return &CropService{storage: storage, converter: converter}
}

// Crop cuts params out of the named source and stores the result under its derivative key.
// The output codec follows the sniffed source format, not the filename.
func (s *CropService) Crop(ctx context.Context, name string, params domain.CropParams) error {
	l := log.With().
		Str("source", name).
		Str("params", params.String()).
		Logger()

	l.Debug().Msg("cropping image")

	if err := params.Validate(); err != nil {
		return fmt.Errorf("crop %s: %w", params, err)
	}

	src, err := s.storage.Fetch(ctx, name)
	if err != nil {
		return err
	}

	format := s.converter.Detect(src.Data)
	contentType, ok := cropContentTypes[format]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, name)
	}

	img, err := s.converter.Decode(src.Data)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}

	cropped, err := s.converter.Crop(img, params.Rect())
	if err != nil {
		return err
	}

	data, err := s.converter.Encode(cropped, format)
	if err != nil {
		return err
	}

	stored, err := s.storage.Store(ctx, data, domain.DerivativeKey(name, params), contentType)
	if err != nil {
		return err
	}

	l.Info().Str("derivative", stored).Msg("crop stored")

	return nil
}
