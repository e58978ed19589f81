package service

import (
	"context"
	"fmt"
	"image"

	"imager/internal/core/domain"
	"imager/internal/core/port"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ResizeService struct {
	storage   port.Storage
	converter port.ImageConverter
	detector  port.FaceDetector
}

func NewResizeService(storage port.Storage, converter port.ImageConverter, detector port.FaceDetector) *ResizeService {
	return &ResizeService{storage: storage, converter: converter, detector: detector}
}

// Resize scales the named source to exactly params.Width x params.Height and stores the result
// under its derivative key. With CenterOnFace the first detected face is used as the source
// region. The output codec follows the source extension.
func (s *ResizeService) Resize(ctx context.Context, name string, params domain.ResizeParams) error {
	l := log.With().
		Str("source", name).
		Str("params", params.String()).
		Logger()

	l.Debug().Msg("resizing image")

	if err := params.Validate(); err != nil {
		return fmt.Errorf("resize %s: %w", params, err)
	}

	src, err := s.storage.Fetch(ctx, name)
	if err != nil {
		return err
	}

	img, err := s.converter.Decode(src.Data)
	if err != nil {
		return fmt.Errorf("%w: %s is not a readable image: %v", domain.ErrNotFound, name, err)
	}

	region := img.Bounds()
	if params.CenterOnFace {
		region = s.faceRegion(img, l)
	}

	scaled, err := s.converter.Scale(img, region, params.Width, params.Height)
	if err != nil {
		return err
	}

	_, ext := domain.SplitName(name)
	format := domain.FormatFromExtension(ext)
	if format == domain.FormatUnknown {
		return fmt.Errorf("%w: extension %q", domain.ErrUnsupportedFormat, ext)
	}

	data, err := s.converter.Encode(scaled, format)
	if err != nil {
		return err
	}

	stored, err := s.storage.Store(ctx, data, domain.DerivativeKey(name, params), "")
	if err != nil {
		return err
	}

	l.Info().Str("derivative", stored).Msg("resize stored")

	return nil
}

// faceRegion returns the first detected face clipped to the image, or the full frame when
// detection fails, finds nothing, or the clip is empty.
func (s *ResizeService) faceRegion(img image.Image, l zerolog.Logger) image.Rectangle {
	bounds := img.Bounds()

	faces, err := s.detector.Detect(img)
	if err != nil {
		l.Warn().Err(err).Msg("face detection failed, using full frame")
		return bounds
	}

	if len(faces) == 0 {
		l.Debug().Msg("no face found, using full frame")
		return bounds
	}

	region := faces[0].Rect().Intersect(bounds)
	if region.Empty() {
		return bounds
	}

	l.Debug().Interface("face", faces[0]).Msg("centering on face")

	return region
}
