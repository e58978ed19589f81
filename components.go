package main

import (
	"fmt"

	"imager/internal/adapters/converter"
	"imager/internal/adapters/detector"
	"imager/internal/adapters/file"
	"imager/internal/core/port"
	"imager/internal/core/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type components struct {
	storage *file.Storage
	cropper *service.CropService
	resizer *service.ResizeService
}

func newComponents() (*components, error) {
	storage, err := file.NewStorage(viper.GetString("storage.upload_dir"))
	if err != nil {
		return nil, fmt.Errorf("failed initializing storage: %w", err)
	}

	faceDetector, err := newDetector()
	if err != nil {
		return nil, err
	}

	drawConverter := converter.NewDrawConverter()

	return &components{
		storage: storage,
		cropper: service.NewCropService(storage, drawConverter),
		resizer: service.NewResizeService(storage, drawConverter, faceDetector),
	}, nil
}

// newDetector loads the configured pigo cascade, or the bundled one when no path is set.
func newDetector() (port.FaceDetector, error) {
	if !viper.GetBool("face.enabled") {
		log.Warn().Msg("face detection disabled, face centering falls back to full frame")
		return detector.NoopDetector{}, nil
	}

	d, err := detector.NewPigoDetector(viper.GetString("face.cascade_path"), detector.Options{
		MinSize:          viper.GetInt("face.min_size"),
		MaxSize:          viper.GetInt("face.max_size"),
		ShiftFactor:      viper.GetFloat64("face.shift_factor"),
		ScaleFactor:      viper.GetFloat64("face.scale_factor"),
		IoUThreshold:     viper.GetFloat64("face.iou_threshold"),
		QualityThreshold: float32(viper.GetFloat64("face.quality_threshold")),
	})
	if err != nil {
		return nil, fmt.Errorf("failed initializing face detector: %w", err)
	}

	return d, nil
}
