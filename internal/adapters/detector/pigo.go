package detector

import (
	_ "embed"
	"errors"
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
	"github.com/rs/zerolog/log"

	"imager/internal/core/domain"
)

type Options struct {
	MinSize          int
	MaxSize          int
	ShiftFactor      float64
	ScaleFactor      float64
	IoUThreshold     float64
	QualityThreshold float32
}

func DefaultOptions() Options {
	return Options{
		MinSize:          20,
		MaxSize:          1000,
		ShiftFactor:      0.1,
		ScaleFactor:      1.1,
		IoUThreshold:     0.2,
		QualityThreshold: 5.0,
	}
}

// PigoDetector finds frontal faces with a pigo cascade classifier.
type PigoDetector struct {
	classifier *pigo.Pigo
	opts       Options
}

//go:embed cascade/facefinder
var facefinder []byte

// NewPigoDetector loads the cascade file at cascadePath. An empty path selects the bundled
// facefinder cascade.
func NewPigoDetector(cascadePath string, opts Options) (*PigoDetector, error) {
	if cascadePath == "" {
		return newPigoDetector(facefinder, "bundled facefinder", opts)
	}

	cascade, err := os.ReadFile(cascadePath)
	if err != nil {
		err = fmt.Errorf("error reading cascade file %w", err)
		log.Error().Err(err).Str("path", cascadePath).Send()
		return nil, err
	}

	return newPigoDetector(cascade, cascadePath, opts)
}

func newPigoDetector(cascade []byte, source string, opts Options) (*PigoDetector, error) {
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		err = fmt.Errorf("error unpacking cascade file %w", err)
		log.Error().Err(err).Str("cascade", source).Send()
		return nil, err
	}

	log.Debug().Str("cascade", source).Msg("face cascade loaded")

	return &PigoDetector{classifier: classifier, opts: opts}, nil
}

func (d *PigoDetector) Detect(img image.Image) ([]domain.FaceRegion, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New("empty image")
	}

	bounds := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			nrgba.Set(x-bounds.Min.X, y-bounds.Min.Y, img.At(x, y))
		}
	}

	params := pigo.CascadeParams{
		MinSize:     d.opts.MinSize,
		MaxSize:     d.opts.MaxSize,
		ShiftFactor: d.opts.ShiftFactor,
		ScaleFactor: d.opts.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(nrgba),
			Rows:   bounds.Dy(),
			Cols:   bounds.Dx(),
			Dim:    bounds.Dx(),
		},
	}

	detections := d.classifier.RunCascade(params, 0.0)
	detections = d.classifier.ClusterDetections(detections, d.opts.IoUThreshold)

	var faces []domain.FaceRegion
	for _, det := range detections {
		if det.Q < d.opts.QualityThreshold {
			continue
		}

		faces = append(faces, toFaceRegion(det, bounds.Min))
	}

	log.Debug().Int("candidates", len(detections)).Int("faces", len(faces)).Msg("face detection finished")

	return faces, nil
}

// toFaceRegion converts a detection centred on (Col, Row) into a box in source coordinates.
func toFaceRegion(det pigo.Detection, origin image.Point) domain.FaceRegion {
	return domain.FaceRegion{
		X:      origin.X + det.Col - det.Scale/2,
		Y:      origin.Y + det.Row - det.Scale/2,
		Width:  det.Scale,
		Height: det.Scale,
	}
}

// NoopDetector never finds a face. It stands in when face detection is disabled.
type NoopDetector struct{}

func (NoopDetector) Detect(image.Image) ([]domain.FaceRegion, error) {
	return nil, nil
}
