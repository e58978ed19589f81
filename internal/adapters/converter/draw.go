package converter

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"imager/internal/core/domain"
)

// DrawConverter implements port.ImageConverter with the standard codecs and golang.org/x/image.
type DrawConverter struct {
	interpolator draw.Interpolator
}

func NewDrawConverter() *DrawConverter {
	return &DrawConverter{interpolator: draw.CatmullRom}
}

func (c *DrawConverter) Detect(data []byte) domain.Format {
	mime := mimetype.Detect(data)

	switch {
	case mime.Is("image/png"):
		return domain.FormatPNG
	case mime.Is("image/jpeg"):
		return domain.FormatJPEG
	case mime.Is("image/gif"):
		return domain.FormatGIF
	case mime.Is("image/webp"):
		return domain.FormatWEBP
	default:
		log.Debug().Str("mime", mime.String()).Msg("no image format for detected type")
		return domain.FormatUnknown
	}
}

func (c *DrawConverter) Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.New("empty image data")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error decoding image %w", err)
	}

	if img.Bounds().Empty() {
		return nil, errors.New("decoded image is empty")
	}

	log.Debug().Str("format", format).Int("width", img.Bounds().Dx()).Int("height", img.Bounds().Dy()).
		Msg("decoded image")

	return img, nil
}

func (c *DrawConverter) Crop(img image.Image, region image.Rectangle) (image.Image, error) {
	bounds := img.Bounds()
	region = region.Add(bounds.Min)

	if region.Empty() || !region.In(bounds) {
		return nil, fmt.Errorf("%w: crop region %v outside image bounds %v", domain.ErrInvalidParameters,
			region.Sub(bounds.Min), bounds.Sub(bounds.Min))
	}

	dst := image.NewRGBA(image.Rect(0, 0, region.Dx(), region.Dy()))
	draw.Draw(dst, dst.Bounds(), img, region.Min, draw.Src)

	return dst, nil
}

func (c *DrawConverter) Scale(img image.Image, region image.Rectangle, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: target size %dx%d", domain.ErrInvalidParameters, width, height)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	c.interpolator.Scale(dst, dst.Bounds(), img, region, draw.Src, nil)

	return dst, nil
}

func (c *DrawConverter) Encode(img image.Image, format domain.Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case domain.FormatPNG:
		enc := png.Encoder{CompressionLevel: png.NoCompression}
		err = enc.Encode(&buf, img)
	case domain.FormatJPEG, domain.FormatWEBP:
		// there is no webp encoder, webp sources are written as jpeg
		err = jpeg.Encode(&buf, img, nil)
	case domain.FormatGIF:
		err = gif.Encode(&buf, img, nil)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}

	if err != nil {
		return nil, fmt.Errorf("error encoding %s image %w", format, err)
	}

	log.Debug().Str("format", string(format)).Int("bytes", buf.Len()).Msg("encoded image")

	return buf.Bytes(), nil
}
