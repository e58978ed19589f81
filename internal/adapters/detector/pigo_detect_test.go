package detector

import (
	"image"
	_ "image/jpeg"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"

	"imager/internal/core/domain"
)

func loadSample(t *testing.T) image.Image {
	t.Helper()
	f, err := os.Open("testdata/sample.jpg")
	require.NoError(t, err)
	defer f.Close()

	img, _, err := image.Decode(f)
	require.NoError(t, err)
	return img
}

// withOrigin copies img into an image whose bounds start at origin.
func withOrigin(img image.Image, origin image.Point) image.Image {
	dst := image.NewRGBA(img.Bounds().Sub(img.Bounds().Min).Add(origin))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}

func TestBundledCascadeFindsFaces(t *testing.T) {
	d, err := NewPigoDetector("", DefaultOptions())
	require.NoError(t, err)

	img := loadSample(t)
	faces, err := d.Detect(img)
	require.NoError(t, err)
	require.NotEmpty(t, faces)

	for _, f := range faces {
		assert.Positive(t, f.Width)
		assert.Equal(t, f.Width, f.Height)
		assert.False(t, f.Rect().Intersect(img.Bounds()).Empty())
	}
}

func TestDetectReportsSourceCoordinates(t *testing.T) {
	d, err := NewPigoDetector("", DefaultOptions())
	require.NoError(t, err)

	img := loadSample(t)
	origin := image.Pt(37, 21)

	atZero, err := d.Detect(withOrigin(img, image.Point{}))
	require.NoError(t, err)
	require.NotEmpty(t, atZero)

	shifted, err := d.Detect(withOrigin(img, origin))
	require.NoError(t, err)

	want := make([]domain.FaceRegion, len(atZero))
	for i, f := range atZero {
		f.X += origin.X
		f.Y += origin.Y
		want[i] = f
	}

	assert.Equal(t, want, shifted)
}

func TestDetectBlankImage(t *testing.T) {
	d, err := NewPigoDetector("", DefaultOptions())
	require.NoError(t, err)

	faces, err := d.Detect(image.NewRGBA(image.Rect(10, 10, 210, 160)))
	require.NoError(t, err)
	assert.Empty(t, faces)
}

func TestDetectEmptyImage(t *testing.T) {
	d, err := NewPigoDetector("", DefaultOptions())
	require.NoError(t, err)

	_, err = d.Detect(image.NewRGBA(image.Rectangle{}))
	assert.Error(t, err)
}

func TestNewPigoDetectorFromPath(t *testing.T) {
	d, err := NewPigoDetector("cascade/facefinder", DefaultOptions())
	require.NoError(t, err)

	faces, err := d.Detect(loadSample(t))
	require.NoError(t, err)
	assert.NotEmpty(t, faces)
}
