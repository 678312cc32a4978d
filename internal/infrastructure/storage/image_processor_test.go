package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFixture(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var b bytes.Buffer
	require.NoError(t, png.Encode(&b, img))
	return b.Bytes()
}

func decodeBounds(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy()
}

func TestValidateImageAcceptsPNG(t *testing.T) {
	p := NewImageProcessor()
	assert.NoError(t, p.ValidateImage(pngFixture(t, 10, 10)))
}

func TestValidateImageRejectsNonImages(t *testing.T) {
	p := NewImageProcessor()
	assert.Error(t, p.ValidateImage([]byte("not an image at all")))
}

func TestValidateImageRejectsOversized(t *testing.T) {
	p := NewImageProcessor()
	p.MaxSize = 16
	assert.Error(t, p.ValidateImage(pngFixture(t, 10, 10)))
}

func TestResizeShrinksToFitPreservingAspect(t *testing.T) {
	p := NewImageProcessor()

	out, err := p.Resize(pngFixture(t, 400, 200), "image/png", 100, 100)
	require.NoError(t, err)

	w, h := decodeBounds(t, out)
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h)
}

func TestResizeNeverUpscales(t *testing.T) {
	p := NewImageProcessor()

	out, err := p.Resize(pngFixture(t, 40, 30), "image/png", 1000, 1000)
	require.NoError(t, err)

	w, h := decodeBounds(t, out)
	assert.Equal(t, 40, w)
	assert.Equal(t, 30, h)
}

func TestResizeDefaultsBounds(t *testing.T) {
	p := NewImageProcessor()

	out, err := p.Resize(pngFixture(t, 2400, 1200), "image/jpeg", 0, 0)
	require.NoError(t, err)

	w, h := decodeBounds(t, out)
	assert.Equal(t, DefaultMaxWidth, w)
	assert.Equal(t, DefaultMaxHeight/2, h)
}

func TestAvatarVariantsStayWithinBounds(t *testing.T) {
	p := NewImageProcessor()

	variants, err := p.AvatarVariants(pngFixture(t, 800, 800))
	require.NoError(t, err)

	w, h := decodeBounds(t, variants["large"])
	assert.Equal(t, 600, w)
	assert.Equal(t, 600, h)

	w, h = decodeBounds(t, variants["thumbnail"])
	assert.Equal(t, 150, w)
	assert.Equal(t, 150, h)
}
