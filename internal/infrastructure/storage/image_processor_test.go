package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, G: 150, B: 50, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidateImage(t *testing.T) {
	p := NewImageProcessor(0)

	info, err := p.ValidateImage(pngBytes(t, 40, 20))
	require.NoError(t, err)
	assert.Equal(t, "png", info.Format)
	assert.Equal(t, "image/png", info.ContentType)
	assert.Equal(t, 40, info.Width)

	_, err = p.ValidateImage([]byte("not an image"))
	assert.Error(t, err)
}

func TestValidateImageTooLarge(t *testing.T) {
	p := NewImageProcessor(10)
	_, err := p.ValidateImage(pngBytes(t, 40, 20))
	assert.Error(t, err)
}

func TestProcessImageVariants(t *testing.T) {
	p := NewImageProcessor(0)

	variants, err := p.ProcessImage(pngBytes(t, 1600, 800))
	require.NoError(t, err)
	require.Len(t, variants, len(VariantSizes))

	thumb, err := jpeg.Decode(bytes.NewReader(variants["thumbnail"]))
	require.NoError(t, err)
	assert.Equal(t, 300, thumb.Bounds().Dx())
	assert.Equal(t, 150, thumb.Bounds().Dy())
}
