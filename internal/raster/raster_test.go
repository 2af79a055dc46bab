package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageRGBAccessors(t *testing.T) {
	img := NewImage(2, 3, 3)
	img.SetRGB(1, 2, 10, 20, 30)

	r, g, b := img.RGBAt(1, 2)
	assert.Equal(t, uint8(10), r)
	assert.Equal(t, uint8(20), g)
	assert.Equal(t, uint8(30), b)

	r, g, b = img.RGBAt(0, 0)
	assert.Zero(t, r)
	assert.Zero(t, g)
	assert.Zero(t, b)
}

func TestEmpty(t *testing.T) {
	assert.True(t, (&Image{Height: 0, Width: 5, Channels: 3}).Empty())
	assert.True(t, (&Gray{Height: 5, Width: 0}).Empty())
	assert.False(t, NewImage(1, 1, 3).Empty())
}

func TestAsGraySharesBuffer(t *testing.T) {
	img := NewImage(2, 2, 1)
	img.Pix[3] = 99

	gray := img.AsGray()
	require.Equal(t, uint8(99), gray.At(1, 1))

	gray.Set(0, 0, 7)
	assert.Equal(t, uint8(7), img.Pix[0])
}

func TestFromImageNRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(1, 0, color.NRGBA{R: 50, G: 100, B: 150, A: 255})

	plane := FromImage(src)
	require.Equal(t, 3, plane.Channels)
	r, g, b := plane.RGBAt(0, 1)
	assert.Equal(t, uint8(50), r)
	assert.Equal(t, uint8(100), g)
	assert.Equal(t, uint8(150), b)
}

func TestFromImageGray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 2))
	src.Pix[4] = 200

	plane := FromImage(src)
	require.Equal(t, 1, plane.Channels)
	assert.Equal(t, uint8(200), plane.Pix[4])
}

func TestFromImageNonZeroOrigin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(2, 3, 6, 8))
	plane := FromImage(src)
	assert.Equal(t, 5, plane.Height)
	assert.Equal(t, 4, plane.Width)
}

func TestGrayToImageRoundTrip(t *testing.T) {
	gray := NewGray(3, 4)
	for i := range gray.Pix {
		gray.Pix[i] = uint8(i * 3)
	}

	img := gray.ToImage()
	back := FromImage(img)
	require.Equal(t, 1, back.Channels)
	assert.Equal(t, gray.Pix, back.Pix)
}

func TestGradientAccessors(t *testing.T) {
	g := NewGradient(2, 2)
	g.Set(1, 0, -42)
	assert.EqualValues(t, -42, g.At(1, 0))
	assert.Zero(t, g.At(0, 0))
}
