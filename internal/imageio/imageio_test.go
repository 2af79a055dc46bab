package imageio

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailinx/edgeunity/internal/errors"
	"github.com/kailinx/edgeunity/internal/raster"
)

func writeTestPNG(t *testing.T, dir string, height, width int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = uint8(i % 251)
	}
	path := filepath.Join(dir, "in.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, 12, 17)

	img, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, img.Height)
	assert.Equal(t, 17, img.Width)
	assert.Len(t, img.Pix, 12*17*3)
}

func TestLoadNonexistent(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.jpg"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryLoad))
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryLoad))
}

func TestLoadZeroByte(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.png")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryLoad))
}

func TestSaveFormats(t *testing.T) {
	dir := t.TempDir()
	img := raster.NewGray(8, 8)
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}

	for _, name := range []string{"out.png", "out.jpg", "out.bmp", "out.tiff"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(img, path), name)

		got, err := Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, 8, got.Height, name)
		assert.Equal(t, 8, got.Width, name)
	}
}

func TestSaveLosslessRoundTrip(t *testing.T) {
	dir := t.TempDir()
	img := raster.NewGray(5, 9)
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 5)
	}

	path := filepath.Join(dir, "out.png")
	require.NoError(t, Save(img, path))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, got.Channels, "gray png should decode single-channel")
	assert.Equal(t, img.Pix, got.Pix)
}

func TestSaveUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	img := raster.NewGray(2, 2)
	path := filepath.Join(dir, "out.xyz")

	err := Save(img, path)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategorySave))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no partial file should remain")
}

func TestSaveZeroArea(t *testing.T) {
	img := &raster.Gray{Height: 0, Width: 4}
	err := Save(img, filepath.Join(t.TempDir(), "out.png"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryDimension))
}
