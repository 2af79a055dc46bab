// Package imageio is the image source and sink collaborator of the
// pipeline. The core never interprets decode failures beyond wrapping them;
// it rejects zero-area images here so no stage ever sees one.
package imageio

import (
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	_ "image/gif"
	_ "golang.org/x/image/webp"

	"github.com/kailinx/edgeunity/internal/errors"
	"github.com/kailinx/edgeunity/internal/raster"
)

// Load decodes the image at path into a pixel plane (1-channel for
// grayscale sources, 3-channel RGB otherwise). Nonexistent, corrupt, or
// zero-byte files yield a load error; decodable images with zero area yield
// a dimension error. Both fire before any pipeline stage runs.
func Load(path string) (*raster.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.LoadFailed(path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.LoadFailed(path, err)
	}

	bounds := img.Bounds()
	if bounds.Dy() <= 0 || bounds.Dx() <= 0 {
		return nil, errors.EmptyImage(path, bounds.Dy(), bounds.Dx())
	}

	return raster.FromImage(img), nil
}

// Save encodes a single-channel plane to path, choosing the format from the
// file extension. Write failures surface as a save error.
func Save(img *raster.Gray, path string) error {
	if img.Empty() {
		return errors.EmptyImage(path, img.Height, img.Width)
	}

	ext := strings.ToLower(filepath.Ext(path))
	out := img.ToImage()

	f, err := os.Create(path)
	if err != nil {
		return errors.SaveFailed(path, err)
	}
	defer f.Close()

	switch ext {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, out, nil)
	case ".png":
		err = png.Encode(f, out)
	case ".bmp":
		err = bmp.Encode(f, out)
	case ".tif", ".tiff":
		err = tiff.Encode(f, out, nil)
	default:
		f.Close()
		os.Remove(path)
		return errors.UnsupportedFormat(path, ext)
	}
	if err != nil {
		return errors.SaveFailed(path, err)
	}
	if err := f.Close(); err != nil {
		return errors.SaveFailed(path, err)
	}
	return nil
}

// DecodableExtensions lists the input extensions the watch and batch
// services pick up by default.
func DecodableExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"}
}
