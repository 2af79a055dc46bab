// Package gradient implements the per-pixel math of the edge-detection
// pipeline: luminance conversion, directional convolution, and magnitude
// combination. Every function here operates on an explicit row range of its
// output plane so the sequential and parallel orchestrators share the exact
// same code path per cell.
package gradient

import (
	"math"

	"github.com/kailinx/edgeunity/internal/kernel"
	"github.com/kailinx/edgeunity/internal/raster"
)

// Luminance weights for RGB, NTSC formula.
const (
	weightRed   = 0.299
	weightGreen = 0.587
	weightBlue  = 0.114
)

// luminance converts one RGB pixel to its 8-bit luminance, truncated.
func luminance(r, g, b uint8) uint8 {
	return uint8(weightRed*float64(r) + weightGreen*float64(g) + weightBlue*float64(b))
}

// convolveAt computes the kernel dot product centered on (i, j) and applies
// the scale/delta affine step, truncated toward zero.
func convolveAt(src *raster.Gray, k kernel.Kernel, i, j int, scale, delta float64) int32 {
	size := k.Size()
	offset := k.Offset()
	sum := 0
	for ki := 0; ki < size; ki++ {
		for kj := 0; kj < size; kj++ {
			sum += k[ki][kj] * int(src.At(i+ki-offset, j+kj-offset))
		}
	}
	return int32(scale*float64(sum) + delta)
}

// magnitudeAt combines one gradient pair into an 8-bit edge value,
// floor of the Euclidean magnitude clamped to 255.
func magnitudeAt(gx, gy int32) uint8 {
	m := int(math.Sqrt(float64(gx)*float64(gx) + float64(gy)*float64(gy)))
	if m > 255 {
		m = 255
	}
	return uint8(m)
}

// GrayscaleRange converts rows [lo, hi) of a 3-channel src into dst.
// Callers handle 1-channel input as an identity before reaching here.
func GrayscaleRange(dst *raster.Gray, src *raster.Image, lo, hi int) {
	for i := lo; i < hi; i++ {
		for j := 0; j < src.Width; j++ {
			r, g, b := src.RGBAt(i, j)
			dst.Set(i, j, luminance(r, g, b))
		}
	}
}

// ConvolveRange convolves rows [lo, hi) of src with k into dst. Callers pass
// a range inside the kernel's interior region; cells outside it stay zero
// because the kernel is never applied at the border.
func ConvolveRange(dst *raster.Gradient, src *raster.Gray, k kernel.Kernel, lo, hi int, scale, delta float64) {
	offset := k.Offset()
	for i := lo; i < hi; i++ {
		for j := offset; j < src.Width-offset; j++ {
			dst.Set(i, j, convolveAt(src, k, i, j, scale, delta))
		}
	}
}

// CombineRange fuses rows [lo, hi) of the two gradient fields into dst.
func CombineRange(dst *raster.Gray, gradX, gradY *raster.Gradient, lo, hi int) {
	for i := lo; i < hi; i++ {
		for j := 0; j < dst.Width; j++ {
			dst.Set(i, j, magnitudeAt(gradX.At(i, j), gradY.At(i, j)))
		}
	}
}

// Grayscale converts a full plane single-threaded. Already-gray input is an
// identity.
func Grayscale(src *raster.Image) *raster.Gray {
	if src.Channels == 1 {
		return src.AsGray()
	}
	dst := raster.NewGray(src.Height, src.Width)
	GrayscaleRange(dst, src, 0, src.Height)
	return dst
}

// Convolve computes a full gradient field single-threaded. The interior row
// range is [offset, H-offset); everything else stays zero.
func Convolve(src *raster.Gray, k kernel.Kernel, scale, delta float64) *raster.Gradient {
	dst := raster.NewGradient(src.Height, src.Width)
	offset := k.Offset()
	ConvolveRange(dst, src, k, offset, src.Height-offset, scale, delta)
	return dst
}

// Combine fuses two full gradient fields single-threaded.
func Combine(gradX, gradY *raster.Gradient) *raster.Gray {
	dst := raster.NewGray(gradX.Height, gradX.Width)
	CombineRange(dst, gradX, gradY, 0, dst.Height)
	return dst
}
