// Package raster holds the dense pixel planes the gradient pipeline works on.
// Planes are flat row-major buffers with explicit dimensions so that no
// per-call state ever lives on a shared operator instance.
package raster

import (
	"image"
)

// Image is a height×width interleaved 8-bit plane with 1 or 3 channels
// (RGB channel order for 3). It is the pipeline's input type.
type Image struct {
	Height   int
	Width    int
	Channels int     // 1 or 3
	Pix      []uint8 // len = Height*Width*Channels
}

// Gray is a height×width 8-bit single-channel plane. The combiner's edge map
// is a Gray plane as well.
type Gray struct {
	Height int
	Width  int
	Pix    []uint8 // len = Height*Width
}

// Gradient is a height×width signed plane produced by convolving a Gray
// plane with a directional kernel. Cells outside the kernel's interior
// region stay zero.
type Gradient struct {
	Height int
	Width  int
	Pix    []int32 // len = Height*Width
}

// NewImage allocates a zeroed plane with the given channel count.
func NewImage(height, width, channels int) *Image {
	return &Image{Height: height, Width: width, Channels: channels, Pix: make([]uint8, height*width*channels)}
}

// NewGray allocates a zeroed Gray plane.
func NewGray(height, width int) *Gray {
	return &Gray{Height: height, Width: width, Pix: make([]uint8, height*width)}
}

// NewGradient allocates a zeroed Gradient plane.
func NewGradient(height, width int) *Gradient {
	return &Gradient{Height: height, Width: width, Pix: make([]int32, height*width)}
}

// RGBAt returns the r, g, b samples at row i, column j of a 3-channel plane.
func (p *Image) RGBAt(i, j int) (uint8, uint8, uint8) {
	base := (i*p.Width + j) * 3
	return p.Pix[base], p.Pix[base+1], p.Pix[base+2]
}

// SetRGB stores the r, g, b samples at row i, column j of a 3-channel plane.
func (p *Image) SetRGB(i, j int, r, g, b uint8) {
	base := (i*p.Width + j) * 3
	p.Pix[base] = r
	p.Pix[base+1] = g
	p.Pix[base+2] = b
}

// Empty reports whether the plane has zero area.
func (p *Image) Empty() bool { return p.Height <= 0 || p.Width <= 0 }

// AsGray reinterprets a 1-channel plane as a Gray plane sharing the same
// buffer. It is the grayscale stage's identity path for already-gray input.
func (p *Image) AsGray() *Gray {
	return &Gray{Height: p.Height, Width: p.Width, Pix: p.Pix}
}

// At returns the sample at row i, column j.
func (p *Gray) At(i, j int) uint8 { return p.Pix[i*p.Width+j] }

// Set stores the sample at row i, column j.
func (p *Gray) Set(i, j int, v uint8) { p.Pix[i*p.Width+j] = v }

// Empty reports whether the plane has zero area.
func (p *Gray) Empty() bool { return p.Height <= 0 || p.Width <= 0 }

// At returns the gradient value at row i, column j.
func (p *Gradient) At(i, j int) int32 { return p.Pix[i*p.Width+j] }

// Set stores the gradient value at row i, column j.
func (p *Gradient) Set(i, j int, v int32) { p.Pix[i*p.Width+j] = v }

// FromImage converts a decoded image into a plane. Grayscale decoder output
// becomes a 1-channel plane; everything else becomes 3-channel RGB with
// alpha discarded.
func FromImage(img image.Image) *Image {
	bounds := img.Bounds()
	height, width := bounds.Dy(), bounds.Dx()

	switch src := img.(type) {
	case *image.Gray:
		plane := NewImage(height, width, 1)
		for i := 0; i < height; i++ {
			copy(plane.Pix[i*width:(i+1)*width], src.Pix[i*src.Stride:i*src.Stride+width])
		}
		return plane
	case *image.RGBA:
		plane := NewImage(height, width, 3)
		for i := 0; i < height; i++ {
			row := src.Pix[i*src.Stride:]
			for j := 0; j < width; j++ {
				plane.SetRGB(i, j, row[j*4], row[j*4+1], row[j*4+2])
			}
		}
		return plane
	case *image.NRGBA:
		plane := NewImage(height, width, 3)
		for i := 0; i < height; i++ {
			row := src.Pix[i*src.Stride:]
			for j := 0; j < width; j++ {
				plane.SetRGB(i, j, row[j*4], row[j*4+1], row[j*4+2])
			}
		}
		return plane
	default:
		plane := NewImage(height, width, 3)
		for i := 0; i < height; i++ {
			for j := 0; j < width; j++ {
				r, g, b, _ := img.At(bounds.Min.X+j, bounds.Min.Y+i).RGBA()
				plane.SetRGB(i, j, uint8(r>>8), uint8(g>>8), uint8(b>>8))
			}
		}
		return plane
	}
}

// ToImage converts a Gray plane into a stdlib image for encoding.
func (p *Gray) ToImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, p.Width, p.Height))
	for i := 0; i < p.Height; i++ {
		copy(img.Pix[i*img.Stride:i*img.Stride+p.Width], p.Pix[i*p.Width:(i+1)*p.Width])
	}
	return img
}
