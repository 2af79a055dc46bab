// Package kernel holds the fixed directional derivative kernels. The set is
// closed and small, so families are a tagged enum over static coefficient
// tables rather than an interface hierarchy.
package kernel

// Family identifies one of the supported kernel pairs.
type Family int

const (
	Sobel Family = iota
	Prewitt
	RobertsCross
)

// String returns the family name used in configuration and the CLI.
func (f Family) String() string {
	switch f {
	case Sobel:
		return "sobel"
	case Prewitt:
		return "prewitt"
	case RobertsCross:
		return "roberts-cross"
	default:
		return "unknown"
	}
}

// ParseFamily maps a configuration name to a Family.
func ParseFamily(name string) (Family, bool) {
	switch name {
	case "sobel":
		return Sobel, true
	case "prewitt":
		return Prewitt, true
	case "roberts-cross":
		return RobertsCross, true
	}
	return 0, false
}

// Kernel is an immutable square coefficient table. Side length is odd for
// the Sobel and Prewitt pairs and 2 for Roberts Cross.
type Kernel [][]int

// Size returns the side length of the kernel.
func (k Kernel) Size() int { return len(k) }

// Offset returns half the side length, used to center the kernel on a pixel.
func (k Kernel) Offset() int { return len(k) / 2 }

var (
	sobelX = Kernel{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = Kernel{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
	prewittX = Kernel{
		{-1, 0, 1},
		{-1, 0, 1},
		{-1, 0, 1},
	}
	prewittY = Kernel{
		{-1, -1, -1},
		{0, 0, 0},
		{1, 1, 1},
	}
	robertsCrossX = Kernel{
		{1, 0},
		{0, -1},
	}
	robertsCrossY = Kernel{
		{0, 1},
		{-1, 0},
	}
)

// Pair returns the horizontal and vertical kernels of a family. The two are
// the same coefficients rotated by 90 degrees.
func (f Family) Pair() (x, y Kernel) {
	switch f {
	case Prewitt:
		return prewittX, prewittY
	case RobertsCross:
		return robertsCrossX, robertsCrossY
	default:
		return sobelX, sobelY
	}
}
