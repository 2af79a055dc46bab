package operator

import (
	"strings"

	"github.com/kailinx/edgeunity/internal/errors"
	"github.com/kailinx/edgeunity/internal/kernel"
)

// New constructs the operator registered under name. Manual names are the
// kernel families ("sobel", "prewitt", "roberts-cross") and their
// "parallel-" variants; "opencv-" names delegate to OpenCV and are only
// available in builds with the gocv tag.
func New(name string, opts Options) (GradientOperator, error) {
	if family, ok := strings.CutPrefix(name, "opencv-"); ok {
		if _, ok := kernel.ParseFamily(family); !ok {
			return nil, errors.UnknownOperator(name)
		}
		return newOpenCV(family, opts)
	}

	if family, ok := strings.CutPrefix(name, "parallel-"); ok {
		f, ok := kernel.ParseFamily(family)
		if !ok {
			return nil, errors.UnknownOperator(name)
		}
		opts.Family = f
		return NewParallel(opts)
	}

	f, ok := kernel.ParseFamily(name)
	if !ok {
		return nil, errors.UnknownOperator(name)
	}
	opts.Family = f
	return NewManual(opts)
}

// Names lists every operator the registry can construct in this build, in
// the order the CLI presents them.
func Names() []string {
	names := []string{
		"sobel",
		"parallel-sobel",
		"prewitt",
		"parallel-prewitt",
		"roberts-cross",
		"parallel-roberts-cross",
	}
	if opencvAvailable {
		names = append(names, "opencv-sobel", "opencv-prewitt", "opencv-roberts-cross")
	}
	return names
}
