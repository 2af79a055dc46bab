//go:build !gocv

package operator

import (
	"github.com/kailinx/edgeunity/internal/errors"
)

const opencvAvailable = false

// newOpenCV reports the opencv-* variants unavailable when the binary was
// built without the gocv tag (and therefore without an OpenCV install).
func newOpenCV(family string, opts Options) (GradientOperator, error) {
	return nil, errors.OperatorUnavailable("opencv-"+family,
		"rebuild with -tags gocv and an OpenCV installation")
}
