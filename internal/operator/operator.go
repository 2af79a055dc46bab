// Package operator wires the pipeline stages into named gradient operators
// mirroring the classical edge-detection families. The manual operators run
// the hand-written convolution pipeline; the opencv-* variants (built with
// the gocv tag) delegate to OpenCV and are external collaborators.
package operator

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/kailinx/edgeunity/internal/errors"
	"github.com/kailinx/edgeunity/internal/kernel"
	"github.com/kailinx/edgeunity/internal/metrics"
	"github.com/kailinx/edgeunity/internal/raster"
)

// GradientOperator detects edges in the image at inputPath and writes the
// edge map to outputPath, returning it as well. Implementations are
// immutable after construction and safe for concurrent GetEdges calls; all
// per-call state (dimensions, intermediate planes) is local to the call.
type GradientOperator interface {
	GetEdges(ctx context.Context, inputPath, outputPath string) (*raster.Gray, error)
	Name() string
}

// Options parameterizes operator construction. KernelSize selects the
// coefficient table size and Workers sizes the parallel variant's pool;
// the two are deliberately separate fields and never share a parameter.
type Options struct {
	Family     kernel.Family
	KernelSize int     // kernel side length; 3 for sobel/prewitt, 2 for roberts-cross
	Scale      float64 // multiplier applied to each raw gradient sum
	Delta      float64 // offset added after scaling
	Workers    int     // pool size for parallel variants; defaults to runtime.NumCPU()

	Recorder metrics.Recorder
	Logger   *slog.Logger
}

// Defaults fills unset option fields, mirroring the original constructor
// defaults (kernel size 3, scale 1, delta 0).
func (o Options) Defaults() Options {
	if o.KernelSize == 0 {
		x, _ := o.Family.Pair()
		o.KernelSize = x.Size()
	}
	if o.Scale == 0 {
		o.Scale = 1.0
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Recorder == nil {
		o.Recorder = metrics.NoopRecorder{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Validate rejects option combinations the kernel tables cannot serve.
func (o Options) Validate() error {
	x, _ := o.Family.Pair()
	if o.KernelSize != 0 && o.KernelSize != x.Size() {
		return errors.ValidationFailed("kernel_size",
			"only the fixed table size of the chosen family is supported")
	}
	if o.Workers < 0 {
		return errors.ValidationFailed("workers", "must not be negative")
	}
	return nil
}
