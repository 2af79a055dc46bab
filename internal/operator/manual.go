package operator

import (
	"context"
	"time"

	"github.com/kailinx/edgeunity/internal/errors"
	"github.com/kailinx/edgeunity/internal/gradient"
	"github.com/kailinx/edgeunity/internal/imageio"
	"github.com/kailinx/edgeunity/internal/metrics"
	"github.com/kailinx/edgeunity/internal/raster"
)

// Manual is the hand-written sequential pipeline: grayscale, horizontal and
// vertical convolution, magnitude combination, in that fixed order.
type Manual struct {
	opts Options
}

// NewManual builds a sequential operator for the family in opts.
func NewManual(opts Options) (*Manual, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Manual{opts: opts.Defaults()}, nil
}

func (op *Manual) Name() string { return op.opts.Family.String() }

// GetEdges runs the full pipeline. Load failure aborts before any stage;
// nothing recovers mid-pipeline and there is no partial result.
func (op *Manual) GetEdges(ctx context.Context, inputPath, outputPath string) (*raster.Gray, error) {
	start := time.Now()

	img, err := imageio.Load(inputPath)
	if err != nil {
		op.opts.Recorder.IncPipelineOutcome(op.Name(), metrics.OutcomeFailed)
		return nil, err
	}
	if img.Empty() {
		op.opts.Recorder.IncPipelineOutcome(op.Name(), metrics.OutcomeFailed)
		return nil, errors.EmptyImage(inputPath, img.Height, img.Width)
	}

	edges := op.Edges(img)

	if err := imageio.Save(edges, outputPath); err != nil {
		op.opts.Recorder.IncPipelineOutcome(op.Name(), metrics.OutcomeFailed)
		return nil, err
	}

	elapsed := time.Since(start)
	op.opts.Recorder.ObservePipelineDuration(op.Name(), elapsed)
	op.opts.Recorder.IncPipelineOutcome(op.Name(), metrics.OutcomeSuccess)
	op.opts.Logger.Debug("edges computed",
		"operator", op.Name(), "input", inputPath, "output", outputPath,
		"height", img.Height, "width", img.Width, "duration", elapsed)

	return edges, nil
}

// Edges computes the edge map of an in-memory plane, single-threaded.
func (op *Manual) Edges(img *raster.Image) *raster.Gray {
	kx, ky := op.opts.Family.Pair()
	rec := op.opts.Recorder
	name := op.Name()

	t := time.Now()
	gray := gradient.Grayscale(img)
	rec.ObserveStageDuration(name, "grayscale", time.Since(t))

	t = time.Now()
	gradX := gradient.Convolve(gray, kx, op.opts.Scale, op.opts.Delta)
	rec.ObserveStageDuration(name, "grad_x", time.Since(t))

	t = time.Now()
	gradY := gradient.Convolve(gray, ky, op.opts.Scale, op.opts.Delta)
	rec.ObserveStageDuration(name, "grad_y", time.Since(t))

	t = time.Now()
	edges := gradient.Combine(gradX, gradY)
	rec.ObserveStageDuration(name, "combine", time.Since(t))

	return edges
}
