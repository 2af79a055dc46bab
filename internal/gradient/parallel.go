package gradient

import (
	"runtime"
	"sync"

	"github.com/kailinx/edgeunity/internal/kernel"
	"github.com/kailinx/edgeunity/internal/raster"
)

// parallelRows fans fn out over contiguous, non-overlapping row blocks of
// [lo, hi) across a fixed pool of workers and blocks until all of them
// finish. The per-stage barrier lives here: the call does not return until
// every row of the stage is done. Workers write disjoint output rows, so no
// locking is needed.
func parallelRows(lo, hi, workers int, fn func(lo, hi int)) {
	rows := hi - lo
	if rows <= 0 {
		return
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > rows {
		workers = rows
	}

	chunk := rows / workers
	extra := rows % workers

	var wg sync.WaitGroup
	start := lo
	for w := 0; w < workers; w++ {
		end := start + chunk
		if w < extra {
			end++
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(start, end)
		start = end
	}
	wg.Wait()
}

// GrayscaleParallel converts a full plane across a worker pool. Already-gray
// input is the same identity as the sequential path.
func GrayscaleParallel(src *raster.Image, workers int) *raster.Gray {
	if src.Channels == 1 {
		return src.AsGray()
	}
	dst := raster.NewGray(src.Height, src.Width)
	parallelRows(0, src.Height, workers, func(lo, hi int) {
		GrayscaleRange(dst, src, lo, hi)
	})
	return dst
}

// ConvolveParallel computes a full gradient field across a worker pool. The
// blocks jointly cover exactly the interior row range [offset, H-offset).
func ConvolveParallel(src *raster.Gray, k kernel.Kernel, scale, delta float64, workers int) *raster.Gradient {
	dst := raster.NewGradient(src.Height, src.Width)
	offset := k.Offset()
	parallelRows(offset, src.Height-offset, workers, func(lo, hi int) {
		ConvolveRange(dst, src, k, lo, hi, scale, delta)
	})
	return dst
}

// CombineParallel fuses two full gradient fields across a worker pool.
func CombineParallel(gradX, gradY *raster.Gradient, workers int) *raster.Gray {
	dst := raster.NewGray(gradX.Height, gradX.Width)
	parallelRows(0, dst.Height, workers, func(lo, hi int) {
		CombineRange(dst, gradX, gradY, lo, hi)
	})
	return dst
}
