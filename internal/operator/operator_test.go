package operator

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailinx/edgeunity/internal/errors"
	"github.com/kailinx/edgeunity/internal/kernel"
	"github.com/kailinx/edgeunity/internal/raster"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

// squareImage is a white height×width canvas with a centered black filled
// square of the given side.
func squareImage(height, width, side int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	top, left := (height-side)/2, (width-side)/2
	for y := top; y < top+side; y++ {
		for x := left; x < left+side; x++ {
			img.SetNRGBA(x, y, color.NRGBA{A: 255})
		}
	}
	return img
}

func solidImage(height, width int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestRegistry(t *testing.T) {
	tests := []struct {
		name string
		want string
		err  bool
	}{
		{"sobel", "sobel", false},
		{"parallel-sobel", "parallel-sobel", false},
		{"prewitt", "prewitt", false},
		{"parallel-roberts-cross", "parallel-roberts-cross", false},
		{"roberts-cross", "roberts-cross", false},
		{"canny", "", true},
		{"parallel-canny", "", true},
		{"opencv-canny", "", true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			op, err := New(test.name, Options{})
			if test.err {
				require.Error(t, err)
				assert.True(t, errors.IsCategory(err, errors.CategoryOperator))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, op.Name())
		})
	}
}

func TestRegistryNamesConstructible(t *testing.T) {
	for _, name := range Names() {
		op, err := New(name, Options{})
		require.NoError(t, err, name)
		assert.Equal(t, name, op.Name())
	}
}

func TestOptionsValidation(t *testing.T) {
	_, err := NewManual(Options{Family: kernel.Sobel, KernelSize: 5})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))

	_, err = NewParallel(Options{Family: kernel.Sobel, Workers: -1})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestGetEdgesLoadFailure(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.png")

	op, err := New("sobel", Options{})
	require.NoError(t, err)

	_, err = op.GetEdges(context.Background(), filepath.Join(dir, "nonexistent.jpg"), out)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryLoad))

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "failed load must not produce an output file")
}

func TestGetEdgesFlatField(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "flat.png")
	out := filepath.Join(dir, "out.png")
	writePNG(t, in, solidImage(20, 30, color.NRGBA{R: 90, G: 90, B: 90, A: 255}))

	op, err := New("sobel", Options{})
	require.NoError(t, err)

	edges, err := op.GetEdges(context.Background(), in, out)
	require.NoError(t, err)
	require.Equal(t, 20, edges.Height)
	require.Equal(t, 30, edges.Width)
	for _, v := range edges.Pix {
		require.Zero(t, v, "flat field must yield an all-zero edge map")
	}

	_, statErr := os.Stat(out)
	assert.NoError(t, statErr, "output file should exist")
}

func TestGetEdgesKnownSquare(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "square.png")
	out := filepath.Join(dir, "out.png")
	writePNG(t, in, squareImage(100, 100, 40))

	op, err := New("sobel", Options{})
	require.NoError(t, err)

	edges, err := op.GetEdges(context.Background(), in, out)
	require.NoError(t, err)

	// The square spans rows/cols [30, 70). Edge responses must cluster
	// within a kernel-offset band around its boundary and be absent
	// elsewhere.
	const band = 2 // kernel offset plus one for the ramp
	nonzero := 0
	for i := 0; i < 100; i++ {
		for j := 0; j < 100; j++ {
			v := edges.At(i, j)
			if v == 0 {
				continue
			}
			nonzero++
			nearRow := (i >= 30-band && i < 30+band) || (i >= 70-band && i < 70+band)
			nearCol := (j >= 30-band && j < 30+band) || (j >= 70-band && j < 70+band)
			inside := i >= 30-band && i < 70+band && j >= 30-band && j < 70+band
			require.True(t, inside && (nearRow || nearCol),
				"unexpected edge response at [%d][%d]", i, j)
		}
	}
	assert.Greater(t, nonzero, 0, "square boundary must produce edge responses")
}

func TestSequentialParallelEquivalence(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "square.png")
	writePNG(t, in, squareImage(64, 48, 20))

	seq, err := New("sobel", Options{})
	require.NoError(t, err)
	want, err := seq.GetEdges(context.Background(), in, filepath.Join(dir, "seq.png"))
	require.NoError(t, err)

	for _, workers := range []int{1, 2, 4, 8} {
		par, err := New("parallel-sobel", Options{Workers: workers})
		require.NoError(t, err)
		got, err := par.GetEdges(context.Background(), in, filepath.Join(dir, "par.png"))
		require.NoError(t, err)
		require.Equal(t, want.Pix, got.Pix, "workers=%d", workers)
	}
}

func TestDeterminism(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "square.png")
	writePNG(t, in, squareImage(50, 50, 16))

	op, err := New("sobel", Options{})
	require.NoError(t, err)

	first, err := op.GetEdges(context.Background(), in, filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	for n := 0; n < 3; n++ {
		again, err := op.GetEdges(context.Background(), in, filepath.Join(dir, "b.png"))
		require.NoError(t, err)
		require.Equal(t, first.Pix, again.Pix)
	}
}

func TestScaleDoublesGradients(t *testing.T) {
	img := raster.NewImage(20, 20, 3)
	for i := 10 * 20 * 3; i < len(img.Pix); i++ {
		img.Pix[i] = 20 // gentle horizontal step keeps doubled values below the clamp
	}

	base, err := NewManual(Options{Family: kernel.Sobel})
	require.NoError(t, err)
	doubled, err := NewManual(Options{Family: kernel.Sobel, Scale: 2.0})
	require.NoError(t, err)

	b := base.Edges(img)
	d := doubled.Edges(img)

	any := false
	for i := range b.Pix {
		if b.Pix[i] == 0 {
			require.Zero(t, d.Pix[i])
			continue
		}
		any = true
		require.Equal(t, 2*int(b.Pix[i]), int(d.Pix[i]), "pixel %d", i)
	}
	require.True(t, any, "test image must produce some gradient response")
}

func TestOperatorReuseAcrossConcurrentCalls(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "square.png")
	writePNG(t, in, squareImage(40, 40, 12))

	op, err := New("parallel-sobel", Options{Workers: 2})
	require.NoError(t, err)

	want, err := op.GetEdges(context.Background(), in, filepath.Join(dir, "w.png"))
	require.NoError(t, err)

	done := make(chan *raster.Gray, 4)
	for n := 0; n < 4; n++ {
		go func(n int) {
			edges, err := op.GetEdges(context.Background(), in,
				filepath.Join(dir, fmt.Sprintf("c%d.png", n)))
			if err != nil {
				done <- nil
				return
			}
			done <- edges
		}(n)
	}
	for n := 0; n < 4; n++ {
		edges := <-done
		require.NotNil(t, edges)
		require.Equal(t, want.Pix, edges.Pix)
	}
}
