// Package batch processes directories of images through a gradient
// operator, either as a one-shot run or as a long-lived watch service.
package batch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kailinx/edgeunity/internal/history"
	"github.com/kailinx/edgeunity/internal/imageio"
	"github.com/kailinx/edgeunity/internal/operator"
)

// Result is the outcome of one file in a batch, in input order.
type Result struct {
	Input  string
	Output string
	Err    error
}

// Runner applies one operator to many files with bounded concurrency.
// Concurrency here is across images; whether each image is itself processed
// in parallel depends on the chosen operator.
type Runner struct {
	Operator    operator.GradientOperator
	OutputDir   string // empty writes next to the input
	Suffix      string // inserted before the extension
	Concurrency int
	Store       *history.Store // optional run recording
	Logger      *slog.Logger
}

// OutputPath derives the edge-map path for an input file.
func (r *Runner) OutputPath(input string) string {
	dir := filepath.Dir(input)
	if r.OutputDir != "" {
		dir = r.OutputDir
	}
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(filepath.Base(input), ext)
	return filepath.Join(dir, base+r.Suffix+ext)
}

// ProcessFiles runs the operator over every file, at most Concurrency at a
// time, and returns per-file results in input order.
func (r *Runner) ProcessFiles(ctx context.Context, files []string) []Result {
	if len(files) == 0 {
		return nil
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := r.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(files) {
		concurrency = len(files)
	}

	sem := make(chan struct{}, concurrency)
	results := make([]Result, len(files))

	var wg sync.WaitGroup
	for i, input := range files {
		wg.Add(1)
		go func(i int, input string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = r.processOne(ctx, input)
		}(i, input)
	}
	wg.Wait()

	for _, res := range results {
		if res.Err != nil {
			logger.Warn("batch item failed", "input", res.Input, "error", res.Err)
		}
	}
	return results
}

func (r *Runner) processOne(ctx context.Context, input string) Result {
	output := r.OutputPath(input)
	start := time.Now()

	edges, err := r.Operator.GetEdges(ctx, input, output)
	res := Result{Input: input, Output: output, Err: err}

	if r.Store != nil {
		run := history.Run{
			Operator:   r.Operator.Name(),
			InputPath:  input,
			OutputPath: output,
			Duration:   time.Since(start),
			Outcome:    "success",
		}
		if err != nil {
			run.Outcome = "failed"
		} else {
			run.Height = edges.Height
			run.Width = edges.Width
		}
		if _, herr := r.Store.Append(ctx, run); herr != nil && r.Logger != nil {
			r.Logger.Warn("failed to record run", "input", input, "error", herr)
		}
	}
	return res
}

// ProcessDir processes every decodable image directly under dir.
func (r *Runner) ProcessDir(ctx context.Context, dir string, extensions []string) ([]Result, error) {
	files, err := listImages(dir, extensions, r.Suffix)
	if err != nil {
		return nil, err
	}
	return r.ProcessFiles(ctx, files), nil
}

// listImages returns the decodable images directly under dir, skipping
// files that carry the output suffix so a previous run's edge maps are not
// re-processed.
func listImages(dir string, extensions []string, suffix string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = imageio.DecodableExtensions()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		base := strings.TrimSuffix(name, filepath.Ext(name))
		if suffix != "" && strings.HasSuffix(base, suffix) {
			continue
		}
		for _, want := range extensions {
			if ext == want {
				files = append(files, filepath.Join(dir, name))
				break
			}
		}
	}
	return files, nil
}
