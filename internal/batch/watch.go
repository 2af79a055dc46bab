package batch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"github.com/kailinx/edgeunity/internal/errors"
	"github.com/kailinx/edgeunity/internal/imageio"
)

// Watcher monitors a directory and runs new or changed images through the
// batch runner. fsnotify provides the fast path; a gocron periodic full
// rescan picks up anything the notification stream missed.
type Watcher struct {
	runner     *Runner
	dir        string
	extensions []string
	debounce   time.Duration
	rescan     time.Duration
	logger     *slog.Logger

	mu        sync.Mutex
	processed map[string]time.Time // input path -> modtime already handled
}

// NewWatcher creates a watch service over dir.
func NewWatcher(runner *Runner, dir string, extensions []string, debounce, rescan time.Duration, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		runner:     runner,
		dir:        dir,
		extensions: extensions,
		debounce:   debounce,
		rescan:     rescan,
		logger:     logger,
		processed:  make(map[string]time.Time),
	}
}

// Run watches until ctx is canceled. An initial full scan runs before the
// event loop starts so pre-existing images are processed too.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WatchError(w.dir, err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return errors.WatchError(w.dir, err)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return errors.WatchError(w.dir, err)
	}
	if _, err := scheduler.NewJob(
		gocron.DurationJob(w.rescan),
		gocron.NewTask(func() { w.scan(ctx) }),
		gocron.WithName("rescan"),
	); err != nil {
		return errors.WatchError(w.dir, err)
	}
	scheduler.Start()
	defer func() { _ = scheduler.Shutdown() }()

	w.logger.Info("watching directory",
		"directory", w.dir, "operator", w.runner.Operator.Name(),
		"debounce", w.debounce, "rescan", w.rescan)

	w.scan(ctx)

	// Debounce rapid event bursts (editors and downloads fire several
	// writes per file) into one scan.
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.interesting(event.Name) {
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(w.debounce)
			}
		case <-fire:
			timer = nil
			w.scan(ctx)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// interesting reports whether a path looks like an input image rather than
// one of our own edge maps.
func (w *Watcher) interesting(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if w.runner.Suffix != "" && strings.HasSuffix(base, w.runner.Suffix) {
		return false
	}
	extensions := w.extensions
	if len(extensions) == 0 {
		extensions = imageio.DecodableExtensions()
	}
	for _, want := range extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// scan processes every image in the directory not yet handled at its
// current modtime.
func (w *Watcher) scan(ctx context.Context) {
	files, err := listImages(w.dir, w.extensions, w.runner.Suffix)
	if err != nil {
		w.logger.Warn("scan failed", "directory", w.dir, "error", err)
		return
	}

	pending := w.filterPending(files)
	if len(pending) == 0 {
		return
	}

	w.logger.Info("processing images", "count", len(pending))
	results := w.runner.ProcessFiles(ctx, pending)

	// Forget failed inputs so the next scan retries them.
	w.mu.Lock()
	for _, res := range results {
		if res.Err != nil {
			delete(w.processed, res.Input)
		}
	}
	w.mu.Unlock()
}

func (w *Watcher) filterPending(files []string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var pending []string
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		if seen, ok := w.processed[f]; ok && !info.ModTime().After(seen) {
			continue
		}
		w.processed[f] = info.ModTime()
		pending = append(pending, f)
	}
	return pending
}
