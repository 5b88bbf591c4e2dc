package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits after the last write before
// re-running.
const DefaultDebounce = 500 * time.Millisecond

// ReportFunc receives the outcome of every run started by Watch.
type ReportFunc func(*Result, error)

// Watch runs once, then re-runs whenever the input file is written or
// re-created, until ctx is cancelled. Runs never overlap. Fatal run errors
// are passed to report and do not stop watching, so a half-written export
// is simply retried on the next write. A nil report discards outcomes.
func (r *Runner) Watch(ctx context.Context, opts Options, debounce time.Duration, report ReportFunc) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if report == nil {
		report = func(*Result, error) {}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating input watcher: %w", err)
	}
	defer watcher.Close()

	input := filepath.Clean(opts.InputPath)
	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return fmt.Errorf("watching input dir: %w", err)
	}

	runOnce := func() error {
		result, err := r.Run(ctx, opts)
		if err != nil && errors.Is(err, context.Canceled) {
			return err
		}
		report(result, err)
		return nil
	}

	if err := runOnce(); err != nil {
		return nil
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != input {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			r.logger.Debug("input changed", "path", input, "op", event.Op.String())
			timer.Reset(debounce)
		case <-timer.C:
			if err := runOnce(); err != nil {
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("input watcher error: %w", err)
		}
	}
}
