// Package watch regenerates the README whenever the hooks tree changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/hookdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/hookdoc/internal/logfields"
)

// Reason says why a run was requested.
type Reason string

const (
	ReasonInitial  Reason = "initial"
	ReasonChange   Reason = "change"
	ReasonInterval Reason = "interval"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 300 * time.Millisecond

// RunFunc performs one regeneration. Errors are logged and do not stop the watcher.
type RunFunc func(ctx context.Context, reason Reason) error

// Options configures a Watcher.
type Options struct {
	Root     string        // directory watched recursively
	Debounce time.Duration // quiet period after the last change before a run
	Interval time.Duration // periodic regeneration, zero disables
	Ignore   []string      // extra paths whose events never trigger a run
}

// Watcher runs RunFunc once at start, after every debounced burst of changes below
// Root and optionally on a fixed interval. Runs never overlap; requests arriving while
// a run is in progress collapse into a single follow-up run.
type Watcher struct {
	opts     Options
	run      RunFunc
	ignore   map[string]struct{}
	requests chan Reason

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a watcher. Nothing is watched until Run is called.
func New(opts Options, run RunFunc) (*Watcher, error) {
	if run == nil {
		return nil, ferrors.InternalError("watch requires a run function").Build()
	}
	abs, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve watch root").
			WithContext("directory", opts.Root).
			Build()
	}
	opts.Root = abs
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	ignore := make(map[string]struct{}, len(opts.Ignore))
	for _, p := range opts.Ignore {
		if a, err := filepath.Abs(p); err == nil {
			ignore[a] = struct{}{}
		}
	}
	return &Watcher{
		opts:     opts,
		run:      run,
		ignore:   ignore,
		requests: make(chan Reason, 1),
	}, nil
}

// Run watches until ctx is cancelled. A run in progress at cancellation is allowed to
// finish before Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.opts.Root)
	if err != nil || !info.IsDir() {
		if err == nil {
			err = fmt.Errorf("%s is not a directory", w.opts.Root)
		}
		return ferrors.FileSystemError("watch hooks directory").
			WithCause(err).
			WithContext("directory", w.opts.Root).
			Fatal().
			Build()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.RuntimeError("create file watcher").WithCause(err).Build()
	}
	defer func() { _ = fsw.Close() }()
	addDirsRecursive(fsw, w.opts.Root)

	if w.opts.Interval > 0 {
		sched, err := w.schedule()
		if err != nil {
			return err
		}
		sched.Start()
		defer func() {
			if err := sched.Shutdown(); err != nil {
				slog.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.worker(ctx)
	}()
	defer wg.Wait()

	slog.Info("Watching hooks directory",
		logfields.Directory(w.opts.Root),
		slog.Duration("debounce", w.opts.Debounce),
		slog.Duration("interval", w.opts.Interval))
	w.request(ReasonInitial)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			slog.Info("Watcher stopped", logfields.Directory(w.opts.Root))
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) schedule() (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "create scheduler").Build()
	}
	_, err = sched.NewJob(
		gocron.DurationJob(w.opts.Interval),
		gocron.NewTask(w.request, ReasonInterval),
		gocron.WithName("periodic-regeneration"),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "schedule periodic regeneration").Build()
	}
	return sched, nil
}

// worker executes requests one at a time.
func (w *Watcher) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case reason := <-w.requests:
			start := time.Now()
			if err := w.run(ctx, reason); err != nil {
				slog.Warn("Regeneration failed", slog.String("reason", string(reason)), logfields.Error(err))
				continue
			}
			slog.Debug("Regeneration finished", slog.String("reason", string(reason)), logfields.Duration(time.Since(start)))
		}
	}
}

// request queues a run unless one is already pending.
func (w *Watcher) request(reason Reason) {
	select {
	case w.requests <- reason:
	default:
	}
}

// trigger (re)starts the debounce timer.
func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, func() { w.request(ReasonChange) })
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, ev fsnotify.Event) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if _, skip := w.ignore[filepath.Clean(ev.Name)]; skip {
		return
	}
	if ev.Op.Has(fsnotify.Chmod) && !ev.Op.Has(fsnotify.Write) {
		return
	}
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			addDirsRecursive(fsw, ev.Name)
		}
	}
	slog.Debug("Hooks change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.trigger()
}

func addDirsRecursive(fsw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Directory(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent reports events for hidden files, editor swap files and OS
// metadata files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db", base == "4913": // 4913 is vim's write probe
		return true
	}
	return false
}
