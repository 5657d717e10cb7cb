package dbconfig

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/randalmurphal/dbconfig/pkg/dbconfig/config"
	"github.com/randalmurphal/dbconfig/pkg/dbconfig/observability"
	"github.com/randalmurphal/dbconfig/pkg/dbconfig/retry"
)

// DefaultDebounce is how long a Watcher waits after the last file event
// before reloading.
const DefaultDebounce = 500 * time.Millisecond

// DefaultReloadRetry is the retry policy for reloads triggered by file
// events. Read and parse failures are retried since an editor may still be
// writing the file; rejected settings and unsupported file extensions are
// not.
var DefaultReloadRetry = retry.Config{
	MaxAttempts:    3,
	InitialBackoff: 100 * time.Millisecond,
	MaxBackoff:     time.Second,
	BackoffFactor:  2.0,
	Jitter:         0.1,
	Retryable:      retryableReload,
}

// ErrWatcherStarted is returned by Start on a Watcher that is already running.
var ErrWatcherStarted = errors.New("watcher already started")

// Watcher reapplies a settings file whenever it changes on disk.
//
// A failed reload keeps the previous values. By default each reload targets
// whatever Current returns at that moment, so a later Use is followed.
type Watcher struct {
	path     string
	target   Settings
	debounce time.Duration
	retry    retry.Config

	mu        sync.Mutex
	fsw       *fsnotify.Watcher
	cancel    context.CancelFunc
	done      chan struct{}
	listeners []chan<- Snapshot
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a reload. Default: DefaultDebounce.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithReloadRetry sets the retry policy for event-triggered reloads.
// Default: DefaultReloadRetry. Use retry.None to disable retries.
func WithReloadRetry(cfg retry.Config) WatcherOption {
	return func(w *Watcher) {
		w.retry = cfg
	}
}

// WithTarget pins the Watcher to s instead of the shared instance.
func WithTarget(s Settings) WatcherOption {
	return func(w *Watcher) {
		w.target = s
	}
}

// NewWatcher creates a Watcher for the settings file at path.
// Nothing is read until Reload or Start is called.
func NewWatcher(path string, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
		retry:    DefaultReloadRetry,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Subscribe registers ch to receive a Snapshot after every successful
// reload. Sends never block; a full channel misses the update.
func (w *Watcher) Subscribe(ch chan<- Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, ch)
}

func (w *Watcher) settings() Settings {
	if w.target != nil {
		return w.target
	}
	return Current()
}

// Reload applies the file once.
func (w *Watcher) Reload(ctx context.Context) error {
	tel := loadTelemetry()
	s := w.settings()

	ctx, span := tel.spans.StartReloadSpan(ctx, w.path)
	err := LoadFile(s, w.path)
	tel.spans.EndSpanWithError(span, err)
	tel.metrics.RecordReload(ctx, err)
	if err != nil {
		observability.LogReloadError(tel.logger, w.path, err)
		return err
	}
	observability.LogReload(tel.logger, w.path)

	w.notify(SnapshotOf(s))
	return nil
}

// reloadWithRetry runs Reload under the watcher's retry policy.
func (w *Watcher) reloadWithRetry(ctx context.Context) retry.Result {
	return retry.Do(ctx, w.retry, w.Reload)
}

func retryableReload(err error) bool {
	return !errors.Is(err, ErrInvalidArgument) &&
		!errors.Is(err, ErrUnknownSetting) &&
		!errors.Is(err, config.ErrUnsupportedFormat)
}

// watchError logs an fsnotify error with the telemetry current at the time.
func (w *Watcher) watchError(err error) {
	observability.LogWatchError(loadTelemetry().logger, w.path, err)
}

func (w *Watcher) notify(snap Snapshot) {
	w.mu.Lock()
	listeners := make([]chan<- Snapshot, len(w.listeners))
	copy(listeners, w.listeners)
	w.mu.Unlock()

	for _, ch := range listeners {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Start watches the file until ctx is cancelled or Close is called.
// A Watcher runs at most once; later calls return ErrWatcherStarted.
// The parent directory is watched so editors that replace the file by
// rename are picked up.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw != nil {
		return ErrWatcherStarted
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watch settings directory: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w.fsw = fsw
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.loop(ctx, fsw, w.done)
	return nil
}

// Close stops the watcher and waits for its goroutine to exit.
// It is safe to call on a Watcher that was never started.
func (w *Watcher) Close() error {
	w.mu.Lock()
	fsw, cancel, done := w.fsw, w.cancel, w.done
	w.mu.Unlock()
	if fsw == nil {
		return nil
	}

	cancel()
	err := fsw.Close()
	<-done
	return err
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			_ = fsw.Close()
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			// Reload logs its own failures.
			_ = w.reloadWithRetry(ctx)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.watchError(err)
		}
	}
}
