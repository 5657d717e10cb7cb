package dbconfig

import (
	"context"
	"testing"

	"github.com/randalmurphal/dbconfig/pkg/dbconfig/retry"
)

// ResetForTest clears the shared instance for the duration of a test.
func ResetForTest(t testing.TB) {
	t.Helper()
	reset := func() {
		slotMu.Lock()
		slot = nil
		slotMu.Unlock()
	}
	reset()
	t.Cleanup(reset)
}

// ConfigureForTest applies opts and restores the previous telemetry on cleanup.
func ConfigureForTest(t testing.TB, opts ...Option) {
	t.Helper()
	prev := loadTelemetry()
	Configure(opts...)
	t.Cleanup(func() { pkgTelemetry.Store(prev) })
}

// Loaded reports whether the shared instance exists, without creating it.
func Loaded() bool {
	slotMu.RLock()
	defer slotMu.RUnlock()
	return slot != nil
}

// ReloadWithRetry runs the event-triggered reload path once.
func (w *Watcher) ReloadWithRetry(ctx context.Context) retry.Result {
	return w.reloadWithRetry(ctx)
}

// WatchError reports err the way the watch loop does.
func (w *Watcher) WatchError(err error) {
	w.watchError(err)
}
