// Package observability provides logging, metrics and tracing hooks for
// dbconfig: structured logging via slog, and metrics and spans via
// OpenTelemetry.
//
// All features are opt-in. The log helpers accept a nil logger, and the
// metrics and span interfaces have no-op implementations.
package observability

import (
	"fmt"
	"log/slog"
)

// LogReplaced logs that the shared settings instance was swapped.
func LogReplaced(logger *slog.Logger, oldID, newID string) {
	if logger == nil {
		return
	}
	logger.Info("settings instance replaced",
		slog.String("old_instance", oldID),
		slog.String("new_instance", newID),
	)
}

// LogCreated logs lazy creation of the default settings instance.
func LogCreated(logger *slog.Logger, id string) {
	if logger == nil {
		return
	}
	logger.Debug("settings instance created",
		slog.String("instance", id),
	)
}

// LogSettingChanged logs a setting update. Values are rendered with %v.
func LogSettingChanged(logger *slog.Logger, setting string, oldVal, newVal any) {
	if logger == nil {
		return
	}
	logger.Debug("setting changed",
		slog.String("setting", setting),
		slog.String("old", fmt.Sprint(oldVal)),
		slog.String("new", fmt.Sprint(newVal)),
	)
}

// LogDispatchError logs a failed gateway call.
func LogDispatchError(logger *slog.Logger, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("settings call failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// LogReload logs a successful settings file reload.
func LogReload(logger *slog.Logger, path string) {
	if logger == nil {
		return
	}
	logger.Info("settings file reloaded",
		slog.String("path", path),
	)
}

// LogReloadError logs a failed reload. The previous settings stay active.
func LogReloadError(logger *slog.Logger, path string, err error) {
	if logger == nil {
		return
	}
	logger.Error("settings file reload failed",
		slog.String("path", path),
		slog.String("error", err.Error()),
	)
}

// LogWatchError logs an error reported by the file system watcher.
func LogWatchError(logger *slog.Logger, path string, err error) {
	if logger == nil {
		return
	}
	logger.Error("settings watcher error",
		slog.String("path", path),
		slog.String("error", err.Error()),
	)
}
