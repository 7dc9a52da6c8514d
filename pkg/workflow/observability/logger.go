// Package observability provides structured logging, metrics, and tracing
// for workflow execution: slog helpers for run/step/checkpoint events,
// OpenTelemetry metrics and spans, and no-op implementations for when
// either is disabled.
package observability

import "log/slog"

// EnrichLogger adds execution context to a logger.
func EnrichLogger(logger *slog.Logger, executionID, nodeID string, attempt int) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("execution_id", executionID),
		slog.String("node_id", nodeID),
		slog.Int("attempt", attempt),
	)
}

// LogRunStart logs the start of an execution.
func LogRunStart(logger *slog.Logger, executionID, workflowName string) {
	if logger == nil {
		return
	}
	logger.Info("workflow run starting",
		slog.String("execution_id", executionID),
		slog.String("workflow", workflowName),
	)
}

// LogRunComplete logs successful completion of an execution.
func LogRunComplete(logger *slog.Logger, executionID string, durationMs float64, steps int) {
	if logger == nil {
		return
	}
	logger.Info("workflow run completed",
		slog.String("execution_id", executionID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("steps_executed", steps),
	)
}

// LogRunError logs execution failure.
func LogRunError(logger *slog.Logger, executionID string, err error, durationMs float64, lastStep string) {
	if logger == nil {
		return
	}
	logger.Error("workflow run failed",
		slog.String("execution_id", executionID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
		slog.String("last_step", lastStep),
	)
}

// LogStepStart logs step execution start.
func LogStepStart(logger *slog.Logger, nodeID string) {
	if logger == nil {
		return
	}
	logger.Debug("step starting",
		slog.String("node_id", nodeID),
	)
}

// LogStepComplete logs successful step completion.
func LogStepComplete(logger *slog.Logger, nodeID string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("step completed",
		slog.String("node_id", nodeID),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogStepError logs step failure.
func LogStepError(logger *slog.Logger, nodeID string, err error) {
	if logger == nil {
		return
	}
	logger.Error("step failed",
		slog.String("node_id", nodeID),
		slog.String("error", err.Error()),
	)
}

// LogCheckpoint logs a persisted checkpoint.
func LogCheckpoint(logger *slog.Logger, executionID string, sizeBytes int) {
	if logger == nil {
		return
	}
	logger.Debug("checkpoint saved",
		slog.String("execution_id", executionID),
		slog.Int("size_bytes", sizeBytes),
	)
}

// LogCheckpointError logs a checkpoint failure that was not fatal.
func LogCheckpointError(logger *slog.Logger, executionID, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("checkpoint failed",
		slog.String("execution_id", executionID),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}
