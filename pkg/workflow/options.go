package workflow

import (
	"log/slog"

	"github.com/RMASolutions/jobscraper/pkg/workflow/checkpoint"
	"github.com/RMASolutions/jobscraper/pkg/workflow/observability"
)

// runConfig holds per-run execution configuration.
type runConfig struct {
	maxIterations      int
	checkpointStore    checkpoint.Store
	lenientCheckpoints bool
	sequence           int
	logger             *slog.Logger
	metrics            observability.MetricsRecorder
	spans              observability.SpanManager
	tracingEnabled     bool
}

// defaultRunConfig returns the default execution configuration.
func defaultRunConfig() runConfig {
	return runConfig{
		maxIterations: 1000,
		metrics:       observability.NoopMetrics{},
		spans:         observability.NoopSpanManager{},
	}
}

// RunOption configures execution behavior.
type RunOption func(*runConfig)

// WithMaxIterations bounds the number of step executions per run.
// Default: 1000. A graph exceeding the limit fails with MaxIterationsError
// instead of looping forever.
func WithMaxIterations(n int) RunOption {
	return func(c *runConfig) {
		if n > 0 {
			c.maxIterations = n
		}
	}
}

// WithCheckpointStore enables write-through checkpointing. A snapshot is
// persisted after every completed step, keyed by the state's execution ID,
// before the next step is chosen. The state must carry an execution ID.
func WithCheckpointStore(store checkpoint.Store) RunOption {
	return func(c *runConfig) {
		c.checkpointStore = store
	}
}

// WithLenientCheckpoints downgrades checkpoint store failures from fatal
// CheckpointError to logged warnings. The default is fatal: a run whose
// progress cannot be persisted stops rather than silently losing its
// resume point.
func WithLenientCheckpoints() RunOption {
	return func(c *runConfig) {
		c.lenientCheckpoints = true
	}
}

// WithRunLogger overrides the context logger for run-level events.
func WithRunLogger(logger *slog.Logger) RunOption {
	return func(c *runConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder for the run.
func WithMetrics(m observability.MetricsRecorder) RunOption {
	return func(c *runConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracing enables OpenTelemetry spans for the run and each step.
// The global tracer provider must be configured by the caller.
func WithTracing() RunOption {
	return func(c *runConfig) {
		c.tracingEnabled = true
		c.spans = observability.NewSpanManager()
	}
}

// resumeConfig holds Resume-specific configuration.
type resumeConfig struct {
	input   map[string]any
	runOpts []RunOption
}

// ResumeOption configures resume behavior.
type ResumeOption func(*resumeConfig)

// WithInput merges additional keys into the checkpointed InputData before
// re-entering the loop. This explicit, caller-driven amendment is the one
// exception to input-data immutability.
func WithInput(input map[string]any) ResumeOption {
	return func(c *resumeConfig) {
		c.input = input
	}
}

// WithRunOptions forwards run options to the resumed execution.
func WithRunOptions(opts ...RunOption) ResumeOption {
	return func(c *resumeConfig) {
		c.runOpts = append(c.runOpts, opts...)
	}
}
