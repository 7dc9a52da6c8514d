package workflow

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/RMASolutions/jobscraper/pkg/workflow/checkpoint"
	"github.com/RMASolutions/jobscraper/pkg/workflow/registry"
)

// Context provides execution context to handlers and conditions.
// It extends context.Context with engine services and run metadata.
//
// Context is immutable after creation. The executor derives a per-step
// context with the node ID set and the logger enriched.
type Context interface {
	context.Context

	// Logger returns the configured logger, enriched with execution and
	// node context during a run. Never nil; defaults to slog.Default().
	Logger() *slog.Logger

	// Resources returns the shared resources injected by the surrounding
	// application (a browser session, a mail client, an LLM client, ...).
	// Resources are constructed and owned outside the engine; handlers
	// look them up by name. Never nil; defaults to an empty set.
	Resources() *registry.Registry[string, any]

	// Checkpointer returns the checkpoint store, or nil if not configured.
	Checkpointer() checkpoint.Store

	// ExecutionID returns the run identifier. Auto-generated if not set.
	ExecutionID() string

	// NodeID returns the step currently executing. Empty before the run starts.
	NodeID() string

	// Attempt returns the resume attempt number (1 = first run).
	Attempt() int
}

// executionContext is the internal Context implementation.
type executionContext struct {
	context.Context

	logger       *slog.Logger
	resources    *registry.Registry[string, any]
	checkpointer checkpoint.Store
	executionID  string
	nodeID       string
	attempt      int
}

// Logger returns the configured logger.
func (c *executionContext) Logger() *slog.Logger {
	return c.logger
}

// Resources returns the injected resource set.
func (c *executionContext) Resources() *registry.Registry[string, any] {
	return c.resources
}

// Checkpointer returns the checkpoint store.
func (c *executionContext) Checkpointer() checkpoint.Store {
	return c.checkpointer
}

// ExecutionID returns the run identifier.
func (c *executionContext) ExecutionID() string {
	return c.executionID
}

// NodeID returns the current step identifier.
func (c *executionContext) NodeID() string {
	return c.nodeID
}

// Attempt returns the resume attempt number.
func (c *executionContext) Attempt() int {
	return c.attempt
}

// ContextOption configures a Context.
type ContextOption func(*executionContext)

// WithLogger sets the logger. It is enriched with execution_id and node_id
// during execution.
func WithLogger(logger *slog.Logger) ContextOption {
	return func(c *executionContext) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithResources sets the shared resource set handlers can draw from.
func WithResources(res *registry.Registry[string, any]) ContextOption {
	return func(c *executionContext) {
		if res != nil {
			c.resources = res
		}
	}
}

// WithCheckpointer sets the checkpoint store exposed to handlers.
// To have the executor write checkpoints, pass WithCheckpointStore to Run.
func WithCheckpointer(store checkpoint.Store) ContextOption {
	return func(c *executionContext) {
		c.checkpointer = store
	}
}

// WithExecutionID sets the run identifier carried by the context.
// A UUID is generated when not set.
func WithExecutionID(id string) ContextOption {
	return func(c *executionContext) {
		if id != "" {
			c.executionID = id
		}
	}
}

// WithAttempt sets the resume attempt number.
func WithAttempt(n int) ContextOption {
	return func(c *executionContext) {
		if n > 0 {
			c.attempt = n
		}
	}
}

// NewContext creates an execution context from a standard context.
//
//	ctx := workflow.NewContext(context.Background(),
//	    workflow.WithLogger(logger),
//	    workflow.WithExecutionID("run-2026-08-31"))
func NewContext(ctx context.Context, opts ...ContextOption) Context {
	ec := &executionContext{
		Context:     ctx,
		logger:      slog.Default(),
		resources:   registry.New[string, any](),
		executionID: uuid.New().String(),
		attempt:     1,
	}

	for _, opt := range opts {
		opt(ec)
	}

	return ec
}

// withNodeID derives a per-step context with an enriched logger.
func (c *executionContext) withNodeID(nodeID string) *executionContext {
	return &executionContext{
		Context:      c.Context,
		logger:       c.logger.With("execution_id", c.executionID, "node_id", nodeID, "attempt", c.attempt),
		resources:    c.resources,
		checkpointer: c.checkpointer,
		executionID:  c.executionID,
		nodeID:       nodeID,
		attempt:      c.attempt,
	}
}
