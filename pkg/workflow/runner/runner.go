package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/RMASolutions/jobscraper/pkg/workflow"
	"github.com/RMASolutions/jobscraper/pkg/workflow/checkpoint"
	"github.com/RMASolutions/jobscraper/pkg/workflow/registry"
)

// ErrNoStore indicates Resume was called on a Runner without a checkpoint store.
var ErrNoStore = errors.New("no checkpoint store configured")

// Runner implements the trigger contract: run a named workflow type with
// input and an execution identity, resume a checkpointed execution, and
// request cancellation of an in-flight one.
//
// Shared resources (a browser session, a mail client, an LLM client) are
// constructed and owned by the surrounding application and injected here;
// the engine only ever holds the state of the run it drives.
type Runner struct {
	catalog   *Catalog
	store     checkpoint.Store
	resources *registry.Registry[string, any]
	logger    *slog.Logger
	runOpts   []workflow.RunOption

	// cancels tracks in-flight executions so Cancel can reach them.
	// Cancellation takes effect at the next step boundary, never mid-node.
	cancels *registry.Registry[string, context.CancelFunc]
}

// Option configures a Runner.
type Option func(*Runner)

// WithStore sets the checkpoint store. Runs checkpoint after every step
// and Resume becomes available.
func WithStore(store checkpoint.Store) Option {
	return func(r *Runner) {
		r.store = store
	}
}

// WithResources injects the shared resource set exposed to handlers.
func WithResources(res *registry.Registry[string, any]) Option {
	return func(r *Runner) {
		if res != nil {
			r.resources = res
		}
	}
}

// WithLogger sets the runner logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRunOptions forwards engine options (iteration limits, metrics,
// tracing) to every run.
func WithRunOptions(opts ...workflow.RunOption) Option {
	return func(r *Runner) {
		r.runOpts = append(r.runOpts, opts...)
	}
}

// New creates a Runner over a workflow catalog.
func New(catalog *Catalog, opts ...Option) *Runner {
	r := &Runner{
		catalog:   catalog,
		resources: registry.New[string, any](),
		logger:    slog.Default(),
		cancels:   registry.New[string, context.CancelFunc](),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes a named workflow type with the given input and execution
// identity and returns the final state. A blank executionID is replaced
// with a generated UUID. Distinct executions are fully isolated: each gets
// its own state; only the catalog and the keyed checkpoint store are shared.
func (r *Runner) Run(ctx context.Context, workflowName string, input map[string]any, executionID string) (workflow.ExecutionState, error) {
	var zero workflow.ExecutionState

	def, err := r.catalog.Create(workflowName)
	if err != nil {
		return zero, err
	}
	compiled, err := Build(def)
	if err != nil {
		return zero, fmt.Errorf("build workflow %s: %w", workflowName, err)
	}

	if executionID == "" {
		executionID = uuid.New().String()
	}

	state := compiled.NewState(executionID, def.Name(), input)
	wctx, done := r.executionContext(ctx, executionID)
	defer done()

	return compiled.Run(wctx, state, r.engineOptions()...)
}

// Resume continues a checkpointed execution, optionally amending its
// input data. The workflow type is recovered from the checkpoint itself,
// so callers only need the execution identity.
func (r *Runner) Resume(ctx context.Context, executionID string, newInput map[string]any) (workflow.ExecutionState, error) {
	var zero workflow.ExecutionState

	if r.store == nil {
		return zero, ErrNoStore
	}

	data, err := r.store.Load(executionID)
	if err != nil {
		if errors.Is(err, checkpoint.ErrNotFound) {
			return zero, fmt.Errorf("%w: %s", workflow.ErrNoCheckpoints, executionID)
		}
		return zero, fmt.Errorf("load checkpoint: %w", err)
	}
	cp, err := checkpoint.Unmarshal(data)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", workflow.ErrDeserializeState, err)
	}

	def, err := r.catalog.Create(cp.WorkflowName)
	if err != nil {
		return zero, err
	}
	compiled, err := Build(def)
	if err != nil {
		return zero, fmt.Errorf("build workflow %s: %w", cp.WorkflowName, err)
	}

	wctx, done := r.executionContext(ctx, executionID)
	defer done()

	resumeOpts := []workflow.ResumeOption{
		workflow.WithRunOptions(r.runOpts...),
	}
	if len(newInput) > 0 {
		resumeOpts = append(resumeOpts, workflow.WithInput(newInput))
	}

	return compiled.Resume(wctx, r.store, executionID, resumeOpts...)
}

// Cancel requests cancellation of an in-flight execution. Advisory: it
// takes effect before the next node starts, never mid-node. Returns false
// if the execution is not currently running in this process.
func (r *Runner) Cancel(executionID string) bool {
	cancel, ok := r.cancels.Get(executionID)
	if !ok {
		return false
	}
	cancel()
	return true
}

// Running reports whether an execution is currently in flight.
func (r *Runner) Running(executionID string) bool {
	return r.cancels.Has(executionID)
}

// executionContext builds the per-run workflow context and registers the
// run for cancellation until done is called.
func (r *Runner) executionContext(ctx context.Context, executionID string) (workflow.Context, func()) {
	runCtx, cancel := context.WithCancel(ctx)
	r.cancels.Register(executionID, cancel)

	wctx := workflow.NewContext(runCtx,
		workflow.WithLogger(r.logger),
		workflow.WithResources(r.resources),
		workflow.WithCheckpointer(r.store),
		workflow.WithExecutionID(executionID),
	)

	return wctx, func() {
		r.cancels.Delete(executionID)
		cancel()
	}
}

// engineOptions assembles the run options for one execution.
func (r *Runner) engineOptions() []workflow.RunOption {
	opts := append([]workflow.RunOption(nil), r.runOpts...)
	if r.store != nil {
		opts = append(opts, workflow.WithCheckpointStore(r.store))
	}
	return opts
}
