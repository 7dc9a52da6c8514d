package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/RMASolutions/jobscraper/pkg/workflow/checkpoint"
	"github.com/RMASolutions/jobscraper/pkg/workflow/observability"
)

// Run drives the interpreter loop from the entry point until END is
// reached, a dead end terminates the run implicitly, or a fatal error
// occurs. Returns the final state; on error the state at the point of
// failure is returned alongside it, so the caller always sees either a
// final state or a distinct engine-level error, never silent partial
// success.
//
// Per step the executor:
//  1. Looks up the handler for the current step.
//  2. Invokes it with the current state; it returns a delta.
//  3. Merges the delta and persists a checkpoint (write-through, before
//     routing, so a resume never loses a completed step).
//  4. Picks the next step: conditional edge if present, else the first
//     unconditional edge, else the run terminates gracefully.
//
// Steps run strictly sequentially; a handler may do its own internal
// concurrency but the engine treats it as one atomic step. Cancellation is
// observed at step boundaries only.
func (cg *CompiledGraph) Run(ctx Context, state ExecutionState, opts ...RunOption) (ExecutionState, error) {
	if ctx == nil {
		return state, ErrNilContext
	}

	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.checkpointStore != nil && state.ExecutionID == "" {
		return state, ErrExecutionIDRequired
	}

	return cg.run(ctx, state, cg.entryPoint, &cfg)
}

// run executes from startNode with run-level observability.
func (cg *CompiledGraph) run(ctx Context, state ExecutionState, startNode string, cfg *runConfig) (result ExecutionState, runErr error) {
	logger := cfg.logger
	if logger == nil {
		logger = ctx.Logger()
	}

	startTime := time.Now()
	observability.LogRunStart(logger, state.ExecutionID, state.WorkflowName)

	var tracingCtx context.Context = ctx
	if cfg.tracingEnabled {
		var runSpan trace.Span
		tracingCtx, runSpan = cfg.spans.StartRunSpan(ctx, state.WorkflowName, state.ExecutionID)
		defer func() {
			cfg.spans.EndSpanWithError(runSpan, runErr)
		}()
	}

	var steps int
	result, steps, runErr = cg.loop(tracingCtx, ctx, state, startNode, logger, cfg)

	duration := time.Since(startTime)
	cfg.metrics.RecordRun(ctx, runErr == nil, duration)

	if runErr != nil {
		observability.LogRunError(logger, result.ExecutionID, runErr, float64(duration.Milliseconds()), result.CurrentStep)
	} else {
		observability.LogRunComplete(logger, result.ExecutionID, float64(duration.Milliseconds()), steps)
	}

	return result, runErr
}

// loop is the interpreter core. tracingCtx carries span context; wctx is
// the workflow Context handed to handlers. Returns the final state, the
// number of completed steps, and any error.
func (cg *CompiledGraph) loop(tracingCtx context.Context, wctx Context, state ExecutionState, startNode string, logger *slog.Logger, cfg *runConfig) (ExecutionState, int, error) {
	current := startNode
	iterations := 0
	steps := 0

	for current != END {
		iterations++
		if iterations > cfg.maxIterations {
			return state, steps, &MaxIterationsError{Max: cfg.maxIterations, LastNodeID: current}
		}

		// Cancellation is advisory and only takes effect here, never mid-node.
		select {
		case <-wctx.Done():
			return state, steps, &CancellationError{NodeID: current, Cause: wctx.Err()}
		default:
		}

		state.CurrentStep = current
		observability.LogStepStart(logger, current)

		stepTracingCtx := tracingCtx
		var stepSpan trace.Span
		if cfg.tracingEnabled {
			stepTracingCtx, stepSpan = cfg.spans.StartStepSpan(tracingCtx, current)
		}

		stepStart := time.Now()
		next, err := cg.step(wctx, current, &state, cfg)
		stepDuration := time.Since(stepStart)

		cfg.metrics.RecordStep(stepTracingCtx, current, stepDuration, err)
		if cfg.tracingEnabled {
			cfg.spans.EndSpanWithError(stepSpan, err)
		}

		if err != nil {
			observability.LogStepError(logger, current, err)
			return state, steps, err
		}
		observability.LogStepComplete(logger, current, float64(stepDuration.Milliseconds()))
		steps++

		if next == "" {
			// Dead end: a node with no outgoing edge is an implicit
			// terminal sink, not an error.
			break
		}
		current = next
	}

	return state, steps, nil
}

// step executes one node: invoke, merge, checkpoint, route.
// Returns the next node ID, "" for implicit termination, or an error.
func (cg *CompiledGraph) step(ctx Context, current string, state *ExecutionState, cfg *runConfig) (string, error) {
	merged, err := cg.executeNode(ctx, current, *state)
	if err != nil {
		return "", err
	}
	*state = merged

	if cfg.checkpointStore != nil {
		if err := cg.saveCheckpoint(ctx, cfg, *state); err != nil {
			return "", err
		}
	}

	return cg.nextStep(ctx, *state, current)
}

// executeNode invokes a single handler with panic recovery and merges its
// delta. The returned state is unchanged when an error is returned.
func (cg *CompiledGraph) executeNode(ctx Context, nodeID string, state ExecutionState) (result ExecutionState, err error) {
	fn, exists := cg.getNode(nodeID)
	if !exists {
		// Unreachable after a successful Compile; defensive check.
		return state, &NodeError{NodeID: nodeID, Op: "lookup", Err: fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)}
	}

	nodeCtx := ctx
	if ec, ok := ctx.(*executionContext); ok {
		nodeCtx = ec.withNodeID(nodeID)
	}

	defer func() {
		if r := recover(); r != nil {
			result = state
			err = &PanicError{NodeID: nodeID, Value: r, Stack: string(debug.Stack())}
		}
	}()

	delta, err := fn(nodeCtx, state)
	if err != nil {
		return state, &NodeError{NodeID: nodeID, Op: "execute", Err: err}
	}

	return state.Apply(delta), nil
}

// saveCheckpoint persists a whole-state snapshot keyed by execution ID.
// Store failures are fatal by default, surfaced as CheckpointError so the
// caller can distinguish infrastructure failure from workflow failure.
func (cg *CompiledGraph) saveCheckpoint(ctx Context, cfg *runConfig, state ExecutionState) error {
	logger := cfg.logger
	if logger == nil {
		logger = ctx.Logger()
	}

	fail := func(op string, err error) error {
		if cfg.lenientCheckpoints {
			observability.LogCheckpointError(logger, state.ExecutionID, op, err)
			return nil
		}
		return &CheckpointError{ExecutionID: state.ExecutionID, NodeID: state.CurrentStep, Op: op, Err: err}
	}

	stateBytes, err := json.Marshal(state)
	if err != nil {
		return fail("serialize", err)
	}

	cfg.sequence++
	cp := checkpoint.New(state.ExecutionID, state.WorkflowName, state.CurrentStep, cfg.sequence, stateBytes)
	data, err := cp.Marshal()
	if err != nil {
		return fail("marshal", err)
	}

	if err := cfg.checkpointStore.Save(state.ExecutionID, data); err != nil {
		return fail("save", err)
	}

	observability.LogCheckpoint(logger, state.ExecutionID, len(data))
	cfg.metrics.RecordCheckpoint(ctx, state.ExecutionID, int64(len(data)))
	return nil
}

// nextStep picks the next node. Conditional edges are checked first; a
// validated graph never carries both kinds on one node, so this order is a
// defensive tie-break only. Returns "" when the node has no outgoing edge.
func (cg *CompiledGraph) nextStep(ctx Context, state ExecutionState, current string) (string, error) {
	if ce, ok := cg.getConditional(current); ok {
		condCtx := ctx
		if ec, ok := ctx.(*executionContext); ok {
			condCtx = ec.withNodeID(current)
		}

		label := ce.condition(condCtx, state)
		target, mapped := ce.routes[label]
		if !mapped {
			return "", &RouteError{FromNode: current, Label: label, Err: ErrUnmappedLabel}
		}
		return target, nil
	}

	if edges := cg.getEdges(current); len(edges) > 0 {
		return edges[0], nil
	}

	return "", nil
}
