package workflow

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RMASolutions/jobscraper/pkg/workflow/checkpoint"
)

// Resume continues an execution from its checkpoint. The loop re-enters at
// the step recorded in the checkpoint (the node the run was on when it
// last persisted) so that node executes again. Handler idempotency across
// such a replay is the workflow author's responsibility; the merge itself
// introduces no extra non-idempotence for OutputData and Scratch.
//
// WithInput merges new keys into the checkpointed InputData before
// re-entry, supporting the "add input, continue where we stopped" flow.
//
//	final, err := compiled.Resume(ctx, store, "exec-42",
//	    workflow.WithInput(map[string]any{"otp": code}))
func (cg *CompiledGraph) Resume(ctx Context, store checkpoint.Store, executionID string, opts ...ResumeOption) (ExecutionState, error) {
	var zero ExecutionState

	if ctx == nil {
		return zero, ErrNilContext
	}

	cfg := resumeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	data, err := store.Load(executionID)
	if err != nil {
		if errors.Is(err, checkpoint.ErrNotFound) {
			return zero, fmt.Errorf("%w: %s", ErrNoCheckpoints, executionID)
		}
		return zero, &CheckpointError{ExecutionID: executionID, Op: "load", Err: err}
	}

	cp, err := checkpoint.Unmarshal(data)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrDeserializeState, err)
	}
	if cp.Version != checkpoint.Version {
		return zero, fmt.Errorf("%w: got %d, expected %d",
			ErrCheckpointVersionMismatch, cp.Version, checkpoint.Version)
	}

	var state ExecutionState
	if err := json.Unmarshal(cp.State, &state); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrDeserializeState, err)
	}

	// The one sanctioned amendment of InputData: explicit caller-driven
	// resume input.
	if len(cfg.input) > 0 {
		if state.InputData == nil {
			state.InputData = make(map[string]any, len(cfg.input))
		}
		for k, v := range cfg.input {
			state.InputData[k] = v
		}
	}

	startNode := state.CurrentStep
	if startNode == "" {
		startNode = cp.NodeID
	}
	if startNode != END && !cg.HasNode(startNode) {
		return zero, fmt.Errorf("%w: %s", ErrInvalidResumeNode, startNode)
	}

	runCfg := defaultRunConfig()
	for _, opt := range cfg.runOpts {
		opt(&runCfg)
	}
	runCfg.checkpointStore = store
	runCfg.sequence = cp.Sequence

	return cg.run(ctx, state, startNode, &runCfg)
}
