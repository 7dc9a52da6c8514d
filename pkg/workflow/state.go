package workflow

// ExecutionState is the single mutable record threaded through one run.
// Exactly one value flows through a run; the executor owns it and applies
// handler deltas to it between steps. Field names on the wire match the
// persisted checkpoint layout.
//
// InputData is seeded by the caller before the run starts and is never
// written by the engine afterwards. The only sanctioned amendment is an
// explicit WithInput option on Resume.
type ExecutionState struct {
	// ExecutionID uniquely identifies this run. Immutable after creation.
	ExecutionID string `json:"execution_id"`

	// WorkflowName identifies the graph definition in use. Immutable.
	WorkflowName string `json:"workflow_name"`

	// CurrentStep is the most recently entered node. Updated by the executor.
	CurrentStep string `json:"current_step"`

	// InputData is caller-supplied input. Handlers read it, never write it.
	InputData map[string]any `json:"input_data"`

	// OutputData is the caller-visible result, accumulated by terminal nodes.
	OutputData map[string]any `json:"output_data"`

	// Messages is the append-only run log. Deltas concatenate, never replace.
	Messages []string `json:"messages"`

	// Scratch holds workflow-private working data. Replace-merge per step.
	Scratch map[string]any `json:"scratch"`

	// Error is a handler-reported business failure. The engine persists it
	// but never interprets it; routing on it is the graph's own business.
	Error string `json:"error,omitempty"`

	// ShouldRetry is advisory. Handlers may set it; the engine never reads it.
	ShouldRetry bool `json:"should_retry,omitempty"`
}

// Delta is the partial state a handler returns. Nil fields leave the
// corresponding state field untouched. Non-nil OutputData and Scratch
// replace the whole map (handlers return the previous value extended with
// their own keys, see Extend). Messages are appended. Error and ShouldRetry
// are pointers so a handler can distinguish "leave alone" (nil) from
// "set", including an explicit clear via a pointer to the empty string.
//
// There is deliberately no InputData and no CurrentStep here: input is
// immutable during a run and the current step belongs to the executor.
type Delta struct {
	OutputData  map[string]any
	Scratch     map[string]any
	Messages    []string
	Error       *string
	ShouldRetry *bool
}

// NewState returns the initialized empty-state template for a run:
// all reserved fields present, maps allocated, CurrentStep at the entry.
// The input map is copied so the caller's map is never aliased.
func NewState(executionID, workflowName, entryPoint string, input map[string]any) ExecutionState {
	in := make(map[string]any, len(input))
	for k, v := range input {
		in[k] = v
	}
	return ExecutionState{
		ExecutionID:  executionID,
		WorkflowName: workflowName,
		CurrentStep:  entryPoint,
		InputData:    in,
		OutputData:   make(map[string]any),
		Messages:     []string{},
		Scratch:      make(map[string]any),
	}
}

// Apply merges a handler delta into the state and returns the next state.
//
// Merge rules are fixed per field, not per node:
//   - Messages: concatenated in order, no dedup.
//   - OutputData, Scratch: replace-whole-value when non-nil.
//   - Error, ShouldRetry: replace when the pointer is set.
//
// Applying the same delta twice yields the same OutputData and Scratch as
// applying it once; only Messages accumulate.
func (s ExecutionState) Apply(d Delta) ExecutionState {
	if d.OutputData != nil {
		s.OutputData = d.OutputData
	}
	if d.Scratch != nil {
		s.Scratch = d.Scratch
	}
	if len(d.Messages) > 0 {
		// Full slice expression forces a copy so earlier snapshots of the
		// state never share backing storage with the merged result.
		s.Messages = append(s.Messages[:len(s.Messages):len(s.Messages)], d.Messages...)
	}
	if d.Error != nil {
		s.Error = *d.Error
	}
	if d.ShouldRetry != nil {
		s.ShouldRetry = *d.ShouldRetry
	}
	return s
}

// Extend returns a copy of m with the entries of kv added, overwriting on
// key collision. Handlers use it to build replace-whole deltas for Scratch
// and OutputData without mutating the state they were given:
//
//	return workflow.Delta{
//	    Scratch: workflow.Extend(s.Scratch, map[string]any{"page": 2}),
//	}, nil
func Extend(m map[string]any, kv map[string]any) map[string]any {
	out := make(map[string]any, len(m)+len(kv))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range kv {
		out[k] = v
	}
	return out
}

// Ptr returns a pointer to v. Convenience for Delta's pointer fields:
//
//	return workflow.Delta{Error: workflow.Ptr("login failed")}, nil
func Ptr[T any](v T) *T {
	return &v
}
