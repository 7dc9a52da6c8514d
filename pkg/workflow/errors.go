package workflow

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph building and compilation.
var (
	// ErrNoEntryPoint indicates SetEntry was not called before Compile.
	ErrNoEntryPoint = errors.New("entry point not set")

	// ErrEntryNotFound indicates the entry point references a non-existent node.
	ErrEntryNotFound = errors.New("entry point node not found")

	// ErrNodeNotFound indicates an edge or route references a non-existent node.
	ErrNodeNotFound = errors.New("node not found")

	// ErrDuplicateNode indicates the same node ID was registered twice.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrAmbiguousEdges indicates a node has both an unconditional and a
	// conditional edge. Precedence would be silent; the compiler rejects it.
	ErrAmbiguousEdges = errors.New("node has both unconditional and conditional edges")
)

// Sentinel errors for execution.
var (
	// ErrNilContext indicates Run or Resume was called with a nil context.
	ErrNilContext = errors.New("context cannot be nil")

	// ErrMaxIterations indicates the interpreter loop exceeded its limit.
	ErrMaxIterations = errors.New("exceeded maximum iterations")

	// ErrUnmappedLabel indicates a condition returned a label with no route.
	ErrUnmappedLabel = errors.New("condition label not mapped")

	// ErrExecutionIDRequired indicates checkpointing was requested for a
	// state without an execution ID.
	ErrExecutionIDRequired = errors.New("execution ID required for checkpointing")
)

// Sentinel errors for checkpointing and resume.
var (
	// ErrNoCheckpoints indicates no checkpoint exists for the execution.
	ErrNoCheckpoints = errors.New("no checkpoint found for execution")

	// ErrDeserializeState indicates checkpointed state could not be decoded.
	ErrDeserializeState = errors.New("failed to deserialize state")

	// ErrInvalidResumeNode indicates the checkpointed step no longer exists
	// in the graph being resumed.
	ErrInvalidResumeNode = errors.New("invalid resume node")

	// ErrCheckpointVersionMismatch indicates an incompatible checkpoint format.
	ErrCheckpointVersionMismatch = errors.New("checkpoint version mismatch")
)

// NodeError wraps a handler failure with step context. Handler-returned
// errors are unexpected by contract (business failures belong in
// state.Error) and abort the run.
type NodeError struct {
	// NodeID is the step that failed.
	NodeID string
	// Op is the operation that failed ("lookup", "execute").
	Op string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s: %s: %v", e.NodeID, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *NodeError) Unwrap() error {
	return e.Err
}

// PanicError captures a panic that escaped a handler, with its stack trace.
type PanicError struct {
	// NodeID is the step that panicked.
	NodeID string
	// Value is the value passed to panic().
	Value any
	// Stack is the stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("node %s panicked: %v", e.NodeID, e.Value)
}

// RouteError reports a conditional routing failure: the condition returned
// a label absent from its route table.
type RouteError struct {
	// FromNode is the node carrying the conditional edge.
	FromNode string
	// Label is what the condition returned.
	Label string
	// Err is ErrUnmappedLabel.
	Err error
}

// Error implements the error interface.
func (e *RouteError) Error() string {
	return fmt.Sprintf("condition at %s returned %q: %v", e.FromNode, e.Label, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *RouteError) Unwrap() error {
	return e.Err
}

// CheckpointError wraps a checkpoint store failure. It is surfaced
// distinctly from handler errors so operators can tell a workflow business
// failure from an infrastructure failure.
type CheckpointError struct {
	// ExecutionID is the run whose checkpoint failed.
	ExecutionID string
	// NodeID is the step after which checkpointing failed.
	NodeID string
	// Op is the operation that failed ("serialize", "marshal", "save").
	Op string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *CheckpointError) Error() string {
	return fmt.Sprintf("checkpoint %s for execution %s at node %s: %v", e.Op, e.ExecutionID, e.NodeID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *CheckpointError) Unwrap() error {
	return e.Err
}

// CancellationError reports cancellation observed at a step boundary.
// Cancellation never interrupts a running handler.
type CancellationError struct {
	// NodeID is the step that was about to execute.
	NodeID string
	// Cause is context.Canceled or context.DeadlineExceeded.
	Cause error
}

// Error implements the error interface.
func (e *CancellationError) Error() string {
	return fmt.Sprintf("cancelled before node %s: %v", e.NodeID, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CancellationError) Unwrap() error {
	return e.Cause
}

// MaxIterationsError reports that the loop guard tripped.
type MaxIterationsError struct {
	// Max is the configured iteration limit.
	Max int
	// LastNodeID is the node that would have executed next.
	LastNodeID string
}

// Error implements the error interface.
func (e *MaxIterationsError) Error() string {
	return fmt.Sprintf("exceeded maximum iterations (%d) at node %s", e.Max, e.LastNodeID)
}

// Unwrap returns ErrMaxIterations for errors.Is support.
func (e *MaxIterationsError) Unwrap() error {
	return ErrMaxIterations
}
