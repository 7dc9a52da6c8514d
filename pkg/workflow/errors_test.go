package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeError(t *testing.T) {
	underlying := errors.New("selector vanished")
	err := &NodeError{NodeID: "parse", Op: "execute", Err: underlying}

	assert.Contains(t, err.Error(), "parse")
	assert.Contains(t, err.Error(), "execute")
	assert.ErrorIs(t, err, underlying)
}

func TestPanicError(t *testing.T) {
	err := &PanicError{NodeID: "store", Value: "boom", Stack: "goroutine 1 ..."}

	assert.Contains(t, err.Error(), "store")
	assert.Contains(t, err.Error(), "boom")
}

func TestRouteError(t *testing.T) {
	err := &RouteError{FromNode: "triage", Label: "maybe", Err: ErrUnmappedLabel}

	assert.Contains(t, err.Error(), "triage")
	assert.Contains(t, err.Error(), `"maybe"`)
	assert.ErrorIs(t, err, ErrUnmappedLabel)
}

func TestCheckpointError(t *testing.T) {
	underlying := errors.New("disk full")
	err := &CheckpointError{ExecutionID: "exec-1", NodeID: "fetch", Op: "save", Err: underlying}

	assert.Contains(t, err.Error(), "exec-1")
	assert.Contains(t, err.Error(), "save")
	assert.ErrorIs(t, err, underlying)
}

func TestCancellationError(t *testing.T) {
	err := &CancellationError{NodeID: "apply", Cause: context.Canceled}

	assert.Contains(t, err.Error(), "apply")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMaxIterationsError(t *testing.T) {
	err := &MaxIterationsError{Max: 100, LastNodeID: "paginate"}

	assert.Contains(t, err.Error(), "100")
	assert.Contains(t, err.Error(), "paginate")
	assert.ErrorIs(t, err, ErrMaxIterations)
}
