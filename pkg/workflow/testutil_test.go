package workflow

import (
	"context"
	"errors"

	"github.com/RMASolutions/jobscraper/pkg/workflow/checkpoint"
)

// Shared test helpers.

// testCtx creates a plain execution context.
func testCtx() Context {
	return NewContext(context.Background())
}

// msgNode returns a handler that appends a single message.
func msgNode(msg string) HandlerFunc {
	return func(ctx Context, s ExecutionState) (Delta, error) {
		return Delta{Messages: []string{msg}}, nil
	}
}

// outputNode returns a handler that extends OutputData with kv.
func outputNode(kv map[string]any) HandlerFunc {
	return func(ctx Context, s ExecutionState) (Delta, error) {
		return Delta{OutputData: Extend(s.OutputData, kv)}, nil
	}
}

// scratchNode returns a handler that extends Scratch with kv.
func scratchNode(kv map[string]any) HandlerFunc {
	return func(ctx Context, s ExecutionState) (Delta, error) {
		return Delta{Scratch: Extend(s.Scratch, kv)}, nil
	}
}

// failingNode returns a handler that returns err.
func failingNode(err error) HandlerFunc {
	return func(ctx Context, s ExecutionState) (Delta, error) {
		return Delta{}, err
	}
}

// panicNode returns a handler that panics with value.
func panicNode(value any) HandlerFunc {
	return func(ctx Context, s ExecutionState) (Delta, error) {
		panic(value)
	}
}

// passthrough leaves the state untouched.
func passthrough(ctx Context, s ExecutionState) (Delta, error) {
	return Delta{}, nil
}

// linearGraph compiles entry -> second -> END with message-appending nodes.
func linearGraph() *CompiledGraph {
	cg, err := NewGraph().
		AddNode("entry", msgNode("entry")).
		AddNode("second", msgNode("second")).
		AddEdge("entry", "second").
		AddEdge("second", END).
		SetEntry("entry").
		Compile()
	if err != nil {
		panic(err)
	}
	return cg
}

// errSaveFailed is returned by failStore.
var errSaveFailed = errors.New("disk full")

// failStore fails every Save. Load/List behave as an empty store.
type failStore struct{}

func (failStore) Save(string, []byte) error        { return errSaveFailed }
func (failStore) Load(string) ([]byte, error)      { return nil, checkpoint.ErrNotFound }
func (failStore) Delete(string) error              { return nil }
func (failStore) List() ([]checkpoint.Info, error) { return nil, nil }
func (failStore) Close() error                     { return nil }
