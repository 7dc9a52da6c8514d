package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMASolutions/jobscraper/pkg/workflow"
	"github.com/RMASolutions/jobscraper/pkg/workflow/checkpoint"
	"github.com/RMASolutions/jobscraper/pkg/workflow/registry"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := NewCatalog(nil)
	c.Register("scrape-indeed", twoStepDefinition("scrape-indeed"))
	return c
}

func TestRunner_Run(t *testing.T) {
	r := New(testCatalog(t))

	final, err := r.Run(context.Background(), "scrape-indeed", map[string]any{"query": "go developer"}, "exec-1")

	require.NoError(t, err)
	assert.Equal(t, "exec-1", final.ExecutionID)
	assert.Equal(t, "scrape-indeed", final.WorkflowName)
	assert.Equal(t, []string{"fetched", "stored"}, final.Messages)
	assert.Equal(t, "go developer", final.InputData["query"])
}

func TestRunner_Run_UnknownWorkflow(t *testing.T) {
	r := New(testCatalog(t))

	_, err := r.Run(context.Background(), "ghost", nil, "exec-1")
	assert.ErrorIs(t, err, ErrUnknownWorkflow)
}

// TestRunner_Run_GeneratesExecutionID verifies a blank ID is replaced with
// a UUID rather than rejected.
func TestRunner_Run_GeneratesExecutionID(t *testing.T) {
	r := New(testCatalog(t), WithStore(checkpoint.NewMemoryStore()))

	final, err := r.Run(context.Background(), "scrape-indeed", nil, "")

	require.NoError(t, err)
	_, parseErr := uuid.Parse(final.ExecutionID)
	assert.NoError(t, parseErr)
}

// TestRunner_Run_Checkpoints verifies a store-backed runner leaves a
// loadable checkpoint behind.
func TestRunner_Run_Checkpoints(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	defer store.Close()
	r := New(testCatalog(t), WithStore(store))

	_, err := r.Run(context.Background(), "scrape-indeed", nil, "exec-cp")
	require.NoError(t, err)

	data, err := store.Load("exec-cp")
	require.NoError(t, err)
	cp, err := checkpoint.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, "scrape-indeed", cp.WorkflowName)
	assert.Equal(t, "store", cp.NodeID)
}

// flakyStoreDefinition fails its "store" step until fixed() reports true.
func flakyStoreDefinition(name string, fixed *bool) Factory {
	return func() Definition {
		return &stubDefinition{
			name:  name,
			entry: "fetch",
			nodes: map[string]workflow.HandlerFunc{
				"fetch": func(ctx workflow.Context, s workflow.ExecutionState) (workflow.Delta, error) {
					return workflow.Delta{Messages: []string{"fetched"}}, nil
				},
				"store": func(ctx workflow.Context, s workflow.ExecutionState) (workflow.Delta, error) {
					if !*fixed {
						return workflow.Delta{}, errors.New("database unavailable")
					}
					return workflow.Delta{Messages: []string{"stored"}}, nil
				},
			},
			edges: []workflow.Edge{
				workflow.To("fetch", "store"),
				workflow.To("store", "END"),
			},
		}
	}
}

// TestRunner_Resume recovers a failed execution end to end: the workflow
// type comes from the checkpoint, not the caller.
func TestRunner_Resume(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	defer store.Close()

	fixed := false
	c := NewCatalog(nil)
	c.Register("scrape-indeed", flakyStoreDefinition("scrape-indeed", &fixed))
	r := New(c, WithStore(store))

	_, err := r.Run(context.Background(), "scrape-indeed", nil, "exec-flaky")
	require.Error(t, err)

	fixed = true
	final, err := r.Resume(context.Background(), "exec-flaky", nil)

	require.NoError(t, err)
	// fetch checkpointed once, replayed on resume, then store succeeds.
	assert.Equal(t, []string{"fetched", "fetched", "stored"}, final.Messages)
}

func TestRunner_Resume_NoStore(t *testing.T) {
	r := New(testCatalog(t))

	_, err := r.Resume(context.Background(), "exec-1", nil)
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestRunner_Resume_NoCheckpoints(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	defer store.Close()
	r := New(testCatalog(t), WithStore(store))

	_, err := r.Resume(context.Background(), "never-ran", nil)
	assert.ErrorIs(t, err, workflow.ErrNoCheckpoints)
}

// TestRunner_Resume_WithInput amends input data on recovery.
func TestRunner_Resume_WithInput(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	defer store.Close()

	fixed := false
	c := NewCatalog(nil)
	c.Register("scrape-indeed", flakyStoreDefinition("scrape-indeed", &fixed))
	r := New(c, WithStore(store))

	_, err := r.Run(context.Background(), "scrape-indeed", map[string]any{"query": "go"}, "exec-amend")
	require.Error(t, err)

	fixed = true
	final, err := r.Resume(context.Background(), "exec-amend", map[string]any{"pages": 5})

	require.NoError(t, err)
	assert.Equal(t, "go", final.InputData["query"])
	// Checkpointed keys round-trip through JSON; amended keys merge in
	// memory, so the int survives as-is.
	assert.Equal(t, 5, final.InputData["pages"])
}

// TestRunner_Cancel stops an in-flight run at the next step boundary.
func TestRunner_Cancel(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	c := NewCatalog(nil)
	c.Register("slow", func() Definition {
		return &stubDefinition{
			name:  "slow",
			entry: "wait",
			nodes: map[string]workflow.HandlerFunc{
				"wait": func(ctx workflow.Context, s workflow.ExecutionState) (workflow.Delta, error) {
					close(started)
					<-release
					return workflow.Delta{}, nil
				},
				"after": func(ctx workflow.Context, s workflow.ExecutionState) (workflow.Delta, error) {
					return workflow.Delta{Messages: []string{"must not run"}}, nil
				},
			},
			edges: []workflow.Edge{
				workflow.To("wait", "after"),
				workflow.To("after", "END"),
			},
		}
	})

	r := New(c)
	type runResult struct {
		state workflow.ExecutionState
		err   error
	}
	done := make(chan runResult, 1)
	go func() {
		state, err := r.Run(context.Background(), "slow", nil, "exec-cancel")
		done <- runResult{state, err}
	}()

	<-started
	assert.True(t, r.Running("exec-cancel"))
	require.True(t, r.Cancel("exec-cancel"))
	close(release)

	select {
	case res := <-done:
		var cancelErr *workflow.CancellationError
		require.ErrorAs(t, res.err, &cancelErr)
		assert.NotContains(t, res.state.Messages, "must not run")
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancellation")
	}

	assert.False(t, r.Running("exec-cancel"))
}

func TestRunner_Cancel_NotRunning(t *testing.T) {
	r := New(testCatalog(t))
	assert.False(t, r.Cancel("ghost"))
}

// TestRunner_ResourcesReachHandlers verifies the injected resource set is
// visible through the handler context.
func TestRunner_ResourcesReachHandlers(t *testing.T) {
	res := registry.New[string, any]()
	res.Register("greeting", "hello")

	c := NewCatalog(nil)
	c.Register("uses-resource", func() Definition {
		return &stubDefinition{
			name:  "uses-resource",
			entry: "read",
			nodes: map[string]workflow.HandlerFunc{
				"read": func(ctx workflow.Context, s workflow.ExecutionState) (workflow.Delta, error) {
					v, ok := ctx.Resources().Get("greeting")
					if !ok {
						return workflow.Delta{}, errors.New("resource missing")
					}
					return workflow.Delta{OutputData: map[string]any{"greeting": v}}, nil
				},
			},
			edges: []workflow.Edge{workflow.To("read", "END")},
		}
	})

	r := New(c, WithResources(res))
	final, err := r.Run(context.Background(), "uses-resource", nil, "exec-res")

	require.NoError(t, err)
	assert.Equal(t, "hello", final.OutputData["greeting"])
}
