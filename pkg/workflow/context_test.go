package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMASolutions/jobscraper/pkg/workflow/checkpoint"
	"github.com/RMASolutions/jobscraper/pkg/workflow/registry"
)

func TestNewContext_Defaults(t *testing.T) {
	ctx := NewContext(context.Background())

	assert.NotNil(t, ctx.Logger())
	assert.NotNil(t, ctx.Resources())
	assert.Nil(t, ctx.Checkpointer())
	assert.Empty(t, ctx.NodeID())
	assert.Equal(t, 1, ctx.Attempt())

	_, err := uuid.Parse(ctx.ExecutionID())
	assert.NoError(t, err)
}

func TestNewContext_Options(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	res := registry.New[string, any]()
	store := checkpoint.NewMemoryStore()
	defer store.Close()

	ctx := NewContext(context.Background(),
		WithLogger(logger),
		WithResources(res),
		WithCheckpointer(store),
		WithExecutionID("exec-77"),
		WithAttempt(3),
	)

	assert.Same(t, logger, ctx.Logger())
	assert.Same(t, res, ctx.Resources())
	assert.Equal(t, store, ctx.Checkpointer())
	assert.Equal(t, "exec-77", ctx.ExecutionID())
	assert.Equal(t, 3, ctx.Attempt())
}

// TestNewContext_NilAndZeroOptionsIgnored keeps the defaults when option
// values are unusable.
func TestNewContext_NilAndZeroOptionsIgnored(t *testing.T) {
	ctx := NewContext(context.Background(),
		WithLogger(nil),
		WithResources(nil),
		WithExecutionID(""),
		WithAttempt(0),
	)

	assert.NotNil(t, ctx.Logger())
	assert.NotNil(t, ctx.Resources())
	assert.NotEmpty(t, ctx.ExecutionID())
	assert.Equal(t, 1, ctx.Attempt())
}

// TestContext_IsStdContext verifies cancellation flows through.
func TestContext_IsStdContext(t *testing.T) {
	base, cancel := context.WithCancel(context.Background())
	ctx := NewContext(base)

	select {
	case <-ctx.Done():
		t.Fatal("context done before cancel")
	default:
	}

	cancel()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

// TestHandlerContext_Enriched verifies handlers see their node identity
// and an enriched logger.
func TestHandlerContext_Enriched(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	var seenNode string
	probe := func(ctx Context, s ExecutionState) (Delta, error) {
		seenNode = ctx.NodeID()
		ctx.Logger().Info("from handler")
		return Delta{}, nil
	}

	cg, err := NewGraph().
		AddNode("probe", probe).
		AddEdge("probe", END).
		SetEntry("probe").
		Compile()
	require.NoError(t, err)

	ctx := NewContext(context.Background(), WithLogger(logger), WithExecutionID("exec-log"))
	_, err = cg.Run(ctx, cg.NewState("exec-log", "demo", nil))
	require.NoError(t, err)

	assert.Equal(t, "probe", seenNode)

	// Run-level lines share the buffer; pick out the handler's line.
	var rec map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var candidate map[string]any
		require.NoError(t, json.Unmarshal(line, &candidate))
		if candidate["msg"] == "from handler" {
			rec = candidate
			break
		}
	}
	require.NotNil(t, rec, "handler log line not found")
	assert.Equal(t, "exec-log", rec["execution_id"])
	assert.Equal(t, "probe", rec["node_id"])
}
