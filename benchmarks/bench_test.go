// Package benchmarks measures engine hot paths: the interpreter loop,
// state merging, and checkpoint persistence.
package benchmarks

import (
	"context"
	"fmt"

	"github.com/RMASolutions/jobscraper/pkg/workflow"
)

// noop leaves the state untouched.
func noop(ctx workflow.Context, s workflow.ExecutionState) (workflow.Delta, error) {
	return workflow.Delta{}, nil
}

// appender appends one message per step.
func appender(ctx workflow.Context, s workflow.ExecutionState) (workflow.Delta, error) {
	return workflow.Delta{Messages: []string{"step"}}, nil
}

// buildLinearGraph chains n noop nodes.
func buildLinearGraph(n int, handler workflow.HandlerFunc) *workflow.CompiledGraph {
	g := workflow.NewGraph()
	for i := 0; i < n; i++ {
		g.AddNode(nodeName(i), handler)
	}
	for i := 0; i < n-1; i++ {
		g.AddEdge(nodeName(i), nodeName(i+1))
	}
	g.AddEdge(nodeName(n-1), workflow.END)
	g.SetEntry(nodeName(0))
	return mustCompile(g)
}

// buildLoopGraph routes a node back to itself for iters passes.
func buildLoopGraph(iters int) *workflow.CompiledGraph {
	loop := func(ctx workflow.Context, s workflow.ExecutionState) (workflow.Delta, error) {
		count, _ := s.Scratch["count"].(int)
		return workflow.Delta{Scratch: map[string]any{"count": count + 1}}, nil
	}
	router := func(ctx workflow.Context, s workflow.ExecutionState) string {
		if count, _ := s.Scratch["count"].(int); count < iters {
			return "again"
		}
		return "done"
	}

	g := workflow.NewGraph().
		AddNode("loop", loop).
		AddConditionalEdge("loop", router, map[string]string{
			"again": "loop",
			"done":  workflow.END,
		}).
		SetEntry("loop")
	return mustCompile(g)
}

func nodeName(i int) string {
	return fmt.Sprintf("node%d", i)
}

func mustCompile(g *workflow.Graph) *workflow.CompiledGraph {
	compiled, err := g.Compile()
	if err != nil {
		panic(err)
	}
	return compiled
}

func benchCtx() workflow.Context {
	return workflow.NewContext(context.Background())
}
