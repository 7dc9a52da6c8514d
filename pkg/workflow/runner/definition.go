// Package runner wires workflow definitions to the execution engine: a
// catalog mapping workflow-type names to definition factories, a builder
// that turns a definition into a compiled graph, and a Runner implementing
// the run/resume/cancel trigger contract consumed by schedulers.
package runner

import (
	"github.com/RMASolutions/jobscraper/pkg/workflow"
)

// Definition is the contract each site-specific workflow implements.
// Definitions are pure construction-time wiring; all execution logic lives
// in the engine and in the handlers themselves.
type Definition interface {
	// Name identifies the workflow type.
	Name() string

	// EntryPoint is the node where execution begins.
	EntryPoint() string

	// Nodes maps step names to their handlers.
	Nodes() map[string]workflow.HandlerFunc

	// Edges lists the transition rules. The literal target "END" is
	// accepted as an alias for workflow.END.
	Edges() []workflow.Edge
}

// Factory constructs a fresh Definition instance.
type Factory func() Definition

// Build translates a definition into a compiled, validated graph.
func Build(def Definition) (*workflow.CompiledGraph, error) {
	g := workflow.NewGraph()

	for name, handler := range def.Nodes() {
		g.AddNode(name, handler)
	}

	for _, e := range def.Edges() {
		if e.Condition != nil {
			routes := make(map[string]string, len(e.Routes))
			for label, target := range e.Routes {
				routes[label] = resolveEnd(target)
			}
			g.AddConditionalEdge(e.From, e.Condition, routes)
			continue
		}
		g.AddEdge(e.From, resolveEnd(e.To))
	}

	g.SetEntry(def.EntryPoint())
	return g.Compile()
}

// resolveEnd maps the "END" alias used in definitions to the terminal marker.
func resolveEnd(target string) string {
	if target == "END" {
		return workflow.END
	}
	return target
}
