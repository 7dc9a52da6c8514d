package workflow

import (
	"errors"
	"fmt"
	"sort"
)

// Compile validates the graph and returns an immutable CompiledGraph.
// Every violation is reported with its own sentinel; multiple violations
// are joined.
//
// Validation checks:
//  1. Entry point must be set and reference an existing node.
//  2. Every node ID registered at most once.
//  3. Every edge source must be an existing node.
//  4. Every edge target, including every conditional route target, must
//     be an existing node or END.
//  5. No node may carry both an unconditional and a conditional edge.
//
// A node with no outgoing edges is legal: reaching it terminates the run
// gracefully (implicit termination), so no path-to-END check is performed.
// Condition results are opaque until runtime; an unmapped label surfaces
// during execution as a RouteError, never here.
func (g *Graph) Compile() (*CompiledGraph, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var errs []error

	if g.entryPoint == "" {
		errs = append(errs, ErrNoEntryPoint)
	} else if _, exists := g.nodes[g.entryPoint]; !exists {
		errs = append(errs, fmt.Errorf("%w: %s", ErrEntryNotFound, g.entryPoint))
	}

	for _, id := range g.duplicates {
		errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateNode, id))
	}

	// Deterministic error order regardless of map iteration.
	for _, from := range sortedKeys(g.edges) {
		if _, exists := g.nodes[from]; !exists {
			errs = append(errs, fmt.Errorf("%w: edge source %q", ErrNodeNotFound, from))
		}
		for _, to := range g.edges[from] {
			if to != END {
				if _, exists := g.nodes[to]; !exists {
					errs = append(errs, fmt.Errorf("%w: edge target %q", ErrNodeNotFound, to))
				}
			}
		}
	}

	for _, from := range sortedKeys(g.conditionalEdges) {
		if _, exists := g.nodes[from]; !exists {
			errs = append(errs, fmt.Errorf("%w: conditional edge source %q", ErrNodeNotFound, from))
		}
		ce := g.conditionalEdges[from]
		for _, label := range sortedKeys(ce.routes) {
			to := ce.routes[label]
			if to != END {
				if _, exists := g.nodes[to]; !exists {
					errs = append(errs, fmt.Errorf("%w: route %q from %q targets %q", ErrNodeNotFound, label, from, to))
				}
			}
		}
		if _, both := g.edges[from]; both {
			errs = append(errs, fmt.Errorf("%w: %s", ErrAmbiguousEdges, from))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return g.buildCompiledGraph(), nil
}

// buildCompiledGraph snapshots the builder into an immutable graph.
func (g *Graph) buildCompiledGraph() *CompiledGraph {
	nodes := make(map[string]HandlerFunc, len(g.nodes))
	for id, fn := range g.nodes {
		nodes[id] = fn
	}

	edges := make(map[string][]string, len(g.edges))
	for from, targets := range g.edges {
		edges[from] = append([]string(nil), targets...)
	}

	conditionalEdges := make(map[string]conditionalEdge, len(g.conditionalEdges))
	for from, ce := range g.conditionalEdges {
		routes := make(map[string]string, len(ce.routes))
		for label, to := range ce.routes {
			routes[label] = to
		}
		conditionalEdges[from] = conditionalEdge{condition: ce.condition, routes: routes}
	}

	isConditional := make(map[string]bool, len(conditionalEdges))
	for from := range conditionalEdges {
		isConditional[from] = true
	}

	return &CompiledGraph{
		nodes:            nodes,
		edges:            edges,
		conditionalEdges: conditionalEdges,
		entryPoint:       g.entryPoint,
		isConditional:    isConditional,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
