package workflow

import (
	"strings"
	"sync"
)

// conditionalEdge pairs a condition with its label → target route table.
type conditionalEdge struct {
	condition ConditionFunc
	routes    map[string]string
}

// Graph is a mutable builder for workflow graphs. Chain AddNode, AddEdge,
// AddConditionalEdge, and SetEntry, then call Compile to obtain an
// immutable CompiledGraph.
//
// Graph is not thread-safe during building; construct it from a single
// goroutine. Nil handlers and malformed node IDs are programmer errors and
// panic immediately. Structural problems (unknown targets, duplicate
// registrations, a missing entry point) are reported by Compile so edges
// and nodes may be added in any order.
type Graph struct {
	mu               sync.RWMutex
	nodes            map[string]HandlerFunc
	edges            map[string][]string
	conditionalEdges map[string]conditionalEdge
	entryPoint       string
	duplicates       []string
}

// NewGraph creates an empty graph builder.
func NewGraph() *Graph {
	return &Graph{
		nodes:            make(map[string]HandlerFunc),
		edges:            make(map[string][]string),
		conditionalEdges: make(map[string]conditionalEdge),
	}
}

// AddNode registers a named step handler. Returns the graph for chaining.
//
// Panics if id is empty, reserved ("END"/"__end__", case-insensitive),
// contains whitespace, or if fn is nil. Registering the same id twice is
// recorded and reported as ErrDuplicateNode at Compile time.
func (g *Graph) AddNode(id string, fn HandlerFunc) *Graph {
	if id == "" {
		panic("workflow: node ID cannot be empty")
	}
	idLower := strings.ToLower(id)
	if idLower == "end" || idLower == "__end__" {
		panic("workflow: node ID cannot be reserved word 'END'")
	}
	if strings.ContainsAny(id, " \t\n\r") {
		panic("workflow: node ID cannot contain whitespace")
	}
	if fn == nil {
		panic("workflow: node handler cannot be nil")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.nodes[id]; exists {
		g.duplicates = append(g.duplicates, id)
		return g
	}

	g.nodes[id] = fn
	return g
}

// AddEdge adds an unconditional edge. The target can be a node ID or END.
// Returns the graph for chaining. Validation happens at Compile time.
func (g *Graph) AddEdge(from, to string) *Graph {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.edges[from] = append(g.edges[from], to)
	return g
}

// AddConditionalEdge adds a condition-routed edge. At runtime the condition
// is evaluated against the post-merge state and its label is looked up in
// routes; route targets can be node IDs or END. Returns the graph for
// chaining.
//
// Panics if cond is nil or routes is empty. A later call for the same
// source replaces the earlier one.
func (g *Graph) AddConditionalEdge(from string, cond ConditionFunc, routes map[string]string) *Graph {
	if cond == nil {
		panic("workflow: condition function cannot be nil")
	}
	if len(routes) == 0 {
		panic("workflow: conditional edge needs at least one route")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.conditionalEdges[from] = conditionalEdge{condition: cond, routes: routes}
	return g
}

// SetEntry designates the entry point node. Must be called before Compile.
// Returns the graph for chaining.
func (g *Graph) SetEntry(id string) *Graph {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.entryPoint = id
	return g
}
