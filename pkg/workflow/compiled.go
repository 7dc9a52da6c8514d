package workflow

// CompiledGraph is an immutable, executable graph produced by Compile.
// It is safe for concurrent use: any number of runs with distinct
// execution IDs may execute against the same compiled graph.
type CompiledGraph struct {
	nodes            map[string]HandlerFunc
	edges            map[string][]string
	conditionalEdges map[string]conditionalEdge
	entryPoint       string
	isConditional    map[string]bool
}

// EntryPoint returns the entry node ID.
func (cg *CompiledGraph) EntryPoint() string {
	return cg.entryPoint
}

// NodeIDs returns all node identifiers. The order is not guaranteed.
func (cg *CompiledGraph) NodeIDs() []string {
	ids := make([]string, 0, len(cg.nodes))
	for id := range cg.nodes {
		ids = append(ids, id)
	}
	return ids
}

// HasNode reports whether a node exists in the graph.
func (cg *CompiledGraph) HasNode(id string) bool {
	_, exists := cg.nodes[id]
	return exists
}

// Successors returns the unconditional edge targets of a node.
// Conditional routes are runtime-determined and not included.
func (cg *CompiledGraph) Successors(id string) []string {
	return cg.edges[id]
}

// IsConditional reports whether a node routes through a conditional edge.
func (cg *CompiledGraph) IsConditional(id string) bool {
	return cg.isConditional[id]
}

// NewState returns the initialized empty-state template for a run of this
// graph, positioned at the entry point.
func (cg *CompiledGraph) NewState(executionID, workflowName string, input map[string]any) ExecutionState {
	return NewState(executionID, workflowName, cg.entryPoint, input)
}

// getNode returns the handler for a node. Used by the executor.
func (cg *CompiledGraph) getNode(id string) (HandlerFunc, bool) {
	fn, exists := cg.nodes[id]
	return fn, exists
}

// getConditional returns the conditional edge for a node. Used by the executor.
func (cg *CompiledGraph) getConditional(id string) (conditionalEdge, bool) {
	ce, exists := cg.conditionalEdges[id]
	return ce, exists
}

// getEdges returns the unconditional edge targets for a node.
func (cg *CompiledGraph) getEdges(id string) []string {
	return cg.edges[id]
}
