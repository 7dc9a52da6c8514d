package workflow

// END is the reserved terminal marker. Use it as an edge target (or a
// conditional route target) to signal successful completion.
const END = "__end__"

// HandlerFunc is the signature for all step handlers.
//
// Handlers receive the execution context and the current state, and return
// a Delta describing their state update. Expected business failures must be
// reported by setting Error in the delta, not by returning an error: a
// returned error (or a panic) aborts the run immediately with no further
// steps executed.
//
// The state is passed by value. Handlers must treat InputData as read-only
// and must not mutate the maps they were given; Extend builds the
// replace-whole maps the merge protocol expects.
type HandlerFunc func(ctx Context, s ExecutionState) (Delta, error)

// ConditionFunc decides where a conditional edge routes. It reads the
// post-merge state and returns a label that is looked up in the edge's
// route table. Conditions must be pure with respect to engine state and
// synchronous.
//
// A label absent from the route table is a fatal routing error; execution
// never silently defaults to any node.
type ConditionFunc func(ctx Context, s ExecutionState) string

// Edge is a transition rule in a workflow definition. It is either
// unconditional (To set, Condition nil) or conditional (Condition and
// Routes set, To empty). The literal target "END" is accepted as an alias
// for the END marker when building from a definition.
type Edge struct {
	From      string
	To        string
	Condition ConditionFunc
	Routes    map[string]string
}

// To returns an unconditional edge.
func To(from, to string) Edge {
	return Edge{From: from, To: to}
}

// When returns a conditional edge routed by cond through routes.
func When(from string, cond ConditionFunc, routes map[string]string) Edge {
	return Edge{From: from, Condition: cond, Routes: routes}
}
