/*
Package workflow provides the graph execution engine behind the
jobscraper data-collection pipelines.

# Overview

A workflow is a directed graph of named steps. Each step handler receives
the shared ExecutionState and returns a Delta; the engine merges deltas
with fixed per-field rules (messages append, everything else replaces),
persists a checkpoint after every completed step, evaluates conditional
transitions against the post-merge state, and reports terminal success or
a distinct engine-level error.

The site-specific collection scripts (browser automation, mail parsing,
LLM summarization) are plain HandlerFunc values registered by name. The
engine knows nothing about them beyond the handler contract.

# Basic usage

	func fetch(ctx workflow.Context, s workflow.ExecutionState) (workflow.Delta, error) {
	    rows := scrape(s.InputData["url"].(string))
	    return workflow.Delta{
	        Scratch:  workflow.Extend(s.Scratch, map[string]any{"rows": rows}),
	        Messages: []string{"fetched listing page"},
	    }, nil
	}

	compiled, err := workflow.NewGraph().
	    AddNode("fetch", fetch).
	    AddNode("store", store).
	    AddEdge("fetch", "store").
	    AddEdge("store", workflow.END).
	    SetEntry("fetch").
	    Compile()

	ctx := workflow.NewContext(context.Background())
	final, err := compiled.Run(ctx, compiled.NewState("exec-1", "demo", input))

# Error handling

Handlers report expected business failures by setting Error in their
delta; the engine carries the field without interpreting it, and the graph
may route on it with a conditional edge. An error returned (or a panic
raised) by a handler aborts the run immediately. Checkpoint store failures
surface as *CheckpointError, distinct from handler failures.

# Checkpointing and resume

With a checkpoint store configured, the engine writes a whole-state
snapshot keyed by execution ID after each step, before routing. Resume
loads the snapshot and re-enters the loop at the recorded step,
re-executing it; see the checkpoint package for the available backends.
*/
package workflow
