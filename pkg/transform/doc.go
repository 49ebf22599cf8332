// Package transform provides composable graph-to-graph rewrites.
//
// # Overview
//
// A [Transformer] takes a graph and returns a new graph. Transformers never
// mutate their input: stages that change structure build a fresh graph, so a
// caller may keep using the input after a transform returns.
//
// [Pipe] composes transformers left to right, feeding each stage's output to
// the next. Composition is associative - a pipe of pipes yields the same
// result as a flat pipe of the same stages - and no stage knows about the
// stages around it:
//
//	t := transform.Pipe(
//	    transform.FilterEdges(transform.MinAbsValue("value", 0.6)),
//	    concentrate.New(concentrate.WithGroupProperty("timeGroup")),
//	)
//	out, err := t.Transform(g)
//
// # Errors
//
// A failing stage aborts the pipe and its error is returned unchanged, so
// callers can match graph sentinel errors with errors.Is.
package transform
