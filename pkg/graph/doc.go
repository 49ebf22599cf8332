// Package graph provides the directed graph that edge concentration reads
// and writes.
//
// # Overview
//
// A [Graph] holds data-bearing vertices and at most one directed edge per
// ordered vertex pair. Vertices and edges carry [Properties]: a map from
// property name to a [Value] restricted to strings, numbers and booleans,
// with lookup-or-default accessors:
//
//	g := graph.New()
//	_ = g.AddVertex(graph.Vertex{ID: "a1", Props: graph.Properties{"group": graph.String("A")}})
//	_ = g.AddVertex(graph.Vertex{ID: "b1", Props: graph.Properties{"group": graph.String("B")}})
//	_ = g.AddEdge(graph.Edge{From: "a1", To: "b1", Props: graph.Properties{"value": graph.Number(0.8)}})
//
// Edge lookups with [Graph.Edge] are constant time, which the concentration
// strategies depend on since they probe many vertex pairs per iteration.
//
// # Determinism
//
// Vertices keep insertion order and edges are enumerated by source vertex
// order, then out-neighbor insertion order. Two graphs built by the same
// sequence of calls enumerate identically.
//
// # Hubs
//
// Elements created by edge concentration have [KindHub]. Hub vertices carry
// a [Vertex.Size] (the number of real vertices they stand for) and hub edges
// carry aggregate properties such as count and average.
package graph
