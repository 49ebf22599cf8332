package graph

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrEmptyID is returned by [Graph.AddVertex] when the vertex ID is empty.
	ErrEmptyID = errors.New("vertex ID must not be empty")

	// ErrDuplicateID is returned by [Graph.AddVertex] when a vertex with the
	// same ID already exists, and by [Graph.AddEdge] when the ordered pair
	// already carries an edge.
	ErrDuplicateID = errors.New("duplicate ID")

	// ErrInvalidReference is returned by [Graph.AddEdge] when either endpoint
	// is not a vertex of the graph.
	ErrInvalidReference = errors.New("invalid vertex reference")
)

// Kind distinguishes original graph elements from the synthetic hub
// elements created by edge concentration.
type Kind int

const (
	// KindRegular marks an element of the input graph.
	KindRegular Kind = iota
	// KindHub marks a synthetic aggregation vertex or edge.
	KindHub
)

// Vertex is a data-bearing node.
type Vertex struct {
	ID     string
	Labels []string
	Props  Properties // never nil after AddVertex
	Kind   Kind
	// Size is the number of real vertices a hub vertex stands for.
	// Zero for regular vertices.
	Size int
}

// IsHub reports whether the vertex was synthesized by edge concentration.
func (v Vertex) IsHub() bool { return v.Kind == KindHub }

// Edge is a directed, data-bearing relation between two vertices.
type Edge struct {
	// ID is the source system's relationship ID. Optional; edges are keyed
	// by their endpoints.
	ID    string
	From  string
	To    string
	Type  string
	Props Properties // never nil after AddEdge
	Kind  Kind
}

// IsHub reports whether the edge was synthesized by edge concentration.
func (e Edge) IsHub() bool { return e.Kind == KindHub }

type pair struct{ from, to string }

// Graph is a directed graph with at most one edge per ordered vertex pair.
// Vertices keep their insertion order; [Graph.Edges] iterates vertices in
// that order and each vertex's out-neighbors in edge insertion order, so
// every traversal is deterministic.
//
// The zero value is not usable - use New. Graph is not safe for concurrent
// mutation; concurrent readers are fine once construction is complete.
type Graph struct {
	order    []string
	vertices map[string]*Vertex
	edges    map[pair]*Edge
	outgoing map[string][]string
	incoming map[string][]string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		vertices: make(map[string]*Vertex),
		edges:    make(map[pair]*Edge),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddVertex adds v to the graph. Returns ErrEmptyID for an empty ID and
// ErrDuplicateID if the ID is taken. A nil Props is replaced by an empty bag.
func (g *Graph) AddVertex(v Vertex) error {
	if v.ID == "" {
		return ErrEmptyID
	}
	if _, exists := g.vertices[v.ID]; exists {
		return fmt.Errorf("%w: vertex %q", ErrDuplicateID, v.ID)
	}
	if v.Props == nil {
		v.Props = Properties{}
	}
	g.vertices[v.ID] = &v
	g.order = append(g.order, v.ID)
	return nil
}

// AddEdge adds a directed edge between two existing vertices. Returns
// ErrInvalidReference if either endpoint is missing and ErrDuplicateID if
// the ordered pair already has an edge.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.vertices[e.From]; !ok {
		return fmt.Errorf("%w: source %q", ErrInvalidReference, e.From)
	}
	if _, ok := g.vertices[e.To]; !ok {
		return fmt.Errorf("%w: target %q", ErrInvalidReference, e.To)
	}
	key := pair{e.From, e.To}
	if _, exists := g.edges[key]; exists {
		return fmt.Errorf("%w: edge %q -> %q", ErrDuplicateID, e.From, e.To)
	}
	if e.Props == nil {
		e.Props = Properties{}
	}
	g.edges[key] = &e
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return nil
}

// Vertex returns the vertex with the given ID and true, or nil and false.
// The returned pointer refers to the stored vertex.
func (g *Graph) Vertex(id string) (*Vertex, bool) {
	v, ok := g.vertices[id]
	return v, ok
}

// HasVertex reports whether id is a vertex of the graph.
func (g *Graph) HasVertex(id string) bool {
	_, ok := g.vertices[id]
	return ok
}

// Edge returns the edge u→v and true, or nil and false. Lookup is O(1).
func (g *Graph) Edge(u, v string) (*Edge, bool) {
	e, ok := g.edges[pair{u, v}]
	return e, ok
}

// HasEdge reports whether the edge u→v exists.
func (g *Graph) HasEdge(u, v string) bool {
	_, ok := g.edges[pair{u, v}]
	return ok
}

// Vertices returns all vertex IDs in insertion order.
func (g *Graph) Vertices() []string { return slices.Clone(g.order) }

// OutVertices returns the targets of edges leaving u in insertion order.
// The returned slice must not be modified.
func (g *Graph) OutVertices(u string) []string { return g.outgoing[u] }

// InVertices returns the sources of edges entering v in insertion order.
// The returned slice must not be modified.
func (g *Graph) InVertices(v string) []string { return g.incoming[v] }

// OutDegree returns the number of edges leaving u.
func (g *Graph) OutDegree(u string) int { return len(g.outgoing[u]) }

// InDegree returns the number of edges entering v.
func (g *Graph) InDegree(v string) int { return len(g.incoming[v]) }

// Edges returns every edge, ordered by source vertex insertion order and
// then by out-neighbor insertion order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edges))
	for _, u := range g.order {
		for _, v := range g.outgoing[u] {
			out = append(out, g.edges[pair{u, v}])
		}
	}
	return out
}

// NumVertices returns the number of vertices.
func (g *Graph) NumVertices() int { return len(g.order) }

// NumEdges returns the number of edges.
func (g *Graph) NumEdges() int { return len(g.edges) }

// Clone returns a deep copy of the graph, including property bags.
func (g *Graph) Clone() *Graph {
	c := New()
	for _, id := range g.order {
		v := *g.vertices[id]
		v.Labels = slices.Clone(v.Labels)
		v.Props = v.Props.Clone()
		_ = c.AddVertex(v)
	}
	for _, e := range g.Edges() {
		ec := *e
		ec.Props = ec.Props.Clone()
		_ = c.AddEdge(ec)
	}
	return c
}

// Validate checks that every edge endpoint refers to a vertex of the graph.
func (g *Graph) Validate() error {
	for _, e := range g.Edges() {
		if !g.HasVertex(e.From) || !g.HasVertex(e.To) {
			return fmt.Errorf("%w: edge %q -> %q", ErrInvalidReference, e.From, e.To)
		}
	}
	return nil
}
