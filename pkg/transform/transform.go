package transform

import (
	"math"

	"github.com/matzehuels/cypherview/pkg/graph"
)

// Transformer rewrites a graph into a new graph.
type Transformer interface {
	Transform(g *graph.Graph) (*graph.Graph, error)
}

// Func adapts a plain function to the Transformer interface.
type Func func(g *graph.Graph) (*graph.Graph, error)

// Transform calls f(g).
func (f Func) Transform(g *graph.Graph) (*graph.Graph, error) { return f(g) }

type pipe []Transformer

// Pipe returns a transformer that applies ts in order. An empty pipe returns
// its input unchanged. Nil stages are skipped.
func Pipe(ts ...Transformer) Transformer {
	p := make(pipe, 0, len(ts))
	for _, t := range ts {
		if t != nil {
			p = append(p, t)
		}
	}
	return p
}

func (p pipe) Transform(g *graph.Graph) (*graph.Graph, error) {
	for _, t := range p {
		var err error
		if g, err = t.Transform(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Identity returns its input.
var Identity Transformer = Func(func(g *graph.Graph) (*graph.Graph, error) { return g, nil })

// EdgePredicate decides whether an edge is kept.
type EdgePredicate func(e *graph.Edge) bool

// FilterEdges returns a transformer producing a copy of the graph with every
// vertex and only the edges for which keep returns true.
func FilterEdges(keep EdgePredicate) Transformer {
	return Func(func(g *graph.Graph) (*graph.Graph, error) {
		out := graph.New()
		for _, id := range g.Vertices() {
			v, _ := g.Vertex(id)
			c := *v
			c.Props = v.Props.Clone()
			if err := out.AddVertex(c); err != nil {
				return nil, err
			}
		}
		for _, e := range g.Edges() {
			if !keep(e) {
				continue
			}
			c := *e
			c.Props = e.Props.Clone()
			if err := out.AddEdge(c); err != nil {
				return nil, err
			}
		}
		return out, nil
	})
}

// MinAbsValue keeps edges whose numeric property key has an absolute value
// of at least min. Edges without a numeric key are treated as zero.
func MinAbsValue(key string, min float64) EdgePredicate {
	return func(e *graph.Edge) bool {
		return math.Abs(e.Props.Number(key, 0)) >= min
	}
}
