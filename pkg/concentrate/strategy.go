package concentrate

import (
	"slices"
	"strings"

	"github.com/matzehuels/cypherview/pkg/graph"
)

// Link is an ordered (source, target) vertex pair inside a bipartite
// candidate graph.
type Link struct {
	Source string
	Target string
}

// Concentration is a committed bipartite rewrite: the edges listed in
// Covered, all running from Source vertices to Target vertices, are replaced
// by a pair of hub vertices joined by one hub edge.
//
// For the rectangular strategy Covered is every S×T pair not claimed by an
// earlier concentration. Quasi-biclique concentrations may leave S×T pairs
// without an edge; those pairs never appear in Covered.
type Concentration struct {
	Source  []string
	Target  []string
	Covered []Link
}

// Signature returns the deterministic identity of a concentration: the
// byte-wise sorted source IDs and sorted target IDs, each comma-joined,
// separated by a colon. Hub vertex IDs are derived from it.
func Signature(source, target []string) string {
	s := slices.Clone(source)
	t := slices.Clone(target)
	slices.Sort(s)
	slices.Sort(t)
	return strings.Join(s, ",") + ":" + strings.Join(t, ",")
}

// Signature returns [Signature] of c's source and target sets.
func (c Concentration) Signature() string { return Signature(c.Source, c.Target) }

// Strategy mines concentrations from a bipartite candidate graph.
//
// g contains only edges from sources to targets; sources and targets are
// disjoint. Implementations must return concentrations with non-empty
// Source and Target, must list in Covered only pairs that are edges of g,
// and must never list the same pair in two concentrations.
type Strategy interface {
	Concentrate(g *graph.Graph, sources, targets []string) []Concentration
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(g *graph.Graph, sources, targets []string) []Concentration

// Concentrate calls f.
func (f StrategyFunc) Concentrate(g *graph.Graph, sources, targets []string) []Concentration {
	return f(g, sources, targets)
}

// neighborhood tracks, per target, which sources still have an unclaimed
// edge to it. Vertices are addressed by their position in the candidate
// slices; the scratch arrays are owned by a single Concentrate call.
type neighborhood struct {
	sources []string
	targets []string
	has     [][]bool // has[t][s]
	size    []int    // size[t] = number of true entries in has[t]
}

func newNeighborhood(g *graph.Graph, sources, targets []string) *neighborhood {
	pos := make(map[string]int, len(sources))
	for i, u := range sources {
		pos[u] = i
	}
	nb := &neighborhood{
		sources: sources,
		targets: targets,
		has:     make([][]bool, len(targets)),
		size:    make([]int, len(targets)),
	}
	for t, v := range targets {
		nb.has[t] = make([]bool, len(sources))
		for _, u := range g.InVertices(v) {
			if s, ok := pos[u]; ok && !nb.has[t][s] {
				nb.has[t][s] = true
				nb.size[t]++
			}
		}
	}
	return nb
}

// byDegree stable-sorts target positions by descending remaining degree.
func (nb *neighborhood) byDegree(order []int) {
	slices.SortStableFunc(order, func(a, b int) int { return nb.size[b] - nb.size[a] })
}

// commit claims every remaining edge in ss×ts and returns the concentration.
func (nb *neighborhood) commit(ss, ts []int) Concentration {
	c := Concentration{
		Source: make([]string, len(ss)),
		Target: make([]string, len(ts)),
	}
	for i, s := range ss {
		c.Source[i] = nb.sources[s]
	}
	for i, t := range ts {
		c.Target[i] = nb.targets[t]
		for _, s := range ss {
			if nb.has[t][s] {
				nb.has[t][s] = false
				nb.size[t]--
				c.Covered = append(c.Covered, Link{Source: nb.sources[s], Target: nb.targets[t]})
			}
		}
	}
	return c
}

func identity(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}
