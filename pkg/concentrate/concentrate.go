package concentrate

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"slices"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/cypherview/pkg/graph"
	"github.com/matzehuels/cypherview/pkg/group"
)

// ErrStrategyContract is returned when a strategy reports a concentration
// that is empty, covers a pair without an edge, or covers a pair already
// claimed by another concentration.
var ErrStrategyContract = errors.New("strategy violated concentration contract")

// Hub vertex ID suffixes. The -l hub carries the source group, the -r hub
// the target group.
const (
	SuffixLeft  = "-l"
	SuffixRight = "-r"
)

// Transformer rewrites a grouped graph by replacing dense bipartite edge
// sets between group pairs with hub vertices. It implements the
// transform.Transformer contract and holds no state between runs, so one
// Transformer may serve concurrent callers.
type Transformer struct {
	groupProperty  string
	strategy       Strategy
	aggregate      Aggregator
	showSingleEdge bool
	workers        int
	logger         *log.Logger
	onResult       func(*Result)
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithGroupProperty sets the vertex property whose value assigns groups.
func WithGroupProperty(key string) Option { return func(t *Transformer) { t.groupProperty = key } }

// WithStrategy sets the concentration strategy. Defaults to [NewRectangular].
func WithStrategy(s Strategy) Option { return func(t *Transformer) { t.strategy = s } }

// WithAggregator sets the hub edge aggregator. Defaults to Mean("value").
func WithAggregator(a Aggregator) Option { return func(t *Transformer) { t.aggregate = a } }

// WithShowSingleEdge keeps cross-group edges that no concentration absorbed.
// When false they are dropped from the output.
func WithShowSingleEdge(show bool) Option { return func(t *Transformer) { t.showSingleEdge = show } }

// WithWorkers bounds how many group pairs are mined concurrently.
// Values below one mean GOMAXPROCS.
func WithWorkers(n int) Option { return func(t *Transformer) { t.workers = n } }

// WithLogger sets the logger used for per-pair debug output.
func WithLogger(l *log.Logger) Option { return func(t *Transformer) { t.logger = l } }

// WithResultHook registers fn to receive the full result, statistics
// included, of every successful Transform call.
func WithResultHook(fn func(*Result)) Option { return func(t *Transformer) { t.onResult = fn } }

// New returns a Transformer configured by opts.
func New(opts ...Option) *Transformer {
	t := &Transformer{}
	for _, opt := range opts {
		opt(t)
	}
	if t.strategy == nil {
		t.strategy = NewRectangular()
	}
	if t.aggregate == nil {
		t.aggregate = Mean(DefaultValueKey)
	}
	if t.workers < 1 {
		t.workers = runtime.GOMAXPROCS(0)
	}
	if t.logger == nil {
		t.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return t
}

// PairStats describes what happened to one unordered group pair.
type PairStats struct {
	Source         graph.Value `json:"source"` // group i (the earlier, larger group)
	Target         graph.Value `json:"target"` // group j
	CandidateEdges int         `json:"candidate_edges"`
	Concentrations int         `json:"concentrations"`
	Absorbed       int         `json:"absorbed"`       // real edges replaced by hubs
	PassedThrough  int         `json:"passed_through"` // real edges kept as direct edges
}

// Result is the outcome of one run.
type Result struct {
	Graph  *graph.Graph
	Groups []group.Group // groups of the input graph, largest first
	Pairs  []PairStats   // one entry per group pair with candidate edges
}

// Concentrations returns the total number of committed concentrations.
func (r *Result) Concentrations() int {
	n := 0
	for _, p := range r.Pairs {
		n += p.Concentrations
	}
	return n
}

// Absorbed returns the total number of real edges replaced by hubs.
func (r *Result) Absorbed() int {
	n := 0
	for _, p := range r.Pairs {
		n += p.Absorbed
	}
	return n
}

// Transform implements transform.Transformer.
func (t *Transformer) Transform(g *graph.Graph) (*graph.Graph, error) {
	res, err := t.Run(g)
	if err != nil {
		return nil, err
	}
	if t.onResult != nil {
		t.onResult(res)
	}
	return res.Graph, nil
}

// pairOutput is what a worker produces for one group pair. Workers write
// only their own slot; the merge runs sequentially in pair order.
type pairOutput struct {
	stats    PairStats
	vertices []graph.Vertex
	edges    []graph.Edge
}

// Run rewrites g and reports per-pair statistics. The input graph is not
// modified. The output contains every input vertex and intra-group edge
// unchanged, plus, for every group pair, the hub vertices and edges of its
// concentrations and - with show-single-edge - the cross edges no
// concentration absorbed.
func (t *Transformer) Run(g *graph.Graph) (*Result, error) {
	groups := group.Count(g, t.groupProperty)
	members := group.Partition(g, t.groupProperty, groups)
	groupOf := make(map[string]int, g.NumVertices())
	for i, ids := range members {
		for _, id := range ids {
			groupOf[id] = i
		}
	}

	out := graph.New()
	for _, id := range g.Vertices() {
		v, _ := g.Vertex(id)
		c := *v
		c.Props = v.Props.Clone()
		c.Labels = slices.Clone(v.Labels)
		if err := out.AddVertex(c); err != nil {
			return nil, err
		}
	}
	for _, e := range g.Edges() {
		if groupOf[e.From] != groupOf[e.To] {
			continue
		}
		c := *e
		c.Props = e.Props.Clone()
		if err := out.AddEdge(c); err != nil {
			return nil, err
		}
	}

	pairs := group.Pairs(len(groups))
	outputs := make([]pairOutput, len(pairs))
	var eg errgroup.Group
	eg.SetLimit(t.workers)
	for n, p := range pairs {
		eg.Go(func() error {
			o, err := t.concentratePair(g, groups, members, p)
			if err != nil {
				return fmt.Errorf("group pair (%s, %s): %w", groups[p.I].Key(), groups[p.J].Key(), err)
			}
			outputs[n] = o
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Graph: out, Groups: groups}
	for _, o := range outputs {
		if o.stats.CandidateEdges == 0 {
			continue
		}
		for _, v := range o.vertices {
			if err := out.AddVertex(v); err != nil {
				return nil, err
			}
		}
		for _, e := range o.edges {
			if err := out.AddEdge(e); err != nil {
				return nil, err
			}
		}
		res.Pairs = append(res.Pairs, o.stats)
		t.logger.Debug("concentrated group pair",
			"source", o.stats.Source,
			"target", o.stats.Target,
			"candidates", o.stats.CandidateEdges,
			"concentrations", o.stats.Concentrations,
			"absorbed", o.stats.Absorbed,
			"passed", o.stats.PassedThrough)
	}
	return res, nil
}

// concentratePair mines one group pair. Edges from group j to group i are
// reversed so the strategy always sees group i as sources; the original
// edges behind each bipartite link are kept for aggregation and
// pass-through.
func (t *Transformer) concentratePair(g *graph.Graph, groups []group.Group, members [][]string, p group.Pair) (pairOutput, error) {
	sources, targets := members[p.I], members[p.J]
	o := pairOutput{stats: PairStats{Source: groups[p.I].Name, Target: groups[p.J].Name}}

	inTarget := make(map[string]bool, len(targets))
	for _, v := range targets {
		inTarget[v] = true
	}

	b := graph.New()
	for _, id := range sources {
		_ = b.AddVertex(graph.Vertex{ID: id})
	}
	for _, id := range targets {
		_ = b.AddVertex(graph.Vertex{ID: id})
	}
	originals := make(map[Link][]*graph.Edge)
	var links []Link
	addLink := func(l Link, e *graph.Edge) {
		if _, seen := originals[l]; !seen {
			_ = b.AddEdge(graph.Edge{From: l.Source, To: l.Target})
			links = append(links, l)
		}
		originals[l] = append(originals[l], e)
		o.stats.CandidateEdges++
	}
	for _, u := range sources {
		for _, v := range g.OutVertices(u) {
			if inTarget[v] {
				e, _ := g.Edge(u, v)
				addLink(Link{Source: u, Target: v}, e)
			}
		}
		for _, v := range g.InVertices(u) {
			if inTarget[v] {
				e, _ := g.Edge(v, u)
				addLink(Link{Source: u, Target: v}, e)
			}
		}
	}
	if len(links) == 0 {
		return o, nil
	}

	absorbed := make(map[Link]bool)
	for _, c := range t.strategy.Concentrate(b, sources, targets) {
		if len(c.Source) == 0 || len(c.Target) == 0 || len(c.Covered) == 0 {
			return o, fmt.Errorf("%w: empty concentration", ErrStrategyContract)
		}
		var merged []*graph.Edge
		for _, l := range c.Covered {
			if !b.HasEdge(l.Source, l.Target) {
				return o, fmt.Errorf("%w: no edge %q -> %q", ErrStrategyContract, l.Source, l.Target)
			}
			if absorbed[l] {
				return o, fmt.Errorf("%w: edge %q -> %q claimed twice", ErrStrategyContract, l.Source, l.Target)
			}
			absorbed[l] = true
			merged = append(merged, originals[l]...)
		}

		sig := c.Signature()
		left := graph.Vertex{
			ID:    sig + SuffixLeft,
			Props: graph.Properties{t.groupProperty: groups[p.I].Name},
			Kind:  graph.KindHub,
			Size:  len(c.Target),
		}
		right := graph.Vertex{
			ID:    sig + SuffixRight,
			Props: graph.Properties{t.groupProperty: groups[p.J].Name},
			Kind:  graph.KindHub,
			Size:  len(c.Source),
		}
		o.vertices = append(o.vertices, left, right)
		o.edges = append(o.edges, graph.Edge{From: left.ID, To: right.ID, Props: t.aggregate(merged), Kind: graph.KindHub})
		for _, u := range c.Source {
			o.edges = append(o.edges, graph.Edge{From: u, To: right.ID, Kind: graph.KindHub})
		}
		for _, v := range c.Target {
			o.edges = append(o.edges, graph.Edge{From: left.ID, To: v, Kind: graph.KindHub})
		}
		o.stats.Concentrations++
		o.stats.Absorbed += len(merged)
	}

	if t.showSingleEdge {
		for _, l := range links {
			if absorbed[l] {
				continue
			}
			for _, e := range originals[l] {
				c := *e
				c.Props = e.Props.Clone()
				o.edges = append(o.edges, c)
				o.stats.PassedThrough++
			}
		}
	}
	return o, nil
}
