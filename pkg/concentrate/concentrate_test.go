package concentrate

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/cypherview/pkg/graph"
)

const groupKey = "group"

type testEdge struct {
	from, to string
	value    float64
}

// grouped builds a graph from vertex IDs whose group is their first
// character upper-cased: a1 belongs to A, b2 to B.
func grouped(t *testing.T, ids []string, edges []testEdge) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, id := range ids {
		name := string(rune(id[0] - 'a' + 'A'))
		v := graph.Vertex{ID: id, Props: graph.Properties{groupKey: graph.String(name)}}
		if err := g.AddVertex(v); err != nil {
			t.Fatalf("AddVertex(%q) error: %v", id, err)
		}
	}
	for _, e := range edges {
		err := g.AddEdge(graph.Edge{From: e.from, To: e.to, Props: graph.Properties{"value": graph.Number(e.value)}})
		if err != nil {
			t.Fatalf("AddEdge(%s, %s) error: %v", e.from, e.to, err)
		}
	}
	return g
}

func crossEdges(g *graph.Graph) (real, hub, fanout int) {
	for _, e := range g.Edges() {
		from, _ := g.Vertex(e.From)
		to, _ := g.Vertex(e.To)
		switch {
		case from.IsHub() && to.IsHub():
			hub++
		case from.IsHub() || to.IsHub():
			fanout++
		case from.Props.Value(groupKey) != to.Props.Value(groupKey):
			real++
		}
	}
	return real, hub, fanout
}

func assertNoOrphans(t *testing.T, g *graph.Graph) {
	t.Helper()
	for _, e := range g.Edges() {
		if !g.HasVertex(e.From) || !g.HasVertex(e.To) {
			t.Errorf("edge %s -> %s references a missing vertex", e.From, e.To)
		}
	}
}

func TestRun_CompleteBipartite(t *testing.T) {
	g := grouped(t, []string{"a1", "a2", "b1", "b2"}, []testEdge{
		{"a1", "b1", 1}, {"a1", "b2", 2}, {"a2", "b1", 3}, {"a2", "b2", 4},
	})

	res, err := New(WithGroupProperty(groupKey)).Run(g)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	out := res.Graph

	left, ok := out.Vertex("a1,a2:b1,b2-l")
	if !ok {
		t.Fatal("left hub missing")
	}
	right, ok := out.Vertex("a1,a2:b1,b2-r")
	if !ok {
		t.Fatal("right hub missing")
	}
	if !left.IsHub() || left.Props.String(groupKey, "") != "A" || left.Size != 2 {
		t.Errorf("left hub = %+v, want hub in group A with size 2", left)
	}
	if !right.IsHub() || right.Props.String(groupKey, "") != "B" || right.Size != 2 {
		t.Errorf("right hub = %+v, want hub in group B with size 2", right)
	}

	hub, ok := out.Edge(left.ID, right.ID)
	if !ok {
		t.Fatal("hub edge missing")
	}
	if got := hub.Props.Number(KeyCount, 0); got != 4 {
		t.Errorf("hub count = %v, want 4", got)
	}
	if got := hub.Props.Number(KeyAverage, 0); got != 2.5 {
		t.Errorf("hub average = %v, want 2.5", got)
	}

	for _, u := range []string{"a1", "a2"} {
		if !out.HasEdge(u, right.ID) {
			t.Errorf("missing fan-in edge %s -> %s", u, right.ID)
		}
	}
	for _, v := range []string{"b1", "b2"} {
		if !out.HasEdge(left.ID, v) {
			t.Errorf("missing fan-out edge %s -> %s", left.ID, v)
		}
	}
	if out.HasEdge("a1", "b1") {
		t.Error("absorbed edge a1 -> b1 still present")
	}
	if res.Concentrations() != 1 || res.Absorbed() != 4 {
		t.Errorf("stats = %d concentrations / %d absorbed, want 1 / 4", res.Concentrations(), res.Absorbed())
	}
	assertNoOrphans(t, out)
}

func TestRun_SingleEdge(t *testing.T) {
	ids := []string{"a1", "b1"}
	edges := []testEdge{{"a1", "b1", 0.7}}

	tests := []struct {
		name string
		show bool
		want bool
	}{
		{"dropped", false, false},
		{"passed through", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := grouped(t, ids, edges)
			res, err := New(WithGroupProperty(groupKey), WithShowSingleEdge(tt.show)).Run(g)
			if err != nil {
				t.Fatalf("Run() error: %v", err)
			}
			e, ok := res.Graph.Edge("a1", "b1")
			if ok != tt.want {
				t.Fatalf("edge present = %v, want %v", ok, tt.want)
			}
			if ok && e.Props.Number("value", 0) != 0.7 {
				t.Errorf("pass-through value = %v, want 0.7", e.Props.Number("value", 0))
			}
			if res.Graph.NumVertices() != 2 {
				t.Errorf("NumVertices() = %d, want 2", res.Graph.NumVertices())
			}
		})
	}
}

func TestRun_ThreeGroups(t *testing.T) {
	ids := []string{"a1", "a2", "b1", "b2", "c1", "c2"}
	var edges []testEdge
	for _, pair := range [][2][]string{
		{{"a1", "a2"}, {"b1", "b2"}},
		{{"a1", "a2"}, {"c1", "c2"}},
		{{"b1", "b2"}, {"c1", "c2"}},
	} {
		for _, u := range pair[0] {
			for _, v := range pair[1] {
				edges = append(edges, testEdge{u, v, 1})
			}
		}
	}
	g := grouped(t, ids, edges)

	res, err := New(WithGroupProperty(groupKey), WithWorkers(3)).Run(g)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(res.Pairs) != 3 {
		t.Fatalf("Pairs = %d, want 3", len(res.Pairs))
	}
	for _, sig := range []string{"a1,a2:b1,b2", "a1,a2:c1,c2", "b1,b2:c1,c2"} {
		if !res.Graph.HasEdge(sig+SuffixLeft, sig+SuffixRight) {
			t.Errorf("hub edge for %s missing", sig)
		}
	}
	if got, want := res.Graph.NumVertices(), len(ids)+6; got != want {
		t.Errorf("NumVertices() = %d, want %d", got, want)
	}
	assertNoOrphans(t, res.Graph)
}

func TestRun_ReversedAndReciprocalEdges(t *testing.T) {
	// A is the larger group, so it is always the source side.
	ids := []string{"a1", "a2", "a3", "b1", "b2"}
	g := grouped(t, ids, []testEdge{
		{"b1", "a1", 1}, {"b1", "a2", 1}, {"b2", "a1", 1}, {"b2", "a2", 1},
		{"a1", "b1", 6},
	})

	res, err := New(WithGroupProperty(groupKey)).Run(g)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	hub, ok := res.Graph.Edge("a1,a2:b1,b2-l", "a1,a2:b1,b2-r")
	if !ok {
		t.Fatal("hub edge missing")
	}
	// Both directions of a1<->b1 are absorbed.
	if got := hub.Props.Number(KeyCount, 0); got != 5 {
		t.Errorf("hub count = %v, want 5", got)
	}
	if got := hub.Props.Number(KeyAverage, 0); got != 2 {
		t.Errorf("hub average = %v, want 2", got)
	}
}

func TestRun_PreservesIntraGroupEdges(t *testing.T) {
	g := grouped(t, []string{"a1", "a2", "b1"}, []testEdge{{"a1", "a2", 0.5}})

	res, err := New(WithGroupProperty(groupKey), WithShowSingleEdge(true)).Run(g)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !res.Graph.HasEdge("a1", "a2") {
		t.Error("intra-group edge dropped")
	}
	if res.Graph.NumEdges() != 1 || res.Graph.NumVertices() != 3 {
		t.Errorf("graph = %d vertices / %d edges, want 3 / 1", res.Graph.NumVertices(), res.Graph.NumEdges())
	}
	if len(res.Pairs) != 0 {
		t.Errorf("Pairs = %v, want none", res.Pairs)
	}
}

func TestRun_ConservationBound(t *testing.T) {
	ids := []string{"a1", "a2", "a3", "b1", "b2", "b3", "c1"}
	edges := []testEdge{
		{"a1", "b1", 1}, {"a1", "b2", 1}, {"a1", "b3", 1},
		{"a2", "b1", 1}, {"a2", "b2", 1},
		{"a3", "b3", 1},
		{"c1", "a1", 1}, {"b2", "c1", 1},
	}
	for _, strategy := range []Strategy{NewRectangular(), NewQuasiBiclique(0.5, 2)} {
		g := grouped(t, ids, edges)
		inputCross, _, _ := crossEdges(g)

		res, err := New(WithGroupProperty(groupKey), WithStrategy(strategy), WithShowSingleEdge(true)).Run(g)
		if err != nil {
			t.Fatalf("Run(%T) error: %v", strategy, err)
		}
		real, hub, _ := crossEdges(res.Graph)
		if real+hub > inputCross {
			t.Errorf("%T: output cross edges %d + %d hubs > input %d", strategy, real, hub, inputCross)
		}
		if real+res.Absorbed() != inputCross {
			t.Errorf("%T: passed %d + absorbed %d != input %d", strategy, real, res.Absorbed(), inputCross)
		}
		assertNoOrphans(t, res.Graph)
	}
}

func TestRun_Deterministic(t *testing.T) {
	ids := []string{"a1", "a2", "a3", "b1", "b2", "b3", "c1", "c2"}
	var edges []testEdge
	for i, u := range ids {
		for j, v := range ids {
			if u[0] != v[0] && (i+j)%3 != 0 {
				edges = append(edges, testEdge{u, v, float64(i - j)})
			}
		}
	}
	g := grouped(t, ids, edges)

	snapshot := func() ([]string, []string) {
		res, err := New(WithGroupProperty(groupKey), WithShowSingleEdge(true), WithWorkers(4)).Run(g)
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		var es []string
		for _, e := range res.Graph.Edges() {
			es = append(es, e.From+"->"+e.To)
		}
		return res.Graph.Vertices(), es
	}
	v1, e1 := snapshot()
	v2, e2 := snapshot()
	if !slices.Equal(v1, v2) || !slices.Equal(e1, e2) {
		t.Error("two runs produced different graphs")
	}
}

func TestRun_DoesNotMutateInput(t *testing.T) {
	g := grouped(t, []string{"a1", "a2", "b1", "b2"}, []testEdge{
		{"a1", "b1", 1}, {"a1", "b2", 1}, {"a2", "b1", 1}, {"a2", "b2", 1},
	})
	before := g.Clone()

	res, err := New(WithGroupProperty(groupKey)).Run(g)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if g.NumVertices() != before.NumVertices() || g.NumEdges() != before.NumEdges() {
		t.Error("input graph changed size")
	}
	v, _ := res.Graph.Vertex("a1")
	v.Props[groupKey] = graph.String("Z")
	orig, _ := g.Vertex("a1")
	if orig.Props.String(groupKey, "") != "A" {
		t.Error("output vertex shares properties with input")
	}
}

func TestRun_CustomAggregator(t *testing.T) {
	g := grouped(t, []string{"a1", "a2", "b1", "b2"}, []testEdge{
		{"a1", "b1", -1}, {"a1", "b2", 5}, {"a2", "b1", 2}, {"a2", "b2", 3},
	})
	maxValue := func(edges []*graph.Edge) graph.Properties {
		m := math.Inf(-1)
		for _, e := range edges {
			m = math.Max(m, e.Props.Number("value", 0))
		}
		return graph.Properties{"max": graph.Number(m)}
	}

	res, err := New(WithGroupProperty(groupKey), WithAggregator(maxValue)).Run(g)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	hub, _ := res.Graph.Edge("a1,a2:b1,b2-l", "a1,a2:b1,b2-r")
	if got := hub.Props.Number("max", 0); got != 5 {
		t.Errorf("max = %v, want 5", got)
	}
}

func TestRun_StrategyContract(t *testing.T) {
	g := grouped(t, []string{"a1", "b1", "b2"}, []testEdge{{"a1", "b1", 1}})

	tests := []struct {
		name string
		s    StrategyFunc
	}{
		{"empty", func(*graph.Graph, []string, []string) []Concentration {
			return []Concentration{{}}
		}},
		{"missing edge", func(*graph.Graph, []string, []string) []Concentration {
			return []Concentration{{Source: []string{"b1"}, Target: []string{"a1"}, Covered: []Link{{"b2", "a1"}}}}
		}},
		{"claimed twice", func(*graph.Graph, []string, []string) []Concentration {
			c := Concentration{Source: []string{"b1"}, Target: []string{"a1"}, Covered: []Link{{"b1", "a1"}}}
			return []Concentration{c, c}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(WithGroupProperty(groupKey), WithStrategy(tt.s)).Run(g)
			if !errors.Is(err, ErrStrategyContract) {
				t.Errorf("Run() error = %v, want ErrStrategyContract", err)
			}
		})
	}
}

func TestMean(t *testing.T) {
	edges := []*graph.Edge{
		{Props: graph.Properties{"value": graph.Number(1)}},
		{Props: graph.Properties{"value": graph.Number(-3)}},
		{Props: graph.Properties{}},
	}
	props := Mean("value")(edges)
	if got := props.Number(KeyCount, 0); got != 3 {
		t.Errorf("count = %v, want 3", got)
	}
	if got := props.Number(KeyAverage, 0); got != -2.0/3 {
		t.Errorf("average = %v, want %v", got, -2.0/3)
	}
}

func TestTransform_ResultHook(t *testing.T) {
	g := grouped(t, []string{"a1", "a2", "b1", "b2"}, []testEdge{
		{"a1", "b1", 1}, {"a1", "b2", 1}, {"a2", "b1", 1}, {"a2", "b2", 1},
	})
	var got *Result
	out, err := New(WithGroupProperty(groupKey), WithResultHook(func(r *Result) { got = r })).Transform(g)
	if err != nil {
		t.Fatalf("Transform() error: %v", err)
	}
	if got == nil || got.Graph != out {
		t.Fatal("result hook not called with the returned graph")
	}
	if len(got.Groups) != 2 || got.Concentrations() != 1 {
		t.Errorf("result = %d groups / %d concentrations, want 2 / 1", len(got.Groups), got.Concentrations())
	}
}
