package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/cypherview/pkg/graph"
)

func vertex(id string, group float64) graph.Vertex {
	return graph.Vertex{ID: id, Props: graph.Properties{"timeGroup": graph.Number(group)}}
}

func TestToDOT_Basic(t *testing.T) {
	g := graph.New()
	_ = g.AddVertex(graph.Vertex{ID: "a"})
	_ = g.AddVertex(graph.Vertex{ID: "b"})
	_ = g.AddEdge(graph.Edge{From: "a", To: "b"})

	dot := ToDOT(g, Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `"a" [`) || !strings.Contains(dot, `"b" [`) {
		t.Error("ToDOT() output missing nodes")
	}
	if !strings.Contains(dot, `"a" -> "b"`) {
		t.Error("ToDOT() output missing edge")
	}
	if strings.Contains(dot, "cluster_") {
		t.Error("ToDOT() without group property should not cluster")
	}
}

func TestToDOT_Clusters(t *testing.T) {
	g := graph.New()
	_ = g.AddVertex(vertex("a1", 1))
	_ = g.AddVertex(vertex("a2", 1))
	_ = g.AddVertex(vertex("b1", 2))

	dot := ToDOT(g, Options{GroupProperty: "timeGroup"})

	if strings.Count(dot, "subgraph") != 2 {
		t.Errorf("ToDOT() want 2 clusters:\n%s", dot)
	}
	if !strings.Contains(dot, `label="1"`) || !strings.Contains(dot, `label="2"`) {
		t.Error("ToDOT() clusters missing group labels")
	}
	if !strings.Contains(dot, palette[0]) || !strings.Contains(dot, palette[1]) {
		t.Error("ToDOT() groups should use distinct fill colors")
	}
}

func TestToDOT_Hubs(t *testing.T) {
	g := graph.New()
	_ = g.AddVertex(graph.Vertex{ID: "s-l", Kind: graph.KindHub})
	_ = g.AddVertex(graph.Vertex{ID: "s-r", Kind: graph.KindHub})
	_ = g.AddEdge(graph.Edge{From: "s-l", To: "s-r", Kind: graph.KindHub, Props: graph.Properties{
		"count":   graph.Number(4),
		"average": graph.Number(-0.5),
	}})

	dot := ToDOT(g, Options{})

	if !strings.Contains(dot, "shape=point") {
		t.Error("ToDOT() hub vertex should be a point")
	}
	if !strings.Contains(dot, `style=bold`) || !strings.Contains(dot, `label="4"`) {
		t.Errorf("ToDOT() hub edge should be bold and labelled with count:\n%s", dot)
	}
	if !strings.Contains(dot, ColorNegative) {
		t.Error("ToDOT() hub edge with negative average should be blue")
	}
}

func TestFmtLabel(t *testing.T) {
	v := graph.Vertex{ID: "42", Props: graph.Properties{
		"name":      graph.String("ACME"),
		"timeGroup": graph.Number(3),
	}}

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"id", Options{}, "42"},
		{"label property", Options{LabelProperty: "name"}, "ACME"},
		{"missing label property", Options{LabelProperty: "kanji"}, "42"},
		{"detailed", Options{Detailed: true}, "42\nname: ACME\ntimeGroup: 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmtLabel(v, tt.opts); got != tt.want {
				t.Errorf("fmtLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFmtEdgeAttrs(t *testing.T) {
	tests := []struct {
		name      string
		value     graph.Properties
		wantWidth string
		wantColor string
	}{
		{"strong positive", graph.Properties{"value": graph.Number(1)}, "penwidth=3.00", ColorPositive},
		{"weak negative", graph.Properties{"value": graph.Number(-0.5)}, "penwidth=2.00", ColorNegative},
		{"clamped", graph.Properties{"value": graph.Number(7)}, "penwidth=3.00", ColorPositive},
		{"missing", nil, "", ColorNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			joined := strings.Join(fmtEdgeAttrs(graph.Edge{Props: tt.value}, "value"), " ")
			if tt.wantWidth != "" && !strings.Contains(joined, tt.wantWidth) {
				t.Errorf("fmtEdgeAttrs() = %q, want %s", joined, tt.wantWidth)
			}
			if !strings.Contains(joined, tt.wantColor) {
				t.Errorf("fmtEdgeAttrs() = %q, want color %s", joined, tt.wantColor)
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", got, tt.want)
			}
		})
	}
}
