package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/cypherview/pkg/graph"
	"github.com/matzehuels/cypherview/pkg/render/nodelink"
)

func ExampleToDOT() {
	g := graph.New()
	_ = g.AddVertex(graph.Vertex{ID: "a"})
	_ = g.AddVertex(graph.Vertex{ID: "b"})
	_ = g.AddEdge(graph.Edge{From: "a", To: "b", Props: graph.Properties{"value": graph.Number(-0.8)}})

	dot := nodelink.ToDOT(g, nodelink.Options{})
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "a" -> "b" [penwidth=2.60, color="#1f77b4"];
}
