package concentrate

import "github.com/matzehuels/cypherview/pkg/graph"

// Aggregate property keys written on hub edges by [Mean].
const (
	KeyCount   = "count"
	KeyAverage = "average"
)

// DefaultValueKey is the edge property averaged by the default aggregator.
const DefaultValueKey = "value"

// Aggregator summarizes the real edges absorbed by one concentration into
// the property bag of its hub edge. It is never called with an empty slice.
type Aggregator func(edges []*graph.Edge) graph.Properties

// Mean returns an aggregator recording the number of absorbed edges under
// [KeyCount] and the arithmetic mean of their numeric key property under
// [KeyAverage]. Edges lacking the property contribute zero.
func Mean(key string) Aggregator {
	return func(edges []*graph.Edge) graph.Properties {
		sum := 0.0
		for _, e := range edges {
			sum += e.Props.Number(key, 0)
		}
		return graph.Properties{
			KeyCount:   graph.Number(float64(len(edges))),
			KeyAverage: graph.Number(sum / float64(len(edges))),
		}
	}
}
