// Package group derives vertex groups from a grouping property.
//
// Groups are not stored on the graph. They are recomputed from the value each
// vertex holds under the configured property key: vertices with equal values
// share a group, and vertices lacking the property share the null group.
package group

import (
	"slices"

	"github.com/matzehuels/cypherview/pkg/graph"
)

// Group is a named partition of vertices.
type Group struct {
	Name  graph.Value `json:"name"`
	Count int         `json:"count"`
}

// Key returns the string form of the group name, used to index groups.
func (g Group) Key() string { return g.Name.String() }

// Of returns the group name of vertex v under key.
func Of(v *graph.Vertex, key string) graph.Value { return v.Props.Value(key) }

// Count tallies the vertices of g by their value under key and returns the
// groups ordered by descending member count. Ties keep the order in which
// each group was first seen, so the result is deterministic for a given
// vertex order.
//
// Hub vertices are counted like any other vertex; callers that want only
// the original groups should count before concentration.
func Count(g *graph.Graph, key string) []Group {
	index := make(map[graph.Value]int)
	var groups []Group
	for _, id := range g.Vertices() {
		v, _ := g.Vertex(id)
		name := Of(v, key)
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Name: name})
		}
		groups[i].Count++
	}
	slices.SortStableFunc(groups, func(a, b Group) int { return b.Count - a.Count })
	return groups
}

// Partition returns, for each group in groups, the IDs of its member
// vertices in graph order. The result is indexed like groups.
func Partition(g *graph.Graph, key string, groups []Group) [][]string {
	index := make(map[graph.Value]int, len(groups))
	for i, gr := range groups {
		index[gr.Name] = i
	}
	members := make([][]string, len(groups))
	for _, id := range g.Vertices() {
		v, _ := g.Vertex(id)
		if i, ok := index[Of(v, key)]; ok {
			members[i] = append(members[i], id)
		}
	}
	return members
}

// Pair is an unordered pair of distinct group indices with I < J.
type Pair struct{ I, J int }

// Pairs enumerates every unordered pair of n groups in lexicographic order:
// (0,1), (0,2), ..., (1,2), ...
func Pairs(n int) []Pair {
	var pairs []Pair
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{I: i, J: j})
		}
	}
	return pairs
}
