package concentrate

import (
	"slices"

	"github.com/matzehuels/cypherview/pkg/graph"
)

// DefaultThreshold is the rectangular commit threshold: a candidate is
// committed when its density d(S,T) is strictly greater than this value.
// At -1 a concentration saving zero edges over its hub fan-out still
// qualifies.
const DefaultThreshold = -1

// Rectangular is the greedy complete-biclique strategy.
//
// Each iteration orders the remaining targets by descending count of
// unclaimed source neighbors and scans them from a running offset. The scan
// grows a target prefix T while shrinking the active sources S to those with
// an edge to every target in T, and remembers the prefix maximizing
//
//	d(S,T) = |unclaimed edges in S×T| - |S| - |T|
//
// The best prefix is committed if d exceeds Threshold, which claims its
// edges and restarts the scan at offset zero; otherwise the offset advances
// past the target that seeded the failed scan. Iteration stops when the
// offset runs off the end, when the target at the offset has no unclaimed
// neighbor, or after |E| iterations.
type Rectangular struct {
	// Threshold is the value d(S,T) must strictly exceed for a commit.
	Threshold int
}

// NewRectangular returns the rectangular strategy with [DefaultThreshold].
func NewRectangular() *Rectangular { return &Rectangular{Threshold: DefaultThreshold} }

// Concentrate implements [Strategy].
func (r *Rectangular) Concentrate(g *graph.Graph, sources, targets []string) []Concentration {
	if len(sources) == 0 || len(targets) == 0 {
		return nil
	}

	nb := newNeighborhood(g, sources, targets)
	order := identity(len(targets))
	active := make([]bool, len(sources))
	rowCount := make([]int, len(sources))

	var out []Concentration
	offset := 0
	for l, k := 0, g.NumEdges(); l < k; l++ {
		for s := range active {
			active[s] = true
			rowCount[s] = 0
		}

		nb.byDegree(order)
		if nb.size[order[offset]] <= 0 {
			break
		}

		bestD := r.Threshold
		var bestS, bestT, prefix []int
		for j := offset; j < len(order); j++ {
			t := order[j]
			target := targets[t]
			for s, u := range sources {
				if !active[s] {
					continue
				}
				if !g.HasEdge(u, target) {
					active[s] = false
					continue
				}
				if nb.has[t][s] {
					rowCount[s]++
				}
			}
			prefix = append(prefix, t)

			var ss []int
			count := 0
			for s := range sources {
				if active[s] {
					ss = append(ss, s)
					count += rowCount[s]
				}
			}
			if d := count - len(ss) - len(prefix); count > 0 && d > bestD {
				bestD = d
				bestS = ss
				bestT = slices.Clone(prefix)
			}
		}

		if bestT != nil {
			out = append(out, nb.commit(bestS, bestT))
			offset = 0
		} else {
			offset++
		}
		if offset >= len(order) {
			break
		}
	}
	return out
}
