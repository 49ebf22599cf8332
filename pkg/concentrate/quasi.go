package concentrate

import (
	"github.com/matzehuels/cypherview/pkg/graph"
)

// Quasi-biclique defaults, matching the application's form defaults.
const (
	DefaultMu       = 0.5
	DefaultMinCount = 6
)

// QuasiBiclique mines near-complete bicliques: concentrations whose S×T
// pairs are at least a fraction Mu real edges and that absorb at least
// MinCount edges.
//
// Each iteration seeds T with the target at the running offset (targets
// ordered by descending unclaimed degree) and S with that target's unclaimed
// source neighbors. Later targets join T when they reach at least Mu of S.
// Sources reaching fewer than Mu of T are then pruned, and targets left
// without a claimed edge are dropped, so every surviving source row - and
// therefore the whole block - has density at least Mu. A block absorbing at
// least MinCount edges is committed and the offset resets; otherwise the
// offset advances past the seed.
type QuasiBiclique struct {
	Mu       float64
	MinCount int
}

// NewQuasiBiclique returns the quasi-biclique strategy. A mu outside (0,1]
// falls back to [DefaultMu] and a minCount below one to one.
func NewQuasiBiclique(mu float64, minCount int) *QuasiBiclique {
	if mu <= 0 || mu > 1 {
		mu = DefaultMu
	}
	if minCount < 1 {
		minCount = 1
	}
	return &QuasiBiclique{Mu: mu, MinCount: minCount}
}

// Concentrate implements [Strategy].
func (q *QuasiBiclique) Concentrate(g *graph.Graph, sources, targets []string) []Concentration {
	if len(sources) == 0 || len(targets) == 0 {
		return nil
	}

	nb := newNeighborhood(g, sources, targets)
	order := identity(len(targets))
	inS := make([]bool, len(sources))
	rowCount := make([]int, len(sources))

	var out []Concentration
	offset := 0
	for l, k := 0, g.NumEdges(); l < k; l++ {
		nb.byDegree(order)
		seed := order[offset]
		if nb.size[seed] <= 0 {
			break
		}

		size := 0
		for s := range sources {
			inS[s] = nb.has[seed][s]
			if inS[s] {
				size++
			}
		}

		ts := []int{seed}
		for _, t := range order[offset+1:] {
			if nb.size[t] == 0 {
				break
			}
			c := 0
			for s := range sources {
				if inS[s] && nb.has[t][s] {
					c++
				}
			}
			if c > 0 && float64(c) >= q.Mu*float64(size) {
				ts = append(ts, t)
			}
		}

		var ss []int
		for s := range sources {
			if !inS[s] {
				continue
			}
			rowCount[s] = 0
			for _, t := range ts {
				if nb.has[t][s] {
					rowCount[s]++
				}
			}
			if float64(rowCount[s]) >= q.Mu*float64(len(ts)) {
				ss = append(ss, s)
			}
		}

		covered := 0
		var kept []int
		for _, t := range ts {
			c := 0
			for _, s := range ss {
				if nb.has[t][s] {
					c++
				}
			}
			if c > 0 {
				kept = append(kept, t)
				covered += c
			}
		}

		if len(ss) > 0 && covered >= q.MinCount {
			out = append(out, nb.commit(ss, kept))
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
