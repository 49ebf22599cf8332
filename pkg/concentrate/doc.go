// Package concentrate implements edge concentration: replacing dense
// bipartite edge sets between vertex groups with pairs of hub vertices.
//
// # Overview
//
// Vertices are partitioned into groups by the value of a configurable
// property. For every unordered pair of groups (i, j), with i the larger
// group, the [Transformer] collects the edges running between them into a
// bipartite candidate graph whose sources are group i and whose targets are
// group j; edges from j to i are reversed for this purpose. A [Strategy]
// mines [Concentration] values from that graph, and each concentration
// (S, T) is rewritten as
//
//	u -> <sig>-r  for every u in S
//	<sig>-l -> <sig>-r  carrying the aggregate of the absorbed edges
//	<sig>-l -> v  for every v in T
//
// where <sig> is the concentration [Signature]. The -l hub belongs to
// group i, the -r hub to group j. Cross-group edges no concentration
// absorbed are dropped unless [WithShowSingleEdge] is set.
//
// # Strategies
//
// [Rectangular] greedily mines complete bicliques, committing a candidate
// when its density d(S,T) = |edges| - |S| - |T| exceeds a threshold.
// [QuasiBiclique] relaxes completeness to a minimum density ratio and a
// minimum edge count. Custom strategies may be plugged in through
// [StrategyFunc]; the orchestrator rejects results that break the
// [Strategy] contract with [ErrStrategyContract].
//
// # Concurrency
//
// Group pairs are independent and are mined concurrently, bounded by
// [WithWorkers]. Outputs are merged in pair order, so results do not depend
// on scheduling.
package concentrate
