// Package pkg provides the core libraries for Cypherview edge concentration.
//
// # Overview
//
// Cypherview takes a graph whose vertices fall into groups (typically the
// time steps of a correlation network) and replaces every dense edge set
// between two groups with a pair of hub vertices joined by one aggregate
// edge. The concentrated graph keeps the information of the original while
// drawing far fewer lines.
//
// # Architecture
//
// The typical data flow:
//
//	Neo4j query / JSON document
//	         ↓
//	    [source/neo4j] or [document] (load nodes and relationships)
//	         ↓
//	    [graph] (ordered vertex and edge store)
//	         ↓
//	    [transform] + [concentrate] (filter, group, concentrate)
//	         ↓
//	    [document] / [render/nodelink] (JSON, DOT, SVG, PDF, PNG)
//
// [pipeline] runs these stages behind a result cache and is shared by the
// CLI and the HTTP [server].
//
// # Quick Start
//
//	doc, _ := document.Import("graph.json")
//	g, _ := doc.ToGraph()
//
//	res, _ := concentrate.New(
//	    concentrate.WithGroupProperty("timeGroup"),
//	    concentrate.WithStrategy(concentrate.NewQuasiBiclique(0.6, 6)),
//	).Run(g)
//
//	out := document.FromGraph(res.Graph)
//	out.Groups = res.Groups
//	_ = document.Export(out, "concentrated.json")
//
// # Main Packages
//
// [graph] - Vertices and edges with insertion order, JSON scalar property
// values, and hub markers.
//
// [group] - Vertex groups by property value, largest first, and the ordered
// list of group pairs.
//
// [concentrate] - The concentration engine. Strategies decide which
// bicliques to replace: [concentrate.Rectangular] is a greedy exact cover,
// [concentrate.QuasiBiclique] tolerates missing edges down to a density.
//
// [transform] - Composable graph rewrites ([transform.Pipe]) and edge filters.
//
// [pipeline] - Option validation, caching and execution shared by all entry
// points.
//
// [cache] - Result cache backends: file, Redis, MongoDB, or none.
//
// [source/neo4j] - Read-only Cypher client producing graph documents.
//
// [server] - JSON HTTP API over the pipeline.
//
// [render/nodelink] - Graphviz node-link diagrams with one cluster per group.
//
// [errors], [observability] and [buildinfo] carry the ambient concerns.
//
// # Testing
//
//	go test ./...
//	go test -run Example ./pkg/...
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/cypherview/pkg/graph
// [group]: https://pkg.go.dev/github.com/matzehuels/cypherview/pkg/group
// [concentrate]: https://pkg.go.dev/github.com/matzehuels/cypherview/pkg/concentrate
// [concentrate.Rectangular]: https://pkg.go.dev/github.com/matzehuels/cypherview/pkg/concentrate#Rectangular
// [concentrate.QuasiBiclique]: https://pkg.go.dev/github.com/matzehuels/cypherview/pkg/concentrate#QuasiBiclique
// [transform]: https://pkg.go.dev/github.com/matzehuels/cypherview/pkg/transform
// [transform.Pipe]: https://pkg.go.dev/github.com/matzehuels/cypherview/pkg/transform#Pipe
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/cypherview/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/cypherview/pkg/cache
// [document]: https://pkg.go.dev/github.com/matzehuels/cypherview/pkg/document
// [source/neo4j]: https://pkg.go.dev/github.com/matzehuels/cypherview/pkg/source/neo4j
// [server]: https://pkg.go.dev/github.com/matzehuels/cypherview/pkg/server
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/cypherview/pkg/render/nodelink
// [errors]: https://pkg.go.dev/github.com/matzehuels/cypherview/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/cypherview/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/cypherview/pkg/buildinfo
package pkg
