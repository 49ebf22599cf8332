// Package nodelink renders concentrated graphs as node-link diagrams.
//
// # Overview
//
// This package produces Graphviz visualizations of a graph after edge
// concentration. Vertices are grouped into one dashed cluster per group
// (typically a time step), hub vertices collapse to small points, and the
// bold hub-to-hub edge of each concentration is labelled with the number
// of edges it replaced.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{GroupProperty: "timeGroup"})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Edge Styling
//
// Regular edges take their pen width (1 to 3) from the absolute value of
// the value property and their color from its sign: red for positive,
// blue for negative. Hub-to-hub edges are colored by the sign of the
// average they carry.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
