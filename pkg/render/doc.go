// Package render provides visual output for concentrated graphs.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg, err := nodelink.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders graphs as Graphviz diagrams with one
// cluster per group and concentration hubs drawn as points.
//
// [nodelink]: github.com/matzehuels/cypherview/pkg/render/nodelink
package render
