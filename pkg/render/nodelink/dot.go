package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cypherview/pkg/concentrate"
	"github.com/matzehuels/cypherview/pkg/graph"
	"github.com/matzehuels/cypherview/pkg/group"
	"github.com/matzehuels/cypherview/pkg/render"
)

// Edge colors by sign of the value property.
const (
	ColorPositive = "#d62728"
	ColorNegative = "#1f77b4"
	ColorNeutral  = "#888888"
)

// palette is the categorical fill palette for groups.
var palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Options configures node-link diagram rendering.
type Options struct {
	// GroupProperty places vertices into one cluster per distinct value.
	// Empty disables clustering.
	GroupProperty string

	// LabelProperty is the vertex property shown as the node label.
	// Vertices without it are labelled by ID.
	LabelProperty string

	// ValueProperty is the numeric edge property that drives pen width
	// and color. Defaults to "value".
	ValueProperty string

	// Detailed appends every vertex property to the node label.
	Detailed bool
}

// ToDOT converts a graph to Graphviz DOT format for node-link visualization.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Regular edges are drawn with a pen width of 1 to 3 scaled by the absolute
// value property, red when positive and blue when negative. Hub vertices
// are small points and hub edges are bold, the hub-to-hub edge labelled
// with the number of edges it absorbed.
func ToDOT(g *graph.Graph, opts Options) string {
	if opts.ValueProperty == "" {
		opts.ValueProperty = concentrate.DefaultValueKey
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, width=0.3, fontsize=10, penwidth=0];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	colors := make(map[string]string)
	if opts.GroupProperty != "" {
		groups := group.Count(g, opts.GroupProperty)
		for i, members := range group.Partition(g, opts.GroupProperty, groups) {
			color := palette[i%len(palette)]
			fmt.Fprintf(&buf, "  subgraph \"cluster_%d\" {\n", i)
			fmt.Fprintf(&buf, "    label=%q;\n", groups[i].Key())
			buf.WriteString("    style=\"rounded,dashed\";\n    color=\"#cccccc\";\n")
			for _, id := range members {
				colors[id] = color
				v, _ := g.Vertex(id)
				fmt.Fprintf(&buf, "    %q [%s];\n", id, strings.Join(fmtAttrs(*v, fmtLabel(*v, opts), color), ", "))
			}
			buf.WriteString("  }\n")
		}
	} else {
		for _, id := range g.Vertices() {
			v, _ := g.Vertex(id)
			fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(fmtAttrs(*v, fmtLabel(*v, opts), palette[0]), ", "))
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(fmtEdgeAttrs(*e, opts.ValueProperty), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(v graph.Vertex, opts Options) string {
	label := v.ID
	if opts.LabelProperty != "" {
		if s := v.Props.Value(opts.LabelProperty).String(); s != "" {
			label = s
		}
	}
	if !opts.Detailed || v.IsHub() {
		return label
	}

	parts := []string{label}
	for _, k := range v.Props.Keys() {
		parts = append(parts, fmt.Sprintf("%s: %s", k, v.Props[k]))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(v graph.Vertex, label, color string) []string {
	if v.IsHub() {
		return []string{"label=\"\"", "shape=point", "width=0.08", "fillcolor=black"}
	}
	return []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("fillcolor=%q", color),
	}
}

func fmtEdgeAttrs(e graph.Edge, valueKey string) []string {
	if e.IsHub() {
		attrs := []string{"style=bold", "penwidth=2"}
		n, ok := e.Props.Value(concentrate.KeyCount).Num()
		if !ok {
			return append(attrs, fmt.Sprintf("color=%q", ColorNeutral))
		}
		// The hub-to-hub edge carries the aggregate.
		return append(attrs,
			fmt.Sprintf("label=\"%d\"", int(n)),
			fmt.Sprintf("color=%q", valueColor(e.Props.Number(concentrate.KeyAverage, 0))))
	}
	value, ok := e.Props.Value(valueKey).Num()
	if !ok {
		return []string{fmt.Sprintf("color=%q", ColorNeutral)}
	}
	return []string{
		fmt.Sprintf("penwidth=%s", strconv.FormatFloat(penWidth(value), 'f', 2, 64)),
		fmt.Sprintf("color=%q", valueColor(value)),
	}
}

// penWidth maps |value| in [0,1] linearly onto [1,3]; larger values clamp.
func penWidth(value float64) float64 {
	return 1 + 2*math.Min(math.Abs(value), 1)
}

func valueColor(value float64) string {
	switch {
	case value > 0:
		return ColorPositive
	case value < 0:
		return ColorNegative
	}
	return ColorNeutral
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
