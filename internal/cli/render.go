package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cypherview/pkg/document"
	"github.com/matzehuels/cypherview/pkg/errors"
	"github.com/matzehuels/cypherview/pkg/graph"
	"github.com/matzehuels/cypherview/pkg/pipeline"
	"github.com/matzehuels/cypherview/pkg/render/nodelink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output        string   // output file path (or base path for multiple outputs)
	formats       []string // output formats: "svg", "dot", "pdf", "png"
	labelProperty string   // vertex property used as node label
	detailed      bool     // show all vertex properties in labels
	concentrate   bool     // run the pipeline before drawing
	scale         float64  // PNG scale factor
}

// renderCommand creates the render command for generating diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      concentrateFlags
		formatsStr string
	)
	opts := renderOpts{scale: 2.0}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a graph document as a node-link diagram",
		Long: `Render draws a graph document with Graphviz: one cluster per group, hub
vertices as points, and hub edges labelled with the number of edges they
replaced. Pass --concentrate to concentrate a raw document first.`,
		Example: `  cypherview render concentrated.json -f svg,png
  cypherview render graph.json --concentrate -o graph.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			pipelineOpts := flags.options(cmd, c.cfg().Options)
			return c.runRender(cmd.Context(), args[0], pipelineOpts, flags.noCache, &opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, pdf, png (comma-separated)")
	cmd.Flags().StringVarP(&opts.labelProperty, "label-property", "l", "", "vertex property shown as node label (default: id)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show all vertex properties in labels")
	cmd.Flags().BoolVar(&opts.concentrate, "concentrate", false, "concentrate the graph before drawing")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{"svg"}
	}
	return strings.Split(s, ",")
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"svg": true, "dot": true, "pdf": true, "png": true}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return errors.New(errors.ErrCodeInvalidOption, "invalid format: %s (must be 'svg', 'dot', 'pdf', or 'png')", f)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return "graph"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// runRender loads the document, optionally concentrates it, and writes one
// file per requested format.
func (c *CLI) runRender(ctx context.Context, input string, pipelineOpts pipeline.Options, noCache bool, opts *renderOpts) error {
	c.Logger.Infof("Rendering %s", input)

	doc, err := document.Import(input)
	if err != nil {
		return err
	}

	if opts.concentrate {
		runner, err := c.newRunner(ctx, noCache)
		if err != nil {
			return err
		}
		defer runner.Close()
		res, err := runner.Execute(ctx, doc, pipelineOpts)
		if err != nil {
			return err
		}
		doc = res.Document
	}

	g, err := doc.ToGraph()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "build graph")
	}
	c.Logger.Infof("Loaded graph: %d nodes, %d edges", g.NumVertices(), g.NumEdges())

	if pipelineOpts.GroupProperty == "" {
		pipelineOpts.GroupProperty = pipeline.DefaultGroupProperty
	}
	dot := nodelink.ToDOT(g, nodelink.Options{
		GroupProperty: pipelineOpts.GroupProperty,
		LabelProperty: opts.labelProperty,
		Detailed:      opts.detailed,
	})

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := base + "." + format
		if len(opts.formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if err := c.renderAndWrite(g, dot, format, path, opts); err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
	}
	return nil
}

// renderAndWrite renders dot in one format and writes it to path.
func (c *CLI) renderAndWrite(g *graph.Graph, dot, format, path string, opts *renderOpts) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = nodelink.RenderSVG(dot)
	case "pdf":
		data, err = nodelink.RenderPDF(dot)
	case "png":
		data, err = nodelink.RenderPNG(dot, opts.scale)
	default:
		err = fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	c.Logger.Debugf("Generated %s: %d bytes", format, len(data))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	printSuccess("Rendered %d nodes", g.NumVertices())
	printFile(path)
	return nil
}
