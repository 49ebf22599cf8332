package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cypherview/pkg/document"
	"github.com/matzehuels/cypherview/pkg/pipeline"
)

// concentrateFlags holds the command-line flags shared by commands that run
// the pipeline. Flags left unset keep the config file values.
type concentrateFlags struct {
	groupProperty  string
	noConcentrate  bool
	showSingleEdge bool
	strategy       string
	mu             float64
	minCount       int
	threshold      int
	minAbsValue    float64
	workers        int
	refresh        bool
	noCache        bool
}

// register binds the flags to cmd.
func (f *concentrateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.groupProperty, "group-property", "g", "", "vertex property defining groups (default \"timeGroup\")")
	cmd.Flags().BoolVar(&f.noConcentrate, "no-concentration", false, "pass the graph through unchanged")
	cmd.Flags().BoolVar(&f.showSingleEdge, "show-single-edge", false, "keep cross-group edges that no concentration absorbed")
	cmd.Flags().StringVarP(&f.strategy, "strategy", "s", "", "concentration strategy: rectangular (default), quasi-biclique")
	cmd.Flags().Float64Var(&f.mu, "mu", 0, "quasi-biclique minimum density (default 0.5)")
	cmd.Flags().IntVar(&f.minCount, "min-count", 0, "quasi-biclique minimum absorbed edges (default 6)")
	cmd.Flags().IntVar(&f.threshold, "threshold", -1, "rectangular commit threshold")
	cmd.Flags().Float64Var(&f.minAbsValue, "min-abs-value", 0, "drop edges whose |value| is below this")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "group pairs processed in parallel (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	_ = cmd.RegisterFlagCompletionFunc("strategy", completeStrategies)
}

// options merges the flags that were set over base.
func (f *concentrateFlags) options(cmd *cobra.Command, base pipeline.Options) pipeline.Options {
	opts := base
	changed := cmd.Flags().Changed
	if changed("group-property") {
		opts.GroupProperty = f.groupProperty
	}
	if changed("no-concentration") {
		opts.UseEdgeConcentration = pipeline.Bool(!f.noConcentrate)
	}
	if changed("show-single-edge") {
		opts.ShowSingleEdge = f.showSingleEdge
	}
	if changed("strategy") {
		opts.Strategy = f.strategy
	}
	if changed("mu") {
		opts.Mu = f.mu
	}
	if changed("min-count") {
		opts.MinCount = f.minCount
	}
	if changed("threshold") {
		opts.Threshold = pipeline.Int(f.threshold)
	}
	if changed("min-abs-value") {
		opts.MinAbsValue = f.minAbsValue
	}
	if changed("workers") {
		opts.Workers = f.workers
	}
	opts.Refresh = f.refresh
	return opts
}

// concentrateCommand creates the concentrate command.
func (c *CLI) concentrateCommand() *cobra.Command {
	var (
		flags  concentrateFlags
		output string
		pick   bool
		stats  bool
	)

	cmd := &cobra.Command{
		Use:   "concentrate [file]",
		Short: "Replace dense group-pair edge sets with hub vertices",
		Long: `Concentrate reads a graph document (a file, or "-" for stdin), replaces every
dense edge set between two groups with a pair of hub vertices, and writes the
resulting document with its group list.

The input may be a plain {nodes, relationships} document or a Neo4j HTTP
transaction response.`,
		Example: `  cypherview concentrate graph.json -o concentrated.json
  cypherview concentrate graph.json --strategy quasi-biclique --mu 0.6 --stats
  cat graph.json | cypherview concentrate - --pick`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.Import(args[0])
			if err != nil {
				return err
			}
			opts := flags.options(cmd, c.cfg().Options)
			if pick {
				prop, err := pickGroupProperty(doc)
				if err != nil {
					return err
				}
				if prop == "" {
					return context.Canceled
				}
				opts.GroupProperty = prop
			}
			return c.runConcentrate(cmd.Context(), doc, opts, flags.noCache, output, stats)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&pick, "pick", false, "choose the group property interactively")
	cmd.Flags().BoolVar(&stats, "stats", false, "print per-group-pair statistics")

	return cmd
}

func (c *CLI) runConcentrate(ctx context.Context, doc *document.Document, opts pipeline.Options, noCache bool, output string, stats bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Concentrated %d nodes, %d edges", res.Stats.InputNodes, res.Stats.InputEdges))

	if err := document.Export(res.Document, outputPath(output)); err != nil {
		return err
	}
	if output != "" {
		printSuccess("Wrote concentrated graph")
		printFile(output)
		printStats(res.Stats.OutputNodes, res.Stats.OutputEdges, res.CacheHit)
	}
	if stats {
		// Keep stdout clean when the document goes there.
		w := os.Stdout
		if output == "" {
			w = os.Stderr
		}
		fmt.Fprintln(w, renderPairTable(res.Pairs, res.Document.Groups))
		fmt.Fprintln(w, StyleDim.Render(res.Stats.String()))
	}
	return nil
}

// outputPath maps an empty output flag to stdout.
func outputPath(output string) string {
	if output == "" {
		return "-"
	}
	return output
}
