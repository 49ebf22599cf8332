package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cypherview/pkg/document"
	"github.com/matzehuels/cypherview/pkg/errors"
	"github.com/matzehuels/cypherview/pkg/pipeline"
)

// fetchCommand creates the fetch command.
func (c *CLI) fetchCommand() *cobra.Command {
	var (
		flags       concentrateFlags
		output      string
		queryFile   string
		concentrate bool
		stats       bool
	)
	nf := &neo4jFlags{}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Run a Cypher query against Neo4j and write the graph document",
		Long: `Fetch runs a read-only Cypher query (by default the correlation query) against
Neo4j and writes the returned nodes and relationships as a graph document.
With --concentrate the document is concentrated before it is written.

The password is read from NEO4J_PASSWORD when not configured.`,
		Example: `  cypherview fetch --uri neo4j://db:7687 -o graph.json
  cypherview fetch --query-file corr.cypher --concentrate --stats -o out.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nf.apply(cmd, &c.cfg().Neo4j)
			if queryFile != "" {
				data, err := os.ReadFile(queryFile)
				if err != nil {
					return errors.Wrap(errors.ErrCodeFileNotFound, err, "read query")
				}
				c.cfg().Neo4j.Query = string(data)
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			spin := newSpinnerWithContext(ctx, "Connecting to "+c.cfg().Neo4j.URI)
			spin.Start()
			src, err := c.newSource(ctx)
			if err != nil {
				spin.StopWithError("Connection failed")
				return err
			}
			defer src.Close(ctx)

			spin.Update("Running query")
			doc, cached, err := runner.Fetch(ctx, src, pipeline.FetchOptions{
				Database: c.cfg().Neo4j.Database,
				Query:    c.cfg().Neo4j.Query,
				Refresh:  flags.refresh,
			})
			spin.Stop()
			if err != nil {
				return err
			}
			c.Logger.Info("fetched graph", "nodes", len(doc.Nodes), "relationships", len(doc.Relationships), "cached", cached)

			if concentrate {
				return c.runConcentrate(ctx, doc, flags.options(cmd, c.cfg().Options), flags.noCache, output, stats)
			}
			if err := document.Export(doc, outputPath(output)); err != nil {
				return err
			}
			if output != "" {
				printSuccess("Wrote graph")
				printFile(output)
				printStats(len(doc.Nodes), len(doc.Relationships), cached)
			}
			return nil
		},
	}

	flags.register(cmd)
	nf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&queryFile, "query-file", "", "read the Cypher query from a file")
	cmd.Flags().BoolVar(&concentrate, "concentrate", false, "concentrate the fetched graph")
	cmd.Flags().BoolVar(&stats, "stats", false, "print per-group-pair statistics (with --concentrate)")

	return cmd
}

// neo4jFlags overrides the [neo4j] config section.
type neo4jFlags struct {
	uri, username, password, database, query string
}

func (f *neo4jFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.uri, "uri", "", "Neo4j URI (default neo4j://localhost:7687)")
	cmd.Flags().StringVarP(&f.username, "user", "u", "", "Neo4j user name (default neo4j)")
	cmd.Flags().StringVar(&f.password, "password", "", "Neo4j password")
	cmd.Flags().StringVar(&f.database, "database", "", "Neo4j database (default neo4j)")
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "Cypher query (default: correlation query)")
}

func (f *neo4jFlags) apply(cmd *cobra.Command, cfg *Neo4jConfig) {
	changed := cmd.Flags().Changed
	if changed("uri") {
		cfg.URI = f.uri
	}
	if changed("user") {
		cfg.Username = f.username
	}
	if changed("password") {
		cfg.Password = f.password
	}
	if changed("database") {
		cfg.Database = f.database
	}
	if changed("query") {
		cfg.Query = f.query
	}
}
