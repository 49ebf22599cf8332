package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cypherview/pkg/observability"
	"github.com/matzehuels/cypherview/pkg/pipeline"
	"github.com/matzehuels/cypherview/pkg/server"
	"github.com/matzehuels/cypherview/pkg/source/neo4j"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		origins     []string
		enableFetch bool
		noCache     bool
	)
	nf := &neo4jFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the concentration pipeline over HTTP",
		Long: `Serve starts the HTTP API:

  GET  /health
  POST /api/v1/concentrate   {document, options}
  POST /api/v1/groups        {document, group_property}
  POST /api/v1/fetch         {query, params, options}   (with --fetch)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sc := c.cfg().Server
			if cmd.Flags().Changed("addr") {
				sc.Addr = addr
			}
			if cmd.Flags().Changed("allowed-origin") {
				sc.AllowedOrigins = origins
			}
			if cmd.Flags().Changed("fetch") {
				sc.EnableFetch = enableFetch
			}
			nf.apply(cmd, &c.cfg().Neo4j)

			observability.NewLogHooks(c.Logger).Register()
			defer observability.Reset()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			cfg := server.Config{
				Addr:           sc.Addr,
				AllowedOrigins: sc.AllowedOrigins,
				Timeout:        sc.Timeout.Duration,
				Database:       c.cfg().Neo4j.Database,
				Query:          c.cfg().Neo4j.Query,
			}
			if sc.EnableFetch {
				src, err := c.newSource(ctx)
				if err != nil {
					return err
				}
				defer src.Close(context.Background())
				cfg.Fetcher = src
			}

			printKeyValue("listening", cfg.Addr)
			printKeyValue("cache", c.cfg().Cache.Backend)
			if cfg.Fetcher != nil {
				printKeyValue("neo4j", c.cfg().Neo4j.URI)
			}
			return server.New(runner, cfg, c.Logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringSliceVar(&origins, "allowed-origin", nil, "CORS origin (repeatable; default any)")
	cmd.Flags().BoolVar(&enableFetch, "fetch", false, "enable POST /api/v1/fetch against Neo4j")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	nf.register(cmd)

	return cmd
}

// Ensure the Neo4j client satisfies the pipeline's fetcher contract.
var _ pipeline.Fetcher = (*neo4j.Client)(nil)
