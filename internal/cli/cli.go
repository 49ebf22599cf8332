package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cypherview/pkg/buildinfo"
	"github.com/matzehuels/cypherview/pkg/cache"
	"github.com/matzehuels/cypherview/pkg/errors"
	"github.com/matzehuels/cypherview/pkg/pipeline"
	"github.com/matzehuels/cypherview/pkg/source/neo4j"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "cypherview"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Cypherview concentrates dense edge sets in grouped graphs",
		Long: `Cypherview reads a Neo4j-style graph document, finds dense bipartite edge sets
between vertex groups (typically time steps), and replaces each with a pair of
hub vertices so the graph can be drawn legibly.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/cypherview/config.toml)")

	root.AddCommand(c.concentrateCommand())
	root.AddCommand(c.groupsCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// cfg returns the loaded config, or defaults when the root pre-run has not
// executed (as in tests that invoke subcommands directly).
func (c *CLI) cfg() *Config {
	if c.config == nil {
		c.config = defaultConfig()
	}
	return c.config
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	backend := c.cfg().Cache.Backend
	if noCache {
		backend = cache.BackendNone
	}
	ch, err := newCache(ctx, backend, c.cfg().Cache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if p := c.cfg().Cache.Prefix; p != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), p)
	}
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

func newCache(ctx context.Context, backend string, cfg CacheConfig) (cache.Cache, error) {
	switch backend {
	case cache.BackendNone:
		return cache.NewNullCache(), nil
	case cache.BackendFile, "":
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	case cache.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case cache.BackendMongo:
		return cache.NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDatabase, "")
	}
	return nil, errors.New(errors.ErrCodeInvalidOption,
		"invalid cache backend: %q (must be one of: none, file, redis, mongo)", backend)
}

// newSource connects to the configured Neo4j database.
func (c *CLI) newSource(ctx context.Context) (*neo4j.Client, error) {
	nc := c.cfg().Neo4j
	if err := errors.ValidateURI(nc.URI); err != nil {
		return nil, err
	}
	client, err := neo4j.New(neo4j.Config{
		URI:      nc.URI,
		Username: nc.Username,
		Password: nc.Password,
		Database: nc.Database,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect %s", nc.URI)
	}
	if err := client.Verify(ctx); err != nil {
		_ = client.Close(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect %s", nc.URI)
	}
	return client, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory (~/.cache/cypherview/ on Linux,
// honoring XDG_CACHE_HOME).
func cacheDir() (string, error) {
	return cache.DefaultDir()
}
