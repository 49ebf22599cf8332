package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cypherview/pkg/cache"
	"github.com/matzehuels/cypherview/pkg/errors"
	"github.com/matzehuels/cypherview/pkg/pipeline"
	"github.com/matzehuels/cypherview/pkg/server"
	"github.com/matzehuels/cypherview/pkg/source/neo4j"
)

// configFile is the default config file name under the config directory.
const configFile = "config.toml"

// Config is the TOML configuration file. Command-line flags override it.
//
//	[options]
//	group_property = "timeGroup"
//	strategy = "rectangular"
//
//	[neo4j]
//	uri = "neo4j://localhost:7687"
//	username = "neo4j"
//
//	[cache]
//	backend = "file"
//
//	[server]
//	addr = ":8080"
type Config struct {
	Options pipeline.Options `toml:"options"`
	Neo4j   Neo4jConfig      `toml:"neo4j"`
	Cache   CacheConfig      `toml:"cache"`
	Server  ServerConfig     `toml:"server"`
}

// Neo4jConfig configures the graph source.
type Neo4jConfig struct {
	URI      string `toml:"uri"`
	Username string `toml:"username"`
	Password string `toml:"password"` // NEO4J_PASSWORD overrides
	Database string `toml:"database"`
	Query    string `toml:"query"`
}

// CacheConfig selects and configures the result cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"` // none, file, redis, mongo
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
	Prefix        string `toml:"prefix"` // key namespace for shared backends
}

// ServerConfig configures `cypherview serve`.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
	Timeout        duration `toml:"timeout"`
	EnableFetch    bool     `toml:"enable_fetch"`
}

// duration decodes TOML strings such as "90s" or "24h".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// defaultConfig returns the configuration used when no file exists.
func defaultConfig() *Config {
	return &Config{
		Neo4j: Neo4jConfig{
			URI:      "neo4j://localhost:7687",
			Username: "neo4j",
			Database: neo4j.DefaultDatabase,
			Query:    neo4j.DefaultQuery,
		},
		Cache:  CacheConfig{Backend: cache.BackendFile},
		Server: ServerConfig{Addr: server.DefaultAddr},
	}
}

// loadConfig reads path over the defaults. An empty path tries the default
// location and silently falls back to defaults when that file is missing.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, configFile)
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit {
			return applyEnv(cfg), nil
		}
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	return applyEnv(cfg), nil
}

// applyEnv overlays secrets from the environment.
func applyEnv(cfg *Config) *Config {
	if p := os.Getenv("NEO4J_PASSWORD"); p != "" {
		cfg.Neo4j.Password = p
	}
	if u := os.Getenv("NEO4J_URI"); u != "" {
		cfg.Neo4j.URI = u
	}
	return cfg
}

// configDir returns the config directory using XDG standard (~/.config/cypherview/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
