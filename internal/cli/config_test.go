package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/cypherview/pkg/cache"
	"github.com/matzehuels/cypherview/pkg/errors"
	"github.com/matzehuels/cypherview/pkg/source/neo4j"
)

const sampleConfig = `
[options]
group_property = "period"
strategy = "quasi-biclique"
mu = 0.75
use_edge_concentration = false
threshold = 0

[neo4j]
uri = "bolt://graph:7687"
database = "corr"

[cache]
backend = "none"
prefix = "staging:"

[server]
addr = ":9090"
allowed_origins = ["http://localhost:3000"]
timeout = "45s"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("NEO4J_PASSWORD", "secret")
	t.Setenv("NEO4J_URI", "")

	cfg, err := loadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}

	o := cfg.Options
	if o.GroupProperty != "period" || o.Strategy != "quasi-biclique" || o.Mu != 0.75 {
		t.Errorf("options = %+v", o)
	}
	if o.UseEdgeConcentration == nil || *o.UseEdgeConcentration {
		t.Error("use_edge_concentration = false not decoded")
	}
	if o.Threshold == nil || *o.Threshold != 0 {
		t.Error("threshold = 0 not decoded")
	}

	if cfg.Neo4j.URI != "bolt://graph:7687" || cfg.Neo4j.Database != "corr" {
		t.Errorf("neo4j = %+v", cfg.Neo4j)
	}
	if cfg.Neo4j.Username != "neo4j" || cfg.Neo4j.Query != neo4j.DefaultQuery {
		t.Error("unset neo4j fields should keep defaults")
	}
	if cfg.Neo4j.Password != "secret" {
		t.Error("NEO4J_PASSWORD not applied")
	}

	if cfg.Cache.Backend != cache.BackendNone || cfg.Cache.Prefix != "staging:" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.Timeout.Duration != 45*time.Second || len(cfg.Server.AllowedOrigins) != 1 {
		t.Errorf("server = %+v", cfg.Server)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig(\"\") error: %v", err)
	}
	if cfg.Cache.Backend != cache.BackendFile {
		t.Errorf("default backend = %q, want file", cfg.Cache.Backend)
	}

	_, err = loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing config error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[options\n"},
		{"bad duration", "[server]\ntimeout = \"soon\"\n"},
		{"wrong type", "[options]\nmu = \"high\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.content))
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("loadConfig() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}
