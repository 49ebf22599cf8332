package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cypherview/pkg/cache"
	"github.com/matzehuels/cypherview/pkg/concentrate"
	"github.com/matzehuels/cypherview/pkg/document"
	"github.com/matzehuels/cypherview/pkg/errors"
	"github.com/matzehuels/cypherview/pkg/graph"
	"github.com/matzehuels/cypherview/pkg/group"
	"github.com/matzehuels/cypherview/pkg/pipeline"
)

const sampleDoc = `{
  "nodes": [
    {"id": "a1", "properties": {"timeGroup": 1, "name": "alpha"}},
    {"id": "a2", "properties": {"timeGroup": 1, "name": "beta"}},
    {"id": "b1", "properties": {"timeGroup": 2}},
    {"id": "b2", "properties": {"timeGroup": 2}}
  ],
  "relationships": [
    {"startNode": "a1", "endNode": "b1", "type": "Correlation", "properties": {"value": 0.5}},
    {"startNode": "a1", "endNode": "b2", "type": "Correlation", "properties": {"value": 0.5}},
    {"startNode": "a2", "endNode": "b1", "type": "Correlation", "properties": {"value": 0.5}},
    {"startNode": "a2", "endNode": "b2", "type": "Correlation", "properties": {"value": 0.5}}
  ]
}`

// newTestCLI returns a quiet CLI whose default config lives in a temp dir.
func newTestCLI(t *testing.T) (*CLI, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", dir)
	in := filepath.Join(dir, "graph.json")
	if err := os.WriteFile(in, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	return New(io.Discard, LogInfo), in
}

func run(c *CLI, args ...string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestConcentrateCommand(t *testing.T) {
	c, in := newTestCLI(t)
	out := filepath.Join(filepath.Dir(in), "out.json")

	if err := run(c, "concentrate", in, "-o", out); err != nil {
		t.Fatalf("concentrate error: %v", err)
	}

	doc, err := document.Import(out)
	if err != nil {
		t.Fatal(err)
	}
	hubs := 0
	for _, n := range doc.Nodes {
		if n.Dummy {
			hubs++
		}
	}
	if hubs != 2 || len(doc.Relationships) != 5 || len(doc.Groups) != 2 {
		t.Errorf("output has %d hubs, %d relationships, %d groups; want 2, 5, 2", hubs, len(doc.Relationships), len(doc.Groups))
	}

	// The file cache now holds the result.
	entries, _ := filepath.Glob(filepath.Join(filepath.Dir(in), appName, "*", "*.json"))
	if len(entries) == 0 {
		t.Error("expected a cached result under the XDG cache dir")
	}
}

func TestConcentrateCommand_Disabled(t *testing.T) {
	c, in := newTestCLI(t)
	out := filepath.Join(filepath.Dir(in), "out.json")

	if err := run(c, "concentrate", in, "-o", out, "--no-concentration", "--no-cache"); err != nil {
		t.Fatalf("concentrate error: %v", err)
	}
	doc, err := document.Import(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Relationships) != 4 {
		t.Errorf("relationships = %d, want 4 with concentration disabled", len(doc.Relationships))
	}
}

func TestConcentrateCommand_Errors(t *testing.T) {
	c, in := newTestCLI(t)

	tests := []struct {
		name string
		args []string
		want errors.Code
	}{
		{"bad strategy", []string{"concentrate", in, "--strategy", "greedy", "--no-cache"}, errors.ErrCodeInvalidOption},
		{"missing file", []string{"concentrate", filepath.Join(t.TempDir(), "none.json")}, errors.ErrCodeFileNotFound},
		{"missing config", []string{"concentrate", in, "--config", "/nonexistent/config.toml"}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(c, tt.args...)
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("error = %v (code %q), want %q", err, got, tt.want)
			}
		})
	}
}

func TestConcentrateFlags(t *testing.T) {
	var f concentrateFlags
	cmd := &cobra.Command{Use: "x"}
	f.register(cmd)
	if err := cmd.ParseFlags([]string{"-g", "period", "--threshold", "2", "--no-concentration", "--refresh"}); err != nil {
		t.Fatal(err)
	}

	base := pipeline.Options{Strategy: pipeline.StrategyQuasiBiclique, Mu: 0.8}
	opts := f.options(cmd, base)

	if opts.GroupProperty != "period" {
		t.Errorf("GroupProperty = %q, want period", opts.GroupProperty)
	}
	if opts.Threshold == nil || *opts.Threshold != 2 {
		t.Errorf("Threshold = %v, want 2", opts.Threshold)
	}
	if opts.ConcentrationEnabled() {
		t.Error("--no-concentration not applied")
	}
	if !opts.Refresh {
		t.Error("--refresh not applied")
	}
	if opts.Strategy != pipeline.StrategyQuasiBiclique || opts.Mu != 0.8 {
		t.Error("unset flags must keep config values")
	}
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()

	c, err := newCache(ctx, cache.BackendNone, CacheConfig{})
	if err != nil || c == nil {
		t.Fatalf("newCache(none) = %v, %v", c, err)
	}

	dir := t.TempDir()
	c, err = newCache(ctx, cache.BackendFile, CacheConfig{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if fc, ok := c.(*cache.FileCache); !ok || fc.Dir() != dir {
		t.Errorf("newCache(file) = %T, want FileCache in %s", c, dir)
	}

	_, err = newCache(ctx, "memcached", CacheConfig{})
	if !errors.Is(err, errors.ErrCodeInvalidOption) {
		t.Errorf("newCache(memcached) error = %v, want INVALID_OPTION", err)
	}
}

func TestPropertyCandidates(t *testing.T) {
	doc, err := document.Read(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	got := propertyCandidates(doc)
	if len(got) != 2 {
		t.Fatalf("propertyCandidates() = %+v, want 2", got)
	}
	if got[0].Name != "name" || got[0].Coverage != 2 || got[0].Groups != 2 {
		t.Errorf("candidate[0] = %+v", got[0])
	}
	if got[1].Name != "timeGroup" || got[1].Coverage != 4 || got[1].Groups != 2 {
		t.Errorf("candidate[1] = %+v", got[1])
	}
}

func TestPropertyListModel(t *testing.T) {
	m := NewPropertyListModel([]PropertyCandidate{{Name: "a"}, {Name: "b"}, {Name: "c"}}, 10)

	key := func(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }
	var model tea.Model = m
	model, _ = model.Update(key("j"))
	model, _ = model.Update(key("j"))
	model, _ = model.Update(key("j")) // clamps at the end
	model, _ = model.Update(key("k"))
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})

	got := model.(PropertyListModel)
	if got.Selected != "b" {
		t.Errorf("Selected = %q, want b", got.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
	if !strings.Contains(got.View(), "Select Node Group Property") {
		t.Error("View() missing title")
	}
}

func TestRenderPairTable(t *testing.T) {
	pairs := []concentrate.PairStats{{
		Source:         graph.Number(1),
		Target:         graph.Number(2),
		CandidateEdges: 4,
		Concentrations: 1,
		Absorbed:       4,
	}}
	groups := []group.Group{{Name: graph.Number(1), Count: 2}, {Name: graph.Number(2), Count: 3}}

	out := renderPairTable(pairs, groups)
	for _, want := range []string{"Source", "Absorbed", "1 (2)", "2 (3)"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderPairTable() missing %q:\n%s", want, out)
		}
	}
}

func TestRenderGroupTable(t *testing.T) {
	out := renderGroupTable("timeGroup", []group.Group{{Name: graph.String("2024"), Count: 7}, {Count: 1}})
	for _, want := range []string{"timeGroup", "2024", "7", "(none)"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderGroupTable() missing %q:\n%s", want, out)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := validateFormats([]string{"svg", "dot", "png"}); err != nil {
		t.Errorf("validateFormats() error: %v", err)
	}
	if err := validateFormats([]string{"svg", "gif"}); err == nil {
		t.Error("validateFormats() should reject gif")
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "data/graph.json", "data/graph"},
		{"", "-", "graph"},
		{"out.svg", "graph.json", "out"},
		{"out", "graph.json", "out"},
		{"out.v2", "graph.json", "out.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestRenderCommand_DOT(t *testing.T) {
	c, in := newTestCLI(t)
	out := filepath.Join(filepath.Dir(in), "graph.dot")

	if err := run(c, "render", in, "--concentrate", "--no-cache", "-f", "dot", "-o", out, "-l", "name"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"digraph G", "cluster_", "shape=point", `label="alpha"`, `label="4"`} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("DOT output missing %q", want)
		}
	}
}

func TestGroupsCommand(t *testing.T) {
	c, in := newTestCLI(t)
	if err := run(c, "groups", in, "--json"); err != nil {
		t.Fatalf("groups error: %v", err)
	}
	if err := run(c, "groups", in, "-g", "bad\x00name"); !errors.Is(err, errors.ErrCodeInvalidOption) {
		t.Errorf("groups with invalid property error = %v, want INVALID_OPTION", err)
	}
}

func TestCacheCommands(t *testing.T) {
	c, in := newTestCLI(t)
	if err := run(c, "concentrate", in, "-o", filepath.Join(filepath.Dir(in), "out.json")); err != nil {
		t.Fatal(err)
	}
	if err := run(c, "cache", "clear"); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	entries, _ := filepath.Glob(filepath.Join(filepath.Dir(in), appName, "*", "*.json"))
	if len(entries) != 0 {
		t.Errorf("cache clear left %d entries", len(entries))
	}
	if err := run(c, "cache", "path"); err != nil {
		t.Errorf("cache path error: %v", err)
	}
}
