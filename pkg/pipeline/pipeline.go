// Package pipeline provides the concentration pipeline shared by the CLI
// and the HTTP server.
//
// By centralizing option defaults, validation, caching, and error
// classification here, every entry point produces identical documents for
// identical requests.
//
// # Stages
//
//  1. Fetch (optional): run a Cypher query through a [Fetcher]
//  2. Filter: drop edges whose |value| is below min_abs_value
//  3. Concentrate: rewrite dense group-pair edge sets into hubs
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.Options{GroupProperty: "timeGroup"}
//	result, err := runner.Execute(ctx, doc, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = document.Write(os.Stdout, result.Document)
package pipeline

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cypherview/pkg/cache"
	"github.com/matzehuels/cypherview/pkg/concentrate"
	"github.com/matzehuels/cypherview/pkg/document"
	"github.com/matzehuels/cypherview/pkg/errors"
	"github.com/matzehuels/cypherview/pkg/graph"
	"github.com/matzehuels/cypherview/pkg/transform"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultGroupProperty is the vertex property grouping cells by time.
	DefaultGroupProperty = "timeGroup"

	// DefaultStrategy is the concentration strategy used when none is set.
	DefaultStrategy = StrategyRectangular

	// DefaultValueProperty is the numeric edge property that is filtered
	// and averaged.
	DefaultValueProperty = concentrate.DefaultValueKey
)

// Strategy names.
const (
	StrategyRectangular   = "rectangular"
	StrategyQuasiBiclique = "quasi-biclique"
)

// ValidStrategies is the set of supported strategy names.
var ValidStrategies = map[string]bool{
	StrategyRectangular:   true,
	StrategyQuasiBiclique: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a concentration run.
// This struct supports JSON serialization for API requests and TOML
// decoding for the CLI config file.
type Options struct {
	GroupProperty string `json:"group_property,omitempty" toml:"group_property"`

	// UseEdgeConcentration bypasses the engine when false. Nil means true.
	UseEdgeConcentration *bool `json:"use_edge_concentration,omitempty" toml:"use_edge_concentration"`
	ShowSingleEdge       bool  `json:"show_single_edge,omitempty" toml:"show_single_edge"`

	Strategy string  `json:"strategy,omitempty" toml:"strategy"`
	Mu       float64 `json:"mu,omitempty" toml:"mu"`               // quasi-biclique density ratio
	MinCount int     `json:"min_count,omitempty" toml:"min_count"` // quasi-biclique minimum edges
	// Threshold is the rectangular commit threshold. Nil means -1.
	Threshold *int `json:"threshold,omitempty" toml:"threshold"`

	MinAbsValue float64 `json:"min_abs_value,omitempty" toml:"min_abs_value"`
	Refresh     bool    `json:"refresh,omitempty" toml:"-"` // skip cache reads

	// Runtime options (not serialized)
	Workers int         `json:"-" toml:"workers"`
	Logger  *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Bool returns a pointer to b, for optional option fields.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n, for optional option fields.
func Int(n int) *int { return &n }

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the output document, including hub elements and groups.
	Document *document.Document

	// DocumentHash is the content hash of the input document.
	DocumentHash string

	// Pairs holds per-group-pair statistics. Empty when concentration is
	// disabled.
	Pairs []concentrate.PairStats

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether the result came from cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	InputNodes     int           `json:"input_nodes"`
	InputEdges     int           `json:"input_edges"`
	OutputNodes    int           `json:"output_nodes"`
	OutputEdges    int           `json:"output_edges"`
	Hubs           int           `json:"hubs"`
	Concentrations int           `json:"concentrations"`
	Absorbed       int           `json:"absorbed"`
	Duration       time.Duration `json:"duration"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateStrategy checks that a strategy name is valid.
func ValidateStrategy(name string) error {
	if !ValidStrategies[name] {
		return errors.New(errors.ErrCodeInvalidOption,
			"invalid strategy: %q (must be one of: rectangular, quasi-biclique)", name)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks option values and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.GroupProperty == "" {
		o.GroupProperty = DefaultGroupProperty
	}
	if err := errors.ValidatePropertyName(o.GroupProperty); err != nil {
		return err
	}
	if o.UseEdgeConcentration == nil {
		o.UseEdgeConcentration = Bool(true)
	}
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	if err := ValidateStrategy(o.Strategy); err != nil {
		return err
	}
	if o.Mu == 0 {
		o.Mu = concentrate.DefaultMu
	}
	if o.Mu < 0 || o.Mu > 1 {
		return errors.New(errors.ErrCodeInvalidOption, "mu must be in (0, 1], got %v", o.Mu)
	}
	if o.MinCount == 0 {
		o.MinCount = concentrate.DefaultMinCount
	}
	if o.MinCount < 1 {
		return errors.New(errors.ErrCodeInvalidOption, "min_count must be at least 1, got %d", o.MinCount)
	}
	if o.Threshold == nil {
		o.Threshold = Int(concentrate.DefaultThreshold)
	}
	if o.MinAbsValue < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "min_abs_value must not be negative, got %v", o.MinAbsValue)
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ConcentrationEnabled reports whether the engine runs.
func (o Options) ConcentrationEnabled() bool {
	return o.UseEdgeConcentration == nil || *o.UseEdgeConcentration
}

// NewStrategy builds the configured strategy.
func (o Options) NewStrategy() concentrate.Strategy {
	if o.Strategy == StrategyQuasiBiclique {
		return concentrate.NewQuasiBiclique(o.Mu, o.MinCount)
	}
	r := concentrate.NewRectangular()
	if o.Threshold != nil {
		r.Threshold = *o.Threshold
	}
	return r
}

// KeyOpts returns the cache key options for these options.
func (o Options) KeyOpts() cache.ResultKeyOpts {
	k := cache.ResultKeyOpts{
		GroupProperty:        o.GroupProperty,
		UseEdgeConcentration: o.ConcentrationEnabled(),
		ShowSingleEdge:       o.ShowSingleEdge,
		Strategy:             o.Strategy,
		MinAbsValue:          o.MinAbsValue,
	}
	// Parameters of the unused strategy do not split the cache.
	switch o.Strategy {
	case StrategyQuasiBiclique:
		k.Mu, k.MinCount = o.Mu, o.MinCount
	default:
		if o.Threshold != nil {
			k.Threshold = *o.Threshold
		}
	}
	return k
}

// Transformer assembles the filter and concentration stages. The filter
// is omitted when MinAbsValue is zero and the concentration stage when it
// is disabled. onResult, if non-nil, receives the concentration result of
// every run.
func (o Options) Transformer(onResult func(*concentrate.Result)) transform.Transformer {
	var stages []transform.Transformer
	if o.MinAbsValue > 0 {
		stages = append(stages, transform.FilterEdges(transform.MinAbsValue(DefaultValueProperty, o.MinAbsValue)))
	}
	if o.ConcentrationEnabled() {
		stages = append(stages, concentrate.New(
			concentrate.WithGroupProperty(o.GroupProperty),
			concentrate.WithStrategy(o.NewStrategy()),
			concentrate.WithAggregator(concentrate.Mean(DefaultValueProperty)),
			concentrate.WithShowSingleEdge(o.ShowSingleEdge),
			concentrate.WithWorkers(o.Workers),
			concentrate.WithLogger(o.Logger),
			concentrate.WithResultHook(onResult),
		))
	}
	return transform.Pipe(stages...)
}

// countHubs returns the number of hub vertices in g.
func countHubs(g *graph.Graph) int {
	n := 0
	for _, id := range g.Vertices() {
		if v, _ := g.Vertex(id); v.IsHub() {
			n++
		}
	}
	return n
}

func (s Stats) String() string {
	return fmt.Sprintf("%d nodes, %d edges -> %d nodes (%d hubs), %d edges; %d concentrations absorbing %d edges",
		s.InputNodes, s.InputEdges, s.OutputNodes, s.Hubs, s.OutputEdges, s.Concentrations, s.Absorbed)
}
