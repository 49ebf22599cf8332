package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cypherview/pkg/cache"
	"github.com/matzehuels/cypherview/pkg/concentrate"
	"github.com/matzehuels/cypherview/pkg/document"
	"github.com/matzehuels/cypherview/pkg/errors"
	"github.com/matzehuels/cypherview/pkg/graph"
	"github.com/matzehuels/cypherview/pkg/group"
	"github.com/matzehuels/cypherview/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedResult is the cache payload of a concentration run.
type cachedResult struct {
	Document *document.Document     `json:"document"`
	Pairs    []concentrate.PairStats `json:"pairs,omitempty"`
	Stats    Stats                   `json:"stats"`
}

// Execute converts doc to a graph, runs the filter and concentration
// stages, and returns the output document. Results are cached by input
// document hash and options.
//
// Errors carry codes from pkg/errors: INVALID_OPTION for bad options,
// DUPLICATE_ID and INVALID_REFERENCE for malformed documents, TIMEOUT when
// ctx ends first, and INTERNAL_ERROR otherwise.
func (r *Runner) Execute(ctx context.Context, doc *document.Document, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	docData, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "encode document")
	}
	docHash := cache.Hash(docData)
	key := r.Keyer.ResultKey(docHash, opts.KeyOpts())

	if !opts.Refresh {
		if res, ok := r.lookup(ctx, key); ok {
			res.DocumentHash = docHash
			r.Logger.Debug("using cached result", "hash", docHash[:12])
			return res, nil
		}
	}

	start := time.Now()
	g, err := doc.ToGraph()
	if err != nil {
		return nil, classify(err, "build graph")
	}
	if err := ctx.Err(); err != nil {
		return nil, classify(err, "concentrate")
	}

	observability.Pipeline().OnConcentrateStart(ctx, opts.Strategy, g.NumVertices(), g.NumEdges())
	var run *concentrate.Result
	out, err := opts.Transformer(func(res *concentrate.Result) { run = res }).Transform(g)
	stats := Stats{InputNodes: g.NumVertices(), InputEdges: g.NumEdges(), Duration: time.Since(start)}
	if run != nil {
		stats.Concentrations = run.Concentrations()
		stats.Absorbed = run.Absorbed()
	}
	observability.Pipeline().OnConcentrateComplete(ctx, opts.Strategy, stats.Concentrations, stats.Duration, err)
	if err != nil {
		return nil, classify(err, "concentrate")
	}

	res := &Result{
		Document:     document.FromGraph(out),
		DocumentHash: docHash,
	}
	if run != nil {
		res.Document.Groups = run.Groups
		res.Pairs = run.Pairs
	} else {
		res.Document.Groups = group.Count(out, opts.GroupProperty)
	}
	stats.OutputNodes = out.NumVertices()
	stats.OutputEdges = out.NumEdges()
	stats.Hubs = countHubs(out)
	res.Stats = stats

	r.Logger.Info("concentrated graph",
		"vertices", stats.OutputNodes,
		"edges", stats.OutputEdges,
		"hubs", stats.Hubs,
		"concentrations", stats.Concentrations,
		"duration", stats.Duration)

	r.store(ctx, key, res)
	return res, nil
}

func (r *Runner) lookup(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "result")
		return nil, false
	}
	var cached cachedResult
	if err := json.Unmarshal(data, &cached); err != nil || cached.Document == nil {
		r.Logger.Warn("discarding unreadable cache entry", "key", key)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "result")
	return &Result{
		Document: cached.Document,
		Pairs:    cached.Pairs,
		Stats:    cached.Stats,
		CacheHit: true,
	}, true
}

func (r *Runner) store(ctx context.Context, key string, res *Result) {
	data, err := json.Marshal(cachedResult{Document: res.Document, Pairs: res.Pairs, Stats: res.Stats})
	if err != nil {
		r.Logger.Warn("cache encode failed", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLResult); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "result", len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// classify converts engine errors into coded errors. Errors that already
// carry a code pass through unchanged.
func classify(err error, msg string) error {
	if errors.GetCode(err) != "" {
		return err
	}
	code := errors.ErrCodeInternal
	switch {
	case stderrors.Is(err, graph.ErrDuplicateID):
		code = errors.ErrCodeDuplicateID
	case stderrors.Is(err, graph.ErrInvalidReference):
		code = errors.ErrCodeInvalidReference
	case stderrors.Is(err, graph.ErrEmptyID):
		code = errors.ErrCodeInvalidInput
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		code = errors.ErrCodeTimeout
	}
	return errors.Wrap(code, err, "%s", msg)
}
