package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/cypherview/pkg/cache"
	"github.com/matzehuels/cypherview/pkg/document"
	"github.com/matzehuels/cypherview/pkg/errors"
	"github.com/matzehuels/cypherview/pkg/observability"
)

// Fetcher runs a read query and returns its graph as a document.
type Fetcher interface {
	Fetch(ctx context.Context, query string, params map[string]any) (*document.Document, error)
}

// FetchOptions configures Runner.Fetch.
type FetchOptions struct {
	Database string
	Query    string
	Params   map[string]any
	Refresh  bool // skip cache reads
}

// Fetch runs opts.Query through f with retries on transient failures.
// Results are cached by database and query text; queries with parameters
// are never cached. The returned bool reports a cache hit.
func (r *Runner) Fetch(ctx context.Context, f Fetcher, opts FetchOptions) (*document.Document, bool, error) {
	if err := errors.ValidateReadQuery(opts.Query); err != nil {
		return nil, false, err
	}

	cacheable := len(opts.Params) == 0
	key := r.Keyer.FetchKey(opts.Database, opts.Query)
	if cacheable && !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
		if hit {
			var doc document.Document
			if err := json.Unmarshal(data, &doc); err == nil {
				observability.Cache().OnCacheHit(ctx, "fetch")
				return &doc, true, nil
			}
		} else {
			observability.Cache().OnCacheMiss(ctx, "fetch")
		}
	}

	start := time.Now()
	observability.Pipeline().OnFetchStart(ctx, opts.Database)
	var doc *document.Document
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		doc, err = f.Fetch(ctx, opts.Query, opts.Params)
		if err != nil && cache.IsRetryable(err) {
			r.Logger.Warn("fetch failed, retrying", "err", err)
		}
		return err
	})
	nodes := 0
	if doc != nil {
		nodes = len(doc.Nodes)
	}
	observability.Pipeline().OnFetchComplete(ctx, opts.Database, nodes, time.Since(start), err)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", opts.Database)
		}
		return nil, false, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", opts.Database)
	}

	r.Logger.Info("fetched graph",
		"nodes", len(doc.Nodes),
		"relationships", len(doc.Relationships),
		"duration", time.Since(start))

	if cacheable {
		if data, err := json.Marshal(doc); err == nil {
			if err := r.Cache.Set(ctx, key, data, cache.TTLFetch); err != nil {
				r.Logger.Warn("cache write failed", "err", err)
			} else {
				observability.Cache().OnCacheSet(ctx, "fetch", len(data))
			}
		}
	}
	return doc, false, nil
}
