// Package cache provides the result caches shared by the CLI and the HTTP
// server.
//
// Four backends implement [Cache]: [NullCache] (disabled), [FileCache]
// (local directory, the CLI default), [RedisCache] and [MongoCache] (shared
// caches for server deployments). Keys are built by a [Keyer] from a hash
// of the input document and the options that affect the output, so equal
// requests share entries across backends.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss with ok == false and a nil error; errors are reserved
// for backend failures. A ttl of zero means no expiry.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default time-to-live values.
const (
	// TTLResult applies to concentrated documents. Results are a pure
	// function of their key, so they stay valid until evicted.
	TTLResult = 7 * 24 * time.Hour

	// TTLFetch applies to Neo4j query results, which go stale as the
	// database changes.
	TTLFetch = time.Hour
)

// Backend names accepted by configuration.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// ResultKeyOpts are the options that change a concentration result.
type ResultKeyOpts struct {
	GroupProperty        string  `json:"group_property"`
	UseEdgeConcentration bool    `json:"use_edge_concentration"`
	ShowSingleEdge       bool    `json:"show_single_edge"`
	Strategy             string  `json:"strategy"`
	Mu                   float64 `json:"mu"`
	MinCount             int     `json:"min_count"`
	Threshold            int     `json:"threshold"`
	MinAbsValue          float64 `json:"min_abs_value"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ResultKey identifies a concentration result by input document hash
	// and options.
	ResultKey(docHash string, opts ResultKeyOpts) string
	// FetchKey identifies the result of a query against a database.
	FetchKey(database, query string) string
}

// DefaultKeyer is the standard key layout: "result:<sha256>" and
// "fetch:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ResultKey implements Keyer.
func (DefaultKeyer) ResultKey(docHash string, opts ResultKeyOpts) string {
	return hashKey("result", docHash, opts)
}

// FetchKey implements Keyer.
func (DefaultKeyer) FetchKey(database, query string) string {
	return hashKey("fetch", database, query)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = DefaultKeyer{}
