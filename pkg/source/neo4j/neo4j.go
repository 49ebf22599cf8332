// Package neo4j fetches query results from a Neo4j database as documents.
//
// Every node, relationship and path reachable from the returned record
// values, including inside lists and maps, is collected. Elements are keyed
// by element ID and deduplicated, so a query may return overlapping paths:
//
//	MATCH p = (v1)-[r:Correlation]->(v2)
//	RETURN collect(nodes(p)), collect(relationships(p))
package neo4j

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	neo4jdriver "github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/matzehuels/cypherview/pkg/cache"
	"github.com/matzehuels/cypherview/pkg/document"
	"github.com/matzehuels/cypherview/pkg/graph"
)

// DefaultQuery returns every strong forward correlation between cells.
const DefaultQuery = `MATCH p = (v1)-[r:Correlation]->(v2)
WHERE abs(r.value) > 0.6
  AND v1.timeOrder < v2.timeOrder
RETURN collect(nodes(p)), collect(relationships(p))`

// DefaultDatabase is the database queried when none is configured.
const DefaultDatabase = "neo4j"

// Config holds connection settings.
type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

// Runner executes a Cypher query and returns the fully buffered result.
// Transient failures are returned wrapped with cache.Retryable.
type Runner interface {
	Run(ctx context.Context, query string, params map[string]any) (*neo4jdriver.EagerResult, error)
}

// Client fetches documents through a Runner.
type Client struct {
	runner Runner
	driver neo4jdriver.DriverWithContext
}

// New connects a client using basic authentication. An empty username
// selects no authentication.
func New(cfg Config) (*Client, error) {
	if cfg.URI == "" {
		return nil, errors.New("neo4j: uri is required")
	}
	auth := neo4jdriver.NoAuth()
	if cfg.Username != "" {
		auth = neo4jdriver.BasicAuth(cfg.Username, cfg.Password, "")
	}
	drv, err := neo4jdriver.NewDriverWithContext(cfg.URI, auth)
	if err != nil {
		return nil, fmt.Errorf("create driver: %w", err)
	}
	db := cfg.Database
	if db == "" {
		db = DefaultDatabase
	}
	return &Client{runner: &driverRunner{driver: drv, database: db}, driver: drv}, nil
}

// NewWithRunner returns a client over an existing runner.
func NewWithRunner(r Runner) *Client { return &Client{runner: r} }

// Verify checks connectivity. It is a no-op for clients built with
// NewWithRunner.
func (c *Client) Verify(ctx context.Context) error {
	if c.driver == nil {
		return nil
	}
	return c.driver.VerifyConnectivity(ctx)
}

// Close releases the driver.
func (c *Client) Close(ctx context.Context) error {
	if c.driver == nil {
		return nil
	}
	return c.driver.Close(ctx)
}

// Fetch runs query with params and converts the result into a document.
func (c *Client) Fetch(ctx context.Context, query string, params map[string]any) (*document.Document, error) {
	if query == "" {
		query = DefaultQuery
	}
	res, err := c.runner.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	return FromRecords(res.Records), nil
}

type driverRunner struct {
	driver   neo4jdriver.DriverWithContext
	database string
}

func (r *driverRunner) Run(ctx context.Context, query string, params map[string]any) (*neo4jdriver.EagerResult, error) {
	res, err := neo4jdriver.ExecuteQuery(ctx, r.driver, query, params,
		neo4jdriver.EagerResultTransformer,
		neo4jdriver.ExecuteQueryWithDatabase(r.database),
		neo4jdriver.ExecuteQueryWithReadersRouting())
	if err != nil {
		wrapped := fmt.Errorf("execute query: %w", err)
		if neo4jdriver.IsRetryable(err) {
			return nil, cache.Retryable(wrapped)
		}
		return nil, wrapped
	}
	return res, nil
}

// FromRecords collects the graph elements found in records. Nodes and
// relationships appear in first-seen order. Relationships are kept only
// when both endpoints were returned as nodes.
func FromRecords(records []*neo4jdriver.Record) *document.Document {
	c := &collector{
		nodes: make(map[string]bool),
		rels:  make(map[string]bool),
		doc:   &document.Document{},
	}
	for _, rec := range records {
		for _, v := range rec.Values {
			c.walk(v)
		}
	}
	kept := c.doc.Relationships[:0]
	for _, r := range c.doc.Relationships {
		if c.nodes[string(r.StartNode)] && c.nodes[string(r.EndNode)] {
			kept = append(kept, r)
		}
	}
	c.doc.Relationships = kept
	return c.doc
}

type collector struct {
	nodes map[string]bool
	rels  map[string]bool
	doc   *document.Document
}

func (c *collector) walk(v any) {
	switch t := v.(type) {
	case neo4jdriver.Node:
		c.node(t)
	case neo4jdriver.Relationship:
		c.relationship(t)
	case neo4jdriver.Path:
		for _, n := range t.Nodes {
			c.node(n)
		}
		for _, r := range t.Relationships {
			c.relationship(r)
		}
	case []any:
		for _, item := range t {
			c.walk(item)
		}
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(t)) {
			c.walk(t[k])
		}
	}
}

func (c *collector) node(n neo4jdriver.Node) {
	if c.nodes[n.ElementId] {
		return
	}
	c.nodes[n.ElementId] = true
	c.doc.Nodes = append(c.doc.Nodes, document.Node{
		ID:         document.ID(n.ElementId),
		Labels:     n.Labels,
		Properties: properties(n.Props),
	})
}

func (c *collector) relationship(r neo4jdriver.Relationship) {
	if c.rels[r.ElementId] {
		return
	}
	c.rels[r.ElementId] = true
	c.doc.Relationships = append(c.doc.Relationships, document.Relationship{
		ID:         document.ID(r.ElementId),
		Type:       r.Type,
		StartNode:  document.ID(r.StartElementId),
		EndNode:    document.ID(r.EndElementId),
		Properties: properties(r.Props),
	})
}

// properties converts driver property values. Temporal and spatial values
// have no scalar form and are kept as their string rendering.
func properties(in map[string]any) graph.Properties {
	out := make(graph.Properties, len(in))
	for k, x := range in {
		v, ok := graph.FromAny(x)
		if !ok {
			v = graph.String(fmt.Sprint(x))
		}
		out[k] = v
	}
	return out
}
