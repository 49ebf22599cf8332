package neo4j

import (
	"context"
	"errors"
	"testing"

	neo4jdriver "github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type fakeRunner struct {
	records []*neo4jdriver.Record
	err     error
	query   string
}

func (f *fakeRunner) Run(_ context.Context, query string, _ map[string]any) (*neo4jdriver.EagerResult, error) {
	f.query = query
	if f.err != nil {
		return nil, f.err
	}
	return &neo4jdriver.EagerResult{Records: f.records}, nil
}

func cell(id string, group int64, cells ...any) neo4jdriver.Node {
	return neo4jdriver.Node{
		ElementId: id,
		Labels:    []string{"Cell"},
		Props:     map[string]any{"timeGroup": group, "cells": cells},
	}
}

func correlation(id, from, to string, value float64) neo4jdriver.Relationship {
	return neo4jdriver.Relationship{
		ElementId:      id,
		StartElementId: from,
		EndElementId:   to,
		Type:           "Correlation",
		Props:          map[string]any{"value": value},
	}
}

func TestFromRecords(t *testing.T) {
	n1, n2, n3 := cell("n1", 1, int64(3), int64(4)), cell("n2", 2), cell("n3", 2)
	r1, r2 := correlation("r1", "n1", "n2", 0.8), correlation("r2", "n1", "n3", -0.9)
	records := []*neo4jdriver.Record{{
		Keys: []string{"nodes", "rels"},
		Values: []any{
			[]any{[]any{n1, n2}, []any{n1, n3}},
			[]any{[]any{r1}, []any{r2}},
		},
	}}

	d := FromRecords(records)
	if len(d.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3 (deduplicated)", len(d.Nodes))
	}
	if len(d.Relationships) != 2 {
		t.Fatalf("relationships = %d, want 2", len(d.Relationships))
	}
	if got := d.Nodes[0].Properties.String("cells", ""); got != "3-4" {
		t.Errorf("cells = %q, want %q", got, "3-4")
	}
	if got := d.Nodes[0].Properties.Number("timeGroup", 0); got != 1 {
		t.Errorf("timeGroup = %v, want 1", got)
	}
	if r := d.Relationships[1]; r.StartNode != "n1" || r.EndNode != "n3" || r.Properties.Number("value", 0) != -0.9 {
		t.Errorf("relationship = %+v", r)
	}

	g, err := d.ToGraph()
	if err != nil {
		t.Fatalf("ToGraph() error: %v", err)
	}
	if !g.HasEdge("n1", "n3") {
		t.Error("edge n1 -> n3 missing")
	}
}

func TestFromRecords_Paths(t *testing.T) {
	n1, n2 := cell("n1", 1), cell("n2", 2)
	path := neo4jdriver.Path{
		Nodes:         []neo4jdriver.Node{n1, n2},
		Relationships: []neo4jdriver.Relationship{correlation("r1", "n1", "n2", 0.7)},
	}
	d := FromRecords([]*neo4jdriver.Record{{Values: []any{path, map[string]any{"p": path}}}})
	if len(d.Nodes) != 2 || len(d.Relationships) != 1 {
		t.Errorf("document = %d nodes / %d relationships, want 2 / 1", len(d.Nodes), len(d.Relationships))
	}
}

func TestFromRecords_DropsDanglingRelationships(t *testing.T) {
	d := FromRecords([]*neo4jdriver.Record{{
		Values: []any{cell("n1", 1), correlation("r1", "n1", "gone", 0.7)},
	}})
	if len(d.Relationships) != 0 {
		t.Errorf("relationships = %v, want none", d.Relationships)
	}
}

func TestClient_Fetch(t *testing.T) {
	runner := &fakeRunner{records: []*neo4jdriver.Record{{Values: []any{cell("n1", 1)}}}}
	c := NewWithRunner(runner)

	d, err := c.Fetch(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if runner.query != DefaultQuery {
		t.Errorf("query = %q, want DefaultQuery", runner.query)
	}
	if len(d.Nodes) != 1 {
		t.Errorf("nodes = %d, want 1", len(d.Nodes))
	}
	if err := c.Verify(context.Background()); err != nil {
		t.Errorf("Verify() error: %v", err)
	}
}

func TestClient_FetchError(t *testing.T) {
	boom := errors.New("connection refused")
	c := NewWithRunner(&fakeRunner{err: boom})
	if _, err := c.Fetch(context.Background(), "RETURN 1", nil); !errors.Is(err, boom) {
		t.Errorf("Fetch() error = %v, want %v", err, boom)
	}
}

func TestNew_RequiresURI(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("New() expected error for empty URI")
	}
}
