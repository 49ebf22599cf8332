package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/matzehuels/cypherview/pkg/graph"
	"github.com/matzehuels/cypherview/pkg/group"
)

// Document is a graph in the Neo4j "graph" result shape: a node list and a
// relationship list whose endpoints reference node IDs. Engine output adds
// hub elements flagged Dummy and the group list.
type Document struct {
	Nodes         []Node         `json:"nodes"`
	Relationships []Relationship `json:"relationships"`
	Groups        []group.Group  `json:"groups,omitempty"`
}

// Node is a vertex.
type Node struct {
	ID         ID               `json:"id"`
	Labels     []string         `json:"labels,omitempty"`
	Properties graph.Properties `json:"properties"`
	Dummy      bool             `json:"dummy,omitempty"`
	Size       int              `json:"size,omitempty"`
}

// Relationship is a directed edge between two nodes.
type Relationship struct {
	ID         ID               `json:"id,omitempty"`
	Type       string           `json:"type,omitempty"`
	StartNode  ID               `json:"startNode"`
	EndNode    ID               `json:"endNode"`
	Properties graph.Properties `json:"properties"`
	Dummy      bool             `json:"dummy,omitempty"`
	Count      *int             `json:"count,omitempty"`
	Average    *float64         `json:"average,omitempty"`
}

// ID is an element identifier. It decodes from a JSON string or number
// and always encodes as a string.
type ID string

// UnmarshalJSON accepts a JSON string or integer.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %s", data)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("id must be an integer: %s", data)
	}
	*id = ID(n.String())
	return nil
}

// ToGraph builds a graph from the document. Node order and relationship
// order are preserved. Returns graph.ErrDuplicateID for a reused node ID
// or a repeated (startNode, endNode) pair, and graph.ErrInvalidReference
// for a relationship naming an unknown node, each wrapped with the
// offending element.
func (d *Document) ToGraph() (*graph.Graph, error) {
	g := graph.New()
	for _, n := range d.Nodes {
		v := graph.Vertex{ID: string(n.ID), Labels: n.Labels, Props: n.Properties.Clone(), Size: n.Size}
		if n.Dummy {
			v.Kind = graph.KindHub
		}
		if err := g.AddVertex(v); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, r := range d.Relationships {
		e := graph.Edge{
			ID:    string(r.ID),
			From:  string(r.StartNode),
			To:    string(r.EndNode),
			Type:  r.Type,
			Props: r.Properties.Clone(),
		}
		if r.Dummy {
			e.Kind = graph.KindHub
		}
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("relationship %s->%s: %w", r.StartNode, r.EndNode, err)
		}
	}
	return g, nil
}

// FromGraph converts g into a document. Edges without an ID are given
// "<from>-><to>". Hub edges carrying count and average properties have
// them mirrored into the top-level fields.
func FromGraph(g *graph.Graph) *Document {
	d := &Document{
		Nodes:         make([]Node, 0, g.NumVertices()),
		Relationships: make([]Relationship, 0, g.NumEdges()),
	}
	for _, id := range g.Vertices() {
		v, _ := g.Vertex(id)
		d.Nodes = append(d.Nodes, Node{
			ID:         ID(v.ID),
			Labels:     v.Labels,
			Properties: v.Props,
			Dummy:      v.IsHub(),
			Size:       v.Size,
		})
	}
	for _, e := range g.Edges() {
		r := Relationship{
			ID:         ID(e.ID),
			Type:       e.Type,
			StartNode:  ID(e.From),
			EndNode:    ID(e.To),
			Properties: e.Props,
			Dummy:      e.IsHub(),
		}
		if r.ID == "" {
			r.ID = ID(e.From + "->" + e.To)
		}
		if e.IsHub() {
			if c, ok := e.Props.Get("count"); ok {
				if n, ok := c.Num(); ok {
					count := int(n)
					r.Count = &count
				}
			}
			if a, ok := e.Props.Get("average"); ok {
				if n, ok := a.Num(); ok {
					r.Average = &n
				}
			}
		}
		d.Relationships = append(d.Relationships, r)
	}
	return d
}
