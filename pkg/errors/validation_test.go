package errors

import (
	"strings"
	"testing"
)

func TestValidatePropertyName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "timeGroup", false},
		{"valid with dash", "time-group", false},
		{"valid unicode", "gruppe_ä", false},

		{"empty", "", true},
		{"too long", strings.Repeat("x", 300), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePropertyName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePropertyName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidOption) {
				t.Errorf("ValidatePropertyName(%q) code = %s, want %s", tt.input, GetCode(err), ErrCodeInvalidOption)
			}
		})
	}
}

func TestValidateReadQuery(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"match", "MATCH (n) RETURN n", false},
		{"correlation", "MATCH p = (a)-[r:Correlation]->(b) WHERE abs(r.value) > 0.6 RETURN collect(nodes(p))", false},
		{"property named settings", "MATCH (n) RETURN n.settings", false},

		{"empty", "", true},
		{"blank", "  \n\t", true},
		{"too long", "MATCH (n) RETURN n " + strings.Repeat(" ", MaxQueryLength), true},
		{"null byte", "MATCH (n)\x00 RETURN n", true},
		{"create", "CREATE (n:Cell)", true},
		{"lowercase merge", "match (a) merge (a)-[:R]->(b)", true},
		{"detach delete", "MATCH (n) DETACH DELETE n", true},
		{"set", "MATCH (n) SET n.x = 1", true},
		{"load csv", "LOAD  CSV FROM 'x' AS row RETURN row", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateReadQuery(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateReadQuery(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURI(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"neo4j", "neo4j://localhost:7687", false},
		{"neo4j+s", "neo4j+s://db.example.com", false},
		{"bolt", "bolt://127.0.0.1:7687", false},

		{"empty", "", true},
		{"http", "http://localhost:7474", true},
		{"no scheme", "localhost:7687", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURI(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURI(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
