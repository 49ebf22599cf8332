package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxPropertyNameLength bounds group property names.
const MaxPropertyNameLength = 256

// MaxQueryLength bounds Cypher query text accepted from clients.
const MaxQueryLength = 64 << 10

// ValidatePropertyName validates a property key such as the group property.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 256 bytes
func ValidatePropertyName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidOption, "property name cannot be empty")
	}
	if len(name) > MaxPropertyNameLength {
		return New(ErrCodeInvalidOption, "property name too long (max %d characters)", MaxPropertyNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidOption, "property name contains invalid control characters")
		}
	}
	return nil
}

// writeClauseRegex matches Cypher clauses that modify the database.
var writeClauseRegex = regexp.MustCompile(`(?i)\b(CREATE|MERGE|DELETE|DETACH|SET|REMOVE|DROP|LOAD\s+CSV|FOREACH)\b`)

// ValidateReadQuery validates a Cypher query for read-only execution.
// It rejects empty or oversized text, null bytes, and queries containing
// write clauses. The check is lexical, so a write keyword inside a string
// literal is also rejected.
func ValidateReadQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return New(ErrCodeInvalidQuery, "query cannot be empty")
	}
	if len(query) > MaxQueryLength {
		return New(ErrCodeInvalidQuery, "query too long (max %d bytes)", MaxQueryLength)
	}
	if strings.ContainsRune(query, '\x00') {
		return New(ErrCodeInvalidQuery, "query contains null bytes")
	}
	if m := writeClauseRegex.FindString(query); m != "" {
		return New(ErrCodeInvalidQuery, "query must be read-only (found %s)", strings.ToUpper(m))
	}
	return nil
}

// ValidateURI validates a database URI scheme.
func ValidateURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidInput, "URI cannot be empty")
	}
	for _, scheme := range []string{"neo4j://", "neo4j+s://", "neo4j+ssc://", "bolt://", "bolt+s://", "bolt+ssc://"} {
		if strings.HasPrefix(uri, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URI must use a neo4j or bolt scheme: %q", uri)
}
