package wikidata

import (
	"regexp"
	"strconv"
	"strings"
)

// Value is one field of a SPARQL result row.
type Value struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Lang  string `json:"xml:lang,omitempty"`
}

// Binding is one raw result row, keyed by the alias names the query assigned.
type Binding map[string]Value

// Has reports whether the row carries a non-empty value for an alias.
func (b Binding) Has(alias string) bool {
	v, ok := b[alias]
	return ok && v.Value != ""
}

// Get returns the value for an alias, or the empty string if absent.
func (b Binding) Get(alias string) string {
	return b[alias].Value
}

// GetOr returns the value for an alias, or fallback if the field is missing
// or empty. Recipes use it to tolerate absent optional fields.
func (b Binding) GetOr(alias, fallback string) string {
	if b.Has(alias) {
		return b.Get(alias)
	}
	return fallback
}

var entityIDPattern = regexp.MustCompile(`Q(\d+)$`)

// ParseEntityID extracts the numeric part of the Q-identifier from an entity
// URI. Returns 0 when the URI has no parseable identifier.
func ParseEntityID(uri string) int64 {
	m := entityIDPattern.FindStringSubmatch(uri)
	if m == nil {
		return 0
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// ExternalID extracts the numeric Q-identifier from the item URI in this row.
func (b Binding) ExternalID() int64 {
	return ParseEntityID(b.Get("item"))
}

// LooksLikeEntityID reports whether a label is a raw Q-identifier rather
// than a human-readable name.
func LooksLikeEntityID(label string) bool {
	if !strings.HasPrefix(label, "Q") {
		return false
	}
	rest := label[1:]
	if rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
