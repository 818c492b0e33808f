package wikidata

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Wikidata property codes used for type membership statements.
const (
	propInstanceOf = 31
	propSubclassOf = 279
)

// typeStatement constrains the item to a class, e.g. "?item wdt:P31 wd:Q146".
type typeStatement struct {
	property int
	entity   int
}

// association projects a property value into a named alias, optionally
// tolerating absence and optionally constrained to one language tag.
type association struct {
	property int
	alias    string
	optional bool
	language string
}

// AssocOption configures one property association.
type AssocOption func(*association)

// Optional marks an association as tolerated-if-absent: rows missing the
// property are still returned.
func Optional() AssocOption {
	return func(a *association) { a.optional = true }
}

// InLanguage restricts an association to values carrying one language tag.
func InLanguage(tag string) AssocOption {
	return func(a *association) { a.language = tag }
}

// QueryBuilder accumulates constraints and serializes them into one SPARQL
// query string. It performs no I/O; Client.Select sends the built query.
type QueryBuilder struct {
	statements []typeStatement
	assocs     []association
	language   string
	random     bool
	randomSalt string
	orderBy    string
	limit      int
}

// NewQueryBuilder creates a builder with Spanish labels, no ordering and no
// row limit.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{language: "es"}
}

// InstanceOf requires the item to be an instance of the given entity.
func (q *QueryBuilder) InstanceOf(entity int) *QueryBuilder {
	q.statements = append(q.statements, typeStatement{property: propInstanceOf, entity: entity})
	return q
}

// SubclassOf requires the item to be a subclass of the given entity.
func (q *QueryBuilder) SubclassOf(entity int) *QueryBuilder {
	q.statements = append(q.statements, typeStatement{property: propSubclassOf, entity: entity})
	return q
}

// AssocProperty projects property values into the alias.
func (q *QueryBuilder) AssocProperty(property int, alias string, opts ...AssocOption) *QueryBuilder {
	a := association{property: property, alias: alias}
	for _, opt := range opts {
		opt(&a)
	}
	q.assocs = append(q.assocs, a)
	return q
}

// Language sets the label-service language tag.
func (q *QueryBuilder) Language(tag string) *QueryBuilder {
	q.language = tag
	return q
}

// Random orders results by a salted hash of the item identifier, so repeated
// identical queries are unlikely to hit a cached ordering at the endpoint.
// The salt is taken from the clock at call time, which makes two consecutive
// Random builds produce different query strings.
func (q *QueryBuilder) Random() *QueryBuilder {
	q.random = true
	q.randomSalt = strconv.FormatInt(time.Now().UnixNano(), 10)
	return q
}

// OrderBy sets an explicit ordering expression. Ignored while Random is set.
func (q *QueryBuilder) OrderBy(expr string) *QueryBuilder {
	q.orderBy = expr
	return q
}

// Limit caps the number of returned rows.
func (q *QueryBuilder) Limit(n int) *QueryBuilder {
	q.limit = n
	return q
}

// Build serializes the accumulated constraints deterministically: type
// statements first, then required associations, then optional ones, then the
// label service clause. Optional clauses come last so they never filter out
// rows that merely lack the property.
func (q *QueryBuilder) Build() string {
	var sb strings.Builder

	sb.WriteString("SELECT DISTINCT ?item ?itemLabel")
	for _, a := range q.assocs {
		sb.WriteString(" ?" + a.alias)
	}
	sb.WriteString(" WHERE {\n")

	for _, s := range q.statements {
		fmt.Fprintf(&sb, "  ?item wdt:P%d wd:Q%d .\n", s.property, s.entity)
	}

	for _, a := range q.assocs {
		if !a.optional {
			sb.WriteString("  " + a.clause() + "\n")
		}
	}
	for _, a := range q.assocs {
		if a.optional {
			fmt.Fprintf(&sb, "  OPTIONAL { %s }\n", a.clause())
		}
	}

	fmt.Fprintf(&sb, "  SERVICE wikibase:label { bd:serviceParam wikibase:language %q. }\n}", q.language)

	switch {
	case q.random:
		fmt.Fprintf(&sb, "\nORDER BY MD5(CONCAT(STR(?item), STR(RAND()), %q))", q.randomSalt)
	case q.orderBy != "":
		fmt.Fprintf(&sb, "\nORDER BY %s", q.orderBy)
	}

	if q.limit > 0 {
		fmt.Fprintf(&sb, "\nLIMIT %d", q.limit)
	}

	return sb.String()
}

func (a association) clause() string {
	c := fmt.Sprintf("?item wdt:P%d ?%s .", a.property, a.alias)
	if a.language != "" {
		c += fmt.Sprintf(" FILTER(LANG(?%s) = %q)", a.alias, a.language)
	}
	return c
}
