package domain

import (
	"encoding/json"
	"fmt"
)

// Attr is one named attribute extracted from a Wikidata result row.
type Attr struct {
	Name  string
	Value string
}

// AttrList is an ordered sequence of attributes. It serializes as
// [["name","value"],...] rather than an object, so attribute names are not
// constrained to valid identifiers and pair order survives round-trips.
type AttrList []Attr

// MarshalJSON encodes the list as an array of two-element string arrays.
func (l AttrList) MarshalJSON() ([]byte, error) {
	pairs := make([][2]string, len(l))
	for i, a := range l {
		pairs[i] = [2]string{a.Name, a.Value}
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON decodes an array of two-element string arrays.
func (l *AttrList) UnmarshalJSON(data []byte) error {
	var pairs [][2]string
	if err := json.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("failed to decode attribute pairs: %w", err)
	}
	out := make(AttrList, len(pairs))
	for i, p := range pairs {
		out[i] = Attr{Name: p[0], Value: p[1]}
	}
	*l = out
	return nil
}

// Map returns the attributes as a plain key/value object for serialization
// at the HTTP boundary. Later pairs overwrite earlier ones on collision.
func (l AttrList) Map() map[string]string {
	m := make(map[string]string, len(l))
	for _, a := range l {
		m[a.Name] = a.Value
	}
	return m
}

// Entity is the in-memory view of one Wikidata item: an image plus an
// open-ended attribute bag. Entities are never persisted; they are built
// per query-result row or when rehydrating a stored question.
type Entity struct {
	ImageURL   string
	ExternalID int64 // numeric part of the Wikidata Q-identifier, 0 = unassigned
	attrs      map[string]string
}

// NewEntity creates an entity with an empty attribute bag.
func NewEntity(imageURL string, externalID int64) *Entity {
	return &Entity{
		ImageURL:   imageURL,
		ExternalID: externalID,
		attrs:      make(map[string]string),
	}
}

// AddAttr records an attribute value, overwriting on name collision.
func (e *Entity) AddAttr(name, value string) {
	e.attrs[name] = value
}

// Attr returns the value for a name, or the empty string if absent.
func (e *Entity) Attr(name string) string {
	return e.attrs[name]
}

// Attrs returns a copy of the attribute bag.
func (e *Entity) Attrs() map[string]string {
	out := make(map[string]string, len(e.attrs))
	for k, v := range e.attrs {
		out[k] = v
	}
	return out
}

// ComposedQuestion is one ready-to-serve multiple-choice question: a correct
// answer plus distractors drawn from sibling entities. It is transient and
// never persisted.
type ComposedQuestion struct {
	ImageURL    string            `json:"image_url"`
	Response    string            `json:"response"`
	Distractors []string          `json:"distractors"`
	Attrs       map[string]string `json:"attrs"`
}

// Options returns the distractors plus the correct answer as one list.
func (q ComposedQuestion) Options() []string {
	return append(append([]string{}, q.Distractors...), q.Response)
}

// MarshalJSON includes the derived options list alongside the stored fields.
func (q ComposedQuestion) MarshalJSON() ([]byte, error) {
	type alias ComposedQuestion
	return json.Marshal(struct {
		alias
		Options []string `json:"options"`
	}{alias(q), q.Options()})
}
