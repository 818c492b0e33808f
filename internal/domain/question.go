package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Common errors
var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrUnknownCategory  = errors.New("unknown question category")
)

// Category identifies one question topic. Codes are stable because they are
// persisted with every question document.
type Category int

const (
	CategoryAnimals Category = iota
	CategoryCities
	CategoryFlags
	CategoryLogos
	CategoryMonuments
	CategoryGeography
)

// DefaultCategory is seeded at startup and served when a caller does not
// name a category.
const DefaultCategory = CategoryAnimals

var categoryNames = map[Category]string{
	CategoryAnimals:   "animals",
	CategoryCities:    "cities",
	CategoryFlags:     "flags",
	CategoryLogos:     "logos",
	CategoryMonuments: "monuments",
	CategoryGeography: "geography",
}

// String returns the route-facing name of the category.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// ParseCategory resolves a route-facing category name, case-insensitively,
// to its code.
func ParseCategory(name string) (Category, error) {
	for code, n := range categoryNames {
		if strings.EqualFold(n, name) {
			return code, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// Question is one pre-generated question document. Questions are created in
// batches from Wikidata query results, sampled at random when a caller asks
// for questions, and deleted once served.
type Question struct {
	ID        string    `json:"id"`
	Category  Category  `json:"category"`
	ImageURL  string    `json:"image_url"`
	WdURI     string    `json:"wdUri"` // Wikidata entity URI the question was built from
	Attrs     AttrList  `json:"attrs"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuestionRepository defines the interface for the question backing store.
// The question service is the only writer.
type QuestionRepository interface {
	// Insert persists a new question document.
	Insert(ctx context.Context, question *Question) error

	// SampleAndReserve picks up to n random unserved questions from a
	// category and atomically marks them served, so two concurrent callers
	// can never be handed the same document.
	SampleAndReserve(ctx context.Context, category Category, n int) ([]Question, error)

	// Delete removes a question document by ID.
	Delete(ctx context.Context, id string) error

	// Count returns the number of unserved questions in a category.
	Count(ctx context.Context, category Category) (int, error)

	// Wipe removes every question document.
	Wipe(ctx context.Context) error
}
