// Package recipe defines the per-category strategies for question
// generation: each recipe knows how to shape a Wikidata query for its
// category, how to pull attributes out of a raw result row, which rows are
// usable, and which attribute is the correct answer.
package recipe

import (
	"context"

	"github.com/Arquisoft/wichat-es1a-sub000/internal/domain"
	"github.com/Arquisoft/wichat-es1a-sub000/internal/images"
	"github.com/Arquisoft/wichat-es1a-sub000/internal/wikidata"
)

const (
	// imageAlias is the conventional alias every recipe binds its image
	// property to.
	imageAlias = "imagen"

	// labelAlias is bound automatically by the label service clause.
	labelAlias = "itemLabel"

	// missingValue substitutes absent optional fields so extraction never
	// fails on a sparse row.
	missingValue = "Desconocido"
)

// Recipe is the strategy contract for one question category. Recipes are
// pure configuration; they hold no mutable state.
type Recipe interface {
	// Category returns this recipe's category code.
	Category() domain.Category

	// BuildQuery adds the category's type constraints and property
	// associations, including the image association under the imagen
	// alias, to the supplied builder.
	BuildQuery(b *wikidata.QueryBuilder)

	// ImageURL extracts the image URL from one result row.
	ImageURL(ctx context.Context, row wikidata.Binding) string

	// Attributes extracts every attribute this category cares about,
	// substituting a placeholder for absent optional fields.
	Attributes(row wikidata.Binding) domain.AttrList

	// Valid reports whether a row can become a question.
	Valid(row wikidata.Binding) bool

	// Answer projects an entity to its correct answer string.
	Answer(e *domain.Entity) string
}

// Registry is the fixed mapping from category codes to recipes.
type Registry map[domain.Category]Recipe

// NewRegistry builds the registry with every known recipe. The image service
// is handed to the logos recipe, the only one that post-processes images.
func NewRegistry(img *images.Service) Registry {
	recipes := []Recipe{
		AnimalsRecipe{},
		CitiesRecipe{},
		FlagsRecipe{},
		LogosRecipe{images: img},
		MonumentsRecipe{},
		GeographyRecipe{},
	}

	r := make(Registry, len(recipes))
	for _, rec := range recipes {
		r[rec.Category()] = rec
	}
	return r
}

// Resolve returns the recipe for a category code.
func (r Registry) Resolve(c domain.Category) (Recipe, error) {
	rec, ok := r[c]
	if !ok {
		return nil, domain.ErrUnknownCategory
	}
	return rec, nil
}

// defaultValid rejects rows whose label is a raw Q-identifier or whose image
// field is absent.
func defaultValid(row wikidata.Binding) bool {
	if wikidata.LooksLikeEntityID(row.Get(labelAlias)) {
		return false
	}
	return row.Has(imageAlias)
}

// defaultImageURL reads the conventional image alias.
func defaultImageURL(row wikidata.Binding) string {
	return row.Get(imageAlias)
}
