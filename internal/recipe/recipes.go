package recipe

import (
	"context"
	"log/slog"

	"github.com/Arquisoft/wichat-es1a-sub000/internal/domain"
	"github.com/Arquisoft/wichat-es1a-sub000/internal/images"
	"github.com/Arquisoft/wichat-es1a-sub000/internal/wikidata"
)

// AnimalsRecipe asks which animal appears in a picture. Items come from
// groups of organisms known by a common name, which keeps labels colloquial
// instead of taxonomic.
type AnimalsRecipe struct{}

func (AnimalsRecipe) Category() domain.Category { return domain.CategoryAnimals }

func (AnimalsRecipe) BuildQuery(b *wikidata.QueryBuilder) {
	b.InstanceOf(55983715).AssocProperty(18, imageAlias)
}

func (AnimalsRecipe) ImageURL(_ context.Context, row wikidata.Binding) string {
	return defaultImageURL(row)
}

func (AnimalsRecipe) Attributes(row wikidata.Binding) domain.AttrList {
	return domain.AttrList{
		{Name: "name", Value: row.GetOr(labelAlias, missingValue)},
	}
}

func (AnimalsRecipe) Valid(row wikidata.Binding) bool { return defaultValid(row) }

func (AnimalsRecipe) Answer(e *domain.Entity) string { return e.Attr("name") }

// CitiesRecipe asks which city appears in a picture.
type CitiesRecipe struct{}

func (CitiesRecipe) Category() domain.Category { return domain.CategoryCities }

func (CitiesRecipe) BuildQuery(b *wikidata.QueryBuilder) {
	b.InstanceOf(515).
		AssocProperty(18, imageAlias).
		AssocProperty(1082, "poblacion", wikidata.Optional())
}

func (CitiesRecipe) ImageURL(_ context.Context, row wikidata.Binding) string {
	return defaultImageURL(row)
}

func (CitiesRecipe) Attributes(row wikidata.Binding) domain.AttrList {
	return domain.AttrList{
		{Name: "name", Value: row.GetOr(labelAlias, missingValue)},
		{Name: "population", Value: row.GetOr("poblacion", missingValue)},
	}
}

func (CitiesRecipe) Valid(row wikidata.Binding) bool { return defaultValid(row) }

func (CitiesRecipe) Answer(e *domain.Entity) string { return e.Attr("name") }

// FlagsRecipe asks which country a flag belongs to. The image association is
// the flag property rather than the generic image one.
type FlagsRecipe struct{}

func (FlagsRecipe) Category() domain.Category { return domain.CategoryFlags }

func (FlagsRecipe) BuildQuery(b *wikidata.QueryBuilder) {
	b.InstanceOf(6256).AssocProperty(41, imageAlias)
}

func (FlagsRecipe) ImageURL(_ context.Context, row wikidata.Binding) string {
	return defaultImageURL(row)
}

func (FlagsRecipe) Attributes(row wikidata.Binding) domain.AttrList {
	return domain.AttrList{
		{Name: "country", Value: row.GetOr(labelAlias, missingValue)},
	}
}

func (FlagsRecipe) Valid(row wikidata.Binding) bool { return defaultValid(row) }

func (FlagsRecipe) Answer(e *domain.Entity) string { return e.Attr("country") }

// LogosRecipe asks which company a logo belongs to. The raw logo would give
// the answer away, so the image service obfuscates it; on any processing
// failure the untransformed URL is kept rather than dropping the question.
type LogosRecipe struct {
	images *images.Service
}

func (LogosRecipe) Category() domain.Category { return domain.CategoryLogos }

func (LogosRecipe) BuildQuery(b *wikidata.QueryBuilder) {
	b.InstanceOf(4830453).AssocProperty(154, imageAlias)
}

func (r LogosRecipe) ImageURL(ctx context.Context, row wikidata.Binding) string {
	raw := defaultImageURL(row)
	if r.images == nil {
		slog.Warn("logos recipe has no image service, using raw logo url")
		return raw
	}
	return r.images.ProcessLogoImage(ctx, raw, "")
}

func (LogosRecipe) Attributes(row wikidata.Binding) domain.AttrList {
	return domain.AttrList{
		{Name: "name", Value: row.GetOr(labelAlias, missingValue)},
	}
}

func (LogosRecipe) Valid(row wikidata.Binding) bool { return defaultValid(row) }

func (LogosRecipe) Answer(e *domain.Entity) string { return e.Attr("name") }

// MonumentsRecipe asks which monument appears in a picture.
type MonumentsRecipe struct{}

func (MonumentsRecipe) Category() domain.Category { return domain.CategoryMonuments }

func (MonumentsRecipe) BuildQuery(b *wikidata.QueryBuilder) {
	b.InstanceOf(4989906).
		AssocProperty(18, imageAlias).
		AssocProperty(571, "inauguracion", wikidata.Optional())
}

func (MonumentsRecipe) ImageURL(_ context.Context, row wikidata.Binding) string {
	return defaultImageURL(row)
}

func (MonumentsRecipe) Attributes(row wikidata.Binding) domain.AttrList {
	return domain.AttrList{
		{Name: "name", Value: row.GetOr(labelAlias, missingValue)},
		{Name: "inception", Value: row.GetOr("inauguracion", missingValue)},
	}
}

func (MonumentsRecipe) Valid(row wikidata.Binding) bool { return defaultValid(row) }

func (MonumentsRecipe) Answer(e *domain.Entity) string { return e.Attr("name") }

// GeographyRecipe asks which river appears in a picture.
type GeographyRecipe struct{}

func (GeographyRecipe) Category() domain.Category { return domain.CategoryGeography }

func (GeographyRecipe) BuildQuery(b *wikidata.QueryBuilder) {
	b.InstanceOf(4022).
		AssocProperty(18, imageAlias).
		AssocProperty(2043, "longitud", wikidata.Optional())
}

func (GeographyRecipe) ImageURL(_ context.Context, row wikidata.Binding) string {
	return defaultImageURL(row)
}

func (GeographyRecipe) Attributes(row wikidata.Binding) domain.AttrList {
	return domain.AttrList{
		{Name: "name", Value: row.GetOr(labelAlias, missingValue)},
		{Name: "length", Value: row.GetOr("longitud", missingValue)},
	}
}

func (GeographyRecipe) Valid(row wikidata.Binding) bool { return defaultValid(row) }

func (GeographyRecipe) Answer(e *domain.Entity) string { return e.Attr("name") }
