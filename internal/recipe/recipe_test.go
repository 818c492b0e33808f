package recipe

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arquisoft/wichat-es1a-sub000/internal/domain"
	"github.com/Arquisoft/wichat-es1a-sub000/internal/images"
	"github.com/Arquisoft/wichat-es1a-sub000/internal/wikidata"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validRow(label string) wikidata.Binding {
	return wikidata.Binding{
		"item":      {Type: "uri", Value: "http://www.wikidata.org/entity/Q146"},
		"itemLabel": {Type: "literal", Value: label},
		"imagen":    {Type: "uri", Value: "http://example.org/pic.jpg"},
	}
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry(nil)

	t.Run("Every category resolves to its own recipe", func(t *testing.T) {
		for _, category := range []domain.Category{
			domain.CategoryAnimals,
			domain.CategoryCities,
			domain.CategoryFlags,
			domain.CategoryLogos,
			domain.CategoryMonuments,
			domain.CategoryGeography,
		} {
			rec, err := registry.Resolve(category)
			require.NoError(t, err)
			assert.Equal(t, category, rec.Category())
		}
	})

	t.Run("Unknown code resolves to an error, not a crash", func(t *testing.T) {
		_, err := registry.Resolve(domain.Category(99))
		assert.ErrorIs(t, err, domain.ErrUnknownCategory)
	})
}

func TestDefaultValidity(t *testing.T) {
	registry := NewRegistry(nil)

	for _, rec := range registry {
		t.Run(rec.Category().String(), func(t *testing.T) {
			assert.True(t, rec.Valid(validRow("Gato")))

			t.Run("Raw entity identifier label rejected", func(t *testing.T) {
				assert.False(t, rec.Valid(validRow("Q12345")))
			})

			t.Run("Missing image rejected", func(t *testing.T) {
				row := validRow("Gato")
				delete(row, "imagen")
				assert.False(t, rec.Valid(row))
			})
		})
	}
}

func TestRecipeQueries(t *testing.T) {
	registry := NewRegistry(nil)

	t.Run("Every recipe binds the image alias", func(t *testing.T) {
		for _, rec := range registry {
			builder := wikidata.NewQueryBuilder()
			rec.BuildQuery(builder)
			assert.Contains(t, builder.Build(), "?imagen", rec.Category().String())
		}
	})

	t.Run("Flags queries the flag image property", func(t *testing.T) {
		builder := wikidata.NewQueryBuilder()
		FlagsRecipe{}.BuildQuery(builder)
		query := builder.Build()
		assert.Contains(t, query, "wdt:P41 ?imagen")
		assert.Contains(t, query, "wdt:P31 wd:Q6256")
	})
}

func TestAttributesAndAnswer(t *testing.T) {
	t.Run("Missing optional fields get the placeholder", func(t *testing.T) {
		attrs := CitiesRecipe{}.Attributes(validRow("Oviedo"))

		require.Len(t, attrs, 2)
		assert.Equal(t, domain.Attr{Name: "name", Value: "Oviedo"}, attrs[0])
		assert.Equal(t, domain.Attr{Name: "population", Value: "Desconocido"}, attrs[1])
	})

	t.Run("Answer projects the declared attribute", func(t *testing.T) {
		e := domain.NewEntity("http://example.org/pic.jpg", 29)
		e.AddAttr("country", "España")
		assert.Equal(t, "España", FlagsRecipe{}.Answer(e))

		e2 := domain.NewEntity("http://example.org/pic.jpg", 146)
		e2.AddAttr("name", "Gato")
		assert.Equal(t, "Gato", AnimalsRecipe{}.Answer(e2))
	})
}

type failingFetcher struct{}

func (failingFetcher) Fetch(context.Context, string) ([]byte, error) {
	return nil, errors.New("unreachable")
}

func TestLogosImageURL(t *testing.T) {
	t.Run("Falls back to the raw URL when processing fails", func(t *testing.T) {
		svc := images.NewService(failingFetcher{}, discardLogger())
		rec := LogosRecipe{images: svc}

		url := rec.ImageURL(context.Background(), validRow("Inditex"))

		assert.Equal(t, "http://example.org/pic.jpg", url)
	})

	t.Run("Falls back to the raw URL without an image service", func(t *testing.T) {
		url := LogosRecipe{}.ImageURL(context.Background(), validRow("Inditex"))
		assert.Equal(t, "http://example.org/pic.jpg", url)
	})
}
