package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arquisoft/wichat-es1a-sub000/internal/domain"
)

// stubProvider returns a canned batch of questions, or an error.
type stubProvider struct {
	err error

	gotN        int
	gotCategory domain.Category
}

func (s *stubProvider) RandomQuestions(_ context.Context, n int, category domain.Category) ([]domain.ComposedQuestion, error) {
	s.gotN = n
	s.gotCategory = category
	if s.err != nil {
		return nil, s.err
	}

	out := make([]domain.ComposedQuestion, n)
	for i := range out {
		out[i] = domain.ComposedQuestion{
			ImageURL:    "http://example.org/flag.svg",
			Response:    "España",
			Distractors: []string{"Francia", "Italia", "Portugal"},
		}
	}
	return out, nil
}

func serveQuestions(t *testing.T, provider QuestionProvider, path string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	NewQuestionHandler(provider).Register(e)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestQuestionHandler(t *testing.T) {
	t.Run("GET /questions/random serves one default-category question", func(t *testing.T) {
		provider := &stubProvider{}
		rec := serveQuestions(t, provider, "/questions/random")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, provider.gotN)
		assert.Equal(t, domain.DefaultCategory, provider.gotCategory)

		var body []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Len(t, body[0]["options"], 4)
		assert.Contains(t, body[0]["options"], body[0]["response"])
	})

	t.Run("GET /questions/random/:n serves n questions", func(t *testing.T) {
		provider := &stubProvider{}
		rec := serveQuestions(t, provider, "/questions/random/3")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 3, provider.gotN)

		var body []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body, 3)
	})

	t.Run("GET /questions/random/:category/:n parses the category", func(t *testing.T) {
		provider := &stubProvider{}
		rec := serveQuestions(t, provider, "/questions/random/Flags/2")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 2, provider.gotN)
		assert.Equal(t, domain.CategoryFlags, provider.gotCategory)
	})

	t.Run("Unknown category is the caller's fault", func(t *testing.T) {
		rec := serveQuestions(t, &stubProvider{}, "/questions/random/Planets/2")

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body["error"], "Planets")
	})

	t.Run("Non-numeric and non-positive counts are rejected", func(t *testing.T) {
		for _, path := range []string{"/questions/random/abc", "/questions/random/0", "/questions/random/Flags/-1"} {
			rec := serveQuestions(t, &stubProvider{}, path)
			assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		}
	})

	t.Run("Provider failure maps to bad gateway", func(t *testing.T) {
		provider := &stubProvider{err: errors.New("sparql timeout")}
		rec := serveQuestions(t, provider, "/questions/random")

		require.Equal(t, http.StatusBadGateway, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body["error"], "question source unavailable")
	})

	t.Run("Category taxonomy error from the provider also maps to bad request", func(t *testing.T) {
		provider := &stubProvider{err: domain.ErrUnknownCategory}
		rec := serveQuestions(t, provider, "/questions/random")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
