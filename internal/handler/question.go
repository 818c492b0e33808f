package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Arquisoft/wichat-es1a-sub000/internal/domain"
)

// QuestionProvider is the part of the question service this handler needs.
type QuestionProvider interface {
	RandomQuestions(ctx context.Context, n int, category domain.Category) ([]domain.ComposedQuestion, error)
}

// QuestionHandler handles question-related HTTP requests.
type QuestionHandler struct {
	questions QuestionProvider
}

// NewQuestionHandler creates a new question handler.
func NewQuestionHandler(questions QuestionProvider) *QuestionHandler {
	return &QuestionHandler{
		questions: questions,
	}
}

// Register registers the question routes.
func (h *QuestionHandler) Register(e *echo.Echo) {
	g := e.Group("/questions")
	g.GET("/random", h.GetRandom)
	g.GET("/random/:n", h.GetRandomN)
	g.GET("/random/:category/:n", h.GetRandomForCategory)
}

// GetRandom serves one question for the default category.
func (h *QuestionHandler) GetRandom(c echo.Context) error {
	return h.respond(c, 1, domain.DefaultCategory)
}

// GetRandomN serves n questions for the default category.
func (h *QuestionHandler) GetRandomN(c echo.Context) error {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 1 {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "question count must be a positive integer",
		})
	}
	return h.respond(c, n, domain.DefaultCategory)
}

// GetRandomForCategory serves n questions for a named category.
func (h *QuestionHandler) GetRandomForCategory(c echo.Context) error {
	category, err := domain.ParseCategory(c.Param("category"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 1 {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "question count must be a positive integer",
		})
	}

	return h.respond(c, n, category)
}

// respond runs the composition and maps the error taxonomy: a bad category
// is the caller's fault, anything else here means the question source or the
// store failed.
func (h *QuestionHandler) respond(c echo.Context, n int, category domain.Category) error {
	questions, err := h.questions.RandomQuestions(c.Request().Context(), n, category)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCategory) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": err.Error(),
			})
		}
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "question source unavailable: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, questions)
}
