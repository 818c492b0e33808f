package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Arquisoft/wichat-es1a-sub000/internal/images"
)

// ImageHandler exposes the image-processing test surface: listing the
// available strategies, reading and changing the default, and processing a
// single URL on demand.
type ImageHandler struct {
	images   *images.Service
	validate *validator.Validate
}

// NewImageHandler creates a new image handler.
func NewImageHandler(images *images.Service) *ImageHandler {
	return &ImageHandler{
		images:   images,
		validate: validator.New(),
	}
}

// Register registers the image routes.
func (h *ImageHandler) Register(e *echo.Echo) {
	g := e.Group("/images")
	g.GET("/strategies", h.ListStrategies)
	g.GET("/strategy", h.GetDefaultStrategy)
	g.POST("/strategy", h.SetDefaultStrategy)
	g.POST("/process", h.ProcessImage)
}

// ListStrategies lists the selectable transforms, excluding the random
// meta-strategy.
func (h *ImageHandler) ListStrategies(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]images.Strategy{
		"strategies": images.Strategies(),
	})
}

// GetDefaultStrategy returns the strategy applied when none is named.
func (h *ImageHandler) GetDefaultStrategy(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]images.Strategy{
		"strategy": h.images.DefaultStrategy(),
	})
}

// SetStrategyRequest names the new default strategy.
type SetStrategyRequest struct {
	Strategy string `json:"strategy" validate:"required"`
}

// SetDefaultStrategy changes the default strategy.
func (h *ImageHandler) SetDefaultStrategy(c echo.Context) error {
	var req SetStrategyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	if err := h.images.SetDefaultStrategy(images.Strategy(req.Strategy)); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]images.Strategy{
		"strategy": h.images.DefaultStrategy(),
	})
}

// ProcessImageRequest asks for one URL to be obfuscated with a given or the
// default strategy.
type ProcessImageRequest struct {
	URL      string `json:"url" validate:"required,url"`
	Strategy string `json:"strategy" validate:"omitempty"`
}

// ProcessImage processes one image and returns both representations.
func (h *ImageHandler) ProcessImage(c echo.Context) error {
	var req ProcessImageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	strategy := images.Strategy(req.Strategy)
	if req.Strategy != "" {
		parsed, err := images.ParseStrategy(req.Strategy)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": err.Error(),
			})
		}
		strategy = parsed
	}

	processed := h.images.ProcessLogoImage(c.Request().Context(), req.URL, strategy)

	return c.JSON(http.StatusOK, map[string]string{
		"original":  req.URL,
		"processed": processed,
	})
}
