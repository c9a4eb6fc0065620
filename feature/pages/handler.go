package pages

import (
	"errors"

	"condi-loader/core/condiloader"
	"condi-loader/core/logger"
	"condi-loader/feature/manifests"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for page processing.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the page routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/pages/process", h.HandleProcess)
}

// HandleProcess runs the loader over a page.
// @Summary Process Page
// @Description Evaluates the conditions of every item against the page, loads the stylesheets and scripts of satisfied items and returns the rewritten page with per-item results.
// @Tags pages
// @Accept json
// @Produce json
// @Param request body pages.Request true "Page and items"
// @Success 200 {object} pages.Response "Processed page"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Manifest not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /pages/process [post]
func (h *Handler) HandleProcess(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}
	if req.HTML == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "html is required"})
	}

	resp, err := h.service.Process(c.Context(), req)
	if err != nil {
		var condErr *condiloader.InvalidConditionError
		switch {
		case errors.As(err, &condErr), errors.Is(err, manifests.ErrInvalidName), errors.Is(err, ErrNoManifests):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, manifests.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Page processing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(resp)
}
