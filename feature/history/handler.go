package history

import (
	"errors"

	"condi-loader/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for load history.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// RegisterRoutes registers the history routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/history", h.HandleList)
}

// HandleList lists recent item outcomes.
// @Summary List Load History
// @Description Returns recorded per-item outcomes of processed pages, newest first.
// @Tags history
// @Produce json
// @Param limit query int false "Maximum entries (default 50, max 500)"
// @Param run query string false "Run ID"
// @Param item query string false "Item name"
// @Param outcome query string false "Outcome (ready, skipped, failed)"
// @Success 200 {array} history.Entry "Entries"
// @Failure 503 {object} map[string]string "History disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /history [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	entries, err := h.repo.List(c.Context(), Filter{
		RunID:   c.Query("run"),
		Item:    c.Query("item"),
		Outcome: c.Query("outcome"),
		Limit:   c.QueryInt("limit", DefaultLimit),
	})
	if err != nil {
		if errors.Is(err, ErrDisabled) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		logger.WithRayID(h.logger, c).Error("History listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(entries)
}
