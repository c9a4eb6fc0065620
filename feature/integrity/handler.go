package integrity

import (
	"errors"

	"condi-loader/core/logger"
	"condi-loader/feature/manifests"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the integrity routes.
type Handler struct {
	service *Service
}

// NewHandler creates a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts /integrity.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/structure", h.HandleStructureCheck)
	group.Get("/history", h.HandleHistoryCheck)
	group.Get("/manifests/:name", h.HandleManifestCheck)
}

// HandleIntegrityCheck runs every check.
// @Summary Run All Integrity Checks
// @Description Performs every check: bucket structure, history schema and the assets of every stored manifest.
// @Tags integrity
// @Produce json
// @Success 200 {object} Report "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	report := h.service.Run(c.Context())
	if !report.Healthy() {
		logger.WithRayID(h.service.logger, c).Warn("Integrity problems found")
	}
	return c.JSON(report)
}

// HandleStructureCheck checks the bucket folders, fixing them with ?fix=true.
// @Summary Check Structure
// @Description Checks that the manifest prefix and every bucket-served base path exist. Optionally creates missing folders.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Fix missing folders"
// @Success 200 {object} StructureReport "Structure Report"
// @Failure 500 {object} StructureReport "Check or fix failed"
// @Router /integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	report, err := h.service.Structure(c.Context(), c.QueryBool("fix"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(report)
	}
	return c.JSON(report)
}

// HandleHistoryCheck checks the history schema.
// @Summary Check History Schema
// @Description Checks that the history table carries every column of the history model.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.HistoryReport "History Report"
// @Router /integrity/history [get]
func (h *Handler) HandleHistoryCheck(c *fiber.Ctx) error {
	return c.JSON(h.service.CheckHistory())
}

// HandleManifestCheck checks the assets of one manifest.
// @Summary Check Manifest Assets
// @Description Verifies that every stylesheet and script a manifest loads from the bucket exists.
// @Tags integrity
// @Produce json
// @Param name path string true "Manifest name"
// @Success 200 {object} checks.AssetReport "Asset Report"
// @Failure 404 {object} map[string]string "Manifest not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/manifests/{name} [get]
func (h *Handler) HandleManifestCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	name := c.Params("name")

	report, err := h.service.CheckManifest(c.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, manifests.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, manifests.ErrInvalidName):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Manifest check failed", zap.String("manifest", name), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(report)
}
