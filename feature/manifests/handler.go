package manifests

import (
	"errors"

	"condi-loader/core/condiloader"
	"condi-loader/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for manifests.
type Handler struct {
	store  *Store
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(store *Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// RegisterRoutes registers the manifest routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/manifests")
	group.Get("/", h.HandleList)
	group.Get("/:name", h.HandleGet)
	group.Put("/:name", h.HandlePut)
	group.Delete("/:name", h.HandleDelete)
}

// HandleList lists the stored manifests.
// @Summary List Manifests
// @Description Returns the names of every manifest stored in the bucket.
// @Tags manifests
// @Produce json
// @Success 200 {object} map[string][]string "Manifest names"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /manifests [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	names, err := h.store.List(c.Context())
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Manifest listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"manifests": names})
}

// HandleGet returns one manifest.
// @Summary Get Manifest
// @Description Returns the parsed items of a stored manifest.
// @Tags manifests
// @Produce json
// @Param name path string true "Manifest name"
// @Success 200 {object} condiloader.Manifest "Manifest"
// @Failure 400 {object} map[string]string "Invalid name"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /manifests/{name} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	m, err := h.store.Get(c.Context(), c.Params("name"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(m)
}

// HandlePut validates and stores a manifest.
// @Summary Store Manifest
// @Description Validates a YAML or JSON manifest body and stores it under the given name.
// @Tags manifests
// @Accept json
// @Accept application/yaml
// @Produce json
// @Param name path string true "Manifest name"
// @Param manifest body condiloader.Manifest true "Manifest"
// @Success 200 {object} condiloader.Manifest "Stored manifest"
// @Failure 400 {object} map[string]string "Invalid manifest"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /manifests/{name} [put]
func (h *Handler) HandlePut(c *fiber.Ctx) error {
	m, err := h.store.Put(c.Context(), c.Params("name"), c.Body())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(m)
}

// HandleDelete removes a manifest.
// @Summary Delete Manifest
// @Tags manifests
// @Param name path string true "Manifest name"
// @Success 204 "Deleted"
// @Failure 400 {object} map[string]string "Invalid name"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /manifests/{name} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.store.Delete(c.Context(), c.Params("name")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	var condErr *condiloader.InvalidConditionError
	switch {
	case errors.Is(err, ErrInvalidName), errors.As(err, &condErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, condiloader.ErrMalformedManifest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	logger.WithRayID(h.logger, c).Error("Manifest request failed", zap.String("manifest", c.Params("name")), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
