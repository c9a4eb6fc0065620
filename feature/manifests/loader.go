package manifests

import (
	"condi-loader/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	store   *Store
	handler *Handler
}

// NewFeature creates the manifests feature over the configured bucket.
func NewFeature(client storage.Client, cfg storage.Config, logger *zap.Logger) *Feature {
	store := NewStore(client, cfg.Bucket, cfg.ManifestPrefix, cfg.ManifestCacheTTL(), logger)
	return &Feature{store: store, handler: NewHandler(store, logger)}
}

// Store exposes the manifest store to other features.
func (f *Feature) Store() *Store {
	return f.store
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "manifests"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
