package history

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	repo    *Repository
	handler *Handler
	logger  *zap.Logger
}

// NewFeature creates the history feature. A nil db disables it.
func NewFeature(db *gorm.DB, logger *zap.Logger) *Feature {
	repo := NewRepository(db)
	return &Feature{repo: repo, handler: NewHandler(repo, logger), logger: logger}
}

// Repository exposes the history store to other features.
func (f *Feature) Repository() *Repository {
	return f.repo
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "history"
}

// IsEnabled checks if a history database is attached.
func (f *Feature) IsEnabled() bool {
	return f.repo.Enabled()
}

// Load migrates the history table and registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	if err := f.repo.Migrate(); err != nil {
		return err
	}
	f.handler.RegisterRoutes(app)
	return nil
}
