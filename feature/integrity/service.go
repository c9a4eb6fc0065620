package integrity

import (
	"context"
	"fmt"
	"strings"

	"condi-loader/core/condiloader"
	"condi-loader/core/fetch"
	"condi-loader/core/storage"
	"condi-loader/feature/history"
	"condi-loader/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ManifestStore lists and reads stored manifests.
type ManifestStore interface {
	List(ctx context.Context) ([]string, error)
	Get(ctx context.Context, name string) (*condiloader.Manifest, error)
}

// Service handles integrity checks.
type Service struct {
	client    storage.Client
	bucket    string
	folders   []string
	manifests ManifestStore
	db        *gorm.DB
	cfg       condiloader.Config
	workers   int
	logger    *zap.Logger
}

// NewService creates a new integrity service. folders are the bucket
// prefixes that must exist; db may be nil.
func NewService(client storage.Client, bucket string, folders []string, manifests ManifestStore, db *gorm.DB, cfg condiloader.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:    client,
		bucket:    bucket,
		folders:   folders,
		manifests: manifests,
		db:        db,
		cfg:       cfg,
		workers:   cfg.MaxConcurrentFetches,
		logger:    logger,
	}
}

// RequiredFolders derives the bucket prefixes the service depends on: the
// manifest prefix and every base path served from the bucket.
func RequiredFolders(storageCfg storage.Config, loaderCfg condiloader.Config) []string {
	var folders []string
	seen := make(map[string]bool)
	add := func(p string) {
		var key string
		if b, k, ok := storage.ParseObjectURL(p); ok {
			if b != storageCfg.Bucket {
				return
			}
			key = k
		} else if fetch.IsAbsURL(p) {
			return
		} else {
			key = storage.ObjectKey(p)
		}
		key = strings.Trim(key, "/")
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		folders = append(folders, key)
	}

	add(storageCfg.ManifestPrefix)
	add(loaderCfg.StyleBasePath)
	add(loaderCfg.ScriptBasePath)
	return folders
}

// CheckStructure returns the required folders missing from the bucket.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	return checks.CheckStructure(ctx, s.client, s.bucket, s.folders)
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// StructureReport is the outcome of a structure check.
type StructureReport struct {
	Folders []string `json:"folders"`
	Missing []string `json:"missing"`
	Fixed   []string `json:"fixed,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Healthy reports whether every folder exists now.
func (r *StructureReport) Healthy() bool {
	return r.Error == "" && len(r.Missing) == len(r.Fixed)
}

// Structure checks the required folders and, with fix, creates the missing
// ones. The returned error is also recorded in the report.
func (s *Service) Structure(ctx context.Context, fix bool) (*StructureReport, error) {
	report := &StructureReport{Folders: s.folders, Missing: []string{}}

	missing, err := s.CheckStructure(ctx)
	if err != nil {
		s.logger.Error("Structure check failed", zap.Error(err))
		report.Error = err.Error()
		return report, err
	}
	report.Missing = missing
	if len(missing) == 0 {
		return report, nil
	}

	s.logger.Warn("Missing folders detected", zap.Strings("missing", missing))
	if !fix {
		return report, nil
	}
	if err := s.FixStructure(ctx, missing); err != nil {
		report.Error = fmt.Sprintf("failed to fix structure: %v", err)
		return report, err
	}
	report.Fixed = missing
	return report, nil
}

// Report combines every check.
type Report struct {
	Structure      *StructureReport      `json:"structure"`
	History        *checks.HistoryReport `json:"history"`
	Manifests      []*checks.AssetReport `json:"manifests"`
	ManifestsError string                `json:"manifests_error,omitempty"`
}

// Healthy reports whether every check passed. A disabled history database
// does not count as a failure.
func (r *Report) Healthy() bool {
	if !r.Structure.Healthy() || r.ManifestsError != "" {
		return false
	}
	if r.History.Enabled && !r.History.Matched {
		return false
	}
	for _, m := range r.Manifests {
		if !m.Healthy() {
			return false
		}
	}
	return true
}

// Run performs every check without fixing anything. Failing checks are
// reported, never returned.
func (s *Service) Run(ctx context.Context) *Report {
	report := &Report{Manifests: []*checks.AssetReport{}}
	report.Structure, _ = s.Structure(ctx, false)
	report.History = s.CheckHistory()

	manifests, err := s.CheckAllManifests(ctx)
	if err != nil {
		report.ManifestsError = err.Error()
	} else {
		report.Manifests = manifests
	}
	return report
}

// CheckManifest checks every storage-served asset of one manifest.
func (s *Service) CheckManifest(ctx context.Context, name string) (*checks.AssetReport, error) {
	if s.manifests == nil {
		return nil, fmt.Errorf("manifest storage is not configured")
	}
	m, err := s.manifests.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	report := checks.CheckManifest(ctx, s.client, s.bucket, name, m, s.cfg, s.workers)
	if !report.Healthy() {
		s.logger.Warn("Manifest assets unavailable",
			zap.String("manifest", name),
			zap.Int("missing", report.Missing),
			zap.Int("errors", report.Errors))
	}
	return report, nil
}

// CheckAllManifests checks every stored manifest.
func (s *Service) CheckAllManifests(ctx context.Context) ([]*checks.AssetReport, error) {
	if s.manifests == nil {
		return nil, fmt.Errorf("manifest storage is not configured")
	}
	names, err := s.manifests.List(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]*checks.AssetReport, 0, len(names))
	for _, name := range names {
		report, err := s.CheckManifest(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("manifest %s: %w", name, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// CheckHistory compares the history table with its model.
func (s *Service) CheckHistory() *checks.HistoryReport {
	return checks.CheckHistorySchema(s.db, history.Entry{}.TableName(), history.Columns)
}
