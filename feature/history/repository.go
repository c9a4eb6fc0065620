package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"condi-loader/core/condiloader"
	"condi-loader/core/database"

	"gorm.io/gorm"
)

// DefaultLimit is the page size of List when none is given.
const DefaultLimit = 50

// MaxLimit caps the page size of List.
const MaxLimit = 500

// ErrDisabled means no history database is configured.
var ErrDisabled = errors.New("history is disabled")

// Repository reads and writes load history.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a Repository. A nil db yields a disabled repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Enabled reports whether a database is attached.
func (r *Repository) Enabled() bool {
	return r != nil && r.db != nil
}

// Migrate creates or updates the history table and reports columns the
// live table still lacks.
func (r *Repository) Migrate() error {
	if !r.Enabled() {
		return ErrDisabled
	}
	if err := r.db.AutoMigrate(&Entry{}); err != nil {
		return fmt.Errorf("failed to migrate history: %w", err)
	}
	missing, err := database.MissingColumns(r.db, Entry{}.TableName(), Columns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("history table is missing columns %v", missing)
	}
	return nil
}

// Record stores one row per result of a run.
func (r *Repository) Record(ctx context.Context, runID, source string, results []condiloader.Result) error {
	if !r.Enabled() {
		return ErrDisabled
	}
	if len(results) == 0 {
		return nil
	}

	now := time.Now()
	entries := make([]Entry, len(results))
	for i, res := range results {
		entries[i] = Entry{
			RunID:      runID,
			Source:     source,
			ItemIndex:  res.Index,
			Item:       res.Name,
			Outcome:    string(res.Outcome),
			Error:      res.Error,
			DurationMs: res.Duration.Milliseconds(),
			CreatedAt:  now,
		}
		if entries[i].Outcome == "" {
			entries[i].Outcome = res.State.String()
		}
	}

	if err := r.db.WithContext(ctx).Create(&entries).Error; err != nil {
		return fmt.Errorf("failed to record history: %w", err)
	}
	return nil
}

// Filter narrows List.
type Filter struct {
	RunID   string
	Item    string
	Outcome string
	Limit   int
}

// List returns the most recent entries first.
func (r *Repository) List(ctx context.Context, f Filter) ([]Entry, error) {
	if !r.Enabled() {
		return nil, ErrDisabled
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	q := r.db.WithContext(ctx).Model(&Entry{})
	if f.RunID != "" {
		q = q.Where("run_id = ?", f.RunID)
	}
	if f.Item != "" {
		q = q.Where("item = ?", f.Item)
	}
	if f.Outcome != "" {
		q = q.Where("outcome = ?", f.Outcome)
	}

	var entries []Entry
	if err := q.Order("id DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return entries, nil
}
