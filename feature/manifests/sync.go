package manifests

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"condi-loader/core/condiloader"

	"go.uber.org/zap"
)

// ActionType is the kind of change a sync plan makes to the bucket.
type ActionType string

const (
	// ActionUpload stores a manifest that only exists locally.
	ActionUpload ActionType = "upload"
	// ActionUpdate replaces a stored manifest whose content differs.
	ActionUpdate ActionType = "update"
	// ActionDelete removes a stored manifest with no local file.
	ActionDelete ActionType = "delete"
)

// Action is one planned change.
type Action struct {
	Type   ActionType `json:"type"`
	Name   string     `json:"name"`
	Reason string     `json:"reason"`

	data []byte
}

// SyncSummary counts the outcome of a comparison.
type SyncSummary struct {
	Local     int `json:"local"`
	Stored    int `json:"stored"`
	Unchanged int `json:"unchanged"`
	Uploads   int `json:"uploads"`
	Updates   int `json:"updates"`
	Deletes   int `json:"deletes"`
}

// SyncPlan is the set of changes that makes the bucket match a directory.
type SyncPlan struct {
	Actions []Action    `json:"actions"`
	Summary SyncSummary `json:"summary"`
}

// SyncOptions controls planning and execution.
type SyncOptions struct {
	// Prune plans deletion of stored manifests missing locally.
	Prune bool
	// DryRun prevents ApplySyncPlan from changing anything.
	DryRun bool
	// Confirmed must be set for ApplySyncPlan to execute.
	Confirmed bool
}

var localExtensions = map[string]bool{".yaml": true, ".yml": true, ".json": true}

// ReadDir loads the manifests of dir, keyed by file name without extension.
// Subdirectories and other files are ignored.
func ReadDir(dir string) (map[string][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	files := make(map[string][]byte)
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || !localExtensions[ext] {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if !ValidName(name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidName, e.Name())
		}
		if _, dup := files[name]; dup {
			return nil, fmt.Errorf("duplicate manifest %q in %s", name, dir)
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		files[name] = data
	}
	return files, nil
}

func canonical(data []byte) ([]byte, error) {
	m, err := condiloader.ParseManifest(data)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PlanSync compares local manifests with the stored ones. Content is
// compared after normalization, so formatting alone never causes an update.
// A local manifest that does not parse fails the plan.
func (s *Store) PlanSync(ctx context.Context, local map[string][]byte, opts SyncOptions) (*SyncPlan, error) {
	stored, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	plan := &SyncPlan{Actions: []Action{}}
	plan.Summary.Local = len(local)
	plan.Summary.Stored = len(stored)

	names := make([]string, 0, len(local))
	for name := range local {
		names = append(names, name)
	}
	sort.Strings(names)

	remote := make(map[string]bool, len(stored))
	for _, name := range stored {
		remote[name] = true
	}

	for _, name := range names {
		want, err := canonical(local[name])
		if err != nil {
			return nil, fmt.Errorf("manifest %s: %w", name, err)
		}

		if !remote[name] {
			plan.Actions = append(plan.Actions, Action{Type: ActionUpload, Name: name, Reason: "not stored", data: local[name]})
			plan.Summary.Uploads++
			continue
		}

		raw, err := s.readRaw(ctx, name)
		if err != nil {
			return nil, err
		}
		reason := ""
		if have, err := canonical(raw); err != nil {
			reason = "stored copy is invalid"
		} else if !bytes.Equal(have, want) {
			reason = "content differs"
		}

		if reason == "" {
			plan.Summary.Unchanged++
			continue
		}
		plan.Actions = append(plan.Actions, Action{Type: ActionUpdate, Name: name, Reason: reason, data: local[name]})
		plan.Summary.Updates++
	}

	if opts.Prune {
		for _, name := range stored {
			if _, ok := local[name]; !ok {
				plan.Actions = append(plan.Actions, Action{Type: ActionDelete, Name: name, Reason: "no local file"})
				plan.Summary.Deletes++
			}
		}
	}

	return plan, nil
}

// ApplySyncPlan executes plan. Nothing happens unless opts.Confirmed is set
// and opts.DryRun is not. Every action is attempted; the returned error joins
// the failures.
func (s *Store) ApplySyncPlan(ctx context.Context, plan *SyncPlan, opts SyncOptions) (int, error) {
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}

	executed := 0
	var errs []error
	for _, a := range plan.Actions {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		var err error
		switch a.Type {
		case ActionUpload, ActionUpdate:
			_, err = s.Put(ctx, a.Name, a.data)
		case ActionDelete:
			err = s.Delete(ctx, a.Name)
		default:
			err = fmt.Errorf("unknown action %q", a.Type)
		}
		if err != nil {
			s.logger.Error("Sync action failed", zap.String("action", string(a.Type)), zap.String("manifest", a.Name), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		executed++
	}

	s.logger.Info("Manifest sync applied", zap.Int("executed", executed), zap.Int("failed", len(errs)))
	return executed, errors.Join(errs...)
}
