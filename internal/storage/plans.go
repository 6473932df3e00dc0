package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"vitalplan/internal/domain"
)

// ErrPlanNotFound is returned when an owner has no archived plan.
var ErrPlanNotFound = errors.New("no archived plan")

const archiveStamp = "20060102T150405Z"

// PlanArchive is a file-based store of generated diet plans. Each save
// writes a timestamped version and removes the older ones, so only the
// latest plan per owner is kept.
type PlanArchive struct {
	basePath string
}

// NewPlanArchive creates a PlanArchive and ensures the base directory exists.
func NewPlanArchive(basePath string) (*PlanArchive, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &PlanArchive{basePath: basePath}, nil
}

// sanitize makes an owner key safe for filenames.
func sanitize(owner string) string {
	r := strings.NewReplacer("/", "-", "\\", "-", ":", "-", "_", "-", " ", "-")
	return r.Replace(owner)
}

func (a *PlanArchive) versionedPath(owner string, at time.Time) string {
	filename := fmt.Sprintf("%s_%s.json", sanitize(owner), at.UTC().Format(archiveStamp))
	return filepath.Join(a.basePath, filename)
}

func (a *PlanArchive) versions(owner string) ([]string, error) {
	pattern := filepath.Join(a.basePath, sanitize(owner)+"_*.json")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob plan files: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Save stores plan as the latest version for owner.
func (a *PlanArchive) Save(owner string, plan domain.DietPlan) error {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	stale, err := a.versions(owner)
	if err != nil {
		return err
	}

	path := a.versionedPath(owner, plan.GeneratedAt)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}

	for _, old := range stale {
		if old == path {
			continue
		}
		if err := os.Remove(old); err != nil {
			return fmt.Errorf("failed to remove stale file %s: %w", old, err)
		}
	}
	return nil
}

// Latest loads the most recent plan for owner.
func (a *PlanArchive) Latest(owner string) (domain.DietPlan, error) {
	matches, err := a.versions(owner)
	if err != nil {
		return domain.DietPlan{}, err
	}
	if len(matches) == 0 {
		return domain.DietPlan{}, fmt.Errorf("%w for %q", ErrPlanNotFound, owner)
	}

	data, err := os.ReadFile(matches[len(matches)-1])
	if err != nil {
		return domain.DietPlan{}, fmt.Errorf("failed to read plan file: %w", err)
	}
	var plan domain.DietPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return domain.DietPlan{}, fmt.Errorf("failed to unmarshal plan: %w", err)
	}
	return plan, nil
}

// Exists reports whether owner has an archived plan.
func (a *PlanArchive) Exists(owner string) bool {
	matches, err := a.versions(owner)
	return err == nil && len(matches) > 0
}
