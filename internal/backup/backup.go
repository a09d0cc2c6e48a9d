// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package backup snapshots the journal to a local git repository. Each
// snapshot writes the journal as YAML-fronted markdown files, one per
// month of entries, and commits the result. The git history doubles as a
// point-in-time archive of the user's data.
package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"gopkg.in/yaml.v3"

	"github.com/svan-b/myhealthyagent/internal/database"
)

const (
	commitAuthor = "myhealthyagent"
	commitEmail  = "journal@myhealthyagent.local"
)

// Repository wraps a local git repository holding journal snapshots
type Repository struct {
	Path string
	repo *git.Repository
}

// OpenOrInit opens the snapshot repository, initializing it on first use
func OpenOrInit(path string) (*Repository, error) {
	repo, err := git.PlainOpen(path)
	if err == nil {
		return &Repository{Path: path, repo: repo}, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("failed to open backup repository: %w", err)
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	repo, err = git.PlainInit(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize backup repository: %w", err)
	}
	return &Repository{Path: path, repo: repo}, nil
}

// Result summarizes one snapshot run
type Result struct {
	Files     []string `json:"files"`
	Committed bool     `json:"committed"`
	Commit    string   `json:"commit,omitempty"`
}

// Snapshot writes the current journal contents into the repository and
// commits them if anything changed. A snapshot with no changes commits
// nothing and is not an error.
func (r *Repository) Snapshot(ctx context.Context, store *database.Store, now time.Time) (*Result, error) {
	if now.IsZero() {
		now = time.Now()
	}

	symptoms, err := store.ListSymptoms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list symptoms: %w", err)
	}
	medLogs, err := store.ListMedicationLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list medication logs: %w", err)
	}
	schedules, err := store.ListSchedules(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	var files []string

	written, err := r.writeMonthlyEntries(symptoms, medLogs)
	if err != nil {
		return nil, err
	}
	files = append(files, written...)

	schedFile, err := r.writeSchedules(ctx, store, schedules)
	if err != nil {
		return nil, err
	}
	files = append(files, schedFile)

	commit, err := r.commitSnapshot(files, now)
	if err != nil {
		return nil, err
	}

	return &Result{
		Files:     files,
		Committed: commit != "",
		Commit:    commit,
	}, nil
}

// monthlyEntry is one journal line in a snapshot file's front matter
type monthlyEntry struct {
	ID        string   `yaml:"id"`
	Kind      string   `yaml:"kind"` // "symptom" or "medication"
	Name      string   `yaml:"name"`
	Severity  int      `yaml:"severity,omitempty"`
	Dose      string   `yaml:"dose,omitempty"`
	Timestamp string   `yaml:"timestamp"`
	Tags      []string `yaml:"tags,omitempty"`
	Notes     string   `yaml:"notes,omitempty"`
}

// writeMonthlyEntries groups entries by yyyy-MM and writes one markdown
// file per month under entries/
func (r *Repository) writeMonthlyEntries(symptoms []database.SymptomEntry, medLogs []database.MedicationLog) ([]string, error) {
	byMonth := make(map[string][]monthlyEntry)
	for _, s := range symptoms {
		key := s.Timestamp.Format("2006-01")
		byMonth[key] = append(byMonth[key], monthlyEntry{
			ID:        s.ID,
			Kind:      "symptom",
			Name:      s.Name,
			Severity:  s.Severity,
			Timestamp: s.Timestamp.Format(time.RFC3339),
			Tags:      s.Tags,
			Notes:     s.Notes,
		})
	}
	for _, m := range medLogs {
		key := m.Timestamp.Format("2006-01")
		byMonth[key] = append(byMonth[key], monthlyEntry{
			ID:        m.ID,
			Kind:      "medication",
			Name:      m.Name,
			Dose:      m.Dose,
			Timestamp: m.Timestamp.Format(time.RFC3339),
			Notes:     m.Notes,
		})
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)

	entriesDir := filepath.Join(r.Path, "entries")
	if err := os.MkdirAll(entriesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create entries directory: %w", err)
	}

	var files []string
	for _, month := range months {
		entries := byMonth[month]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Timestamp < entries[j].Timestamp
		})

		front, err := yaml.Marshal(map[string]interface{}{
			"month":   month,
			"entries": entries,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal entries for %s: %w", month, err)
		}

		content := fmt.Sprintf("---\n%s---\n\n# Journal %s\n\n%d entries.\n", front, month, len(entries))
		relPath := filepath.Join("entries", month+".md")
		if err := os.WriteFile(filepath.Join(r.Path, relPath), []byte(content), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", relPath, err)
		}
		files = append(files, relPath)
	}
	return files, nil
}

// writeSchedules dumps all schedules and their adherence logs into one
// YAML file
func (r *Repository) writeSchedules(ctx context.Context, store *database.Store, schedules []database.MedicationSchedule) (string, error) {
	type scheduleDump struct {
		Schedule  database.MedicationSchedule    `yaml:"schedule"`
		Adherence []database.MedicationAdherence `yaml:"adherence"`
	}

	dumps := make([]scheduleDump, 0, len(schedules))
	for _, sched := range schedules {
		records, err := store.AdherenceForSchedule(ctx, sched.ID)
		if err != nil {
			return "", fmt.Errorf("failed to list adherence for %s: %w", sched.ID, err)
		}
		dumps = append(dumps, scheduleDump{Schedule: sched, Adherence: records})
	}

	data, err := yaml.Marshal(map[string]interface{}{"schedules": dumps})
	if err != nil {
		return "", fmt.Errorf("failed to marshal schedules: %w", err)
	}

	relPath := "medications.yaml"
	if err := os.WriteFile(filepath.Join(r.Path, relPath), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", relPath, err)
	}
	return relPath, nil
}

// commitSnapshot stages the written files and commits when dirty.
// Returns the commit hash, or empty string when nothing changed.
func (r *Repository) commitSnapshot(files []string, now time.Time) (string, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}

	for _, file := range files {
		if _, err := worktree.Add(file); err != nil {
			return "", fmt.Errorf("failed to add file %s: %w", file, err)
		}
	}

	status, err := worktree.Status()
	if err != nil {
		return "", fmt.Errorf("failed to get status: %w", err)
	}
	if status.IsClean() {
		return "", nil
	}

	hash, err := worktree.Commit(fmt.Sprintf("Journal snapshot %s", now.Format("2006-01-02 15:04")), &git.CommitOptions{
		Author: &object.Signature{
			Name:  commitAuthor,
			Email: commitEmail,
			When:  now,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return hash.String(), nil
}
