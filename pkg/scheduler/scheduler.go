// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scheduler runs the journal's periodic maintenance: expiring
// overdue pending doses to missed and, when enabled, committing backup
// snapshots. The missed-dose policy lives here, in the caller layer; the
// adherence calculator never infers misses on its own.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/svan-b/myhealthyagent/internal/backup"
	"github.com/svan-b/myhealthyagent/internal/database"
)

// Scheduler handles periodic journal maintenance
type Scheduler struct {
	store       *database.Store
	interval    time.Duration
	missedGrace time.Duration
	backupRepo  *backup.Repository // nil disables periodic backup
	stopChan    chan bool
}

// New creates a scheduler. A nil backupRepo disables the backup job.
func New(store *database.Store, intervalMinutes, missedGraceMinutes int, backupRepo *backup.Repository) *Scheduler {
	return &Scheduler{
		store:       store,
		interval:    time.Duration(intervalMinutes) * time.Minute,
		missedGrace: time.Duration(missedGraceMinutes) * time.Minute,
		backupRepo:  backupRepo,
		stopChan:    make(chan bool),
	}
}

// Start begins the scheduler
func (s *Scheduler) Start() {
	ticker := time.NewTicker(s.interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				s.runOnce()
			case <-s.stopChan:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.stopChan <- true
}

// runOnce executes one maintenance pass
func (s *Scheduler) runOnce() {
	ctx := context.Background()

	if n, err := s.MarkOverdueMissed(ctx, time.Now()); err != nil {
		log.Printf("Failed to expire overdue doses: %v", err)
	} else if n > 0 {
		log.Printf("Marked %d overdue doses as missed", n)
	}

	if s.backupRepo != nil {
		if _, err := s.backupRepo.Snapshot(ctx, s.store, time.Now()); err != nil {
			log.Printf("Failed to snapshot journal: %v", err)
		}
	}
}

// MarkOverdueMissed flips pending doses whose scheduled time is older
// than the grace window to missed, and returns how many changed
func (s *Scheduler) MarkOverdueMissed(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.Add(-s.missedGrace)
	return s.store.MarkMissedBefore(ctx, cutoff)
}
