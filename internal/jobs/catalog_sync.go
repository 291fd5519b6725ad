// Package jobs runs background maintenance on a schedule.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron"
)

// DefaultCatalogSyncSchedule refreshes the local exercise table once a day.
const DefaultCatalogSyncSchedule = "@every 24h"

// CatalogSyncTimeout bounds a single sync run.
const CatalogSyncTimeout = 30 * time.Minute

// ErrSyncInProgress is returned when a sync is requested while one is running.
var ErrSyncInProgress = errors.New("catalog sync already in progress")

// CatalogSyncer copies the remote exercise catalog into the local table.
type CatalogSyncer interface {
	SyncCatalog(ctx context.Context) (int, error)
}

// CatalogSync runs SyncCatalog on a cron schedule. Runs never overlap.
type CatalogSync struct {
	syncer  CatalogSyncer
	cron    *cron.Cron
	timeout time.Duration
	mu      sync.Mutex
}

// NewCatalogSync schedules syncer. An empty schedule uses DefaultCatalogSyncSchedule.
func NewCatalogSync(syncer CatalogSyncer, schedule string) (*CatalogSync, error) {
	if schedule == "" {
		schedule = DefaultCatalogSyncSchedule
	}

	job := &CatalogSync{
		syncer:  syncer,
		cron:    cron.New(),
		timeout: CatalogSyncTimeout,
	}
	if err := job.cron.AddFunc(schedule, job.runScheduled); err != nil {
		return nil, fmt.Errorf("invalid catalog sync schedule %q: %w", schedule, err)
	}
	return job, nil
}

// Start begins running the schedule in the background.
func (j *CatalogSync) Start() {
	log.Printf("[CatalogSync] Scheduler started")
	j.cron.Start()
}

// Stop halts the schedule. A sync already running is left to finish.
func (j *CatalogSync) Stop() {
	j.cron.Stop()
	log.Printf("[CatalogSync] Scheduler stopped")
}

// RunOnce syncs immediately and returns the number of exercises stored.
func (j *CatalogSync) RunOnce(ctx context.Context) (int, error) {
	if !j.mu.TryLock() {
		return 0, ErrSyncInProgress
	}
	defer j.mu.Unlock()

	start := time.Now()
	n, err := j.syncer.SyncCatalog(ctx)
	if err != nil {
		return n, fmt.Errorf("failed to sync exercise catalog: %w", err)
	}
	log.Printf("[CatalogSync] Synced %d exercises in %s", n, time.Since(start).Round(time.Millisecond))
	return n, nil
}

func (j *CatalogSync) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if _, err := j.RunOnce(ctx); err != nil {
		log.Printf("[CatalogSync] Scheduled sync failed: %v", err)
	}
}
