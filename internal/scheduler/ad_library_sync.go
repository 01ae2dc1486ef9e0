package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vfg2006/adlibrary-tracker/internal/config"
	"github.com/vfg2006/adlibrary-tracker/internal/usecases/tracking"
	"github.com/vfg2006/adlibrary-tracker/pkg/log"
)

// AdLibrarySyncConfig configures the periodic tracking run
type AdLibrarySyncConfig struct {
	CronSchedule            string
	MaxConcurrentPartitions int
	TargetDelay             time.Duration
	SyncEnabled             bool
}

// AdLibrarySyncService schedules tracking runs and guarantees that at most
// one run is in flight
type AdLibrarySyncService struct {
	scheduler *gocron.Scheduler
	config    AdLibrarySyncConfig
	tracker   tracking.Tracker
	ctx       context.Context

	syncMutex           sync.Mutex
	syncRunning         bool
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastRunID           string
	lastTargets         int
	lastFailed          int
	lastError           string
}

// NewAdLibrarySyncService creates the scheduler from the application config
func NewAdLibrarySyncService(tracker tracking.Tracker, appConfig *config.Config, loc *time.Location) *AdLibrarySyncService {
	syncConfig := AdLibrarySyncConfig{
		CronSchedule:            appConfig.TrackerSync.CronSchedule,
		MaxConcurrentPartitions: appConfig.TrackerSync.MaxConcurrentPartitions,
		TargetDelay:             appConfig.TrackerSync.TargetDelay,
		SyncEnabled:             appConfig.TrackerSync.Enabled,
	}

	if loc == nil {
		loc = time.Local
	}

	log.L.WithFields(log.Fields{
		"cron_schedule":             syncConfig.CronSchedule,
		"max_concurrent_partitions": syncConfig.MaxConcurrentPartitions,
		"target_delay":              syncConfig.TargetDelay.String(),
		"sync_enabled":              syncConfig.SyncEnabled,
	}).Info("Ad library sync configuration loaded")

	return &AdLibrarySyncService{
		scheduler: gocron.NewScheduler(loc),
		config:    syncConfig,
		tracker:   tracker,
		ctx:       context.Background(),
	}
}

// Start schedules the sync. The scheduler stops when ctx is cancelled and
// runs in progress are cancelled with it.
func (s *AdLibrarySyncService) Start(ctx context.Context) error {
	s.ctx = ctx

	if !s.config.SyncEnabled {
		log.L.Info("Ad library sync disabled by configuration")
		return nil
	}

	log.L.WithField("cron", s.config.CronSchedule).Info("Starting ad library sync scheduler")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAll()
	})
	if err != nil {
		return fmt.Errorf("error scheduling ad library sync: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.L.Info("Stopping ad library sync scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

// syncAll runs every target once unless a run is already in progress
func (s *AdLibrarySyncService) syncAll() {
	if !s.tryBegin() {
		log.L.Info("Ad library sync already running, skipping")
		return
	}
	s.run()
}

func (s *AdLibrarySyncService) tryBegin() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return false
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	return true
}

func (s *AdLibrarySyncService) run() {
	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.syncMutex.Unlock()
	}()

	summary, err := s.tracker.TrackAll(s.ctx)

	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	s.lastError = ""
	if err != nil {
		s.lastError = err.Error()
		log.L.WithError(err).Error("Ad library sync failed")
	}
	if summary != nil {
		s.lastRunID = summary.RunID
		s.lastTargets = len(summary.Results)
		s.lastFailed = summary.Failed()
	}
}

// TriggerManualSync starts a sync in the background. It returns false when
// a run is already in progress.
func (s *AdLibrarySyncService) TriggerManualSync() bool {
	if !s.tryBegin() {
		log.L.Info("Ad library sync already running, ignoring manual request")
		return false
	}

	log.L.Info("Starting manual ad library sync")
	go s.run()
	return true
}

// IsRunning reports whether a run is in progress
func (s *AdLibrarySyncService) IsRunning() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	return s.syncRunning
}

// GetStatus returns the scheduler status
func (s *AdLibrarySyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":                   s.config.SyncEnabled,
		"sync_cron":                      s.config.CronSchedule,
		"sync_max_concurrent_partitions": s.config.MaxConcurrentPartitions,
		"sync_target_delay":              s.config.TargetDelay.String(),
		"sync_running":                   s.syncRunning,
		"last_sync_started_at":           s.lastSyncStartedAt,
		"last_sync_completed_at":         s.lastSyncCompletedAt,
		"last_run_id":                    s.lastRunID,
		"last_run_targets":               s.lastTargets,
		"last_run_failed":                s.lastFailed,
		"last_run_error":                 s.lastError,
	}
}
