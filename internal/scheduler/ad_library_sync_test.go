package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/adlibrary-tracker/internal/config"
	"github.com/vfg2006/adlibrary-tracker/internal/domain"
	"github.com/vfg2006/adlibrary-tracker/internal/usecases/tracking"
	"github.com/vfg2006/adlibrary-tracker/internal/usecases/tracking/mocks"
	"go.uber.org/mock/gomock"
)

func newSyncService(t *testing.T, enabled bool) (*AdLibrarySyncService, *mocks.MockTracker) {
	ctrl := gomock.NewController(t)
	tracker := mocks.NewMockTracker(ctrl)

	cfg := &config.Config{TrackerSync: config.TrackerSync{
		CronSchedule:            "*/30 * * * *",
		Enabled:                 enabled,
		MaxConcurrentPartitions: 2,
		TargetDelay:             time.Second,
	}}

	return NewAdLibrarySyncService(tracker, cfg, time.UTC), tracker
}

func TestAdLibrarySyncService_TriggerManualSync(t *testing.T) {
	svc, tracker := newSyncService(t, true)

	release := make(chan struct{})
	done := make(chan struct{})

	tracker.EXPECT().TrackAll(gomock.Any()).
		DoAndReturn(func(context.Context) (*tracking.RunSummary, error) {
			<-release
			return &tracking.RunSummary{
				RunID: "run1",
				Results: []tracking.TargetResult{
					{Target: domain.Target{URL: "a"}},
					{Target: domain.Target{URL: "b"}, Err: errors.New("blocked")},
				},
			}, nil
		}).
		Do(func(context.Context) { close(done) }).
		Times(1)

	require.True(t, svc.TriggerManualSync())
	assert.True(t, svc.IsRunning())

	// overlapping requests are refused while the run is in flight
	assert.False(t, svc.TriggerManualSync())
	svc.syncAll()

	close(release)
	<-done
	require.Eventually(t, func() bool { return !svc.IsRunning() }, time.Second, 10*time.Millisecond)

	status := svc.GetStatus()
	assert.Equal(t, "run1", status["last_run_id"])
	assert.Equal(t, 2, status["last_run_targets"])
	assert.Equal(t, 1, status["last_run_failed"])
	assert.Equal(t, "", status["last_run_error"])
	assert.Equal(t, false, status["sync_running"])
}

func TestAdLibrarySyncService_RecordsFailure(t *testing.T) {
	svc, tracker := newSyncService(t, true)

	tracker.EXPECT().TrackAll(gomock.Any()).Return(&tracking.RunSummary{RunID: "run2"}, errors.New("no targets sheet"))

	svc.syncAll()

	status := svc.GetStatus()
	assert.Equal(t, "run2", status["last_run_id"])
	assert.Equal(t, "no targets sheet", status["last_run_error"])
	assert.False(t, svc.IsRunning())
}

func TestAdLibrarySyncService_StartDisabled(t *testing.T) {
	svc, _ := newSyncService(t, false)

	require.NoError(t, svc.Start(context.Background()))
	assert.Equal(t, false, svc.GetStatus()["sync_enabled"])
}

func TestAdLibrarySyncService_StartInvalidCron(t *testing.T) {
	svc, _ := newSyncService(t, true)
	svc.config.CronSchedule = "not a cron"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Error(t, svc.Start(ctx))
}
