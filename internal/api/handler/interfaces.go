package handler

import (
	"context"

	"github.com/vfg2006/adlibrary-tracker/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

// SyncService starts tracking runs on demand and reports their status
type SyncService interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

// StatisticsLister reads the statistics history
type StatisticsLister interface {
	List(ctx context.Context, filter domain.StatisticsFilter) ([]domain.Statistics, error)
}
