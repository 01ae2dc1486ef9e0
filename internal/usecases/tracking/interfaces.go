package tracking

import (
	"context"

	"github.com/vfg2006/adlibrary-tracker/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

// InventoryRepository loads and replaces the records of one partition
type InventoryRepository interface {
	// Load returns the persisted inventory of a partition in store order
	Load(ctx context.Context, partition string) (*domain.Inventory, error)
	// Save replaces the content of a partition with the inventory
	Save(ctx context.Context, partition string, inventory *domain.Inventory) error
}

// StatisticsRepository receives one statistics row per run
type StatisticsRepository interface {
	Append(ctx context.Context, stats domain.Statistics) error
}

// Scraper renders an advertiser page and returns the raw ad cards
type Scraper interface {
	Scrape(ctx context.Context, url string) (*domain.ScrapeResult, error)
}

// TargetRepository lists the monitored pages
type TargetRepository interface {
	ListTargets(ctx context.Context) ([]domain.Target, error)
}

// Tracker runs the tracking flow for one or all targets
type Tracker interface {
	Track(ctx context.Context, target domain.Target) (domain.Statistics, error)
	TrackAll(ctx context.Context) (*RunSummary, error)
}
