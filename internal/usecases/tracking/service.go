package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vfg2006/adlibrary-tracker/internal/domain"
	"github.com/vfg2006/adlibrary-tracker/pkg/log"
	"github.com/vfg2006/adlibrary-tracker/pkg/utils"
	"golang.org/x/sync/errgroup"
)

// ServiceConfig holds the knobs of a tracking run
type ServiceConfig struct {
	MaxConcurrentPartitions int
	TargetDelay             time.Duration
	Location                *time.Location
}

// TargetResult is the outcome of one target inside a run
type TargetResult struct {
	Target     domain.Target
	Statistics domain.Statistics
	Err        error
}

// RunSummary collects the outcome of every target of a run
type RunSummary struct {
	RunID       string
	StartedAt   time.Time
	CompletedAt time.Time
	Results     []TargetResult
}

// Failed returns how many targets ended with an error
func (s *RunSummary) Failed() int {
	failed := 0
	for _, r := range s.Results {
		if r.Err != nil {
			failed++
		}
	}
	return failed
}

// Service runs load, scrape, reconcile and persist for monitored targets
type Service struct {
	inventoryRepo   InventoryRepository
	statisticsRepos []StatisticsRepository
	targetRepo      TargetRepository
	scraper         Scraper
	cfg             ServiceConfig
	now             func() time.Time
}

// NewService creates the tracking service. Statistics are appended to every
// given repository in order.
func NewService(
	inventoryRepo InventoryRepository,
	targetRepo TargetRepository,
	scraper Scraper,
	cfg ServiceConfig,
	statisticsRepos ...StatisticsRepository,
) *Service {
	if cfg.MaxConcurrentPartitions < 1 {
		cfg.MaxConcurrentPartitions = 1
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	return &Service{
		inventoryRepo:   inventoryRepo,
		statisticsRepos: statisticsRepos,
		targetRepo:      targetRepo,
		scraper:         scraper,
		cfg:             cfg,
		now:             time.Now,
	}
}

// WithClock replaces the clock used to stamp runs
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Track processes one target. A load or scrape failure aborts before anything
// is written, so the partition keeps its previous content.
func (s *Service) Track(ctx context.Context, target domain.Target) (domain.Statistics, error) {
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"url":       target.URL,
		"partition": target.Partition,
	})

	inventory, err := s.inventoryRepo.Load(ctx, target.Partition)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("%w: %w", ErrLoadInventory, err)
	}

	result, err := s.scraper.Scrape(ctx, target.URL)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("%w: %w", ErrScrape, err)
	}
	if result == nil || result.BrandName == "" {
		return domain.Statistics{}, fmt.Errorf("%w: %w", ErrScrape, ErrMissingBrand)
	}

	now := s.now().In(s.cfg.Location)
	batch := s.buildBatch(logger, result, now)

	logger.WithFields(log.Fields{
		"brand":    result.BrandName,
		"cards":    len(result.Ads),
		"observed": len(batch),
	}).Info("Ads observed")

	updated, stats := NewEngine(logger).Reconcile(inventory, batch, result.BrandName, now)
	stats.Partition = target.Partition

	if err := s.inventoryRepo.Save(ctx, target.Partition, updated); err != nil {
		return stats, fmt.Errorf("%w: %w", ErrSaveInventory, err)
	}

	var statsErrs []error
	for _, repo := range s.statisticsRepos {
		if err := repo.Append(ctx, stats); err != nil {
			statsErrs = append(statsErrs, err)
		}
	}
	if len(statsErrs) > 0 {
		return stats, fmt.Errorf("%w: %w", ErrSaveStatistics, errors.Join(statsErrs...))
	}

	logger.WithFields(log.Fields{
		"brand":         stats.Brand,
		"total_active":  stats.TotalActive,
		"new_ads":       stats.NewAds,
		"multi_version": stats.MultiVersion,
		"disappeared":   stats.Disappeared,
		"reappeared":    stats.Reappeared,
	}).Info("Target tracked")

	return stats, nil
}

func (s *Service) buildBatch(logger log.Logger, result *domain.ScrapeResult, now time.Time) []domain.ObservedAd {
	batch := make([]domain.ObservedAd, 0, len(result.Ads))
	for i, raw := range result.Ads {
		ad, err := BuildSnapshot(result.BrandName, raw, now)
		if err != nil {
			logger.WithFields(log.Fields{
				"brand":       result.BrandName,
				"creative_id": raw.CreativeID,
			}).WithError(&MalformedObservedAdError{Err: err, Index: i, CreativeID: raw.CreativeID}).
				Warn("Skipping ad card")
			continue
		}
		batch = append(batch, ad)
	}
	return batch
}

// TrackAll processes every monitored target. Targets sharing a partition run
// one after the other; distinct partitions run in parallel up to the
// configured limit.
func (s *Service) TrackAll(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{
		RunID:     utils.GenerateRunID(),
		StartedAt: s.now(),
	}

	ctx, _ = log.WithCorrelationID(ctx)
	ctx = log.WithRunID(ctx, summary.RunID)
	logger := log.ForContext(ctx)

	targets, err := s.targetRepo.ListTargets(ctx)
	if err != nil {
		return summary, fmt.Errorf("%w: %w", ErrListTargets, err)
	}

	if len(targets) == 0 {
		logger.Info("No targets to track")
		summary.CompletedAt = s.now()
		return summary, nil
	}

	summary.Results = make([]TargetResult, len(targets))
	partitions, order := groupByPartition(targets)

	logger.WithFields(log.Fields{
		"targets":    len(targets),
		"partitions": len(order),
	}).Info("Starting tracking run")

	var g errgroup.Group
	g.SetLimit(s.cfg.MaxConcurrentPartitions)

	for _, partition := range order {
		indexes := partitions[partition]
		g.Go(func() error {
			s.trackPartition(ctx, logger, targets, indexes, summary.Results)
			return nil
		})
	}
	_ = g.Wait()

	summary.CompletedAt = s.now()

	logger.WithFields(log.Fields{
		"targets":  len(targets),
		"failed":   summary.Failed(),
		"duration": summary.CompletedAt.Sub(summary.StartedAt).String(),
	}).Info("Tracking run finished")

	return summary, ctx.Err()
}

// trackPartition runs the targets of one partition sequentially. Each index
// of results is written by exactly one goroutine.
func (s *Service) trackPartition(
	ctx context.Context,
	logger log.Logger,
	targets []domain.Target,
	indexes []int,
	results []TargetResult,
) {
	for n, i := range indexes {
		target := targets[i]
		results[i].Target = target

		if n > 0 && s.cfg.TargetDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(s.cfg.TargetDelay):
			}
		}
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		stats, err := s.Track(ctx, target)
		results[i].Statistics = stats
		results[i].Err = err
		if err != nil {
			logger.WithFields(log.Fields{
				"url":       target.URL,
				"partition": target.Partition,
			}).WithError(err).Error("Error tracking target")
		}
	}
}

func groupByPartition(targets []domain.Target) (map[string][]int, []string) {
	partitions := make(map[string][]int)
	var order []string
	for i, t := range targets {
		if _, ok := partitions[t.Partition]; !ok {
			order = append(order, t.Partition)
		}
		partitions[t.Partition] = append(partitions[t.Partition], i)
	}
	return partitions, order
}
