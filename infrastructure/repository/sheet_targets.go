package repository

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vfg2006/adlibrary-tracker/infrastructure/integrator/gsheets"
	"github.com/vfg2006/adlibrary-tracker/internal/codec"
	"github.com/vfg2006/adlibrary-tracker/internal/domain"
	"github.com/vfg2006/adlibrary-tracker/pkg/log"
)

// SheetTargetRepository reads the monitored pages from the config tab:
// column A holds the url, column B an optional partition tab
type SheetTargetRepository struct {
	client           gsheets.Client
	rng              string
	defaultPartition string
}

func NewSheetTargetRepository(client gsheets.Client, rng, defaultPartition string) *SheetTargetRepository {
	return &SheetTargetRepository{
		client:           client,
		rng:              rng,
		defaultPartition: defaultPartition,
	}
}

func (r *SheetTargetRepository) ListTargets(ctx context.Context) ([]domain.Target, error) {
	values, err := r.client.Values(ctx, r.rng)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read targets")
	}

	seen := make(map[string]bool, len(values))
	targets := make([]domain.Target, 0, len(values))
	for _, row := range values {
		if len(row) == 0 {
			continue
		}

		url := codec.NormalizeCell(row[0])
		if url == "" {
			continue
		}
		if seen[url] {
			log.ForContext(ctx).WithField("url", url).Warn("Target listed twice, ignoring the repeat")
			continue
		}
		seen[url] = true

		partition := r.defaultPartition
		if len(row) > 1 {
			if p := codec.NormalizeCell(row[1]); p != "" {
				partition = p
			}
		}

		targets = append(targets, domain.Target{URL: url, Partition: partition})
	}

	return targets, nil
}
