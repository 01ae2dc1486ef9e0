package repository

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vfg2006/adlibrary-tracker/infrastructure/integrator/gsheets"
	"github.com/vfg2006/adlibrary-tracker/internal/codec"
	"github.com/vfg2006/adlibrary-tracker/internal/domain"
)

// SheetStatisticsRepository appends one row per run to the statistics log tab
type SheetStatisticsRepository struct {
	client gsheets.Client
	rng    string
}

func NewSheetStatisticsRepository(client gsheets.Client, rng string) *SheetStatisticsRepository {
	return &SheetStatisticsRepository{client: client, rng: rng}
}

func (r *SheetStatisticsRepository) Append(ctx context.Context, stats domain.Statistics) error {
	if err := r.client.AppendRow(ctx, r.rng, codec.EncodeStatistics(stats)); err != nil {
		return errors.Wrapf(err, "failed to append statistics of %q", stats.Brand)
	}
	return nil
}
