package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/adlibrary-tracker/infrastructure/database/postgres"
	"github.com/vfg2006/adlibrary-tracker/internal/domain"
	"github.com/vfg2006/adlibrary-tracker/pkg/utils"
)

const (
	statisticsTable        = "daily_statistics"
	defaultStatisticsLimit = 100
)

var statisticsColumns = []string{
	"ds.stamp",
	"ds.brand",
	"ds.total_active",
	"ds.new_ads",
	"ds.multi_version",
	"ds.disappeared",
	"ds.reappeared",
	"ds.partition",
	"ds.observed_at",
}

type StatisticsHistoryRepository interface {
	Append(ctx context.Context, stats domain.Statistics) error
	List(ctx context.Context, filter domain.StatisticsFilter) ([]domain.Statistics, error)
}

type statisticsHistoryRepository struct {
	conn postgres.Conn
}

func NewStatisticsHistoryRepository(conn postgres.Conn) StatisticsHistoryRepository {
	return &statisticsHistoryRepository{
		conn: conn,
	}
}

func (r *statisticsHistoryRepository) Append(ctx context.Context, stats domain.Statistics) error {
	id, err := utils.GenerateID()
	if err != nil {
		return fmt.Errorf("error generating statistics id: %w", err)
	}

	query, args, err := buildInsertStatistics(id, stats)
	if err != nil {
		return fmt.Errorf("error building query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("error inserting statistics: %w", err)
	}

	return nil
}

func (r *statisticsHistoryRepository) List(ctx context.Context, filter domain.StatisticsFilter) ([]domain.Statistics, error) {
	query, args, err := buildListStatistics(filter)
	if err != nil {
		return nil, fmt.Errorf("error building query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Statistics, 0)
	for rows.Next() {
		var s domain.Statistics
		err := rows.Scan(
			&s.Timestamp,
			&s.Brand,
			&s.TotalActive,
			&s.NewAds,
			&s.MultiVersion,
			&s.Disappeared,
			&s.Reappeared,
			&s.Partition,
			&s.ObservedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning statistics: %w", err)
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

func buildInsertStatistics(id string, s domain.Statistics) (string, []interface{}, error) {
	return squirrel.
		Insert(statisticsTable).
		Columns(
			"id",
			"observed_at",
			"stamp",
			"brand",
			"partition",
			"total_active",
			"new_ads",
			"multi_version",
			"disappeared",
			"reappeared",
		).
		Values(
			id,
			s.ObservedAt,
			s.Timestamp,
			s.Brand,
			s.Partition,
			s.TotalActive,
			s.NewAds,
			s.MultiVersion,
			s.Disappeared,
			s.Reappeared,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func buildListStatistics(filter domain.StatisticsFilter) (string, []interface{}, error) {
	limit := filter.Limit
	if limit == 0 {
		limit = defaultStatisticsLimit
	}

	builder := squirrel.
		Select(statisticsColumns...).
		From(statisticsTable + " ds").
		OrderBy("ds.observed_at DESC").
		Limit(limit).
		PlaceholderFormat(squirrel.Dollar)

	if filter.Brand != "" {
		builder = builder.Where(squirrel.Eq{"ds.brand": filter.Brand})
	}
	if filter.StartDate != nil {
		builder = builder.Where(squirrel.GtOrEq{"ds.observed_at": *filter.StartDate})
	}
	if filter.EndDate != nil {
		builder = builder.Where(squirrel.LtOrEq{"ds.observed_at": *filter.EndDate})
	}

	return builder.ToSql()
}
