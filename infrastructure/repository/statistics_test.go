package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/adlibrary-tracker/internal/domain"
)

func TestBuildInsertStatistics(t *testing.T) {
	observedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	query, args, err := buildInsertStatistics("abc", domain.Statistics{
		Timestamp:    "2024-05-01 12:00:00",
		Brand:        "Acme",
		TotalActive:  10,
		NewAds:       2,
		MultiVersion: 3,
		Disappeared:  1,
		Reappeared:   0,
		Partition:    "All Records",
		ObservedAt:   observedAt,
	})
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO daily_statistics (id,observed_at,stamp,brand,partition,total_active,new_ads,multi_version,disappeared,reappeared) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)",
		query)
	assert.Equal(t, []interface{}{"abc", observedAt, "2024-05-01 12:00:00", "Acme", "All Records", 10, 2, 3, 1, 0}, args)
}

func TestBuildListStatistics(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name      string
		filter    domain.StatisticsFilter
		wantWhere string
		wantArgs  []interface{}
		wantLimit string
	}{
		{
			name:      "no filter uses default limit",
			filter:    domain.StatisticsFilter{},
			wantWhere: "",
			wantArgs:  nil,
			wantLimit: "LIMIT 100",
		},
		{
			name:      "brand and period",
			filter:    domain.StatisticsFilter{Brand: "Acme", StartDate: &start, EndDate: &end, Limit: 10},
			wantWhere: " WHERE ds.brand = $1 AND ds.observed_at >= $2 AND ds.observed_at <= $3",
			wantArgs:  []interface{}{"Acme", start, end},
			wantLimit: "LIMIT 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildListStatistics(tt.filter)
			require.NoError(t, err)

			assert.Equal(t,
				"SELECT ds.stamp, ds.brand, ds.total_active, ds.new_ads, ds.multi_version, ds.disappeared, ds.reappeared, ds.partition, ds.observed_at "+
					"FROM daily_statistics ds"+tt.wantWhere+" ORDER BY ds.observed_at DESC "+tt.wantLimit,
				query)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}
