package domain

import "time"

// Statistics is the aggregate of one reconciliation run for one brand
type Statistics struct {
	Timestamp    string    `json:"timestamp"`
	Brand        string    `json:"brand"`
	TotalActive  int       `json:"total_active"`
	NewAds       int       `json:"new_ads"`
	MultiVersion int       `json:"multi_version"`
	Disappeared  int       `json:"disappeared"`
	Reappeared   int       `json:"reappeared"`
	Partition    string    `json:"partition,omitempty"`
	ObservedAt   time.Time `json:"observed_at"`
}

// StatisticsFilter narrows statistics history queries
type StatisticsFilter struct {
	Brand     string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     uint64
}
