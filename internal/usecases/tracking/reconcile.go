package tracking

import (
	"time"

	"github.com/vfg2006/adlibrary-tracker/internal/domain"
	"github.com/vfg2006/adlibrary-tracker/pkg/log"
)

// Engine merges observed batches into a persisted inventory. It performs no
// I/O and reads no clock: the same inputs always produce the same output.
type Engine struct {
	logger log.Logger
}

// NewEngine creates an Engine. A nil logger uses the global one.
func NewEngine(logger log.Logger) *Engine {
	if logger == nil {
		logger = log.L
	}
	return &Engine{logger: logger}
}

// Reconcile merges the observed batch of one brand into a copy of existing
// and returns the updated inventory with the run statistics. Records of other
// brands pass through unchanged.
func (e *Engine) Reconcile(
	existing *domain.Inventory,
	batch []domain.ObservedAd,
	brand string,
	now time.Time,
) (*domain.Inventory, domain.Statistics) {
	var inventory *domain.Inventory
	if existing == nil {
		inventory, _ = domain.NewInventory(nil)
	} else {
		inventory = existing.Clone()
	}

	stamp := domain.Stamp(now)
	stats := domain.Statistics{
		Timestamp:  stamp,
		Brand:      brand,
		ObservedAt: now,
	}

	// touched is scoped to this call; it never outlives the run
	touched := make(map[domain.Key]int, len(batch))

	for i, ad := range batch {
		if ad.BrandName == "" {
			ad.BrandName = brand
		}

		if err := checkObserved(i, ad, brand); err != nil {
			e.logger.WithFields(log.Fields{
				"brand":       brand,
				"creative_id": ad.CreativeID,
			}).WithError(err).Warn("Skipping malformed observed ad")
			continue
		}

		key := ad.Key()
		if first, seen := touched[key]; seen {
			err := &DuplicateIdentityError{Key: key, Index: i, FirstIndex: first}
			e.logger.WithFields(log.Fields{
				"brand":       brand,
				"creative_id": ad.CreativeID,
			}).WithError(err).Warn("Duplicate creative id in batch, keeping first occurrence")
			continue
		}
		touched[key] = i

		record, found := inventory.Find(key)
		if !found {
			record = &domain.AdRecord{
				FirstSeenAt:  stamp,
				LastUpdateAt: stamp,
			}
			record.Apply(ad)
			inventory.Add(record)
			stats.NewAds++
		} else {
			// the disappeared cell drives reappearance, history alone does not
			if record.DisappearedSince != "" {
				record.ReappearedAt = stamp
				record.History = append(record.History, domain.TimelineEvent{At: stamp, Kind: domain.EventAppeared})
				stats.Reappeared++
			}
			record.DisappearedSince = ""
			record.Apply(ad)
			record.LastUpdateAt = stamp
		}

		stats.TotalActive++
		if ad.VersionInfo != "" {
			stats.MultiVersion++
		}
	}

	for _, record := range inventory.Records() {
		if record.BrandName != brand {
			continue
		}
		if _, ok := touched[record.Key()]; ok {
			continue
		}
		// rows shadowed by an earlier row with the same key are left as loaded
		if indexed, ok := inventory.Find(record.Key()); !ok || indexed != record {
			continue
		}
		if record.IsDisappeared() {
			continue
		}

		record.DisappearedSince = stamp
		record.ReappearedAt = ""
		record.History = append(record.History, domain.TimelineEvent{At: stamp, Kind: domain.EventDisappeared})
		stats.Disappeared++
	}

	e.logger.WithFields(log.Fields{
		"brand":        brand,
		"total_active": stats.TotalActive,
		"new_ads":      stats.NewAds,
		"disappeared":  stats.Disappeared,
		"reappeared":   stats.Reappeared,
	}).Debug("Reconciliation finished")

	return inventory, stats
}

// Reconcile runs the engine with the global logger
func Reconcile(existing *domain.Inventory, batch []domain.ObservedAd, brand string, now time.Time) (*domain.Inventory, domain.Statistics) {
	return NewEngine(nil).Reconcile(existing, batch, brand, now)
}

func checkObserved(index int, ad domain.ObservedAd, brand string) error {
	switch {
	case ad.CreativeID == "":
		return &MalformedObservedAdError{Err: ErrMissingCreativeID, Index: index}
	case ad.BrandName != brand:
		return &MalformedObservedAdError{Err: ErrBrandMismatch, Index: index, CreativeID: ad.CreativeID}
	default:
		return nil
	}
}
