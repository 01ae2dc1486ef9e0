// Package domain contains the data structures of the ad lifecycle tracker
package domain

import "time"

// StatusActive is the only status the library exposes for a visible ad
const StatusActive = "Active"

// StampLayout is the layout used for every timestamp written to the store
const StampLayout = "2006-01-02 15:04:05"

// Stamp renders t in the store timestamp layout
func Stamp(t time.Time) string {
	return t.Format(StampLayout)
}

// Key identifies a record inside a partition. Matching is brand scoped, so two
// brands producing the same creative id never share a record.
type Key struct {
	Brand      string
	CreativeID string
}

// AdRecord is the persisted state of one ad creative
type AdRecord struct {
	BrandName          string
	AdStatus           string
	CreativeID         string
	AdHeader           string
	AdCreative         string // body text and/or media file names
	CreativeAndBodyUse string
	LandingURL         string
	VersionInfo        string
	FirstSeenAt        string
	LastUpdateAt       string
	StartedRunningAt   *string
	TotalRuntimeDays   *int
	TotalRuntimeRaw    string // unparsable stored runtime cell, written back as is
	DisappearedSince   string // empty while the ad is observed
	ReappearedAt       string
	History            []TimelineEvent
}

// Key returns the brand scoped identity of the record
func (r *AdRecord) Key() Key {
	return Key{Brand: r.BrandName, CreativeID: r.CreativeID}
}

// IsDisappeared reports whether the record is currently considered gone.
// The last history event wins; records persisted without history fall back
// to the DisappearedSince cell.
func (r *AdRecord) IsDisappeared() bool {
	if last, ok := r.LastEvent(); ok {
		return last.Kind == EventDisappeared
	}
	return r.DisappearedSince != ""
}

// LastEvent returns the most recent timeline event
func (r *AdRecord) LastEvent() (TimelineEvent, bool) {
	if len(r.History) == 0 {
		return TimelineEvent{}, false
	}
	return r.History[len(r.History)-1], true
}

// Apply overwrites the descriptive fields with the observed values.
// Lifecycle fields are left untouched.
func (r *AdRecord) Apply(ad ObservedAd) {
	r.BrandName = ad.BrandName
	r.AdStatus = ad.AdStatus
	r.CreativeID = ad.CreativeID
	r.AdHeader = ad.AdHeader
	r.AdCreative = ad.AdCreative
	r.CreativeAndBodyUse = ad.CreativeAndBodyUse
	r.LandingURL = ad.LandingURL
	r.VersionInfo = ad.VersionInfo
	r.StartedRunningAt = cloneString(ad.StartedRunningAt)
	r.TotalRuntimeDays = cloneInt(ad.TotalRuntimeDays)
	r.TotalRuntimeRaw = ""
}

// Clone returns a deep copy of the record
func (r *AdRecord) Clone() *AdRecord {
	c := *r
	c.StartedRunningAt = cloneString(r.StartedRunningAt)
	c.TotalRuntimeDays = cloneInt(r.TotalRuntimeDays)
	if r.History != nil {
		c.History = make([]TimelineEvent, len(r.History))
		copy(c.History, r.History)
	}
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
