package domain

// RawAd holds the field values extracted from one ad card, before normalization
type RawAd struct {
	CreativeID         string
	AdHeader           string
	AdCreative         string
	CreativeAndBodyUse string
	LandingURL         string
	VersionInfo        string
	StartedRunning     string
}

// ScrapeResult is everything a scrape pass hands to the tracker for one target
type ScrapeResult struct {
	URL       string
	BrandName string
	Ads       []RawAd
}

// ObservedAd is a normalized snapshot of one ad visible at scrape time
type ObservedAd struct {
	BrandName          string `validate:"required"`
	AdStatus           string
	CreativeID         string `validate:"required"`
	AdHeader           string
	AdCreative         string
	CreativeAndBodyUse string
	LandingURL         string
	VersionInfo        string
	StartedRunningAt   *string
	TotalRuntimeDays   *int
}

// Key returns the brand scoped identity of the observed ad
func (a ObservedAd) Key() Key {
	return Key{Brand: a.BrandName, CreativeID: a.CreativeID}
}
