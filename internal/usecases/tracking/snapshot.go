package tracking

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/vfg2006/adlibrary-tracker/internal/codec"
	"github.com/vfg2006/adlibrary-tracker/internal/domain"
)

const (
	creativeIDPrefix     = "ID:"
	startedRunningPrefix = "Started running on"
)

var validate = validator.New()

// Dates as printed by the ad library, per display language
var startedRunningLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"2006-01-02",
	"02.01.2006",
}

// BuildSnapshot normalizes the raw fields of one ad card and derives its
// runtime in days from the declared start date.
func BuildSnapshot(brand string, raw domain.RawAd, now time.Time) (domain.ObservedAd, error) {
	ad := domain.ObservedAd{
		BrandName:          codec.NormalizeField(brand),
		AdStatus:           domain.StatusActive,
		CreativeID:         normalizeCreativeID(raw.CreativeID),
		AdHeader:           codec.NormalizeField(raw.AdHeader),
		AdCreative:         codec.NormalizeField(raw.AdCreative),
		CreativeAndBodyUse: codec.NormalizeField(raw.CreativeAndBodyUse),
		LandingURL:         codec.NormalizeField(raw.LandingURL),
		VersionInfo:        codec.NormalizeField(raw.VersionInfo),
	}

	if err := validate.Struct(ad); err != nil {
		return ad, validationError(err)
	}

	if started := normalizeStartedRunning(raw.StartedRunning); started != "" {
		ad.StartedRunningAt = &started
		if days, ok := RuntimeDays(started, now); ok {
			ad.TotalRuntimeDays = &days
		}
	}

	return ad, nil
}

// RuntimeDays returns the rounded number of days between the declared start
// date and now
func RuntimeDays(started string, now time.Time) (int, bool) {
	for _, layout := range startedRunningLayouts {
		startedAt, err := time.ParseInLocation(layout, started, now.Location())
		if err != nil {
			continue
		}
		return int(math.Round(now.Sub(startedAt).Hours() / 24)), true
	}
	return 0, false
}

func normalizeCreativeID(raw string) string {
	id := codec.NormalizeField(raw)
	id = strings.TrimPrefix(id, creativeIDPrefix)
	return strings.TrimSpace(id)
}

func normalizeStartedRunning(raw string) string {
	started := codec.NormalizeField(raw)
	started = strings.TrimPrefix(started, startedRunningPrefix)
	return strings.TrimSpace(started)
}

func validationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fieldErr := range validationErrs {
			if fieldErr.Field() == "BrandName" {
				return ErrMissingBrand
			}
		}
	}
	return ErrMissingCreativeID
}
