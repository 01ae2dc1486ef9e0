package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vfg2006/adlibrary-tracker/internal/domain"
)

const (
	// FieldSeparator joins the fields of one persisted row
	FieldSeparator = ";%_"
	// RowMarker starts every row after the first in the pasted payload
	RowMarker = "\r\n"
)

var cellSanitizer = strings.NewReplacer(
	"\r\n", " ",
	"\r", " ",
	"\n", " ",
	FieldSeparator, " ",
)

// DecodeRow maps stored columns to a record. A short row has absent trailing
// fields. It returns nil for a row without any value.
func DecodeRow(columns []string, layout Layout) (*domain.AdRecord, []error) {
	if isBlankRow(columns) {
		return nil, nil
	}

	cell := func(i int) string {
		if i >= len(columns) || i >= layout.Columns() {
			return ""
		}
		return NormalizeField(columns[i])
	}

	record := &domain.AdRecord{
		BrandName:          cell(ColBrandName),
		AdStatus:           cell(ColAdStatus),
		CreativeID:         cell(ColCreativeID),
		AdHeader:           cell(ColAdHeader),
		AdCreative:         cell(ColAdCreative),
		CreativeAndBodyUse: cell(ColCreativeAndBodyUse),
		VersionInfo:        cell(ColVersionInfo),
		FirstSeenAt:        cell(ColFirstSeenAt),
		LastUpdateAt:       cell(ColLastUpdateAt),
		DisappearedSince:   cell(ColDisappearedSince),
		ReappearedAt:       cell(ColReappearedAt),
		LandingURL:         cell(ColLandingURL),
	}

	var errs []error

	if started := cell(ColStartedRunning); started != "" {
		record.StartedRunningAt = &started
	}

	if runtime := cell(ColTotalRuntime); runtime != "" {
		days, err := ParseRuntimeDays(runtime)
		if err != nil {
			errs = append(errs, &CellError{Column: ColTotalRuntime, Value: runtime, Err: err})
			record.TotalRuntimeRaw = runtime
		} else {
			record.TotalRuntimeDays = &days
		}
	}

	if layout.hasHistory() {
		history, historyErrs := DecodeHistory(cell(ColHistory))
		record.History = history
		errs = append(errs, historyErrs...)
	}

	return record, errs
}

// EncodeRow joins the record fields in column order with FieldSeparator
func EncodeRow(r *domain.AdRecord, layout Layout) string {
	fields := []string{
		r.BrandName,
		r.AdStatus,
		r.CreativeID,
		r.AdHeader,
		r.AdCreative,
		r.CreativeAndBodyUse,
		r.VersionInfo,
		r.FirstSeenAt,
		r.LastUpdateAt,
		derefString(r.StartedRunningAt),
		formatRuntime(r.TotalRuntimeDays, r.TotalRuntimeRaw),
		r.DisappearedSince,
		r.ReappearedAt,
	}
	if layout.hasHistory() {
		fields = append(fields, EncodeHistory(r.History))
	}
	if layout.hasLandingURL() {
		fields = append(fields, r.LandingURL)
	}

	for i, f := range fields {
		fields[i] = cellSanitizer.Replace(f)
	}

	return strings.Join(fields, FieldSeparator)
}

// EncodeRows encodes records in order. Every row but the first carries the
// RowMarker so the rows can be pasted as one payload.
func EncodeRows(records []*domain.AdRecord, layout Layout) []string {
	rows := make([]string, 0, len(records))
	for i, r := range records {
		row := EncodeRow(r, layout)
		if i > 0 {
			row = RowMarker + row
		}
		rows = append(rows, row)
	}
	return rows
}

// JoinRows builds the paste payload from EncodeRows output
func JoinRows(rows []string) string {
	return strings.Join(rows, "")
}

// EncodeStatistics renders statistics in the fixed log column order
func EncodeStatistics(s domain.Statistics) []string {
	return []string{
		s.Timestamp,
		s.Brand,
		strconv.Itoa(s.TotalActive),
		strconv.Itoa(s.NewAds),
		strconv.Itoa(s.MultiVersion),
		strconv.Itoa(s.Disappeared),
		strconv.Itoa(s.Reappeared),
	}
}

// ParseRuntimeDays reads a "<n> days" cell
func ParseRuntimeDays(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	trimmed = strings.TrimSuffix(trimmed, "days")
	trimmed = strings.TrimSuffix(trimmed, "day")

	days, err := strconv.Atoi(strings.TrimSpace(trimmed))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRuntime, value)
	}
	return days, nil
}

// FormatRuntimeDays renders days as stored in the runtime column
func FormatRuntimeDays(days int) string {
	return fmt.Sprintf("%d days", days)
}

func formatRuntime(days *int, raw string) string {
	if days == nil {
		return raw
	}
	return FormatRuntimeDays(*days)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isBlankRow(columns []string) bool {
	for _, c := range columns {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
