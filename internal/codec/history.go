package codec

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vfg2006/adlibrary-tracker/internal/domain"
)

// HistorySeparator joins timeline events inside one cell. Some legacy sheets
// used "," instead; those cells are not decoded.
const HistorySeparator = ";"

const (
	appearedMessage    = "Ad has appeared."
	disappearedMessage = "Ad has disappeared."
)

var segmentPattern = regexp.MustCompile(`^\[([^\]]*)\]:\s*(.+)$`)

// EncodeHistory renders events as "[<at>]: <message>" joined by HistorySeparator
func EncodeHistory(events []domain.TimelineEvent) string {
	if len(events) == 0 {
		return ""
	}

	segments := make([]string, 0, len(events))
	for _, e := range events {
		segments = append(segments, fmt.Sprintf("[%s]: %s", e.At, eventMessage(e.Kind)))
	}

	return strings.Join(segments, HistorySeparator)
}

// DecodeHistory parses a stored history cell. Segments that do not match the
// grammar are skipped and reported; the rest of the timeline is kept.
func DecodeHistory(cell string) ([]domain.TimelineEvent, []error) {
	if strings.TrimSpace(cell) == "" {
		return nil, nil
	}

	var events []domain.TimelineEvent
	var errs []error

	for i, segment := range strings.Split(cell, HistorySeparator) {
		segment = strings.TrimSpace(segment)
		if segment == "" || segment == "undefined" {
			continue
		}

		match := segmentPattern.FindStringSubmatch(segment)
		if match == nil {
			errs = append(errs, &MalformedHistorySegmentError{Position: i, Segment: segment})
			continue
		}

		kind, ok := classifyMessage(match[2])
		if !ok {
			errs = append(errs, &MalformedHistorySegmentError{Position: i, Segment: segment})
			continue
		}

		events = append(events, domain.TimelineEvent{
			At:   strings.TrimSpace(match[1]),
			Kind: kind,
		})
	}

	return events, errs
}

func eventMessage(kind domain.EventKind) string {
	if kind == domain.EventDisappeared {
		return disappearedMessage
	}
	return appearedMessage
}

// classifyMessage checks "disappeared" first since it contains "appeared"
func classifyMessage(message string) (domain.EventKind, bool) {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "disappeared"):
		return domain.EventDisappeared, true
	case strings.Contains(lower, "appeared"):
		return domain.EventAppeared, true
	default:
		return 0, false
	}
}
