package codec

import (
	"fmt"
	"strings"
)

// Layout is the column variant of a partition
type Layout int

const (
	LayoutClassic Layout = 13 // A..M, no history
	LayoutHistory Layout = 14 // A..N, history in N
	LayoutFull    Layout = 15 // A..O, history in N, landing url in O
)

// Column positions shared by every layout
const (
	ColBrandName = iota
	ColAdStatus
	ColCreativeID
	ColAdHeader
	ColAdCreative
	ColCreativeAndBodyUse
	ColVersionInfo
	ColFirstSeenAt
	ColLastUpdateAt
	ColStartedRunning
	ColTotalRuntime
	ColDisappearedSince
	ColReappearedAt
	ColHistory
	ColLandingURL
)

// ParseLayout maps a configuration value to a Layout
func ParseLayout(name string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "classic", "13":
		return LayoutClassic, nil
	case "history", "14":
		return LayoutHistory, nil
	case "full", "15":
		return LayoutFull, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}
}

// Columns returns the number of columns of the layout
func (l Layout) Columns() int {
	return int(l)
}

// LastColumn returns the A1 letter of the last column
func (l Layout) LastColumn() string {
	return string(rune('A' + l.Columns() - 1))
}

func (l Layout) hasHistory() bool {
	return l.Columns() > ColHistory
}

func (l Layout) hasLandingURL() bool {
	return l.Columns() > ColLandingURL
}

func (l Layout) String() string {
	switch l {
	case LayoutClassic:
		return "classic"
	case LayoutHistory:
		return "history"
	case LayoutFull:
		return "full"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}
