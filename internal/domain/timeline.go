package domain

// EventKind is the type of a lifecycle transition
type EventKind int

const (
	EventAppeared EventKind = iota + 1
	EventDisappeared
)

func (k EventKind) String() string {
	switch k {
	case EventAppeared:
		return "appeared"
	case EventDisappeared:
		return "disappeared"
	default:
		return "unknown"
	}
}

// TimelineEvent is one appearance or disappearance of an ad. Events are
// append-only and kept in chronological order.
type TimelineEvent struct {
	At   string
	Kind EventKind
}
