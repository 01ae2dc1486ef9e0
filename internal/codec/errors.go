package codec

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedHistorySegment = errors.New("malformed history segment")
	ErrInvalidRuntime          = errors.New("invalid runtime value")
	ErrUnknownLayout           = errors.New("unknown partition layout")
)

// MalformedHistorySegmentError describes a history entry that could not be parsed
type MalformedHistorySegmentError struct {
	Position int
	Segment  string
}

func (e *MalformedHistorySegmentError) Error() string {
	return fmt.Sprintf("%s at position %d: %q", ErrMalformedHistorySegment.Error(), e.Position, e.Segment)
}

func (e *MalformedHistorySegmentError) Unwrap() error {
	return ErrMalformedHistorySegment
}

// CellError describes a stored cell that could not be decoded into its field
type CellError struct {
	Column int
	Value  string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("column %d value %q: %v", e.Column, e.Value, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}
