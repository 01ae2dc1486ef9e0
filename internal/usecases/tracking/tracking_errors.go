package tracking

import (
	"errors"
	"fmt"

	"github.com/vfg2006/adlibrary-tracker/internal/domain"
)

// Errors of the tracking context
var (
	// Observed data errors, recovered locally
	ErrMissingCreativeID = errors.New("observed ad has no creative id")
	ErrMissingBrand      = errors.New("observed ad has no brand")
	ErrBrandMismatch     = errors.New("observed ad belongs to another brand")
	ErrDuplicateIdentity = errors.New("creative id observed twice in the same batch")

	// Collaborator errors, abort the run of one target
	ErrLoadInventory  = errors.New("error loading inventory")
	ErrScrape         = errors.New("error scraping target")
	ErrSaveInventory  = errors.New("error saving inventory")
	ErrSaveStatistics = errors.New("error saving statistics")
	ErrListTargets    = errors.New("error listing targets")
)

// MalformedObservedAdError is an observed ad that cannot be tracked
type MalformedObservedAdError struct {
	Err        error  // base error
	Index      int    // position in the batch
	CreativeID string // when known
}

func (e *MalformedObservedAdError) Error() string {
	if e.CreativeID != "" {
		return fmt.Sprintf("malformed observed ad #%d (%s): %s", e.Index, e.CreativeID, e.Err.Error())
	}
	return fmt.Sprintf("malformed observed ad #%d: %s", e.Index, e.Err.Error())
}

func (e *MalformedObservedAdError) Unwrap() error {
	return e.Err
}

// DuplicateIdentityError is a creative id repeated inside one batch; the first
// occurrence is kept
type DuplicateIdentityError struct {
	Key        domain.Key
	Index      int
	FirstIndex int
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("%s: %s/%s at #%d, first seen at #%d",
		ErrDuplicateIdentity.Error(), e.Key.Brand, e.Key.CreativeID, e.Index, e.FirstIndex)
}

func (e *DuplicateIdentityError) Unwrap() error {
	return ErrDuplicateIdentity
}
