// Package storeerr defines the sentinel errors shared by the task store and
// conversation store so callers at the HTTP boundary can map them to the
// taxonomy in spec.md §7 with errors.Is, without either store importing the
// other or the HTTP layer.
package storeerr

import "errors"

var (
	// ErrNotFound covers both "no such row" and "row owned by someone else" —
	// the two are indistinguishable to callers by design, to prevent
	// existence probing (spec.md §4.1, §4.6). No operation in this service
	// ever needs to tell those two cases apart, so there is no separate
	// forbidden/ownership-mismatch sentinel: every store method collapses
	// both into ErrNotFound.
	ErrNotFound = errors.New("not found")

	// ErrValidation covers malformed input caught before it reaches storage.
	ErrValidation = errors.New("validation failed")
)
