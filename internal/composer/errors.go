package composer

import "errors"

var (
	// ErrNotAllowed rejects an insert whose section type the page type does
	// not permit.
	ErrNotAllowed = errors.New("section type not allowed on this page type")
	// ErrLimitReached rejects an insert that would exceed the page type's
	// section cap.
	ErrLimitReached = errors.New("maximum number of sections reached for this page")
	// ErrUnknownSectionType flags a type tag missing from the catalog; with
	// valid callers this indicates a programming error, not user input.
	ErrUnknownSectionType = errors.New("unknown section type")
	ErrSectionNotFound    = errors.New("section not found")
)
