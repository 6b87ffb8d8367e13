package reconcile

import (
	"errors"

	"modeltidy/internal/scan"
	"modeltidy/internal/store"
)

// ErrInvariantViolation signals an internal classification bug rather than an
// environmental failure; it aborts the whole pass.
var ErrInvariantViolation = errors.New("classification invariant violation")

// Classify assigns the single category for a record/file pairing. Rules are
// evaluated in precedence order; the first match wins. At least one of record
// and file must be non-nil.
func Classify(record *store.Record, file *scan.Entry) (Category, error) {
	switch {
	case record == nil && file == nil:
		return "", ErrInvariantViolation
	case file != nil && file.IsPointer:
		return CategoryPointer, nil
	case record != nil && file == nil && !record.External():
		return CategoryMissing, nil
	case record == nil:
		return CategoryOrphaned, nil
	case record.External():
		return CategoryInPlace, nil
	default:
		return CategoryOK, nil
	}
}
