package document

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the store. Callers match with errors.Is and
// translate each kind into its fixed user-facing message.
var (
	// ErrNotFound: the document, section content, or dynamic item
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict: the document or dynamic item already exists.
	ErrConflict = errors.New("already exists")

	// ErrValidation: malformed section id, unknown status or group,
	// malformed content, or a reorder that isn't a permutation.
	ErrValidation = errors.New("validation failed")

	// ErrNoContext: a section-scoped operation was invoked without a
	// document key and the session has no active document bound.
	ErrNoContext = errors.New("no active document")
)

// Specific failures, each wrapping its kind: errors.Is matches at
// either granularity, and the tool layer maps each one to its own
// fixed message.
var (
	ErrDocumentNotFound = fmt.Errorf("document %w", ErrNotFound)
	ErrSectionNotFound  = fmt.Errorf("section %w", ErrNotFound)
	ErrEntityNotFound   = fmt.Errorf("entity %w", ErrNotFound)

	ErrDocumentExists = fmt.Errorf("document %w", ErrConflict)
	ErrEntityExists   = fmt.Errorf("entity %w", ErrConflict)

	ErrInvalidSectionID = fmt.Errorf("invalid section id: %w", ErrValidation)
	ErrInvalidStatus    = fmt.Errorf("invalid status: %w", ErrValidation)
	ErrInvalidContent   = fmt.Errorf("content is not a JSON object: %w", ErrValidation)
	ErrInvalidName      = fmt.Errorf("invalid item name: %w", ErrValidation)
	ErrUnknownGroup     = fmt.Errorf("unknown dynamic group: %w", ErrValidation)
	ErrNotPermutation   = fmt.Errorf("order is not a permutation of the current item names: %w", ErrValidation)
)
