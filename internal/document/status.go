package document

import "fmt"

// Status is the lifecycle state of a section or dynamic item.
//
// Every section starts at NOT_STARTED. The only automatic transition is
// NOT_STARTED → IN_PROGRESS on the first successful section write; all
// other transitions happen through explicit status updates, in any
// direction — operator override is permitted, and COMPLETE is not
// terminal. Rewriting a completed section does not regress its status.
type Status string

const (
	StatusNotStarted  Status = "not_started"
	StatusInProgress  Status = "in_progress"
	StatusNeedsDetail Status = "needs_detail"
	StatusDraft       Status = "draft"
	StatusComplete    Status = "complete"
)

// validStatuses is the set of allowed section statuses.
var validStatuses = map[Status]bool{
	StatusNotStarted:  true,
	StatusInProgress:  true,
	StatusNeedsDetail: true,
	StatusDraft:       true,
	StatusComplete:    true,
}

// ValidateStatus returns a validation error if s is not a recognized
// status value.
func ValidateStatus(s Status) error {
	if !validStatuses[s] {
		return fmt.Errorf("%q is not one of not_started, in_progress, needs_detail, draft, complete: %w", s, ErrInvalidStatus)
	}
	return nil
}

// promoteOnWrite applies the single automatic edge of the status
// machine: a write to a NOT_STARTED section moves it to IN_PROGRESS.
// Any other current status is left untouched.
func promoteOnWrite(current Status) Status {
	if current == StatusNotStarted {
		return StatusInProgress
	}
	return current
}
