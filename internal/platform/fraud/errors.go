package fraud

import "errors"

var (
	// ErrInvalidResolution is returned when a case is resolved with a decision
	// other than APPROVE, CHALLENGE or BLOCK.
	ErrInvalidResolution = errors.New("resolution must be APPROVE, CHALLENGE or BLOCK")
	// ErrMissingCaseID is returned when no case is selected.
	ErrMissingCaseID = errors.New("case id is required")
)
