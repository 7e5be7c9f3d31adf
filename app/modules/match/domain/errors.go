package matchdomain

import (
	"errors"
	"fmt"
)

// Validation sentinels. Returned wrapped in a *ValidationError.
var (
	ErrUnknownSide         = errors.New("unknown side")
	ErrInvalidDirection    = errors.New("invalid rotation direction")
	ErrInvalidLineupSize   = errors.New("lineup must contain exactly 6 players")
	ErrEmptyPlayerID       = errors.New("player id must not be empty")
	ErrDuplicatePlayer     = errors.New("player appears more than once in lineup")
	ErrNotOnRoster         = errors.New("player is not on the team roster")
	ErrLiberoInLineup      = errors.New("libero must not occupy a numbered slot")
	ErrInvalidSlot         = errors.New("slot must be between 1 and 6")
	ErrPlayerFielded       = errors.New("incoming player is already in the lineup")
	ErrNotInActiveRoster   = errors.New("player is not in the active roster")
	ErrInvalidReception    = errors.New("invalid reception category")
	ErrInvalidResult       = errors.New("invalid rally result")
	ErrInvalidZone         = errors.New("invalid toss zone")
	ErrInvalidSetNumber    = errors.New("set number must be between 1 and 5")
	ErrMissingMatchName    = errors.New("match name is required")
	ErrMissingTeamName     = errors.New("team name is required")
	ErrInvalidCoordinates  = errors.New("coordinates must be finite and non-negative")
	ErrLiberoWithoutLineup = errors.New("libero requires a lineup")
)

// State sentinels. Returned wrapped in a *StateError.
var (
	ErrLineupNotSet = errors.New("lineup has not been set for this side")
	ErrEmptyLedger  = errors.New("rally ledger is empty")
)

// ValidationError reports a malformed command argument. The match is not mutated.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %v", e.Err)
	}
	return fmt.Sprintf("validation failed on %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// StateError reports a command that is not allowed in the current match state.
type StateError struct {
	Op  string
	Err error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s not allowed: %v", e.Op, e.Err)
}

func (e *StateError) Unwrap() error { return e.Err }

// CollaboratorError wraps a failure reported by an external dependency
// (roster lookup, rally persistence). The wrapped error is kept intact.
type CollaboratorError struct {
	Collaborator string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

func notAllowed(op string, err error) error {
	return &StateError{Op: op, Err: err}
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsState reports whether err is or wraps a *StateError.
func IsState(err error) bool {
	var s *StateError
	return errors.As(err, &s)
}

// IsCollaborator reports whether err is or wraps a *CollaboratorError.
func IsCollaborator(err error) bool {
	var c *CollaboratorError
	return errors.As(err, &c)
}
