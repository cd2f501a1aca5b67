package pipeline

import (
	"fmt"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

// ErrUnknownStatus indicates a status outside the enumerated set.
type ErrUnknownStatus struct {
	Status string
}

func (e *ErrUnknownStatus) Error() string {
	return fmt.Sprintf("unknown pipeline status: %q", e.Status)
}

// ErrInvalidTransition indicates a status jump the lattice does not permit.
type ErrInvalidTransition struct {
	From types.Status
	To   types.Status
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

// ErrReasonRequired indicates a negative decision was submitted without the
// mandatory reason.
type ErrReasonRequired struct {
	To types.Status
}

func (e *ErrReasonRequired) Error() string {
	return fmt.Sprintf("a reason is required to move a candidate to %s", e.To)
}
