package merge

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrMergeFailed indicates the merge backend rejected or could not complete
// the request. The prior artifact, if any, is untouched.
type ErrMergeFailed struct {
	Message string
	Cause   error
}

func (e *ErrMergeFailed) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("merge failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("merge failed: %s", e.Message)
}

func (e *ErrMergeFailed) Unwrap() error {
	return e.Cause
}

// ErrEmptyMergeInput indicates a merge was requested with no documents.
type ErrEmptyMergeInput struct{}

func (e *ErrEmptyMergeInput) Error() string {
	return "merge input is empty: at least one verified document is required"
}

// ErrIneligibleDocuments indicates the merge input referenced documents that
// are not verified documents of this assignment.
type ErrIneligibleDocuments struct {
	DocIDs []uuid.UUID
}

func (e *ErrIneligibleDocuments) Error() string {
	return fmt.Sprintf("merge input contains %d document(s) that are not verified for this assignment", len(e.DocIDs))
}
