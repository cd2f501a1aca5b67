// Package dispatch gates bulk submissions behind numeric and completeness
// rules and collapses per-candidate operations into the minimal number of
// backend calls.
package dispatch

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrIncompleteSelection indicates one or more visible candidates have
// nothing selected.
type ErrIncompleteSelection struct {
	Count         int
	AssignmentIDs []uuid.UUID
}

func (e *ErrIncompleteSelection) Error() string {
	return fmt.Sprintf("incomplete selection: %d candidate(s) have no documents selected", e.Count)
}

// ErrRecipientInvalid indicates a missing or malformed recipient email.
type ErrRecipientInvalid struct {
	Email string
}

func (e *ErrRecipientInvalid) Error() string {
	if e.Email == "" {
		return "recipient email is required"
	}
	return fmt.Sprintf("recipient email is not valid: %s", e.Email)
}

// ErrPayloadTooLarge indicates a combined delivery exceeds the attachment
// size limit.
type ErrPayloadTooLarge struct {
	TotalBytes int64
	LimitBytes int64
}

func (e *ErrPayloadTooLarge) Error() string {
	return fmt.Sprintf("combined payload of %d bytes exceeds the %d byte limit", e.TotalBytes, e.LimitBytes)
}

// FailedPartition describes one grouped backend call that failed. The
// candidates it carried keep their previous state and must be resubmitted
// explicitly.
type FailedPartition struct {
	Key           TransferKey `json:"key"`
	AssignmentIDs []uuid.UUID `json:"assignment_ids"`
	Reason        string      `json:"reason"`
}

// ErrPartialFailure indicates some grouped calls failed while others
// succeeded. Succeeded partitions' state changes stand; nothing is rolled
// back.
type ErrPartialFailure struct {
	Failed []FailedPartition
}

func (e *ErrPartialFailure) Error() string {
	total := 0
	for _, p := range e.Failed {
		total += len(p.AssignmentIDs)
	}
	return fmt.Sprintf("dispatch partially failed: %d partition(s) covering %d candidate(s) did not complete", len(e.Failed), total)
}
