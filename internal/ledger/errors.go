package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrWriteFailed indicates the ledger rejected an append or settlement.
type ErrWriteFailed struct {
	Cause error
}

func (e *ErrWriteFailed) Error() string {
	return fmt.Sprintf("ledger write failed: %v", e.Cause)
}

func (e *ErrWriteFailed) Unwrap() error {
	return e.Cause
}

// ErrRecordImmutable indicates an attempt to rewrite a record that already
// reached a terminal status.
type ErrRecordImmutable struct {
	RecordID uuid.UUID
}

func (e *ErrRecordImmutable) Error() string {
	return fmt.Sprintf("forwarding record %s is terminal; append a corrective record instead", e.RecordID)
}
