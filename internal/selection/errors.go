package selection

import "fmt"

// ErrInvariantViolation indicates the merged-XOR-individual exclusivity
// invariant was broken. This is an internal bug guard; callers cannot produce
// it through the package API.
type ErrInvariantViolation struct {
	DocCount int
}

func (e *ErrInvariantViolation) Error() string {
	return fmt.Sprintf("selection invariant violation: merged sentinel set alongside %d individual picks", e.DocCount)
}

// ErrBatchNotFound indicates the referenced dispatch batch does not exist or
// was already closed.
type ErrBatchNotFound struct {
	BatchID string
}

func (e *ErrBatchNotFound) Error() string {
	return fmt.Sprintf("dispatch batch not found: %s", e.BatchID)
}
