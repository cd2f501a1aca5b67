package dispatch

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

// Backend is the slice of the remote dispatch API the dispatcher depends on.
type Backend interface {
	// DispatchForward sends one forward-to-client payload carrying every
	// candidate's selection. The returned records report per-candidate
	// outcomes.
	DispatchForward(ctx context.Context, payload ForwardPayload) ([]types.ForwardingRecord, error)
	// DispatchTransfer hands one partition of candidates to processing.
	DispatchTransfer(ctx context.Context, assignmentIDs []uuid.UUID, assignedUserID uuid.UUID, notes string) error
}

// CandidateSelection is one candidate's resolved selection inside a forward
// payload.
type CandidateSelection struct {
	AssignmentID uuid.UUID      `json:"assignment_id"`
	Recipient    string         `json:"recipient"`
	SendType     types.SendType `json:"send_type"`
	DocIDs       []uuid.UUID    `json:"doc_ids,omitempty"`
}

// ForwardPayload is the single backend call a forward-to-client batch
// produces. Forward sends are never grouped across recipients; per-candidate
// customization rides inside the one payload.
type ForwardPayload struct {
	Recipient      string               `json:"recipient"`
	CC             []string             `json:"cc,omitempty"`
	BCC            []string             `json:"bcc,omitempty"`
	DeliveryMethod types.DeliveryMethod `json:"delivery_method"`
	Selections     []CandidateSelection `json:"selections"`
	Notes          string               `json:"notes,omitempty"`
}

// Dispatcher executes grouped bulk operations against the backend with
// partial-failure isolation.
type Dispatcher struct {
	backend Backend
}

// NewDispatcher creates a Dispatcher over the given backend.
func NewDispatcher(backend Backend) *Dispatcher {
	return &Dispatcher{backend: backend}
}

// TransferResult reports the outcome of a bulk processing transfer.
type TransferResult struct {
	Succeeded []Partition       `json:"succeeded"`
	Failed    []FailedPartition `json:"failed,omitempty"`
}

// Transfer partitions the items by grouping key and issues one backend call
// per partition, all concurrently. Each partition succeeds or fails
// independently; callers resubmit only the failed ones. When any partition
// fails the returned error is an *ErrPartialFailure describing them.
func (d *Dispatcher) Transfer(ctx context.Context, items []types.TransferItem) (*TransferResult, error) {
	partitions := GroupTransfers(items)

	unique := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if !seen[item.AssignmentID] {
			seen[item.AssignmentID] = true
			unique = append(unique, item.AssignmentID)
		}
	}
	if err := VerifyCompleteness(partitions, unique); err != nil {
		return nil, err
	}

	result := &TransferResult{}
	var mu sync.Mutex

	// Partitions are independent: one failing must not cancel the others,
	// so goroutines always return nil and record their outcome instead.
	g, gCtx := errgroup.WithContext(ctx)
	for _, p := range partitions {
		g.Go(func() error {
			err := d.backend.DispatchTransfer(gCtx, p.AssignmentIDs, p.Key.AssignedUserID, p.Key.Notes)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// Backend timeouts surface here as failed partitions,
				// never as silent drops.
				result.Failed = append(result.Failed, FailedPartition{
					Key:           p.Key,
					AssignmentIDs: p.AssignmentIDs,
					Reason:        err.Error(),
				})
				return nil
			}
			result.Succeeded = append(result.Succeeded, p)
			return nil
		})
	}
	_ = g.Wait()

	if len(result.Failed) > 0 {
		return result, &ErrPartialFailure{Failed: result.Failed}
	}
	return result, nil
}

// Forward issues the single forward-to-client call and returns the backend's
// per-candidate records.
func (d *Dispatcher) Forward(ctx context.Context, payload ForwardPayload) ([]types.ForwardingRecord, error) {
	return d.backend.DispatchForward(ctx, payload)
}
