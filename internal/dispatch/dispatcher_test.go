package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

// fakeDispatchBackend records every transfer call and fails the users listed
// in failUsers.
type fakeDispatchBackend struct {
	mu        sync.Mutex
	calls     []TransferKey
	failUsers map[uuid.UUID]error
}

func (f *fakeDispatchBackend) DispatchForward(_ context.Context, payload ForwardPayload) ([]types.ForwardingRecord, error) {
	records := make([]types.ForwardingRecord, len(payload.Selections))
	for i, sel := range payload.Selections {
		records[i] = types.ForwardingRecord{
			ID:             uuid.New(),
			RecipientEmail: sel.Recipient,
			SendType:       sel.SendType,
			DeliveryMethod: payload.DeliveryMethod,
			Status:         types.ForwardingSent,
		}
	}
	return records, nil
}

func (f *fakeDispatchBackend) DispatchTransfer(_ context.Context, _ []uuid.UUID, assignedUserID uuid.UUID, notes string) error {
	f.mu.Lock()
	f.calls = append(f.calls, TransferKey{AssignedUserID: assignedUserID, Notes: notes})
	f.mu.Unlock()
	if err, ok := f.failUsers[assignedUserID]; ok {
		return err
	}
	return nil
}

func TestTransfer_IssuesOneCallPerPartition(t *testing.T) {
	userX, userY := uuid.New(), uuid.New()
	items := []types.TransferItem{
		{AssignmentID: uuid.New(), AssignedUserID: userX, Notes: "urgent"},
		{AssignmentID: uuid.New(), AssignedUserID: userX, Notes: "urgent"},
		{AssignmentID: uuid.New(), AssignedUserID: userX, Notes: "urgent"},
		{AssignmentID: uuid.New(), AssignedUserID: userY, Notes: ""},
		{AssignmentID: uuid.New(), AssignedUserID: userY, Notes: ""},
	}

	backend := &fakeDispatchBackend{}
	d := NewDispatcher(backend)

	result, err := d.Transfer(context.Background(), items)
	require.NoError(t, err)
	assert.Len(t, backend.calls, 2, "3+2 candidates over two keys must produce exactly 2 calls")
	assert.Len(t, result.Succeeded, 2)
	assert.Empty(t, result.Failed)
}

func TestTransfer_PartialFailureIsolation(t *testing.T) {
	userX, userY := uuid.New(), uuid.New()
	xIDs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	yIDs := []uuid.UUID{uuid.New(), uuid.New()}

	items := []types.TransferItem{
		{AssignmentID: xIDs[0], AssignedUserID: userX, Notes: "urgent"},
		{AssignmentID: xIDs[1], AssignedUserID: userX, Notes: "urgent"},
		{AssignmentID: xIDs[2], AssignedUserID: userX, Notes: "urgent"},
		{AssignmentID: yIDs[0], AssignedUserID: userY, Notes: ""},
		{AssignmentID: yIDs[1], AssignedUserID: userY, Notes: ""},
	}

	backend := &fakeDispatchBackend{failUsers: map[uuid.UUID]error{userY: errors.New("backend timeout")}}
	d := NewDispatcher(backend)

	result, err := d.Transfer(context.Background(), items)
	var partial *ErrPartialFailure
	require.ErrorAs(t, err, &partial)

	// userX's partition stands; userY's is reported, not rolled back
	require.Len(t, result.Succeeded, 1)
	assert.ElementsMatch(t, xIDs, result.Succeeded[0].AssignmentIDs)

	require.Len(t, result.Failed, 1)
	assert.ElementsMatch(t, yIDs, result.Failed[0].AssignmentIDs)
	assert.Equal(t, "backend timeout", result.Failed[0].Reason)

	// Every candidate accounted for exactly once across outcomes
	all := append(Flatten(result.Succeeded), Flatten([]Partition{{
		AssignmentIDs: result.Failed[0].AssignmentIDs,
	}})...)
	assert.Len(t, all, 5)
}

func TestTransfer_NoItems(t *testing.T) {
	d := NewDispatcher(&fakeDispatchBackend{})
	result, err := d.Transfer(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Succeeded)
	assert.Empty(t, result.Failed)
}

func TestForward_SingleCallPerBatch(t *testing.T) {
	backend := &fakeDispatchBackend{}
	d := NewDispatcher(backend)

	payload := ForwardPayload{
		Recipient:      "client@example.com",
		DeliveryMethod: types.DeliveryCombined,
		Selections: []CandidateSelection{
			{AssignmentID: uuid.New(), Recipient: "client@example.com", SendType: types.SendMerged},
			{AssignmentID: uuid.New(), Recipient: "client@example.com", SendType: types.SendIndividual, DocIDs: []uuid.UUID{uuid.New()}},
		},
	}

	records, err := d.Forward(context.Background(), payload)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, types.SendMerged, records[0].SendType)
	assert.Equal(t, types.SendIndividual, records[1].SendType)
}
