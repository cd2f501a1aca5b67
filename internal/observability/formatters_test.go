package observability

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/dispatch"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

func TestPrintTransferResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &dispatch.TransferResult{
		Succeeded: []dispatch.Partition{
			{Key: dispatch.TransferKey{AssignedUserID: uuid.New(), Notes: "urgent"}, AssignmentIDs: []uuid.UUID{uuid.New(), uuid.New()}},
		},
		Failed: []dispatch.FailedPartition{
			{Key: dispatch.TransferKey{AssignedUserID: uuid.New()}, AssignmentIDs: []uuid.UUID{uuid.New()}, Reason: "backend timeout"},
		},
	}
	p.PrintTransferResult(result)

	out := buf.String()
	assert.Contains(t, out, "1 succeeded, 1 failed")
	assert.Contains(t, out, "backend timeout")
}

func TestPrintTransferResult_NilIsSilent(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintTransferResult(nil)
	assert.Empty(t, buf.String())
}

func TestPrintForwardOutcome(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	records := []*types.ForwardingRecord{
		{CandidateID: uuid.New(), RecipientEmail: "client@example.com", Status: types.ForwardingSent},
		{CandidateID: uuid.New(), RecipientEmail: "client@example.com", Status: types.ForwardingFailed, Error: "mailbox full"},
	}
	p.PrintForwardOutcome(records)

	out := buf.String()
	assert.Contains(t, out, "client@example.com")
	assert.Contains(t, out, "1 sent, 1 failed")
	assert.Contains(t, out, "mailbox full")
}
