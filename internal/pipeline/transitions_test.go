package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

func TestTransition_LegalMoves(t *testing.T) {
	tests := []struct {
		name   string
		from   types.Status
		to     types.Status
		reason string
	}{
		{"submit to verification", types.StatusDocumentsSubmitted, types.StatusVerificationInProgress, ""},
		{"verification passes", types.StatusVerificationInProgress, types.StatusDocumentsVerified, ""},
		{"verification rejects", types.StatusVerificationInProgress, types.StatusRejectedDocuments, "missing passport scan"},
		{"resubmission after rejection", types.StatusRejectedDocuments, types.StatusDocumentsSubmitted, ""},
		{"screening approval", types.StatusDocumentsVerified, types.StatusScreeningApproved, ""},
		{"forward from verified", types.StatusDocumentsVerified, types.StatusSentToClient, ""},
		{"forward from screened", types.StatusScreeningApproved, types.StatusSentToClient, ""},
		{"client shortlists", types.StatusSentToClient, types.StatusShortlisted, ""},
		{"client declines", types.StatusSentToClient, types.StatusNotShortlisted, "profile mismatch"},
		{"interview scheduled", types.StatusShortlisted, types.StatusInterviewScheduled, ""},
		{"interview passed", types.StatusInterviewScheduled, types.StatusPassed, ""},
		{"interview failed", types.StatusInterviewScheduled, types.StatusFailed, "did not attend"},
		{"handoff to processing", types.StatusPassed, types.StatusTransferredToProcessing, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.from, tt.to, tt.reason)
			require.NoError(t, err)
			assert.Equal(t, tt.to, got)
		})
	}
}

func TestTransition_RejectsIllegalJumps(t *testing.T) {
	tests := []struct {
		name string
		from types.Status
		to   types.Status
	}{
		{"skip verification", types.StatusDocumentsSubmitted, types.StatusSentToClient},
		{"backwards", types.StatusSentToClient, types.StatusDocumentsVerified},
		{"out of terminal", types.StatusNotShortlisted, types.StatusShortlisted},
		{"transfer without passing", types.StatusInterviewScheduled, types.StatusTransferredToProcessing},
		{"out of processing", types.StatusTransferredToProcessing, types.StatusPassed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.from, tt.to, "")
			var invalid *ErrInvalidTransition
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.from, got, "status must not move on a rejected transition")
		})
	}
}

func TestTransition_NegativeDecisionsRequireReason(t *testing.T) {
	for _, to := range []types.Status{types.StatusRejectedDocuments, types.StatusNotShortlisted, types.StatusFailed} {
		var from types.Status
		switch to {
		case types.StatusRejectedDocuments:
			from = types.StatusVerificationInProgress
		case types.StatusNotShortlisted:
			from = types.StatusSentToClient
		case types.StatusFailed:
			from = types.StatusInterviewScheduled
		}

		_, err := Transition(from, to, "")
		var missing *ErrReasonRequired
		require.ErrorAs(t, err, &missing, "moving to %s without a reason must fail", to)

		got, err := Transition(from, to, "documented decision")
		require.NoError(t, err)
		assert.Equal(t, to, got)
	}
}

func TestTransition_UnknownStatus(t *testing.T) {
	_, err := Transition(types.StatusPassed, types.Status("archived"), "")
	var unknown *ErrUnknownStatus
	assert.ErrorAs(t, err, &unknown)
}

func TestTerminal(t *testing.T) {
	assert.True(t, Terminal(types.StatusNotShortlisted))
	assert.True(t, Terminal(types.StatusFailed))
	assert.True(t, Terminal(types.StatusTransferredToProcessing))
	assert.False(t, Terminal(types.StatusRejectedDocuments), "rejection allows resubmission")
	assert.False(t, Terminal(types.StatusPassed))
}
