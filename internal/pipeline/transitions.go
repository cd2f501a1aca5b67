// Package pipeline implements the candidate-project status state machine
// that gates which bulk actions are legal at which stage.
package pipeline

import (
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

// transitions maps each status to the statuses reachable from it. Movement
// is one-directional except the explicit resubmission branch out of
// rejected_documents.
var transitions = map[types.Status][]types.Status{
	types.StatusDocumentsSubmitted:      {types.StatusVerificationInProgress},
	types.StatusVerificationInProgress:  {types.StatusDocumentsVerified, types.StatusRejectedDocuments},
	types.StatusDocumentsVerified:       {types.StatusScreeningApproved, types.StatusSentToClient},
	types.StatusRejectedDocuments:       {types.StatusDocumentsSubmitted},
	types.StatusScreeningApproved:       {types.StatusSentToClient},
	types.StatusSentToClient:            {types.StatusShortlisted, types.StatusNotShortlisted},
	types.StatusShortlisted:             {types.StatusInterviewScheduled},
	types.StatusNotShortlisted:          {},
	types.StatusInterviewScheduled:      {types.StatusPassed, types.StatusFailed},
	types.StatusPassed:                  {types.StatusTransferredToProcessing},
	types.StatusFailed:                  {},
	types.StatusTransferredToProcessing: {},
}

// negativeDecisions are the statuses that require a human-entered reason.
var negativeDecisions = map[types.Status]bool{
	types.StatusRejectedDocuments: true,
	types.StatusNotShortlisted:    true,
	types.StatusFailed:            true,
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to types.Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates a status move and returns the resulting status. A
// reason is mandatory when the target is a negative decision.
func Transition(from, to types.Status, reason string) (types.Status, error) {
	if !to.Valid() {
		return from, &ErrUnknownStatus{Status: string(to)}
	}
	if !CanTransition(from, to) {
		return from, &ErrInvalidTransition{From: from, To: to}
	}
	if negativeDecisions[to] && reason == "" {
		return from, &ErrReasonRequired{To: to}
	}
	return to, nil
}

// Terminal reports whether nothing is reachable from the status in this
// cycle.
func Terminal(s types.Status) bool {
	return len(transitions[s]) == 0
}
