package pipeline

import (
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

// forwardable are the statuses from which a candidate may be sent to a
// client.
var forwardable = map[types.Status]bool{
	types.StatusDocumentsVerified: true,
	types.StatusScreeningApproved: true,
}

// EligibleForForward reports whether the assignment may enter a
// forward-to-client batch. Candidates with an unresolved in-flight interview
// are excluded regardless of status.
func EligibleForForward(a *types.CandidateAssignment) bool {
	if a.ArchivedAt != nil || a.IsInInterview {
		return false
	}
	return forwardable[a.Status]
}

// EligibleForTransfer reports whether the assignment may enter a
// processing-transfer batch.
func EligibleForTransfer(a *types.CandidateAssignment) bool {
	if a.ArchivedAt != nil {
		return false
	}
	return a.Status == types.StatusPassed
}

// EligibleForInterview reports whether an interview may be scheduled for the
// assignment.
func EligibleForInterview(a *types.CandidateAssignment) bool {
	if a.ArchivedAt != nil || a.IsInInterview {
		return false
	}
	return a.Status == types.StatusShortlisted
}

// FilterForwardable returns the subset of assignments legal for a
// forward-to-client batch, preserving order.
func FilterForwardable(assignments []*types.CandidateAssignment) []*types.CandidateAssignment {
	return filter(assignments, EligibleForForward)
}

// FilterTransferable returns the subset of assignments legal for a
// processing-transfer batch, preserving order.
func FilterTransferable(assignments []*types.CandidateAssignment) []*types.CandidateAssignment {
	return filter(assignments, EligibleForTransfer)
}

func filter(assignments []*types.CandidateAssignment, keep func(*types.CandidateAssignment) bool) []*types.CandidateAssignment {
	out := make([]*types.CandidateAssignment, 0, len(assignments))
	for _, a := range assignments {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
