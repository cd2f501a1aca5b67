// Package types provides type definitions for structured data used throughout the recruitment dispatch system.
package types

import (
	"time"

	"github.com/google/uuid"
)

// Status is a candidate assignment's position in the recruitment pipeline.
// The set of values is closed; transitions between them are owned by the
// pipeline package.
type Status string

// Pipeline statuses in lattice order.
const (
	StatusDocumentsSubmitted      Status = "documents_submitted"
	StatusVerificationInProgress  Status = "verification_in_progress"
	StatusDocumentsVerified       Status = "documents_verified"
	StatusRejectedDocuments       Status = "rejected_documents"
	StatusScreeningApproved       Status = "screening_approved"
	StatusSentToClient            Status = "sent_to_client"
	StatusShortlisted             Status = "shortlisted"
	StatusNotShortlisted          Status = "not_shortlisted"
	StatusInterviewScheduled      Status = "interview_scheduled"
	StatusPassed                  Status = "passed"
	StatusFailed                  Status = "failed"
	StatusTransferredToProcessing Status = "transferred_to_processing"
)

// AllStatuses lists every permitted status value.
var AllStatuses = []Status{
	StatusDocumentsSubmitted,
	StatusVerificationInProgress,
	StatusDocumentsVerified,
	StatusRejectedDocuments,
	StatusScreeningApproved,
	StatusSentToClient,
	StatusShortlisted,
	StatusNotShortlisted,
	StatusInterviewScheduled,
	StatusPassed,
	StatusFailed,
	StatusTransferredToProcessing,
}

// Valid reports whether s is one of the enumerated pipeline statuses.
func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// CandidateAssignment is a candidate's attachment to one project/role,
// carrying pipeline status. It is the unit every bulk operation pivots on.
type CandidateAssignment struct {
	ID            uuid.UUID  `json:"id"`
	CandidateID   uuid.UUID  `json:"candidate_id"`
	ProjectID     uuid.UUID  `json:"project_id"`
	RoleID        uuid.UUID  `json:"role_id"`
	CandidateName string     `json:"candidate_name"`
	RoleTitle     string     `json:"role_title"`
	Status        Status     `json:"status"`
	SubStatus     string     `json:"sub_status,omitempty"`
	IsInInterview bool       `json:"is_in_interview"`
	InterviewAt   *time.Time `json:"interview_at,omitempty"`
	ArchivedAt    *time.Time `json:"archived_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// AssignmentKey identifies the (candidate, project, role) triple that scopes
// documents, merges, and forwards.
type AssignmentKey struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	ProjectID   uuid.UUID `json:"project_id"`
	RoleID      uuid.UUID `json:"role_id"`
}

// Key returns the assignment's scoping triple.
func (a *CandidateAssignment) Key() AssignmentKey {
	return AssignmentKey{
		CandidateID: a.CandidateID,
		ProjectID:   a.ProjectID,
		RoleID:      a.RoleID,
	}
}

// InterviewExpired reports whether a scheduled interview's time has passed
// without a conduct record. This is derived on read; it is never a stored
// status.
func (a *CandidateAssignment) InterviewExpired(now time.Time) bool {
	if a.Status != StatusInterviewScheduled || a.InterviewAt == nil {
		return false
	}
	return now.After(*a.InterviewAt)
}
