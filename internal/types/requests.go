package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ForwardSubmitRequest is the display layer's request to send a dispatch
// batch to a client. PerCandidate overrides the shared recipient for
// individual assignments.
type ForwardSubmitRequest struct {
	BatchID        uuid.UUID            `json:"batch_id" validate:"required"`
	Recipient      string               `json:"recipient" validate:"required,email"`
	CC             []string             `json:"cc,omitempty" validate:"omitempty,dive,email"`
	BCC            []string             `json:"bcc,omitempty" validate:"omitempty,dive,email"`
	DeliveryMethod DeliveryMethod       `json:"delivery_method" validate:"required,oneof=separate combined drive-link"`
	PerCandidate   map[uuid.UUID]string `json:"per_candidate_recipients,omitempty" validate:"omitempty,dive,email"`
	Notes          string               `json:"notes,omitempty"`
}

// TransferSubmitRequest is the display layer's request to hand a batch of
// passed candidates to processing.
type TransferSubmitRequest struct {
	BatchID uuid.UUID      `json:"batch_id" validate:"required"`
	Items   []TransferItem `json:"items" validate:"required,min=1,dive"`
}

// TransferItem carries one candidate's transfer parameters. Candidates with
// equal (assigned_user_id, notes) share one backend call.
type TransferItem struct {
	AssignmentID   uuid.UUID `json:"assignment_id" validate:"required"`
	AssignedUserID uuid.UUID `json:"assigned_user_id" validate:"required"`
	Notes          string    `json:"notes,omitempty"`
}

// StatusUpdateRequest moves one assignment through the pipeline. A reason is
// mandatory for negative decisions; the pipeline package enforces that.
type StatusUpdateRequest struct {
	NewStatus Status `json:"new_status" validate:"required"`
	Reason    string `json:"reason,omitempty"`
}

// ClientDecisionRequest records the client's decision for a set of
// candidates previously sent to the client. A reason is mandatory when the
// decision is negative; the pipeline package enforces that.
type ClientDecisionRequest struct {
	AssignmentIDs []uuid.UUID `json:"assignment_ids" validate:"required,min=1"`
	Decision      Status      `json:"decision" validate:"required,oneof=shortlisted not_shortlisted"`
	Reason        string      `json:"reason,omitempty"`
}

// ScheduleInterviewRequest schedules interviews for shortlisted candidates.
type ScheduleInterviewRequest struct {
	AssignmentIDs []uuid.UUID `json:"assignment_ids" validate:"required,min=1"`
	ScheduledAt   time.Time   `json:"scheduled_at" validate:"required"`
	Notes         string      `json:"notes,omitempty"`
}

// MergeSubmitRequest asks the document store to merge an ordered selection
// of verified documents.
type MergeSubmitRequest struct {
	OrderedDocIDs []uuid.UUID `json:"ordered_doc_ids" validate:"required,min=1"`
}

// Validate validates the ForwardSubmitRequest using the validator.
func (r *ForwardSubmitRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the TransferSubmitRequest using the validator.
func (r *TransferSubmitRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ClientDecisionRequest using the validator.
func (r *ClientDecisionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ScheduleInterviewRequest using the validator.
func (r *ScheduleInterviewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the MergeSubmitRequest using the validator.
func (r *MergeSubmitRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
