package types

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryMethod is how documents are handed to the client.
type DeliveryMethod string

const (
	DeliverySeparate  DeliveryMethod = "separate"
	DeliveryCombined  DeliveryMethod = "combined"
	DeliveryDriveLink DeliveryMethod = "drive-link"
)

// Valid reports whether m is a known delivery method.
func (m DeliveryMethod) Valid() bool {
	switch m {
	case DeliverySeparate, DeliveryCombined, DeliveryDriveLink:
		return true
	}
	return false
}

// SendType records whether a forward carried the merged artifact or
// individually selected documents.
type SendType string

const (
	SendMerged     SendType = "merged"
	SendIndividual SendType = "individual"
)

// ForwardingStatus is the lifecycle state of a ledger record.
type ForwardingStatus string

const (
	ForwardingQueued ForwardingStatus = "queued"
	ForwardingSent   ForwardingStatus = "sent"
	ForwardingFailed ForwardingStatus = "failed"
)

// ForwardingRecord is one append-only ledger entry: a single candidate's
// dispatch attempt. Records are never mutated after reaching a terminal
// status; corrections are new records.
type ForwardingRecord struct {
	ID             uuid.UUID        `json:"id"`
	CandidateID    uuid.UUID        `json:"candidate_id"`
	ProjectID      uuid.UUID        `json:"project_id"`
	RoleID         uuid.UUID        `json:"role_id"`
	RecipientEmail string           `json:"recipient_email"`
	CC             []string         `json:"cc,omitempty"`
	BCC            []string         `json:"bcc,omitempty"`
	SendType       SendType         `json:"send_type"`
	DeliveryMethod DeliveryMethod   `json:"delivery_method"`
	Status         ForwardingStatus `json:"status"`
	IsBulk         bool             `json:"is_bulk"`
	Notes          string           `json:"notes,omitempty"`
	Error          string           `json:"error,omitempty"`
	SentAt         *time.Time       `json:"sent_at,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// EffectiveTime is the record's position on the ledger timeline: sentAt when
// present, createdAt otherwise. The latest forwarding for a candidate is the
// record with the greatest effective time.
func (r *ForwardingRecord) EffectiveTime() time.Time {
	if r.SentAt != nil {
		return *r.SentAt
	}
	return r.CreatedAt
}
