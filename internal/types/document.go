package types

import (
	"time"

	"github.com/google/uuid"
)

// VerificationStatus is the review state of an uploaded document.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// DocumentRecord is an uploaded file attached to a candidate assignment.
// Only verified records are eligible for merge and dispatch.
type DocumentRecord struct {
	ID                 uuid.UUID          `json:"id"`
	FileName           string             `json:"file_name"`
	FileSize           int64              `json:"file_size"`
	FileURL            string             `json:"file_url"`
	DocType            string             `json:"doc_type"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	UploadedAt         time.Time          `json:"uploaded_at"`
}

// Verified reports whether the document may enter a merge or dispatch.
func (d *DocumentRecord) Verified() bool {
	return d.VerificationStatus == VerificationVerified
}

// MergedArtifact is a single combined document produced from an ordered
// subset of a candidate's verified documents. There is at most one artifact
// per assignment key; a new merge replaces the previous artifact.
type MergedArtifact struct {
	FileURL      string      `json:"file_url"`
	FileName     string      `json:"file_name"`
	FileSize     int64       `json:"file_size"`
	GeneratedAt  time.Time   `json:"generated_at"`
	SourceDocIDs []uuid.UUID `json:"source_doc_ids"`
}
