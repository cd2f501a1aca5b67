package server

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/dispatch"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/ledger"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

// Backend is the full document store / dispatch API surface the server
// consumes. docstore.Client is the production implementation.
type Backend interface {
	ListVerifiedDocuments(ctx context.Context, key types.AssignmentKey) ([]types.DocumentRecord, error)
	GetMergedArtifact(ctx context.Context, key types.AssignmentKey) (*types.MergedArtifact, error)
	RequestMerge(ctx context.Context, key types.AssignmentKey, orderedIDs []uuid.UUID, fileName string) (*types.MergedArtifact, error)
	DispatchForward(ctx context.Context, payload dispatch.ForwardPayload) ([]types.ForwardingRecord, error)
	DispatchTransfer(ctx context.Context, assignmentIDs []uuid.UUID, assignedUserID uuid.UUID, notes string) error
}

// assignmentStore is the slice of assignment persistence the handlers need.
// db.DB is the production implementation.
type assignmentStore interface {
	GetAssignment(ctx context.Context, id uuid.UUID) (*types.CandidateAssignment, error)
	ListAssignmentsByIDs(ctx context.Context, ids []uuid.UUID) ([]*types.CandidateAssignment, error)
	UpdateAssignmentStatus(ctx context.Context, id uuid.UUID, status types.Status, reason string) error
	ScheduleInterview(ctx context.Context, id uuid.UUID, at time.Time) error
	ResolveInterview(ctx context.Context, id uuid.UUID) error
	ArchiveProject(ctx context.Context, projectID uuid.UUID) (int64, error)
}

// forwardingLedger is the slice of the ledger the handlers need.
// ledger.Store is the production implementation.
type forwardingLedger interface {
	Append(ctx context.Context, r *types.ForwardingRecord) (uuid.UUID, error)
	Resolve(ctx context.Context, id uuid.UUID, status types.ForwardingStatus, sendErr string, sentAt time.Time) error
	Query(ctx context.Context, filter ledger.Filter, page, limit int) ([]*types.ForwardingRecord, ledger.QueryMeta, error)
	LatestForCandidate(ctx context.Context, candidateID uuid.UUID) (*types.ForwardingRecord, error)
}
