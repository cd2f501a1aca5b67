package merge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

// Backend is the slice of the document store the orchestrator depends on.
type Backend interface {
	ListVerifiedDocuments(ctx context.Context, key types.AssignmentKey) ([]types.DocumentRecord, error)
	GetMergedArtifact(ctx context.Context, key types.AssignmentKey) (*types.MergedArtifact, error)
	RequestMerge(ctx context.Context, key types.AssignmentKey, orderedIDs []uuid.UUID, fileName string) (*types.MergedArtifact, error)
}

// Orchestrator produces merged artifacts from an explicit, user-ordered list
// of verified documents. Each assignment key holds at most one artifact; a
// successful merge replaces the previous one.
type Orchestrator struct {
	backend Backend
	now     func() time.Time
}

// New creates an Orchestrator over the given document store backend.
func New(backend Backend) *Orchestrator {
	return &Orchestrator{backend: backend, now: time.Now}
}

// RequestMerge validates the ordered selection and asks the backend to build
// the artifact. Any previously cached artifact reference for this key is
// unsafe the moment this is called; callers must re-fetch.
func (o *Orchestrator) RequestMerge(ctx context.Context, a *types.CandidateAssignment, orderedIDs []uuid.UUID) (*types.MergedArtifact, error) {
	if len(orderedIDs) == 0 {
		return nil, &ErrEmptyMergeInput{}
	}

	key := a.Key()
	verified, err := o.backend.ListVerifiedDocuments(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to list verified documents: %w", err)
	}

	eligible := make(map[uuid.UUID]bool, len(verified))
	for _, d := range verified {
		if d.Verified() {
			eligible[d.ID] = true
		}
	}

	var ineligible []uuid.UUID
	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !eligible[id] || seen[id] {
			ineligible = append(ineligible, id)
		}
		seen[id] = true
	}
	if len(ineligible) > 0 {
		return nil, &ErrIneligibleDocuments{DocIDs: ineligible}
	}

	fileName := artifactName(a, o.now())
	artifact, err := o.backend.RequestMerge(ctx, key, orderedIDs, fileName)
	if err != nil {
		return nil, &ErrMergeFailed{Message: "merge backend rejected the request", Cause: err}
	}
	return artifact, nil
}

// CurrentArtifact fetches the artifact for the key, or nil when none exists.
func (o *Orchestrator) CurrentArtifact(ctx context.Context, key types.AssignmentKey) (*types.MergedArtifact, error) {
	artifact, err := o.backend.GetMergedArtifact(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch merged artifact: %w", err)
	}
	return artifact, nil
}

// IsStale reports whether the artifact was generated from a different
// verified-document set than the current one. It is a pure id-set
// comparison; order changes requested after generation also count as stale
// because callers pass the requested order's ids.
func IsStale(artifactInputIDs, currentVerifiedIDs []uuid.UUID) bool {
	if len(artifactInputIDs) != len(currentVerifiedIDs) {
		return true
	}
	set := make(map[uuid.UUID]bool, len(artifactInputIDs))
	for _, id := range artifactInputIDs {
		set[id] = true
	}
	for _, id := range currentVerifiedIDs {
		if !set[id] {
			return true
		}
	}
	return false
}

// artifactName derives the artifact's display name from candidate, role, and
// generation time.
func artifactName(a *types.CandidateAssignment, at time.Time) string {
	candidate := sanitizeNamePart(a.CandidateName)
	role := sanitizeNamePart(a.RoleTitle)
	return fmt.Sprintf("%s_%s_%s_merged.pdf", candidate, role, at.Format("20060102_150405"))
}

// sanitizeNamePart lowercases and strips characters unsafe in file names.
func sanitizeNamePart(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var sb strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && sb.Len() > 0 {
				sb.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
