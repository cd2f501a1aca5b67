package merge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

// fakeBackend is an in-memory document store for orchestrator tests.
type fakeBackend struct {
	docs      []types.DocumentRecord
	artifact  *types.MergedArtifact
	mergeErr  error
	lastName  string
	lastOrder []uuid.UUID
}

func (f *fakeBackend) ListVerifiedDocuments(_ context.Context, _ types.AssignmentKey) ([]types.DocumentRecord, error) {
	return f.docs, nil
}

func (f *fakeBackend) GetMergedArtifact(_ context.Context, _ types.AssignmentKey) (*types.MergedArtifact, error) {
	return f.artifact, nil
}

func (f *fakeBackend) RequestMerge(_ context.Context, _ types.AssignmentKey, orderedIDs []uuid.UUID, fileName string) (*types.MergedArtifact, error) {
	if f.mergeErr != nil {
		return nil, f.mergeErr
	}
	f.lastName = fileName
	f.lastOrder = orderedIDs

	var total int64
	sizes := make(map[uuid.UUID]int64)
	for _, d := range f.docs {
		sizes[d.ID] = d.FileSize
	}
	for _, id := range orderedIDs {
		total += sizes[id]
	}
	f.artifact = &types.MergedArtifact{
		FileName:     fileName,
		FileSize:     total,
		GeneratedAt:  time.Now(),
		SourceDocIDs: orderedIDs,
	}
	return f.artifact, nil
}

func verifiedDoc(size int64, uploadedAt time.Time) types.DocumentRecord {
	return types.DocumentRecord{
		ID:                 uuid.New(),
		FileSize:           size,
		VerificationStatus: types.VerificationVerified,
		UploadedAt:         uploadedAt,
	}
}

func TestProposeOrder_VerificationOrderVerifiedOnly(t *testing.T) {
	base := time.Now()
	first := verifiedDoc(100, base)
	second := verifiedDoc(200, base.Add(time.Minute))
	pending := types.DocumentRecord{ID: uuid.New(), VerificationStatus: types.VerificationPending, UploadedAt: base}

	// Input order deliberately scrambled
	order := ProposeOrder([]types.DocumentRecord{second, pending, first})
	assert.Equal(t, []uuid.UUID{first.ID, second.ID}, order)
}

func TestMoveToPosition(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	moved := MoveToPosition(ids, ids[2], 0)
	assert.Equal(t, []uuid.UUID{ids[2], ids[0], ids[1]}, moved)

	// Clamp past the end
	moved = MoveToPosition(ids, ids[0], 99)
	assert.Equal(t, []uuid.UUID{ids[1], ids[2], ids[0]}, moved)

	// Unknown id leaves order unchanged
	moved = MoveToPosition(ids, uuid.New(), 1)
	assert.Equal(t, ids, moved)
}

func TestRequestMerge_Succeeds(t *testing.T) {
	base := time.Now()
	doc1 := verifiedDoc(5*1024*1024, base)
	doc2 := verifiedDoc(8*1024*1024, base.Add(time.Minute))
	backend := &fakeBackend{docs: []types.DocumentRecord{doc1, doc2}}

	a := &types.CandidateAssignment{
		CandidateID:   uuid.New(),
		ProjectID:     uuid.New(),
		RoleID:        uuid.New(),
		CandidateName: "Amira Hassan",
		RoleTitle:     "Staff Nurse",
	}

	o := New(backend)
	artifact, err := o.RequestMerge(context.Background(), a, []uuid.UUID{doc2.ID, doc1.ID})
	require.NoError(t, err)

	assert.Equal(t, int64(13*1024*1024), artifact.FileSize)
	assert.Equal(t, []uuid.UUID{doc2.ID, doc1.ID}, artifact.SourceDocIDs, "user order must be preserved")
	assert.Contains(t, artifact.FileName, "amira-hassan")
	assert.Contains(t, artifact.FileName, "staff-nurse")
}

func TestRequestMerge_EmptyInput(t *testing.T) {
	o := New(&fakeBackend{})
	_, err := o.RequestMerge(context.Background(), &types.CandidateAssignment{}, nil)
	var empty *ErrEmptyMergeInput
	assert.ErrorAs(t, err, &empty)
}

func TestRequestMerge_RejectsUnverifiedAndForeignDocs(t *testing.T) {
	doc := verifiedDoc(100, time.Now())
	backend := &fakeBackend{docs: []types.DocumentRecord{doc}}
	o := New(backend)

	foreign := uuid.New()
	_, err := o.RequestMerge(context.Background(), &types.CandidateAssignment{}, []uuid.UUID{doc.ID, foreign})
	var ineligible *ErrIneligibleDocuments
	require.ErrorAs(t, err, &ineligible)
	assert.Equal(t, []uuid.UUID{foreign}, ineligible.DocIDs)
}

func TestRequestMerge_BackendFailure(t *testing.T) {
	doc := verifiedDoc(100, time.Now())
	upstream := errors.New("unsupported document format")
	backend := &fakeBackend{docs: []types.DocumentRecord{doc}, mergeErr: upstream}
	o := New(backend)

	_, err := o.RequestMerge(context.Background(), &types.CandidateAssignment{}, []uuid.UUID{doc.ID})
	var failed *ErrMergeFailed
	require.ErrorAs(t, err, &failed)
	assert.ErrorIs(t, err, upstream)
	// The prior artifact is untouched
	assert.Nil(t, backend.artifact)
}

func TestIsStale(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	assert.False(t, IsStale([]uuid.UUID{a, b}, []uuid.UUID{b, a}), "same set, different order of ids is not stale")
	assert.True(t, IsStale([]uuid.UUID{a, b}, []uuid.UUID{a, b, c}), "a grown verified set makes the artifact stale")
	assert.True(t, IsStale([]uuid.UUID{a, b}, []uuid.UUID{a}), "a shrunk verified set makes the artifact stale")
	assert.True(t, IsStale([]uuid.UUID{a, b}, []uuid.UUID{a, c}))
	assert.False(t, IsStale(nil, nil))
}
