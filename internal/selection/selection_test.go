package selection

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleMerged(t *testing.T) {
	docA := uuid.New()

	// No artifact available: toggling the sentinel is a no-op
	sel, err := ToggleMerged(Selection{}, false)
	require.NoError(t, err)
	assert.True(t, sel.Empty())

	// Artifact available: sentinel replaces individual picks
	sel, err = ToggleMerged(Selection{DocIDs: []uuid.UUID{docA}}, true)
	require.NoError(t, err)
	assert.True(t, sel.Merged)
	assert.Empty(t, sel.DocIDs)

	// Toggling again clears to empty
	sel, err = ToggleMerged(sel, true)
	require.NoError(t, err)
	assert.True(t, sel.Empty())
}

func TestToggleDocument(t *testing.T) {
	docA := uuid.New()
	docB := uuid.New()
	verified := map[uuid.UUID]bool{docA: true, docB: true}

	sel, err := ToggleDocument(Selection{}, docA, verified)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{docA}, sel.DocIDs)

	sel, err = ToggleDocument(sel, docB, verified)
	require.NoError(t, err)
	assert.Len(t, sel.DocIDs, 2)

	// Toggling a selected id removes it
	sel, err = ToggleDocument(sel, docA, verified)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{docB}, sel.DocIDs)
}

func TestToggleDocument_StripsMergedSentinel(t *testing.T) {
	docA := uuid.New()
	verified := map[uuid.UUID]bool{docA: true}

	sel, err := ToggleMerged(Selection{}, true)
	require.NoError(t, err)
	require.True(t, sel.Merged)

	// Toggling an individual document first clears the sentinel
	sel, err = ToggleDocument(sel, docA, verified)
	require.NoError(t, err)
	assert.False(t, sel.Merged)
	assert.Equal(t, []uuid.UUID{docA}, sel.DocIDs)
}

func TestToggleDocument_NeverSelectsUnverified(t *testing.T) {
	pending := uuid.New()

	sel, err := ToggleDocument(Selection{}, pending, map[uuid.UUID]bool{})
	require.NoError(t, err)
	assert.True(t, sel.Empty())
}

func TestToggleDocument_UnverifiedKeepsMergedSentinel(t *testing.T) {
	pending := uuid.New()

	sel, err := ToggleMerged(Selection{}, true)
	require.NoError(t, err)
	require.True(t, sel.Merged)

	// A no-op toggle must not disturb the sentinel
	sel, err = ToggleDocument(sel, pending, map[uuid.UUID]bool{})
	require.NoError(t, err)
	assert.True(t, sel.Merged)
	assert.Empty(t, sel.DocIDs)
}

func TestToggleDocument_InvariantHeldOverSequences(t *testing.T) {
	docs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	verified := map[uuid.UUID]bool{docs[0]: true, docs[1]: true, docs[2]: true}

	sel := Selection{}
	var err error
	steps := []func(Selection) (Selection, error){
		func(s Selection) (Selection, error) { return ToggleDocument(s, docs[0], verified) },
		func(s Selection) (Selection, error) { return ToggleMerged(s, true) },
		func(s Selection) (Selection, error) { return ToggleDocument(s, docs[1], verified) },
		func(s Selection) (Selection, error) { return ToggleDocument(s, docs[2], verified) },
		func(s Selection) (Selection, error) { return ToggleMerged(s, true) },
		func(s Selection) (Selection, error) { return ToggleMerged(s, true) },
		func(s Selection) (Selection, error) { return ToggleDocument(s, docs[0], verified) },
	}
	for i, step := range steps {
		sel, err = step(sel)
		require.NoError(t, err, "step %d", i)
		// merged XOR individual set, never both
		assert.False(t, sel.Merged && len(sel.DocIDs) > 0, "step %d broke exclusivity", i)
	}
}

func TestToggleMerged_RejectsCorruptSelection(t *testing.T) {
	corrupt := Selection{Merged: true, DocIDs: []uuid.UUID{uuid.New()}}

	_, err := ToggleMerged(corrupt, true)
	var inv *ErrInvariantViolation
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, 1, inv.DocCount)
}
