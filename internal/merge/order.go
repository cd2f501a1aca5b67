// Package merge builds and refreshes the single merged artifact derived from
// a candidate's verified documents, and detects when an existing artifact is
// outdated.
package merge

import (
	"sort"

	"github.com/google/uuid"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

// ProposeOrder returns the initial merge input: every verified document, in
// verification order. Callers may reorder and deselect from this list before
// requesting a merge.
func ProposeOrder(docs []types.DocumentRecord) []uuid.UUID {
	verified := make([]types.DocumentRecord, 0, len(docs))
	for _, d := range docs {
		if d.Verified() {
			verified = append(verified, d)
		}
	}
	sort.SliceStable(verified, func(i, j int) bool {
		return verified[i].UploadedAt.Before(verified[j].UploadedAt)
	})

	order := make([]uuid.UUID, len(verified))
	for i, d := range verified {
		order[i] = d.ID
	}
	return order
}

// MoveToPosition returns a new order with docID moved to index pos. Positions
// past the end clamp to the end; an id not present leaves the order
// unchanged.
func MoveToPosition(order []uuid.UUID, docID uuid.UUID, pos int) []uuid.UUID {
	idx := -1
	for i, id := range order {
		if id == docID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return append([]uuid.UUID{}, order...)
	}

	rest := make([]uuid.UUID, 0, len(order)-1)
	rest = append(rest, order[:idx]...)
	rest = append(rest, order[idx+1:]...)

	if pos < 0 {
		pos = 0
	}
	if pos > len(rest) {
		pos = len(rest)
	}

	out := make([]uuid.UUID, 0, len(order))
	out = append(out, rest[:pos]...)
	out = append(out, docID)
	out = append(out, rest[pos:]...)
	return out
}

// Deselect returns the order with docID removed.
func Deselect(order []uuid.UUID, docID uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(order))
	for _, id := range order {
		if id != docID {
			out = append(out, id)
		}
	}
	return out
}
