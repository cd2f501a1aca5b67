// Package selection maintains the working set of candidates inside a bulk
// operation and each candidate's document selection.
package selection

import (
	"github.com/google/uuid"
)

// Selection is one candidate's choice of what to dispatch: either the merged
// artifact sentinel alone, or a set of individual document ids. The two are
// mutually exclusive.
type Selection struct {
	Merged bool        `json:"merged"`
	DocIDs []uuid.UUID `json:"doc_ids,omitempty"`
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return !s.Merged && len(s.DocIDs) == 0
}

// Contains reports whether docID is among the individual picks.
func (s Selection) Contains(docID uuid.UUID) bool {
	for _, id := range s.DocIDs {
		if id == docID {
			return true
		}
	}
	return false
}

// check enforces the exclusivity invariant: merged XOR individual picks.
func (s Selection) check() error {
	if s.Merged && len(s.DocIDs) > 0 {
		return &ErrInvariantViolation{DocCount: len(s.DocIDs)}
	}
	return nil
}

// ToggleMerged flips the merged sentinel. If the sentinel is already set the
// selection clears to empty; otherwise the sentinel replaces any individual
// picks. When no merged artifact exists the toggle is a no-op.
func ToggleMerged(s Selection, artifactAvailable bool) (Selection, error) {
	if err := s.check(); err != nil {
		return s, err
	}
	if s.Merged {
		return Selection{}, nil
	}
	if !artifactAvailable {
		return s, nil
	}
	return Selection{Merged: true}, nil
}

// ToggleDocument flips an individual document pick. The merged sentinel, if
// set, is stripped first. Unverified documents are never selected; toggling
// one is a no-op unless it is already selected, in which case it is removed.
func ToggleDocument(s Selection, docID uuid.UUID, verified map[uuid.UUID]bool) (Selection, error) {
	if err := s.check(); err != nil {
		return s, err
	}
	if s.Contains(docID) {
		next := Selection{DocIDs: make([]uuid.UUID, 0, len(s.DocIDs)-1)}
		for _, id := range s.DocIDs {
			if id != docID {
				next.DocIDs = append(next.DocIDs, id)
			}
		}
		return next, nil
	}
	if !verified[docID] {
		return s, nil
	}
	if s.Merged {
		s = Selection{}
	}
	next := Selection{DocIDs: append(append([]uuid.UUID{}, s.DocIDs...), docID)}
	return next, next.check()
}
