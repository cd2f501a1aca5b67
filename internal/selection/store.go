package selection

import (
	"sync"

	"github.com/google/uuid"
)

// DefaultPageSize is used when a batch is opened without an explicit size.
const DefaultPageSize = 10

// Batch is the ephemeral working set of one bulk operation: the candidate
// assignments still visible, each one's Selection, and the pagination cursor
// the display layer is looking at. Created when a bulk modal opens, discarded
// on close.
type Batch struct {
	ID          uuid.UUID
	PageSize    int
	CurrentPage int // 1-based

	visible    []uuid.UUID
	selections map[uuid.UUID]Selection
}

// NewBatch opens a batch over the given assignment ids. Duplicate ids are
// collapsed; order is preserved.
func NewBatch(assignmentIDs []uuid.UUID, pageSize int) *Batch {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	b := &Batch{
		ID:          uuid.New(),
		PageSize:    pageSize,
		CurrentPage: 1,
		selections:  make(map[uuid.UUID]Selection),
	}
	seen := make(map[uuid.UUID]bool)
	for _, id := range assignmentIDs {
		if !seen[id] {
			seen[id] = true
			b.visible = append(b.visible, id)
		}
	}
	return b
}

// Visible returns the assignment ids still in play, in display order.
func (b *Batch) Visible() []uuid.UUID {
	out := make([]uuid.UUID, len(b.visible))
	copy(out, b.visible)
	return out
}

// Contains reports whether the assignment is still in the batch.
func (b *Batch) Contains(id uuid.UUID) bool {
	for _, v := range b.visible {
		if v == id {
			return true
		}
	}
	return false
}

// SelectionFor returns the assignment's current Selection (zero value when
// nothing has been chosen yet).
func (b *Batch) SelectionFor(id uuid.UUID) Selection {
	return b.selections[id]
}

// SetSelection replaces the assignment's Selection after checking the
// exclusivity invariant. Assignments no longer in the batch are ignored so a
// stale write cannot resurrect a removed candidate.
func (b *Batch) SetSelection(id uuid.UUID, s Selection) error {
	if err := s.check(); err != nil {
		return err
	}
	if !b.Contains(id) {
		return nil
	}
	b.selections[id] = s
	return nil
}

// RemoveCandidate drops the assignment from the visible set and discards its
// Selection. It returns true when the batch became empty and should be
// closed. Removing an id that is already gone is a no-op. The current page is
// clamped so it never exceeds the last page of the remaining set.
func (b *Batch) RemoveCandidate(id uuid.UUID) (closed bool) {
	for i, v := range b.visible {
		if v == id {
			b.visible = append(b.visible[:i], b.visible[i+1:]...)
			break
		}
	}
	delete(b.selections, id)

	if len(b.visible) == 0 {
		return true
	}
	if max := b.maxPage(); b.CurrentPage > max {
		b.CurrentPage = max
	}
	return false
}

// maxPage is ceil(len(visible)/pageSize), never less than 1.
func (b *Batch) maxPage() int {
	pages := (len(b.visible) + b.PageSize - 1) / b.PageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// IncompleteCount returns how many visible assignments still have an empty
// Selection, with their ids.
func (b *Batch) IncompleteCount() (int, []uuid.UUID) {
	var missing []uuid.UUID
	for _, id := range b.visible {
		if b.selections[id].Empty() {
			missing = append(missing, id)
		}
	}
	return len(missing), missing
}

// Store holds the open batches. Access is serialized; concurrent edits to the
// same Selection are last-write-wins.
type Store struct {
	mu      sync.Mutex
	batches map[uuid.UUID]*Batch
}

// NewStore creates an empty batch store.
func NewStore() *Store {
	return &Store{batches: make(map[uuid.UUID]*Batch)}
}

// Open creates and registers a new batch.
func (s *Store) Open(assignmentIDs []uuid.UUID, pageSize int) *Batch {
	b := NewBatch(assignmentIDs, pageSize)
	s.mu.Lock()
	s.batches[b.ID] = b
	s.mu.Unlock()
	return b
}

// Get returns the batch, or ErrBatchNotFound when it was never opened or has
// been closed.
func (s *Store) Get(id uuid.UUID) (*Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batches[id]
	if !ok {
		return nil, &ErrBatchNotFound{BatchID: id.String()}
	}
	return b, nil
}

// Close discards the batch and all its selections. Closing an unknown batch
// is a no-op.
func (s *Store) Close(id uuid.UUID) {
	s.mu.Lock()
	delete(s.batches, id)
	s.mu.Unlock()
}
