package dispatch

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

// TransferKey is the typed grouping key for processing transfers. Candidates
// whose items compare equal share one backend call. Struct equality avoids
// the collisions a delimiter-joined string key would suffer when notes
// contain the delimiter.
type TransferKey struct {
	AssignedUserID uuid.UUID `json:"assigned_user_id"`
	Notes          string    `json:"notes"`
}

// Partition is one grouped backend call: a key and the assignment ids that
// share it.
type Partition struct {
	Key           TransferKey `json:"key"`
	AssignmentIDs []uuid.UUID `json:"assignment_ids"`
}

// GroupTransfers partitions items by exact key equality. Partition order and
// member order both follow first appearance, so the result is deterministic
// for a given input. Duplicate assignment ids collapse into their first
// occurrence.
func GroupTransfers(items []types.TransferItem) []Partition {
	index := make(map[TransferKey]int)
	seen := make(map[uuid.UUID]bool)
	var partitions []Partition

	for _, item := range items {
		if seen[item.AssignmentID] {
			continue
		}
		seen[item.AssignmentID] = true

		key := TransferKey{AssignedUserID: item.AssignedUserID, Notes: item.Notes}
		i, ok := index[key]
		if !ok {
			i = len(partitions)
			index[key] = i
			partitions = append(partitions, Partition{Key: key})
		}
		partitions[i].AssignmentIDs = append(partitions[i].AssignmentIDs, item.AssignmentID)
	}
	return partitions
}

// Flatten returns the union of all partition members in partition order.
func Flatten(partitions []Partition) []uuid.UUID {
	var out []uuid.UUID
	for _, p := range partitions {
		out = append(out, p.AssignmentIDs...)
	}
	return out
}

// VerifyCompleteness checks the grouping invariant: the flattened partitions
// must contain every original assignment exactly once, no drops and no
// duplicates.
func VerifyCompleteness(partitions []Partition, original []uuid.UUID) error {
	want := make(map[uuid.UUID]bool, len(original))
	for _, id := range original {
		want[id] = true
	}

	got := make(map[uuid.UUID]bool)
	for _, id := range Flatten(partitions) {
		if got[id] {
			return fmt.Errorf("grouping produced duplicate assignment %s", id)
		}
		got[id] = true
		if !want[id] {
			return fmt.Errorf("grouping introduced unknown assignment %s", id)
		}
	}
	for id := range want {
		if !got[id] {
			return fmt.Errorf("grouping dropped assignment %s", id)
		}
	}
	return nil
}
