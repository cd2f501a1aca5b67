package dispatch

import (
	"regexp"

	"github.com/google/uuid"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/selection"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

// CombinedSizeLimit is the maximum total attachment size for combined
// delivery: 20 MiB.
const CombinedSizeLimit = 20 * 1024 * 1024

// emailPattern is an RFC-5322-equivalent local@domain check. Full grammar
// support (quoted locals, comments) is not needed; the backend mailer
// rejects anything it cannot address.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)

// ValidEmail reports whether the address passes the recipient check.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ForwardInput is everything the validator needs to judge one
// forward-to-client submission. Sizes are supplied by the caller from the
// document store's current records so the check always runs against fresh
// data.
type ForwardInput struct {
	Batch          *selection.Batch
	Recipient      string
	PerCandidate   map[uuid.UUID]string // optional per-candidate recipient overrides
	DeliveryMethod types.DeliveryMethod
	DocSizes       map[uuid.UUID]int64 // bytes per individual document id
	MergedSizes    map[uuid.UUID]int64 // bytes of the merged artifact, per assignment id
	SummarySize    int64               // attached summary file, if any
}

// ValidateForward re-runs every submission rule. Results are computed, never
// cached: selections can change between modal opens.
func ValidateForward(in ForwardInput) error {
	if count, missing := in.Batch.IncompleteCount(); count > 0 {
		return &ErrIncompleteSelection{Count: count, AssignmentIDs: missing}
	}

	for _, id := range in.Batch.Visible() {
		recipient := in.Recipient
		if override, ok := in.PerCandidate[id]; ok {
			recipient = override
		}
		if !ValidEmail(recipient) {
			return &ErrRecipientInvalid{Email: recipient}
		}
	}

	if in.DeliveryMethod == types.DeliveryCombined {
		if total := combinedTotal(in); total > CombinedSizeLimit {
			return &ErrPayloadTooLarge{TotalBytes: total, LimitBytes: CombinedSizeLimit}
		}
	}
	return nil
}

// combinedTotal sums the selected bytes across the whole batch: the merged
// artifact's size where the sentinel is chosen, individual document sizes
// otherwise, plus the summary attachment.
func combinedTotal(in ForwardInput) int64 {
	total := in.SummarySize
	for _, id := range in.Batch.Visible() {
		sel := in.Batch.SelectionFor(id)
		if sel.Merged {
			total += in.MergedSizes[id]
			continue
		}
		for _, docID := range sel.DocIDs {
			total += in.DocSizes[docID]
		}
	}
	return total
}
