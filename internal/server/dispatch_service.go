package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/dispatch"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/ledger"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/pipeline"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/selection"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

// forwardOutcome is what a forward submission returns to the display layer.
type forwardOutcome struct {
	Records []*types.ForwardingRecord `json:"records"`
	Sent    int                       `json:"sent"`
	Failed  int                       `json:"failed"`
}

// submitForward runs the full forward-to-client flow for one batch: re-check
// gating, validate against fresh document sizes, write queued ledger records,
// issue the single backend call, settle the ledger, and advance the pipeline
// for delivered candidates.
func (s *Server) submitForward(ctx context.Context, batch *selection.Batch, req *types.ForwardSubmitRequest) (*forwardOutcome, error) {
	assignments, err := s.db.ListAssignmentsByIDs(ctx, batch.Visible())
	if err != nil {
		return nil, fmt.Errorf("failed to load batch assignments: %w", err)
	}
	byID := make(map[uuid.UUID]*types.CandidateAssignment, len(assignments))
	for _, a := range assignments {
		if !pipeline.EligibleForForward(a) {
			return nil, fmt.Errorf("assignment %s is no longer eligible for forwarding (status %s)", a.ID, a.Status)
		}
		byID[a.ID] = a
	}
	for _, id := range batch.Visible() {
		if byID[id] == nil {
			return nil, fmt.Errorf("assignment %s no longer exists", id)
		}
	}

	// Sizes come from the document store's current records, never from
	// whatever the display layer showed when the modal opened.
	docSizes := make(map[uuid.UUID]int64)
	mergedSizes := make(map[uuid.UUID]int64)
	for _, id := range batch.Visible() {
		key := byID[id].Key()
		docs, err := s.backend.ListVerifiedDocuments(ctx, key)
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			docSizes[d.ID] = d.FileSize
		}
		if batch.SelectionFor(id).Merged {
			artifact, err := s.backend.GetMergedArtifact(ctx, key)
			if err != nil {
				return nil, err
			}
			if artifact == nil {
				return nil, fmt.Errorf("assignment %s selects the merged artifact but none exists", id)
			}
			mergedSizes[id] = artifact.FileSize
		}
	}

	if err := dispatch.ValidateForward(dispatch.ForwardInput{
		Batch:          batch,
		Recipient:      req.Recipient,
		PerCandidate:   req.PerCandidate,
		DeliveryMethod: req.DeliveryMethod,
		DocSizes:       docSizes,
		MergedSizes:    mergedSizes,
	}); err != nil {
		return nil, err
	}

	isBulk := len(batch.Visible()) > 1
	payload := dispatch.ForwardPayload{
		Recipient:      req.Recipient,
		CC:             req.CC,
		BCC:            req.BCC,
		DeliveryMethod: req.DeliveryMethod,
		Notes:          req.Notes,
	}

	// One queued record per candidate, written before anything leaves. A
	// write failure abandons the submission; records already queued are
	// settled so the ledger never reports an attempt that was not made.
	ledgerIDs := make(map[uuid.UUID]uuid.UUID, len(batch.Visible()))
	for _, id := range batch.Visible() {
		a := byID[id]
		sel := batch.SelectionFor(id)
		recipient := recipientFor(req, id)
		sendType := types.SendIndividual
		if sel.Merged {
			sendType = types.SendMerged
		}

		recordID, err := s.ledger.Append(ctx, &types.ForwardingRecord{
			CandidateID:    a.CandidateID,
			ProjectID:      a.ProjectID,
			RoleID:         a.RoleID,
			RecipientEmail: recipient,
			CC:             req.CC,
			BCC:            req.BCC,
			SendType:       sendType,
			DeliveryMethod: req.DeliveryMethod,
			IsBulk:         isBulk,
			Notes:          req.Notes,
		})
		if err != nil {
			s.settleQueued(ctx, ledgerIDs, "submission abandoned: ledger write failed", time.Now())
			return nil, err
		}
		ledgerIDs[id] = recordID

		payload.Selections = append(payload.Selections, dispatch.CandidateSelection{
			AssignmentID: id,
			Recipient:    recipient,
			SendType:     sendType,
			DocIDs:       sel.DocIDs,
		})
	}

	records, err := s.dispatcher.Forward(ctx, payload)
	now := time.Now()
	if err != nil {
		// The whole call failed; settle every queued record.
		s.settleQueued(ctx, ledgerIDs, err.Error(), now)
		return nil, err
	}

	// The backend reports per-candidate outcomes positionally, in selection
	// order. Settle every record before touching pipeline statuses so a
	// status-write failure cannot leave queued records behind.
	statuses := make(map[uuid.UUID]types.ForwardingStatus, len(batch.Visible()))
	sendErrs := make(map[uuid.UUID]string, len(batch.Visible()))
	for i, id := range batch.Visible() {
		status := types.ForwardingFailed
		sendErr := "backend returned no outcome for this candidate"
		if i < len(records) {
			status = records[i].Status
			sendErr = records[i].Error
			if status != types.ForwardingFailed {
				status = types.ForwardingSent
				sendErr = ""
			}
		}
		if err := s.ledger.Resolve(ctx, ledgerIDs[id], status, sendErr, now); err != nil {
			s.settleQueued(ctx, ledgerIDs, "settlement interrupted: "+err.Error(), now)
			return nil, err
		}
		statuses[id] = status
		sendErrs[id] = sendErr
	}

	outcome := &forwardOutcome{}
	for _, id := range batch.Visible() {
		a := byID[id]
		status := statuses[id]

		record := &types.ForwardingRecord{
			ID:             ledgerIDs[id],
			CandidateID:    a.CandidateID,
			ProjectID:      a.ProjectID,
			RoleID:         a.RoleID,
			RecipientEmail: recipientFor(req, id),
			CC:             req.CC,
			BCC:            req.BCC,
			SendType:       sendTypeOf(batch.SelectionFor(id)),
			DeliveryMethod: req.DeliveryMethod,
			Status:         status,
			IsBulk:         isBulk,
			Notes:          req.Notes,
			Error:          sendErrs[id],
			CreatedAt:      now,
		}

		if status == types.ForwardingSent {
			outcome.Sent++
			sentAt := now
			record.SentAt = &sentAt

			next, err := pipeline.Transition(a.Status, types.StatusSentToClient, "")
			if err != nil {
				return nil, err
			}
			if err := s.db.UpdateAssignmentStatus(ctx, a.ID, next, ""); err != nil {
				return nil, err
			}
		} else {
			outcome.Failed++
		}
		outcome.Records = append(outcome.Records, record)
	}

	if s.printer != nil {
		s.printer.PrintForwardOutcome(outcome.Records)
	}
	return outcome, nil
}

// settleQueued best-effort settles queued ledger records to failed. Records
// that already reached a terminal status are left alone; other settlement
// failures are logged, never surfaced, so they cannot mask the error that
// triggered the cleanup.
func (s *Server) settleQueued(ctx context.Context, ledgerIDs map[uuid.UUID]uuid.UUID, reason string, at time.Time) {
	for _, recordID := range ledgerIDs {
		if err := s.ledger.Resolve(ctx, recordID, types.ForwardingFailed, reason, at); err != nil {
			var immutable *ledger.ErrRecordImmutable
			if !errors.As(err, &immutable) {
				log.Printf("Error settling ledger record %s: %v", recordID, err)
			}
		}
	}
}

// recipientFor returns the assignment's recipient: the per-candidate
// override when present, the shared recipient otherwise.
func recipientFor(req *types.ForwardSubmitRequest, id uuid.UUID) string {
	if override, ok := req.PerCandidate[id]; ok {
		return override
	}
	return req.Recipient
}

func sendTypeOf(sel selection.Selection) types.SendType {
	if sel.Merged {
		return types.SendMerged
	}
	return types.SendIndividual
}

// submitTransfer runs the bulk processing handoff: re-check gating, group by
// transfer parameters, dispatch partitions concurrently, and advance the
// candidates that went through. Failed partitions keep their prior status and
// come back for explicit resubmission.
func (s *Server) submitTransfer(ctx context.Context, batch *selection.Batch, req *types.TransferSubmitRequest) (*dispatch.TransferResult, error) {
	itemsByID := make(map[uuid.UUID]types.TransferItem, len(req.Items))
	for _, item := range req.Items {
		if !batch.Contains(item.AssignmentID) {
			return nil, fmt.Errorf("assignment %s is not in this batch", item.AssignmentID)
		}
		itemsByID[item.AssignmentID] = item
	}
	for _, id := range batch.Visible() {
		if _, ok := itemsByID[id]; !ok {
			return nil, fmt.Errorf("no transfer parameters provided for assignment %s", id)
		}
	}

	assignments, err := s.db.ListAssignmentsByIDs(ctx, batch.Visible())
	if err != nil {
		return nil, fmt.Errorf("failed to load batch assignments: %w", err)
	}
	byID := make(map[uuid.UUID]*types.CandidateAssignment, len(assignments))
	for _, a := range assignments {
		if !pipeline.EligibleForTransfer(a) {
			return nil, fmt.Errorf("assignment %s is not eligible for processing transfer (status %s)", a.ID, a.Status)
		}
		byID[a.ID] = a
	}
	for _, id := range batch.Visible() {
		if byID[id] == nil {
			return nil, fmt.Errorf("assignment %s no longer exists", id)
		}
	}

	result, dispatchErr := s.dispatcher.Transfer(ctx, req.Items)
	if result != nil {
		for _, part := range result.Succeeded {
			for _, id := range part.AssignmentIDs {
				if err := s.db.UpdateAssignmentStatus(ctx, id, types.StatusTransferredToProcessing, ""); err != nil {
					return result, err
				}
			}
		}
		if s.printer != nil {
			s.printer.PrintTransferResult(result)
		}
	}
	return result, dispatchErr
}
