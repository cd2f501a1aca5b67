package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/dispatch"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

// handleSubmitForward sends the batch's selections to a client. The batch is
// closed once the backend accepts the payload; per-candidate failures are
// reported in the outcome, not retried through the batch.
func (s *Server) handleSubmitForward(w http.ResponseWriter, r *http.Request) {
	batch, ok := s.batchFromPath(w, r)
	if !ok {
		return
	}

	var req types.ForwardSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.BatchID = batch.ID
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	outcome, err := s.submitForward(r.Context(), batch, &req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.store.Close(batch.ID)
	s.jsonResponse(w, http.StatusOK, outcome)
}

// handleSubmitTransfer hands the batch's candidates to processing. Succeeded
// candidates leave the batch; failed partitions stay in it so the recruiter
// can resubmit exactly those.
func (s *Server) handleSubmitTransfer(w http.ResponseWriter, r *http.Request) {
	batch, ok := s.batchFromPath(w, r)
	if !ok {
		return
	}

	var req types.TransferSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.BatchID = batch.ID
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	result, err := s.submitTransfer(r.Context(), batch, &req)

	var partial *dispatch.ErrPartialFailure
	switch {
	case err == nil:
		s.store.Close(batch.ID)
		s.jsonResponse(w, http.StatusOK, result)
	case errors.As(err, &partial):
		for _, part := range result.Succeeded {
			for _, id := range part.AssignmentIDs {
				if closed := batch.RemoveCandidate(id); closed {
					s.store.Close(batch.ID)
				}
			}
		}
		s.jsonResponse(w, http.StatusMultiStatus, result)
	default:
		s.errorResponse(w, HTTPStatus(err), err.Error())
	}
}
