package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/pipeline"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/selection"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

// batchView is the batch state exposed to the display layer.
type batchView struct {
	ID          uuid.UUID                         `json:"id"`
	Visible     []uuid.UUID                       `json:"visible"`
	Selections  map[uuid.UUID]selection.Selection `json:"selections"`
	CurrentPage int                               `json:"current_page"`
	PageSize    int                               `json:"page_size"`
	Excluded    []uuid.UUID                       `json:"excluded,omitempty"`
}

func viewOf(b *selection.Batch, excluded []uuid.UUID) batchView {
	view := batchView{
		ID:          b.ID,
		Visible:     b.Visible(),
		Selections:  make(map[uuid.UUID]selection.Selection),
		CurrentPage: b.CurrentPage,
		PageSize:    b.PageSize,
		Excluded:    excluded,
	}
	for _, id := range view.Visible {
		view.Selections[id] = b.SelectionFor(id)
	}
	return view
}

// handleOpenBatch opens a bulk working set over the requested assignments.
// Assignments the pipeline does not permit for the action are excluded and
// reported back, not silently dropped.
func (s *Server) handleOpenBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action        string      `json:"action"`
		AssignmentIDs []uuid.UUID `json:"assignment_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.AssignmentIDs) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "assignment_ids is required")
		return
	}

	var eligible func(*types.CandidateAssignment) bool
	switch req.Action {
	case "forward":
		eligible = pipeline.EligibleForForward
	case "transfer":
		eligible = pipeline.EligibleForTransfer
	case "interview":
		eligible = pipeline.EligibleForInterview
	default:
		s.errorResponse(w, http.StatusBadRequest, "action must be one of: forward, transfer, interview")
		return
	}

	assignments, err := s.db.ListAssignmentsByIDs(r.Context(), req.AssignmentIDs)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	byID := make(map[uuid.UUID]*types.CandidateAssignment, len(assignments))
	for _, a := range assignments {
		byID[a.ID] = a
	}

	var kept, excluded []uuid.UUID
	for _, id := range req.AssignmentIDs {
		a, ok := byID[id]
		if ok && eligible(a) {
			kept = append(kept, id)
		} else {
			excluded = append(excluded, id)
		}
	}
	if len(kept) == 0 {
		s.errorResponse(w, http.StatusUnprocessableEntity, "No assignments are eligible for this action")
		return
	}

	batch := s.store.Open(kept, s.pageSize)
	s.jsonResponse(w, http.StatusCreated, viewOf(batch, excluded))
}

// handleGetBatch returns the batch's current state.
func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	batch, ok := s.batchFromPath(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, viewOf(batch, nil))
}

// handleCloseBatch discards the batch.
func (s *Server) handleCloseBatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid batch ID")
		return
	}
	s.store.Close(id)
	w.WriteHeader(http.StatusNoContent)
}

// handleRemoveCandidate drops one candidate from the batch. Removing the
// last candidate closes the batch.
func (s *Server) handleRemoveCandidate(w http.ResponseWriter, r *http.Request) {
	batch, ok := s.batchFromPath(w, r)
	if !ok {
		return
	}
	assignmentID, err := uuid.Parse(r.PathValue("assignment_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid assignment ID")
		return
	}

	if closed := batch.RemoveCandidate(assignmentID); closed {
		s.store.Close(batch.ID)
		s.jsonResponse(w, http.StatusOK, map[string]any{"closed": true})
		return
	}
	s.jsonResponse(w, http.StatusOK, viewOf(batch, nil))
}

// handleToggleSelection flips one document pick or the merged sentinel for a
// candidate in the batch.
func (s *Server) handleToggleSelection(w http.ResponseWriter, r *http.Request) {
	batch, ok := s.batchFromPath(w, r)
	if !ok {
		return
	}
	assignmentID, err := uuid.Parse(r.PathValue("assignment_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid assignment ID")
		return
	}
	if !batch.Contains(assignmentID) {
		s.errorResponse(w, http.StatusNotFound, "Candidate is not in this batch")
		return
	}

	var req struct {
		DocID  *uuid.UUID `json:"doc_id,omitempty"`
		Merged bool       `json:"merged,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if (req.DocID == nil) == !req.Merged {
		s.errorResponse(w, http.StatusBadRequest, "Provide exactly one of doc_id or merged")
		return
	}

	assignment, err := s.db.GetAssignment(r.Context(), assignmentID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if assignment == nil {
		s.errorResponse(w, http.StatusNotFound, "Assignment not found")
		return
	}

	current := batch.SelectionFor(assignmentID)
	var next selection.Selection

	if req.Merged {
		artifact, err := s.orchestrator.CurrentArtifact(r.Context(), assignment.Key())
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
		next, err = selection.ToggleMerged(current, artifact != nil)
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
	} else {
		docs, err := s.backend.ListVerifiedDocuments(r.Context(), assignment.Key())
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
		verified := make(map[uuid.UUID]bool, len(docs))
		for _, d := range docs {
			if d.Verified() {
				verified[d.ID] = true
			}
		}
		next, err = selection.ToggleDocument(current, *req.DocID, verified)
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
	}

	if err := batch.SetSelection(assignmentID, next); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"assignment_id": assignmentID,
		"selection":     next,
	})
}

// batchFromPath resolves the {id} path segment to an open batch.
func (s *Server) batchFromPath(w http.ResponseWriter, r *http.Request) (*selection.Batch, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid batch ID")
		return nil, false
	}
	batch, err := s.store.Get(id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return nil, false
	}
	return batch, true
}
