package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/merge"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

// handleGetMerge returns the assignment's current merged artifact together
// with the proposed merge order and a staleness flag. Staleness is computed
// on every open, never cached.
func (s *Server) handleGetMerge(w http.ResponseWriter, r *http.Request) {
	assignment, ok := s.assignmentFromPath(w, r)
	if !ok {
		return
	}
	key := assignment.Key()

	docs, err := s.backend.ListVerifiedDocuments(r.Context(), key)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	artifact, err := s.orchestrator.CurrentArtifact(r.Context(), key)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	proposed := merge.ProposeOrder(docs)
	resp := map[string]any{
		"documents":      docs,
		"proposed_order": proposed,
		"artifact":       artifact,
	}
	if artifact != nil {
		resp["stale"] = merge.IsStale(artifact.SourceDocIDs, proposed)
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleRequestMerge builds (or rebuilds) the merged artifact from the
// caller's ordered selection. Any selection pointing at the previous
// artifact must be re-checked by the caller afterwards.
func (s *Server) handleRequestMerge(w http.ResponseWriter, r *http.Request) {
	assignment, ok := s.assignmentFromPath(w, r)
	if !ok {
		return
	}

	var req types.MergeSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	artifact, err := s.orchestrator.RequestMerge(r.Context(), assignment, req.OrderedDocIDs)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, artifact)
}

// assignmentFromPath resolves the {id} path segment to an assignment row.
func (s *Server) assignmentFromPath(w http.ResponseWriter, r *http.Request) (*types.CandidateAssignment, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid assignment ID")
		return nil, false
	}
	assignment, err := s.db.GetAssignment(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return nil, false
	}
	if assignment == nil {
		s.errorResponse(w, http.StatusNotFound, "Assignment not found")
		return nil, false
	}
	return assignment, true
}
