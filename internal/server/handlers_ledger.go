package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/ledger"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

// handleQueryForwardings returns ledger records newest-first, filtered by
// candidate, project, role, and a free-text search over recipient and notes.
func (s *Server) handleQueryForwardings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter ledger.Filter
	for param, target := range map[string]*uuid.UUID{
		"candidate_id": &filter.CandidateID,
		"project_id":   &filter.ProjectID,
		"role_id":      &filter.RoleID,
	} {
		if raw := q.Get(param); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				s.errorResponse(w, http.StatusBadRequest, "Invalid "+param)
				return
			}
			*target = id
		}
	}
	filter.Search = q.Get("search")

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	records, meta, err := s.ledger.Query(r.Context(), filter, page, limit)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if records == nil {
		records = []*types.ForwardingRecord{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"records": records,
		"meta":    meta,
	})
}

// handleLatestForwarding returns the candidate's most recent dispatch record,
// or 404 when the candidate was never forwarded.
func (s *Server) handleLatestForwarding(w http.ResponseWriter, r *http.Request) {
	candidateID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	record, err := s.ledger.LatestForCandidate(r.Context(), candidateID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if record == nil {
		s.errorResponse(w, http.StatusNotFound, "No forwarding records for this candidate")
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}
