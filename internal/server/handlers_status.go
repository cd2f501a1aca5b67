package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/pipeline"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

// handleRecordClientDecisions records the client's shortlist decision for a
// set of sent candidates in one move. Any assignment the transition rejects
// fails the whole request so no subset of decisions is half-recorded.
func (s *Server) handleRecordClientDecisions(w http.ResponseWriter, r *http.Request) {
	var req types.ClientDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
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
	for _, id := range req.AssignmentIDs {
		a := byID[id]
		if a == nil {
			s.errorResponse(w, http.StatusNotFound, "Assignment not found: "+id.String())
			return
		}
		if _, err := pipeline.Transition(a.Status, req.Decision, req.Reason); err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
	}

	recorded := make([]uuid.UUID, 0, len(req.AssignmentIDs))
	for _, id := range req.AssignmentIDs {
		if err := s.db.UpdateAssignmentStatus(r.Context(), id, req.Decision, req.Reason); err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		recorded = append(recorded, id)
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"recorded": recorded,
		"decision": req.Decision,
	})
}

// handleArchiveProject archives every assignment under a project. Archived
// assignments are excluded from all bulk actions but stay queryable.
func (s *Server) handleArchiveProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	archived, err := s.db.ArchiveProject(r.Context(), projectID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"project_id": projectID,
		"archived":   archived,
	})
}

// handleGetAssignment returns one assignment. The interview-expired flag is
// derived from the clock at read time; it is never stored.
func (s *Server) handleGetAssignment(w http.ResponseWriter, r *http.Request) {
	assignment, ok := s.assignmentFromPath(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"assignment": assignment,
		"expired":    assignment.InterviewExpired(time.Now()),
	})
}

// handleUpdateStatus moves one assignment through the pipeline state machine.
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	assignment, ok := s.assignmentFromPath(w, r)
	if !ok {
		return
	}

	var req types.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	next, err := pipeline.Transition(assignment.Status, req.NewStatus, req.Reason)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := s.db.UpdateAssignmentStatus(r.Context(), assignment.ID, next, req.Reason); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	// Leaving interview_scheduled settles the in-flight interview either way.
	if assignment.Status == types.StatusInterviewScheduled && next != types.StatusInterviewScheduled {
		if err := s.db.ResolveInterview(r.Context(), assignment.ID); err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"id":     assignment.ID,
		"status": next,
		"reason": req.Reason,
	})
}

// handleScheduleInterviews schedules interviews for a set of shortlisted
// candidates and advances each to interview_scheduled. Ineligible
// assignments fail the whole request so nothing is half-scheduled.
func (s *Server) handleScheduleInterviews(w http.ResponseWriter, r *http.Request) {
	var req types.ScheduleInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}
	if req.ScheduledAt.Before(time.Now()) {
		s.errorResponse(w, http.StatusBadRequest, "scheduled_at must be in the future")
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
	for _, id := range req.AssignmentIDs {
		a := byID[id]
		if a == nil {
			s.errorResponse(w, http.StatusNotFound, "Assignment not found: "+id.String())
			return
		}
		if !pipeline.EligibleForInterview(a) {
			s.errorResponse(w, http.StatusBadRequest, "Assignment is not shortlisted or already has an interview: "+id.String())
			return
		}
	}

	scheduled := make([]uuid.UUID, 0, len(req.AssignmentIDs))
	for _, id := range req.AssignmentIDs {
		a := byID[id]
		next, err := pipeline.Transition(a.Status, types.StatusInterviewScheduled, "")
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
		if err := s.db.UpdateAssignmentStatus(r.Context(), id, next, ""); err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		if err := s.db.ScheduleInterview(r.Context(), id, req.ScheduledAt); err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		scheduled = append(scheduled, id)
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"scheduled":    scheduled,
		"scheduled_at": req.ScheduledAt,
	})
}
