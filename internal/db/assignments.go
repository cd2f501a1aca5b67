package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

const assignmentColumns = `id, candidate_id, project_id, role_id, candidate_name, role_title,
	 status, sub_status, is_in_interview, interview_at, archived_at, created_at, updated_at`

func scanAssignment(row pgx.Row) (*types.CandidateAssignment, error) {
	var a types.CandidateAssignment
	err := row.Scan(&a.ID, &a.CandidateID, &a.ProjectID, &a.RoleID, &a.CandidateName, &a.RoleTitle,
		&a.Status, &a.SubStatus, &a.IsInInterview, &a.InterviewAt, &a.ArchivedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAssignment records a candidate's submission to a project/role.
func (db *DB) CreateAssignment(ctx context.Context, candidateID, projectID, roleID uuid.UUID, candidateName, roleTitle string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO candidate_assignments (candidate_id, project_id, role_id, candidate_name, role_title, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		candidateID, projectID, roleID, candidateName, roleTitle, types.StatusDocumentsSubmitted,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create assignment: %w", err)
	}
	return id, nil
}

// GetAssignment retrieves an assignment by ID
func (db *DB) GetAssignment(ctx context.Context, id uuid.UUID) (*types.CandidateAssignment, error) {
	a, err := scanAssignment(db.pool.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM candidate_assignments WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return a, nil
}

// ListAssignmentsByIDs retrieves the assignments for the given ids, in no
// particular order. Unknown ids are silently absent from the result.
func (db *DB) ListAssignmentsByIDs(ctx context.Context, ids []uuid.UUID) ([]*types.CandidateAssignment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+assignmentColumns+` FROM candidate_assignments WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var out []*types.CandidateAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		out = append(out, a)
	}
	return out, nil
}

// ListAssignmentsByStatus retrieves non-archived assignments in the given
// statuses for a project/role.
func (db *DB) ListAssignmentsByStatus(ctx context.Context, projectID, roleID uuid.UUID, statuses []types.Status) ([]*types.CandidateAssignment, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+assignmentColumns+` FROM candidate_assignments
		 WHERE project_id = $1 AND role_id = $2 AND status = ANY($3) AND archived_at IS NULL
		 ORDER BY created_at ASC`,
		projectID, roleID, statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments by status: %w", err)
	}
	defer rows.Close()

	var out []*types.CandidateAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		out = append(out, a)
	}
	return out, nil
}

// UpdateAssignmentStatus writes a new pipeline status. Transition legality
// is the pipeline package's concern; this is plain persistence.
func (db *DB) UpdateAssignmentStatus(ctx context.Context, id uuid.UUID, status types.Status, reason string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE candidate_assignments SET status = $1, status_reason = $2, updated_at = NOW() WHERE id = $3`,
		status, reason, id)
	if err != nil {
		return fmt.Errorf("failed to update assignment status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("assignment not found: %s", id)
	}
	return nil
}

// ScheduleInterview sets the interview slot and marks the assignment as
// in-interview.
func (db *DB) ScheduleInterview(ctx context.Context, id uuid.UUID, at time.Time) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE candidate_assignments SET interview_at = $1, is_in_interview = TRUE, updated_at = NOW() WHERE id = $2`,
		at, id)
	if err != nil {
		return fmt.Errorf("failed to schedule interview: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("assignment not found: %s", id)
	}
	return nil
}

// ResolveInterview clears the in-interview flag after a conduct record.
func (db *DB) ResolveInterview(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE candidate_assignments SET is_in_interview = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to resolve interview: %w", err)
	}
	return nil
}

// ArchiveProject soft-deletes every assignment of a project.
func (db *DB) ArchiveProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE candidate_assignments SET archived_at = NOW(), updated_at = NOW()
		 WHERE project_id = $1 AND archived_at IS NULL`, projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to archive project: %w", err)
	}
	return result.RowsAffected(), nil
}
