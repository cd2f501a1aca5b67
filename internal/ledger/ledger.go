// Package ledger is the append-only audit record of every dispatch attempt.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

// Store persists forwarding records. Records are append-only: a queued
// record settles to sent or failed exactly once; anything after that is a
// new corrective record.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store over the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const recordColumns = `id, candidate_id, project_id, role_id, recipient_email, cc, bcc,
	 send_type, delivery_method, status, is_bulk, notes, error, sent_at, created_at`

func scanRecord(row pgx.Row) (*types.ForwardingRecord, error) {
	var r types.ForwardingRecord
	err := row.Scan(&r.ID, &r.CandidateID, &r.ProjectID, &r.RoleID, &r.RecipientEmail, &r.CC, &r.BCC,
		&r.SendType, &r.DeliveryMethod, &r.Status, &r.IsBulk, &r.Notes, &r.Error, &r.SentAt, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Append writes one queued record for a dispatch attempt and returns its id.
func (s *Store) Append(ctx context.Context, r *types.ForwardingRecord) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`INSERT INTO forwarding_records
		 (candidate_id, project_id, role_id, recipient_email, cc, bcc, send_type, delivery_method, status, is_bulk, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		r.CandidateID, r.ProjectID, r.RoleID, r.RecipientEmail, r.CC, r.BCC,
		r.SendType, r.DeliveryMethod, types.ForwardingQueued, r.IsBulk, r.Notes,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, &ErrWriteFailed{Cause: err}
	}
	return id, nil
}

// Resolve settles a queued record to sent or failed. A record that already
// reached a terminal status is never rewritten; attempting to is an error
// and the caller must append a corrective record instead.
func (s *Store) Resolve(ctx context.Context, id uuid.UUID, status types.ForwardingStatus, sendErr string, sentAt time.Time) error {
	if status != types.ForwardingSent && status != types.ForwardingFailed {
		return fmt.Errorf("cannot resolve record to non-terminal status %q", status)
	}
	result, err := s.pool.Exec(ctx,
		`UPDATE forwarding_records SET status = $1, error = $2, sent_at = $3
		 WHERE id = $4 AND status = $5`,
		status, sendErr, sentAt, id, types.ForwardingQueued)
	if err != nil {
		return &ErrWriteFailed{Cause: err}
	}
	if result.RowsAffected() == 0 {
		return &ErrRecordImmutable{RecordID: id}
	}
	return nil
}

// Filter holds the optional query filters for ledger reads.
type Filter struct {
	CandidateID uuid.UUID
	ProjectID   uuid.UUID
	RoleID      uuid.UUID
	Search      string // case-insensitive substring over recipient and notes
}

// QueryMeta describes a paginated result set.
type QueryMeta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Query returns records newest-first, filtered and paginated. Page numbers
// are 1-based.
func (s *Store) Query(ctx context.Context, filter Filter, page, limit int) ([]*types.ForwardingRecord, QueryMeta, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	meta := QueryMeta{Page: page, Limit: limit}

	where := ` WHERE 1=1`
	args := []any{}
	argNum := 1

	if filter.CandidateID != uuid.Nil {
		where += fmt.Sprintf(" AND candidate_id = $%d", argNum)
		args = append(args, filter.CandidateID)
		argNum++
	}
	if filter.ProjectID != uuid.Nil {
		where += fmt.Sprintf(" AND project_id = $%d", argNum)
		args = append(args, filter.ProjectID)
		argNum++
	}
	if filter.RoleID != uuid.Nil {
		where += fmt.Sprintf(" AND role_id = $%d", argNum)
		args = append(args, filter.RoleID)
		argNum++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (recipient_email ILIKE $%d OR notes ILIKE $%d)", argNum, argNum)
		args = append(args, "%"+filter.Search+"%")
		argNum++
	}

	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM forwarding_records`+where, args...).Scan(&meta.Total); err != nil {
		return nil, meta, fmt.Errorf("failed to count forwarding records: %w", err)
	}

	query := `SELECT ` + recordColumns + ` FROM forwarding_records` + where +
		fmt.Sprintf(" ORDER BY COALESCE(sent_at, created_at) DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, meta, fmt.Errorf("failed to query forwarding records: %w", err)
	}
	defer rows.Close()

	var records []*types.ForwardingRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, meta, fmt.Errorf("failed to scan forwarding record: %w", err)
		}
		records = append(records, r)
	}
	return records, meta, nil
}

// LatestForCandidate returns the candidate's most recent record by sentAt,
// falling back to createdAt, or nil when the candidate was never dispatched.
func (s *Store) LatestForCandidate(ctx context.Context, candidateID uuid.UUID) (*types.ForwardingRecord, error) {
	r, err := scanRecord(s.pool.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM forwarding_records
		 WHERE candidate_id = $1
		 ORDER BY COALESCE(sent_at, created_at) DESC
		 LIMIT 1`, candidateID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest forwarding: %w", err)
	}
	return r, nil
}
