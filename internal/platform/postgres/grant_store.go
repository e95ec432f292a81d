package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/campushq/registrar/internal/domain"
	"github.com/campushq/registrar/internal/platform/logger"
	"github.com/campushq/registrar/internal/store"
)

// PostgresGrantStore implements the store.GrantStore interface using a
// PostgreSQL database as the storage backend. Grant requests are mutable
// (the approved flag); approvals are append-only.
type PostgresGrantStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGrantStore creates a new PostgreSQL implementation of the
// GrantStore interface. If logger is nil, a default logger is used.
func NewPostgresGrantStore(db store.DBTX, logger *slog.Logger) *PostgresGrantStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGrantStore{
		db:     db,
		logger: logger.With(slog.String("component", "grant_store")),
	}
}

// Ensure PostgresGrantStore implements store.GrantStore
var _ store.GrantStore = (*PostgresGrantStore)(nil)

// CreateRequest implements store.GrantStore.CreateRequest.
func (s *PostgresGrantStore) CreateRequest(ctx context.Context, req *domain.GrantRequest) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO grant_requests (id, institute_id, student_id, amount_requested, reason, approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		req.ID,
		req.InstituteID,
		req.StudentID,
		int64(req.AmountRequested),
		req.Reason,
		req.Approved,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create grant request",
			slog.String("error", err.Error()),
			slog.String("grant_request_id", req.ID.String()))
		return mapError(err)
	}

	log.Info("grant request created",
		slog.String("grant_request_id", req.ID.String()),
		slog.Int64("amount_requested", int64(req.AmountRequested)))
	return nil
}

// GetRequestByID implements store.GrantStore.GetRequestByID.
// Returns store.ErrGrantRequestNotFound if the request does not exist.
func (s *PostgresGrantStore) GetRequestByID(ctx context.Context, id uuid.UUID) (*domain.GrantRequest, error) {
	query := `
		SELECT id, institute_id, student_id, amount_requested, reason, approved, created_at, updated_at
		FROM grant_requests
		WHERE id = $1
	`

	var req domain.GrantRequest
	var amount int64

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID,
		&req.InstituteID,
		&req.StudentID,
		&amount,
		&req.Reason,
		&req.Approved,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrGrantRequestNotFound
		}
		return nil, mapError(err)
	}

	req.AmountRequested = domain.Amount(amount)
	return &req, nil
}

// UpdateRequest implements store.GrantStore.UpdateRequest. The write-back
// half of the read-modify-write cycle the approval workflow performs.
func (s *PostgresGrantStore) UpdateRequest(ctx context.Context, req *domain.GrantRequest) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE grant_requests
		SET approved = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, req.Approved, req.UpdatedAt, req.ID)
	if err != nil {
		log.Error("failed to update grant request",
			slog.String("error", err.Error()),
			slog.String("grant_request_id", req.ID.String()))
		return mapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if rows == 0 {
		return store.ErrGrantRequestNotFound
	}

	return nil
}

// ListRequestsByInstitute implements store.GrantStore.ListRequestsByInstitute.
func (s *PostgresGrantStore) ListRequestsByInstitute(ctx context.Context, instituteID uuid.UUID) ([]*domain.GrantRequest, error) {
	query := `
		SELECT id, institute_id, student_id, amount_requested, reason, approved, created_at, updated_at
		FROM grant_requests
		WHERE institute_id = $1
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, instituteID)
	if err != nil {
		return nil, mapError(err)
	}
	defer func() { _ = rows.Close() }()

	var reqs []*domain.GrantRequest
	for rows.Next() {
		var req domain.GrantRequest
		var amount int64
		if err := rows.Scan(&req.ID, &req.InstituteID, &req.StudentID, &amount, &req.Reason, &req.Approved, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, mapError(err)
		}
		req.AmountRequested = domain.Amount(amount)
		reqs = append(reqs, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return reqs, nil
}

// CreateApproval implements store.GrantStore.CreateApproval.
func (s *PostgresGrantStore) CreateApproval(ctx context.Context, approval *domain.GrantApproval) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO grant_approvals (id, grant_request_id, approved_by, amount_approved, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		approval.ID,
		approval.GrantRequestID,
		string(approval.ApprovedBy),
		int64(approval.AmountApproved),
		approval.Reason,
		approval.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create grant approval",
			slog.String("error", err.Error()),
			slog.String("approval_id", approval.ID.String()))
		return mapError(err)
	}

	log.Info("grant approval recorded",
		slog.String("approval_id", approval.ID.String()),
		slog.String("grant_request_id", approval.GrantRequestID.String()))
	return nil
}

// ListApprovalsByRequest implements store.GrantStore.ListApprovalsByRequest.
func (s *PostgresGrantStore) ListApprovalsByRequest(ctx context.Context, grantRequestID uuid.UUID) ([]*domain.GrantApproval, error) {
	query := `
		SELECT id, grant_request_id, approved_by, amount_approved, reason, created_at
		FROM grant_approvals
		WHERE grant_request_id = $1
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, grantRequestID)
	if err != nil {
		return nil, mapError(err)
	}
	defer func() { _ = rows.Close() }()

	var approvals []*domain.GrantApproval
	for rows.Next() {
		var a domain.GrantApproval
		var approvedBy string
		var amount int64
		if err := rows.Scan(&a.ID, &a.GrantRequestID, &approvedBy, &amount, &a.Reason, &a.CreatedAt); err != nil {
			return nil, mapError(err)
		}
		a.ApprovedBy = domain.Address(approvedBy)
		a.AmountApproved = domain.Amount(amount)
		approvals = append(approvals, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return approvals, nil
}

// WithTx implements store.GrantStore.WithTx.
func (s *PostgresGrantStore) WithTx(tx *sql.Tx) store.GrantStore {
	return &PostgresGrantStore{
		db:     tx,
		logger: s.logger,
	}
}
