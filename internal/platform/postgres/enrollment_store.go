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

// PostgresEnrollmentStore implements the store.EnrollmentStore interface
// using a PostgreSQL database as the storage backend.
type PostgresEnrollmentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresEnrollmentStore creates a new PostgreSQL implementation of the
// EnrollmentStore interface. If logger is nil, a default logger is used.
func NewPostgresEnrollmentStore(db store.DBTX, logger *slog.Logger) *PostgresEnrollmentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresEnrollmentStore{
		db:     db,
		logger: logger.With(slog.String("component", "enrollment_store")),
	}
}

// Ensure PostgresEnrollmentStore implements store.EnrollmentStore
var _ store.EnrollmentStore = (*PostgresEnrollmentStore)(nil)

// CreateRequest implements store.EnrollmentStore.CreateRequest.
func (s *PostgresEnrollmentStore) CreateRequest(ctx context.Context, req *domain.EnrollmentRequest) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO enrollment_requests (id, institute_id, student_id, student_address, home_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		req.ID,
		req.InstituteID,
		req.StudentID,
		string(req.StudentAddress),
		req.HomeAddress,
		req.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create enrollment request",
			slog.String("error", err.Error()),
			slog.String("request_id", req.ID.String()))
		return mapError(err)
	}

	log.Info("enrollment request created",
		slog.String("request_id", req.ID.String()),
		slog.String("student_id", req.StudentID.String()))
	return nil
}

// GetRequestByID implements store.EnrollmentStore.GetRequestByID.
func (s *PostgresEnrollmentStore) GetRequestByID(ctx context.Context, id uuid.UUID) (*domain.EnrollmentRequest, error) {
	query := `
		SELECT id, institute_id, student_id, student_address, home_address, created_at
		FROM enrollment_requests
		WHERE id = $1
	`
	return s.scanRequest(s.db.QueryRowContext(ctx, query, id))
}

// FindRequestByStudent implements store.EnrollmentStore.FindRequestByStudent.
func (s *PostgresEnrollmentStore) FindRequestByStudent(ctx context.Context, instituteID, studentID uuid.UUID) (*domain.EnrollmentRequest, error) {
	query := `
		SELECT id, institute_id, student_id, student_address, home_address, created_at
		FROM enrollment_requests
		WHERE institute_id = $1 AND student_id = $2
		ORDER BY created_at
		LIMIT 1
	`
	return s.scanRequest(s.db.QueryRowContext(ctx, query, instituteID, studentID))
}

func (s *PostgresEnrollmentStore) scanRequest(row *sql.Row) (*domain.EnrollmentRequest, error) {
	var req domain.EnrollmentRequest
	var studentAddr string

	err := row.Scan(
		&req.ID,
		&req.InstituteID,
		&req.StudentID,
		&studentAddr,
		&req.HomeAddress,
		&req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrEnrollmentRequestNotFound
		}
		return nil, mapError(err)
	}

	req.StudentAddress = domain.Address(studentAddr)
	return &req, nil
}

// DeleteRequest implements store.EnrollmentStore.DeleteRequest.
func (s *PostgresEnrollmentStore) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM enrollment_requests WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete enrollment request",
			slog.String("error", err.Error()),
			slog.String("request_id", id.String()))
		return mapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if rows == 0 {
		return store.ErrEnrollmentRequestNotFound
	}

	return nil
}

// ListRequestsByInstitute implements store.EnrollmentStore.ListRequestsByInstitute.
func (s *PostgresEnrollmentStore) ListRequestsByInstitute(ctx context.Context, instituteID uuid.UUID) ([]*domain.EnrollmentRequest, error) {
	query := `
		SELECT id, institute_id, student_id, student_address, home_address, created_at
		FROM enrollment_requests
		WHERE institute_id = $1
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, instituteID)
	if err != nil {
		return nil, mapError(err)
	}
	defer func() { _ = rows.Close() }()

	var reqs []*domain.EnrollmentRequest
	for rows.Next() {
		var req domain.EnrollmentRequest
		var studentAddr string
		if err := rows.Scan(&req.ID, &req.InstituteID, &req.StudentID, &studentAddr, &req.HomeAddress, &req.CreatedAt); err != nil {
			return nil, mapError(err)
		}
		req.StudentAddress = domain.Address(studentAddr)
		reqs = append(reqs, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return reqs, nil
}

// CreateEnrollment implements store.EnrollmentStore.CreateEnrollment.
func (s *PostgresEnrollmentStore) CreateEnrollment(ctx context.Context, enrollment *domain.Enrollment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO enrollments (id, institute_id, student_id, student_name, course_id, enrolled_on, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		enrollment.ID,
		enrollment.InstituteID,
		enrollment.StudentID,
		enrollment.StudentName,
		enrollment.CourseID,
		enrollment.EnrolledOn,
		enrollment.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create enrollment",
			slog.String("error", err.Error()),
			slog.String("enrollment_id", enrollment.ID.String()))
		return mapError(err)
	}

	log.Info("enrollment created",
		slog.String("enrollment_id", enrollment.ID.String()),
		slog.String("course_id", enrollment.CourseID.String()))
	return nil
}

// ListEnrollmentsByInstitute implements store.EnrollmentStore.ListEnrollmentsByInstitute.
func (s *PostgresEnrollmentStore) ListEnrollmentsByInstitute(ctx context.Context, instituteID uuid.UUID) ([]*domain.Enrollment, error) {
	query := `
		SELECT id, institute_id, student_id, student_name, course_id, enrolled_on, created_at
		FROM enrollments
		WHERE institute_id = $1
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, instituteID)
	if err != nil {
		return nil, mapError(err)
	}
	defer func() { _ = rows.Close() }()

	var enrollments []*domain.Enrollment
	for rows.Next() {
		var e domain.Enrollment
		if err := rows.Scan(&e.ID, &e.InstituteID, &e.StudentID, &e.StudentName, &e.CourseID, &e.EnrolledOn, &e.CreatedAt); err != nil {
			return nil, mapError(err)
		}
		enrollments = append(enrollments, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return enrollments, nil
}

// WithTx implements store.EnrollmentStore.WithTx.
func (s *PostgresEnrollmentStore) WithTx(tx *sql.Tx) store.EnrollmentStore {
	return &PostgresEnrollmentStore{
		db:     tx,
		logger: s.logger,
	}
}
