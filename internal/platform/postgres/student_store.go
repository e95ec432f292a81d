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

// PostgresStudentStore implements the store.StudentStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStudentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStudentStore creates a new PostgreSQL implementation of the
// StudentStore interface. If logger is nil, a default logger is used.
func NewPostgresStudentStore(db store.DBTX, logger *slog.Logger) *PostgresStudentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStudentStore{
		db:     db,
		logger: logger.With(slog.String("component", "student_store")),
	}
}

// Ensure PostgresStudentStore implements store.StudentStore
var _ store.StudentStore = (*PostgresStudentStore)(nil)

// Create implements store.StudentStore.Create.
func (s *PostgresStudentStore) Create(ctx context.Context, student *domain.Student) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := student.Validate(); err != nil {
		log.Warn("student validation failed during create",
			slog.String("error", err.Error()),
			slog.String("student_id", student.ID.String()))
		return err
	}

	query := `
		INSERT INTO students (id, owner_address, name, email, home_address, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		student.ID,
		string(student.Owner),
		student.Name,
		student.Email,
		student.HomeAddress,
		int64(student.Balance),
		student.CreatedAt,
		student.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create student",
			slog.String("error", err.Error()),
			slog.String("student_id", student.ID.String()))
		return mapError(err)
	}

	log.Info("student created successfully",
		slog.String("student_id", student.ID.String()))
	return nil
}

// GetByID implements store.StudentStore.GetByID.
// Returns store.ErrStudentNotFound if the student does not exist.
func (s *PostgresStudentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_address, name, email, home_address, balance, created_at, updated_at
		FROM students
		WHERE id = $1
	`

	var st domain.Student
	var owner string
	var balance int64

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&st.ID,
		&owner,
		&st.Name,
		&st.Email,
		&st.HomeAddress,
		&balance,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("student not found", slog.String("student_id", id.String()))
			return nil, store.ErrStudentNotFound
		}
		log.Error("failed to get student by ID",
			slog.String("error", err.Error()),
			slog.String("student_id", id.String()))
		return nil, mapError(err)
	}

	st.Owner = domain.Address(owner)
	st.Balance = domain.Amount(balance)

	return &st, nil
}

// Update implements store.StudentStore.Update. Only the balance is mutable
// after creation.
// Returns store.ErrStudentNotFound if the student does not exist.
func (s *PostgresStudentStore) Update(ctx context.Context, student *domain.Student) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := student.Validate(); err != nil {
		log.Warn("student validation failed during update",
			slog.String("error", err.Error()),
			slog.String("student_id", student.ID.String()))
		return err
	}

	query := `
		UPDATE students
		SET balance = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, int64(student.Balance), student.UpdatedAt, student.ID)
	if err != nil {
		log.Error("failed to update student",
			slog.String("error", err.Error()),
			slog.String("student_id", student.ID.String()))
		return mapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if rows == 0 {
		log.Debug("student not found during update",
			slog.String("student_id", student.ID.String()))
		return store.ErrStudentNotFound
	}

	return nil
}

// WithTx implements store.StudentStore.WithTx.
func (s *PostgresStudentStore) WithTx(tx *sql.Tx) store.StudentStore {
	return &PostgresStudentStore{
		db:     tx,
		logger: s.logger,
	}
}
