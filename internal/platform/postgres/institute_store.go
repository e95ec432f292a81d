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

// PostgresInstituteStore implements the store.InstituteStore interface
// using a PostgreSQL database as the storage backend.
type PostgresInstituteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresInstituteStore creates a new PostgreSQL implementation of the
// InstituteStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil, a
// default logger is used.
func NewPostgresInstituteStore(db store.DBTX, logger *slog.Logger) *PostgresInstituteStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresInstituteStore{
		db:     db,
		logger: logger.With(slog.String("component", "institute_store")),
	}
}

// Ensure PostgresInstituteStore implements store.InstituteStore
var _ store.InstituteStore = (*PostgresInstituteStore)(nil)

// Create implements store.InstituteStore.Create.
func (s *PostgresInstituteStore) Create(ctx context.Context, institute *domain.Institute) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := institute.Validate(); err != nil {
		log.Warn("institute validation failed during create",
			slog.String("error", err.Error()),
			slog.String("institute_id", institute.ID.String()))
		return err
	}

	query := `
		INSERT INTO institutes (id, owner_address, name, email, phone, fees, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		institute.ID,
		string(institute.Owner),
		institute.Name,
		institute.Email,
		institute.Phone,
		int64(institute.Fees),
		int64(institute.Balance),
		institute.CreatedAt,
		institute.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create institute",
			slog.String("error", err.Error()),
			slog.String("institute_id", institute.ID.String()))
		return mapError(err)
	}

	log.Info("institute created successfully",
		slog.String("institute_id", institute.ID.String()),
		slog.String("name", institute.Name))
	return nil
}

// GetByID implements store.InstituteStore.GetByID.
// Returns store.ErrInstituteNotFound if the institute does not exist.
func (s *PostgresInstituteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Institute, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_address, name, email, phone, fees, balance, created_at, updated_at
		FROM institutes
		WHERE id = $1
	`

	var inst domain.Institute
	var owner string
	var fees, balance int64

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&inst.ID,
		&owner,
		&inst.Name,
		&inst.Email,
		&inst.Phone,
		&fees,
		&balance,
		&inst.CreatedAt,
		&inst.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("institute not found", slog.String("institute_id", id.String()))
			return nil, store.ErrInstituteNotFound
		}
		log.Error("failed to get institute by ID",
			slog.String("error", err.Error()),
			slog.String("institute_id", id.String()))
		return nil, mapError(err)
	}

	inst.Owner = domain.Address(owner)
	inst.Fees = domain.Amount(fees)
	inst.Balance = domain.Amount(balance)

	return &inst, nil
}

// Update implements store.InstituteStore.Update. Only mutable fields are
// written back; owner and fees are fixed at creation.
// Returns store.ErrInstituteNotFound if the institute does not exist.
func (s *PostgresInstituteStore) Update(ctx context.Context, institute *domain.Institute) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := institute.Validate(); err != nil {
		log.Warn("institute validation failed during update",
			slog.String("error", err.Error()),
			slog.String("institute_id", institute.ID.String()))
		return err
	}

	query := `
		UPDATE institutes
		SET balance = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, int64(institute.Balance), institute.UpdatedAt, institute.ID)
	if err != nil {
		log.Error("failed to update institute",
			slog.String("error", err.Error()),
			slog.String("institute_id", institute.ID.String()))
		return mapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if rows == 0 {
		log.Debug("institute not found during update",
			slog.String("institute_id", institute.ID.String()))
		return store.ErrInstituteNotFound
	}

	return nil
}

// WithTx implements store.InstituteStore.WithTx.
func (s *PostgresInstituteStore) WithTx(tx *sql.Tx) store.InstituteStore {
	return &PostgresInstituteStore{
		db:     tx,
		logger: s.logger,
	}
}
