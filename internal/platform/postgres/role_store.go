package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/campushq/registrar/internal/domain"
	"github.com/campushq/registrar/internal/platform/logger"
	"github.com/campushq/registrar/internal/store"
)

// PostgresRoleStore implements the store.RoleStore interface using a
// PostgreSQL database as the storage backend. Membership lives in the
// role_members table; Update rewrites it to match the given role, the
// write-back half of the registry's read-modify-write cycle.
type PostgresRoleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRoleStore creates a new PostgreSQL implementation of the
// RoleStore interface. If logger is nil, a default logger is used.
func NewPostgresRoleStore(db store.DBTX, logger *slog.Logger) *PostgresRoleStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRoleStore{
		db:     db,
		logger: logger.With(slog.String("component", "role_store")),
	}
}

// Ensure PostgresRoleStore implements store.RoleStore
var _ store.RoleStore = (*PostgresRoleStore)(nil)

// Create implements store.RoleStore.Create.
// Returns store.ErrRoleExists if the institute already has a role with the
// same name.
func (s *PostgresRoleStore) Create(ctx context.Context, role *domain.Role) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO roles (id, institute_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query, role.ID, role.InstituteID, role.Name, role.CreatedAt, role.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", store.ErrRoleExists, role.Name)
		}
		log.Error("failed to create role",
			slog.String("error", err.Error()),
			slog.String("role", role.Name))
		return mapError(err)
	}

	if err := s.insertMembers(ctx, role.ID, role.Members); err != nil {
		return err
	}

	log.Info("role created",
		slog.String("role", role.Name),
		slog.String("institute_id", role.InstituteID.String()),
		slog.Int("member_count", len(role.Members)))
	return nil
}

// GetByName implements store.RoleStore.GetByName.
// Returns store.ErrRoleNotFound if the role does not exist.
func (s *PostgresRoleStore) GetByName(ctx context.Context, instituteID uuid.UUID, name string) (*domain.Role, error) {
	query := `
		SELECT id, institute_id, name, created_at, updated_at
		FROM roles
		WHERE institute_id = $1 AND name = $2
	`

	var r domain.Role
	err := s.db.QueryRowContext(ctx, query, instituteID, name).Scan(
		&r.ID,
		&r.InstituteID,
		&r.Name,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRoleNotFound
		}
		return nil, mapError(err)
	}

	members, err := s.loadMembers(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	r.Members = members

	return &r, nil
}

// Update implements store.RoleStore.Update.
// Returns store.ErrRoleNotFound if the role does not exist.
func (s *PostgresRoleStore) Update(ctx context.Context, role *domain.Role) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE roles SET updated_at = $1 WHERE id = $2`,
		role.UpdatedAt, role.ID)
	if err != nil {
		log.Error("failed to update role",
			slog.String("error", err.Error()),
			slog.String("role", role.Name))
		return mapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if rows == 0 {
		return store.ErrRoleNotFound
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM role_members WHERE role_id = $1`, role.ID); err != nil {
		return mapError(err)
	}
	return s.insertMembers(ctx, role.ID, role.Members)
}

func (s *PostgresRoleStore) insertMembers(ctx context.Context, roleID uuid.UUID, members []domain.Address) error {
	for _, m := range members {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO role_members (role_id, member_address) VALUES ($1, $2)`,
			roleID, string(m))
		if err != nil {
			return mapError(err)
		}
	}
	return nil
}

func (s *PostgresRoleStore) loadMembers(ctx context.Context, roleID uuid.UUID) ([]domain.Address, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT member_address FROM role_members WHERE role_id = $1 ORDER BY member_address`,
		roleID)
	if err != nil {
		return nil, mapError(err)
	}
	defer func() { _ = rows.Close() }()

	var members []domain.Address
	for rows.Next() {
		var addr string
		if err := rows.Scan(&addr); err != nil {
			return nil, mapError(err)
		}
		members = append(members, domain.Address(addr))
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return members, nil
}

// WithTx implements store.RoleStore.WithTx.
func (s *PostgresRoleStore) WithTx(tx *sql.Tx) store.RoleStore {
	return &PostgresRoleStore{
		db:     tx,
		logger: s.logger,
	}
}
