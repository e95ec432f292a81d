package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/campushq/registrar/internal/domain"
	"github.com/campushq/registrar/internal/events"
	"github.com/campushq/registrar/internal/platform/logger"
	"github.com/campushq/registrar/internal/store"
)

// InstituteService manages institute accounts: creation, balance reads,
// withdrawals, and the institute's role registry.
type InstituteService interface {
	// CreateInstitute creates an institute owned by the caller and seeds
	// the "institute" role with the owner as its first member.
	CreateInstitute(ctx context.Context, caller domain.Address, name, email, phone string, fees domain.Amount) (*domain.Institute, error)

	// InstituteBalance returns the institute's fund balance. Owner only.
	InstituteBalance(ctx context.Context, caller domain.Address, instituteID uuid.UUID) (domain.Amount, error)

	// WithdrawBalance debits amount from the institute's fund balance.
	// Owner only. The payout itself happens outside the registrar.
	WithdrawBalance(ctx context.Context, caller domain.Address, instituteID uuid.UUID, amount domain.Amount) (*domain.Institute, error)

	// AssignRole adds member to the named role of the institute, creating
	// the role if it does not exist yet. Owner only.
	AssignRole(ctx context.Context, caller domain.Address, instituteID uuid.UUID, roleName string, member domain.Address) (*domain.Role, error)

	// RevokeRole removes member from the named role. Owner only.
	// Revoking an address that does not hold the role is a no-op.
	RevokeRole(ctx context.Context, caller domain.Address, instituteID uuid.UUID, roleName string, member domain.Address) (*domain.Role, error)
}

type instituteServiceImpl struct {
	stores  store.Stores
	emitter events.Emitter
	logger  *slog.Logger
}

// NewInstituteService creates a new InstituteService.
// It returns an error if any of the required dependencies are nil.
func NewInstituteService(stores store.Stores, emitter events.Emitter, logger *slog.Logger) (InstituteService, error) {
	if stores.Institutes == nil || stores.Roles == nil || stores.Transactor == nil {
		return nil, errors.New("institute service: stores cannot be nil")
	}
	if emitter == nil {
		return nil, errors.New("institute service: emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &instituteServiceImpl{
		stores:  stores,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "institute_service")),
	}, nil
}

func (s *instituteServiceImpl) CreateInstitute(
	ctx context.Context,
	caller domain.Address,
	name, email, phone string,
	fees domain.Amount,
) (*domain.Institute, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	inst, err := domain.NewInstitute(caller, name, email, phone, fees)
	if err != nil {
		return nil, NewError("create_institute", "invalid institute", err)
	}

	role, err := domain.NewRole(inst.ID, domain.InstituteRoleName, caller)
	if err != nil {
		return nil, NewError("create_institute", "invalid owner role", err)
	}

	err = s.stores.Transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.stores.Institutes.WithTx(tx).Create(ctx, inst); err != nil {
			return NewError("create_institute", "failed to save institute", err)
		}
		if err := s.stores.Roles.WithTx(tx).Create(ctx, role); err != nil {
			return NewError("create_institute", "failed to seed owner role", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to create institute", slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("institute created",
		slog.String("institute_id", inst.ID.String()))
	emitAudit(ctx, s.emitter, log, events.TypeInstituteCreated, map[string]interface{}{
		"institute_id": inst.ID,
		"owner":        inst.Owner,
		"fees":         inst.Fees,
	})

	return inst, nil
}

func (s *instituteServiceImpl) InstituteBalance(
	ctx context.Context,
	caller domain.Address,
	instituteID uuid.UUID,
) (domain.Amount, error) {
	inst, err := s.ownedInstitute(ctx, "institute_balance", caller, instituteID)
	if err != nil {
		return 0, err
	}
	return inst.Balance, nil
}

func (s *instituteServiceImpl) WithdrawBalance(
	ctx context.Context,
	caller domain.Address,
	instituteID uuid.UUID,
	amount domain.Amount,
) (*domain.Institute, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !amount.IsPositive() {
		return nil, NewError("withdraw_balance", "amount must be positive", domain.ErrInvalidAmount)
	}

	inst, err := s.ownedInstitute(ctx, "withdraw_balance", caller, instituteID)
	if err != nil {
		return nil, err
	}

	if err := inst.Debit(amount); err != nil {
		return nil, NewError("withdraw_balance", "balance too low", err)
	}

	err = s.stores.Transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.stores.Institutes.WithTx(tx).Update(ctx, inst); err != nil {
			return NewError("withdraw_balance", "failed to update institute", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to withdraw balance",
			slog.String("error", err.Error()),
			slog.String("institute_id", instituteID.String()))
		return nil, err
	}

	log.Info("balance withdrawn",
		slog.String("institute_id", instituteID.String()),
		slog.Int64("amount", int64(amount)))
	emitAudit(ctx, s.emitter, log, events.TypeBalanceWithdrawn, map[string]interface{}{
		"institute_id": instituteID,
		"amount":       amount,
		"balance":      inst.Balance,
	})

	return inst, nil
}

func (s *instituteServiceImpl) AssignRole(
	ctx context.Context,
	caller domain.Address,
	instituteID uuid.UUID,
	roleName string,
	member domain.Address,
) (*domain.Role, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.ownedInstitute(ctx, "assign_role", caller, instituteID); err != nil {
		return nil, err
	}

	var role *domain.Role
	err := s.stores.Transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		roles := s.stores.Roles.WithTx(tx)

		existing, err := roles.GetByName(ctx, instituteID, roleName)
		switch {
		case errors.Is(err, store.ErrRoleNotFound):
			created, err := domain.NewRole(instituteID, roleName, member)
			if err != nil {
				return NewError("assign_role", "invalid role", err)
			}
			if err := roles.Create(ctx, created); err != nil {
				return NewError("assign_role", "failed to create role", err)
			}
			role = created
			return nil
		case err != nil:
			return NewError("assign_role", "failed to load role", err)
		}

		if err := existing.AddMember(member); err != nil {
			return NewError("assign_role", "invalid member", err)
		}
		if err := roles.Update(ctx, existing); err != nil {
			return NewError("assign_role", "failed to update role", err)
		}
		role = existing
		return nil
	})
	if err != nil {
		log.Error("failed to assign role",
			slog.String("error", err.Error()),
			slog.String("institute_id", instituteID.String()),
			slog.String("role", roleName))
		return nil, err
	}

	emitAudit(ctx, s.emitter, log, events.TypeRoleAssigned, map[string]interface{}{
		"institute_id": instituteID,
		"role":         roleName,
		"member":       member,
	})

	return role, nil
}

func (s *instituteServiceImpl) RevokeRole(
	ctx context.Context,
	caller domain.Address,
	instituteID uuid.UUID,
	roleName string,
	member domain.Address,
) (*domain.Role, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.ownedInstitute(ctx, "revoke_role", caller, instituteID); err != nil {
		return nil, err
	}

	var role *domain.Role
	err := s.stores.Transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		roles := s.stores.Roles.WithTx(tx)

		existing, err := roles.GetByName(ctx, instituteID, roleName)
		if err != nil {
			return NewError("revoke_role", "failed to load role", err)
		}

		existing.RemoveMember(member)
		if err := roles.Update(ctx, existing); err != nil {
			return NewError("revoke_role", "failed to update role", err)
		}
		role = existing
		return nil
	})
	if err != nil {
		log.Error("failed to revoke role",
			slog.String("error", err.Error()),
			slog.String("institute_id", instituteID.String()),
			slog.String("role", roleName))
		return nil, err
	}

	emitAudit(ctx, s.emitter, log, events.TypeRoleRevoked, map[string]interface{}{
		"institute_id": instituteID,
		"role":         roleName,
		"member":       member,
	})

	return role, nil
}

// ownedInstitute loads the institute and verifies the caller owns it.
func (s *instituteServiceImpl) ownedInstitute(
	ctx context.Context,
	op string,
	caller domain.Address,
	instituteID uuid.UUID,
) (*domain.Institute, error) {
	inst, err := s.stores.Institutes.GetByID(ctx, instituteID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewError(op, "institute not found", store.ErrInstituteNotFound)
		}
		return nil, NewError(op, "failed to load institute", err)
	}
	if !inst.IsOwnedBy(caller) {
		return nil, NewError(op, "caller does not own institute", ErrNotInstitute)
	}
	return inst, nil
}
