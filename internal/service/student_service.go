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

// StudentService manages student accounts and their fund balances.
type StudentService interface {
	// RegisterStudent creates a student account owned by the caller.
	RegisterStudent(ctx context.Context, caller domain.Address, name, email, homeAddress string) (*domain.Student, error)

	// FundStudentAccount credits amount to the student's balance.
	// Caller must own the student account.
	FundStudentAccount(ctx context.Context, caller domain.Address, studentID uuid.UUID, amount domain.Amount) (*domain.Student, error)

	// StudentBalance returns the student's balance. Owner only.
	StudentBalance(ctx context.Context, caller domain.Address, studentID uuid.UUID) (domain.Amount, error)

	// GetStudent retrieves a student record by ID.
	GetStudent(ctx context.Context, studentID uuid.UUID) (*domain.Student, error)
}

type studentServiceImpl struct {
	stores  store.Stores
	emitter events.Emitter
	logger  *slog.Logger
}

// NewStudentService creates a new StudentService.
// It returns an error if any of the required dependencies are nil.
func NewStudentService(stores store.Stores, emitter events.Emitter, logger *slog.Logger) (StudentService, error) {
	if stores.Students == nil || stores.Transactor == nil {
		return nil, errors.New("student service: stores cannot be nil")
	}
	if emitter == nil {
		return nil, errors.New("student service: emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &studentServiceImpl{
		stores:  stores,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "student_service")),
	}, nil
}

func (s *studentServiceImpl) RegisterStudent(
	ctx context.Context,
	caller domain.Address,
	name, email, homeAddress string,
) (*domain.Student, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	student, err := domain.NewStudent(caller, name, email, homeAddress)
	if err != nil {
		return nil, NewError("register_student", "invalid student", err)
	}

	err = s.stores.Transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.stores.Students.WithTx(tx).Create(ctx, student); err != nil {
			return NewError("register_student", "failed to save student", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to register student", slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("student registered",
		slog.String("student_id", student.ID.String()))
	emitAudit(ctx, s.emitter, log, events.TypeStudentRegistered, map[string]interface{}{
		"student_id": student.ID,
		"owner":      student.Owner,
	})

	return student, nil
}

func (s *studentServiceImpl) FundStudentAccount(
	ctx context.Context,
	caller domain.Address,
	studentID uuid.UUID,
	amount domain.Amount,
) (*domain.Student, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !amount.IsPositive() {
		return nil, NewError("fund_student_account", "amount must be positive", domain.ErrInvalidAmount)
	}

	student, err := s.ownedStudent(ctx, "fund_student_account", caller, studentID)
	if err != nil {
		return nil, err
	}

	if err := student.Credit(amount); err != nil {
		return nil, NewError("fund_student_account", "invalid credit", err)
	}

	err = s.stores.Transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.stores.Students.WithTx(tx).Update(ctx, student); err != nil {
			return NewError("fund_student_account", "failed to update student", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to fund student account",
			slog.String("error", err.Error()),
			slog.String("student_id", studentID.String()))
		return nil, err
	}

	log.Info("student account funded",
		slog.String("student_id", studentID.String()),
		slog.Int64("amount", int64(amount)))
	emitAudit(ctx, s.emitter, log, events.TypeAccountFunded, map[string]interface{}{
		"student_id": studentID,
		"amount":     amount,
		"balance":    student.Balance,
	})

	return student, nil
}

func (s *studentServiceImpl) StudentBalance(
	ctx context.Context,
	caller domain.Address,
	studentID uuid.UUID,
) (domain.Amount, error) {
	student, err := s.ownedStudent(ctx, "student_balance", caller, studentID)
	if err != nil {
		return 0, err
	}
	return student.Balance, nil
}

func (s *studentServiceImpl) GetStudent(
	ctx context.Context,
	studentID uuid.UUID,
) (*domain.Student, error) {
	student, err := s.stores.Students.GetByID(ctx, studentID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewError("get_student", "student not found", store.ErrStudentNotFound)
		}
		return nil, NewError("get_student", "failed to load student", err)
	}
	return student, nil
}

// ownedStudent loads the student and verifies the caller owns the account.
func (s *studentServiceImpl) ownedStudent(
	ctx context.Context,
	op string,
	caller domain.Address,
	studentID uuid.UUID,
) (*domain.Student, error) {
	student, err := s.stores.Students.GetByID(ctx, studentID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewError(op, "student not found", store.ErrStudentNotFound)
		}
		return nil, NewError(op, "failed to load student", err)
	}
	if !student.IsOwnedBy(caller) {
		return nil, NewError(op, "caller does not own student account", ErrNotStudent)
	}
	return student, nil
}
