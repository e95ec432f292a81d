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

// GrantService implements the grant cycle: a student requests funds from an
// institute, and the institute owner approves the request, moving the
// approved amount from the institute's balance to the student's. A request
// can be approved at most once; an unapproved request simply stays pending.
type GrantService interface {
	// RequestGrant records a student's pending grant request.
	RequestGrant(ctx context.Context, studentID, instituteID uuid.UUID, amount domain.Amount, reason string) (*domain.GrantRequest, error)

	// ApproveGrant approves a pending grant request. Caller must be the
	// institute owner. The approved amount may differ from the requested
	// one; it must be positive and covered by the institute's balance.
	ApproveGrant(ctx context.Context, caller domain.Address, instituteID, grantRequestID uuid.UUID, amount domain.Amount, reason string) (*domain.GrantApproval, error)

	// ListGrantRequests returns an institute's grant requests, oldest first.
	ListGrantRequests(ctx context.Context, instituteID uuid.UUID) ([]*domain.GrantRequest, error)

	// ListGrantApprovals returns the approvals recorded for a grant
	// request, oldest first.
	ListGrantApprovals(ctx context.Context, grantRequestID uuid.UUID) ([]*domain.GrantApproval, error)
}

type grantServiceImpl struct {
	stores  store.Stores
	emitter events.Emitter
	logger  *slog.Logger
}

// NewGrantService creates a new GrantService.
// It returns an error if any of the required dependencies are nil.
func NewGrantService(stores store.Stores, emitter events.Emitter, logger *slog.Logger) (GrantService, error) {
	if stores.Institutes == nil || stores.Students == nil || stores.Grants == nil ||
		stores.Transactor == nil {
		return nil, errors.New("grant service: stores cannot be nil")
	}
	if emitter == nil {
		return nil, errors.New("grant service: emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &grantServiceImpl{
		stores:  stores,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "grant_service")),
	}, nil
}

func (s *grantServiceImpl) RequestGrant(
	ctx context.Context,
	studentID, instituteID uuid.UUID,
	amount domain.Amount,
	reason string,
) (*domain.GrantRequest, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.stores.Students.GetByID(ctx, studentID); err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewError("request_grant", "student not found", store.ErrStudentNotFound)
		}
		return nil, NewError("request_grant", "failed to load student", err)
	}

	if _, err := s.stores.Institutes.GetByID(ctx, instituteID); err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewError("request_grant", "institute not found", store.ErrInstituteNotFound)
		}
		return nil, NewError("request_grant", "failed to load institute", err)
	}

	req, err := domain.NewGrantRequest(instituteID, studentID, amount, reason)
	if err != nil {
		return nil, NewError("request_grant", "invalid grant request", err)
	}

	err = s.stores.Transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.stores.Grants.WithTx(tx).CreateRequest(ctx, req); err != nil {
			return NewError("request_grant", "failed to save request", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to record grant request",
			slog.String("error", err.Error()),
			slog.String("student_id", studentID.String()),
			slog.String("institute_id", instituteID.String()))
		return nil, err
	}

	log.Info("grant requested",
		slog.String("request_id", req.ID.String()),
		slog.String("student_id", studentID.String()),
		slog.String("institute_id", instituteID.String()),
		slog.Int64("amount", int64(amount)))
	emitAudit(ctx, s.emitter, log, events.TypeGrantRequested, map[string]interface{}{
		"request_id":   req.ID,
		"student_id":   studentID,
		"institute_id": instituteID,
		"amount":       amount,
	})

	return req, nil
}

func (s *grantServiceImpl) ApproveGrant(
	ctx context.Context,
	caller domain.Address,
	instituteID, grantRequestID uuid.UUID,
	amount domain.Amount,
	reason string,
) (*domain.GrantApproval, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !amount.IsPositive() {
		return nil, NewError("approve_grant", "amount must be positive", domain.ErrInvalidAmount)
	}

	inst, err := s.stores.Institutes.GetByID(ctx, instituteID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewError("approve_grant", "institute not found", store.ErrInstituteNotFound)
		}
		return nil, NewError("approve_grant", "failed to load institute", err)
	}
	if !inst.IsOwnedBy(caller) {
		return nil, NewError("approve_grant", "caller does not own institute", ErrNotInstitute)
	}

	req, err := s.stores.Grants.GetRequestByID(ctx, grantRequestID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewError("approve_grant", "grant request not found", store.ErrGrantRequestNotFound)
		}
		return nil, NewError("approve_grant", "failed to load grant request", err)
	}
	if req.InstituteID != instituteID {
		return nil, NewError("approve_grant", "grant request belongs to another institute", store.ErrGrantRequestNotFound)
	}

	student, err := s.stores.Students.GetByID(ctx, req.StudentID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewError("approve_grant", "student not found", store.ErrStudentNotFound)
		}
		return nil, NewError("approve_grant", "failed to load student", err)
	}

	if err := req.Approve(); err != nil {
		return nil, NewError("approve_grant", "request already approved", err)
	}
	if err := inst.Debit(amount); err != nil {
		return nil, NewError("approve_grant", "institute balance too low", err)
	}
	if err := student.Credit(amount); err != nil {
		return nil, NewError("approve_grant", "grant credit failed", err)
	}

	approval, err := domain.NewGrantApproval(grantRequestID, caller, amount, reason)
	if err != nil {
		return nil, NewError("approve_grant", "invalid approval", err)
	}

	err = s.stores.Transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		grants := s.stores.Grants.WithTx(tx)
		if err := grants.UpdateRequest(ctx, req); err != nil {
			return NewError("approve_grant", "failed to mark request approved", err)
		}
		if err := s.stores.Institutes.WithTx(tx).Update(ctx, inst); err != nil {
			return NewError("approve_grant", "failed to debit institute", err)
		}
		if err := s.stores.Students.WithTx(tx).Update(ctx, student); err != nil {
			return NewError("approve_grant", "failed to credit student", err)
		}
		if err := grants.CreateApproval(ctx, approval); err != nil {
			return NewError("approve_grant", "failed to save approval", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to approve grant",
			slog.String("error", err.Error()),
			slog.String("request_id", grantRequestID.String()),
			slog.String("institute_id", instituteID.String()))
		return nil, err
	}

	log.Info("grant approved",
		slog.String("approval_id", approval.ID.String()),
		slog.String("request_id", grantRequestID.String()),
		slog.String("institute_id", instituteID.String()),
		slog.String("student_id", req.StudentID.String()),
		slog.Int64("amount", int64(amount)))
	emitAudit(ctx, s.emitter, log, events.TypeGrantApproved, map[string]interface{}{
		"approval_id":  approval.ID,
		"request_id":   grantRequestID,
		"institute_id": instituteID,
		"student_id":   req.StudentID,
		"amount":       amount,
	})

	return approval, nil
}

func (s *grantServiceImpl) ListGrantRequests(
	ctx context.Context,
	instituteID uuid.UUID,
) ([]*domain.GrantRequest, error) {
	reqs, err := s.stores.Grants.ListRequestsByInstitute(ctx, instituteID)
	if err != nil {
		return nil, NewError("list_grant_requests", "failed to list requests", err)
	}
	return reqs, nil
}

func (s *grantServiceImpl) ListGrantApprovals(
	ctx context.Context,
	grantRequestID uuid.UUID,
) ([]*domain.GrantApproval, error) {
	approvals, err := s.stores.Grants.ListApprovalsByRequest(ctx, grantRequestID)
	if err != nil {
		return nil, NewError("list_grant_approvals", "failed to list approvals", err)
	}
	return approvals, nil
}
