package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/campushq/registrar/internal/domain"
	"github.com/campushq/registrar/internal/service"
)

// InstituteGate wraps the privileged service entry points with the
// "institute" role check: the caller must hold that role at the target
// institute before the wrapped service runs. A failed check short-circuits
// the call; the underlying service is never invoked.
type InstituteGate struct {
	authorizer  Authorizer
	students    service.StudentService
	courses     service.CourseService
	enrollments service.EnrollmentService
	grants      service.GrantService
	institutes  service.InstituteService
	logger      *slog.Logger
}

// NewInstituteGate creates an InstituteGate over the given services.
func NewInstituteGate(
	authorizer Authorizer,
	students service.StudentService,
	courses service.CourseService,
	enrollments service.EnrollmentService,
	grants service.GrantService,
	institutes service.InstituteService,
	logger *slog.Logger,
) (*InstituteGate, error) {
	if authorizer == nil {
		return nil, errors.New("institute gate: authorizer cannot be nil")
	}
	if students == nil || courses == nil || enrollments == nil || grants == nil || institutes == nil {
		return nil, errors.New("institute gate: services cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &InstituteGate{
		authorizer:  authorizer,
		students:    students,
		courses:     courses,
		enrollments: enrollments,
		grants:      grants,
		institutes:  institutes,
		logger:      logger.With(slog.String("component", "institute_gate")),
	}, nil
}

// RegisterStudent registers a student on behalf of the institute.
func (g *InstituteGate) RegisterStudent(
	ctx context.Context,
	caller domain.Address,
	instituteID uuid.UUID,
	name, email, homeAddress string,
) (*domain.Student, error) {
	if err := g.authorize(ctx, caller, instituteID, "register_student"); err != nil {
		return nil, err
	}
	return g.students.RegisterStudent(ctx, caller, name, email, homeAddress)
}

// AddCourse adds a course to the institute's catalog.
func (g *InstituteGate) AddCourse(
	ctx context.Context,
	caller domain.Address,
	instituteID uuid.UUID,
	title, instructor string,
	capacity int,
) (*domain.Course, error) {
	if err := g.authorize(ctx, caller, instituteID, "add_course"); err != nil {
		return nil, err
	}
	return g.courses.AddCourse(ctx, caller, instituteID, title, instructor, capacity)
}

// AddEnrollment completes an enrollment at the institute.
func (g *InstituteGate) AddEnrollment(
	ctx context.Context,
	caller domain.Address,
	instituteID, studentID, courseID uuid.UUID,
	date time.Time,
) (*domain.Enrollment, error) {
	if err := g.authorize(ctx, caller, instituteID, "add_enrollment"); err != nil {
		return nil, err
	}
	return g.enrollments.AddEnrollment(ctx, caller, instituteID, studentID, courseID, date)
}

// ApproveGrant approves a grant request at the institute.
func (g *InstituteGate) ApproveGrant(
	ctx context.Context,
	caller domain.Address,
	instituteID, grantRequestID uuid.UUID,
	amount domain.Amount,
	reason string,
) (*domain.GrantApproval, error) {
	if err := g.authorize(ctx, caller, instituteID, "approve_grant"); err != nil {
		return nil, err
	}
	return g.grants.ApproveGrant(ctx, caller, instituteID, grantRequestID, amount, reason)
}

// WithdrawBalance withdraws funds from the institute's balance.
func (g *InstituteGate) WithdrawBalance(
	ctx context.Context,
	caller domain.Address,
	instituteID uuid.UUID,
	amount domain.Amount,
) (*domain.Institute, error) {
	if err := g.authorize(ctx, caller, instituteID, "withdraw_balance"); err != nil {
		return nil, err
	}
	return g.institutes.WithdrawBalance(ctx, caller, instituteID, amount)
}

func (g *InstituteGate) authorize(
	ctx context.Context,
	caller domain.Address,
	instituteID uuid.UUID,
	op string,
) error {
	err := g.authorizer.Authenticate(ctx, caller, domain.InstituteRoleName, instituteID)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			g.logger.Warn("unauthorized gated call",
				slog.String("operation", op),
				slog.String("institute_id", instituteID.String()))
			return ErrUnauthorized
		}
		return err
	}
	return nil
}
