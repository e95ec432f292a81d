package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/campushq/registrar/internal/domain"
	"github.com/campushq/registrar/internal/events"
	"github.com/campushq/registrar/internal/platform/logger"
	"github.com/campushq/registrar/internal/store"
)

// EnrollmentService implements the enrollment workflow: students request a
// seat, the institute completes the enrollment, and the enrollment fee
// moves from the student's balance to the institute's in the same
// transaction that fills the seat.
type EnrollmentService interface {
	// RequestEnrollment records a student's enrollment request at an
	// institute. It consumes no course capacity and moves no funds.
	RequestEnrollment(ctx context.Context, studentID, instituteID uuid.UUID) (*domain.EnrollmentRequest, error)

	// AddEnrollment enrolls a student into a course. Caller must be the
	// institute owner. All checks run before any write: the student and
	// course must exist, the student's balance must cover the institute's
	// fee, and the course roster must have a free seat. On success the fee
	// transfer, the roster append, the enrollment record, and the
	// consumption of the student's pending request commit atomically.
	AddEnrollment(ctx context.Context, caller domain.Address, instituteID, studentID, courseID uuid.UUID, date time.Time) (*domain.Enrollment, error)

	// ListEnrollmentRequests returns pending requests at an institute,
	// oldest first.
	ListEnrollmentRequests(ctx context.Context, instituteID uuid.UUID) ([]*domain.EnrollmentRequest, error)

	// ListEnrollments returns completed enrollments at an institute,
	// oldest first.
	ListEnrollments(ctx context.Context, instituteID uuid.UUID) ([]*domain.Enrollment, error)
}

type enrollmentServiceImpl struct {
	stores  store.Stores
	emitter events.Emitter
	logger  *slog.Logger
}

// NewEnrollmentService creates a new EnrollmentService.
// It returns an error if any of the required dependencies are nil.
func NewEnrollmentService(stores store.Stores, emitter events.Emitter, logger *slog.Logger) (EnrollmentService, error) {
	if stores.Institutes == nil || stores.Students == nil || stores.Courses == nil ||
		stores.Enrollments == nil || stores.Transactor == nil {
		return nil, errors.New("enrollment service: stores cannot be nil")
	}
	if emitter == nil {
		return nil, errors.New("enrollment service: emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &enrollmentServiceImpl{
		stores:  stores,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "enrollment_service")),
	}, nil
}

func (s *enrollmentServiceImpl) RequestEnrollment(
	ctx context.Context,
	studentID, instituteID uuid.UUID,
) (*domain.EnrollmentRequest, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	student, err := s.stores.Students.GetByID(ctx, studentID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewError("request_enrollment", "student not found", store.ErrStudentNotFound)
		}
		return nil, NewError("request_enrollment", "failed to load student", err)
	}

	if _, err := s.stores.Institutes.GetByID(ctx, instituteID); err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewError("request_enrollment", "institute not found", store.ErrInstituteNotFound)
		}
		return nil, NewError("request_enrollment", "failed to load institute", err)
	}

	req, err := domain.NewEnrollmentRequest(instituteID, student)
	if err != nil {
		return nil, NewError("request_enrollment", "invalid request", err)
	}

	err = s.stores.Transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.stores.Enrollments.WithTx(tx).CreateRequest(ctx, req); err != nil {
			return NewError("request_enrollment", "failed to save request", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to record enrollment request",
			slog.String("error", err.Error()),
			slog.String("student_id", studentID.String()),
			slog.String("institute_id", instituteID.String()))
		return nil, err
	}

	log.Info("enrollment requested",
		slog.String("request_id", req.ID.String()),
		slog.String("student_id", studentID.String()),
		slog.String("institute_id", instituteID.String()))
	emitAudit(ctx, s.emitter, log, events.TypeEnrollmentAsked, map[string]interface{}{
		"request_id":   req.ID,
		"student_id":   studentID,
		"institute_id": instituteID,
	})

	return req, nil
}

func (s *enrollmentServiceImpl) AddEnrollment(
	ctx context.Context,
	caller domain.Address,
	instituteID, studentID, courseID uuid.UUID,
	date time.Time,
) (*domain.Enrollment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	inst, err := s.stores.Institutes.GetByID(ctx, instituteID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewError("add_enrollment", "institute not found", store.ErrInstituteNotFound)
		}
		return nil, NewError("add_enrollment", "failed to load institute", err)
	}
	if !inst.IsOwnedBy(caller) {
		return nil, NewError("add_enrollment", "caller does not own institute", ErrNotInstitute)
	}

	student, err := s.stores.Students.GetByID(ctx, studentID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewError("add_enrollment", "student not found", store.ErrStudentNotFound)
		}
		return nil, NewError("add_enrollment", "failed to load student", err)
	}

	course, err := s.stores.Courses.GetByID(ctx, courseID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewError("add_enrollment", "course not found", store.ErrCourseNotFound)
		}
		return nil, NewError("add_enrollment", "failed to load course", err)
	}
	if course.InstituteID != instituteID {
		return nil, NewError("add_enrollment", "course belongs to another institute", store.ErrCourseNotFound)
	}

	if student.Balance < inst.Fees {
		return nil, NewError("add_enrollment", "student balance below fee", domain.ErrInsufficientBalance)
	}
	if !course.HasCapacity() {
		return nil, NewError("add_enrollment", "course roster is full", domain.ErrInsufficientCapacity)
	}

	// All checks passed. Apply the fee transfer to the loaded entities and
	// commit everything in one transaction.
	if err := student.Debit(inst.Fees); err != nil {
		return nil, NewError("add_enrollment", "fee debit failed", err)
	}
	if err := inst.Credit(inst.Fees); err != nil {
		return nil, NewError("add_enrollment", "fee credit failed", err)
	}

	enrollment, err := domain.NewEnrollment(instituteID, student, courseID, date)
	if err != nil {
		return nil, NewError("add_enrollment", "invalid enrollment", err)
	}

	seat := len(course.EnrolledStudents)
	err = s.stores.Transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.stores.Students.WithTx(tx).Update(ctx, student); err != nil {
			return NewError("add_enrollment", "failed to debit student", err)
		}
		if err := s.stores.Institutes.WithTx(tx).Update(ctx, inst); err != nil {
			return NewError("add_enrollment", "failed to credit institute", err)
		}
		if err := s.stores.Courses.WithTx(tx).AddToRoster(ctx, courseID, student.Owner, seat); err != nil {
			return NewError("add_enrollment", "failed to fill seat", err)
		}

		enrollments := s.stores.Enrollments.WithTx(tx)
		if err := enrollments.CreateEnrollment(ctx, enrollment); err != nil {
			return NewError("add_enrollment", "failed to save enrollment", err)
		}

		// Consume the student's pending request, if any.
		req, err := enrollments.FindRequestByStudent(ctx, instituteID, studentID)
		switch {
		case errors.Is(err, store.ErrEnrollmentRequestNotFound):
			return nil
		case err != nil:
			return NewError("add_enrollment", "failed to look up pending request", err)
		}
		if err := enrollments.DeleteRequest(ctx, req.ID); err != nil {
			return NewError("add_enrollment", "failed to consume pending request", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to add enrollment",
			slog.String("error", err.Error()),
			slog.String("institute_id", instituteID.String()),
			slog.String("student_id", studentID.String()),
			slog.String("course_id", courseID.String()))
		return nil, err
	}

	log.Info("enrollment completed",
		slog.String("enrollment_id", enrollment.ID.String()),
		slog.String("institute_id", instituteID.String()),
		slog.String("student_id", studentID.String()),
		slog.String("course_id", courseID.String()),
		slog.Int64("fee", int64(inst.Fees)))
	emitAudit(ctx, s.emitter, log, events.TypeEnrollmentDone, map[string]interface{}{
		"enrollment_id": enrollment.ID,
		"institute_id":  instituteID,
		"student_id":    studentID,
		"course_id":     courseID,
		"fee":           inst.Fees,
	})

	return enrollment, nil
}

func (s *enrollmentServiceImpl) ListEnrollmentRequests(
	ctx context.Context,
	instituteID uuid.UUID,
) ([]*domain.EnrollmentRequest, error) {
	reqs, err := s.stores.Enrollments.ListRequestsByInstitute(ctx, instituteID)
	if err != nil {
		return nil, NewError("list_enrollment_requests", "failed to list requests", err)
	}
	return reqs, nil
}

func (s *enrollmentServiceImpl) ListEnrollments(
	ctx context.Context,
	instituteID uuid.UUID,
) ([]*domain.Enrollment, error) {
	enrollments, err := s.stores.Enrollments.ListEnrollmentsByInstitute(ctx, instituteID)
	if err != nil {
		return nil, NewError("list_enrollments", "failed to list enrollments", err)
	}
	return enrollments, nil
}
