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

// CourseService manages an institute's course catalog.
type CourseService interface {
	// AddCourse adds a capacity-bounded course to the institute's catalog.
	// Caller must be the institute owner.
	AddCourse(ctx context.Context, caller domain.Address, instituteID uuid.UUID, title, instructor string, capacity int) (*domain.Course, error)

	// GetCourse retrieves a course, roster included.
	GetCourse(ctx context.Context, courseID uuid.UUID) (*domain.Course, error)

	// ListCourses returns all courses of an institute, oldest first.
	ListCourses(ctx context.Context, instituteID uuid.UUID) ([]*domain.Course, error)
}

type courseServiceImpl struct {
	stores  store.Stores
	emitter events.Emitter
	logger  *slog.Logger
}

// NewCourseService creates a new CourseService.
// It returns an error if any of the required dependencies are nil.
func NewCourseService(stores store.Stores, emitter events.Emitter, logger *slog.Logger) (CourseService, error) {
	if stores.Institutes == nil || stores.Courses == nil || stores.Transactor == nil {
		return nil, errors.New("course service: stores cannot be nil")
	}
	if emitter == nil {
		return nil, errors.New("course service: emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &courseServiceImpl{
		stores:  stores,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "course_service")),
	}, nil
}

func (s *courseServiceImpl) AddCourse(
	ctx context.Context,
	caller domain.Address,
	instituteID uuid.UUID,
	title, instructor string,
	capacity int,
) (*domain.Course, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	inst, err := s.stores.Institutes.GetByID(ctx, instituteID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewError("add_course", "institute not found", store.ErrInstituteNotFound)
		}
		return nil, NewError("add_course", "failed to load institute", err)
	}
	if !inst.IsOwnedBy(caller) {
		return nil, NewError("add_course", "caller does not own institute", ErrNotInstitute)
	}

	course, err := domain.NewCourse(instituteID, title, instructor, capacity)
	if err != nil {
		return nil, NewError("add_course", "invalid course", err)
	}

	err = s.stores.Transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.stores.Courses.WithTx(tx).Create(ctx, course); err != nil {
			return NewError("add_course", "failed to save course", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to add course",
			slog.String("error", err.Error()),
			slog.String("institute_id", instituteID.String()))
		return nil, err
	}

	log.Info("course added",
		slog.String("course_id", course.ID.String()),
		slog.String("institute_id", instituteID.String()),
		slog.Int("capacity", capacity))
	emitAudit(ctx, s.emitter, log, events.TypeCourseAdded, map[string]interface{}{
		"course_id":    course.ID,
		"institute_id": instituteID,
		"capacity":     capacity,
	})

	return course, nil
}

func (s *courseServiceImpl) GetCourse(
	ctx context.Context,
	courseID uuid.UUID,
) (*domain.Course, error) {
	course, err := s.stores.Courses.GetByID(ctx, courseID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewError("get_course", "course not found", store.ErrCourseNotFound)
		}
		return nil, NewError("get_course", "failed to load course", err)
	}
	return course, nil
}

func (s *courseServiceImpl) ListCourses(
	ctx context.Context,
	instituteID uuid.UUID,
) ([]*domain.Course, error) {
	courses, err := s.stores.Courses.ListByInstitute(ctx, instituteID)
	if err != nil {
		return nil, NewError("list_courses", "failed to list courses", err)
	}
	return courses, nil
}
