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

// PostgresCourseStore implements the store.CourseStore interface using a
// PostgreSQL database as the storage backend. The roster lives in the
// course_roster table, ordered by position.
type PostgresCourseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCourseStore creates a new PostgreSQL implementation of the
// CourseStore interface. If logger is nil, a default logger is used.
func NewPostgresCourseStore(db store.DBTX, logger *slog.Logger) *PostgresCourseStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCourseStore{
		db:     db,
		logger: logger.With(slog.String("component", "course_store")),
	}
}

// Ensure PostgresCourseStore implements store.CourseStore
var _ store.CourseStore = (*PostgresCourseStore)(nil)

// Create implements store.CourseStore.Create.
func (s *PostgresCourseStore) Create(ctx context.Context, course *domain.Course) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := course.Validate(); err != nil {
		log.Warn("course validation failed during create",
			slog.String("error", err.Error()),
			slog.String("course_id", course.ID.String()))
		return err
	}

	query := `
		INSERT INTO courses (id, institute_id, title, instructor, capacity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		course.ID,
		course.InstituteID,
		course.Title,
		course.Instructor,
		course.Capacity,
		course.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create course",
			slog.String("error", err.Error()),
			slog.String("course_id", course.ID.String()))
		return mapError(err)
	}

	log.Info("course created successfully",
		slog.String("course_id", course.ID.String()),
		slog.String("title", course.Title))
	return nil
}

// GetByID implements store.CourseStore.GetByID. The roster is loaded in
// position order so the domain invariant check sees the full list.
// Returns store.ErrCourseNotFound if the course does not exist.
func (s *PostgresCourseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, institute_id, title, instructor, capacity, created_at
		FROM courses
		WHERE id = $1
	`

	var c domain.Course
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.InstituteID,
		&c.Title,
		&c.Instructor,
		&c.Capacity,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("course not found", slog.String("course_id", id.String()))
			return nil, store.ErrCourseNotFound
		}
		log.Error("failed to get course by ID",
			slog.String("error", err.Error()),
			slog.String("course_id", id.String()))
		return nil, mapError(err)
	}

	roster, err := s.loadRoster(ctx, id)
	if err != nil {
		return nil, err
	}
	c.EnrolledStudents = roster

	return &c, nil
}

// ListByInstitute implements store.CourseStore.ListByInstitute.
func (s *PostgresCourseStore) ListByInstitute(ctx context.Context, instituteID uuid.UUID) ([]*domain.Course, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, institute_id, title, instructor, capacity, created_at
		FROM courses
		WHERE institute_id = $1
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, instituteID)
	if err != nil {
		log.Error("failed to list courses",
			slog.String("error", err.Error()),
			slog.String("institute_id", instituteID.String()))
		return nil, mapError(err)
	}
	defer func() { _ = rows.Close() }()

	var courses []*domain.Course
	for rows.Next() {
		var c domain.Course
		if err := rows.Scan(&c.ID, &c.InstituteID, &c.Title, &c.Instructor, &c.Capacity, &c.CreatedAt); err != nil {
			return nil, mapError(err)
		}
		courses = append(courses, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	for _, c := range courses {
		roster, err := s.loadRoster(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		c.EnrolledStudents = roster
	}

	return courses, nil
}

// AddToRoster implements store.CourseStore.AddToRoster.
// Returns store.ErrCourseNotFound if the course does not exist.
func (s *PostgresCourseStore) AddToRoster(ctx context.Context, courseID uuid.UUID, student domain.Address, position int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO course_roster (course_id, position, student_address)
		VALUES ($1, $2, $3)
	`
	_, err := s.db.ExecContext(ctx, query, courseID, position, string(student))
	if err != nil {
		mapped := mapError(err)
		if errors.Is(mapped, store.ErrInvalidEntity) {
			// Foreign key violation: no such course.
			return fmt.Errorf("%w: %v", store.ErrCourseNotFound, err)
		}
		log.Error("failed to append to course roster",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID.String()))
		return mapped
	}

	return nil
}

func (s *PostgresCourseStore) loadRoster(ctx context.Context, courseID uuid.UUID) ([]domain.Address, error) {
	query := `
		SELECT student_address
		FROM course_roster
		WHERE course_id = $1
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, mapError(err)
	}
	defer func() { _ = rows.Close() }()

	var roster []domain.Address
	for rows.Next() {
		var addr string
		if err := rows.Scan(&addr); err != nil {
			return nil, mapError(err)
		}
		roster = append(roster, domain.Address(addr))
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return roster, nil
}

// WithTx implements store.CourseStore.WithTx.
func (s *PostgresCourseStore) WithTx(tx *sql.Tx) store.CourseStore {
	return &PostgresCourseStore{
		db:     tx,
		logger: s.logger,
	}
}
