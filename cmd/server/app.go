package main

import (
	"database/sql"
	"log/slog"

	"github.com/campushq/registrar/internal/config"
	"github.com/campushq/registrar/internal/events"
	"github.com/campushq/registrar/internal/platform/postgres"
	"github.com/campushq/registrar/internal/service"
	"github.com/campushq/registrar/internal/service/auth"
)

// application holds the wired components of the registrar.
type application struct {
	cfg    *config.Config
	db     *sql.DB
	logger *slog.Logger

	institutes  service.InstituteService
	students    service.StudentService
	courses     service.CourseService
	enrollments service.EnrollmentService
	grants      service.GrantService
	gate        *auth.InstituteGate
}

// newApplication wires the Postgres stores, the audit emitter, the
// services, and the authorization gate.
func newApplication(cfg *config.Config, db *sql.DB, logger *slog.Logger) (*application, error) {
	stores := postgres.NewStores(db, logger)

	emitter := events.NewInMemoryEmitter(logger)
	emitter.RegisterHandler(events.NewLoggingHandler(logger))

	institutes, err := service.NewInstituteService(stores, emitter, logger)
	if err != nil {
		return nil, err
	}
	students, err := service.NewStudentService(stores, emitter, logger)
	if err != nil {
		return nil, err
	}
	courses, err := service.NewCourseService(stores, emitter, logger)
	if err != nil {
		return nil, err
	}
	enrollments, err := service.NewEnrollmentService(stores, emitter, logger)
	if err != nil {
		return nil, err
	}
	grants, err := service.NewGrantService(stores, emitter, logger)
	if err != nil {
		return nil, err
	}

	authorizer, err := auth.NewRoleAuthorizer(stores.Roles, logger)
	if err != nil {
		return nil, err
	}
	gate, err := auth.NewInstituteGate(authorizer, students, courses, enrollments, grants, institutes, logger)
	if err != nil {
		return nil, err
	}

	return &application{
		cfg:         cfg,
		db:          db,
		logger:      logger,
		institutes:  institutes,
		students:    students,
		courses:     courses,
		enrollments: enrollments,
		grants:      grants,
		gate:        gate,
	}, nil
}

// Close releases the application's resources.
func (a *application) Close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", slog.String("error", err.Error()))
	}
}
