package postgres

import (
	"database/sql"
	"log/slog"

	"github.com/campushq/registrar/internal/store"
)

// NewStores assembles the full store.Stores bundle over one database
// connection, sharing a logger across the repositories.
func NewStores(db *sql.DB, logger *slog.Logger) store.Stores {
	return store.Stores{
		Institutes:  NewPostgresInstituteStore(db, logger),
		Students:    NewPostgresStudentStore(db, logger),
		Courses:     NewPostgresCourseStore(db, logger),
		Enrollments: NewPostgresEnrollmentStore(db, logger),
		Grants:      NewPostgresGrantStore(db, logger),
		Roles:       NewPostgresRoleStore(db, logger),
		Transactor:  store.NewSQLTransactor(db),
	}
}
