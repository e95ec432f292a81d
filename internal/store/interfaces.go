package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/campushq/registrar/internal/domain"
)

// InstituteStore defines persistence for institute records.
type InstituteStore interface {
	// Create saves a new institute.
	Create(ctx context.Context, institute *domain.Institute) error

	// GetByID retrieves an institute by its unique ID.
	// Returns ErrInstituteNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Institute, error)

	// Update writes back a modified institute (balance changes).
	// Returns ErrInstituteNotFound if it does not exist.
	Update(ctx context.Context, institute *domain.Institute) error

	// WithTx returns a store instance bound to the given transaction.
	WithTx(tx *sql.Tx) InstituteStore
}

// StudentStore defines persistence for student records.
type StudentStore interface {
	// Create saves a new student.
	Create(ctx context.Context, student *domain.Student) error

	// GetByID retrieves a student by its unique ID.
	// Returns ErrStudentNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error)

	// Update writes back a modified student (balance changes).
	// Returns ErrStudentNotFound if it does not exist.
	Update(ctx context.Context, student *domain.Student) error

	// WithTx returns a store instance bound to the given transaction.
	WithTx(tx *sql.Tx) StudentStore
}

// CourseStore defines persistence for courses and their rosters.
type CourseStore interface {
	// Create saves a new course with an empty roster.
	Create(ctx context.Context, course *domain.Course) error

	// GetByID retrieves a course, roster included, by its unique ID.
	// Returns ErrCourseNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error)

	// ListByInstitute returns all courses of an institute, oldest first.
	ListByInstitute(ctx context.Context, instituteID uuid.UUID) ([]*domain.Course, error)

	// AddToRoster appends a student address at the given roster position.
	// Returns ErrCourseNotFound if the course does not exist.
	AddToRoster(ctx context.Context, courseID uuid.UUID, student domain.Address, position int) error

	// WithTx returns a store instance bound to the given transaction.
	WithTx(tx *sql.Tx) CourseStore
}

// EnrollmentStore defines persistence for enrollment requests and
// completed enrollments.
type EnrollmentStore interface {
	// CreateRequest saves a new enrollment request.
	CreateRequest(ctx context.Context, req *domain.EnrollmentRequest) error

	// GetRequestByID retrieves an enrollment request by ID.
	// Returns ErrEnrollmentRequestNotFound if it does not exist.
	GetRequestByID(ctx context.Context, id uuid.UUID) (*domain.EnrollmentRequest, error)

	// FindRequestByStudent returns the oldest pending request of a student
	// at an institute. Returns ErrEnrollmentRequestNotFound if none exists.
	FindRequestByStudent(ctx context.Context, instituteID, studentID uuid.UUID) (*domain.EnrollmentRequest, error)

	// DeleteRequest removes a consumed or abandoned request.
	// Returns ErrEnrollmentRequestNotFound if it does not exist.
	DeleteRequest(ctx context.Context, id uuid.UUID) error

	// ListRequestsByInstitute returns pending requests, oldest first.
	ListRequestsByInstitute(ctx context.Context, instituteID uuid.UUID) ([]*domain.EnrollmentRequest, error)

	// CreateEnrollment saves a completed enrollment.
	CreateEnrollment(ctx context.Context, enrollment *domain.Enrollment) error

	// ListEnrollmentsByInstitute returns enrollments, oldest first.
	ListEnrollmentsByInstitute(ctx context.Context, instituteID uuid.UUID) ([]*domain.Enrollment, error)

	// WithTx returns a store instance bound to the given transaction.
	WithTx(tx *sql.Tx) EnrollmentStore
}

// GrantStore defines persistence for grant requests and approvals.
type GrantStore interface {
	// CreateRequest saves a new grant request.
	CreateRequest(ctx context.Context, req *domain.GrantRequest) error

	// GetRequestByID retrieves a grant request by ID.
	// Returns ErrGrantRequestNotFound if it does not exist.
	GetRequestByID(ctx context.Context, id uuid.UUID) (*domain.GrantRequest, error)

	// UpdateRequest writes back a modified grant request (approval flag).
	// Returns ErrGrantRequestNotFound if it does not exist.
	UpdateRequest(ctx context.Context, req *domain.GrantRequest) error

	// ListRequestsByInstitute returns grant requests, oldest first.
	ListRequestsByInstitute(ctx context.Context, instituteID uuid.UUID) ([]*domain.GrantRequest, error)

	// CreateApproval saves the append-only approval record.
	CreateApproval(ctx context.Context, approval *domain.GrantApproval) error

	// ListApprovalsByRequest returns approvals for a grant request,
	// oldest first.
	ListApprovalsByRequest(ctx context.Context, grantRequestID uuid.UUID) ([]*domain.GrantApproval, error)

	// WithTx returns a store instance bound to the given transaction.
	WithTx(tx *sql.Tx) GrantStore
}

// RoleStore defines persistence for the per-institute role registry.
type RoleStore interface {
	// Create saves a new role. Returns ErrRoleExists if the institute
	// already has a role with the same name.
	Create(ctx context.Context, role *domain.Role) error

	// GetByName retrieves a role by institute and name.
	// Returns ErrRoleNotFound if it does not exist.
	GetByName(ctx context.Context, instituteID uuid.UUID, name string) (*domain.Role, error)

	// Update writes back a modified role (membership changes).
	// Returns ErrRoleNotFound if it does not exist.
	Update(ctx context.Context, role *domain.Role) error

	// WithTx returns a store instance bound to the given transaction.
	WithTx(tx *sql.Tx) RoleStore
}

// Stores bundles every repository plus the Transactor that makes a
// multi-store mutation atomic. Wiring code assembles one per backend.
type Stores struct {
	Institutes  InstituteStore
	Students    StudentStore
	Courses     CourseStore
	Enrollments EnrollmentStore
	Grants      GrantStore
	Roles       RoleStore
	Transactor  Transactor
}
