// Package memory provides an in-memory implementation of every store
// interface, plus a snapshot-based Transactor. It backs the service-layer
// tests and local development runs.
//
// The store performs no locking of its own: the execution model gives each
// aggregate a single writer and leaves serialization of conflicting
// operations to the caller, exactly as the persistent backends do.
package memory

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/campushq/registrar/internal/domain"
	"github.com/campushq/registrar/internal/store"
)

// Store keeps every record table in process. All reads and writes go
// through deep copies so no caller ever holds an aliasable reference into
// the tables. Entity-specific repository views share this one state.
type Store struct {
	institutes         map[uuid.UUID]*domain.Institute
	students           map[uuid.UUID]*domain.Student
	courses            map[uuid.UUID]*domain.Course
	enrollmentRequests map[uuid.UUID]*domain.EnrollmentRequest
	enrollments        map[uuid.UUID]*domain.Enrollment
	grantRequests      map[uuid.UUID]*domain.GrantRequest
	grantApprovals     map[uuid.UUID]*domain.GrantApproval
	roles              map[uuid.UUID]*domain.Role
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		institutes:         make(map[uuid.UUID]*domain.Institute),
		students:           make(map[uuid.UUID]*domain.Student),
		courses:            make(map[uuid.UUID]*domain.Course),
		enrollmentRequests: make(map[uuid.UUID]*domain.EnrollmentRequest),
		enrollments:        make(map[uuid.UUID]*domain.Enrollment),
		grantRequests:      make(map[uuid.UUID]*domain.GrantRequest),
		grantApprovals:     make(map[uuid.UUID]*domain.GrantApproval),
		roles:              make(map[uuid.UUID]*domain.Role),
	}
}

// Stores assembles a store.Stores bundle where every repository and the
// Transactor share this in-memory state.
func (s *Store) Stores() store.Stores {
	return store.Stores{
		Institutes:  (*instituteView)(s),
		Students:    (*studentView)(s),
		Courses:     (*courseView)(s),
		Enrollments: (*enrollmentView)(s),
		Grants:      (*grantView)(s),
		Roles:       (*roleView)(s),
		Transactor:  s,
	}
}

// RunInTransaction implements store.Transactor. It snapshots every table,
// runs fn with a nil *sql.Tx, and restores the snapshot if fn fails, so a
// failed workflow leaves no partial writes behind.
func (s *Store) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	snap := s.snapshot()
	if err := fn(ctx, nil); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	institutes         map[uuid.UUID]*domain.Institute
	students           map[uuid.UUID]*domain.Student
	courses            map[uuid.UUID]*domain.Course
	enrollmentRequests map[uuid.UUID]*domain.EnrollmentRequest
	enrollments        map[uuid.UUID]*domain.Enrollment
	grantRequests      map[uuid.UUID]*domain.GrantRequest
	grantApprovals     map[uuid.UUID]*domain.GrantApproval
	roles              map[uuid.UUID]*domain.Role
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		institutes:         make(map[uuid.UUID]*domain.Institute, len(s.institutes)),
		students:           make(map[uuid.UUID]*domain.Student, len(s.students)),
		courses:            make(map[uuid.UUID]*domain.Course, len(s.courses)),
		enrollmentRequests: make(map[uuid.UUID]*domain.EnrollmentRequest, len(s.enrollmentRequests)),
		enrollments:        make(map[uuid.UUID]*domain.Enrollment, len(s.enrollments)),
		grantRequests:      make(map[uuid.UUID]*domain.GrantRequest, len(s.grantRequests)),
		grantApprovals:     make(map[uuid.UUID]*domain.GrantApproval, len(s.grantApprovals)),
		roles:              make(map[uuid.UUID]*domain.Role, len(s.roles)),
	}
	for k, v := range s.institutes {
		snap.institutes[k] = cloneInstitute(v)
	}
	for k, v := range s.students {
		snap.students[k] = cloneStudent(v)
	}
	for k, v := range s.courses {
		snap.courses[k] = cloneCourse(v)
	}
	for k, v := range s.enrollmentRequests {
		snap.enrollmentRequests[k] = cloneEnrollmentRequest(v)
	}
	for k, v := range s.enrollments {
		snap.enrollments[k] = cloneEnrollment(v)
	}
	for k, v := range s.grantRequests {
		snap.grantRequests[k] = cloneGrantRequest(v)
	}
	for k, v := range s.grantApprovals {
		snap.grantApprovals[k] = cloneGrantApproval(v)
	}
	for k, v := range s.roles {
		snap.roles[k] = cloneRole(v)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.institutes = snap.institutes
	s.students = snap.students
	s.courses = snap.courses
	s.enrollmentRequests = snap.enrollmentRequests
	s.enrollments = snap.enrollments
	s.grantRequests = snap.grantRequests
	s.grantApprovals = snap.grantApprovals
	s.roles = snap.roles
}

// ---- InstituteStore ----

type instituteView Store

var _ store.InstituteStore = (*instituteView)(nil)

func (v *instituteView) Create(ctx context.Context, institute *domain.Institute) error {
	if err := institute.Validate(); err != nil {
		return err
	}
	if _, ok := v.institutes[institute.ID]; ok {
		return store.ErrDuplicate
	}
	v.institutes[institute.ID] = cloneInstitute(institute)
	return nil
}

func (v *instituteView) GetByID(ctx context.Context, id uuid.UUID) (*domain.Institute, error) {
	inst, ok := v.institutes[id]
	if !ok {
		return nil, store.ErrInstituteNotFound
	}
	return cloneInstitute(inst), nil
}

func (v *instituteView) Update(ctx context.Context, institute *domain.Institute) error {
	if err := institute.Validate(); err != nil {
		return err
	}
	if _, ok := v.institutes[institute.ID]; !ok {
		return store.ErrInstituteNotFound
	}
	v.institutes[institute.ID] = cloneInstitute(institute)
	return nil
}

func (v *instituteView) WithTx(tx *sql.Tx) store.InstituteStore {
	// The in-memory store has no database transactions; the Transactor
	// provides atomicity instead.
	return v
}

// ---- StudentStore ----

type studentView Store

var _ store.StudentStore = (*studentView)(nil)

func (v *studentView) Create(ctx context.Context, student *domain.Student) error {
	if err := student.Validate(); err != nil {
		return err
	}
	if _, ok := v.students[student.ID]; ok {
		return store.ErrDuplicate
	}
	v.students[student.ID] = cloneStudent(student)
	return nil
}

func (v *studentView) GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	st, ok := v.students[id]
	if !ok {
		return nil, store.ErrStudentNotFound
	}
	return cloneStudent(st), nil
}

func (v *studentView) Update(ctx context.Context, student *domain.Student) error {
	if err := student.Validate(); err != nil {
		return err
	}
	if _, ok := v.students[student.ID]; !ok {
		return store.ErrStudentNotFound
	}
	v.students[student.ID] = cloneStudent(student)
	return nil
}

func (v *studentView) WithTx(tx *sql.Tx) store.StudentStore {
	return v
}
