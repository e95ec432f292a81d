package memory

import (
	"context"
	"database/sql"
	"sort"

	"github.com/google/uuid"

	"github.com/campushq/registrar/internal/domain"
	"github.com/campushq/registrar/internal/store"
)

// ---- CourseStore ----

type courseView Store

var _ store.CourseStore = (*courseView)(nil)

func (v *courseView) Create(ctx context.Context, course *domain.Course) error {
	if err := course.Validate(); err != nil {
		return err
	}
	if _, ok := v.courses[course.ID]; ok {
		return store.ErrDuplicate
	}
	v.courses[course.ID] = cloneCourse(course)
	return nil
}

func (v *courseView) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	c, ok := v.courses[id]
	if !ok {
		return nil, store.ErrCourseNotFound
	}
	return cloneCourse(c), nil
}

func (v *courseView) ListByInstitute(ctx context.Context, instituteID uuid.UUID) ([]*domain.Course, error) {
	var out []*domain.Course
	for _, c := range v.courses {
		if c.InstituteID == instituteID {
			out = append(out, cloneCourse(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (v *courseView) AddToRoster(ctx context.Context, courseID uuid.UUID, student domain.Address, position int) error {
	c, ok := v.courses[courseID]
	if !ok {
		return store.ErrCourseNotFound
	}
	updated := cloneCourse(c)
	if err := updated.Enroll(student); err != nil {
		return err
	}
	v.courses[courseID] = updated
	return nil
}

func (v *courseView) WithTx(tx *sql.Tx) store.CourseStore {
	return v
}

// ---- EnrollmentStore ----

type enrollmentView Store

var _ store.EnrollmentStore = (*enrollmentView)(nil)

func (v *enrollmentView) CreateRequest(ctx context.Context, req *domain.EnrollmentRequest) error {
	if _, ok := v.enrollmentRequests[req.ID]; ok {
		return store.ErrDuplicate
	}
	v.enrollmentRequests[req.ID] = cloneEnrollmentRequest(req)
	return nil
}

func (v *enrollmentView) GetRequestByID(ctx context.Context, id uuid.UUID) (*domain.EnrollmentRequest, error) {
	r, ok := v.enrollmentRequests[id]
	if !ok {
		return nil, store.ErrEnrollmentRequestNotFound
	}
	return cloneEnrollmentRequest(r), nil
}

func (v *enrollmentView) FindRequestByStudent(ctx context.Context, instituteID, studentID uuid.UUID) (*domain.EnrollmentRequest, error) {
	var oldest *domain.EnrollmentRequest
	for _, r := range v.enrollmentRequests {
		if r.InstituteID != instituteID || r.StudentID != studentID {
			continue
		}
		if oldest == nil || r.CreatedAt.Before(oldest.CreatedAt) {
			oldest = r
		}
	}
	if oldest == nil {
		return nil, store.ErrEnrollmentRequestNotFound
	}
	return cloneEnrollmentRequest(oldest), nil
}

func (v *enrollmentView) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	if _, ok := v.enrollmentRequests[id]; !ok {
		return store.ErrEnrollmentRequestNotFound
	}
	delete(v.enrollmentRequests, id)
	return nil
}

func (v *enrollmentView) ListRequestsByInstitute(ctx context.Context, instituteID uuid.UUID) ([]*domain.EnrollmentRequest, error) {
	var out []*domain.EnrollmentRequest
	for _, r := range v.enrollmentRequests {
		if r.InstituteID == instituteID {
			out = append(out, cloneEnrollmentRequest(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (v *enrollmentView) CreateEnrollment(ctx context.Context, enrollment *domain.Enrollment) error {
	if _, ok := v.enrollments[enrollment.ID]; ok {
		return store.ErrDuplicate
	}
	v.enrollments[enrollment.ID] = cloneEnrollment(enrollment)
	return nil
}

func (v *enrollmentView) ListEnrollmentsByInstitute(ctx context.Context, instituteID uuid.UUID) ([]*domain.Enrollment, error) {
	var out []*domain.Enrollment
	for _, e := range v.enrollments {
		if e.InstituteID == instituteID {
			out = append(out, cloneEnrollment(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (v *enrollmentView) WithTx(tx *sql.Tx) store.EnrollmentStore {
	return v
}

// ---- GrantStore ----

type grantView Store

var _ store.GrantStore = (*grantView)(nil)

func (v *grantView) CreateRequest(ctx context.Context, req *domain.GrantRequest) error {
	if _, ok := v.grantRequests[req.ID]; ok {
		return store.ErrDuplicate
	}
	v.grantRequests[req.ID] = cloneGrantRequest(req)
	return nil
}

func (v *grantView) GetRequestByID(ctx context.Context, id uuid.UUID) (*domain.GrantRequest, error) {
	r, ok := v.grantRequests[id]
	if !ok {
		return nil, store.ErrGrantRequestNotFound
	}
	return cloneGrantRequest(r), nil
}

func (v *grantView) UpdateRequest(ctx context.Context, req *domain.GrantRequest) error {
	if _, ok := v.grantRequests[req.ID]; !ok {
		return store.ErrGrantRequestNotFound
	}
	v.grantRequests[req.ID] = cloneGrantRequest(req)
	return nil
}

func (v *grantView) ListRequestsByInstitute(ctx context.Context, instituteID uuid.UUID) ([]*domain.GrantRequest, error) {
	var out []*domain.GrantRequest
	for _, r := range v.grantRequests {
		if r.InstituteID == instituteID {
			out = append(out, cloneGrantRequest(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (v *grantView) CreateApproval(ctx context.Context, approval *domain.GrantApproval) error {
	if _, ok := v.grantApprovals[approval.ID]; ok {
		return store.ErrDuplicate
	}
	v.grantApprovals[approval.ID] = cloneGrantApproval(approval)
	return nil
}

func (v *grantView) ListApprovalsByRequest(ctx context.Context, grantRequestID uuid.UUID) ([]*domain.GrantApproval, error) {
	var out []*domain.GrantApproval
	for _, a := range v.grantApprovals {
		if a.GrantRequestID == grantRequestID {
			out = append(out, cloneGrantApproval(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (v *grantView) WithTx(tx *sql.Tx) store.GrantStore {
	return v
}

// ---- RoleStore ----

type roleView Store

var _ store.RoleStore = (*roleView)(nil)

func (v *roleView) Create(ctx context.Context, role *domain.Role) error {
	for _, r := range v.roles {
		if r.InstituteID == role.InstituteID && r.Name == role.Name {
			return store.ErrRoleExists
		}
	}
	v.roles[role.ID] = cloneRole(role)
	return nil
}

func (v *roleView) GetByName(ctx context.Context, instituteID uuid.UUID, name string) (*domain.Role, error) {
	for _, r := range v.roles {
		if r.InstituteID == instituteID && r.Name == name {
			return cloneRole(r), nil
		}
	}
	return nil, store.ErrRoleNotFound
}

func (v *roleView) Update(ctx context.Context, role *domain.Role) error {
	if _, ok := v.roles[role.ID]; !ok {
		return store.ErrRoleNotFound
	}
	v.roles[role.ID] = cloneRole(role)
	return nil
}

func (v *roleView) WithTx(tx *sql.Tx) store.RoleStore {
	return v
}
