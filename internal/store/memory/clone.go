package memory

import "github.com/campushq/registrar/internal/domain"

// Deep-copy helpers. Slices are the only reference-typed fields, so a
// shallow struct copy plus a slice copy is a full clone.

func cloneInstitute(in *domain.Institute) *domain.Institute {
	out := *in
	return &out
}

func cloneStudent(in *domain.Student) *domain.Student {
	out := *in
	return &out
}

func cloneCourse(in *domain.Course) *domain.Course {
	out := *in
	out.EnrolledStudents = append([]domain.Address(nil), in.EnrolledStudents...)
	return &out
}

func cloneEnrollmentRequest(in *domain.EnrollmentRequest) *domain.EnrollmentRequest {
	out := *in
	return &out
}

func cloneEnrollment(in *domain.Enrollment) *domain.Enrollment {
	out := *in
	return &out
}

func cloneGrantRequest(in *domain.GrantRequest) *domain.GrantRequest {
	out := *in
	return &out
}

func cloneGrantApproval(in *domain.GrantApproval) *domain.GrantApproval {
	out := *in
	return &out
}

func cloneRole(in *domain.Role) *domain.Role {
	out := *in
	out.Members = append([]domain.Address(nil), in.Members...)
	return &out
}
