package domain

import (
	"time"

	"github.com/google/uuid"
)

// EnrollmentRequest records a student's unresolved intent to enroll at an
// institute. It consumes no course capacity. A request is consumed (deleted)
// when an Enrollment is created for the same student, or simply abandoned.
type EnrollmentRequest struct {
	ID             uuid.UUID `json:"id"`
	InstituteID    uuid.UUID `json:"institute_id"`
	StudentID      uuid.UUID `json:"student_id"`
	StudentAddress Address   `json:"student_address"`
	HomeAddress    string    `json:"home_address"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewEnrollmentRequest creates an enrollment request for the given student
// at the given institute, stamped with the current time.
func NewEnrollmentRequest(instituteID uuid.UUID, student *Student) (*EnrollmentRequest, error) {
	if instituteID == uuid.Nil {
		return nil, ErrEmptyID
	}
	if student == nil {
		return nil, ErrEmptyID
	}

	return &EnrollmentRequest{
		ID:             uuid.New(),
		InstituteID:    instituteID,
		StudentID:      student.ID,
		StudentAddress: student.Owner,
		HomeAddress:    student.HomeAddress,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// Enrollment is a completed, fee-paid seat in a course. It is immutable
// once created.
type Enrollment struct {
	ID          uuid.UUID `json:"id"`
	InstituteID uuid.UUID `json:"institute_id"`
	StudentID   uuid.UUID `json:"student_id"`
	// StudentName is denormalized from the student record at enrollment
	// time so the enrollment reads standalone.
	StudentName string    `json:"student_name"`
	CourseID    uuid.UUID `json:"course_id"`
	EnrolledOn  time.Time `json:"enrolled_on"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEnrollment creates an Enrollment binding a student to a course.
func NewEnrollment(instituteID uuid.UUID, student *Student, courseID uuid.UUID, enrolledOn time.Time) (*Enrollment, error) {
	if instituteID == uuid.Nil || courseID == uuid.Nil {
		return nil, ErrEmptyID
	}
	if student == nil {
		return nil, ErrEmptyID
	}

	return &Enrollment{
		ID:          uuid.New(),
		InstituteID: instituteID,
		StudentID:   student.ID,
		StudentName: student.Name,
		CourseID:    courseID,
		EnrolledOn:  enrolledOn,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
