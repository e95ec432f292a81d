package domain

import (
	"time"

	"github.com/google/uuid"
)

// Course is a seat-limited offering owned by exactly one institute.
// Capacity is fixed at creation. EnrolledStudents is the ordered roster of
// student addresses; the invariant len(EnrolledStudents) <= Capacity holds
// after every operation.
type Course struct {
	ID               uuid.UUID `json:"id"`
	InstituteID      uuid.UUID `json:"institute_id"`
	Title            string    `json:"title"`
	Instructor       string    `json:"instructor"`
	Capacity         int       `json:"capacity"`
	EnrolledStudents []Address `json:"enrolled_students"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewCourse creates a new Course for the given institute with an empty roster.
func NewCourse(instituteID uuid.UUID, title, instructor string, capacity int) (*Course, error) {
	c := &Course{
		ID:          uuid.New(),
		InstituteID: instituteID,
		Title:       title,
		Instructor:  instructor,
		Capacity:    capacity,
		CreatedAt:   time.Now().UTC(),
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks that the Course has valid data, including the roster
// capacity invariant.
func (c *Course) Validate() error {
	if c.ID == uuid.Nil || c.InstituteID == uuid.Nil {
		return ErrEmptyID
	}
	if c.Title == "" {
		return ErrEmptyTitle
	}
	if c.Instructor == "" {
		return ErrEmptyInstructor
	}
	if c.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	if len(c.EnrolledStudents) > c.Capacity {
		return ErrInsufficientCapacity
	}
	return nil
}

// HasCapacity reports whether at least one seat remains.
func (c *Course) HasCapacity() bool {
	return len(c.EnrolledStudents) < c.Capacity
}

// Enroll appends a student address to the roster. Returns
// ErrInsufficientCapacity, leaving the roster unchanged, when full.
func (c *Course) Enroll(student Address) error {
	if student.IsZero() {
		return ErrEmptyOwner
	}
	if !c.HasCapacity() {
		return ErrInsufficientCapacity
	}
	c.EnrolledStudents = append(c.EnrolledStudents, student)
	return nil
}
