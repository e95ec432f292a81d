package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/campushq/registrar/internal/domain"
	"github.com/campushq/registrar/internal/events"
	"github.com/campushq/registrar/internal/service"
	"github.com/campushq/registrar/internal/store"
	"github.com/campushq/registrar/internal/store/memory"
)

// harness wires every service against a fresh in-memory store and an event
// capture, the way cmd/server wires them against Postgres.
type harness struct {
	stores      store.Stores
	captured    *events.CaptureHandler
	institutes  service.InstituteService
	students    service.StudentService
	courses     service.CourseService
	enrollments service.EnrollmentService
	grants      service.GrantService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stores := memory.New().Stores()

	emitter := events.NewInMemoryEmitter(logger)
	captured := events.NewCaptureHandler()
	emitter.RegisterHandler(captured)

	institutes, err := service.NewInstituteService(stores, emitter, logger)
	require.NoError(t, err)
	students, err := service.NewStudentService(stores, emitter, logger)
	require.NoError(t, err)
	courses, err := service.NewCourseService(stores, emitter, logger)
	require.NoError(t, err)
	enrollments, err := service.NewEnrollmentService(stores, emitter, logger)
	require.NoError(t, err)
	grants, err := service.NewGrantService(stores, emitter, logger)
	require.NoError(t, err)

	return &harness{
		stores:      stores,
		captured:    captured,
		institutes:  institutes,
		students:    students,
		courses:     courses,
		enrollments: enrollments,
		grants:      grants,
	}
}

const (
	ownerAddr   = domain.Address("0xinstitute-owner")
	studentAddr = domain.Address("0xstudent-wallet")
	otherAddr   = domain.Address("0xsomeone-else")
)

// createInstitute makes an institute with the given enrollment fee,
// owned by ownerAddr.
func (h *harness) createInstitute(t *testing.T, fees domain.Amount) *domain.Institute {
	t.Helper()
	inst, err := h.institutes.CreateInstitute(
		context.Background(), ownerAddr,
		"Hill Valley College", "office@hvc.example", "555-0101", fees)
	require.NoError(t, err)
	return inst
}

// registerStudent makes a student owned by studentAddr.
func (h *harness) registerStudent(t *testing.T) *domain.Student {
	t.Helper()
	s, err := h.students.RegisterStudent(
		context.Background(), studentAddr,
		"Dorothy Vaughan", "dorothy@example.edu", "12 Main St")
	require.NoError(t, err)
	return s
}

// fundStudent credits the student's balance as its owner.
func (h *harness) fundStudent(t *testing.T, s *domain.Student, amount domain.Amount) {
	t.Helper()
	_, err := h.students.FundStudentAccount(context.Background(), studentAddr, s.ID, amount)
	require.NoError(t, err)
}

// addCourse adds a course as the institute owner.
func (h *harness) addCourse(t *testing.T, inst *domain.Institute, capacity int) *domain.Course {
	t.Helper()
	c, err := h.courses.AddCourse(
		context.Background(), ownerAddr, inst.ID,
		"Algebra I", "Prof. Noether", capacity)
	require.NoError(t, err)
	return c
}

var enrollDate = time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
