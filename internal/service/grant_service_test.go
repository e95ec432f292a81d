package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/registrar/internal/domain"
	"github.com/campushq/registrar/internal/events"
	"github.com/campushq/registrar/internal/service"
	"github.com/campushq/registrar/internal/store"
)

func TestRequestGrant(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("records a pending request", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		inst := h.createInstitute(t, 100)
		student := h.registerStudent(t)

		req, err := h.grants.RequestGrant(ctx, student.ID, inst.ID, 400, "lab equipment")
		require.NoError(t, err)
		assert.False(t, req.Approved)

		list, err := h.grants.ListGrantRequests(ctx, inst.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		assert.Len(t, h.captured.ByType(events.TypeGrantRequested), 1)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		inst := h.createInstitute(t, 100)
		student := h.registerStudent(t)

		_, err := h.grants.RequestGrant(ctx, student.ID, inst.ID, 0, "lab equipment")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown student", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		inst := h.createInstitute(t, 100)
		_, err := h.grants.RequestGrant(ctx, uuid.New(), inst.ID, 400, "lab equipment")
		assert.ErrorIs(t, err, store.ErrStudentNotFound)
	})
}

func TestApproveGrant(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// seed creates an institute holding `balance` in fees and a student
	// with a pending grant request.
	seed := func(t *testing.T, h *harness, balance domain.Amount) (*domain.Institute, *domain.Student, *domain.GrantRequest) {
		t.Helper()
		inst := h.createInstitute(t, balance)
		student := h.registerStudent(t)
		h.fundStudent(t, student, balance)
		course := h.addCourse(t, inst, 10)
		_, err := h.enrollments.AddEnrollment(ctx, ownerAddr, inst.ID, student.ID, course.ID, enrollDate)
		require.NoError(t, err)

		req, err := h.grants.RequestGrant(ctx, student.ID, inst.ID, 400, "lab equipment")
		require.NoError(t, err)
		return inst, student, req
	}

	t.Run("moves the grant to the student", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		inst, student, req := seed(t, h, 500)

		approval, err := h.grants.ApproveGrant(ctx, ownerAddr, inst.ID, req.ID, 400, "approved in full")
		require.NoError(t, err)
		assert.Equal(t, domain.Amount(400), approval.AmountApproved)

		instBalance, err := h.institutes.InstituteBalance(ctx, ownerAddr, inst.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.Amount(100), instBalance)

		studentBalance, err := h.students.StudentBalance(ctx, studentAddr, student.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.Amount(400), studentBalance)

		approvals, err := h.grants.ListGrantApprovals(ctx, req.ID)
		require.NoError(t, err)
		assert.Len(t, approvals, 1)

		assert.Len(t, h.captured.ByType(events.TypeGrantApproved), 1)
	})

	t.Run("second approval is rejected", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		inst, student, req := seed(t, h, 500)

		_, err := h.grants.ApproveGrant(ctx, ownerAddr, inst.ID, req.ID, 100, "first")
		require.NoError(t, err)

		_, err = h.grants.ApproveGrant(ctx, ownerAddr, inst.ID, req.ID, 100, "second")
		assert.ErrorIs(t, err, domain.ErrGrantAlreadyApproved)

		// Only the first approval moved funds.
		studentBalance, err := h.students.StudentBalance(ctx, studentAddr, student.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.Amount(100), studentBalance)
	})

	// Scenario: the requested amount exceeds the institute's balance; the
	// approval fails and every balance stays put.
	t.Run("amount above institute balance", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		inst, student, req := seed(t, h, 300)

		_, err := h.grants.ApproveGrant(ctx, ownerAddr, inst.ID, req.ID, 400, "too generous")
		assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

		instBalance, err := h.institutes.InstituteBalance(ctx, ownerAddr, inst.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.Amount(300), instBalance)

		studentBalance, err := h.students.StudentBalance(ctx, studentAddr, student.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.Amount(0), studentBalance)

		// The failed approval must not have marked the request approved.
		stored, err := h.stores.Grants.GetRequestByID(ctx, req.ID)
		require.NoError(t, err)
		assert.False(t, stored.Approved)
		assert.Empty(t, h.captured.ByType(events.TypeGrantApproved))
	})

	t.Run("rejects non-owner", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		inst, _, req := seed(t, h, 500)
		_, err := h.grants.ApproveGrant(ctx, otherAddr, inst.ID, req.ID, 100, "nope")
		assert.ErrorIs(t, err, service.ErrNotInstitute)
	})

	t.Run("unknown grant request", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		inst := h.createInstitute(t, 100)
		_, err := h.grants.ApproveGrant(ctx, ownerAddr, inst.ID, uuid.New(), 100, "nope")
		assert.ErrorIs(t, err, store.ErrGrantRequestNotFound)
	})

	t.Run("request of another institute is not found", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		_, _, req := seed(t, h, 500)

		foreign, err := h.institutes.CreateInstitute(ctx, otherAddr, "Rival Academy", "r@rival.example", "555-9", 50)
		require.NoError(t, err)

		_, err = h.grants.ApproveGrant(ctx, otherAddr, foreign.ID, req.ID, 100, "cross approval")
		assert.ErrorIs(t, err, store.ErrGrantRequestNotFound)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		inst, _, req := seed(t, h, 500)
		_, err := h.grants.ApproveGrant(ctx, ownerAddr, inst.ID, req.ID, 0, "zero")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
