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

func TestRegisterStudent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates student with zero balance", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		student := h.registerStudent(t)
		assert.Equal(t, studentAddr, student.Owner)
		assert.Equal(t, domain.Amount(0), student.Balance)

		assert.Len(t, h.captured.ByType(events.TypeStudentRegistered), 1)
	})

	t.Run("rejects empty fields", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		_, err := h.students.RegisterStudent(ctx, studentAddr, "", "d@example.edu", "12 Main St")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = h.students.RegisterStudent(ctx, studentAddr, "Dorothy", "d@example.edu", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestFundStudentAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("credits the balance", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		student := h.registerStudent(t)
		updated, err := h.students.FundStudentAccount(ctx, studentAddr, student.ID, 250)
		require.NoError(t, err)
		assert.Equal(t, domain.Amount(250), updated.Balance)

		balance, err := h.students.StudentBalance(ctx, studentAddr, student.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.Amount(250), balance)

		assert.Len(t, h.captured.ByType(events.TypeAccountFunded), 1)
	})

	t.Run("rejects non-owner", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		student := h.registerStudent(t)
		_, err := h.students.FundStudentAccount(ctx, otherAddr, student.ID, 250)
		assert.ErrorIs(t, err, service.ErrNotStudent)

		balance, err := h.students.StudentBalance(ctx, studentAddr, student.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.Amount(0), balance)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		student := h.registerStudent(t)
		_, err := h.students.FundStudentAccount(ctx, studentAddr, student.ID, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown student", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		_, err := h.students.FundStudentAccount(ctx, studentAddr, uuid.New(), 100)
		assert.ErrorIs(t, err, store.ErrStudentNotFound)
	})
}

func TestStudentBalance_OwnerOnly(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	student := h.registerStudent(t)
	_, err := h.students.StudentBalance(context.Background(), otherAddr, student.ID)
	assert.ErrorIs(t, err, service.ErrNotStudent)
}

func TestGetStudent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)

	student := h.registerStudent(t)
	got, err := h.students.GetStudent(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, student.ID, got.ID)

	_, err = h.students.GetStudent(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrStudentNotFound)
}
