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
)

func TestCreateInstitute(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates institute and seeds owner role", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		inst := h.createInstitute(t, 100)
		assert.Equal(t, ownerAddr, inst.Owner)
		assert.Equal(t, domain.Amount(0), inst.Balance)

		role, err := h.stores.Roles.GetByName(ctx, inst.ID, domain.InstituteRoleName)
		require.NoError(t, err)
		assert.True(t, role.HasMember(ownerAddr))

		assert.Len(t, h.captured.ByType(events.TypeInstituteCreated), 1)
	})

	t.Run("rejects non-positive fees", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		_, err := h.institutes.CreateInstitute(ctx, ownerAddr, "X College", "x@example.edu", "555-1", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, h.captured.Events())
	})
}

func TestInstituteBalance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)

	inst := h.createInstitute(t, 100)

	balance, err := h.institutes.InstituteBalance(ctx, ownerAddr, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(0), balance)

	_, err = h.institutes.InstituteBalance(ctx, otherAddr, inst.ID)
	assert.ErrorIs(t, err, service.ErrNotInstitute)
}

func TestWithdrawBalance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("debits the institute", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		inst := h.createInstitute(t, 100)
		student := h.registerStudent(t)
		h.fundStudent(t, student, 500)
		course := h.addCourse(t, inst, 10)
		_, err := h.enrollments.AddEnrollment(ctx, ownerAddr, inst.ID, student.ID, course.ID, enrollDate)
		require.NoError(t, err)

		updated, err := h.institutes.WithdrawBalance(ctx, ownerAddr, inst.ID, 60)
		require.NoError(t, err)
		assert.Equal(t, domain.Amount(40), updated.Balance)

		assert.Len(t, h.captured.ByType(events.TypeBalanceWithdrawn), 1)
	})

	t.Run("rejects non-owner", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		inst := h.createInstitute(t, 100)
		_, err := h.institutes.WithdrawBalance(ctx, otherAddr, inst.ID, 10)
		assert.ErrorIs(t, err, service.ErrNotInstitute)
	})

	t.Run("rejects amount above balance", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		inst := h.createInstitute(t, 100)
		_, err := h.institutes.WithdrawBalance(ctx, ownerAddr, inst.ID, 10)
		assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

		balance, err := h.institutes.InstituteBalance(ctx, ownerAddr, inst.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.Amount(0), balance)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		inst := h.createInstitute(t, 100)
		_, err := h.institutes.WithdrawBalance(ctx, ownerAddr, inst.ID, -5)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown institute", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		_, err := h.institutes.WithdrawBalance(ctx, ownerAddr, uuid.New(), 10)
		var svcErr *service.Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "withdraw_balance", svcErr.Op)
	})
}

func TestAssignAndRevokeRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("adds member to existing role", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		inst := h.createInstitute(t, 100)
		role, err := h.institutes.AssignRole(ctx, ownerAddr, inst.ID, domain.InstituteRoleName, otherAddr)
		require.NoError(t, err)
		assert.True(t, role.HasMember(ownerAddr))
		assert.True(t, role.HasMember(otherAddr))

		assert.Len(t, h.captured.ByType(events.TypeRoleAssigned), 1)
	})

	t.Run("creates role on first assignment", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		inst := h.createInstitute(t, 100)
		role, err := h.institutes.AssignRole(ctx, ownerAddr, inst.ID, "registrar", otherAddr)
		require.NoError(t, err)
		assert.Equal(t, "registrar", role.Name)
		assert.True(t, role.HasMember(otherAddr))
	})

	t.Run("revoke removes membership", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		inst := h.createInstitute(t, 100)
		_, err := h.institutes.AssignRole(ctx, ownerAddr, inst.ID, domain.InstituteRoleName, otherAddr)
		require.NoError(t, err)

		role, err := h.institutes.RevokeRole(ctx, ownerAddr, inst.ID, domain.InstituteRoleName, otherAddr)
		require.NoError(t, err)
		assert.False(t, role.HasMember(otherAddr))
		assert.True(t, role.HasMember(ownerAddr))

		assert.Len(t, h.captured.ByType(events.TypeRoleRevoked), 1)
	})

	t.Run("only the owner manages roles", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		inst := h.createInstitute(t, 100)
		_, err := h.institutes.AssignRole(ctx, otherAddr, inst.ID, domain.InstituteRoleName, otherAddr)
		assert.ErrorIs(t, err, service.ErrNotInstitute)
	})
}
