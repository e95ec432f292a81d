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

func TestAddCourse(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("adds course with empty roster", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		inst := h.createInstitute(t, 100)
		course := h.addCourse(t, inst, 30)
		assert.Equal(t, inst.ID, course.InstituteID)
		assert.Empty(t, course.EnrolledStudents)

		assert.Len(t, h.captured.ByType(events.TypeCourseAdded), 1)
	})

	t.Run("rejects non-owner", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		inst := h.createInstitute(t, 100)
		_, err := h.courses.AddCourse(ctx, otherAddr, inst.ID, "Algebra I", "Prof. Noether", 30)
		assert.ErrorIs(t, err, service.ErrNotInstitute)
	})

	t.Run("rejects non-positive capacity", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		inst := h.createInstitute(t, 100)
		_, err := h.courses.AddCourse(ctx, ownerAddr, inst.ID, "Algebra I", "Prof. Noether", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown institute", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		_, err := h.courses.AddCourse(ctx, ownerAddr, uuid.New(), "Algebra I", "Prof. Noether", 30)
		assert.ErrorIs(t, err, store.ErrInstituteNotFound)
	})
}

func TestListCourses(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	inst := h.createInstitute(t, 100)
	h.addCourse(t, inst, 10)
	h.addCourse(t, inst, 20)

	courses, err := h.courses.ListCourses(context.Background(), inst.ID)
	require.NoError(t, err)
	assert.Len(t, courses, 2)
}

func TestGetCourse_NotFound(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	_, err := h.courses.GetCourse(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrCourseNotFound)
}
