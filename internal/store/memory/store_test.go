package memory_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/registrar/internal/domain"
	"github.com/campushq/registrar/internal/store"
	"github.com/campushq/registrar/internal/store/memory"
)

func newInstitute(t *testing.T) *domain.Institute {
	t.Helper()
	inst, err := domain.NewInstitute("0xowner", "Hill Valley College", "office@hvc.example", "555-0101", 100)
	require.NoError(t, err)
	return inst
}

func newStudent(t *testing.T) *domain.Student {
	t.Helper()
	s, err := domain.NewStudent("0xstudent", "Dorothy Vaughan", "dorothy@example.edu", "12 Main St")
	require.NoError(t, err)
	return s
}

func TestInstituteCRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	stores := memory.New().Stores()

	inst := newInstitute(t)
	require.NoError(t, stores.Institutes.Create(ctx, inst))

	got, err := stores.Institutes.GetByID(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, inst.Name, got.Name)
	assert.Equal(t, domain.Amount(0), got.Balance)

	got.Balance = 500
	require.NoError(t, stores.Institutes.Update(ctx, got))

	again, err := stores.Institutes.GetByID(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(500), again.Balance)

	_, err = stores.Institutes.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrInstituteNotFound)
}

func TestGetReturnsIsolatedCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	stores := memory.New().Stores()

	student := newStudent(t)
	require.NoError(t, stores.Students.Create(ctx, student))

	first, err := stores.Students.GetByID(ctx, student.ID)
	require.NoError(t, err)
	first.Balance = 9999

	second, err := stores.Students.GetByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(0), second.Balance,
		"mutating a returned record must not change stored state")
}

func TestCourseRoster(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	stores := memory.New().Stores()

	inst := newInstitute(t)
	require.NoError(t, stores.Institutes.Create(ctx, inst))

	course, err := domain.NewCourse(inst.ID, "Algebra I", "Prof. Noether", 2)
	require.NoError(t, err)
	require.NoError(t, stores.Courses.Create(ctx, course))

	require.NoError(t, stores.Courses.AddToRoster(ctx, course.ID, "0xalice", 0))
	require.NoError(t, stores.Courses.AddToRoster(ctx, course.ID, "0xbob", 1))

	got, err := stores.Courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Address{"0xalice", "0xbob"}, got.EnrolledStudents)

	err = stores.Courses.AddToRoster(ctx, course.ID, "0xcarol", 2)
	assert.ErrorIs(t, err, domain.ErrInsufficientCapacity)

	err = stores.Courses.AddToRoster(ctx, uuid.New(), "0xalice", 0)
	assert.ErrorIs(t, err, store.ErrCourseNotFound)
}

func TestRoleNameUniquePerInstitute(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	stores := memory.New().Stores()

	instituteID := uuid.New()
	role, err := domain.NewRole(instituteID, "institute", "0xowner")
	require.NoError(t, err)
	require.NoError(t, stores.Roles.Create(ctx, role))

	dup, err := domain.NewRole(instituteID, "institute", "0xother")
	require.NoError(t, err)
	assert.ErrorIs(t, stores.Roles.Create(ctx, dup), store.ErrRoleExists)

	elsewhere, err := domain.NewRole(uuid.New(), "institute", "0xother")
	require.NoError(t, err)
	assert.NoError(t, stores.Roles.Create(ctx, elsewhere))
}

func TestFindRequestByStudentReturnsOldest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	stores := memory.New().Stores()

	instituteID := uuid.New()
	student := newStudent(t)

	first, err := domain.NewEnrollmentRequest(instituteID, student)
	require.NoError(t, err)
	second, err := domain.NewEnrollmentRequest(instituteID, student)
	require.NoError(t, err)
	second.CreatedAt = first.CreatedAt.Add(1)

	require.NoError(t, stores.Enrollments.CreateRequest(ctx, second))
	require.NoError(t, stores.Enrollments.CreateRequest(ctx, first))

	got, err := stores.Enrollments.FindRequestByStudent(ctx, instituteID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = stores.Enrollments.FindRequestByStudent(ctx, instituteID, uuid.New())
	assert.ErrorIs(t, err, store.ErrEnrollmentRequestNotFound)
}

func TestRunInTransactionRollsBackOnError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	stores := memory.New().Stores()

	inst := newInstitute(t)
	require.NoError(t, stores.Institutes.Create(ctx, inst))
	student := newStudent(t)
	require.NoError(t, stores.Students.Create(ctx, student))

	boom := errors.New("boom")
	err := stores.Transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		got, err := stores.Institutes.WithTx(tx).GetByID(ctx, inst.ID)
		if err != nil {
			return err
		}
		if err := got.Credit(700); err != nil {
			return err
		}
		if err := stores.Institutes.WithTx(tx).Update(ctx, got); err != nil {
			return err
		}
		other, err := domain.NewStudent("0xother", "Mae Jemison", "mae@example.edu", "9 Orbit Rd")
		if err != nil {
			return err
		}
		if err := stores.Students.WithTx(tx).Create(ctx, other); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	after, err := stores.Institutes.GetByID(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(0), after.Balance, "failed transaction must leave no writes behind")
}

func TestRunInTransactionCommitsOnSuccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	stores := memory.New().Stores()

	inst := newInstitute(t)
	require.NoError(t, stores.Institutes.Create(ctx, inst))

	err := stores.Transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		got, err := stores.Institutes.WithTx(tx).GetByID(ctx, inst.ID)
		if err != nil {
			return err
		}
		if err := got.Credit(300); err != nil {
			return err
		}
		return stores.Institutes.WithTx(tx).Update(ctx, got)
	})
	require.NoError(t, err)

	after, err := stores.Institutes.GetByID(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(300), after.Balance)
}
