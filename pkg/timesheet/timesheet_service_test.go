package timesheet

import (
	"context"
	"testing"

	"github.com/budgetflow/budgetflow/internal/apperror"
	"github.com/budgetflow/budgetflow/pkg/audit"
	"github.com/budgetflow/budgetflow/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var timesheetRepoStub = NewStubTimesheetRepo()

var service Service

func setup(t *testing.T) func() {
	service = NewTimesheetService(timesheetRepoStub, audit.NopRecorder{})
	return func() {
		t.Log("Teardown after test")
		timesheetRepoStub.Cleanup()
	}
}

func employeeContext() context.Context {
	return user.WithUser(context.Background(), user.User{
		Id:              1,
		Uid:             "uid-1",
		Email:           "jane@example.com",
		HourlyRateCents: 5000,
	})
}

func TestServiceImpl_CreateEntry(t *testing.T) {
	t.Run("should create a draft entry for the current user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.CreateEntry(employeeContext(), validEntry())

		// then
		require.NoError(t, err)
		assert.Equal(t, StatusDraft, created.Status)
		assert.Equal(t, 1, created.EmployeeID)
	})

	t.Run("should default the hourly rate from the user profile", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		entry := validEntry()
		entry.HourlyRateCents = 0

		// when
		created, err := service.CreateEntry(employeeContext(), entry)

		// then
		require.NoError(t, err)
		assert.Equal(t, int64(5000), created.HourlyRateCents)
		assert.Equal(t, int64(37_500), created.TotalCostCents())
	})

	t.Run("should keep an explicit hourly rate", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		entry := validEntry()
		entry.HourlyRateCents = 7500

		// when
		created, err := service.CreateEntry(employeeContext(), entry)

		// then
		require.NoError(t, err)
		assert.Equal(t, int64(7500), created.HourlyRateCents)
	})

	t.Run("should reject invalid hours", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		entry := validEntry()
		entry.HoursHundredths = 0

		// when
		_, err := service.CreateEntry(employeeContext(), entry)

		// then
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})
}

func TestServiceImpl_UpdateEntry(t *testing.T) {
	t.Run("should update a draft entry", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.CreateEntry(employeeContext(), validEntry())
		require.NoError(t, err)
		created.HoursHundredths = 800
		created.TaskDescription = "wireframes"

		// when
		updated, err := service.UpdateEntry(employeeContext(), created)

		// then
		require.NoError(t, err)
		assert.Equal(t, int64(800), updated.HoursHundredths)
		assert.Equal(t, "wireframes", updated.TaskDescription)
	})

	t.Run("should refuse to update a submitted entry", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.CreateEntry(employeeContext(), validEntry())
		require.NoError(t, err)
		_, err = service.SubmitEntry(employeeContext(), created.ID)
		require.NoError(t, err)

		// when
		created.HoursHundredths = 100
		_, err = service.UpdateEntry(employeeContext(), created)

		// then
		assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
	})
}

func TestServiceImpl_DeleteEntry(t *testing.T) {
	t.Run("should delete a draft entry", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.CreateEntry(employeeContext(), validEntry())
		require.NoError(t, err)

		// when
		err = service.DeleteEntry(employeeContext(), created.ID)

		// then
		assert.NoError(t, err)
		_, err = service.GetEntry(employeeContext(), created.ID)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("should refuse to delete a submitted entry", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.CreateEntry(employeeContext(), validEntry())
		require.NoError(t, err)
		_, err = service.SubmitEntry(employeeContext(), created.ID)
		require.NoError(t, err)

		// when
		err = service.DeleteEntry(employeeContext(), created.ID)

		// then
		assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
	})
}

func TestServiceImpl_SubmitEntry(t *testing.T) {
	t.Run("should move a draft to submitted", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.CreateEntry(employeeContext(), validEntry())
		require.NoError(t, err)

		// when
		submitted, err := service.SubmitEntry(employeeContext(), created.ID)

		// then
		require.NoError(t, err)
		assert.Equal(t, StatusSubmitted, submitted.Status)
	})

	t.Run("should reject a second submit", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.CreateEntry(employeeContext(), validEntry())
		require.NoError(t, err)
		_, err = service.SubmitEntry(employeeContext(), created.ID)
		require.NoError(t, err)

		// when
		_, err = service.SubmitEntry(employeeContext(), created.ID)

		// then
		assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
	})
}

func TestServiceImpl_GetEntries(t *testing.T) {
	t.Run("should only return the caller's entries", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, err := service.CreateEntry(employeeContext(), validEntry())
		require.NoError(t, err)
		otherCtx := user.WithUser(context.Background(), user.User{Id: 2, Uid: "uid-2"})
		_, err = service.CreateEntry(otherCtx, validEntry())
		require.NoError(t, err)

		// when
		entries, err := service.GetEntries(employeeContext())

		// then
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, 1, entries[0].EmployeeID)
	})
}
