package user

import (
	"context"
	"testing"

	"github.com/budgetflow/budgetflow/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRepoStub = NewStubUserRepo()

var service Service

func setup(t *testing.T) func() {
	service = NewUserService(userRepoStub)
	return func() {
		t.Log("Teardown after test")
		userRepoStub.Cleanup()
	}
}

func seedUser(t *testing.T) User {
	t.Helper()
	id, err := userRepoStub.CreateUser(context.Background(), User{
		Uid:        "uid-1",
		Email:      "jane@example.com",
		FirstName:  "Jane",
		LastName:   "Doe",
		Department: "Engineering",
	})
	require.NoError(t, err)
	u, err := userRepoStub.GetUser(context.Background(), id)
	require.NoError(t, err)
	return u
}

func TestServiceImpl_GetCurrentUser(t *testing.T) {
	t.Run("should get the user from context", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		seeded := seedUser(t)
		ctx := WithUser(context.Background(), seeded)

		// when
		result, err := service.GetCurrentUser(ctx)

		// then
		assert.NoError(t, err)
		assert.Equal(t, "jane@example.com", result.Email)
		assert.Equal(t, RoleEmployee, result.Role)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.GetCurrentUser(context.Background())

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_UpdateCurrentUser(t *testing.T) {
	t.Run("should overwrite profile fields", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		seeded := seedUser(t)
		ctx := WithUser(context.Background(), seeded)

		// when
		updated, err := service.UpdateCurrentUser(ctx, User{
			FirstName:       "Janet",
			LastName:        "Doe",
			Department:      "Finance",
			Position:        "Analyst",
			HourlyRateCents: 5500,
		})

		// then
		assert.NoError(t, err)
		assert.Equal(t, "Janet", updated.FirstName)
		assert.Equal(t, "Finance", updated.Department)
		assert.Equal(t, int64(5500), updated.HourlyRateCents)
		assert.Equal(t, "jane@example.com", updated.Email)
	})
}

func TestServiceImpl_DeleteUser(t *testing.T) {
	t.Run("should delete a user with no owned budgets", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		seeded := seedUser(t)

		// when
		err := service.DeleteUser(context.Background(), seeded.Uid)

		// then
		assert.NoError(t, err)
		_, err = userRepoStub.GetUser(context.Background(), seeded.Id)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("should refuse to delete a budget owner", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		seeded := seedUser(t)
		userRepoStub.SetOwnedBudgets(seeded.Id, 2)

		// when
		err := service.DeleteUser(context.Background(), seeded.Uid)

		// then
		assert.Error(t, err)
		assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
		_, getErr := userRepoStub.GetUser(context.Background(), seeded.Id)
		assert.NoError(t, getErr)
	})

	t.Run("should return not found for unknown uid", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		err := service.DeleteUser(context.Background(), "no-such-uid")

		// then
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}
