package budget

import (
	"context"
	"testing"
	"time"

	"github.com/budgetflow/budgetflow/internal/apperror"
	"github.com/budgetflow/budgetflow/internal/utils"
	"github.com/budgetflow/budgetflow/pkg/audit"
	"github.com/budgetflow/budgetflow/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var budgetRepoStub = NewStubBudgetRepo()

var mockClock = &utils.MockClock{FixedNow: time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)}

var service Service

func setup(t *testing.T) func() {
	service = NewBudgetService(budgetRepoStub, audit.NopRecorder{}, mockClock)
	return func() {
		t.Log("Teardown after test")
		budgetRepoStub.Cleanup()
	}
}

func userContext(id int) context.Context {
	return user.WithUser(context.Background(), user.User{Id: id, Uid: "uid-1", Email: "jane@example.com"})
}

func TestServiceImpl_CreateBudget(t *testing.T) {
	t.Run("should create a draft budget owned by the current user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		ctx := userContext(1)

		// when
		created, err := service.CreateBudget(ctx, validBudget())

		// then
		require.NoError(t, err)
		assert.Equal(t, StatusDraft, created.Status)
		assert.Equal(t, 1, created.CreatedBy)
		assert.Equal(t, int64(500_000), created.TotalCents)
	})

	t.Run("should reject an invalid budget", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		budget := validBudget()
		budget.Title = ""

		// when
		_, err := service.CreateBudget(userContext(1), budget)

		// then
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("should fail without a user in context", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.CreateBudget(context.Background(), validBudget())

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_GetBudgets(t *testing.T) {
	t.Run("should page through the caller's budgets newest first", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		ctx := userContext(1)
		for i := 0; i < 3; i++ {
			_, err := service.CreateBudget(ctx, validBudget())
			require.NoError(t, err)
		}
		otherBudget := validBudget()
		otherBudget.CreatedBy = 2
		otherBudget.Status = StatusDraft
		budgetRepoStub.Seed(otherBudget)

		// when
		page1, err := service.GetBudgets(ctx, 1, 2)
		require.NoError(t, err)
		page2, err := service.GetBudgets(ctx, 2, 2)
		require.NoError(t, err)

		// then
		assert.Len(t, page1, 2)
		assert.Len(t, page2, 1)
		assert.Greater(t, page1[0].ID, page1[1].ID)
	})
}

func TestServiceImpl_UpdateBudget(t *testing.T) {
	t.Run("should update a draft and stamp updatedAt", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		ctx := userContext(1)
		created, err := service.CreateBudget(ctx, validBudget())
		require.NoError(t, err)
		created.Title = "Q3 Marketing (revised)"
		created.TotalCents = 600_000

		// when
		updated, err := service.UpdateBudget(ctx, created)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Q3 Marketing (revised)", updated.Title)
		assert.Equal(t, int64(600_000), updated.TotalCents)
		require.NotNil(t, updated.UpdatedAt)
		assert.Equal(t, mockClock.FixedNow, *updated.UpdatedAt)
	})

	t.Run("should refuse to update a submitted budget", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		ctx := userContext(1)
		created, err := service.CreateBudget(ctx, validBudget())
		require.NoError(t, err)
		_, err = service.SubmitBudget(ctx, created.ID)
		require.NoError(t, err)

		// when
		created.Title = "Too late"
		_, err = service.UpdateBudget(ctx, created)

		// then
		assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
	})

	t.Run("should hide another user's budget", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.CreateBudget(userContext(1), validBudget())
		require.NoError(t, err)

		// when
		_, err = service.UpdateBudget(userContext(2), created)

		// then
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}

func TestServiceImpl_DeleteBudget(t *testing.T) {
	t.Run("should delete a draft", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		ctx := userContext(1)
		created, err := service.CreateBudget(ctx, validBudget())
		require.NoError(t, err)

		// when
		err = service.DeleteBudget(ctx, created.ID)

		// then
		assert.NoError(t, err)
		_, err = service.GetBudget(ctx, created.ID)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("should refuse to delete after submission", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		ctx := userContext(1)
		created, err := service.CreateBudget(ctx, validBudget())
		require.NoError(t, err)
		_, err = service.SubmitBudget(ctx, created.ID)
		require.NoError(t, err)

		// when
		err = service.DeleteBudget(ctx, created.ID)

		// then
		assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
	})

	t.Run("should return not found for a missing budget", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		err := service.DeleteBudget(userContext(1), 999)

		// then
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}

func TestServiceImpl_SubmitBudget(t *testing.T) {
	t.Run("should move a draft to submitted and open an approval", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		ctx := userContext(1)
		created, err := service.CreateBudget(ctx, validBudget())
		require.NoError(t, err)

		// when
		submitted, err := service.SubmitBudget(ctx, created.ID)

		// then
		require.NoError(t, err)
		assert.Equal(t, StatusSubmitted, submitted.Status)
		assert.Equal(t, []int{created.ID}, budgetRepoStub.Submissions)
	})

	t.Run("should reject a second submit", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		ctx := userContext(1)
		created, err := service.CreateBudget(ctx, validBudget())
		require.NoError(t, err)
		_, err = service.SubmitBudget(ctx, created.ID)
		require.NoError(t, err)

		// when
		_, err = service.SubmitBudget(ctx, created.ID)

		// then
		assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
		assert.Len(t, budgetRepoStub.Submissions, 1)
	})
}

func TestServiceImpl_Items(t *testing.T) {
	t.Run("should add, update and delete items on a draft", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		ctx := userContext(1)
		created, err := service.CreateBudget(ctx, validBudget())
		require.NoError(t, err)

		// when
		withItem, err := service.AddItem(ctx, Item{
			BudgetID:    created.ID,
			Category:    "Advertising",
			AmountCents: 100_000,
		})
		require.NoError(t, err)
		require.Len(t, withItem.Items, 1)

		item := withItem.Items[0]
		item.AmountCents = 150_000
		updated, err := service.UpdateItem(ctx, item)
		require.NoError(t, err)

		emptied, err := service.DeleteItem(ctx, created.ID, item.ID)
		require.NoError(t, err)

		// then
		assert.Equal(t, int64(150_000), updated.Items[0].AmountCents)
		assert.Empty(t, emptied.Items)
	})

	t.Run("should refuse item changes once submitted", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		ctx := userContext(1)
		created, err := service.CreateBudget(ctx, validBudget())
		require.NoError(t, err)
		_, err = service.SubmitBudget(ctx, created.ID)
		require.NoError(t, err)

		// when
		_, err = service.AddItem(ctx, Item{BudgetID: created.ID, Category: "Ads", AmountCents: 1000})

		// then
		assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
	})

	t.Run("should return not found for a missing item", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		ctx := userContext(1)
		created, err := service.CreateBudget(ctx, validBudget())
		require.NoError(t, err)

		// when
		_, err = service.DeleteItem(ctx, created.ID, 42)

		// then
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}
