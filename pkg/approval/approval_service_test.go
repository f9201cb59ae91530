package approval

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

var approvalRepoStub = NewStubApprovalRepo()

var mockClock = &utils.MockClock{FixedNow: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)}

var service Service

func setup(t *testing.T) func() {
	service = NewApprovalService(approvalRepoStub, audit.NopRecorder{}, mockClock)
	return func() {
		t.Log("Teardown after test")
		approvalRepoStub.Cleanup()
	}
}

func reviewerContext() context.Context {
	return user.WithUser(context.Background(), user.User{Id: 7, Uid: "uid-7", Email: "manager@example.com"})
}

func TestServiceImpl_Decide(t *testing.T) {
	t.Run("should approve a pending approval and stamp the reviewer", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		id := approvalRepoStub.Seed(Approval{BudgetID: 1, BudgetTitle: "Q3 Marketing"})

		// when
		decided, err := service.Decide(reviewerContext(), id, StatusApproved, "looks good")

		// then
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, decided.Status)
		assert.Equal(t, "looks good", decided.Comments)
		require.NotNil(t, decided.ReviewerID)
		assert.Equal(t, 7, *decided.ReviewerID)
		require.NotNil(t, decided.ReviewedAt)
		assert.Equal(t, mockClock.FixedNow, *decided.ReviewedAt)
	})

	t.Run("should reject a second decision", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		id := approvalRepoStub.Seed(Approval{BudgetID: 1})
		_, err := service.Decide(reviewerContext(), id, StatusRejected, "over budget")
		require.NoError(t, err)

		// when
		_, err = service.Decide(reviewerContext(), id, StatusApproved, "changed my mind")

		// then
		assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
	})

	t.Run("should refuse a pending target status", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		id := approvalRepoStub.Seed(Approval{BudgetID: 1})

		// when
		_, err := service.Decide(reviewerContext(), id, StatusPending, "")

		// then
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("should return not found for a missing approval", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Decide(reviewerContext(), 999, StatusApproved, "")

		// then
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("should fail without a user in context", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		id := approvalRepoStub.Seed(Approval{BudgetID: 1})

		// when
		_, err := service.Decide(context.Background(), id, StatusApproved, "")

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_ListPending(t *testing.T) {
	t.Run("should list only pending approvals oldest first", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		newer := approvalRepoStub.Seed(Approval{BudgetID: 2, CreatedAt: base.Add(time.Hour)})
		older := approvalRepoStub.Seed(Approval{BudgetID: 1, CreatedAt: base})
		decidedId := approvalRepoStub.Seed(Approval{BudgetID: 3, CreatedAt: base})
		_, err := service.Decide(reviewerContext(), decidedId, StatusApproved, "")
		require.NoError(t, err)

		// when
		pending, err := service.ListPending(reviewerContext())

		// then
		require.NoError(t, err)
		require.Len(t, pending, 2)
		assert.Equal(t, older, pending[0].ID)
		assert.Equal(t, newer, pending[1].ID)
	})
}

func TestServiceImpl_ListForBudget(t *testing.T) {
	t.Run("should list the budget's approval history", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		first := approvalRepoStub.Seed(Approval{BudgetID: 1, CreatedAt: base})
		second := approvalRepoStub.Seed(Approval{BudgetID: 1, CreatedAt: base.Add(time.Minute)})
		approvalRepoStub.Seed(Approval{BudgetID: 2, CreatedAt: base})

		// when
		history, err := service.ListForBudget(reviewerContext(), 1)

		// then
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, first, history[0].ID)
		assert.Equal(t, second, history[1].ID)
	})
}
