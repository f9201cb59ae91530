package audit

import (
	"context"
	"testing"
	"time"

	"github.com/budgetflow/budgetflow/internal/utils"
	"github.com/budgetflow/budgetflow/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = user.WithUser(context.Background(), user.User{Id: 1})

var auditRepoStub = NewStubAuditRepo()

var service Service

func setup(t *testing.T) func() {
	clock := &utils.MockClock{FixedNow: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	service = NewService(auditRepoStub, clock)
	return func() {
		t.Log("Teardown after test")
		auditRepoStub.Cleanup()
	}
}

func TestServiceImpl_Record(t *testing.T) {
	t.Run("should store a snapshot pair for the current user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		service.Record(ctx, ActionUpdate, EntityBudget, 7,
			map[string]any{"title": "Old"},
			map[string]any{"title": "New"},
		)

		// then
		entries, err := service.ListOwn(ctx, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, ActionUpdate, entries[0].Action)
		assert.Equal(t, EntityBudget, entries[0].EntityType)
		assert.Equal(t, 7, entries[0].EntityId)
		assert.JSONEq(t, `{"title":"Old"}`, entries[0].OldValues)
		assert.JSONEq(t, `{"title":"New"}`, entries[0].NewValues)
	})

	t.Run("should skip recording when context has no user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		service.Record(context.Background(), ActionCreate, EntityBudget, 1, nil, "x")

		// then
		entries, err := service.ListOwn(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestServiceImpl_ListOwn(t *testing.T) {
	t.Run("should list newest entries first and honor the limit", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		service.Record(ctx, ActionCreate, EntityBudget, 1, nil, map[string]any{"title": "A"})
		service.Record(ctx, ActionSubmit, EntityBudget, 1, nil, nil)
		service.Record(ctx, ActionDelete, EntityBudget, 1, map[string]any{"title": "A"}, nil)

		// when
		entries, err := service.ListOwn(ctx, 2)

		// then
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, ActionDelete, entries[0].Action)
		assert.Equal(t, ActionSubmit, entries[1].Action)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.ListOwn(context.Background(), 10)

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}
