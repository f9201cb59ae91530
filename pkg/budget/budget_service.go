package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/budgetflow/budgetflow/internal/apperror"
	"github.com/budgetflow/budgetflow/internal/utils"
	"github.com/budgetflow/budgetflow/pkg/audit"
	"github.com/budgetflow/budgetflow/pkg/user"
)

type Service interface {
	CreateBudget(ctx context.Context, budget Budget) (Budget, error)
	GetBudget(ctx context.Context, id int) (Budget, error)
	GetBudgets(ctx context.Context, page int, pageSize int) ([]Budget, error)
	UpdateBudget(ctx context.Context, budget Budget) (Budget, error)
	DeleteBudget(ctx context.Context, id int) error
	SubmitBudget(ctx context.Context, id int) (Budget, error)

	AddItem(ctx context.Context, item Item) (Budget, error)
	UpdateItem(ctx context.Context, item Item) (Budget, error)
	DeleteItem(ctx context.Context, budgetId int, itemId int) (Budget, error)
}

type ServiceImpl struct {
	repo    Repo
	auditor audit.Recorder
	clock   utils.Clock
}

func NewBudgetService(repo Repo, auditor audit.Recorder, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, auditor: auditor, clock: clock}
}

func (s *ServiceImpl) CreateBudget(ctx context.Context, budget Budget) (Budget, error) {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return Budget{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := budget.Validate(); err != nil {
		return Budget{}, err
	}

	budgetId, err := s.repo.Store(ctx, currentUserId, budget)
	if err != nil {
		return Budget{}, err
	}
	created, err := s.repo.Get(ctx, budgetId)
	if err != nil {
		return Budget{}, err
	}
	s.auditor.Record(ctx, audit.ActionCreate, audit.EntityBudget, budgetId, nil, created)
	return created, nil
}

func (s *ServiceImpl) GetBudget(ctx context.Context, id int) (Budget, error) {
	budget, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrBudgetNotFound) {
		return Budget{}, apperror.NotFound("budget %d not found", id)
	} else if err != nil {
		return Budget{}, err
	}
	return budget, nil
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func (s *ServiceImpl) GetBudgets(ctx context.Context, page int, pageSize int) ([]Budget, error) {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return s.repo.GetAll(ctx, currentUserId, (page-1)*pageSize, pageSize)
}

func (s *ServiceImpl) UpdateBudget(ctx context.Context, budget Budget) (Budget, error) {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return Budget{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := budget.Validate(); err != nil {
		return Budget{}, err
	}

	existing, err := s.GetBudget(ctx, budget.ID)
	if err != nil {
		return Budget{}, err
	}

	updated, err := s.repo.Update(ctx, currentUserId, budget, s.clock.Now())
	if err != nil {
		return Budget{}, err
	}
	if !updated {
		return Budget{}, draftGuardError(existing, currentUserId)
	}

	result, err := s.repo.Get(ctx, budget.ID)
	if err != nil {
		return Budget{}, err
	}
	s.auditor.Record(ctx, audit.ActionUpdate, audit.EntityBudget, budget.ID, existing, result)
	return result, nil
}

func (s *ServiceImpl) DeleteBudget(ctx context.Context, id int) error {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	existing, err := s.GetBudget(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, currentUserId, id)
	if err != nil {
		return err
	}
	if !deleted {
		return draftGuardError(existing, currentUserId)
	}
	s.auditor.Record(ctx, audit.ActionDelete, audit.EntityBudget, id, existing, nil)
	return nil
}

func (s *ServiceImpl) SubmitBudget(ctx context.Context, id int) (Budget, error) {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return Budget{}, fmt.Errorf("failed to get current user: %w", err)
	}
	existing, err := s.GetBudget(ctx, id)
	if err != nil {
		return Budget{}, err
	}

	submitted, err := s.repo.Submit(ctx, currentUserId, id, s.clock.Now())
	if err != nil {
		return Budget{}, err
	}
	if !submitted {
		return Budget{}, draftGuardError(existing, currentUserId)
	}

	result, err := s.repo.Get(ctx, id)
	if err != nil {
		return Budget{}, err
	}
	s.auditor.Record(ctx, audit.ActionSubmit, audit.EntityBudget, id, existing, result)
	return result, nil
}

// draftGuardError interprets a failed guarded write: the budget exists, so
// either it belongs to someone else or it already left draft.
func draftGuardError(existing Budget, currentUserId int) error {
	if existing.CreatedBy != currentUserId {
		return apperror.NotFound("budget %d not found", existing.ID)
	}
	return apperror.InvalidState("budget %d is %s, only drafts can be modified", existing.ID, existing.Status)
}

func (s *ServiceImpl) AddItem(ctx context.Context, item Item) (Budget, error) {
	budget, err := s.editableBudget(ctx, item.BudgetID)
	if err != nil {
		return Budget{}, err
	}
	if err := item.Validate(); err != nil {
		return Budget{}, err
	}

	itemId, err := s.repo.StoreItem(ctx, item)
	if err != nil {
		return Budget{}, err
	}
	result, err := s.repo.Get(ctx, item.BudgetID)
	if err != nil {
		return Budget{}, err
	}
	s.auditor.Record(ctx, audit.ActionCreate, audit.EntityBudgetItem, itemId, budget, result)
	return result, nil
}

func (s *ServiceImpl) UpdateItem(ctx context.Context, item Item) (Budget, error) {
	budget, err := s.editableBudget(ctx, item.BudgetID)
	if err != nil {
		return Budget{}, err
	}
	if err := item.Validate(); err != nil {
		return Budget{}, err
	}

	updated, err := s.repo.UpdateItem(ctx, item)
	if err != nil {
		return Budget{}, err
	}
	if !updated {
		return Budget{}, apperror.NotFound("item %d not found in budget %d", item.ID, item.BudgetID)
	}
	result, err := s.repo.Get(ctx, item.BudgetID)
	if err != nil {
		return Budget{}, err
	}
	s.auditor.Record(ctx, audit.ActionUpdate, audit.EntityBudgetItem, item.ID, budget, result)
	return result, nil
}

func (s *ServiceImpl) DeleteItem(ctx context.Context, budgetId int, itemId int) (Budget, error) {
	budget, err := s.editableBudget(ctx, budgetId)
	if err != nil {
		return Budget{}, err
	}

	deleted, err := s.repo.DeleteItem(ctx, budgetId, itemId)
	if err != nil {
		return Budget{}, err
	}
	if !deleted {
		return Budget{}, apperror.NotFound("item %d not found in budget %d", itemId, budgetId)
	}
	result, err := s.repo.Get(ctx, budgetId)
	if err != nil {
		return Budget{}, err
	}
	s.auditor.Record(ctx, audit.ActionDelete, audit.EntityBudgetItem, itemId, budget, result)
	return result, nil
}

// editableBudget loads the budget and checks the caller may modify its items.
func (s *ServiceImpl) editableBudget(ctx context.Context, budgetId int) (Budget, error) {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return Budget{}, fmt.Errorf("failed to get current user: %w", err)
	}
	budget, err := s.GetBudget(ctx, budgetId)
	if err != nil {
		return Budget{}, err
	}
	if budget.CreatedBy != currentUserId {
		return Budget{}, apperror.NotFound("budget %d not found", budgetId)
	}
	if budget.Status != StatusDraft {
		return Budget{}, apperror.InvalidState("budget %d is %s, only drafts can be modified", budgetId, budget.Status)
	}
	return budget, nil
}
