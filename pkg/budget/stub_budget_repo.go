package budget

import (
	"context"
	"time"
)

type StubBudgetRepo struct {
	budgets    map[int]Budget
	nextId     int
	nextItemId int
	// Submissions records budget ids for which a pending approval would
	// have been inserted.
	Submissions []int
}

func NewStubBudgetRepo() *StubBudgetRepo {
	return &StubBudgetRepo{budgets: make(map[int]Budget), nextId: 1, nextItemId: 1}
}

func (r *StubBudgetRepo) Cleanup() {
	r.budgets = make(map[int]Budget)
	r.nextId = 1
	r.nextItemId = 1
	r.Submissions = nil
}

// Seed stores a budget as-is, keeping its status. Returns the assigned id.
func (r *StubBudgetRepo) Seed(budget Budget) int {
	budget.ID = r.nextId
	r.nextId++
	for i := range budget.Items {
		budget.Items[i].ID = r.nextItemId
		budget.Items[i].BudgetID = budget.ID
		r.nextItemId++
	}
	r.budgets[budget.ID] = budget
	return budget.ID
}

func (r *StubBudgetRepo) Store(_ context.Context, userId int, budget Budget) (int, error) {
	budget.Status = StatusDraft
	budget.CreatedBy = userId
	budget.CreatedAt = time.Now()
	return r.Seed(budget), nil
}

func (r *StubBudgetRepo) Get(_ context.Context, id int) (Budget, error) {
	budget, ok := r.budgets[id]
	if !ok {
		return Budget{}, ErrBudgetNotFound
	}
	return budget, nil
}

func (r *StubBudgetRepo) GetAll(_ context.Context, userId int, offset int, limit int) ([]Budget, error) {
	var budgets []Budget
	for id := r.nextId - 1; id >= 1; id-- {
		if budget, ok := r.budgets[id]; ok && budget.CreatedBy == userId {
			budgets = append(budgets, budget)
		}
	}
	if offset >= len(budgets) {
		return nil, nil
	}
	budgets = budgets[offset:]
	if limit < len(budgets) {
		budgets = budgets[:limit]
	}
	return budgets, nil
}

func (r *StubBudgetRepo) Update(_ context.Context, userId int, budget Budget, now time.Time) (bool, error) {
	existing, ok := r.budgets[budget.ID]
	if !ok || existing.CreatedBy != userId || existing.Status != StatusDraft {
		return false, nil
	}
	existing.Title = budget.Title
	existing.Description = budget.Description
	existing.Department = budget.Department
	existing.TotalCents = budget.TotalCents
	existing.Period = budget.Period
	existing.StartDate = budget.StartDate
	existing.EndDate = budget.EndDate
	existing.UpdatedAt = &now
	r.budgets[budget.ID] = existing
	return true, nil
}

func (r *StubBudgetRepo) Delete(_ context.Context, userId int, budgetId int) (bool, error) {
	existing, ok := r.budgets[budgetId]
	if !ok || existing.CreatedBy != userId || existing.Status != StatusDraft {
		return false, nil
	}
	delete(r.budgets, budgetId)
	return true, nil
}

func (r *StubBudgetRepo) Submit(_ context.Context, userId int, budgetId int, now time.Time) (bool, error) {
	existing, ok := r.budgets[budgetId]
	if !ok || existing.CreatedBy != userId || existing.Status != StatusDraft {
		return false, nil
	}
	existing.Status = StatusSubmitted
	existing.UpdatedAt = &now
	r.budgets[budgetId] = existing
	r.Submissions = append(r.Submissions, budgetId)
	return true, nil
}

func (r *StubBudgetRepo) SumAmounts(_ context.Context, userId int, status Status) (int64, int64, error) {
	var total, spent int64
	for _, budget := range r.budgets {
		if budget.CreatedBy == userId && budget.Status == status {
			total += budget.TotalCents
			spent += budget.SpentCents
		}
	}
	return total, spent, nil
}

func (r *StubBudgetRepo) StoreItem(_ context.Context, item Item) (int, error) {
	budget, ok := r.budgets[item.BudgetID]
	if !ok {
		return 0, ErrBudgetNotFound
	}
	item.ID = r.nextItemId
	r.nextItemId++
	budget.Items = append(budget.Items, item)
	r.budgets[item.BudgetID] = budget
	return item.ID, nil
}

func (r *StubBudgetRepo) UpdateItem(_ context.Context, item Item) (bool, error) {
	budget, ok := r.budgets[item.BudgetID]
	if !ok {
		return false, nil
	}
	for i := range budget.Items {
		if budget.Items[i].ID == item.ID {
			budget.Items[i] = item
			r.budgets[item.BudgetID] = budget
			return true, nil
		}
	}
	return false, nil
}

func (r *StubBudgetRepo) DeleteItem(_ context.Context, budgetId int, itemId int) (bool, error) {
	budget, ok := r.budgets[budgetId]
	if !ok {
		return false, nil
	}
	for i := range budget.Items {
		if budget.Items[i].ID == itemId {
			budget.Items = append(budget.Items[:i], budget.Items[i+1:]...)
			r.budgets[budgetId] = budget
			return true, nil
		}
	}
	return false, nil
}
