package dashboard

import (
	"context"
	"fmt"

	"github.com/budgetflow/budgetflow/pkg/approval"
	"github.com/budgetflow/budgetflow/pkg/budget"
	"github.com/budgetflow/budgetflow/pkg/user"
)

// BudgetReader sums the totals of a user's budgets in a given status.
type BudgetReader interface {
	SumAmounts(ctx context.Context, userId int, status budget.Status) (int64, int64, error)
}

// ApprovalCounter counts approvals in a given status across all budgets.
type ApprovalCounter interface {
	CountByStatus(ctx context.Context, status approval.Status) (int, error)
}

// ProjectCounter counts the distinct projects a user has logged time on.
type ProjectCounter interface {
	CountDistinctProjects(ctx context.Context, employeeId int) (int, error)
}

type Service interface {
	GetStats(ctx context.Context) (Stats, error)
}

type ServiceImpl struct {
	budgets   BudgetReader
	approvals ApprovalCounter
	projects  ProjectCounter
}

func NewDashboardService(budgets BudgetReader, approvals ApprovalCounter, projects ProjectCounter) *ServiceImpl {
	return &ServiceImpl{budgets: budgets, approvals: approvals, projects: projects}
}

// GetStats aggregates over the caller's active budgets. Pending approvals are
// counted globally, matching the reviewer-facing pending queue.
func (s *ServiceImpl) GetStats(ctx context.Context) (Stats, error) {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to get current user: %w", err)
	}

	total, spent, err := s.budgets.SumAmounts(ctx, currentUserId, budget.StatusActive)
	if err != nil {
		return Stats{}, err
	}
	pending, err := s.approvals.CountByStatus(ctx, approval.StatusPending)
	if err != nil {
		return Stats{}, err
	}
	projects, err := s.projects.CountDistinctProjects(ctx, currentUserId)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		TotalBudgetCents: total,
		SpentCents:       spent,
		RemainingCents:   total - spent,
		PendingApprovals: pending,
		ActiveProjects:   projects,
	}, nil
}
