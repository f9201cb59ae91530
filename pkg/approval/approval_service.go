package approval

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
	ListForBudget(ctx context.Context, budgetId int) ([]Approval, error)
	ListPending(ctx context.Context) ([]Approval, error)
	Decide(ctx context.Context, id int, status Status, comments string) (Approval, error)
}

type ServiceImpl struct {
	repo    Repo
	auditor audit.Recorder
	clock   utils.Clock
}

func NewApprovalService(repo Repo, auditor audit.Recorder, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, auditor: auditor, clock: clock}
}

func (s *ServiceImpl) ListForBudget(ctx context.Context, budgetId int) ([]Approval, error) {
	return s.repo.ListForBudget(ctx, budgetId)
}

func (s *ServiceImpl) ListPending(ctx context.Context) ([]Approval, error) {
	return s.repo.ListPending(ctx)
}

// Decide records a reviewer's verdict on a pending approval. The decision does
// not move the budget itself: budget status stays owner-driven.
func (s *ServiceImpl) Decide(ctx context.Context, id int, status Status, comments string) (Approval, error) {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return Approval{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if _, err := ParseDecision(string(status)); err != nil {
		return Approval{}, err
	}

	existing, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrApprovalNotFound) {
		return Approval{}, apperror.NotFound("approval %d not found", id)
	} else if err != nil {
		return Approval{}, err
	}

	decided, err := s.repo.Decide(ctx, id, currentUserId, status, comments, s.clock.Now())
	if err != nil {
		return Approval{}, err
	}
	if !decided {
		return Approval{}, apperror.InvalidState("approval %d is already %s", id, existing.Status)
	}

	result, err := s.repo.Get(ctx, id)
	if err != nil {
		return Approval{}, err
	}
	s.auditor.Record(ctx, audit.ActionDecide, audit.EntityApproval, id, existing, result)
	return result, nil
}
