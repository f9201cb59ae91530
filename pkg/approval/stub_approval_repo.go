package approval

import (
	"context"
	"sort"
	"time"
)

type StubApprovalRepo struct {
	approvals map[int]Approval
	nextId    int
}

func NewStubApprovalRepo() *StubApprovalRepo {
	return &StubApprovalRepo{approvals: make(map[int]Approval), nextId: 1}
}

func (r *StubApprovalRepo) Cleanup() {
	r.approvals = make(map[int]Approval)
	r.nextId = 1
}

func (r *StubApprovalRepo) Seed(approval Approval) int {
	approval.ID = r.nextId
	r.nextId++
	if approval.Status == "" {
		approval.Status = StatusPending
	}
	if approval.Level == "" {
		approval.Level = LevelManager
	}
	r.approvals[approval.ID] = approval
	return approval.ID
}

func (r *StubApprovalRepo) Get(_ context.Context, id int) (Approval, error) {
	approval, ok := r.approvals[id]
	if !ok {
		return Approval{}, ErrApprovalNotFound
	}
	return approval, nil
}

func (r *StubApprovalRepo) ListForBudget(_ context.Context, budgetId int) ([]Approval, error) {
	var approvals []Approval
	for _, approval := range r.approvals {
		if approval.BudgetID == budgetId {
			approvals = append(approvals, approval)
		}
	}
	sortByCreation(approvals)
	return approvals, nil
}

func (r *StubApprovalRepo) ListPending(_ context.Context) ([]Approval, error) {
	var approvals []Approval
	for _, approval := range r.approvals {
		if approval.Status == StatusPending {
			approvals = append(approvals, approval)
		}
	}
	sortByCreation(approvals)
	return approvals, nil
}

func sortByCreation(approvals []Approval) {
	sort.Slice(approvals, func(i, j int) bool {
		if approvals[i].CreatedAt.Equal(approvals[j].CreatedAt) {
			return approvals[i].ID < approvals[j].ID
		}
		return approvals[i].CreatedAt.Before(approvals[j].CreatedAt)
	})
}

func (r *StubApprovalRepo) Decide(_ context.Context, id int, reviewerId int, status Status, comments string, now time.Time) (bool, error) {
	approval, ok := r.approvals[id]
	if !ok || approval.Status != StatusPending {
		return false, nil
	}
	approval.ReviewerID = &reviewerId
	approval.Status = status
	approval.Comments = comments
	approval.ReviewedAt = &now
	r.approvals[id] = approval
	return true, nil
}

func (r *StubApprovalRepo) CountByStatus(_ context.Context, status Status) (int, error) {
	count := 0
	for _, approval := range r.approvals {
		if approval.Status == status {
			count++
		}
	}
	return count, nil
}
