package approval

import (
	"time"

	"github.com/budgetflow/budgetflow/internal/apperror"
)

type Status string

const (
	StatusPending         Status = "pending"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
	StatusRequestMoreInfo Status = "request_more_info"
)

// ParseDecision accepts only the statuses a reviewer may set. Pending is the
// initial state and can never be restored by a decision.
func ParseDecision(s string) (Status, error) {
	switch Status(s) {
	case StatusApproved, StatusRejected, StatusRequestMoreInfo:
		return Status(s), nil
	}
	return "", apperror.Validation("unknown decision: %q", s)
}

type Level string

const (
	LevelManager   Level = "manager"
	LevelFinance   Level = "finance"
	LevelExecutive Level = "executive"
)

type Approval struct {
	ID           int
	BudgetID     int
	BudgetTitle  string
	ReviewerID   *int
	ReviewerName string
	Status       Status
	Level        Level
	Comments     string
	CreatedAt    time.Time
	ReviewedAt   *time.Time
}
