package budget

import (
	"time"

	"github.com/budgetflow/budgetflow/internal/apperror"
)

type Status string

const (
	StatusDraft       Status = "draft"
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusActive      Status = "active"
	StatusCompleted   Status = "completed"
	// StatusCancelled is reserved: no operation currently produces it, but
	// stored budgets may carry it and it round-trips through the API.
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates a status coming from the store or the transport.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusDraft, StatusSubmitted, StatusUnderReview, StatusApproved,
		StatusRejected, StatusActive, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", apperror.Validation("unknown budget status: %q", s)
}

type Period string

const (
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodAnnual    Period = "annual"
)

func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodMonthly, PeriodQuarterly, PeriodAnnual:
		return Period(s), nil
	}
	return "", apperror.Validation("unknown budget period: %q", s)
}

type Budget struct {
	ID            int
	Title         string
	Description   string
	Department    string
	TotalCents    int64
	SpentCents    int64
	Status        Status
	Period        Period
	StartDate     time.Time
	EndDate       time.Time
	CreatedBy     int
	CreatedByName string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	Items         []Item
}

// RemainingCents is derived on every read and never persisted.
func (b Budget) RemainingCents() int64 {
	return b.TotalCents - b.SpentCents
}

// Validate checks the fields a caller controls at creation time.
func (b Budget) Validate() error {
	if b.Title == "" {
		return apperror.Validation("title is required")
	}
	if b.TotalCents <= 0 {
		return apperror.Validation("total amount must be positive")
	}
	if _, err := ParsePeriod(string(b.Period)); err != nil {
		return err
	}
	if !b.EndDate.After(b.StartDate) {
		return apperror.Validation("end date must be after start date")
	}
	for _, item := range b.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type Item struct {
	ID          int
	BudgetID    int
	Category    string
	Description string
	AmountCents int64
	SpentCents  int64
	CostCenter  string
	CreatedAt   time.Time
}

func (i Item) Validate() error {
	if i.Category == "" {
		return apperror.Validation("item category is required")
	}
	if i.AmountCents <= 0 {
		return apperror.Validation("item amount must be positive")
	}
	return nil
}
