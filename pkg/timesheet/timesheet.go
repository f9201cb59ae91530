package timesheet

import (
	"time"

	"github.com/budgetflow/budgetflow/internal/apperror"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// maxDailyHundredths caps a single entry at 24 hours.
const maxDailyHundredths = 24 * 100

type Entry struct {
	ID              int
	EmployeeID      int
	BudgetID        *int
	EntryDate       time.Time
	HoursHundredths int64
	ProjectName     string
	TaskDescription string
	HourlyRateCents int64
	Status          Status
	CreatedAt       time.Time
}

// TotalCostCents is derived on every read and never persisted.
func (e Entry) TotalCostCents() int64 {
	return e.HoursHundredths * e.HourlyRateCents / 100
}

func (e Entry) Validate() error {
	if e.ProjectName == "" {
		return apperror.Validation("project name is required")
	}
	if e.HoursHundredths <= 0 {
		return apperror.Validation("hours must be positive")
	}
	if e.HoursHundredths > maxDailyHundredths {
		return apperror.Validation("hours cannot exceed 24 per entry")
	}
	if e.EntryDate.IsZero() {
		return apperror.Validation("entry date is required")
	}
	return nil
}
