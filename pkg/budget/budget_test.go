package budget

import (
	"testing"
	"time"

	"github.com/budgetflow/budgetflow/internal/apperror"
	"github.com/stretchr/testify/assert"
)

func validBudget() Budget {
	return Budget{
		Title:      "Q3 Marketing",
		TotalCents: 500_000,
		Period:     PeriodQuarterly,
		StartDate:  time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
	}
}

func TestBudget_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Budget)
		wantErr string
	}{
		{
			name:   "valid budget passes",
			mutate: func(b *Budget) {},
		},
		{
			name:    "missing title",
			mutate:  func(b *Budget) { b.Title = "" },
			wantErr: "title is required",
		},
		{
			name:    "zero total",
			mutate:  func(b *Budget) { b.TotalCents = 0 },
			wantErr: "total amount must be positive",
		},
		{
			name:    "negative total",
			mutate:  func(b *Budget) { b.TotalCents = -100 },
			wantErr: "total amount must be positive",
		},
		{
			name:    "unknown period",
			mutate:  func(b *Budget) { b.Period = "weekly" },
			wantErr: "unknown budget period",
		},
		{
			name:    "end date equals start date",
			mutate:  func(b *Budget) { b.EndDate = b.StartDate },
			wantErr: "end date must be after start date",
		},
		{
			name:    "end date before start date",
			mutate:  func(b *Budget) { b.EndDate = b.StartDate.AddDate(0, 0, -1) },
			wantErr: "end date must be after start date",
		},
		{
			name: "item without category",
			mutate: func(b *Budget) {
				b.Items = []Item{{AmountCents: 1000}}
			},
			wantErr: "item category is required",
		},
		{
			name: "item with zero amount",
			mutate: func(b *Budget) {
				b.Items = []Item{{Category: "Ads", AmountCents: 0}}
			},
			wantErr: "item amount must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budget := validBudget()
			tt.mutate(&budget)

			err := budget.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
			}
		})
	}
}

func TestBudget_RemainingCents(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		spent int64
		want  int64
	}{
		{name: "nothing spent", total: 10_000, spent: 0, want: 10_000},
		{name: "partially spent", total: 10_000, spent: 2_500, want: 7_500},
		{name: "fully spent", total: 10_000, spent: 10_000, want: 0},
		{name: "overspent goes negative", total: 10_000, spent: 12_000, want: -2_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budget := Budget{TotalCents: tt.total, SpentCents: tt.spent}
			assert.Equal(t, tt.want, budget.RemainingCents())
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{
		"draft", "submitted", "under_review", "approved",
		"rejected", "active", "completed", "cancelled",
	} {
		status, err := ParseStatus(valid)
		assert.NoError(t, err)
		assert.Equal(t, Status(valid), status)
	}

	_, err := ParseStatus("archived")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}
