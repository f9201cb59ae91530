package dashboard

// Stats is the landing-page summary for the current user. Monetary amounts
// are in cents.
type Stats struct {
	TotalBudgetCents int64
	SpentCents       int64
	RemainingCents   int64
	PendingApprovals int
	ActiveProjects   int
}
