package app

import (
	"github.com/budgetflow/budgetflow/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Authentication
	r.HandleFunc("/api/auth/register", deps.AuthHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", deps.LoginLimiter.Wrap(deps.AuthHandler.Login)).Methods("POST")

	// Budgets
	r.HandleFunc("/api/budget", deps.BudgetHandler.GetBudgets).Methods("GET")
	r.HandleFunc("/api/budget", deps.BudgetHandler.CreateBudget).Methods("POST")
	r.HandleFunc("/api/budget/{budgetId}", deps.BudgetHandler.GetBudget).Methods("GET")
	r.HandleFunc("/api/budget/{budgetId}", deps.BudgetHandler.UpdateBudget).Methods("PUT")
	r.HandleFunc("/api/budget/{budgetId}", deps.BudgetHandler.DeleteBudget).Methods("DELETE")
	r.HandleFunc("/api/budget/{budgetId}/submit", deps.BudgetHandler.SubmitBudget).Methods("POST")

	// Budget items
	r.HandleFunc("/api/budget/{budgetId}/item", deps.BudgetHandler.AddItem).Methods("POST")
	r.HandleFunc("/api/budget/{budgetId}/item/{itemId}", deps.BudgetHandler.UpdateItem).Methods("PUT")
	r.HandleFunc("/api/budget/{budgetId}/item/{itemId}", deps.BudgetHandler.DeleteItem).Methods("DELETE")

	// Approvals
	r.HandleFunc("/api/approval/pending", deps.ApprovalHandler.ListPending).Methods("GET")
	r.HandleFunc("/api/approval/{approvalId}/decision", deps.ApprovalHandler.Decide).Methods("POST")
	r.HandleFunc("/api/budget/{budgetId}/approval", deps.ApprovalHandler.ListForBudget).Methods("GET")

	// Timesheets
	r.HandleFunc("/api/timesheet", deps.TimesheetHandler.GetEntries).Methods("GET")
	r.HandleFunc("/api/timesheet", deps.TimesheetHandler.CreateEntry).Methods("POST")
	r.HandleFunc("/api/timesheet/{entryId}", deps.TimesheetHandler.GetEntry).Methods("GET")
	r.HandleFunc("/api/timesheet/{entryId}", deps.TimesheetHandler.UpdateEntry).Methods("PUT")
	r.HandleFunc("/api/timesheet/{entryId}", deps.TimesheetHandler.DeleteEntry).Methods("DELETE")
	r.HandleFunc("/api/timesheet/{entryId}/submit", deps.TimesheetHandler.SubmitEntry).Methods("POST")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateUser).Methods("PUT")
	r.HandleFunc("/api/user/{userUid}", deps.UserHandler.DeleteUser).Methods("DELETE")

	// Dashboard
	r.HandleFunc("/api/dashboard/stats", deps.DashboardHandler.GetStats).Methods("GET")

	// Audit trail
	r.HandleFunc("/api/audit", deps.AuditHandler.ListOwn).Methods("GET")
}
