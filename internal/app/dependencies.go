package app

import (
	"database/sql"

	internalauth "github.com/budgetflow/budgetflow/internal/auth"
	"github.com/budgetflow/budgetflow/internal/config"
	"github.com/budgetflow/budgetflow/internal/utils"
	"github.com/budgetflow/budgetflow/pkg/approval"
	"github.com/budgetflow/budgetflow/pkg/audit"
	"github.com/budgetflow/budgetflow/pkg/auth"
	"github.com/budgetflow/budgetflow/pkg/budget"
	"github.com/budgetflow/budgetflow/pkg/dashboard"
	"github.com/budgetflow/budgetflow/pkg/timesheet"
	"github.com/budgetflow/budgetflow/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	TokenIssuer  *internalauth.TokenIssuer
	LoginLimiter *auth.LoginLimiter

	AuthService auth.Service
	AuthHandler *auth.Handler

	UserService user.Service
	UserHandler *user.Handler

	AuditService audit.Service
	AuditHandler *audit.Handler

	BudgetRepo    budget.Repo
	BudgetService budget.Service
	BudgetHandler *budget.Handler

	ApprovalRepo    approval.Repo
	ApprovalService approval.Service
	ApprovalHandler *approval.Handler

	TimesheetRepo    timesheet.Repo
	TimesheetService timesheet.Service
	TimesheetHandler *timesheet.Handler

	DashboardService dashboard.Service
	DashboardHandler *dashboard.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = utils.SystemClock{}
	deps.TokenIssuer = internalauth.NewTokenIssuer(cfg.Auth, deps.Clock)
	deps.LoginLimiter = auth.NewLoginLimiter(cfg.Auth.LoginPerMinute)

	userRepo := user.NewUserRepo(db)
	deps.UserService = user.NewUserService(userRepo)
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.AuthService = auth.NewService(userRepo, deps.TokenIssuer)
	deps.AuthHandler = auth.NewHandler(deps.AuthService)

	auditService := audit.NewService(audit.NewAuditRepo(db), deps.Clock)
	deps.AuditService = auditService
	deps.AuditHandler = audit.NewHandler(auditService)

	deps.BudgetRepo = budget.NewBudgetRepo(db)
	deps.BudgetService = budget.NewBudgetService(deps.BudgetRepo, auditService, deps.Clock)
	deps.BudgetHandler = budget.NewBudgetHandler(deps.BudgetService)

	deps.ApprovalRepo = approval.NewApprovalRepo(db)
	deps.ApprovalService = approval.NewApprovalService(deps.ApprovalRepo, auditService, deps.Clock)
	deps.ApprovalHandler = approval.NewApprovalHandler(deps.ApprovalService)

	deps.TimesheetRepo = timesheet.NewTimesheetRepo(db)
	deps.TimesheetService = timesheet.NewTimesheetService(deps.TimesheetRepo, auditService)
	deps.TimesheetHandler = timesheet.NewTimesheetHandler(deps.TimesheetService)

	deps.DashboardService = dashboard.NewDashboardService(deps.BudgetRepo, deps.ApprovalRepo, deps.TimesheetRepo)
	deps.DashboardHandler = dashboard.NewDashboardHandler(deps.DashboardService)

	return deps
}
