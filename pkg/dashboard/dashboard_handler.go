package dashboard

import (
	"net/http"

	"github.com/budgetflow/budgetflow/internal/rest"
)

type StatsDTO struct {
	TotalBudget      float64 `json:"totalBudget"`
	SpentThisMonth   float64 `json:"spentThisMonth"`
	RemainingBudget  float64 `json:"remainingBudget"`
	PendingApprovals int     `json:"pendingApprovals"`
	ActiveProjects   int     `json:"activeProjects"`
}

type Handler struct {
	service Service
}

func NewDashboardHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetStats godoc
//
//	@Summary	Summary figures for the current user's dashboard
//	@Tags		dashboard
//	@Produce	json
//	@Success	200	{object}	StatsDTO
//	@Router		/api/dashboard/stats [get]
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, StatsDTO{
		TotalBudget:      float64(stats.TotalBudgetCents) / 100,
		SpentThisMonth:   float64(stats.SpentCents) / 100,
		RemainingBudget:  float64(stats.RemainingCents) / 100,
		PendingApprovals: stats.PendingApprovals,
		ActiveProjects:   stats.ActiveProjects,
	})
}
