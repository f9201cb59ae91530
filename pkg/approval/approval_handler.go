package approval

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/budgetflow/budgetflow/internal/apperror"
	"github.com/budgetflow/budgetflow/internal/rest"
	"github.com/gorilla/mux"
)

type ApprovalDTO struct {
	ID           int        `json:"id"`
	BudgetID     int        `json:"budgetId"`
	BudgetTitle  string     `json:"budgetTitle"`
	ReviewerID   *int       `json:"reviewerId,omitempty"`
	ReviewerName string     `json:"reviewerName,omitempty"`
	Status       string     `json:"status"`
	Level        string     `json:"level"`
	Comments     string     `json:"comments"`
	CreatedAt    time.Time  `json:"createdAt"`
	ReviewedAt   *time.Time `json:"reviewedAt,omitempty"`
}

type DecisionDTO struct {
	Status   string `json:"status"`
	Comments string `json:"comments"`
}

type Handler struct {
	service Service
}

func NewApprovalHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListForBudget(w http.ResponseWriter, r *http.Request) {
	budgetId, err := strconv.Atoi(mux.Vars(r)["budgetId"])
	if err != nil {
		rest.WriteError(w, apperror.Validation("invalid budgetId"))
		return
	}
	approvals, err := h.service.ListForBudget(r.Context(), budgetId)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTOs(approvals))
}

// ListPending godoc
//
//	@Summary	List all approvals awaiting a decision
//	@Tags		approval
//	@Produce	json
//	@Success	200	{array}	ApprovalDTO
//	@Router		/api/approval/pending [get]
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	approvals, err := h.service.ListPending(r.Context())
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTOs(approvals))
}

// Decide godoc
//
//	@Summary	Record a decision on a pending approval
//	@Tags		approval
//	@Accept		json
//	@Produce	json
//	@Param		approvalId	path		int			true	"Approval ID"
//	@Param		decision	body		DecisionDTO	true	"Decision"
//	@Success	200			{object}	ApprovalDTO
//	@Router		/api/approval/{approvalId}/decision [post]
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	approvalId, err := strconv.Atoi(mux.Vars(r)["approvalId"])
	if err != nil {
		rest.WriteError(w, apperror.Validation("invalid approvalId"))
		return
	}
	var dto DecisionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, apperror.Validation("invalid request body"))
		return
	}
	status, err := ParseDecision(dto.Status)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	decided, err := h.service.Decide(r.Context(), approvalId, status, dto.Comments)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTO(decided))
}

func toDTO(approval Approval) ApprovalDTO {
	return ApprovalDTO{
		ID:           approval.ID,
		BudgetID:     approval.BudgetID,
		BudgetTitle:  approval.BudgetTitle,
		ReviewerID:   approval.ReviewerID,
		ReviewerName: approval.ReviewerName,
		Status:       string(approval.Status),
		Level:        string(approval.Level),
		Comments:     approval.Comments,
		CreatedAt:    approval.CreatedAt,
		ReviewedAt:   approval.ReviewedAt,
	}
}

func toDTOs(approvals []Approval) []ApprovalDTO {
	dtos := make([]ApprovalDTO, 0, len(approvals))
	for _, approval := range approvals {
		dtos = append(dtos, toDTO(approval))
	}
	return dtos
}
