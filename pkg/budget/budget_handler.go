package budget

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/budgetflow/budgetflow/internal/apperror"
	"github.com/budgetflow/budgetflow/internal/rest"
	"github.com/budgetflow/budgetflow/internal/utils"
	"github.com/gorilla/mux"
)

type BudgetDTO struct {
	ID              int        `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Department      string     `json:"department"`
	TotalAmount     float64    `json:"totalAmount"`
	SpentAmount     float64    `json:"spentAmount"`
	RemainingAmount float64    `json:"remainingAmount"`
	Status          string     `json:"status"`
	Period          string     `json:"period"`
	StartDate       string     `json:"startDate"`
	EndDate         string     `json:"endDate"`
	CreatedBy       int        `json:"createdBy"`
	CreatedByName   string     `json:"createdByName"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
	Items           []ItemDTO  `json:"items"`
}

type ItemDTO struct {
	ID          int     `json:"id"`
	BudgetID    int     `json:"budgetId"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	SpentAmount float64 `json:"spentAmount"`
	CostCenter  string  `json:"costCenter"`
}

type Handler struct {
	service Service
}

func NewBudgetHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateBudget godoc
//
//	@Summary	Create a new draft budget
//	@Tags		budget
//	@Accept		json
//	@Produce	json
//	@Param		budget	body		BudgetDTO	true	"Budget"
//	@Success	201		{object}	BudgetDTO
//	@Router		/api/budget [post]
func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	var dto BudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, apperror.Validation("invalid request body"))
		return
	}
	budget, err := fromDTO(dto)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	created, err := h.service.CreateBudget(r.Context(), budget)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, toDTO(created))
}

// GetBudget godoc
//
//	@Summary	Get a budget with its items
//	@Tags		budget
//	@Produce	json
//	@Param		budgetId	path		int	true	"Budget ID"
//	@Success	200			{object}	BudgetDTO
//	@Router		/api/budget/{budgetId} [get]
func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	budgetId, err := pathId(r, "budgetId")
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	budget, err := h.service.GetBudget(r.Context(), budgetId)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTO(budget))
}

func (h *Handler) GetBudgets(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	budgets, err := h.service.GetBudgets(r.Context(), page, pageSize)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	dtos := make([]BudgetDTO, 0, len(budgets))
	for _, budget := range budgets {
		dtos = append(dtos, toDTO(budget))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	budgetId, err := pathId(r, "budgetId")
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	var dto BudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, apperror.Validation("invalid request body"))
		return
	}
	budget, err := fromDTO(dto)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	budget.ID = budgetId

	updated, err := h.service.UpdateBudget(r.Context(), budget)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTO(updated))
}

func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	budgetId, err := pathId(r, "budgetId")
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	if err := h.service.DeleteBudget(r.Context(), budgetId); err != nil {
		rest.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitBudget godoc
//
//	@Summary	Submit a draft budget for approval
//	@Tags		budget
//	@Produce	json
//	@Param		budgetId	path		int	true	"Budget ID"
//	@Success	200			{object}	BudgetDTO
//	@Router		/api/budget/{budgetId}/submit [post]
func (h *Handler) SubmitBudget(w http.ResponseWriter, r *http.Request) {
	budgetId, err := pathId(r, "budgetId")
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	submitted, err := h.service.SubmitBudget(r.Context(), budgetId)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTO(submitted))
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	budgetId, err := pathId(r, "budgetId")
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	var dto ItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, apperror.Validation("invalid request body"))
		return
	}
	item := itemFromDTO(dto)
	item.BudgetID = budgetId

	budget, err := h.service.AddItem(r.Context(), item)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, toDTO(budget))
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	budgetId, err := pathId(r, "budgetId")
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	itemId, err := pathId(r, "itemId")
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	var dto ItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, apperror.Validation("invalid request body"))
		return
	}
	item := itemFromDTO(dto)
	item.ID = itemId
	item.BudgetID = budgetId

	budget, err := h.service.UpdateItem(r.Context(), item)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTO(budget))
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	budgetId, err := pathId(r, "budgetId")
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	itemId, err := pathId(r, "itemId")
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	budget, err := h.service.DeleteItem(r.Context(), budgetId, itemId)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTO(budget))
}

func pathId(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, apperror.Validation("invalid %s", name)
	}
	return id, nil
}

func toDTO(budget Budget) BudgetDTO {
	items := make([]ItemDTO, 0, len(budget.Items))
	for _, item := range budget.Items {
		items = append(items, ItemDTO{
			ID:          item.ID,
			BudgetID:    item.BudgetID,
			Category:    item.Category,
			Description: item.Description,
			Amount:      centsToAmount(item.AmountCents),
			SpentAmount: centsToAmount(item.SpentCents),
			CostCenter:  item.CostCenter,
		})
	}
	return BudgetDTO{
		ID:              budget.ID,
		Title:           budget.Title,
		Description:     budget.Description,
		Department:      budget.Department,
		TotalAmount:     centsToAmount(budget.TotalCents),
		SpentAmount:     centsToAmount(budget.SpentCents),
		RemainingAmount: centsToAmount(budget.RemainingCents()),
		Status:          string(budget.Status),
		Period:          string(budget.Period),
		StartDate:       utils.FormatDate(budget.StartDate),
		EndDate:         utils.FormatDate(budget.EndDate),
		CreatedBy:       budget.CreatedBy,
		CreatedByName:   budget.CreatedByName,
		CreatedAt:       budget.CreatedAt,
		UpdatedAt:       budget.UpdatedAt,
		Items:           items,
	}
}

func fromDTO(dto BudgetDTO) (Budget, error) {
	period, err := ParsePeriod(dto.Period)
	if err != nil {
		return Budget{}, err
	}
	startDate, err := utils.ParseDate(dto.StartDate)
	if err != nil {
		return Budget{}, apperror.Validation("invalid start date: %q", dto.StartDate)
	}
	endDate, err := utils.ParseDate(dto.EndDate)
	if err != nil {
		return Budget{}, apperror.Validation("invalid end date: %q", dto.EndDate)
	}

	items := make([]Item, 0, len(dto.Items))
	for _, item := range dto.Items {
		items = append(items, itemFromDTO(item))
	}
	return Budget{
		ID:          dto.ID,
		Title:       dto.Title,
		Description: dto.Description,
		Department:  dto.Department,
		TotalCents:  amountToCents(dto.TotalAmount),
		Period:      period,
		StartDate:   startDate,
		EndDate:     endDate,
		Items:       items,
	}, nil
}

func itemFromDTO(dto ItemDTO) Item {
	return Item{
		ID:          dto.ID,
		BudgetID:    dto.BudgetID,
		Category:    dto.Category,
		Description: dto.Description,
		AmountCents: amountToCents(dto.Amount),
		SpentCents:  amountToCents(dto.SpentAmount),
		CostCenter:  dto.CostCenter,
	}
}

func centsToAmount(cents int64) float64 {
	return float64(cents) / 100
}

func amountToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
