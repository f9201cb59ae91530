package timesheet

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

type EntryDTO struct {
	ID              int       `json:"id"`
	BudgetID        *int      `json:"budgetId,omitempty"`
	EntryDate       string    `json:"entryDate"`
	Hours           float64   `json:"hours"`
	ProjectName     string    `json:"projectName"`
	TaskDescription string    `json:"taskDescription"`
	HourlyRate      float64   `json:"hourlyRate"`
	TotalCost       float64   `json:"totalCost"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Handler struct {
	service Service
}

func NewTimesheetHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateEntry godoc
//
//	@Summary	Create a draft timesheet entry
//	@Tags		timesheet
//	@Accept		json
//	@Produce	json
//	@Param		entry	body		EntryDTO	true	"Timesheet entry"
//	@Success	201		{object}	EntryDTO
//	@Router		/api/timesheet [post]
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var dto EntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, apperror.Validation("invalid request body"))
		return
	}
	entry, err := fromDTO(dto)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	created, err := h.service.CreateEntry(r.Context(), entry)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, toDTO(created))
}

func (h *Handler) GetEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.GetEntries(r.Context())
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	dtos := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, toDTO(entry))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	entryId, err := entryId(r)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	entry, err := h.service.GetEntry(r.Context(), entryId)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTO(entry))
}

func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	entryId, err := entryId(r)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	var dto EntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, apperror.Validation("invalid request body"))
		return
	}
	entry, err := fromDTO(dto)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	entry.ID = entryId

	updated, err := h.service.UpdateEntry(r.Context(), entry)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTO(updated))
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	entryId, err := entryId(r)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	if err := h.service.DeleteEntry(r.Context(), entryId); err != nil {
		rest.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SubmitEntry(w http.ResponseWriter, r *http.Request) {
	entryId, err := entryId(r)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	submitted, err := h.service.SubmitEntry(r.Context(), entryId)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTO(submitted))
}

func entryId(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["entryId"])
	if err != nil {
		return 0, apperror.Validation("invalid entryId")
	}
	return id, nil
}

func toDTO(entry Entry) EntryDTO {
	return EntryDTO{
		ID:              entry.ID,
		BudgetID:        entry.BudgetID,
		EntryDate:       utils.FormatDate(entry.EntryDate),
		Hours:           float64(entry.HoursHundredths) / 100,
		ProjectName:     entry.ProjectName,
		TaskDescription: entry.TaskDescription,
		HourlyRate:      float64(entry.HourlyRateCents) / 100,
		TotalCost:       float64(entry.TotalCostCents()) / 100,
		Status:          string(entry.Status),
		CreatedAt:       entry.CreatedAt,
	}
}

func fromDTO(dto EntryDTO) (Entry, error) {
	entryDate, err := utils.ParseDate(dto.EntryDate)
	if err != nil {
		return Entry{}, apperror.Validation("invalid entry date: %q", dto.EntryDate)
	}
	return Entry{
		ID:              dto.ID,
		BudgetID:        dto.BudgetID,
		EntryDate:       entryDate,
		HoursHundredths: int64(math.Round(dto.Hours * 100)),
		ProjectName:     dto.ProjectName,
		TaskDescription: dto.TaskDescription,
		HourlyRateCents: int64(math.Round(dto.HourlyRate * 100)),
	}, nil
}
