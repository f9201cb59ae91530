package audit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/budgetflow/budgetflow/internal/rest"
)

type EntryDTO struct {
	Id         int             `json:"id"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityId   int             `json:"entityId"`
	OldValues  json.RawMessage `json:"oldValues,omitempty"`
	NewValues  json.RawMessage `json:"newValues,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

type Handler struct {
	auditService Service
}

func NewHandler(auditService Service) *Handler {
	return &Handler{auditService: auditService}
}

func (h *Handler) ListOwn(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.auditService.ListOwn(r.Context(), limit)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	dtos := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, EntryDTO{
			Id:         entry.Id,
			Action:     string(entry.Action),
			EntityType: entry.EntityType,
			EntityId:   entry.EntityId,
			OldValues:  json.RawMessage(entry.OldValues),
			NewValues:  json.RawMessage(entry.NewValues),
			Timestamp:  entry.Timestamp,
		})
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}
