package auth

import (
	"encoding/json"
	"net/http"

	"github.com/budgetflow/budgetflow/internal/rest"
	"github.com/budgetflow/budgetflow/pkg/user"
	log "github.com/sirupsen/logrus"
)

type RegisterDTO struct {
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Department string  `json:"department"`
	Position   string  `json:"position"`
	HourlyRate float64 `json:"hourlyRate"`
}

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponseDTO struct {
	Token string       `json:"token"`
	User  user.UserDTO `json:"user"`
}

type Handler struct {
	authService Service
}

func NewHandler(authService Service) *Handler {
	return &Handler{authService: authService}
}

// Register godoc
// @Summary Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param registration body RegisterDTO true "Registration"
// @Success 201 {object} user.UserDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid registration"
// @Router /api/auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Invalid request body format"})
		return
	}

	created, err := h.authService.Register(r.Context(), Registration{
		Email:           dto.Email,
		Password:        dto.Password,
		FirstName:       dto.FirstName,
		LastName:        dto.LastName,
		Department:      dto.Department,
		Position:        dto.Position,
		HourlyRateCents: int64(dto.HourlyRate * 100),
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, user.ToDTO(created))
}

// Login godoc
// @Summary Exchange credentials for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginDTO true "Credentials"
// @Success 200 {object} LoginResponseDTO
// @Failure 401 {object} rest.ErrorResponse "Invalid email or password"
// @Router /api/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Invalid request body format"})
		return
	}

	token, u, err := h.authService.Login(r.Context(), dto.Email, dto.Password)
	if err != nil {
		log.Debugf("login failed for %s", dto.Email)
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, LoginResponseDTO{Token: token, User: user.ToDTO(u)})
}
