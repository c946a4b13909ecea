package handler

import (
	"net/http"

	"github.com/Rakesh4440/fixify-plus/internal/domain"
	"github.com/Rakesh4440/fixify-plus/internal/platform/logger"
	"github.com/Rakesh4440/fixify-plus/internal/platform/metrics"
	"github.com/Rakesh4440/fixify-plus/internal/usecase"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	users   *usecase.UserUsecase
	metrics *metrics.Manager
	logger  *logger.Logger
}

func NewAuthHandler(users *usecase.UserUsecase, m *metrics.Manager, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		users:   users,
		metrics: m,
		logger:  log.Named("AuthHandler"),
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeStrict(r, &req); err != nil {
		respondError(w, h.logger, h.metrics, "auth.register", err)
		return
	}

	user, err := h.users.Register(r.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		respondError(w, h.logger, h.metrics, "auth.register", err)
		return
	}
	respondJSON(w, http.StatusCreated, toUserResponse(user))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeStrict(r, &req); err != nil {
		respondError(w, h.logger, h.metrics, "auth.login", err)
		return
	}

	token, user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, h.logger, h.metrics, "auth.login", err)
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{Token: token, User: toUserResponse(user)})
}
