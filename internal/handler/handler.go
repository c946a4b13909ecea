package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Rakesh4440/fixify-plus/internal/domain"
	"github.com/Rakesh4440/fixify-plus/internal/middleware"
	"github.com/Rakesh4440/fixify-plus/internal/platform/logger"
	"github.com/Rakesh4440/fixify-plus/internal/platform/metrics"
	"go.uber.org/zap"
)

// maxUploadBytes bounds multipart photo uploads.
const maxUploadBytes = 10 << 20

type messageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondError maps domain errors onto HTTP statuses and records the error
// metric. Internal failures are not leaked to the client.
func respondError(w http.ResponseWriter, log *logger.Logger, m *metrics.Manager, route string, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"
	errorType := "internal"

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, message, errorType = http.StatusBadRequest, err.Error(), "validation"
	case errors.Is(err, domain.ErrUnauthorized):
		status, message, errorType = http.StatusUnauthorized, err.Error(), "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		status, message, errorType = http.StatusForbidden, "Not allowed", "forbidden"
	case errors.Is(err, domain.ErrListingNotFound):
		status, message, errorType = http.StatusNotFound, "Listing not found", "not_found"
	case errors.Is(err, domain.ErrUserNotFound):
		status, message, errorType = http.StatusNotFound, "User not found", "not_found"
	case errors.Is(err, domain.ErrEmailTaken):
		status, message, errorType = http.StatusConflict, "Email already registered", "conflict"
	default:
		log.Error("Request failed", zap.String("route", route), zap.Error(err))
	}

	if m != nil {
		m.APIErrorsTotal.WithLabelValues(route, errorType).Inc()
	}
	respondJSON(w, status, messageResponse{Message: message})
}

// actorFromRequest rebuilds the verified {userId, role} pair stored in the
// request context by the auth middleware. Nil means unauthenticated.
func actorFromRequest(r *http.Request) *domain.Actor {
	id, _ := r.Context().Value(middleware.UserIDCtxKey).(string)
	if id == "" {
		return nil
	}
	role, _ := r.Context().Value(middleware.UserRoleCtxKey).(string)
	return &domain.Actor{ID: id, Role: domain.Role(role)}
}

func decodeStrict(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}
