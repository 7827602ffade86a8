package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/materes/reservations/internal/http/response"
	"github.com/materes/reservations/internal/service"
	"github.com/materes/reservations/pkg/auth"
	"github.com/materes/reservations/pkg/config"
	"github.com/materes/reservations/pkg/logger"
)

type Handlers struct {
	reservations service.ReservationService
	config       *config.Config
}

func New(reservations service.ReservationService, cfg *config.Config) *Handlers {
	return &Handlers{
		reservations: reservations,
		config:       cfg,
	}
}

// RequireStaff guards the admin routes with a staff JWT.
func (h *Handlers) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Unauthorized(w, "Missing or invalid authorization header")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.Parse(token, h.config.Auth.JWTSecret)
		if err != nil {
			response.Unauthorized(w, "Invalid token")
			return
		}

		if claims.Role != "staff" {
			response.Forbidden(w, "Staff access required")
			return
		}

		ctx := context.WithValue(r.Context(), logger.StaffKey, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// MessageResponse is the outcome envelope for moderation actions.
type MessageResponse struct {
	Message  string `json:"message"`
	Category string `json:"category"`
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, MessageResponse{Message: message, Category: "success"})
}
