package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/alexedwards/argon2id"
	"github.com/go-chi/chi/v5"

	"github.com/materes/reservations/internal/http/response"
	"github.com/materes/reservations/pkg/auth"
	"github.com/materes/reservations/pkg/logger"
)

// StaffLogin exchanges the configured staff credentials for a JWT.
func (h *Handlers) StaffLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	cfg := h.config.Auth
	if cfg.StaffPassHash == "" {
		logger.WarnContext(r.Context(), "Staff login rejected: STAFF_PASSWORD_HASH not configured")
		response.Unauthorized(w, "Invalid credentials")
		return
	}

	match, err := argon2id.ComparePasswordAndHash(req.Password, cfg.StaffPassHash)
	if err != nil || !match || req.Email != cfg.StaffEmail {
		response.Unauthorized(w, "Invalid credentials")
		return
	}

	token, err := auth.NewStaffToken(req.Email, cfg.JWTSecret, cfg.StaffTokenTTL)
	if err != nil {
		response.InternalError(w, "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"access_token": token})
}

// ListReservations returns every reservation, most recent first.
func (h *Handlers) ListReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.reservations.ListAll(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to retrieve reservations")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reservations": reservations,
		"count":        len(reservations),
	})
}

// ConfirmReservation moves a reservation to Confirmed and notifies the
// customer.
func (h *Handlers) ConfirmReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := reservationID(w, r)
	if !ok {
		return
	}

	res, err := h.reservations.Confirm(r.Context(), id)
	if err != nil {
		response.FromDomain(w, err)
		return
	}

	writeMessage(w, http.StatusOK, fmt.Sprintf(
		"Successfully CONFIRMED booking ID #%d and sent notification email to the customer.", res.ID))
}

// DenyReservation moves a pending reservation to Denied and notifies
// the customer.
func (h *Handlers) DenyReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := reservationID(w, r)
	if !ok {
		return
	}

	res, err := h.reservations.Deny(r.Context(), id)
	if err != nil {
		response.FromDomain(w, err)
		return
	}

	writeMessage(w, http.StatusOK, fmt.Sprintf(
		"Successfully DENIED booking ID #%d and sent notification email to the customer.", res.ID))
}

// DeleteReservation removes a reservation regardless of status.
func (h *Handlers) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := reservationID(w, r)
	if !ok {
		return
	}

	if err := h.reservations.Delete(r.Context(), id); err != nil {
		response.FromDomain(w, err)
		return
	}

	writeMessage(w, http.StatusOK, fmt.Sprintf("Booking ID #%d successfully deleted.", id))
}

func reservationID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid reservation ID")
		return 0, false
	}
	return id, true
}
