package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/materes/reservations/internal/domain"
	"github.com/materes/reservations/internal/http/response"
)

// SubmitReservation accepts a customer booking request. The form is
// the primary surface; JSON bodies are accepted for API clients.
func (h *Handlers) SubmitReservation(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeSubmitFields(r)
	if err != nil {
		response.BadRequest(w, "Could not read the submitted form")
		return
	}

	res, err := h.reservations.Submit(r.Context(), fields)
	if err != nil {
		response.FromDomain(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":     res.ID,
		"status": res.Status,
		"message": fmt.Sprintf(
			"Booking successful! Booking ID: #%d. Please check your email for confirmation later.", res.ID),
		"category": "success",
	})
}

func decodeSubmitFields(r *http.Request) (domain.SubmitFields, error) {
	var fields domain.SubmitFields

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		err := json.NewDecoder(r.Body).Decode(&fields)
		return fields, err
	}

	if err := r.ParseForm(); err != nil {
		return fields, err
	}

	fields = domain.SubmitFields{
		Name:           r.PostForm.Get("name"),
		Phone:          r.PostForm.Get("phone"),
		Email:          r.PostForm.Get("email"),
		Date:           r.PostForm.Get("date"),
		Time:           r.PostForm.Get("time"),
		Guests:         r.PostForm.Get("guests"),
		Diet:           r.PostForm["diet"],
		SpecialRequest: r.PostForm.Get("special_request"),
	}
	return fields, nil
}
