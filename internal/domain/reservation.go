package domain

import (
	"strconv"
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusDenied    Status = "Denied"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusDenied:
		return Status(s), true
	default:
		return "", false
	}
}

type Reservation struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Phone               string    `json:"phone"`
	Email               string    `json:"email"`
	Date                string    `json:"date"`
	Time                string    `json:"time"`
	Guests              int       `json:"guests"`
	Status              Status    `json:"status"`
	DietaryRestrictions string    `json:"dietary_restrictions"`
	SpecialRequest      string    `json:"special_request"`
	CreatedAt           time.Time `json:"created_at"`
}

// HasEmail reports whether the record carries a usable recipient address.
func (r *Reservation) HasEmail() bool {
	return strings.TrimSpace(r.Email) != ""
}

// SubmitFields carries the raw customer form input before validation.
type SubmitFields struct {
	Name           string   `json:"name"`
	Phone          string   `json:"phone"`
	Email          string   `json:"email"`
	Date           string   `json:"date"`
	Time           string   `json:"time"`
	Guests         string   `json:"guests"`
	Diet           []string `json:"diet"`
	SpecialRequest string   `json:"special_request"`
}

// NewReservation is a validated submission ready to be persisted.
type NewReservation struct {
	Name                string
	Phone               string
	Email               string
	Date                string
	Time                string
	Guests              int
	DietaryRestrictions string
	SpecialRequest      string
}

func (f *SubmitFields) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Date = strings.TrimSpace(f.Date)
	f.Time = strings.TrimSpace(f.Time)
	f.Guests = strings.TrimSpace(f.Guests)
	f.SpecialRequest = strings.TrimSpace(f.SpecialRequest)
}

// Parse validates the submission and produces a record ready for the
// store. All failures come back as *ValidationError.
func (f *SubmitFields) Parse() (*NewReservation, error) {
	f.Normalize()

	switch {
	case f.Name == "":
		return nil, &ValidationError{Reason: "name is required"}
	case f.Phone == "":
		return nil, &ValidationError{Reason: "phone is required"}
	case f.Email == "":
		return nil, &ValidationError{Reason: "email is required"}
	case f.Date == "":
		return nil, &ValidationError{Reason: "date is required"}
	case f.Time == "":
		return nil, &ValidationError{Reason: "time is required"}
	}

	guests, err := strconv.Atoi(f.Guests)
	if err != nil {
		return nil, &ValidationError{Reason: "guests must be a number"}
	}
	if guests < 1 {
		return nil, &ValidationError{Reason: "guests must be at least 1"}
	}

	return &NewReservation{
		Name:                f.Name,
		Phone:               f.Phone,
		Email:               f.Email,
		Date:                f.Date,
		Time:                f.Time,
		Guests:              guests,
		DietaryRestrictions: strings.Join(f.Diet, ", "),
		SpecialRequest:      f.SpecialRequest,
	}, nil
}
