package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/go-chi/chi/v5"

	"github.com/materes/reservations/internal/domain"
	"github.com/materes/reservations/internal/http/handlers"
	"github.com/materes/reservations/internal/notifier"
	"github.com/materes/reservations/internal/service"
	"github.com/materes/reservations/pkg/config"
	"github.com/materes/reservations/pkg/events"
)

// ---------- Mocks ----------

type mockRepo struct {
	nextID  int64
	records map[int64]*domain.Reservation
}

func newMockRepo() *mockRepo {
	return &mockRepo{nextID: 1, records: make(map[int64]*domain.Reservation)}
}

func (m *mockRepo) Create(_ context.Context, in *domain.NewReservation) (*domain.Reservation, error) {
	id := m.nextID
	m.nextID++

	res := &domain.Reservation{
		ID:                  id,
		Name:                in.Name,
		Phone:               in.Phone,
		Email:               in.Email,
		Date:                in.Date,
		Time:                in.Time,
		Guests:              in.Guests,
		Status:              domain.StatusPending,
		DietaryRestrictions: in.DietaryRestrictions,
		SpecialRequest:      in.SpecialRequest,
		CreatedAt:           time.Now().UTC(),
	}
	m.records[id] = res

	copied := *res
	return &copied, nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	res, exists := m.records[id]
	if !exists {
		return nil, nil
	}
	copied := *res
	return &copied, nil
}

func (m *mockRepo) ListAll(_ context.Context) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, res := range m.records {
		out = append(out, *res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id int64, status domain.Status) (*domain.Reservation, error) {
	res, exists := m.records[id]
	if !exists {
		return nil, nil
	}
	res.Status = status
	copied := *res
	return &copied, nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, exists := m.records[id]; !exists {
		return false, nil
	}
	delete(m.records, id)
	return true, nil
}

type mockNotifier struct {
	kinds []notifier.EventKind
}

func (m *mockNotifier) Notify(_ context.Context, kind notifier.EventKind, _ *domain.Reservation) bool {
	m.kinds = append(m.kinds, kind)
	return true
}

// ---------- Test server ----------

const staffPassword = "midnight-kitchen"

func newTestServer(t *testing.T) (*chi.Mux, *mockRepo) {
	t.Helper()

	hash, err := argon2id.CreateHash(staffPassword, argon2id.DefaultParams)
	if err != nil {
		t.Fatalf("failed to hash staff password: %v", err)
	}

	cfg := config.Load()
	cfg.Auth.StaffEmail = "staff@materes.com"
	cfg.Auth.StaffPassHash = hash

	repo := newMockRepo()
	svc := service.NewReservationService(repo, &mockNotifier{}, events.NoopPublisher{}, cfg)
	h := handlers.New(svc, cfg)

	r := chi.NewRouter()
	r.Post("/reservations", h.SubmitReservation)
	r.Post("/admin/login", h.StaffLogin)
	r.Route("/admin/reservations", func(r chi.Router) {
		r.Use(h.RequireStaff)
		r.Get("/", h.ListReservations)
		r.Post("/{id}/confirm", h.ConfirmReservation)
		r.Post("/{id}/deny", h.DenyReservation)
		r.Delete("/{id}", h.DeleteReservation)
	})

	return r, repo
}

func staffToken(t *testing.T, r *chi.Mux) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"email":    "staff@materes.com",
		"password": staffPassword,
	})
	req := httptest.NewRequest("POST", "/admin/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	return resp.AccessToken
}

func submitForm(t *testing.T, r *chi.Mux, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("POST", "/reservations", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func validForm() url.Values {
	return url.Values{
		"name":   {"Ann"},
		"phone":  {"555"},
		"email":  {"a@x.com"},
		"date":   {"2024-05-01"},
		"time":   {"19:00"},
		"guests": {"2"},
		"diet":   {"vegan"},
	}
}

func adminAction(t *testing.T, r *chi.Mux, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// ---------- Submission ----------

func TestSubmitFormEncoded(t *testing.T) {
	r, repo := newTestServer(t)

	form := validForm()
	form["diet"] = []string{"vegan", "gluten-free"}
	rec := submitForm(t, r, form)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID       int64  `json:"id"`
		Status   string `json:"status"`
		Category string `json:"category"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != 1 || resp.Status != "Pending" || resp.Category != "success" {
		t.Errorf("response = %+v, want id=1 status=Pending category=success", resp)
	}

	if repo.records[1].DietaryRestrictions != "vegan, gluten-free" {
		t.Errorf("stored dietary = %q, want %q", repo.records[1].DietaryRestrictions, "vegan, gluten-free")
	}
}

func TestSubmitJSON(t *testing.T) {
	r, _ := newTestServer(t)

	body, _ := json.Marshal(domain.SubmitFields{
		Name: "Ann", Phone: "555", Email: "a@x.com",
		Date: "2024-05-01", Time: "19:00", Guests: "2",
	})
	req := httptest.NewRequest("POST", "/reservations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestSubmitValidationError(t *testing.T) {
	r, repo := newTestServer(t)

	form := validForm()
	form.Set("email", "")
	rec := submitForm(t, r, form)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body: %s)", rec.Code, rec.Body.String())
	}
	if len(repo.records) != 0 {
		t.Errorf("store has %d records, want 0", len(repo.records))
	}

	var resp struct {
		Code     string `json:"code"`
		Category string `json:"category"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Code != "INVALID_INPUT" || resp.Category != "error" {
		t.Errorf("response = %+v, want INVALID_INPUT/error", resp)
	}
}

func TestSubmitGuestsBelowOne(t *testing.T) {
	r, repo := newTestServer(t)

	form := validForm()
	form.Set("guests", "0")
	rec := submitForm(t, r, form)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(repo.records) != 0 {
		t.Errorf("store has %d records, want 0", len(repo.records))
	}
}

// ---------- Staff auth ----------

func TestAdminRequiresToken(t *testing.T) {
	r, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/admin/reservations", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestStaffLoginRejectsBadPassword(t *testing.T) {
	r, _ := newTestServer(t)

	body, _ := json.Marshal(map[string]string{
		"email":    "staff@materes.com",
		"password": "wrong",
	})
	req := httptest.NewRequest("POST", "/admin/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

// ---------- Moderation ----------

func TestListReservationsNewestFirst(t *testing.T) {
	r, _ := newTestServer(t)
	token := staffToken(t, r)

	submitForm(t, r, validForm())
	second := validForm()
	second.Set("name", "Bob")
	submitForm(t, r, second)

	rec := adminAction(t, r, "GET", "/admin/reservations", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Reservations []domain.Reservation `json:"reservations"`
		Count        int                  `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("count = %d, want 2", resp.Count)
	}
	if resp.Reservations[0].Name != "Bob" {
		t.Errorf("first listed = %q, want the most recent submission", resp.Reservations[0].Name)
	}
}

func TestConfirmThenConfirmAgain(t *testing.T) {
	r, repo := newTestServer(t)
	token := staffToken(t, r)

	submitForm(t, r, validForm())

	rec := adminAction(t, r, "POST", "/admin/reservations/1/confirm", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("first confirm status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if repo.records[1].Status != domain.StatusConfirmed {
		t.Errorf("status = %q, want Confirmed", repo.records[1].Status)
	}

	rec = adminAction(t, r, "POST", "/admin/reservations/1/confirm", token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second confirm status = %d, want 409 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Code     string `json:"code"`
		Category string `json:"category"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Code != "ALREADY_CONFIRMED" || resp.Category != "warning" {
		t.Errorf("response = %+v, want ALREADY_CONFIRMED/warning", resp)
	}
}

func TestDenyAfterConfirmRejected(t *testing.T) {
	r, repo := newTestServer(t)
	token := staffToken(t, r)

	submitForm(t, r, validForm())
	adminAction(t, r, "POST", "/admin/reservations/1/confirm", token)

	rec := adminAction(t, r, "POST", "/admin/reservations/1/deny", token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("deny status = %d, want 409 (body: %s)", rec.Code, rec.Body.String())
	}
	if repo.records[1].Status != domain.StatusConfirmed {
		t.Errorf("status = %q, want unchanged Confirmed", repo.records[1].Status)
	}

	var resp struct {
		Code     string `json:"code"`
		Category string `json:"category"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Code != "INVALID_TRANSITION" || resp.Category != "warning" {
		t.Errorf("response = %+v, want INVALID_TRANSITION/warning", resp)
	}
}

func TestConfirmUnknownReservation(t *testing.T) {
	r, _ := newTestServer(t)
	token := staffToken(t, r)

	rec := adminAction(t, r, "POST", "/admin/reservations/42/confirm", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestDeleteReservation(t *testing.T) {
	r, repo := newTestServer(t)
	token := staffToken(t, r)

	submitForm(t, r, validForm())
	adminAction(t, r, "POST", "/admin/reservations/1/confirm", token)

	rec := adminAction(t, r, "DELETE", "/admin/reservations/1", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if len(repo.records) != 0 {
		t.Errorf("store has %d records, want 0", len(repo.records))
	}

	rec = adminAction(t, r, "POST", "/admin/reservations/1/confirm", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("confirm after delete status = %d, want 404", rec.Code)
	}
}

func TestInvalidReservationID(t *testing.T) {
	r, _ := newTestServer(t)
	token := staffToken(t, r)

	rec := adminAction(t, r, "POST", "/admin/reservations/abc/confirm", token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
