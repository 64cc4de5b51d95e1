package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"medicare-api/internal/auth"
	"medicare-api/internal/dates"
	"medicare-api/internal/handler"
	"medicare-api/internal/kv"
	"medicare-api/internal/middleware"
	"medicare-api/internal/model"
	"medicare-api/internal/service"
	"medicare-api/internal/store"
)

const testSecret = "test-secret"

func setup(t *testing.T) (*gin.Engine, *service.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	st := store.New(kv.NewMemory())
	if err := st.SeedDoctors(context.Background(), []model.Doctor{
		{ID: "doc-1", Name: "Dr. João Silva", Specialty: "Cardiologista"},
		{ID: "doc-2", Name: "Dra. Maria Santos", Specialty: "Dermatologista"},
	}); err != nil {
		t.Fatalf("seed doctors: %v", err)
	}

	svc := service.New(st, log)
	h := handler.New(svc, log, testSecret)
	rl := middleware.NewRateLimiter(1000, 1000)
	return handler.Router(h, testSecret, rl, []string{"*"}), svc
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func registerPatient(t *testing.T, r *gin.Engine) (token, userID string) {
	t.Helper()
	email := fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8])
	w := do(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name": "Test Patient", "email": email, "password": "testpass123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	resp := decode[struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}](t, w)
	return resp.Token, resp.User.ID
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok, err := auth.MakeToken("admin-1", model.RoleAdmin, testSecret)
	if err != nil {
		t.Fatalf("admin token: %v", err)
	}
	return tok
}

func futureDate(daysAhead int) string {
	return dates.FormatDate(time.Now().AddDate(0, 0, daysAhead))
}

func bookAppointment(t *testing.T, r *gin.Engine, token, doctorID, date, clock string) model.Appointment {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/appointments", token, gin.H{
		"doctorId": doctorID, "date": date, "time": clock, "description": "checkup",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("book: %d %s", w.Code, w.Body.String())
	}
	return decode[model.Appointment](t, w)
}

// ----- auth -----

func TestRegisterAndLogin(t *testing.T) {
	r, _ := setup(t)

	email := fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8])
	w := do(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name": "Ana Souza", "email": email, "password": "abc123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	resp := decode[struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}](t, w)
	if resp.Token == "" {
		t.Error("empty token")
	}
	if resp.User.Role != model.RolePatient {
		t.Errorf("role = %q, want patient", resp.User.Role)
	}
	if resp.User.PasswordHash != "" {
		t.Error("password hash leaked in response")
	}

	w = do(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email": email, "password": "abc123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email": email, "password": "wrongpass1",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad login: %d, want 401", w.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	r, _ := setup(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{"short name", gin.H{"name": "A", "email": "a@b.com", "password": "abc123"}},
		{"bad email", gin.H{"name": "Ana", "email": "not-an-email", "password": "abc123"}},
		{"weak password", gin.H{"name": "Ana", "email": "a@b.com", "password": "abcdef"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/auth/register", "", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("got %d, want 400", w.Code)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _ := setup(t)

	body := gin.H{"name": "Ana", "email": "dup@test.com", "password": "abc123"}
	if w := do(t, r, http.MethodPost, "/auth/register", "", body); w.Code != http.StatusCreated {
		t.Fatalf("first register: %d", w.Code)
	}
	if w := do(t, r, http.MethodPost, "/auth/register", "", body); w.Code != http.StatusConflict {
		t.Errorf("duplicate register: %d, want 409", w.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	r, _ := setup(t)

	if w := do(t, r, http.MethodGet, "/api/appointments", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: %d, want 401", w.Code)
	}
	if w := do(t, r, http.MethodGet, "/api/appointments", "garbage", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: %d, want 401", w.Code)
	}
}

// ----- appointments -----

func TestBookAppointment(t *testing.T) {
	r, _ := setup(t)
	token, userID := registerPatient(t, r)

	apt := bookAppointment(t, r, token, "doc-1", futureDate(2), "10:00")
	if apt.PatientID != userID {
		t.Errorf("patientId = %q, want %q", apt.PatientID, userID)
	}
	if apt.DoctorName != "Dr. João Silva" || apt.Specialty != "Cardiologista" {
		t.Errorf("doctor not denormalized: %+v", apt)
	}
	if apt.Status != model.StatusPending {
		t.Errorf("status = %q, want pending", apt.Status)
	}
}

func TestBookConflict(t *testing.T) {
	r, _ := setup(t)
	token, _ := registerPatient(t, r)
	date := futureDate(2)
	bookAppointment(t, r, token, "doc-1", date, "10:00")

	other, _ := registerPatient(t, r)
	w := do(t, r, http.MethodPost, "/api/appointments", other, gin.H{
		"doctorId": "doc-1", "date": date, "time": "10:00",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("got %d, want 409", w.Code)
	}
}

func TestBookValidation(t *testing.T) {
	r, _ := setup(t)
	token, _ := registerPatient(t, r)

	tests := []struct {
		name string
		body gin.H
		want int
	}{
		{"past date", gin.H{"doctorId": "doc-1", "date": "01/01/2020", "time": "10:00"}, http.StatusBadRequest},
		{"bad date", gin.H{"doctorId": "doc-1", "date": "31/04/2030", "time": "10:00"}, http.StatusBadRequest},
		{"missing doctor", gin.H{"date": futureDate(2), "time": "10:00"}, http.StatusBadRequest},
		{"unknown doctor", gin.H{"doctorId": "doc-99", "date": futureDate(2), "time": "10:00"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/api/appointments", token, tt.body)
			if w.Code != tt.want {
				t.Errorf("got %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestPatientSeesOnlyOwnAppointments(t *testing.T) {
	r, _ := setup(t)
	date := futureDate(2)

	aTok, aID := registerPatient(t, r)
	bTok, _ := registerPatient(t, r)
	mine := bookAppointment(t, r, aTok, "doc-1", date, "09:00")
	theirs := bookAppointment(t, r, bTok, "doc-1", date, "10:00")

	w := do(t, r, http.MethodGet, "/api/appointments", aTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	list := decode[[]model.Appointment](t, w)
	if len(list) != 1 || list[0].ID != mine.ID || list[0].PatientID != aID {
		t.Errorf("list = %+v, want only own appointment", list)
	}

	// direct fetch of another patient's record hides existence
	w = do(t, r, http.MethodGet, "/api/appointments/"+theirs.ID, aTok, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("foreign get: %d, want 404", w.Code)
	}

	// admins see everything
	w = do(t, r, http.MethodGet, "/api/appointments", adminToken(t), nil)
	if got := decode[[]model.Appointment](t, w); len(got) != 2 {
		t.Errorf("admin list = %d records, want 2", len(got))
	}
}

func TestUpdateStatusPermissions(t *testing.T) {
	r, _ := setup(t)
	aTok, _ := registerPatient(t, r)
	bTok, _ := registerPatient(t, r)
	apt := bookAppointment(t, r, aTok, "doc-1", futureDate(2), "09:00")

	// another patient cannot touch it
	w := do(t, r, http.MethodPatch, "/api/appointments/"+apt.ID+"/status", bTok, gin.H{"status": "cancelled"})
	if w.Code != http.StatusNotFound {
		t.Errorf("foreign update: %d, want 404", w.Code)
	}

	// the owner can
	w = do(t, r, http.MethodPatch, "/api/appointments/"+apt.ID+"/status", aTok, gin.H{"status": "cancelled"})
	if w.Code != http.StatusOK {
		t.Fatalf("owner update: %d %s", w.Code, w.Body.String())
	}

	// an admin can set any status over any other
	w = do(t, r, http.MethodPatch, "/api/appointments/"+apt.ID+"/status", adminToken(t), gin.H{"status": "confirmed"})
	if w.Code != http.StatusOK {
		t.Fatalf("admin update: %d", w.Code)
	}
	if got := decode[model.Appointment](t, w); got.Status != model.StatusConfirmed {
		t.Errorf("status = %q, want confirmed", got.Status)
	}
}

func TestDeleteAppointment(t *testing.T) {
	r, _ := setup(t)
	token, _ := registerPatient(t, r)
	apt := bookAppointment(t, r, token, "doc-1", futureDate(2), "09:00")

	if w := do(t, r, http.MethodDelete, "/api/appointments/"+apt.ID, token, nil); w.Code != http.StatusOK {
		t.Fatalf("delete: %d", w.Code)
	}
	if w := do(t, r, http.MethodDelete, "/api/appointments/"+apt.ID, token, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete: %d, want 404", w.Code)
	}
}

func TestAvailableSlots(t *testing.T) {
	r, _ := setup(t)
	token, _ := registerPatient(t, r)
	date := futureDate(2)
	bookAppointment(t, r, token, "doc-1", date, "10:00")

	w := do(t, r, http.MethodGet, "/api/doctors/doc-1/slots?date="+date, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("slots: %d %s", w.Code, w.Body.String())
	}
	resp := decode[struct {
		Slots []string `json:"slots"`
	}](t, w)
	for _, s := range resp.Slots {
		if s == "10:00" {
			t.Error("booked slot still offered")
		}
	}
	if len(resp.Slots) != 7 {
		t.Errorf("slots = %v, want 7 remaining", resp.Slots)
	}
}

func TestListDoctors(t *testing.T) {
	r, _ := setup(t)
	token, _ := registerPatient(t, r)

	w := do(t, r, http.MethodGet, "/api/doctors", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("doctors: %d", w.Code)
	}
	if got := decode[[]model.Doctor](t, w); len(got) != 2 {
		t.Errorf("doctors = %+v, want 2", got)
	}
}

// ----- admin -----

func TestAdminRoutesForbiddenForPatients(t *testing.T) {
	r, _ := setup(t)
	token, _ := registerPatient(t, r)

	if w := do(t, r, http.MethodGet, "/api/admin/stats", token, nil); w.Code != http.StatusForbidden {
		t.Errorf("stats as patient: %d, want 403", w.Code)
	}
}

func TestAdminStatsAndUsers(t *testing.T) {
	r, _ := setup(t)
	token, userID := registerPatient(t, r)
	bookAppointment(t, r, token, "doc-1", futureDate(2), "09:00")

	w := do(t, r, http.MethodGet, "/api/admin/stats", adminToken(t), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats: %d", w.Code)
	}
	st := decode[service.Stats](t, w)
	if st.TotalAppointments != 1 || st.PendingAppointments != 1 || st.TotalPatients != 1 {
		t.Errorf("stats = %+v", st)
	}

	w = do(t, r, http.MethodDelete, "/api/admin/users/"+userID, adminToken(t), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete user: %d", w.Code)
	}
	w = do(t, r, http.MethodGet, "/api/admin/users", adminToken(t), nil)
	if got := decode[[]model.User](t, w); len(got) != 0 {
		t.Errorf("users after delete = %+v", got)
	}
}
