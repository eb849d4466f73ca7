package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agendakit/crm-backend/internal/core/domain"
	"github.com/agendakit/crm-backend/internal/core/ports"
)

type stubAppointmentService struct {
	createIn ports.CreateAppointmentInput
	statusID string
	status   domain.AppointmentStatus
	appt     *domain.Appointment
	list     []*domain.Appointment
	err      error
}

func (s *stubAppointmentService) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	return s.appt, s.err
}

func (s *stubAppointmentService) List(ctx context.Context) ([]*domain.Appointment, error) {
	return s.list, s.err
}

func (s *stubAppointmentService) ListForToday(ctx context.Context) ([]*domain.Appointment, error) {
	return s.list, s.err
}

func (s *stubAppointmentService) ListByClient(ctx context.Context, clientID string) ([]*domain.Appointment, error) {
	return s.list, s.err
}

func (s *stubAppointmentService) Create(ctx context.Context, input ports.CreateAppointmentInput) (*domain.Appointment, error) {
	s.createIn = input
	return s.appt, s.err
}

func (s *stubAppointmentService) Update(ctx context.Context, id string, fields ports.UpdateAppointmentFields) (*domain.Appointment, error) {
	return s.appt, s.err
}

func (s *stubAppointmentService) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	s.statusID, s.status = id, status
	return s.appt, s.err
}

func (s *stubAppointmentService) Delete(ctx context.Context, id string) error {
	return s.err
}

func TestAppointmentHandler_Create(t *testing.T) {
	svc := &stubAppointmentService{appt: &domain.Appointment{ID: "a1", Service: "haircut"}}
	h := NewAppointmentHandler(svc)

	body := `{"client":"c1","service":"haircut","date":"2026-09-01T00:00:00Z","startTime":"10:00","endTime":"10:30"}`
	c, rec := postJSON(t, "/api/appointments", body)
	c.Set("user", &domain.User{ID: "u1", Role: domain.RoleEmployee})

	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if svc.createIn.ClientID != "c1" || svc.createIn.CreatedBy != "u1" {
		t.Fatalf("input = %+v", svc.createIn)
	}
	if svc.createIn.StartTime != "10:00" || svc.createIn.EndTime != "10:30" {
		t.Fatalf("time window not forwarded: %+v", svc.createIn)
	}
}

func TestAppointmentHandler_CreateValidation(t *testing.T) {
	svc := &stubAppointmentService{}
	h := NewAppointmentHandler(svc)

	c, _ := postJSON(t, "/api/appointments", `{"service":"haircut"}`)
	c.Set("user", &domain.User{ID: "u1"})

	err := h.Create(c)
	var invalid *domain.ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if svc.createIn.Service != "" {
		t.Fatalf("service called despite invalid payload")
	}
}

func TestAppointmentHandler_UpdateStatus(t *testing.T) {
	svc := &stubAppointmentService{appt: &domain.Appointment{ID: "a1", Status: domain.StatusCompleted}}
	h := NewAppointmentHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"completed"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("a1")

	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if svc.statusID != "a1" || svc.status != domain.StatusCompleted {
		t.Fatalf("forwarded %q %q", svc.statusID, svc.status)
	}
}

func TestAppointmentHandler_List(t *testing.T) {
	svc := &stubAppointmentService{list: []*domain.Appointment{
		{ID: "a1", Service: "haircut", Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "a2", Service: "consult"},
	}}
	h := NewAppointmentHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/appointments", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}

	var env struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Success || env.Count != 2 {
		t.Fatalf("envelope = %+v", env)
	}
}
