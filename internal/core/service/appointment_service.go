package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agendakit/crm-backend/internal/api/metrics"
	"github.com/agendakit/crm-backend/internal/core/domain"
	"github.com/agendakit/crm-backend/internal/core/ports"
)

// AppointmentService manages scheduling. Create and Update verify that the
// referenced client exists before writing; the reference itself stays weak
// (id only, no cascade on client deletion).
type AppointmentService struct {
	appointments ports.AppointmentRepository
	clients      ports.ClientRepository
	log          zerolog.Logger
}

func NewAppointmentService(appointments ports.AppointmentRepository, clients ports.ClientRepository, log zerolog.Logger) *AppointmentService {
	return &AppointmentService{appointments: appointments, clients: clients, log: log}
}

func (s *AppointmentService) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	return s.appointments.FindByID(ctx, id)
}

func (s *AppointmentService) List(ctx context.Context) ([]*domain.Appointment, error) {
	return s.appointments.FindAll(ctx)
}

// ListForToday returns appointments inside the current UTC day window.
func (s *AppointmentService) ListForToday(ctx context.Context) ([]*domain.Appointment, error) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Millisecond)
	return s.appointments.FindByDateRange(ctx, start, end)
}

func (s *AppointmentService) ListByClient(ctx context.Context, clientID string) ([]*domain.Appointment, error) {
	return s.appointments.FindByClient(ctx, clientID)
}

func (s *AppointmentService) Create(ctx context.Context, input ports.CreateAppointmentInput) (*domain.Appointment, error) {
	var msgs []string
	if input.ClientID == "" {
		msgs = append(msgs, "please add a client")
	}
	if input.Service == "" {
		msgs = append(msgs, "please add a service")
	}
	if input.Date.IsZero() {
		msgs = append(msgs, "please add a date")
	}
	if input.StartTime == "" {
		msgs = append(msgs, "please add a start time")
	}
	if input.EndTime == "" {
		msgs = append(msgs, "please add an end time")
	}
	if len(msgs) > 0 {
		return nil, &domain.ValidationError{Messages: msgs}
	}

	if _, err := s.clients.FindByID(ctx, input.ClientID); err != nil {
		return nil, err
	}

	created, err := s.appointments.Create(ctx, &domain.Appointment{
		ClientID:  input.ClientID,
		Service:   input.Service,
		Date:      input.Date,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Status:    domain.StatusScheduled,
		Notes:     input.Notes,
		CreatedBy: input.CreatedBy,
	})
	if err != nil {
		return nil, err
	}

	metrics.AppointmentsCreatedTotal.Inc()
	s.log.Info().Str("appointment_id", created.ID).Str("client_id", created.ClientID).Msg("appointment created")
	return created, nil
}

func (s *AppointmentService) Update(ctx context.Context, id string, fields ports.UpdateAppointmentFields) (*domain.Appointment, error) {
	if fields.ClientID != nil {
		if _, err := s.clients.FindByID(ctx, *fields.ClientID); err != nil {
			return nil, err
		}
	}
	return s.appointments.Update(ctx, id, fields)
}

// UpdateStatus applies a status change after checking the closed enum.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	if !domain.ValidStatus(status) {
		return nil, &domain.ValidationError{Messages: []string{"invalid status provided"}}
	}

	updated, err := s.appointments.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	metrics.AppointmentStatusTotal.WithLabelValues(string(status)).Inc()
	s.log.Info().Str("appointment_id", id).Str("status", string(status)).Msg("appointment status updated")
	return updated, nil
}

func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	if err := s.appointments.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("appointment_id", id).Msg("appointment deleted")
	return nil
}
