package ports

import (
	"context"
	"time"

	"github.com/agendakit/crm-backend/internal/core/domain"
)

// UpdateAppointmentFields carries the mutable appointment fields; nil means
// unchanged. Status changes go through UpdateStatus so the enum check has a
// single choke point.
type UpdateAppointmentFields struct {
	ClientID  *string
	Service   *string
	Date      *time.Time
	StartTime *string
	EndTime   *string
	Notes     *string
}

// AppointmentRepository defines persistence operations for appointments.
// Read paths populate the embedded Client snapshot when the referenced
// client still exists.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	FindByID(ctx context.Context, id string) (*domain.Appointment, error)
	FindAll(ctx context.Context) ([]*domain.Appointment, error)
	FindByClient(ctx context.Context, clientID string) ([]*domain.Appointment, error)
	// FindByDateRange returns appointments with from <= date <= to.
	FindByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error)
	Update(ctx context.Context, id string, fields UpdateAppointmentFields) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error)
	Delete(ctx context.Context, id string) error
}
