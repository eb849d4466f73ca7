package ports

import (
	"context"
	"time"

	"github.com/agendakit/crm-backend/internal/core/domain"
)

// CreateAppointmentInput carries the fields for a new appointment. CreatedBy
// is the id of the authenticated user creating it.
type CreateAppointmentInput struct {
	ClientID  string
	Service   string
	Date      time.Time
	StartTime string
	EndTime   string
	Notes     string
	CreatedBy string
}

// AppointmentService manages appointment scheduling.
type AppointmentService interface {
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	List(ctx context.Context) ([]*domain.Appointment, error)
	// ListForToday returns appointments falling inside the current UTC day.
	ListForToday(ctx context.Context) ([]*domain.Appointment, error)
	ListByClient(ctx context.Context, clientID string) ([]*domain.Appointment, error)
	Create(ctx context.Context, input CreateAppointmentInput) (*domain.Appointment, error)
	Update(ctx context.Context, id string, fields UpdateAppointmentFields) (*domain.Appointment, error)
	// UpdateStatus validates status against the closed enum before writing.
	UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error)
	Delete(ctx context.Context, id string) error
}
