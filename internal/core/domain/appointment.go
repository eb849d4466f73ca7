package domain

import "time"

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCanceled  AppointmentStatus = "canceled"
	StatusNoShow    AppointmentStatus = "no-show"
)

// ValidStatus reports whether s belongs to the closed status set.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCanceled, StatusNoShow:
		return true
	}
	return false
}

// Appointment is a scheduled service slot for a client. ClientID and
// CreatedBy are weak references: ids only, no cascading behavior.
type Appointment struct {
	ID        string            `json:"id"`
	ClientID  string            `json:"client_id"`
	Service   string            `json:"service"`
	Date      time.Time         `json:"date"`
	StartTime string            `json:"start_time"`
	EndTime   string            `json:"end_time"`
	Status    AppointmentStatus `json:"status"`
	Notes     string            `json:"notes,omitempty"`
	CreatedBy string            `json:"created_by,omitempty"`
	CreatedAt time.Time         `json:"created_at"`

	// Client is populated on read paths so list views can show the
	// client's contact details without a second request.
	Client *Client `json:"client,omitempty"`
}
