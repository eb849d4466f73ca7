package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agendakit/crm-backend/internal/api/middleware"
	"github.com/agendakit/crm-backend/internal/core/domain"
	"github.com/agendakit/crm-backend/internal/core/ports"
)

// AppointmentHandler handles HTTP requests for appointments.
type AppointmentHandler struct {
	appointmentService ports.AppointmentService
}

func NewAppointmentHandler(appointmentService ports.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

type createAppointmentRequest struct {
	ClientID  string    `json:"client"    validate:"required"`
	Service   string    `json:"service"   validate:"required"`
	Date      time.Time `json:"date"      validate:"required"`
	StartTime string    `json:"startTime" validate:"required"`
	EndTime   string    `json:"endTime"   validate:"required"`
	Notes     string    `json:"notes"`
}

type updateAppointmentRequest struct {
	ClientID  *string    `json:"client,omitempty"`
	Service   *string    `json:"service,omitempty"`
	Date      *time.Time `json:"date,omitempty"`
	StartTime *string    `json:"startTime,omitempty"`
	EndTime   *string    `json:"endTime,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// List returns all appointments.
//
// @Summary      List appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listEnvelope
// @Router       /api/appointments [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	appts, err := h.appointmentService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listEnvelope{Success: true, Count: len(appts), Data: appts})
}

// ListToday returns appointments falling inside the current UTC day.
//
// @Summary      List today's appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listEnvelope
// @Router       /api/appointments/today [get]
func (h *AppointmentHandler) ListToday(c echo.Context) error {
	appts, err := h.appointmentService.ListForToday(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listEnvelope{Success: true, Count: len(appts), Data: appts})
}

// ListByClient returns all appointments for one client.
//
// @Summary      List appointments for a client
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        clientId  path      string  true  "Client id"
// @Success      200       {object}  listEnvelope
// @Failure      400       {object}  map[string]any
// @Router       /api/appointments/client/{clientId} [get]
func (h *AppointmentHandler) ListByClient(c echo.Context) error {
	appts, err := h.appointmentService.ListByClient(c.Request().Context(), c.Param("clientId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listEnvelope{Success: true, Count: len(appts), Data: appts})
}

// Get returns one appointment by id.
//
// @Summary      Get an appointment by id
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment id"
// @Success      200  {object}  dataEnvelope
// @Failure      404  {object}  map[string]any
// @Router       /api/appointments/{id} [get]
func (h *AppointmentHandler) Get(c echo.Context) error {
	appt, err := h.appointmentService.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataEnvelope{Success: true, Data: appt})
}

// Create schedules a new appointment for a client, recording the caller as
// its creator.
//
// @Summary      Create an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAppointmentRequest  true  "New appointment"
// @Success      201   {object}  dataEnvelope
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/appointments [post]
func (h *AppointmentHandler) Create(c echo.Context) error {
	var req createAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	appt, err := h.appointmentService.Create(c.Request().Context(), ports.CreateAppointmentInput{
		ClientID:  req.ClientID,
		Service:   req.Service,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
		CreatedBy: user.ID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dataEnvelope{Success: true, Data: appt})
}

// Update modifies an appointment.
//
// @Summary      Update an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Appointment id"
// @Param        body  body      updateAppointmentRequest  true  "Fields to update"
// @Success      200   {object}  dataEnvelope
// @Failure      404   {object}  map[string]any
// @Router       /api/appointments/{id} [put]
func (h *AppointmentHandler) Update(c echo.Context) error {
	var req updateAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	appt, err := h.appointmentService.Update(c.Request().Context(), c.Param("id"), ports.UpdateAppointmentFields{
		ClientID:  req.ClientID,
		Service:   req.Service,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dataEnvelope{Success: true, Data: appt})
}

// UpdateStatus changes only the status field.
//
// @Summary      Update an appointment's status
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Appointment id"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  dataEnvelope
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/appointments/{id}/status [patch]
func (h *AppointmentHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	appt, err := h.appointmentService.UpdateStatus(c.Request().Context(), c.Param("id"), domain.AppointmentStatus(req.Status))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dataEnvelope{Success: true, Data: appt})
}

// Delete removes an appointment. Admin only.
//
// @Summary      Delete an appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment id"
// @Success      200  {object}  dataEnvelope
// @Failure      404  {object}  map[string]any
// @Router       /api/appointments/{id} [delete]
func (h *AppointmentHandler) Delete(c echo.Context) error {
	if err := h.appointmentService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataEnvelope{Success: true, Data: map[string]any{}})
}
