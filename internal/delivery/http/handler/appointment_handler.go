package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"doctor-connect/internal/delivery/dto"
	"doctor-connect/internal/delivery/http/middleware"
	"doctor-connect/internal/usecase"
	"doctor-connect/pkg/response"

	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
	}
}

func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	var doctorID *int
	if raw := r.URL.Query().Get("doctorId"); raw != "" {
		id, ok := parseID(raw)
		if !ok {
			response.BadRequest(w, "Invalid doctor ID")
			return
		}
		doctorID = &id
	}

	appointments, err := h.appointmentUsecase.ListAppointments(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "Failed to fetch appointments")
		return
	}

	response.JSON(w, http.StatusOK, appointments)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		default:
			response.InternalServerError(w, "Failed to fetch appointment")
		}
		return
	}

	response.JSON(w, http.StatusOK, appointment)
}

// CheckAvailability passes date and time through unvalidated; a malformed
// value simply matches no appointment.
func (h *AppointmentHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rawDoctorID, date, clock := q.Get("doctorId"), q.Get("date"), q.Get("time")
	if rawDoctorID == "" || date == "" || clock == "" {
		response.BadRequest(w, "Missing required parameters: doctorId, date, time")
		return
	}

	doctorID, ok := parseID(rawDoctorID)
	if !ok {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	available, err := h.appointmentUsecase.IsAvailable(r.Context(), doctorID, date, clock)
	if err != nil {
		response.InternalServerError(w, "Failed to check availability")
		return
	}

	response.JSON(w, http.StatusOK, dto.AvailabilityResponse{Available: available})
}

func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid appointment data")
		return
	}

	// A signed-in caller books for themselves unless the body names a user
	if req.UserID == nil {
		if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
			req.UserID = &userID
		}
	}

	appointment, err := h.appointmentUsecase.Book(r.Context(), &req)
	if err != nil {
		if writeValidationError(w, "Invalid appointment data", err) {
			return
		}
		switch {
		case errors.Is(err, usecase.ErrSlotUnavailable):
			response.Conflict(w, "This time slot is no longer available")
		case errors.Is(err, usecase.ErrDoctorNotFound):
			response.NotFound(w, "Doctor not found")
		default:
			response.InternalServerError(w, "Failed to create appointment")
		}
		return
	}

	response.JSON(w, http.StatusCreated, appointment)
}
