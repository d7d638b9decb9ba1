package handler

import (
	"errors"
	"net/http"

	"doctor-connect/internal/delivery/dto"
	"doctor-connect/internal/delivery/http/middleware"
	"doctor-connect/internal/usecase"
	"doctor-connect/pkg/response"

	"github.com/gorilla/mux"
)

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase: doctorUsecase,
	}
}

func (h *DoctorHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	filter := &dto.DoctorFilterRequest{
		MinRating: r.URL.Query().Get("minRating"),
	}

	doctors, err := h.doctorUsecase.ListDoctors(r.Context(), filter)
	if err != nil {
		if writeValidationError(w, "Invalid minRating", err) {
			return
		}
		response.InternalServerError(w, "Failed to fetch doctors")
		return
	}

	response.JSON(w, http.StatusOK, doctors)
}

func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	doctor, err := h.doctorUsecase.GetDoctor(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorNotFound):
			response.NotFound(w, "Doctor not found")
		default:
			response.InternalServerError(w, "Failed to fetch doctor")
		}
		return
	}

	response.JSON(w, http.StatusOK, doctor)
}

func (h *DoctorHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.BadRequest(w, "Missing required parameter: date")
		return
	}

	slots, err := h.doctorUsecase.GetSlots(r.Context(), id, date)
	if err != nil {
		if writeValidationError(w, "Invalid date", err) {
			return
		}
		switch {
		case errors.Is(err, usecase.ErrDoctorNotFound):
			response.NotFound(w, "Doctor not found")
		default:
			response.InternalServerError(w, "Failed to fetch slots")
		}
		return
	}

	response.JSON(w, http.StatusOK, slots)
}

func (h *DoctorHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}
	h.writeDashboard(w, r, id)
}

// GetMyDashboard serves the dashboard of the doctor linked to the caller's account
func (h *DoctorHandler) GetMyDashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetDoctorIDFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "Account is not linked to a doctor")
		return
	}
	h.writeDashboard(w, r, id)
}

func (h *DoctorHandler) writeDashboard(w http.ResponseWriter, r *http.Request, id int) {
	dashboard, err := h.doctorUsecase.GetDashboard(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorNotFound):
			response.NotFound(w, "Doctor not found")
		default:
			response.InternalServerError(w, "Failed to fetch dashboard")
		}
		return
	}

	response.JSON(w, http.StatusOK, dashboard)
}
