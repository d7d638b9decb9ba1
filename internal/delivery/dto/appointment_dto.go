package dto

import "time"

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID    int    `json:"doctorId" validate:"required,min=1"`
	UserID      *int   `json:"userId" validate:"omitempty,min=1"`
	PatientName string `json:"patientName" validate:"notblank"`
	Date        string `json:"date" validate:"required,isodate"`
	Time        string `json:"time" validate:"required,clock"`
	Status      string `json:"status" validate:"omitempty,oneof=confirmed completed cancelled"`
	Type        string `json:"type" validate:"required,oneof=video in-person"`
}

// Response DTOs

type AppointmentResponse struct {
	ID          int       `json:"id"`
	DoctorID    int       `json:"doctorId"`
	UserID      *int      `json:"userId"`
	PatientName string    `json:"patientName"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Status      string    `json:"status"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}
