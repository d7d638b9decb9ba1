package converter

import (
	"doctor-connect/internal/delivery/dto"
	"doctor-connect/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:          appointment.ID,
		DoctorID:    appointment.DoctorID,
		UserID:      appointment.UserID,
		PatientName: appointment.PatientName,
		Date:        appointment.Date,
		Time:        appointment.Time,
		Status:      string(appointment.Status),
		Type:        string(appointment.Type),
		CreatedAt:   appointment.CreatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to AppointmentResponse DTOs.
// The result is never nil so an empty list encodes as [].
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		responses = append(responses, *AppointmentToResponse(&appointments[i]))
	}
	return responses
}

// CreateAppointmentRequestToEntity builds the row to insert. Status defaults to confirmed.
func CreateAppointmentRequestToEntity(req *dto.CreateAppointmentRequest) *entity.Appointment {
	status := entity.AppointmentStatus(req.Status)
	if status == "" {
		status = entity.AppointmentStatusConfirmed
	}

	return &entity.Appointment{
		DoctorID:    req.DoctorID,
		UserID:      req.UserID,
		PatientName: req.PatientName,
		Date:        req.Date,
		Time:        req.Time,
		Status:      status,
		Type:        entity.AppointmentType(req.Type),
	}
}
