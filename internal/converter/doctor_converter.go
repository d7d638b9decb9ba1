package converter

import (
	"doctor-connect/internal/delivery/dto"
	"doctor-connect/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	days := make([]int, len(doctor.AvailableDays))
	copy(days, doctor.AvailableDays)

	return &dto.DoctorResponse{
		ID:            doctor.ID,
		Name:          doctor.Name,
		Specialty:     doctor.Specialty,
		Bio:           doctor.Bio,
		Image:         doctor.Image,
		AvailableDays: days,
		Rating:        doctor.Rating,
		CreatedAt:     doctor.CreatedAt,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, 0, len(doctors))
	for i := range doctors {
		responses = append(responses, *DoctorToResponse(&doctors[i]))
	}
	return responses
}
