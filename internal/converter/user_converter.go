package converter

import (
	"doctor-connect/internal/delivery/dto"
	"doctor-connect/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO. The password hash is never copied.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		DoctorID:  user.DoctorID,
		CreatedAt: user.CreatedAt,
	}
}
