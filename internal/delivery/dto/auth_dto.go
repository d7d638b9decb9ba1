package dto

import "time"

// Request DTOs

type RegisterUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"notblank"`
	Role     string `json:"role" validate:"omitempty,oneof=patient doctor"`
	DoctorID *int   `json:"doctorId" validate:"omitempty,min=1"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Response DTOs

type UserResponse struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	DoctorID  *int      `json:"doctorId"`
	CreatedAt time.Time `json:"createdAt"`
}

type TokenResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int64        `json:"expiresIn"`
	User        UserResponse `json:"user"`
}
