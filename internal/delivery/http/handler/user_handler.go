package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"doctor-connect/internal/delivery/dto"
	"doctor-connect/internal/delivery/http/middleware"
	"doctor-connect/internal/usecase"
	"doctor-connect/pkg/response"
)

type UserHandler struct {
	userUsecase usecase.UserUsecase
}

func NewUserHandler(userUsecase usecase.UserUsecase) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userUsecase.Register(r.Context(), &req)
	if err != nil {
		if writeValidationError(w, "Invalid user data", err) {
			return
		}
		switch {
		case errors.Is(err, usecase.ErrEmailAlreadyExists):
			response.Conflict(w, "Email already exists")
		case errors.Is(err, usecase.ErrDoctorClaimed):
			response.Conflict(w, "Doctor already has an account")
		case errors.Is(err, usecase.ErrDoctorNotFound):
			response.NotFound(w, "Doctor not found")
		default:
			response.InternalServerError(w, "Failed to register user")
		}
		return
	}

	response.JSON(w, http.StatusCreated, user)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	token, err := h.userUsecase.Login(r.Context(), &req)
	if err != nil {
		if writeValidationError(w, "Invalid login data", err) {
			return
		}
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			response.Unauthorized(w, "Invalid email or password")
		default:
			response.InternalServerError(w, "Failed to login")
		}
		return
	}

	response.JSON(w, http.StatusOK, token)
}

func (h *UserHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not found in context")
		return
	}

	user, err := h.userUsecase.GetCurrentUser(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			response.Unauthorized(w, "User no longer exists")
		default:
			response.InternalServerError(w, "Failed to get user")
		}
		return
	}

	response.JSON(w, http.StatusOK, user)
}
