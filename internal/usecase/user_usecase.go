package usecase

import (
	"context"
	"errors"
	"strings"

	"doctor-connect/internal/converter"
	"doctor-connect/internal/delivery/dto"
	"doctor-connect/internal/domain/entity"
	"doctor-connect/internal/domain/repository"
	"doctor-connect/pkg/jwt"
	"doctor-connect/pkg/validator"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrDoctorClaimed      = errors.New("doctor already has an account")
)

type UserUsecase interface {
	Register(ctx context.Context, req *dto.RegisterUserRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID int) (*dto.UserResponse, error)
}

type userUsecase struct {
	db         *gorm.DB
	log        *logrus.Logger
	validator  *validator.CustomValidator
	userRepo   repository.UserRepository
	doctorRepo repository.DoctorRepository
	jwtService *jwt.JWTService
	hashCost   int
}

func NewUserUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	jwtService *jwt.JWTService,
) UserUsecase {
	return &userUsecase{
		db:         db,
		log:        log,
		validator:  validator,
		userRepo:   userRepo,
		doctorRepo: doctorRepo,
		jwtService: jwtService,
		hashCost:   bcrypt.DefaultCost,
	}
}

// Register creates a patient account, or a doctor account linked to an
// existing doctor row that has no account yet.
func (u *userUsecase) Register(ctx context.Context, req *dto.RegisterUserRequest) (*dto.UserResponse, error) {
	if err := u.validator.Validate(req); err != nil {
		return nil, &ValidationError{Fields: u.validator.FormatValidationErrors(err)}
	}

	role := entity.UserRole(req.Role)
	if role == "" {
		role = entity.RolePatient
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	switch {
	case role == entity.RoleDoctor && req.DoctorID == nil:
		return nil, newFieldError("doctorId", "doctorId is required for doctor accounts")
	case role == entity.RolePatient && req.DoctorID != nil:
		return nil, newFieldError("doctorId", "doctorId is only allowed for doctor accounts")
	}

	existing, err := u.userRepo.FindByEmail(ctx, u.db, email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	if req.DoctorID != nil {
		doctor, err := u.doctorRepo.FindByID(ctx, u.db, *req.DoctorID)
		if err != nil {
			u.log.Warnf("Failed to find doctor %d: %+v", *req.DoctorID, err)
			return nil, err
		}
		if doctor == nil {
			return nil, ErrDoctorNotFound
		}

		owner, err := u.userRepo.FindByDoctorID(ctx, u.db, *req.DoctorID)
		if err != nil {
			u.log.Warnf("Failed to find account of doctor %d: %+v", *req.DoctorID, err)
			return nil, err
		}
		if owner != nil {
			return nil, ErrDoctorClaimed
		}
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), u.hashCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Email:    email,
		Password: string(hashedPassword),
		Name:     strings.TrimSpace(req.Name),
		Role:     role,
		DoctorID: req.DoctorID,
	}

	if err := u.userRepo.Create(ctx, u.db, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		if isDuplicateKeyError(err, "doctor_id") {
			return nil, ErrDoctorClaimed
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	u.log.Infof("User registered: id=%d, role=%s", user.ID, user.Role)
	return converter.UserToResponse(user), nil
}

func (u *userUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if err := u.validator.Validate(req); err != nil {
		return nil, &ValidationError{Fields: u.validator.FormatValidationErrors(err)}
	}

	user, err := u.userRepo.FindByEmail(ctx, u.db, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, _, err := u.jwtService.GenerateAccessToken(user.ID, user.Email, string(user.Role), user.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(u.jwtService.GetAccessExpiry().Seconds()),
		User:        *converter.UserToResponse(user),
	}, nil
}

func (u *userUsecase) GetCurrentUser(ctx context.Context, userID int) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToResponse(user), nil
}
