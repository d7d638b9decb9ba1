package repository

import (
	"context"

	"doctor-connect/internal/domain/entity"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, db *gorm.DB, user *entity.User) error
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error)
	FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID int) (*entity.User, error)
}
