package repository

import (
	"context"

	"doctor-connect/internal/domain/entity"

	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.Doctor, error)
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Doctor, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}
