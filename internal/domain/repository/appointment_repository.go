package repository

import (
	"context"

	"doctor-connect/internal/domain/entity"

	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error)
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Appointment, error)
	// ExistsActiveForSlot reports whether a non-cancelled appointment holds the slot.
	ExistsActiveForSlot(ctx context.Context, db *gorm.DB, slot entity.Slot) (bool, error)
}
