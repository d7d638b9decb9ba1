package repository

import (
	"context"
	"errors"

	"doctor-connect/internal/domain/entity"
	domainRepo "doctor-connect/internal/domain/repository"

	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	return db.WithContext(ctx).Omit("Doctor", "User").Create(appointment).Error
}

func (r *appointmentRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.WithContext(ctx)

	if filter != nil {
		if filter.DoctorID != nil {
			query = query.Where("doctor_id = ?", *filter.DoctorID)
		}
		if filter.Date != "" {
			query = query.Where(`"date" = ?`, filter.Date)
		}
	}

	err := query.Order("id ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.WithContext(ctx).Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// ExistsActiveForSlot matches date and time by plain text equality.
// Cancelled appointments never hold a slot.
func (r *appointmentRepository) ExistsActiveForSlot(ctx context.Context, db *gorm.DB, slot entity.Slot) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where(`doctor_id = ? AND "date" = ? AND "time" = ? AND status <> ?`,
			slot.DoctorID, slot.Date, slot.Time, entity.AppointmentStatusCancelled).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
