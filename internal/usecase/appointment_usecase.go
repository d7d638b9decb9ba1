package usecase

import (
	"context"
	"errors"
	"time"

	"doctor-connect/internal/converter"
	"doctor-connect/internal/delivery/dto"
	"doctor-connect/internal/domain/entity"
	"doctor-connect/internal/domain/repository"
	"doctor-connect/internal/service"
	"doctor-connect/pkg/metrics"
	"doctor-connect/pkg/validator"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSlotUnavailable     = errors.New("time slot is already booked")
)

const slotReleaseTimeout = 2 * time.Second

type AppointmentUsecase interface {
	ListAppointments(ctx context.Context, doctorID *int) ([]dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, id int) (*dto.AppointmentResponse, error)
	IsAvailable(ctx context.Context, doctorID int, date, time string) (bool, error)
	Book(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	validator       *validator.CustomValidator
	metrics         *metrics.Metrics
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	slotLocker      service.SlotLocker
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	metrics *metrics.Metrics,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	slotLocker service.SlotLocker,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		validator:       validator,
		metrics:         metrics,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		slotLocker:      slotLocker,
	}
}

// ListAppointments returns appointments in insertion order, optionally for one doctor
func (u *appointmentUsecase) ListAppointments(ctx context.Context, doctorID *int) ([]dto.AppointmentResponse, error) {
	appointments, err := u.appointmentRepo.FindAll(ctx, u.db, &entity.AppointmentFilter{DoctorID: doctorID})
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}
	return converter.AppointmentsToResponses(appointments), nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id int) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return converter.AppointmentToResponse(appointment), nil
}

// IsAvailable compares date and time as plain strings. A malformed value
// matches nothing and so reports the slot as free.
func (u *appointmentUsecase) IsAvailable(ctx context.Context, doctorID int, date, time string) (bool, error) {
	taken, err := u.appointmentRepo.ExistsActiveForSlot(ctx, u.db, entity.Slot{DoctorID: doctorID, Date: date, Time: time})
	if err != nil {
		u.log.Warnf("Failed to check availability for doctor %d at %s %s: %+v", doctorID, date, time, err)
		return false, err
	}
	return !taken, nil
}

// Book creates an appointment if its slot is free.
//
// Flow:
// 1. Validate request shape
// 2. Take the Redis slot lock (skipped with a warning when Redis is down or
//    the holder outlives the wait)
// 3. In one transaction: doctor exists, slot is free, insert
// 4. Release the lock
//
// The partial unique index on (doctor_id, date, time) rejects any insert that
// slipped past the availability check.
func (u *appointmentUsecase) Book(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	// Step 1: Validate
	if err := u.validator.Validate(req); err != nil {
		u.metrics.RecordBooking(metrics.BookingInvalid)
		return nil, &ValidationError{Fields: u.validator.FormatValidationErrors(err)}
	}

	appointment := converter.CreateAppointmentRequestToEntity(req)
	slot := appointment.Slot()

	// Step 2: Slot lock
	token, err := u.slotLocker.Acquire(ctx, slot)
	if err != nil {
		if errors.Is(err, service.ErrSlotLocked) {
			// Only the availability check below may answer a conflict.
			u.log.Warnf("Slot lock %s still held after waiting, continuing without it", slot)
		} else {
			u.log.Warnf("Failed to acquire slot lock %s, continuing without it: %+v", slot, err)
		}
	}
	defer u.releaseSlot(slot, token)

	// Step 3: Check and insert
	if err := u.insertIfAvailable(ctx, appointment); err != nil {
		var vErr *ValidationError
		switch {
		case errors.Is(err, ErrSlotUnavailable):
			u.metrics.RecordBooking(metrics.BookingConflict)
		case errors.Is(err, ErrDoctorNotFound):
			u.metrics.RecordBooking(metrics.BookingNotFound)
		case errors.As(err, &vErr):
			u.metrics.RecordBooking(metrics.BookingInvalid)
		default:
			u.metrics.RecordBooking(metrics.BookingError)
		}
		return nil, err
	}

	u.metrics.RecordBooking(metrics.BookingCreated)
	u.log.Infof("Appointment booked: id=%d, doctor=%d, date=%s, time=%s, type=%s",
		appointment.ID, appointment.DoctorID, appointment.Date, appointment.Time, appointment.Type)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) insertIfAvailable(ctx context.Context, appointment *entity.Appointment) error {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.log.Warnf("Failed to begin transaction: %+v", tx.Error)
		return tx.Error
	}
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(ctx, tx, appointment.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", appointment.DoctorID, err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	taken, err := u.appointmentRepo.ExistsActiveForSlot(ctx, tx, appointment.Slot())
	if err != nil {
		u.log.Warnf("Failed to check slot %s: %+v", appointment.Slot(), err)
		return err
	}
	if taken {
		return ErrSlotUnavailable
	}

	if err := u.appointmentRepo.Create(ctx, tx, appointment); err != nil {
		if isDuplicateKeyError(err, "active_slot") {
			return ErrSlotUnavailable
		}
		if isForeignKeyError(err, "user_id") {
			return newFieldError("userId", "userId does not match an existing user")
		}
		if isForeignKeyError(err, "doctor_id") {
			return ErrDoctorNotFound
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		if isDuplicateKeyError(err, "active_slot") {
			return ErrSlotUnavailable
		}
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}

// releaseSlot runs on its own context so a cancelled request still frees the lock
func (u *appointmentUsecase) releaseSlot(slot entity.Slot, token string) {
	if token == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), slotReleaseTimeout)
	defer cancel()
	if err := u.slotLocker.Release(ctx, slot, token); err != nil {
		u.log.Warnf("Failed to release slot lock %s (non-fatal, expires on its own): %+v", slot, err)
	}
}
