package usecase

import (
	"context"
	"errors"
	"testing"

	"doctor-connect/internal/delivery/dto"
	"doctor-connect/internal/domain/entity"
	"doctor-connect/internal/service"
	"doctor-connect/pkg/metrics"
	"doctor-connect/pkg/validator"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type appointmentFixture struct {
	uc           AppointmentUsecase
	dbMock       sqlmock.Sqlmock
	appointments *mockAppointmentRepo
	doctors      *mockDoctorRepo
	locker       *mockSlotLocker
}

func setupAppointmentUsecase(t *testing.T) *appointmentFixture {
	t.Helper()
	db, dbMock := newTestDB(t)
	f := &appointmentFixture{
		dbMock:       dbMock,
		appointments: new(mockAppointmentRepo),
		doctors:      new(mockDoctorRepo),
		locker:       new(mockSlotLocker),
	}
	f.uc = NewAppointmentUsecase(db, newTestLogger(), validator.NewValidator(), metrics.New(), f.appointments, f.doctors, f.locker)
	t.Cleanup(func() {
		assert.NoError(t, dbMock.ExpectationsWereMet())
		f.appointments.AssertExpectations(t)
		f.doctors.AssertExpectations(t)
		f.locker.AssertExpectations(t)
	})
	return f
}

func validBooking() *dto.CreateAppointmentRequest {
	return &dto.CreateAppointmentRequest{
		DoctorID:    1,
		PatientName: "Guest Patient",
		Date:        "2025-03-10",
		Time:        "09:00",
		Type:        "video",
	}
}

var bookingSlot = entity.Slot{DoctorID: 1, Date: "2025-03-10", Time: "09:00"}

func TestBook_Success(t *testing.T) {
	f := setupAppointmentUsecase(t)

	f.locker.On("Acquire", mock.Anything, bookingSlot).Return("tok", nil)
	f.locker.On("Release", mock.Anything, bookingSlot, "tok").Return(nil)
	f.dbMock.ExpectBegin()
	f.doctors.On("FindByID", mock.Anything, mock.Anything, 1).Return(&entity.Doctor{ID: 1}, nil)
	f.appointments.On("ExistsActiveForSlot", mock.Anything, mock.Anything, bookingSlot).Return(false, nil)
	f.appointments.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*entity.Appointment")).
		Run(func(args mock.Arguments) {
			args.Get(2).(*entity.Appointment).ID = 1
		}).Return(nil)
	f.dbMock.ExpectCommit()

	resp, err := f.uc.Book(context.Background(), validBooking())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ID)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "Guest Patient", resp.PatientName)
	assert.Nil(t, resp.UserID)
}

func TestBook_SlotTaken(t *testing.T) {
	f := setupAppointmentUsecase(t)

	f.locker.On("Acquire", mock.Anything, bookingSlot).Return("tok", nil)
	f.locker.On("Release", mock.Anything, bookingSlot, "tok").Return(nil)
	f.dbMock.ExpectBegin()
	f.doctors.On("FindByID", mock.Anything, mock.Anything, 1).Return(&entity.Doctor{ID: 1}, nil)
	f.appointments.On("ExistsActiveForSlot", mock.Anything, mock.Anything, bookingSlot).Return(true, nil)
	f.dbMock.ExpectRollback()

	resp, err := f.uc.Book(context.Background(), validBooking())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Nil(t, resp)
	f.appointments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestBook_UniqueViolationIsConflict(t *testing.T) {
	f := setupAppointmentUsecase(t)

	f.locker.On("Acquire", mock.Anything, bookingSlot).Return("tok", nil)
	f.locker.On("Release", mock.Anything, bookingSlot, "tok").Return(nil)
	f.dbMock.ExpectBegin()
	f.doctors.On("FindByID", mock.Anything, mock.Anything, 1).Return(&entity.Doctor{ID: 1}, nil)
	f.appointments.On("ExistsActiveForSlot", mock.Anything, mock.Anything, bookingSlot).Return(false, nil)
	f.appointments.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(&pgconn.PgError{Code: "23505", ConstraintName: "uniq_appointments_active_slot"})
	f.dbMock.ExpectRollback()

	_, err := f.uc.Book(context.Background(), validBooking())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestBook_LockHeldElsewhere_FreeSlotStillBooks(t *testing.T) {
	f := setupAppointmentUsecase(t)

	f.locker.On("Acquire", mock.Anything, bookingSlot).Return("", service.ErrSlotLocked)
	f.dbMock.ExpectBegin()
	f.doctors.On("FindByID", mock.Anything, mock.Anything, 1).Return(&entity.Doctor{ID: 1}, nil)
	f.appointments.On("ExistsActiveForSlot", mock.Anything, mock.Anything, bookingSlot).Return(false, nil)
	f.appointments.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.dbMock.ExpectCommit()

	resp, err := f.uc.Book(context.Background(), validBooking())
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	f.locker.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
}

func TestBook_LockHeldElsewhere_TakenSlotConflicts(t *testing.T) {
	f := setupAppointmentUsecase(t)

	f.locker.On("Acquire", mock.Anything, bookingSlot).Return("", service.ErrSlotLocked)
	f.dbMock.ExpectBegin()
	f.doctors.On("FindByID", mock.Anything, mock.Anything, 1).Return(&entity.Doctor{ID: 1}, nil)
	f.appointments.On("ExistsActiveForSlot", mock.Anything, mock.Anything, bookingSlot).Return(true, nil)
	f.dbMock.ExpectRollback()

	_, err := f.uc.Book(context.Background(), validBooking())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	f.appointments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestBook_RedisDownStillBooks(t *testing.T) {
	f := setupAppointmentUsecase(t)

	f.locker.On("Acquire", mock.Anything, bookingSlot).Return("", errors.New("dial tcp: connection refused"))
	f.dbMock.ExpectBegin()
	f.doctors.On("FindByID", mock.Anything, mock.Anything, 1).Return(&entity.Doctor{ID: 1}, nil)
	f.appointments.On("ExistsActiveForSlot", mock.Anything, mock.Anything, bookingSlot).Return(false, nil)
	f.appointments.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.dbMock.ExpectCommit()

	_, err := f.uc.Book(context.Background(), validBooking())
	require.NoError(t, err)
	f.locker.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
}

func TestBook_UnknownDoctor(t *testing.T) {
	f := setupAppointmentUsecase(t)
	req := validBooking()
	req.DoctorID = 99
	slot := entity.Slot{DoctorID: 99, Date: "2025-03-10", Time: "09:00"}

	f.locker.On("Acquire", mock.Anything, slot).Return("tok", nil)
	f.locker.On("Release", mock.Anything, slot, "tok").Return(nil)
	f.dbMock.ExpectBegin()
	f.doctors.On("FindByID", mock.Anything, mock.Anything, 99).Return(nil, nil)
	f.dbMock.ExpectRollback()

	_, err := f.uc.Book(context.Background(), req)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestBook_Validation(t *testing.T) {
	f := setupAppointmentUsecase(t)

	t.Run("missing patient name", func(t *testing.T) {
		req := validBooking()
		req.PatientName = ""

		_, err := f.uc.Book(context.Background(), req)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Fields, "patientName")
	})

	t.Run("bad type and time", func(t *testing.T) {
		req := validBooking()
		req.Type = "phone"
		req.Time = "9am"

		_, err := f.uc.Book(context.Background(), req)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Fields, "type")
		assert.Contains(t, vErr.Fields, "time")
	})

	f.locker.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything)
	f.appointments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestIsAvailable(t *testing.T) {
	f := setupAppointmentUsecase(t)

	f.appointments.On("ExistsActiveForSlot", mock.Anything, mock.Anything, bookingSlot).Return(false, nil).Once()
	available, err := f.uc.IsAvailable(context.Background(), 1, "2025-03-10", "09:00")
	require.NoError(t, err)
	assert.True(t, available)

	f.appointments.On("ExistsActiveForSlot", mock.Anything, mock.Anything, bookingSlot).Return(true, nil).Once()
	available, err = f.uc.IsAvailable(context.Background(), 1, "2025-03-10", "09:00")
	require.NoError(t, err)
	assert.False(t, available)

	storageErr := errors.New("connection reset")
	f.appointments.On("ExistsActiveForSlot", mock.Anything, mock.Anything, bookingSlot).Return(false, storageErr).Once()
	_, err = f.uc.IsAvailable(context.Background(), 1, "2025-03-10", "09:00")
	assert.ErrorIs(t, err, storageErr)
}

func TestListAppointments(t *testing.T) {
	f := setupAppointmentUsecase(t)

	f.appointments.On("FindAll", mock.Anything, mock.Anything, mock.MatchedBy(func(filter *entity.AppointmentFilter) bool {
		return filter.DoctorID != nil && *filter.DoctorID == 1
	})).Return([]entity.Appointment{
		{ID: 1, DoctorID: 1, Time: "09:00"},
		{ID: 3, DoctorID: 1, Time: "09:30"},
	}, nil)

	list, err := f.uc.ListAppointments(context.Background(), intPtr(1))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].ID)
	assert.Equal(t, 3, list[1].ID)
}

func TestGetAppointment(t *testing.T) {
	f := setupAppointmentUsecase(t)

	f.appointments.On("FindByID", mock.Anything, mock.Anything, 5).Return(nil, nil)
	_, err := f.uc.GetAppointment(context.Background(), 5)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}
