package usecase

import (
	"context"
	"io"
	"testing"

	"doctor-connect/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, dbMock
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func intPtr(v int) *int { return &v }

type mockDoctorRepo struct{ mock.Mock }

func (m *mockDoctorRepo) Create(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error {
	return m.Called(ctx, db, doctor).Error(0)
}

func (m *mockDoctorRepo) FindAll(ctx context.Context, db *gorm.DB) ([]entity.Doctor, error) {
	args := m.Called(ctx, db)
	doctors, _ := args.Get(0).([]entity.Doctor)
	return doctors, args.Error(1)
}

func (m *mockDoctorRepo) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Doctor, error) {
	args := m.Called(ctx, db, id)
	doctor, _ := args.Get(0).(*entity.Doctor)
	return doctor, args.Error(1)
}

func (m *mockDoctorRepo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	args := m.Called(ctx, db)
	return args.Get(0).(int64), args.Error(1)
}

type mockAppointmentRepo struct{ mock.Mock }

func (m *mockAppointmentRepo) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	return m.Called(ctx, db, appointment).Error(0)
}

func (m *mockAppointmentRepo) FindAll(ctx context.Context, db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	args := m.Called(ctx, db, filter)
	appointments, _ := args.Get(0).([]entity.Appointment)
	return appointments, args.Error(1)
}

func (m *mockAppointmentRepo) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Appointment, error) {
	args := m.Called(ctx, db, id)
	appointment, _ := args.Get(0).(*entity.Appointment)
	return appointment, args.Error(1)
}

func (m *mockAppointmentRepo) ExistsActiveForSlot(ctx context.Context, db *gorm.DB, slot entity.Slot) (bool, error) {
	args := m.Called(ctx, db, slot)
	return args.Bool(0), args.Error(1)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	return m.Called(ctx, db, user).Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.User, error) {
	args := m.Called(ctx, db, id)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	args := m.Called(ctx, db, email)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID int) (*entity.User, error) {
	args := m.Called(ctx, db, doctorID)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

type mockSlotLocker struct{ mock.Mock }

func (m *mockSlotLocker) Acquire(ctx context.Context, slot entity.Slot) (string, error) {
	args := m.Called(ctx, slot)
	return args.String(0), args.Error(1)
}

func (m *mockSlotLocker) Release(ctx context.Context, slot entity.Slot, token string) error {
	return m.Called(ctx, slot, token).Error(0)
}
