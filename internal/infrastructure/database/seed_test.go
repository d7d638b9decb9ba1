package database

import (
	"context"
	"errors"
	"io"
	"testing"

	"doctor-connect/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeDoctorRepo struct {
	count    int64
	countErr error
	created  []entity.Doctor
}

func (f *fakeDoctorRepo) Create(_ context.Context, _ *gorm.DB, d *entity.Doctor) error {
	d.ID = len(f.created) + 1
	f.created = append(f.created, *d)
	return nil
}

func (f *fakeDoctorRepo) FindAll(context.Context, *gorm.DB) ([]entity.Doctor, error) {
	return f.created, nil
}

func (f *fakeDoctorRepo) FindByID(context.Context, *gorm.DB, int) (*entity.Doctor, error) {
	return nil, nil
}

func (f *fakeDoctorRepo) Count(context.Context, *gorm.DB) (int64, error) {
	return f.count, f.countErr
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestSeedDoctors(t *testing.T) {
	t.Run("empty table", func(t *testing.T) {
		repo := &fakeDoctorRepo{}
		require.NoError(t, SeedDoctors(context.Background(), nil, quietLogger(), repo, DefaultDoctors))
		require.Len(t, repo.created, 3)
		assert.Equal(t, "Dr. Sarah Wilson", repo.created[0].Name)
		assert.Equal(t, entity.Weekdays{2, 4}, repo.created[2].AvailableDays)
		assert.Equal(t, "5.0", repo.created[2].Rating)
	})

	t.Run("already seeded", func(t *testing.T) {
		repo := &fakeDoctorRepo{count: 3}
		require.NoError(t, SeedDoctors(context.Background(), nil, quietLogger(), repo, DefaultDoctors))
		assert.Empty(t, repo.created)
	})

	t.Run("rating normalized", func(t *testing.T) {
		repo := &fakeDoctorRepo{}
		doctors := []entity.Doctor{{Name: "Dr. A", AvailableDays: entity.Weekdays{1}, Rating: "4"}}
		require.NoError(t, SeedDoctors(context.Background(), nil, quietLogger(), repo, doctors))
		assert.Equal(t, "4.0", repo.created[0].Rating)
	})

	t.Run("invalid weekday", func(t *testing.T) {
		repo := &fakeDoctorRepo{}
		doctors := []entity.Doctor{{Name: "Dr. B", AvailableDays: entity.Weekdays{7}, Rating: "4.5"}}
		assert.Error(t, SeedDoctors(context.Background(), nil, quietLogger(), repo, doctors))
		assert.Empty(t, repo.created)
	})

	t.Run("count fails", func(t *testing.T) {
		repo := &fakeDoctorRepo{countErr: errors.New("down")}
		assert.Error(t, SeedDoctors(context.Background(), nil, quietLogger(), repo, DefaultDoctors))
	})
}
