package repository_test

import (
	"regexp"
	"testing"
	"time"

	"doctor-connect/internal/domain/entity"
	"doctor-connect/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "email", "password", "name", "role", "doctor_id", "created_at"}

func TestUserRepository(t *testing.T) {
	t.Parallel()
	repo := repository.NewUserRepository()

	t.Run("create", func(t *testing.T) {
		t.Parallel()
		db, dbMock := newMockDB(t)

		dbMock.ExpectQuery(`INSERT INTO "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

		user := &entity.User{Email: "alice@example.com", Password: "hash", Name: "Alice", Role: entity.RolePatient}
		require.NoError(t, repo.Create(t.Context(), db, user))
		assert.Equal(t, 11, user.ID)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("find by email", func(t *testing.T) {
		t.Parallel()
		db, dbMock := newMockDB(t)

		dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(4, "sarah@clinic.test", "hash", "Sarah Wilson", "doctor", 1, time.Now()))

		user, err := repo.FindByEmail(t.Context(), db, "sarah@clinic.test")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.True(t, user.IsDoctor())
		require.NotNil(t, user.DoctorID)
		assert.Equal(t, 1, *user.DoctorID)
	})

	t.Run("find by email absent", func(t *testing.T) {
		t.Parallel()
		db, dbMock := newMockDB(t)

		dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
			WillReturnRows(sqlmock.NewRows(userColumns))

		user, err := repo.FindByEmail(t.Context(), db, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("find by doctor id", func(t *testing.T) {
		t.Parallel()
		db, dbMock := newMockDB(t)

		dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE doctor_id = $1`)).
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(4, "sarah@clinic.test", "hash", "Sarah Wilson", "doctor", 1, time.Now()))

		user, err := repo.FindByDoctorID(t.Context(), db, 1)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, 4, user.ID)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("find by doctor id absent", func(t *testing.T) {
		t.Parallel()
		db, dbMock := newMockDB(t)

		dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE doctor_id = $1`)).
			WillReturnRows(sqlmock.NewRows(userColumns))

		user, err := repo.FindByDoctorID(t.Context(), db, 3)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("find by id absent", func(t *testing.T) {
		t.Parallel()
		db, dbMock := newMockDB(t)

		dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)).
			WillReturnRows(sqlmock.NewRows(userColumns))

		user, err := repo.FindByID(t.Context(), db, 3)
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}
