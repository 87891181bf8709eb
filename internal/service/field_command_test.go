package service

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovia/agrocontrol/internal/repository"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

const userSelect = "SELECT id, username, dni_or_ruc, email_address, phone, role, password_hashed, create_date, is_active FROM user WHERE id = ? AND is_active = 1"

func activeUserRow(id uint64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "dni_or_ruc", "email_address", "phone",
		"role", "password_hashed", "create_date", "is_active"}).
		AddRow(id, "pedro1", "12345678", "pedro@example.com", "987654321", "Farmer", "$2a$hash", time.Now(), 1)
}

func validFieldCommand(userID uint64) CreateFieldCommand {
	return CreateFieldCommand{
		UserID:    userID,
		Name:      "paddock a",
		Location:  "valley north sector 4",
		SoilType:  "clay",
		Elevation: 2450,
	}
}

func TestCreateFieldRejectsBadInput(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewFieldCommandService(repository.NewFieldRepo(db), repository.NewUserRepo(db))

	cmd := CreateFieldCommand{UserID: 1, Name: "x", Location: "abc", SoilType: "ok", Elevation: 9000}
	_, err := svc.CreateField(context.Background(), cmd)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "location")
	assert.Contains(t, verr.Fields, "soil_type")
	assert.Contains(t, verr.Fields, "elevation")
	// Validation failures must never reach the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFieldMissingOwner(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewFieldCommandService(repository.NewFieldRepo(db), repository.NewUserRepo(db))

	mock.ExpectQuery(regexp.QuoteMeta(userSelect)).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.CreateField(context.Background(), validFieldCommand(42))
	assert.ErrorIs(t, err, ErrParentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFieldDuplicateName(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewFieldCommandService(repository.NewFieldRepo(db), repository.NewUserRepo(db))

	mock.ExpectQuery(regexp.QuoteMeta(userSelect)).
		WithArgs(uint64(1)).
		WillReturnRows(activeUserRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, user_id, name, location, soil_type, elevation, create_date, COALESCE(is_active, 0) FROM field WHERE name = ? AND is_active = 1")).
		WithArgs("paddock a").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "location", "soil_type",
			"elevation", "create_date", "COALESCE(is_active, 0)"}).
			AddRow(9, 1, "paddock a", "valley north sector 4", "clay", 2450.0, time.Now(), 1))

	_, err := svc.CreateField(context.Background(), validFieldCommand(1))
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFieldPersists(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewFieldCommandService(repository.NewFieldRepo(db), repository.NewUserRepo(db))

	mock.ExpectQuery(regexp.QuoteMeta(userSelect)).
		WithArgs(uint64(1)).
		WillReturnRows(activeUserRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, user_id, name, location, soil_type, elevation, create_date, COALESCE(is_active, 0) FROM field WHERE name = ? AND is_active = 1")).
		WithArgs("paddock a").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO field (user_id, name, location, soil_type, elevation, is_active) VALUES (?,?,?,?,?,1)")).
		WithArgs(uint64(1), "paddock a", "valley north sector 4", "clay", 2450.0).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	id, err := svc.CreateField(context.Background(), validFieldCommand(1))
	require.NoError(t, err)
	assert.Equal(t, uint64(11), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFieldMissing(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewFieldCommandService(repository.NewFieldRepo(db), repository.NewUserRepo(db))

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, user_id, name, location, soil_type, elevation, create_date, COALESCE(is_active, 0) FROM field WHERE id = ? AND is_active = 1")).
		WithArgs(uint64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := svc.UpdateField(context.Background(), 8, UpdateFieldCommand{
		Name: "paddock b", Location: "valley north sector 4", SoilType: "loam", Elevation: 2000,
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
