package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovia/agrocontrol/internal/model"
)

func testField(userID uint64, name string) *model.Field {
	return &model.Field{UserID: userID, Name: name, Location: "valley north", SoilType: "clay", Elevation: 2450}
}

func newFieldMock(t *testing.T) (*FieldRepo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFieldRepo(db), mock, db
}

func fieldRow(id uint64, name string, active int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "name", "location", "soil_type",
		"elevation", "create_date", "COALESCE(is_active, 0)"}).
		AddRow(id, 1, name, "valley north", "clay", 2450.0, time.Now(), active)
}

func TestFieldSaveCommits(t *testing.T) {
	repo, mock, _ := newFieldMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO field (user_id, name, location, soil_type, elevation, is_active) VALUES (?,?,?,?,?,1)")).
		WithArgs(uint64(1), "paddock a", "valley north", "clay", 2450.0).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	f := testField(1, "paddock a")
	id, err := repo.Save(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
	assert.Equal(t, uint64(7), f.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFieldSaveDuplicateRollsBack(t *testing.T) {
	repo, mock, _ := newFieldMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO field (user_id, name, location, soil_type, elevation, is_active) VALUES (?,?,?,?,?,1)")).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'paddock a-1' for key 'uq_field_name_active'"))
	mock.ExpectRollback()

	f := testField(1, "paddock a")
	_, err := repo.Save(context.Background(), f)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFieldGetByIDOnlySeesActiveRows(t *testing.T) {
	repo, mock, _ := newFieldMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, user_id, name, location, soil_type, elevation, create_date, COALESCE(is_active, 0) FROM field WHERE id = ? AND is_active = 1")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, user_id, name, location, soil_type, elevation, create_date, COALESCE(is_active, 0) FROM field WHERE id = ?")).
		WithArgs(uint64(3)).
		WillReturnRows(fieldRow(3, "retired plot", 0))

	f, err := repo.GetAnyByID(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, f.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFieldDeleteNullsActiveFlag(t *testing.T) {
	repo, mock, _ := newFieldMock(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE field SET is_active = NULL WHERE id = ? AND is_active = 1")).
		WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 4))

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE field SET is_active = NULL WHERE id = ? AND is_active = 1")).
		WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 4), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
