package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovia/agrocontrol/internal/repository"
)

const fieldList = "SELECT id, user_id, name, location, soil_type, elevation, create_date, COALESCE(is_active, 0) FROM field WHERE is_active = 1 ORDER BY id"

func TestGetAllFieldsListsOnlyActiveRows(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewFieldQueryService(repository.NewFieldRepo(db))

	// The listing query itself carries the active filter, so rows
	// deactivated by a delete can never surface here.
	mock.ExpectQuery(regexp.QuoteMeta(fieldList)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "location", "soil_type",
			"elevation", "create_date", "COALESCE(is_active, 0)"}).
			AddRow(1, 1, "paddock a", "valley north sector 4", "clay", 2450.0, time.Now(), 1).
			AddRow(3, 2, "paddock c", "valley south sector 1", "loam", 2300.0, time.Now(), 1))

	views, err := svc.GetAllFields(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, uint64(1), views[0].ID)
	assert.Equal(t, "paddock a", views[0].Name)
	assert.Equal(t, uint64(3), views[1].ID)
	assert.Equal(t, "paddock c", views[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFieldByIDMissing(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewFieldQueryService(repository.NewFieldRepo(db))

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, user_id, name, location, soil_type, elevation, create_date, COALESCE(is_active, 0) FROM field WHERE id = ? AND is_active = 1")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.GetFieldByID(context.Background(), 5)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFieldThenGetByIDRoundTrip(t *testing.T) {
	db, mock := newMockDB(t)
	fields := repository.NewFieldRepo(db)
	cmdSvc := NewFieldCommandService(fields, repository.NewUserRepo(db))
	qrySvc := NewFieldQueryService(fields)

	created := time.Now()
	cmd := validFieldCommand(1)

	mock.ExpectQuery(regexp.QuoteMeta(userSelect)).
		WithArgs(uint64(1)).
		WillReturnRows(activeUserRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, user_id, name, location, soil_type, elevation, create_date, COALESCE(is_active, 0) FROM field WHERE name = ? AND is_active = 1")).
		WithArgs(cmd.Name).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO field (user_id, name, location, soil_type, elevation, is_active) VALUES (?,?,?,?,?,1)")).
		WithArgs(uint64(1), cmd.Name, cmd.Location, cmd.SoilType, cmd.Elevation).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, user_id, name, location, soil_type, elevation, create_date, COALESCE(is_active, 0) FROM field WHERE id = ? AND is_active = 1")).
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "location", "soil_type",
			"elevation", "create_date", "COALESCE(is_active, 0)"}).
			AddRow(11, 1, cmd.Name, cmd.Location, cmd.SoilType, cmd.Elevation, created, 1))

	id, err := cmdSvc.CreateField(context.Background(), cmd)
	require.NoError(t, err)

	view, err := qrySvc.GetFieldByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, view.ID)
	assert.Equal(t, cmd.UserID, view.UserID)
	assert.Equal(t, cmd.Name, view.Name)
	assert.Equal(t, cmd.Location, view.Location)
	assert.Equal(t, cmd.SoilType, view.SoilType)
	assert.Equal(t, cmd.Elevation, view.Elevation)
	assert.NoError(t, mock.ExpectationsWereMet())
}
