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

func newDeviceQueryService(t *testing.T) (*DeviceQueryService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	svc := NewDeviceQueryService(
		repository.NewDeviceRepo(db),
		repository.NewSensorRepo(db),
		repository.NewReadingRepo(db),
		repository.NewAlertRepo(db),
	)
	return svc, mock
}

func TestGetAllDevicesListsOnlyActiveRows(t *testing.T) {
	svc, mock := newDeviceQueryService(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, crop_id, name, create_date, COALESCE(is_active, 0) FROM device WHERE is_active = 1 ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "crop_id", "name", "create_date",
			"COALESCE(is_active, 0)"}).
			AddRow(4, 2, "gateway-02", time.Now(), 1))

	views, err := svc.GetAllDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, uint64(4), views[0].ID)
	assert.Equal(t, uint64(2), views[0].CropID)
	assert.Equal(t, "gateway-02", views[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSensorsByDeviceIDFiltersActive(t *testing.T) {
	svc, mock := newDeviceQueryService(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, device_id, type, unit_of_measurement, status, create_date, is_active FROM sensor WHERE device_id = ? AND is_active = 1 ORDER BY id")).
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "device_id", "type", "unit_of_measurement",
			"status", "create_date", "is_active"}).
			AddRow(9, 4, 0, "°C", "online", time.Now(), 1))

	views, err := svc.GetSensorsByDeviceID(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, uint64(9), views[0].ID)
	assert.Equal(t, "°C", views[0].UnitOfMeasurement)
	assert.NoError(t, mock.ExpectationsWereMet())
}
