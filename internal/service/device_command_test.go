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

const (
	cropSelect   = "SELECT id, field_id, crop_type, quantity, status, create_date, is_active FROM crop WHERE id = ? AND is_active = 1"
	deviceByCrop = "SELECT id, crop_id, name, create_date, COALESCE(is_active, 0) FROM device WHERE crop_id = ? AND is_active = 1"
)

func newDeviceService(t *testing.T, hardDelete bool) (*DeviceCommandService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	svc := NewDeviceCommandService(
		repository.NewDeviceRepo(db),
		repository.NewCropRepo(db),
		repository.NewSensorRepo(db),
		repository.NewReadingRepo(db),
		repository.NewAlertRepo(db),
		hardDelete,
	)
	return svc, mock
}

func activeCropRow(id uint64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "field_id", "crop_type", "quantity", "status",
		"create_date", "is_active"}).
		AddRow(id, 1, "quinoa", 120, "growing", time.Now(), 1)
}

func TestCreateDeviceMissingCrop(t *testing.T) {
	svc, mock := newDeviceService(t, true)

	mock.ExpectQuery(regexp.QuoteMeta(cropSelect)).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.CreateDevice(context.Background(), CreateDeviceCommand{CropID: 9, Name: "gateway-09"})
	assert.ErrorIs(t, err, ErrParentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDeviceSecondPerCropRejected(t *testing.T) {
	svc, mock := newDeviceService(t, true)

	mock.ExpectQuery(regexp.QuoteMeta(cropSelect)).
		WithArgs(uint64(2)).
		WillReturnRows(activeCropRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(deviceByCrop)).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "crop_id", "name", "create_date",
			"COALESCE(is_active, 0)"}).
			AddRow(4, 2, "gateway-02", time.Now(), 1))

	_, err := svc.CreateDevice(context.Background(), CreateDeviceCommand{CropID: 2, Name: "gateway-02b"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDevicePersists(t *testing.T) {
	svc, mock := newDeviceService(t, true)

	mock.ExpectQuery(regexp.QuoteMeta(cropSelect)).
		WithArgs(uint64(2)).
		WillReturnRows(activeCropRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(deviceByCrop)).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO device (crop_id, name, is_active) VALUES (?,?,1)")).
		WithArgs(uint64(2), "gateway-02").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectCommit()

	id, err := svc.CreateDevice(context.Background(), CreateDeviceCommand{CropID: 2, Name: "gateway-02"})
	require.NoError(t, err)
	assert.Equal(t, uint64(4), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReadingHardDeleteDropsRow(t *testing.T) {
	svc, mock := newDeviceService(t, true)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sensor_reading WHERE id = ?")).
		WithArgs(uint64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.DeleteReading(context.Background(), 12))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReadingSoftDeleteDeactivates(t *testing.T) {
	svc, mock := newDeviceService(t, false)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE sensor_reading SET is_active = 0 WHERE id = ? AND is_active = 1")).
		WithArgs(uint64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.DeleteReading(context.Background(), 12))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReadingMissingSensor(t *testing.T) {
	svc, mock := newDeviceService(t, true)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, device_id, type, unit_of_measurement, status, create_date, is_active FROM sensor WHERE id = ? AND is_active = 1")).
		WithArgs(uint64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.CreateReading(context.Background(), CreateReadingCommand{
		SensorID: 77, Timestamp: time.Now(), Value: 21.5,
	})
	assert.ErrorIs(t, err, ErrParentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
