package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/agrovia/agrocontrol/internal/model"
)

// SensorRepo encapsulates queries for the `sensor` table.
type SensorRepo struct {
	db *sql.DB
}

// NewSensorRepo constructs a SensorRepo.
func NewSensorRepo(db *sql.DB) *SensorRepo { return &SensorRepo{db: db} }

const sensorColumns = "id, device_id, type, unit_of_measurement, status, create_date, is_active"

func scanSensor(row *sql.Row) (*model.Sensor, error) {
	var s model.Sensor
	err := row.Scan(&s.ID, &s.DeviceID, &s.Type, &s.UnitOfMeasurement, &s.Status, &s.CreateDate, &s.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Save inserts a sensor inside an explicit transaction.  The type is
// stored as its ordinal.
func (r *SensorRepo) Save(ctx context.Context, s *model.Sensor) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO sensor (device_id, type, unit_of_measurement, status, is_active) VALUES (?,?,?,?,1)",
		s.DeviceID, uint8(s.Type), s.UnitOfMeasurement, s.Status)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	s.ID = uint64(id)
	return s.ID, nil
}

// GetAll returns every active sensor ordered by id.
func (r *SensorRepo) GetAll(ctx context.Context) ([]*model.Sensor, error) {
	return r.list(ctx, "SELECT "+sensorColumns+" FROM sensor WHERE is_active = 1 ORDER BY id")
}

// GetByDeviceID returns the active sensors attached to a device.
func (r *SensorRepo) GetByDeviceID(ctx context.Context, deviceID uint64) ([]*model.Sensor, error) {
	return r.list(ctx,
		"SELECT "+sensorColumns+" FROM sensor WHERE device_id = ? AND is_active = 1 ORDER BY id", deviceID)
}

func (r *SensorRepo) list(ctx context.Context, q string, args ...any) ([]*model.Sensor, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Sensor
	for rows.Next() {
		var s model.Sensor
		if err := rows.Scan(&s.ID, &s.DeviceID, &s.Type, &s.UnitOfMeasurement, &s.Status,
			&s.CreateDate, &s.IsActive); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// GetByID fetches an active sensor by id.
func (r *SensorRepo) GetByID(ctx context.Context, id uint64) (*model.Sensor, error) {
	return scanSensor(r.db.QueryRowContext(ctx,
		"SELECT "+sensorColumns+" FROM sensor WHERE id = ? AND is_active = 1", id))
}

// Update overwrites every mutable column of an active sensor.
func (r *SensorRepo) Update(ctx context.Context, s *model.Sensor) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE sensor SET type = ?, unit_of_measurement = ?, status = ? WHERE id = ? AND is_active = 1",
		uint8(s.Type), s.UnitOfMeasurement, s.Status, s.ID)
	return err
}

// Delete soft-deletes a sensor.
func (r *SensorRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE sensor SET is_active = 0 WHERE id = ? AND is_active = 1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
