package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/agrovia/agrocontrol/internal/model"
)

// ReadingRepo encapsulates queries for the `sensor_reading` table.
//
// Readings are telemetry: Save is a plain insert without a transaction
// wrapper (single-statement atomicity is enough for append-only samples),
// and Delete removes the row outright.  Deactivate exists for deployments
// that turn the telemetry hard-delete policy off.
type ReadingRepo struct {
	db *sql.DB
}

// NewReadingRepo constructs a ReadingRepo.
func NewReadingRepo(db *sql.DB) *ReadingRepo { return &ReadingRepo{db: db} }

const readingColumns = "id, sensor_id, timestamp, value, create_date, is_active"

// Save inserts a reading and returns the generated id.
func (r *ReadingRepo) Save(ctx context.Context, sr *model.SensorReading) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO sensor_reading (sensor_id, timestamp, value, is_active) VALUES (?,?,?,1)",
		sr.SensorID, sr.Timestamp, sr.Value)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	sr.ID = uint64(id)
	return sr.ID, nil
}

// GetByID fetches an active reading by id.
func (r *ReadingRepo) GetByID(ctx context.Context, id uint64) (*model.SensorReading, error) {
	var sr model.SensorReading
	err := r.db.QueryRowContext(ctx,
		"SELECT "+readingColumns+" FROM sensor_reading WHERE id = ? AND is_active = 1", id).
		Scan(&sr.ID, &sr.SensorID, &sr.Timestamp, &sr.Value, &sr.CreateDate, &sr.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sr, nil
}

// GetBySensorID returns the active readings of a sensor, newest first.
func (r *ReadingRepo) GetBySensorID(ctx context.Context, sensorID uint64) ([]*model.SensorReading, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+readingColumns+" FROM sensor_reading WHERE sensor_id = ? AND is_active = 1 ORDER BY timestamp DESC, id DESC",
		sensorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.SensorReading
	for rows.Next() {
		var sr model.SensorReading
		if err := rows.Scan(&sr.ID, &sr.SensorID, &sr.Timestamp, &sr.Value,
			&sr.CreateDate, &sr.IsActive); err != nil {
			return nil, err
		}
		out = append(out, &sr)
	}
	return out, rows.Err()
}

// Update overwrites every mutable column of an active reading.
func (r *ReadingRepo) Update(ctx context.Context, sr *model.SensorReading) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE sensor_reading SET timestamp = ?, value = ? WHERE id = ? AND is_active = 1",
		sr.Timestamp, sr.Value, sr.ID)
	return err
}

// Delete removes a reading permanently.
func (r *ReadingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sensor_reading WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes a reading instead of removing it.
func (r *ReadingRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE sensor_reading SET is_active = 0 WHERE id = ? AND is_active = 1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
