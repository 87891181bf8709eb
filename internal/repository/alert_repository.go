package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/agrovia/agrocontrol/internal/model"
)

// AlertRepo encapsulates queries for the `alert` table.  Alerts follow
// the telemetry rules of ReadingRepo: untransacted saves, hard delete by
// default, Deactivate as the configurable alternative.
type AlertRepo struct {
	db *sql.DB
}

// NewAlertRepo constructs an AlertRepo.
func NewAlertRepo(db *sql.DB) *AlertRepo { return &AlertRepo{db: db} }

const alertColumns = "id, device_id, message, level, timestamp, create_date, is_active"

// Save inserts an alert and returns the generated id.
func (r *AlertRepo) Save(ctx context.Context, a *model.Alert) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO alert (device_id, message, level, timestamp, is_active) VALUES (?,?,?,?,1)",
		a.DeviceID, a.Message, uint8(a.Level), a.Timestamp)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	a.ID = uint64(id)
	return a.ID, nil
}

// GetAll returns every active alert, newest first.
func (r *AlertRepo) GetAll(ctx context.Context) ([]*model.Alert, error) {
	return r.list(ctx,
		"SELECT "+alertColumns+" FROM alert WHERE is_active = 1 ORDER BY timestamp DESC, id DESC")
}

// GetByDeviceID returns the active alerts of a device, newest first.
func (r *AlertRepo) GetByDeviceID(ctx context.Context, deviceID uint64) ([]*model.Alert, error) {
	return r.list(ctx,
		"SELECT "+alertColumns+" FROM alert WHERE device_id = ? AND is_active = 1 ORDER BY timestamp DESC, id DESC",
		deviceID)
}

func (r *AlertRepo) list(ctx context.Context, q string, args ...any) ([]*model.Alert, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Alert
	for rows.Next() {
		var a model.Alert
		if err := rows.Scan(&a.ID, &a.DeviceID, &a.Message, &a.Level, &a.Timestamp,
			&a.CreateDate, &a.IsActive); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// GetByID fetches an active alert by id.
func (r *AlertRepo) GetByID(ctx context.Context, id uint64) (*model.Alert, error) {
	var a model.Alert
	err := r.db.QueryRowContext(ctx,
		"SELECT "+alertColumns+" FROM alert WHERE id = ? AND is_active = 1", id).
		Scan(&a.ID, &a.DeviceID, &a.Message, &a.Level, &a.Timestamp, &a.CreateDate, &a.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Update overwrites every mutable column of an active alert.
func (r *AlertRepo) Update(ctx context.Context, a *model.Alert) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE alert SET message = ?, level = ?, timestamp = ? WHERE id = ? AND is_active = 1",
		a.Message, uint8(a.Level), a.Timestamp, a.ID)
	return err
}

// Delete removes an alert permanently.
func (r *AlertRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM alert WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes an alert instead of removing it.
func (r *AlertRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE alert SET is_active = 0 WHERE id = ? AND is_active = 1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
