package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/agrovia/agrocontrol/internal/model"
)

// DeviceRepo encapsulates queries for the `device` table.
//
// Like FieldRepo, deactivation nulls the is_active flag so the unique
// index on (crop_id, is_active) admits exactly one active device per crop
// while tolerating any number of deactivated ones.
type DeviceRepo struct {
	db *sql.DB
}

// NewDeviceRepo constructs a DeviceRepo.
func NewDeviceRepo(db *sql.DB) *DeviceRepo { return &DeviceRepo{db: db} }

const deviceColumns = "id, crop_id, name, create_date, COALESCE(is_active, 0)"

func scanDevice(row *sql.Row) (*model.Device, error) {
	var d model.Device
	err := row.Scan(&d.ID, &d.CropID, &d.Name, &d.CreateDate, &d.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Save inserts a device inside an explicit transaction.  A second active
// device for the same crop surfaces as ErrDuplicate via the unique index.
func (r *DeviceRepo) Save(ctx context.Context, d *model.Device) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO device (crop_id, name, is_active) VALUES (?,?,1)",
		d.CropID, d.Name)
	if err != nil {
		_ = tx.Rollback()
		if isDuplicate(err) {
			return 0, ErrDuplicate
		}
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
	d.ID = uint64(id)
	return d.ID, nil
}

// GetAll returns every active device ordered by id.
func (r *DeviceRepo) GetAll(ctx context.Context) ([]*model.Device, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+deviceColumns+" FROM device WHERE is_active = 1 ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Device
	for rows.Next() {
		var d model.Device
		if err := rows.Scan(&d.ID, &d.CropID, &d.Name, &d.CreateDate, &d.IsActive); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// GetByID fetches an active device by id.
func (r *DeviceRepo) GetByID(ctx context.Context, id uint64) (*model.Device, error) {
	return scanDevice(r.db.QueryRowContext(ctx,
		"SELECT "+deviceColumns+" FROM device WHERE id = ? AND is_active = 1", id))
}

// GetByCropID fetches the single active device installed on a crop.
func (r *DeviceRepo) GetByCropID(ctx context.Context, cropID uint64) (*model.Device, error) {
	return scanDevice(r.db.QueryRowContext(ctx,
		"SELECT "+deviceColumns+" FROM device WHERE crop_id = ? AND is_active = 1", cropID))
}

// Update overwrites every mutable column of an active device.
func (r *DeviceRepo) Update(ctx context.Context, d *model.Device) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE device SET name = ? WHERE id = ? AND is_active = 1",
		d.Name, d.ID)
	return err
}

// Delete soft-deletes a device by nulling the active flag, freeing the
// crop's device slot.
func (r *DeviceRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE device SET is_active = NULL WHERE id = ? AND is_active = 1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
