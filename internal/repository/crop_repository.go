package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/agrovia/agrocontrol/internal/model"
)

// CropRepo encapsulates all database queries touching the `crop` table.
type CropRepo struct {
	db *sql.DB
}

// NewCropRepo constructs a CropRepo with the provided DB handle.
func NewCropRepo(db *sql.DB) *CropRepo { return &CropRepo{db: db} }

const cropColumns = "id, field_id, crop_type, quantity, status, create_date, is_active"

func scanCrop(row *sql.Row) (*model.Crop, error) {
	var c model.Crop
	err := row.Scan(&c.ID, &c.FieldID, &c.CropType, &c.Quantity, &c.Status, &c.CreateDate, &c.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Save inserts a crop inside an explicit transaction and returns the
// generated id.
func (r *CropRepo) Save(ctx context.Context, c *model.Crop) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO crop (field_id, crop_type, quantity, status, is_active) VALUES (?,?,?,?,1)",
		c.FieldID, c.CropType, c.Quantity, c.Status)
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
	c.ID = uint64(id)
	return c.ID, nil
}

// GetAll returns every active crop ordered by id.
func (r *CropRepo) GetAll(ctx context.Context) ([]*model.Crop, error) {
	return r.list(ctx, "SELECT "+cropColumns+" FROM crop WHERE is_active = 1 ORDER BY id")
}

// GetByFieldID returns the active crops planted on a field.
func (r *CropRepo) GetByFieldID(ctx context.Context, fieldID uint64) ([]*model.Crop, error) {
	return r.list(ctx,
		"SELECT "+cropColumns+" FROM crop WHERE field_id = ? AND is_active = 1 ORDER BY id", fieldID)
}

func (r *CropRepo) list(ctx context.Context, q string, args ...any) ([]*model.Crop, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Crop
	for rows.Next() {
		var c model.Crop
		if err := rows.Scan(&c.ID, &c.FieldID, &c.CropType, &c.Quantity, &c.Status,
			&c.CreateDate, &c.IsActive); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// GetByID fetches an active crop by id.
func (r *CropRepo) GetByID(ctx context.Context, id uint64) (*model.Crop, error) {
	return scanCrop(r.db.QueryRowContext(ctx,
		"SELECT "+cropColumns+" FROM crop WHERE id = ? AND is_active = 1", id))
}

// Update overwrites every mutable column of an active crop.
func (r *CropRepo) Update(ctx context.Context, c *model.Crop) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE crop SET crop_type = ?, quantity = ?, status = ? WHERE id = ? AND is_active = 1",
		c.CropType, c.Quantity, c.Status, c.ID)
	return err
}

// Delete soft-deletes a crop.
func (r *CropRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE crop SET is_active = 0 WHERE id = ? AND is_active = 1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
