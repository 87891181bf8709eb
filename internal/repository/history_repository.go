package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/agrovia/agrocontrol/internal/model"
)

// HistoryRepo encapsulates queries for the `history` table.
type HistoryRepo struct {
	db *sql.DB
}

// NewHistoryRepo constructs a HistoryRepo.
func NewHistoryRepo(db *sql.DB) *HistoryRepo { return &HistoryRepo{db: db} }

const historyColumns = "id, crop_id, start_date, end_date, savings_type, amount_saved, unit_of_measurement, percentage_saved, create_date, is_active"

// Save inserts a history record inside an explicit transaction.
func (r *HistoryRepo) Save(ctx context.Context, h *model.History) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO history (crop_id, start_date, end_date, savings_type, amount_saved, unit_of_measurement, percentage_saved, is_active) VALUES (?,?,?,?,?,?,?,1)",
		h.CropID, h.StartDate, h.EndDate, h.SavingsType, h.AmountSaved, h.UnitOfMeasurement, h.PercentageSaved)
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
	h.ID = uint64(id)
	return h.ID, nil
}

// GetByID fetches an active history record by id.
func (r *HistoryRepo) GetByID(ctx context.Context, id uint64) (*model.History, error) {
	var h model.History
	err := r.db.QueryRowContext(ctx,
		"SELECT "+historyColumns+" FROM history WHERE id = ? AND is_active = 1", id).
		Scan(&h.ID, &h.CropID, &h.StartDate, &h.EndDate, &h.SavingsType, &h.AmountSaved,
			&h.UnitOfMeasurement, &h.PercentageSaved, &h.CreateDate, &h.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

// GetByCropID returns the active history records for a crop, newest first.
func (r *HistoryRepo) GetByCropID(ctx context.Context, cropID uint64) ([]*model.History, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+historyColumns+" FROM history WHERE crop_id = ? AND is_active = 1 ORDER BY start_date DESC, id",
		cropID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.History
	for rows.Next() {
		var h model.History
		if err := rows.Scan(&h.ID, &h.CropID, &h.StartDate, &h.EndDate, &h.SavingsType,
			&h.AmountSaved, &h.UnitOfMeasurement, &h.PercentageSaved, &h.CreateDate, &h.IsActive); err != nil {
			return nil, err
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}

// Update overwrites every mutable column of an active history record.
func (r *HistoryRepo) Update(ctx context.Context, h *model.History) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE history SET start_date = ?, end_date = ?, savings_type = ?, amount_saved = ?, unit_of_measurement = ?, percentage_saved = ? WHERE id = ? AND is_active = 1",
		h.StartDate, h.EndDate, h.SavingsType, h.AmountSaved, h.UnitOfMeasurement, h.PercentageSaved, h.ID)
	return err
}

// Delete soft-deletes a history record.
func (r *HistoryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE history SET is_active = 0 WHERE id = ? AND is_active = 1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
