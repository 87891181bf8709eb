package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/agrovia/agrocontrol/internal/model"
)

// RecommendationRepo encapsulates queries for the `recommendation` table.
type RecommendationRepo struct {
	db *sql.DB
}

// NewRecommendationRepo constructs a RecommendationRepo.
func NewRecommendationRepo(db *sql.DB) *RecommendationRepo { return &RecommendationRepo{db: db} }

const recommendationColumns = "id, crop_id, content, type, priority, create_date, is_active"

// Save inserts a recommendation inside an explicit transaction.
func (r *RecommendationRepo) Save(ctx context.Context, rec *model.Recommendation) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO recommendation (crop_id, content, type, priority, is_active) VALUES (?,?,?,?,1)",
		rec.CropID, rec.Content, rec.Type, rec.Priority)
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
	rec.ID = uint64(id)
	return rec.ID, nil
}

// GetByID fetches an active recommendation by id.
func (r *RecommendationRepo) GetByID(ctx context.Context, id uint64) (*model.Recommendation, error) {
	var rec model.Recommendation
	err := r.db.QueryRowContext(ctx,
		"SELECT "+recommendationColumns+" FROM recommendation WHERE id = ? AND is_active = 1", id).
		Scan(&rec.ID, &rec.CropID, &rec.Content, &rec.Type, &rec.Priority, &rec.CreateDate, &rec.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// GetByCropID returns the active recommendations for a crop.
func (r *RecommendationRepo) GetByCropID(ctx context.Context, cropID uint64) ([]*model.Recommendation, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+recommendationColumns+" FROM recommendation WHERE crop_id = ? AND is_active = 1 ORDER BY priority DESC, id",
		cropID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Recommendation
	for rows.Next() {
		var rec model.Recommendation
		if err := rows.Scan(&rec.ID, &rec.CropID, &rec.Content, &rec.Type, &rec.Priority,
			&rec.CreateDate, &rec.IsActive); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// Update overwrites every mutable column of an active recommendation.
func (r *RecommendationRepo) Update(ctx context.Context, rec *model.Recommendation) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE recommendation SET content = ?, type = ?, priority = ? WHERE id = ? AND is_active = 1",
		rec.Content, rec.Type, rec.Priority, rec.ID)
	return err
}

// Delete soft-deletes a recommendation.
func (r *RecommendationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE recommendation SET is_active = 0 WHERE id = ? AND is_active = 1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
