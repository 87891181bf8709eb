package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/agrovia/agrocontrol/internal/model"
)

// SubscriptionRepo encapsulates queries for the `subscription` table.
type SubscriptionRepo struct {
	db *sql.DB
}

// NewSubscriptionRepo constructs a SubscriptionRepo.
func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo { return &SubscriptionRepo{db: db} }

const subscriptionColumns = "id, user_id, plan_type, start_date, end_date, create_date, is_active"

func scanSubscription(row *sql.Row) (*model.Subscription, error) {
	var s model.Subscription
	err := row.Scan(&s.ID, &s.UserID, &s.PlanType, &s.StartDate, &s.EndDate, &s.CreateDate, &s.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Save inserts a subscription inside an explicit transaction.  The plan is
// stored as its ordinal.
func (r *SubscriptionRepo) Save(ctx context.Context, s *model.Subscription) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO subscription (user_id, plan_type, start_date, end_date, is_active) VALUES (?,?,?,?,1)",
		s.UserID, uint8(s.PlanType), s.StartDate, s.EndDate)
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

// GetAll returns every active subscription ordered by id.
func (r *SubscriptionRepo) GetAll(ctx context.Context) ([]*model.Subscription, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+subscriptionColumns+" FROM subscription WHERE is_active = 1 ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Subscription
	for rows.Next() {
		var s model.Subscription
		if err := rows.Scan(&s.ID, &s.UserID, &s.PlanType, &s.StartDate, &s.EndDate,
			&s.CreateDate, &s.IsActive); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// GetByID fetches an active subscription by id.
func (r *SubscriptionRepo) GetByID(ctx context.Context, id uint64) (*model.Subscription, error) {
	return scanSubscription(r.db.QueryRowContext(ctx,
		"SELECT "+subscriptionColumns+" FROM subscription WHERE id = ? AND is_active = 1", id))
}

// GetActiveByUserID fetches the user's active subscription.  At most one
// exists; the command service relies on this lookup for the
// one-active-subscription-per-user invariant.
func (r *SubscriptionRepo) GetActiveByUserID(ctx context.Context, userID uint64) (*model.Subscription, error) {
	return scanSubscription(r.db.QueryRowContext(ctx,
		"SELECT "+subscriptionColumns+" FROM subscription WHERE user_id = ? AND is_active = 1 LIMIT 1", userID))
}

// Update overwrites every mutable column of an active subscription.
func (r *SubscriptionRepo) Update(ctx context.Context, s *model.Subscription) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE subscription SET plan_type = ?, start_date = ?, end_date = ? WHERE id = ? AND is_active = 1",
		uint8(s.PlanType), s.StartDate, s.EndDate, s.ID)
	return err
}

// Delete soft-deletes a subscription.
func (r *SubscriptionRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE subscription SET is_active = 0 WHERE id = ? AND is_active = 1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
