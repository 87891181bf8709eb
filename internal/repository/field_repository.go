package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/agrovia/agrocontrol/internal/model"
)

// FieldRepo encapsulates all database queries touching the `field` table.
//
// Soft deletion uses a NULL convention here: active rows have is_active = 1
// and deactivated rows have is_active = NULL.  The unique index on
// (name, is_active) therefore only guards active rows: NULL components are
// never equal, so any number of deactivated fields may share a name while
// at most one active field can hold it.
type FieldRepo struct {
	db *sql.DB
}

// NewFieldRepo constructs a FieldRepo with the provided DB handle.
func NewFieldRepo(db *sql.DB) *FieldRepo { return &FieldRepo{db: db} }

const fieldColumns = "id, user_id, name, location, soil_type, elevation, create_date, COALESCE(is_active, 0)"

func scanField(row *sql.Row) (*model.Field, error) {
	var f model.Field
	err := row.Scan(&f.ID, &f.UserID, &f.Name, &f.Location, &f.SoilType,
		&f.Elevation, &f.CreateDate, &f.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// Save inserts a field inside an explicit transaction and returns the
// generated id.  A name collision within the active set surfaces as
// ErrDuplicate via the unique index.
func (r *FieldRepo) Save(ctx context.Context, f *model.Field) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO field (user_id, name, location, soil_type, elevation, is_active) VALUES (?,?,?,?,?,1)",
		f.UserID, f.Name, f.Location, f.SoilType, f.Elevation)
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
	f.ID = uint64(id)
	return f.ID, nil
}

// GetAll returns every active field ordered by id.
func (r *FieldRepo) GetAll(ctx context.Context) ([]*model.Field, error) {
	return r.list(ctx, "SELECT "+fieldColumns+" FROM field WHERE is_active = 1 ORDER BY id")
}

// GetByUserID returns the active fields owned by a user.
func (r *FieldRepo) GetByUserID(ctx context.Context, userID uint64) ([]*model.Field, error) {
	return r.list(ctx,
		"SELECT "+fieldColumns+" FROM field WHERE user_id = ? AND is_active = 1 ORDER BY id", userID)
}

func (r *FieldRepo) list(ctx context.Context, q string, args ...any) ([]*model.Field, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Field
	for rows.Next() {
		var f model.Field
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.Location, &f.SoilType,
			&f.Elevation, &f.CreateDate, &f.IsActive); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

// GetByID fetches an active field by id.
func (r *FieldRepo) GetByID(ctx context.Context, id uint64) (*model.Field, error) {
	return scanField(r.db.QueryRowContext(ctx,
		"SELECT "+fieldColumns+" FROM field WHERE id = ? AND is_active = 1", id))
}

// GetAnyByID fetches a field by id regardless of the soft-delete flag.
func (r *FieldRepo) GetAnyByID(ctx context.Context, id uint64) (*model.Field, error) {
	return scanField(r.db.QueryRowContext(ctx,
		"SELECT "+fieldColumns+" FROM field WHERE id = ?", id))
}

// GetByName fetches an active field by its unique name.
func (r *FieldRepo) GetByName(ctx context.Context, name string) (*model.Field, error) {
	return scanField(r.db.QueryRowContext(ctx,
		"SELECT "+fieldColumns+" FROM field WHERE name = ? AND is_active = 1", name))
}

// Update overwrites every mutable column of an active field.  Ownership
// (user_id) never changes after creation.
func (r *FieldRepo) Update(ctx context.Context, f *model.Field) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE field SET name = ?, location = ?, soil_type = ?, elevation = ? WHERE id = ? AND is_active = 1",
		f.Name, f.Location, f.SoilType, f.Elevation, f.ID)
	if err != nil && isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// Delete soft-deletes a field by nulling the active flag, which releases
// its name for reuse.
func (r *FieldRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE field SET is_active = NULL WHERE id = ? AND is_active = 1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
