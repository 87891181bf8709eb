package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/agrovia/agrocontrol/internal/model"
)

// UserRepo encapsulates all database queries touching the `user` table.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo with the provided DB handle.  This
// allows dependency injection of the database in tests and at startup.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = "id, username, dni_or_ruc, email_address, phone, role, password_hashed, create_date, is_active"

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.DniOrRuc, &u.EmailAddress, &u.Phone,
		&u.Role, &u.PasswordHashed, &u.CreateDate, &u.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Save inserts a user inside an explicit transaction and returns the
// generated id.  Username and dni_or_ruc carry unique indexes; a violation
// surfaces as ErrDuplicate.
func (r *UserRepo) Save(ctx context.Context, u *model.User) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO user (username, dni_or_ruc, email_address, phone, role, password_hashed, is_active) VALUES (?,?,?,?,?,?,1)",
		u.Username, u.DniOrRuc, u.EmailAddress, u.Phone, u.Role, u.PasswordHashed)
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
	u.ID = uint64(id)
	return u.ID, nil
}

// GetAll returns every active user ordered by id.
func (r *UserRepo) GetAll(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM user WHERE is_active = 1 ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.DniOrRuc, &u.EmailAddress, &u.Phone,
			&u.Role, &u.PasswordHashed, &u.CreateDate, &u.IsActive); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

// GetByID fetches an active user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM user WHERE id = ? AND is_active = 1", id))
}

// GetAnyByID fetches a user by id regardless of the soft-delete flag.
// Identity resolution uses it to tell "never existed" apart from
// "deactivated"; query services never do.
func (r *UserRepo) GetAnyByID(ctx context.Context, id uint64) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM user WHERE id = ?", id))
}

// GetByUsername fetches an active user by its unique username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM user WHERE username = ? AND is_active = 1", username))
}

// GetByDniOrRuc fetches an active user by its unique document number.
func (r *UserRepo) GetByDniOrRuc(ctx context.Context, dniOrRuc string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM user WHERE dni_or_ruc = ? AND is_active = 1", dniOrRuc))
}

// Update overwrites every mutable column of an active user.  The caller is
// expected to echo unchanged fields; this is whole-record replacement, not
// a patch.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE user SET username = ?, dni_or_ruc = ?, email_address = ?, phone = ?, role = ?, password_hashed = ? WHERE id = ? AND is_active = 1",
		u.Username, u.DniOrRuc, u.EmailAddress, u.Phone, u.Role, u.PasswordHashed, u.ID)
	if err != nil && isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// Delete soft-deletes a user.  ErrNotFound when the row is missing or
// already inactive.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE user SET is_active = 0 WHERE id = ? AND is_active = 1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
