package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tradeloop/marketplace-api/internal/auth"
	"github.com/tradeloop/marketplace-api/internal/model"
)

// UserRepo persists accounts in the `users` table. It satisfies
// auth.UserStore. Emails are matched exactly as stored; the column carries a
// case-sensitive (utf8mb4_bin) unique index that backstops concurrent
// signups.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,password_hash,name,created_at,updated_at"

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail fetches an account by exact email match.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// FindByID fetches an account by id.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// ExistsByEmail reports whether an account with the email exists.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email=?)", email).Scan(&exists)
	return exists, err
}

// ExistsByID reports whether an account with the id exists.
func (r *UserRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE id=?)", id).Scan(&exists)
	return exists, err
}

// Create inserts a new account. A unique-index collision on email is reported
// as auth.ErrEmailExists so the signup path sees one error kind regardless of
// whether the pre-check or the insert caught the duplicate.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id,email,password_hash,name,created_at,updated_at) VALUES (?,?,?,?,?,?)",
		u.ID, u.Email, u.PasswordHash, u.Name, u.CreatedAt, u.UpdatedAt)
	if isDuplicateEntry(err) {
		return auth.ErrEmailExists
	}
	return err
}

// DeleteByID removes an account and reports whether a row was deleted.
func (r *UserRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
