package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/shoply/internal/model"
)

// UserRepo is the MySQL-backed user directory.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,username,email,password_hash,role,is_online,login_count,last_login,last_seen,password_changed_at,created_at,updated_at"

// Create inserts a user and returns its ID. The caller hashes the password;
// plaintext never reaches this layer.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash, role string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role) VALUES (?,?,?,?)",
		username, email, passwordHash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetAll returns every user row, newest first.
func (r *UserRepo) GetAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// UpdateUsername sets the display name for exactly one user id and returns
// the updated row.
func (r *UserRepo) UpdateUsername(ctx context.Context, id uint64, username string) (*model.User, error) {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE users SET username=? WHERE id=?", username, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// UpdatePassword replaces the stored hash and stamps password_changed_at.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) (*model.User, error) {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, password_changed_at=UTC_TIMESTAMP() WHERE id=?",
		passwordHash, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// RecordLogin bumps the login telemetry after a verified login.
func (r *UserRepo) RecordLogin(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET login_count=login_count+1, is_online=1, last_login=UTC_TIMESTAMP() WHERE id=?", id)
	return err
}

// MarkOffline clears the presence flag and stamps last_seen.
func (r *UserRepo) MarkOffline(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_online=0, last_seen=UTC_TIMESTAMP() WHERE id=?", id)
	return err
}

func (r *UserRepo) scanOne(row *sql.Row) (*model.User, error) {
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface{ Scan(dest ...any) error }

func scanUser(s scanner) (*model.User, error) {
	var (
		u         model.User
		lastLogin sql.NullTime
		lastSeen  sql.NullTime
		pwChanged sql.NullTime
	)
	if err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.IsOnline, &u.LoginCount, &lastLogin, &lastSeen, &pwChanged,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	if lastSeen.Valid {
		u.LastSeen = &lastSeen.Time
	}
	if pwChanged.Valid {
		u.PasswordChangedAt = &pwChanged.Time
	}
	return &u, nil
}
