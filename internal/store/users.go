package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"verity/internal/services"
)

const userColumns = "id, email, password_hash, role, created_at, last_login_at"

// CreateUser inserts an account. Identifiers are assigned by the database
// (next rowid, so one greater than the current maximum), which keeps
// concurrent creation race-free. Emails are stored as given; uniqueness is
// case-sensitive.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string, role Role) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, services.Wrap(services.ErrValidation, "store", "create user", "email required", nil)
	}
	if strings.TrimSpace(passwordHash) == "" {
		return nil, services.Wrap(services.ErrValidation, "store", "create user", "password hash required", nil)
	}
	if !role.Valid() {
		return nil, services.Wrap(services.ErrValidation, "store", "create user", fmt.Sprintf("unknown role %q", role), nil)
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO users (email, password_hash, role, created_at) VALUES (?, ?, ?, ?)`,
		email,
		passwordHash,
		string(role),
		timestamp,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, services.Wrap(services.ErrValidation, "store", "create user", fmt.Sprintf("email %s already registered", email), nil)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetUserByID(ctx, id)
}

// GetUserByID fetches an account by identifier. Absence is (nil, nil).
func (s *Store) GetUserByID(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetUserByEmail fetches an account by exact email match. Absence is
// (nil, nil).
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	email = strings.TrimSpace(email)
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// TouchLastLogin records a successful login time.
func (s *Store) TouchLastLogin(ctx context.Context, id int64) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(ctx, `UPDATE users SET last_login_at = ? WHERE id = ?`, timestamp, id)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", "touch last login", fmt.Sprintf("user %d", id), nil)
	}
	return nil
}

// ListUsers returns all accounts ordered by identifier.
func (s *Store) ListUsers(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func scanUser(scanner interface{ Scan(dest ...any) error }) (*User, error) {
	var (
		id           int64
		email        string
		passwordHash string
		roleStr      string
		createdRaw   sql.NullString
		lastLoginRaw sql.NullString
	)
	if err := scanner.Scan(&id, &email, &passwordHash, &roleStr, &createdRaw, &lastLoginRaw); err != nil {
		return nil, err
	}

	user := &User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         Role(roleStr),
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		user.CreatedAt = created
	}
	if lastLoginRaw.Valid {
		if lastLogin, err := parseTimeString(lastLoginRaw.String); err == nil {
			user.LastLoginAt = &lastLogin
		}
	}
	return user, nil
}
