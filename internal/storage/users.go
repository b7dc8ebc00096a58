package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tillpos/till/internal/common"
	"github.com/tillpos/till/internal/model"
)

// CreateUser creates a new operator account. Usernames are unique.
func (s *Store) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateUser(u); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ?`, u.Username).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("%w: user %q already exists", common.ErrConflict, u.Username)
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, full_name, email, role, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.PasswordHash, u.FullName, u.Email, u.Role, u.IsActive, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user id: %w", err)
	}

	created := *u
	created.ID = id
	created.CreatedAt = now

	slog.Info("created user", "username", u.Username, "role", u.Role)
	return &created, nil
}

// GetUserByUsername returns a user by its unique username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(username, "username"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getUserByUsername(ctx, username)
}

func (s *Store) getUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	var lastLogin sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, full_name, email, role, is_active, created_at, last_login_at
		 FROM users WHERE username = ?`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Email, &u.Role,
		&u.IsActive, &u.CreatedAt, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %q", common.ErrNotFound, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return &u, nil
}

// ListUsers returns all users ordered by username.
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, password_hash, full_name, email, role, is_active, created_at, last_login_at
		 FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []model.User
	for rows.Next() {
		var u model.User
		var lastLogin sql.NullTime
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Email, &u.Role,
			&u.IsActive, &u.CreatedAt, &lastLogin); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if lastLogin.Valid {
			t := lastLogin.Time
			u.LastLoginAt = &t
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// SetUserActive enables or disables an account.
func (s *Store) SetUserActive(ctx context.Context, username string, active bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(username, "username"); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET is_active = ? WHERE username = ?`, active, username)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: user %q", common.ErrNotFound, username)
	}

	return nil
}

// ChangePassword replaces a user's password hash.
func (s *Store) ChangePassword(ctx context.Context, username, passwordHash string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(username, "username"); err != nil {
		return err
	}
	if err := validateString(passwordHash, "passwordHash"); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE username = ?`, passwordHash, username)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: user %q", common.ErrNotFound, username)
	}

	return nil
}

// Authenticate verifies credentials for an active account and stamps the
// last login time. The caller gets the user on success.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(username, "username"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, err := s.getUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, fmt.Errorf("%w: user %q is disabled", common.ErrValidation, username)
	}
	if !u.VerifyPassword(password) {
		return nil, fmt.Errorf("%w: invalid credentials", common.ErrValidation)
	}

	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`, now, u.ID); err != nil {
		// Login still succeeds; the stamp is best effort.
		slog.Warn("failed to record last login", "username", username, "error", err)
	} else {
		u.LastLoginAt = &now
	}

	return u, nil
}
