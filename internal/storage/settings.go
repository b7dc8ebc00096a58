package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tillpos/till/internal/common"
	"github.com/tillpos/till/internal/model"
)

// GetSetting returns the raw value for one setting key.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateString(key, "key"); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: setting %q", common.ErrNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query setting: %w", err)
	}
	return value, nil
}

// SetSetting upserts one setting value.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}
	if len(key) > 50 {
		return fmt.Errorf("%w: setting key exceeds 50 characters", common.ErrValidation)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO app_settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set setting: %w", err)
	}
	return nil
}

// ListSettings returns every setting row ordered by group then key.
func (s *Store) ListSettings(ctx context.Context) ([]model.Setting, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, key, value, COALESCE(grp, ''), COALESCE(description, '')
		 FROM app_settings ORDER BY grp, key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var settings []model.Setting
	for rows.Next() {
		var st model.Setting
		if err := rows.Scan(&st.ID, &st.Key, &st.Value, &st.Group, &st.Description); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings = append(settings, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settings: %w", err)
	}

	return settings, nil
}

// LoadSettings builds the typed settings view used to configure the
// register, receipts and backups. Missing keys fall back to defaults.
func (s *Store) LoadSettings(ctx context.Context) (model.Settings, error) {
	rows, err := s.ListSettings(ctx)
	if err != nil {
		return model.Settings{}, err
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return model.SettingsFromMap(values), nil
}
