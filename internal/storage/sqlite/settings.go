package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/habitown/internal/storage"
)

const settingTimezone = "timezone"

func (s *Store) GetSettings() (storage.Settings, error) {
	var tz string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", settingTimezone).Scan(&tz)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Settings{}, fmt.Errorf("settings: %w", storage.ErrNotFound)
	}
	if err != nil {
		return storage.Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	return storage.Settings{Timezone: tz}, nil
}

func (s *Store) SaveSettings(settings storage.Settings) error {
	_, err := s.db.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		settingTimezone, settings.Timezone,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
