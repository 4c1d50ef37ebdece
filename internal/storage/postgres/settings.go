package postgres

import (
	"database/sql"
	"errors"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

const upsertSetting = `
	INSERT INTO settings (key, value) VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`

func (s *Store) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, storage.Failure("reading settings", err)
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, storage.Failure("reading settings", err)
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, storage.Failure("reading settings", err)
	}
	if len(data) == 0 {
		return models.Settings{}, storage.NotFound("settings", "all")
	}

	settings, err := models.MapToSettings(data)
	if err != nil {
		return models.Settings{}, err
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return storage.Failure("saving settings", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(upsertSetting)
	if err != nil {
		return storage.Failure("saving settings", err)
	}
	defer stmt.Close()

	for key, value := range models.SettingsToMap(settings) {
		if _, err := stmt.Exec(key, value); err != nil {
			return storage.Failure("saving setting "+key, err)
		}
	}

	return storage.Failure("saving settings", tx.Commit())
}

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = $1", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.NotFound("setting", key)
	}
	if err != nil {
		return "", storage.Failure("reading setting "+key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(upsertSetting, key, value)
	return storage.Failure("saving setting "+key, err)
}
