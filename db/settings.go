package db

import "database/sql"

// GetSetting retrieves a setting by key, or "" when absent
func GetSetting(key string) (string, error) {
	value, err := SelectOne("SELECT value FROM settings WHERE key = ?",
		[]QueryParam{key},
		func(row *sql.Row) (string, error) {
			var v string
			err := row.Scan(&v)
			return v, err
		})
	if err != nil {
		return "", err
	}
	if value == nil {
		return "", nil
	}
	return *value, nil
}

// SetSetting updates or creates a setting
func SetSetting(key, value string) error {
	_, err := Run(`
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, NowMs())
	return err
}

// DeleteSetting removes a setting
func DeleteSetting(key string) error {
	_, err := Run("DELETE FROM settings WHERE key = ?", key)
	return err
}
