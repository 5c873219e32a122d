package db

import "database/sql"

func init() {
	RegisterMigration(Migration{
		Version:     1,
		Description: "initial schema: settings key-value table",
		Up: func(db *sql.DB) error {
			_, err := db.Exec(`
				CREATE TABLE IF NOT EXISTS settings (
					key TEXT PRIMARY KEY,
					value TEXT NOT NULL,
					updated_at INTEGER NOT NULL
				)
			`)
			return err
		},
	})
}
