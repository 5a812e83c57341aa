package db

import (
	"fmt"
	"log"
)

// RunMigrations applies any pending database migrations
func (db *DB) RunMigrations() error {
	// Databases created by hand or by early builds may lack the table
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}

	// Run updated_at column migration
	if err := db.runUpdatedAtMigration(); err != nil {
		return err
	}

	if _, err := db.conn.Exec(indexes); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	return nil
}

func (db *DB) runUpdatedAtMigration() error {
	// Check if the column exists
	var count int
	err := db.conn.QueryRow(`
		SELECT COUNT(*)
		FROM pragma_table_info('kv')
		WHERE name = 'updated_at'
	`).Scan(&count)

	if err != nil {
		return fmt.Errorf("checking for updated_at column: %w", err)
	}

	if count > 0 {
		return nil
	}

	log.Println("Running migration: Adding updated_at column...")

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	// SQLite refuses non-constant defaults in ALTER TABLE, so backfill instead
	_, err = tx.Exec(`ALTER TABLE kv ADD COLUMN updated_at DATETIME`)
	if err != nil && err.Error() != "duplicate column name: updated_at" {
		return fmt.Errorf("adding updated_at column: %w", err)
	}

	if _, err := tx.Exec(`UPDATE kv SET updated_at = CURRENT_TIMESTAMP WHERE updated_at IS NULL`); err != nil {
		return fmt.Errorf("backfilling updated_at: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}

	log.Println("Migration completed successfully")
	return nil
}
