// internal/storage/database.go
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // Driver registration

	"github.com/healthtrack/healthtrack-backend/config"
	"github.com/healthtrack/healthtrack-backend/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

// ConnectDB initializes the connection pool for the SQLite database and
// ensures the application tables exist.
func ConnectDB(cfg *config.Config) (*sql.DB, error) {
	dbPath := filepath.Join(cfg.DatabaseDir, cfg.DatabaseFile)
	customLog.Printf("Storage: Initializing database: %s", dbPath)

	// Ensure the data directory exists
	if err := os.MkdirAll(cfg.DatabaseDir, 0o750); err != nil {
		customLog.Warnf("Storage: Error creating data directory '%s': %v", cfg.DatabaseDir, err)
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Foreign keys on, WAL mode and a busy timeout so concurrent requests
	// queue instead of failing immediately.
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		customLog.Warnf("Storage: Failed to open db '%s': %v", dbPath, err)
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	// Verify connection is working
	if err = db.Ping(); err != nil {
		db.Close()
		customLog.Warnf("Storage: Failed to ping db '%s': %v", dbPath, err)
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	customLog.Println("Storage: Database connection successful.")

	// --- Ensure 'users' table exists ---
	createUsersTableSQL := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY NOT NULL,
		name TEXT NOT NULL,
		password TEXT NOT NULL,
		age INTEGER NOT NULL DEFAULT 0,
		sex TEXT NOT NULL DEFAULT 'Unknown',
		is_admin INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	);`
	if _, err = db.Exec(createUsersTableSQL); err != nil {
		db.Close()
		customLog.Warnf("Storage: Failed to create users table: %v", err)
		return nil, fmt.Errorf("failed to ensure users table: %w", err)
	}

	// --- Ensure 'records' table exists ---
	// No ON DELETE CASCADE: ownership cleanup is done explicitly in the
	// repository transactions so the behavior does not depend on storage
	// configuration.
	createRecordsTableSQL := `
	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL REFERENCES users(id),
		activity_type TEXT NOT NULL,
		heart_rate REAL NOT NULL DEFAULT 0,
		mood TEXT NOT NULL,
		duration TEXT NOT NULL,
		exercises TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);`
	if _, err = db.Exec(createRecordsTableSQL); err != nil {
		db.Close()
		customLog.Warnf("Storage: Failed to create records table: %v", err)
		return nil, fmt.Errorf("failed to ensure records table: %w", err)
	}

	// --- Ensure 'exercises' table exists ---
	createExercisesTableSQL := `
	CREATE TABLE IF NOT EXISTS exercises (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		record_id INTEGER NOT NULL REFERENCES records(id),
		exercise_name TEXT NOT NULL,
		metric TEXT NOT NULL,
		value TEXT NOT NULL,
		unit TEXT NOT NULL
	);`
	if _, err = db.Exec(createExercisesTableSQL); err != nil {
		db.Close()
		customLog.Warnf("Storage: Failed to create exercises table: %v", err)
		return nil, fmt.Errorf("failed to ensure exercises table: %w", err)
	}

	// --- Ensure 'billboard_records' table exists ---
	// chart_rank is the natural upsert key; the UNIQUE constraint closes the
	// find-then-insert race between concurrent upserts.
	createBillboardTableSQL := `
	CREATE TABLE IF NOT EXISTS billboard_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		song_title TEXT NOT NULL,
		artist TEXT NOT NULL,
		chart_rank INTEGER NOT NULL UNIQUE,
		star_number INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMP NOT NULL
	);`
	if _, err = db.Exec(createBillboardTableSQL); err != nil {
		db.Close()
		customLog.Warnf("Storage: Failed to create billboard_records table: %v", err)
		return nil, fmt.Errorf("failed to ensure billboard_records table: %w", err)
	}

	customLog.Println("Storage: Application tables ensured.")
	return db, nil
}
