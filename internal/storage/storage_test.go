// internal/storage/storage_test.go
package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/healthtrack/healthtrack-backend/config"
	"github.com/healthtrack/healthtrack-backend/internal/domain"
	"github.com/healthtrack/healthtrack-backend/internal/exercise"
)

func decodeEntries(text string) []exercise.NamedEntry {
	return exercise.Decode(text).All()
}

// newTestDB opens a fresh on-disk SQLite database in a per-test temp dir so
// every test starts from empty tables.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := &config.Config{
		DatabaseDir:  t.TempDir(),
		DatabaseFile: "test.db",
	}
	db, err := ConnectDB(cfg)
	require.NoError(t, err, "test database should initialize")
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *sql.DB, id string, isAdmin bool) *domain.User {
	t.Helper()

	user := &domain.User{
		ID:        id,
		Name:      "Test " + id,
		Password:  "pw-" + id,
		Age:       30,
		Sex:       "Unknown",
		CreatedAt: time.Now().UTC(),
		IsAdmin:   isAdmin,
	}
	require.NoError(t, CreateUser(context.Background(), db, user))
	return user
}

func seedRecord(t *testing.T, db *sql.DB, userID, activityType string) *domain.ActivityRecord {
	t.Helper()

	rec := &domain.ActivityRecord{
		UserID:       userID,
		ActivityType: activityType,
		HeartRate:    120,
		Mood:         "Good",
		Duration:     "00:30:00",
		Exercises:    "",
		CreatedAt:    time.Now().UTC(),
	}
	id, err := CreateRecordWithExercises(context.Background(), db, rec, nil)
	require.NoError(t, err)
	rec.ID = id
	return rec
}
