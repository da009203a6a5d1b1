// internal/storage/record_repo.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/healthtrack/healthtrack-backend/internal/domain"
	"github.com/healthtrack/healthtrack-backend/internal/exercise"
)

// Specific errors for record operations
var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrConstraintViolation = errors.New("constraint violation")
)

const recordColumns = `id, user_id, activity_type, heart_rate, mood, duration, exercises, created_at`

func scanRecord(scanner interface {
	Scan(dest ...any) error
}, rec *domain.ActivityRecord) error {
	return scanner.Scan(&rec.ID, &rec.UserID, &rec.ActivityType, &rec.HeartRate,
		&rec.Mood, &rec.Duration, &rec.Exercises, &rec.CreatedAt)
}

// CreateRecordWithExercises persists an activity record together with its
// decoded exercise rows in one transaction, returning the generated id.
// Either both land or neither does.
func CreateRecordWithExercises(ctx context.Context, db *sql.DB, rec *domain.ActivityRecord, entries []exercise.NamedEntry) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start record create: %w", err)
	}
	defer tx.Rollback()

	insertSQL := `INSERT INTO records (user_id, activity_type, heart_rate, mood, duration, exercises, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, insertSQL,
		rec.UserID, rec.ActivityType, rec.HeartRate, rec.Mood, rec.Duration, rec.Exercises, rec.CreatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return 0, ErrConstraintViolation
		}
		customLog.Warnf("Storage: Failed to insert record for user %s: %v", rec.UserID, err)
		return 0, fmt.Errorf("database error during record creation: %w", err)
	}
	recordID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to retrieve record id after insert: %w", err)
	}

	if err := insertExercisesTx(ctx, tx, recordID, entries); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit record create: %w", err)
	}
	return recordID, nil
}

// FindRecordByID retrieves a single activity record.
func FindRecordByID(ctx context.Context, db *sql.DB, id int64) (*domain.ActivityRecord, error) {
	row := db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id = ? LIMIT 1`, id)

	var rec domain.ActivityRecord
	if err := scanRecord(row, &rec); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		customLog.Warnf("Storage: Failed to find record %d: %v", id, err)
		return nil, fmt.Errorf("database error finding record: %w", err)
	}
	return &rec, nil
}

// ListRecords retrieves all activity records.
func ListRecords(ctx context.Context, db *sql.DB) ([]domain.ActivityRecord, error) {
	return queryRecords(ctx, db, `SELECT `+recordColumns+` FROM records ORDER BY id`)
}

// ListRecordsByUser retrieves the activity records owned by one user.
func ListRecordsByUser(ctx context.Context, db *sql.DB, userID string) ([]domain.ActivityRecord, error) {
	return queryRecords(ctx, db, `SELECT `+recordColumns+` FROM records WHERE user_id = ? ORDER BY id`, userID)
}

func queryRecords(ctx context.Context, db *sql.DB, query string, args ...any) ([]domain.ActivityRecord, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		customLog.Warnf("Storage: Failed to list records: %v", err)
		return nil, fmt.Errorf("database error listing records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.ActivityRecord, 0)
	for rows.Next() {
		var rec domain.ActivityRecord
		if err := scanRecord(rows, &rec); err != nil {
			return nil, fmt.Errorf("failed reading record row: %w", err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating records: %w", err)
	}
	return records, nil
}

// UpdateRecordWithExercises writes the merged record row, discards every
// existing exercise row for it and inserts the fresh decode, all in one
// transaction. The replacement is non-incremental: no diffing against the
// prior rows.
func UpdateRecordWithExercises(ctx context.Context, db *sql.DB, rec *domain.ActivityRecord, entries []exercise.NamedEntry) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start record update: %w", err)
	}
	defer tx.Rollback()

	updateSQL := `UPDATE records SET activity_type = ?, heart_rate = ?, mood = ?, duration = ?, exercises = ? WHERE id = ?`
	result, err := tx.ExecContext(ctx, updateSQL,
		rec.ActivityType, rec.HeartRate, rec.Mood, rec.Duration, rec.Exercises, rec.ID)
	if err != nil {
		customLog.Warnf("Storage: Failed to update record %d: %v", rec.ID, err)
		return fmt.Errorf("database error during record update: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed confirming record update: %w", err)
	}
	if rowsAffected == 0 {
		// Row vanished between the caller's read and this write.
		return ErrRecordNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM exercises WHERE record_id = ?`, rec.ID); err != nil {
		customLog.Warnf("Storage: Failed to clear exercises for record %d: %v", rec.ID, err)
		return fmt.Errorf("database error during record update: %w", err)
	}
	if err := insertExercisesTx(ctx, tx, rec.ID, entries); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit record update: %w", err)
	}
	return nil
}

// DeleteRecordCascade removes a record and its exercise rows in one
// transaction. This explicit cascade is the single ownership-cleanup
// mechanism; no storage-level cascade rule is relied upon.
func DeleteRecordCascade(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start record delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM exercises WHERE record_id = ?`, id); err != nil {
		customLog.Warnf("Storage: Failed to delete exercises for record %d: %v", id, err)
		return fmt.Errorf("database error during record delete: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		customLog.Warnf("Storage: Failed to delete record %d: %v", id, err)
		return fmt.Errorf("database error during record delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed confirming record delete: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit record delete: %w", err)
	}
	return nil
}

// ListExercisesByRecord retrieves the derived exercise rows for a record in
// insertion order.
func ListExercisesByRecord(ctx context.Context, db *sql.DB, recordID int64) ([]domain.Exercise, error) {
	sqlStatement := `SELECT id, record_id, exercise_name, metric, value, unit FROM exercises WHERE record_id = ? ORDER BY id`
	rows, err := db.QueryContext(ctx, sqlStatement, recordID)
	if err != nil {
		customLog.Warnf("Storage: Failed to list exercises for record %d: %v", recordID, err)
		return nil, fmt.Errorf("database error listing exercises: %w", err)
	}
	defer rows.Close()

	exercises := make([]domain.Exercise, 0)
	for rows.Next() {
		var ex domain.Exercise
		if err := rows.Scan(&ex.ID, &ex.RecordID, &ex.ExerciseName, &ex.Metric, &ex.Value, &ex.Unit); err != nil {
			return nil, fmt.Errorf("failed reading exercise row: %w", err)
		}
		exercises = append(exercises, ex)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating exercises: %w", err)
	}
	return exercises, nil
}

func insertExercisesTx(ctx context.Context, tx *sql.Tx, recordID int64, entries []exercise.NamedEntry) error {
	if len(entries) == 0 {
		return nil
	}
	insertSQL := `INSERT INTO exercises (record_id, exercise_name, metric, value, unit) VALUES (?, ?, ?, ?, ?)`
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, insertSQL, recordID, e.Name, e.Metric, e.Value, e.Unit); err != nil {
			customLog.Warnf("Storage: Failed to insert exercise row for record %d: %v", recordID, err)
			return fmt.Errorf("database error inserting exercises: %w", err)
		}
	}
	return nil
}
