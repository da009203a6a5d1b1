// internal/storage/record_repo_test.go
package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthtrack/healthtrack-backend/internal/domain"
)

func TestCreateRecordWithExercises(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedUser(t, db, "alice", false)

	rec := &domain.ActivityRecord{
		UserID:       "alice",
		ActivityType: "Strength",
		HeartRate:    110,
		Mood:         "Focused",
		Duration:     "00:45:00",
		Exercises:    "Pushups: reps 20 count, Squats: reps 15 count",
		CreatedAt:    time.Now().UTC(),
	}
	id, err := CreateRecordWithExercises(ctx, db, rec, decodeEntries(rec.Exercises))
	require.NoError(t, err)
	require.NotZero(t, id)

	stored, err := FindRecordByID(ctx, db, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.UserID)
	assert.Equal(t, rec.Exercises, stored.Exercises, "raw exercises text is stored verbatim")

	exercises, err := ListExercisesByRecord(ctx, db, id)
	require.NoError(t, err)
	require.Len(t, exercises, 2)
	assert.Equal(t, "Pushups", exercises[0].ExerciseName)
	assert.Equal(t, "reps", exercises[0].Metric)
	assert.Equal(t, "20", exercises[0].Value)
	assert.Equal(t, "count", exercises[0].Unit)
	assert.Equal(t, "Squats", exercises[1].ExerciseName)
}

func TestCreateRecord_UnknownUser(t *testing.T) {
	db := newTestDB(t)

	rec := &domain.ActivityRecord{
		UserID:       "ghost",
		ActivityType: "Running",
		Mood:         "Good",
		Duration:     "00:10:00",
		CreatedAt:    time.Now().UTC(),
	}
	_, err := CreateRecordWithExercises(context.Background(), db, rec, nil)
	assert.ErrorIs(t, err, ErrConstraintViolation, "foreign key should reject an orphan record")
}

func TestFindRecordByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := FindRecordByID(context.Background(), db, 42)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestUpdateRecordWithExercises_ReplacesRows(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedUser(t, db, "bob", false)
	rec := seedRecord(t, db, "bob", "Strength")

	rec.Exercises = "Pushups: reps 20 count"
	require.NoError(t, UpdateRecordWithExercises(ctx, db, rec, decodeEntries(rec.Exercises)))

	// A second update must fully replace the derived rows, not append.
	rec.Exercises = "Plank: time 60 seconds"
	rec.HeartRate = 95
	require.NoError(t, UpdateRecordWithExercises(ctx, db, rec, decodeEntries(rec.Exercises)))

	exercises, err := ListExercisesByRecord(ctx, db, rec.ID)
	require.NoError(t, err)
	require.Len(t, exercises, 1)
	assert.Equal(t, "Plank", exercises[0].ExerciseName)

	stored, err := FindRecordByID(ctx, db, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(95), stored.HeartRate)
	assert.Equal(t, "Plank: time 60 seconds", stored.Exercises)
}

func TestUpdateRecordWithExercises_Missing(t *testing.T) {
	db := newTestDB(t)

	rec := &domain.ActivityRecord{ID: 999, ActivityType: "Running", Mood: "Good", Duration: "00:10:00"}
	err := UpdateRecordWithExercises(context.Background(), db, rec, nil)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeleteRecordCascade(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedUser(t, db, "carol", false)
	rec := seedRecord(t, db, "carol", "Yoga")
	rec.Exercises = "Stretch: time 30 seconds"
	require.NoError(t, UpdateRecordWithExercises(ctx, db, rec, decodeEntries(rec.Exercises)))

	require.NoError(t, DeleteRecordCascade(ctx, db, rec.ID))

	_, err := FindRecordByID(ctx, db, rec.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	exercises, err := ListExercisesByRecord(ctx, db, rec.ID)
	require.NoError(t, err)
	assert.Empty(t, exercises)

	assert.ErrorIs(t, DeleteRecordCascade(ctx, db, rec.ID), ErrRecordNotFound)
}

func TestListRecordsByUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedUser(t, db, "dave", false)
	seedUser(t, db, "erin", false)
	seedRecord(t, db, "dave", "Running")
	seedRecord(t, db, "dave", "Cycling")
	seedRecord(t, db, "erin", "Swimming")

	records, err := ListRecordsByUser(ctx, db, "dave")
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, "dave", r.UserID)
	}

	all, err := ListRecords(ctx, db)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
