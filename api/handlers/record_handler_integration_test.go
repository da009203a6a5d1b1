// api/handlers/record_handler_integration_test.go
package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthtrack/healthtrack-backend/api/models"
	"github.com/healthtrack/healthtrack-backend/internal/storage"
)

// TestRecordEndpoints performs integration tests on the /api/records routes.
func TestRecordEndpoints(t *testing.T) {
	server, db := setupTestServer(t)
	assert := assert.New(t)

	seedTestUser(t, db, "admin", "adminPass", true)
	seedTestUser(t, db, "owner", "ownerPass", false)
	seedTestUser(t, db, "other", "otherPass", false)

	var recordID int64

	t.Run("Create Record As Owner", func(t *testing.T) {
		reqBody := models.CreateRecordRequest{
			ActorID:       "owner",
			ActorPassword: "ownerPass",
			Record: models.RecordPayload{
				UserID:       "owner",
				ActivityType: "Strength",
				HeartRate:    118,
				Mood:         "Focused",
				Duration:     "00:45:00",
				Exercises:    "Pushups: reps 20 count, Squats: reps 15 count",
			},
		}

		res := doJSON(t, http.MethodPost, server.URL+"/api/records", reqBody)
		defer res.Body.Close()
		assert.Equal(http.StatusCreated, res.StatusCode)

		var resBody models.RecordResponse
		require.NoError(t, json.NewDecoder(res.Body).Decode(&resBody))
		require.NotZero(t, resBody.ID)
		recordID = resBody.ID

		exercises, err := storage.ListExercisesByRecord(context.Background(), db, recordID)
		require.NoError(t, err)
		require.Len(t, exercises, 2, "Decoded exercise rows should be persisted alongside the record")
		assert.Equal("Pushups", exercises[0].ExerciseName)
		assert.Equal("Squats", exercises[1].ExerciseName)
	})

	t.Run("Create Record For Another User As Non-Admin", func(t *testing.T) {
		reqBody := models.CreateRecordRequest{
			ActorID:       "other",
			ActorPassword: "otherPass",
			Record: models.RecordPayload{
				UserID:       "owner",
				ActivityType: "Running",
				Mood:         "Good",
				Duration:     "00:10:00",
			},
		}

		res := doJSON(t, http.MethodPost, server.URL+"/api/records", reqBody)
		defer res.Body.Close()
		assert.Equal(http.StatusForbidden, res.StatusCode)
	})

	t.Run("Create Record For Nonexistent User", func(t *testing.T) {
		reqBody := models.CreateRecordRequest{
			ActorID:       "admin",
			ActorPassword: "adminPass",
			Record: models.RecordPayload{
				UserID:       "ghost",
				ActivityType: "Running",
				Mood:         "Good",
				Duration:     "00:10:00",
			},
		}

		res := doJSON(t, http.MethodPost, server.URL+"/api/records", reqBody)
		defer res.Body.Close()
		assert.Equal(http.StatusBadRequest, res.StatusCode)
	})

	t.Run("Create Record Missing Fields", func(t *testing.T) {
		reqBody := models.CreateRecordRequest{
			ActorID:       "owner",
			ActorPassword: "ownerPass",
			Record:        models.RecordPayload{UserID: "owner"},
		}

		res := doJSON(t, http.MethodPost, server.URL+"/api/records", reqBody)
		defer res.Body.Close()
		assert.Equal(http.StatusBadRequest, res.StatusCode)
	})

	t.Run("Get Record As Owner", func(t *testing.T) {
		res, err := http.Get(server.URL + "/api/records/" + itoa(recordID) + "?requestingUserId=owner&requestingUserPassword=ownerPass")
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(http.StatusOK, res.StatusCode)
	})

	t.Run("Get Record As Other Non-Admin", func(t *testing.T) {
		res, err := http.Get(server.URL + "/api/records/" + itoa(recordID) + "?requestingUserId=other&requestingUserPassword=otherPass")
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(http.StatusForbidden, res.StatusCode)
	})

	t.Run("Get Record As Admin", func(t *testing.T) {
		res, err := http.Get(server.URL + "/api/records/" + itoa(recordID) + "?requestingUserId=admin&requestingUserPassword=adminPass")
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(http.StatusOK, res.StatusCode)
	})

	t.Run("Get Record Invalid ID", func(t *testing.T) {
		res, err := http.Get(server.URL + "/api/records/not-a-number?requestingUserId=admin&requestingUserPassword=adminPass")
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(http.StatusBadRequest, res.StatusCode)
	})

	t.Run("Update Record Sentinel Fields", func(t *testing.T) {
		reqBody := models.AdminUpdateRecordRequest{
			AdminID:       "admin",
			AdminPassword: "adminPass",
			Record: models.RecordPayload{
				Mood:      "Tired",
				Exercises: "Plank: time 60 seconds",
			},
		}

		res := doJSON(t, http.MethodPut, server.URL+"/api/records/"+itoa(recordID), reqBody)
		defer res.Body.Close()
		assert.Equal(http.StatusNoContent, res.StatusCode)

		stored, err := storage.FindRecordByID(context.Background(), db, recordID)
		require.NoError(t, err)
		assert.Equal("Tired", stored.Mood)
		assert.Equal(float64(118), stored.HeartRate, "Zero heart rate in the payload must not clear the stored value")
		assert.Equal("Strength", stored.ActivityType, "Empty activity type must leave the stored value unchanged")
		assert.Equal("owner", stored.UserID, "Ownership never moves on update")

		exercises, err := storage.ListExercisesByRecord(context.Background(), db, recordID)
		require.NoError(t, err)
		require.Len(t, exercises, 1, "New exercises text fully replaces the derived rows")
		assert.Equal("Plank", exercises[0].ExerciseName)
	})

	t.Run("Update Record Requires Admin", func(t *testing.T) {
		reqBody := models.AdminUpdateRecordRequest{
			AdminID:       "owner",
			AdminPassword: "ownerPass",
			Record:        models.RecordPayload{Mood: "Sneaky"},
		}

		res := doJSON(t, http.MethodPut, server.URL+"/api/records/"+itoa(recordID), reqBody)
		defer res.Body.Close()
		assert.Equal(http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("List User Records", func(t *testing.T) {
		res, err := http.Get(server.URL + "/api/records/user/owner?requestingUserId=owner&requestingUserPassword=ownerPass")
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(http.StatusOK, res.StatusCode)

		var records []models.RecordResponse
		require.NoError(t, json.NewDecoder(res.Body).Decode(&records))
		assert.Len(records, 1)
	})

	t.Run("List All Records Requires Admin", func(t *testing.T) {
		res, err := http.Get(server.URL + "/api/records?adminId=owner&adminPassword=ownerPass")
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("Delete Record", func(t *testing.T) {
		reqBody := models.AdminCredentials{AdminID: "admin", AdminPassword: "adminPass"}

		res := doJSON(t, http.MethodDelete, server.URL+"/api/records/"+itoa(recordID), reqBody)
		defer res.Body.Close()
		assert.Equal(http.StatusNoContent, res.StatusCode)

		again := doJSON(t, http.MethodDelete, server.URL+"/api/records/"+itoa(recordID), reqBody)
		defer again.Body.Close()
		assert.Equal(http.StatusNotFound, again.StatusCode)
	})
}
