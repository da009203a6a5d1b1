// api/handlers/record_handler.go
package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/healthtrack/healthtrack-backend/api/models"
	"github.com/healthtrack/healthtrack-backend/config"
	"github.com/healthtrack/healthtrack-backend/internal/auth"
	"github.com/healthtrack/healthtrack-backend/internal/core"
	"github.com/healthtrack/healthtrack-backend/internal/domain"
	"github.com/healthtrack/healthtrack-backend/internal/exercise"
	"github.com/healthtrack/healthtrack-backend/internal/storage"
)

// RecordHandler holds dependencies for activity record handlers.
type RecordHandler struct {
	DB   *sql.DB
	Cfg  *config.Config
	Gate *auth.Gate
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(db *sql.DB, cfg *config.Config) *RecordHandler {
	return &RecordHandler{
		DB:   db,
		Cfg:  cfg,
		Gate: auth.NewGate(&storage.UserDirectory{DB: db}, cfg.HashedCredentials),
	}
}

// CreateRecord stores a new activity record plus the exercise rows decoded
// from its exercises text. The actor must be the record's owner or an admin.
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	var req models.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("CreateRecord binding error: %v", err)
		_ = c.Error(err)
		return
	}

	actor, err := h.Gate.VerifyCredentials(c.Request.Context(), req.ActorID, req.ActorPassword)
	if err != nil {
		_ = c.Error(err)
		return
	}

	payload := req.Record
	if _, missing := core.FirstMissing(
		core.Field{Label: "UserId", Value: payload.UserID},
		core.Field{Label: "ActivityType", Value: payload.ActivityType},
		core.Field{Label: "Mood", Value: payload.Mood},
		core.Field{Label: "Duration", Value: payload.Duration},
	); missing {
		customLog.Warnf("Invalid record data: required field missing")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "UserId, ActivityType, Mood, and Duration are required"})
		return
	}

	if label, over := core.ExceedsLimits(
		core.Field{Label: "UserId", Value: payload.UserID, Max: core.MaxUserIDLen},
		core.Field{Label: "ActivityType", Value: payload.ActivityType, Max: core.MaxActivityTypeLen},
		core.Field{Label: "Mood", Value: payload.Mood, Max: core.MaxMoodLen},
		core.Field{Label: "Duration", Value: payload.Duration, Max: core.MaxDurationLen},
	); over {
		customLog.Warnf("Invalid record data: %s exceeds length limit", label)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": label + " exceeds the allowed length"})
		return
	}

	if err := h.Gate.Authorize(actor, payload.UserID); err != nil {
		_ = c.Error(err)
		return
	}

	if _, err := storage.FindUserByID(c.Request.Context(), h.DB, payload.UserID); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			customLog.Warnf("CreateRecord for nonexistent user: %s", payload.UserID)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cannot create a record for a nonexistent user"})
			return
		}
		_ = c.Error(err)
		return
	}

	record := &domain.ActivityRecord{
		UserID:       payload.UserID,
		ActivityType: strings.TrimSpace(payload.ActivityType),
		HeartRate:    payload.HeartRate,
		Mood:         strings.TrimSpace(payload.Mood),
		Duration:     strings.TrimSpace(payload.Duration),
		Exercises:    payload.Exercises,
		CreatedAt:    time.Now().UTC(),
	}

	entries := exercise.Decode(record.Exercises).All()
	recordID, err := storage.CreateRecordWithExercises(c.Request.Context(), h.DB, record, entries)
	if err != nil {
		customLog.Warnf("Failed to create record for user %s: %v", record.UserID, err)
		_ = c.Error(err)
		return
	}
	record.ID = recordID

	customLog.Printf("Record %d created for user %s (%d exercise rows)", record.ID, record.UserID, len(entries))
	c.JSON(http.StatusCreated, models.NewRecordResponse(record))
}

// GetRecord returns one activity record; allowed for its owner or an admin.
func (h *RecordHandler) GetRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid record ID format"})
		return
	}

	actor, err := resolveActor(c, h.Gate, h.DB, h.Cfg,
		c.Query("requestingUserId"), c.Query("requestingUserPassword"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	record, err := storage.FindRecordByID(c.Request.Context(), h.DB, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.Gate.Authorize(actor, record.UserID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, models.NewRecordResponse(record))
}

// ListRecords returns every activity record. Admin-only.
func (h *RecordHandler) ListRecords(c *gin.Context) {
	if _, err := h.Gate.VerifyAdmin(c.Request.Context(),
		c.Query("adminId"), c.Query("adminPassword")); err != nil {
		_ = c.Error(err)
		return
	}

	records, err := storage.ListRecords(c.Request.Context(), h.DB)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, recordResponses(records))
}

// ListUserRecords returns all records owned by one user; allowed for that
// user or an admin.
func (h *RecordHandler) ListUserRecords(c *gin.Context) {
	userID := c.Param("userId")

	actor, err := resolveActor(c, h.Gate, h.DB, h.Cfg,
		c.Query("requestingUserId"), c.Query("requestingUserPassword"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.Gate.Authorize(actor, userID); err != nil {
		_ = c.Error(err)
		return
	}

	records, err := storage.ListRecordsByUser(c.Request.Context(), h.DB, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, recordResponses(records))
}

// UpdateRecord applies a partial update to a record and rebuilds its
// exercise rows from the resulting exercises text. Admin-only; zero-valued
// fields leave the stored values unchanged and ownership never moves.
func (h *RecordHandler) UpdateRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid record ID format"})
		return
	}

	var req models.AdminUpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("UpdateRecord binding error: %v", err)
		_ = c.Error(err)
		return
	}

	if _, err := h.Gate.VerifyAdmin(c.Request.Context(), req.AdminID, req.AdminPassword); err != nil {
		_ = c.Error(err)
		return
	}

	record, err := storage.FindRecordByID(c.Request.Context(), h.DB, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	updated := req.Record
	if updated.ID != 0 && updated.ID != id {
		customLog.Warnf("UpdateRecord ID mismatch: %d vs %d", id, updated.ID)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "ID mismatch"})
		return
	}

	if updated.ActivityType != "" {
		record.ActivityType = strings.TrimSpace(updated.ActivityType)
	}
	if updated.HeartRate != 0 {
		record.HeartRate = updated.HeartRate
	}
	if updated.Mood != "" {
		record.Mood = strings.TrimSpace(updated.Mood)
	}
	if updated.Duration != "" {
		record.Duration = strings.TrimSpace(updated.Duration)
	}
	if updated.Exercises != "" {
		record.Exercises = updated.Exercises
	}

	entries := exercise.Decode(record.Exercises).All()
	if err := storage.UpdateRecordWithExercises(c.Request.Context(), h.DB, record, entries); err != nil {
		customLog.Warnf("Failed to update record %d: %v", id, err)
		_ = c.Error(err)
		return
	}

	customLog.Printf("Record updated: %d", id)
	c.Status(http.StatusNoContent)
}

// DeleteRecord removes a record and its exercise rows. Admin-only.
func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid record ID format"})
		return
	}

	var req models.AdminCredentials
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("DeleteRecord binding error: %v", err)
		_ = c.Error(err)
		return
	}

	if _, err := h.Gate.VerifyAdmin(c.Request.Context(), req.AdminID, req.AdminPassword); err != nil {
		_ = c.Error(err)
		return
	}

	if err := storage.DeleteRecordCascade(c.Request.Context(), h.DB, id); err != nil {
		_ = c.Error(err)
		return
	}

	customLog.Printf("Record deleted: %d", id)
	c.Status(http.StatusNoContent)
}

func recordResponses(records []domain.ActivityRecord) []models.RecordResponse {
	out := make([]models.RecordResponse, 0, len(records))
	for i := range records {
		out = append(out, models.NewRecordResponse(&records[i]))
	}
	return out
}
