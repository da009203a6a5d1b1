// api/models/record_models.go
package models

import (
	"time"

	"github.com/healthtrack/healthtrack-backend/internal/domain"
)

// --- Record Request Structs ---

// RecordPayload carries activity record fields supplied by a client. The
// exercises field is the raw encoded text, stored verbatim.
type RecordPayload struct {
	ID           int64   `json:"id"`
	UserID       string  `json:"userId"`
	ActivityType string  `json:"activityType"`
	HeartRate    float64 `json:"heartRate"`
	Mood         string  `json:"mood"`
	Duration     string  `json:"duration"`
	Exercises    string  `json:"exercises"`
}

// CreateRecordRequest embeds the acting user's credentials alongside the
// record to create. Creating a record for another user requires the actor to
// be an administrator.
type CreateRecordRequest struct {
	ActorID       string        `json:"actorId" binding:"required"`
	ActorPassword string        `json:"actorPassword" binding:"required"`
	Record        RecordPayload `json:"record" binding:"required"`
}

// AdminUpdateRecordRequest embeds admin credentials alongside the partial
// record update. Empty strings and a zero heart rate leave the stored values
// unchanged.
type AdminUpdateRecordRequest struct {
	AdminID       string        `json:"adminId" binding:"required"`
	AdminPassword string        `json:"adminPassword" binding:"required"`
	Record        RecordPayload `json:"record" binding:"required"`
}

// --- Record Response Structs ---

// RecordResponse is the public projection of an activity record.
type RecordResponse struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"userId"`
	ActivityType string    `json:"activityType"`
	HeartRate    float64   `json:"heartRate"`
	Mood         string    `json:"mood"`
	Duration     string    `json:"duration"`
	Exercises    string    `json:"exercises"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewRecordResponse maps a domain record onto its public projection.
func NewRecordResponse(r *domain.ActivityRecord) RecordResponse {
	return RecordResponse{
		ID:           r.ID,
		UserID:       r.UserID,
		ActivityType: r.ActivityType,
		HeartRate:    r.HeartRate,
		Mood:         r.Mood,
		Duration:     r.Duration,
		Exercises:    r.Exercises,
		CreatedAt:    r.CreatedAt,
	}
}
