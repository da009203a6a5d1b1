// internal/domain/models.go
package domain

import "time"

// User defines the structure for user account data in the DB.
// Password holds the stored secret (verbatim or bcrypt hash depending on
// configuration) and must never be serialized in responses.
type User struct {
	ID        string
	Name      string
	Password  string
	Age       int
	Sex       string
	CreatedAt time.Time
	IsAdmin   bool
}

// ActivityRecord is one logged activity session for a user. Exercises holds
// the raw encoded exercise text verbatim; the decoded Exercise rows are a
// derived projection of it.
type ActivityRecord struct {
	ID           int64
	UserID       string
	ActivityType string
	HeartRate    float64
	Mood         string
	Duration     string
	Exercises    string
	CreatedAt    time.Time
}

// Exercise is one decoded (metric, value, unit) triple under a named
// exercise, owned by an ActivityRecord.
type Exercise struct {
	ID           int64
	RecordID     int64
	ExerciseName string
	Metric       string
	Value        string
	Unit         string
}

// BillboardRecord is one chart entry, upserted by ChartRank.
type BillboardRecord struct {
	ID         int64
	SongTitle  string
	Artist     string
	ChartRank  int
	StarNumber int
	UpdatedAt  time.Time
}

// UserStars is the per-user aggregation of distinct activity types.
type UserStars struct {
	Username  string `json:"username"`
	StarCount int    `json:"starCount"`
}
