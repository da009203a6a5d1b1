// api/models/billboard_models.go
package models

import (
	"time"

	"github.com/healthtrack/healthtrack-backend/internal/domain"
)

// BillboardPayload is one chart entry in an upsert batch.
type BillboardPayload struct {
	SongTitle  string `json:"songTitle"`
	Artist     string `json:"artist"`
	ChartRank  int    `json:"chartRank"`
	StarNumber int    `json:"starNumber"`
}

// BillboardResponse is the public projection of a chart entry.
type BillboardResponse struct {
	ID         int64     `json:"id"`
	SongTitle  string    `json:"songTitle"`
	Artist     string    `json:"artist"`
	ChartRank  int       `json:"chartRank"`
	StarNumber int       `json:"starNumber"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewBillboardResponse maps a domain billboard entry onto its public projection.
func NewBillboardResponse(b domain.BillboardRecord) BillboardResponse {
	return BillboardResponse{
		ID:         b.ID,
		SongTitle:  b.SongTitle,
		Artist:     b.Artist,
		ChartRank:  b.ChartRank,
		StarNumber: b.StarNumber,
		UpdatedAt:  b.UpdatedAt,
	}
}
