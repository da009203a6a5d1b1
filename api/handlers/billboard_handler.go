// api/handlers/billboard_handler.go
package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/healthtrack/healthtrack-backend/api/models"
	"github.com/healthtrack/healthtrack-backend/internal/domain"
	"github.com/healthtrack/healthtrack-backend/internal/storage"
)

// BillboardHandler holds dependencies for billboard chart handlers.
type BillboardHandler struct {
	DB *sql.DB
}

// NewBillboardHandler creates a new BillboardHandler.
func NewBillboardHandler(db *sql.DB) *BillboardHandler {
	return &BillboardHandler{DB: db}
}

// UpdateBillboard upserts a batch of chart entries keyed by chart rank. A
// later entry at an occupied rank overwrites the earlier one; entries with
// a missing title or artist or a non-positive rank are skipped.
func (h *BillboardHandler) UpdateBillboard(c *gin.Context) {
	var payload []models.BillboardPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		customLog.Warnf("UpdateBillboard binding error: %v", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid billboard payload"})
		return
	}

	if len(payload) == 0 {
		_ = c.Error(storage.ErrEmptyBatch)
		return
	}

	items := make([]domain.BillboardRecord, 0, len(payload))
	for _, p := range payload {
		items = append(items, domain.BillboardRecord{
			SongTitle:  p.SongTitle,
			Artist:     p.Artist,
			ChartRank:  p.ChartRank,
			StarNumber: p.StarNumber,
		})
	}

	updated, err := storage.UpsertBillboard(c.Request.Context(), h.DB, items)
	if err != nil {
		customLog.Warnf("Failed to upsert billboard batch: %v", err)
		_ = c.Error(err)
		return
	}

	out := make([]models.BillboardResponse, 0, len(updated))
	for i := range updated {
		out = append(out, models.NewBillboardResponse(updated[i]))
	}

	customLog.Printf("Billboard batch applied: %d of %d entries", len(updated), len(payload))
	c.JSON(http.StatusOK, gin.H{
		"message":        "Billboard records updated",
		"updatedRecords": out,
	})
}
