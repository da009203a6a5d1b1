// internal/storage/billboard_repo.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/healthtrack/healthtrack-backend/internal/domain"
)

// ErrEmptyBatch reports an upsert call with no items at all.
var ErrEmptyBatch = errors.New("billboard records are required")

// UpsertBillboard applies a batch of chart entries keyed by chart rank.
// Items with an empty song title or artist, or a non-positive rank, are
// skipped silently without affecting the rest of the batch. Surviving items
// are flushed in one transaction; a flush failure rejects the whole batch.
//
// The UNIQUE constraint on chart_rank makes the insert-or-overwrite atomic,
// so two concurrent upserts for the same new rank cannot both insert.
func UpsertBillboard(ctx context.Context, db *sql.DB, items []domain.BillboardRecord) ([]domain.BillboardRecord, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start billboard upsert: %w", err)
	}
	defer tx.Rollback()

	upsertSQL := `
	INSERT INTO billboard_records (song_title, artist, chart_rank, star_number, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(chart_rank) DO UPDATE SET
		song_title = excluded.song_title,
		artist = excluded.artist,
		star_number = excluded.star_number,
		updated_at = excluded.updated_at`

	accepted := make([]domain.BillboardRecord, 0, len(items))
	for _, item := range items {
		if item.SongTitle == "" || item.Artist == "" || item.ChartRank <= 0 {
			customLog.Warnf("Storage: Skipping invalid billboard item (rank %d)", item.ChartRank)
			continue
		}

		item.SongTitle = strings.TrimSpace(item.SongTitle)
		item.Artist = strings.TrimSpace(item.Artist)
		item.UpdatedAt = time.Now().UTC()

		if _, err := tx.ExecContext(ctx, upsertSQL,
			item.SongTitle, item.Artist, item.ChartRank, item.StarNumber, item.UpdatedAt); err != nil {
			customLog.Warnf("Storage: Failed billboard upsert for rank %d: %v", item.ChartRank, err)
			return nil, fmt.Errorf("database error during billboard upsert: %w", err)
		}

		// Re-read so the response carries the row id regardless of whether
		// the item inserted or overwrote.
		row := tx.QueryRowContext(ctx,
			`SELECT id FROM billboard_records WHERE chart_rank = ? LIMIT 1`, item.ChartRank)
		if err := row.Scan(&item.ID); err != nil {
			return nil, fmt.Errorf("failed confirming billboard upsert: %w", err)
		}

		accepted = append(accepted, item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit billboard upsert: %w", err)
	}
	return accepted, nil
}

// FindBillboardByRank retrieves the current entry at a chart rank.
func FindBillboardByRank(ctx context.Context, db *sql.DB, rank int) (*domain.BillboardRecord, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, song_title, artist, chart_rank, star_number, updated_at FROM billboard_records WHERE chart_rank = ? LIMIT 1`, rank)

	var rec domain.BillboardRecord
	err := row.Scan(&rec.ID, &rec.SongTitle, &rec.Artist, &rec.ChartRank, &rec.StarNumber, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		customLog.Warnf("Storage: Failed to find billboard entry at rank %d: %v", rank, err)
		return nil, fmt.Errorf("database error finding billboard entry: %w", err)
	}
	return &rec, nil
}
