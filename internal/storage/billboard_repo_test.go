// internal/storage/billboard_repo_test.go
package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthtrack/healthtrack-backend/internal/domain"
)

func TestUpsertBillboard_InsertThenOverwrite(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first, err := UpsertBillboard(ctx, db, []domain.BillboardRecord{
		{SongTitle: "Song A", Artist: "Artist A", ChartRank: 1, StarNumber: 3},
	})
	require.NoError(t, err)
	require.Len(t, first, 1)
	firstID := first[0].ID

	// Same rank again overwrites in place; the row id stays the same.
	second, err := UpsertBillboard(ctx, db, []domain.BillboardRecord{
		{SongTitle: "Song B", Artist: "Artist B", ChartRank: 1, StarNumber: 5},
	})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, firstID, second[0].ID)

	stored, err := FindBillboardByRank(ctx, db, 1)
	require.NoError(t, err)
	assert.Equal(t, "Song B", stored.SongTitle)
	assert.Equal(t, "Artist B", stored.Artist)
	assert.Equal(t, 5, stored.StarNumber)
}

func TestUpsertBillboard_SkipsInvalidItems(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	accepted, err := UpsertBillboard(ctx, db, []domain.BillboardRecord{
		{SongTitle: "", Artist: "Artist", ChartRank: 1},
		{SongTitle: "Song", Artist: "", ChartRank: 2},
		{SongTitle: "Song", Artist: "Artist", ChartRank: 0},
		{SongTitle: "Valid", Artist: "Keeper", ChartRank: 3, StarNumber: 1},
	})
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, "Valid", accepted[0].SongTitle)
	assert.Equal(t, 3, accepted[0].ChartRank)

	_, err = FindBillboardByRank(ctx, db, 1)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	_, err = FindBillboardByRank(ctx, db, 2)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestUpsertBillboard_EmptyBatch(t *testing.T) {
	db := newTestDB(t)

	_, err := UpsertBillboard(context.Background(), db, nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestUpsertBillboard_LaterItemWinsWithinBatch(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	accepted, err := UpsertBillboard(ctx, db, []domain.BillboardRecord{
		{SongTitle: "Early", Artist: "One", ChartRank: 7, StarNumber: 1},
		{SongTitle: "Late", Artist: "Two", ChartRank: 7, StarNumber: 2},
	})
	require.NoError(t, err)
	require.Len(t, accepted, 2)

	stored, err := FindBillboardByRank(ctx, db, 7)
	require.NoError(t, err)
	assert.Equal(t, "Late", stored.SongTitle)
	assert.Equal(t, 2, stored.StarNumber)
}
