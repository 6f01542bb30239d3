package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestCursorEncodeDecodeRoundTrip(t *testing.T) {
	cursor := Cursor{
		CreatedAt: time.Date(2026, 2, 10, 12, 0, 0, 123456000, time.UTC),
		ID:        uuid.New(),
	}

	decoded, err := DecodeCursor(cursor.Encode())
	require.NoError(t, err)
	require.NotNil(t, decoded)
	require.True(t, decoded.CreatedAt.Equal(cursor.CreatedAt))
	require.Equal(t, cursor.ID, decoded.ID)
}

func TestDecodeCursorEmptyMeansFirstPage(t *testing.T) {
	decoded, err := DecodeCursor("   ")
	require.NoError(t, err)
	require.Nil(t, decoded)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	for _, token := range []string{
		"%%%",
		"bm8tcGlwZS1oZXJl", // valid base64, no separator
		"MjAyNi0wMi0xMHxub3QtYS11dWlk", // valid shape, bad uuid
	} {
		_, err := DecodeCursor(token)
		require.Error(t, err, "token %q should not decode", token)
	}
}

func TestApplyCursorPaginationFiltersByCreatedAt(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	base := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	models := []*LogEntry{
		{ID: uuid.New(), Action: "api.call", CreatedAt: base.Add(-2 * time.Hour)},
		{ID: uuid.New(), Action: "api.call", CreatedAt: base.Add(-1 * time.Hour)},
		{ID: uuid.New(), Action: "api.call", CreatedAt: base},
	}
	insertModels(t, db, models)

	cursor := &Cursor{
		CreatedAt: models[1].CreatedAt,
		ID:        models[1].ID,
	}

	var rows []LogEntry
	err := ApplyCursorPagination(db.NewSelect().Model(&rows), cursor, 10).Scan(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, models[0].ID, rows[0].ID)
}

func TestApplyCursorPaginationBreaksTiesWithID(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	createdAt := time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)
	idLow := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	idHigh := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	insertModels(t, db, []*LogEntry{
		{ID: idLow, Action: "api.call", CreatedAt: createdAt},
		{ID: idHigh, Action: "api.call", CreatedAt: createdAt},
	})

	cursor := &Cursor{
		CreatedAt: createdAt,
		ID:        idHigh,
	}

	var rows []LogEntry
	err := ApplyCursorPagination(db.NewSelect().Model(&rows), cursor, 10).Scan(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, idLow, rows[0].ID)
}

func insertModels(t *testing.T, db *bun.DB, models []*LogEntry) {
	t.Helper()
	_, err := db.NewInsert().Model(&models).Exec(context.Background())
	require.NoError(t, err)
}
