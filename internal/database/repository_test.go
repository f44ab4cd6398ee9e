package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigradar/internal/models"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return NewRepository(db)
}

func sampleEvent(title string) models.Event {
	return models.Event{
		Title:      title,
		Start:      time.Date(2025, time.July, 4, 21, 0, 0, 0, time.UTC),
		End:        time.Date(2025, time.July, 4, 23, 30, 0, 0, time.UTC),
		Location:   "Technopolis",
		ImageURL:   "https://example.com/img.jpg",
		DetailsURL: "https://example.com/events/" + title,
		SourceName: "example.com",
		SourceURL:  "https://example.com/events",
	}
}

func TestUpsertEventsIsIdempotentByDetailsURL(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	batch := []models.Event{sampleEvent("alpha"), sampleEvent("beta")}

	stats, err := repo.UpsertEvents(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, UpsertStats{Inserted: 2}, stats)

	stats, err = repo.UpsertEvents(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, UpsertStats{Updated: 2}, stats)

	n, err := repo.CountEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestUpsertEventsMatchesByTitleAndLocation(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	ev := sampleEvent("gamma")
	ev.DetailsURL = ""

	_, err := repo.UpsertEvents(ctx, []models.Event{ev})
	require.NoError(t, err)

	// Same title and location, fresher times: overwrite in place.
	ev.Start = ev.Start.Add(time.Hour)
	ev.End = ev.End.Add(time.Hour)

	stats, err := repo.UpsertEvents(ctx, []models.Event{ev})
	require.NoError(t, err)
	assert.Equal(t, UpsertStats{Updated: 1}, stats)

	stored, err := repo.ListEvents(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Start.Equal(ev.Start), "start overwritten")
}

func TestUpsertEventsUpdatesChangedFields(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	ev := sampleEvent("delta")

	_, err := repo.UpsertEvents(ctx, []models.Event{ev})
	require.NoError(t, err)

	ev.Title = "Delta (rescheduled)"
	ev.Location = "Lycabettus"

	stats, err := repo.UpsertEvents(ctx, []models.Event{ev})
	require.NoError(t, err)
	assert.Equal(t, UpsertStats{Updated: 1}, stats)

	stored, err := repo.ListEvents(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Delta (rescheduled)", stored[0].Title)
	assert.Equal(t, "Lycabettus", stored[0].Location)
}

func TestUpsertEventsSkipsIdentitylessRecords(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	blank := models.Event{
		Start:      time.Date(2025, time.July, 4, 21, 0, 0, 0, time.UTC),
		End:        time.Date(2025, time.July, 4, 23, 0, 0, 0, time.UTC),
		Location:   "Somewhere",
		SourceName: "example.com",
	}

	stats, err := repo.UpsertEvents(ctx, []models.Event{blank, sampleEvent("epsilon")})
	require.NoError(t, err)
	assert.Equal(t, UpsertStats{Inserted: 1, Skipped: 1}, stats)
}

func TestListEventsFilters(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	early := sampleEvent("early")
	early.Start = time.Date(2025, time.June, 1, 21, 0, 0, 0, time.UTC)
	early.End = early.Start.Add(2 * time.Hour)

	late := sampleEvent("late")
	late.Start = time.Date(2025, time.August, 1, 21, 0, 0, 0, time.UTC)
	late.End = late.Start.Add(2 * time.Hour)
	late.SourceName = "other.gr"

	_, err := repo.UpsertEvents(ctx, []models.Event{late, early})
	require.NoError(t, err)

	all, err := repo.ListEvents(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "early", all[0].Title, "ordered by start date")

	bySource, err := repo.ListEvents(ctx, ListFilter{Source: "other.gr"})
	require.NoError(t, err)
	require.Len(t, bySource, 1)
	assert.Equal(t, "late", bySource[0].Title)

	fromJuly, err := repo.ListEvents(ctx, ListFilter{From: time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	require.Len(t, fromJuly, 1)
	assert.Equal(t, "late", fromJuly[0].Title)
}
