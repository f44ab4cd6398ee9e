package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gigradar/internal/models"
)

// UpsertStats counts what one batch upsert did.
type UpsertStats struct {
	Inserted int
	Updated  int
	Skipped  int
}

// Repository reads and writes events.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repository over an open database.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// UpsertEvents persists a batch inside one transaction. Identity is the
// details URL when the event carries one, otherwise the (title, location)
// pair; matched rows are overwritten in place so re-crawling the same pages
// never grows the table. Events with neither a details URL nor a title have
// no usable identity and are skipped.
func (r *Repository) UpsertEvents(ctx context.Context, events []models.Event) (UpsertStats, error) {
	var stats UpsertStats

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	for _, ev := range events {
		if ev.DetailsURL == "" && ev.Title == "" {
			stats.Skipped++

			continue
		}

		id, err := findExisting(ctx, tx, ev)
		if err != nil {
			return stats, err
		}

		if id == 0 {
			if err := insertEvent(ctx, tx, ev, now); err != nil {
				return stats, err
			}

			stats.Inserted++

			continue
		}

		if err := updateEvent(ctx, tx, id, ev, now); err != nil {
			return stats, err
		}

		stats.Updated++
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("commit transaction: %w", err)
	}

	return stats, nil
}

func findExisting(ctx context.Context, tx *sql.Tx, ev models.Event) (int64, error) {
	var (
		id  int64
		err error
	)

	if key, byDetailsURL := ev.IdentityKey(); byDetailsURL {
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM events WHERE details_url = ?`, key).Scan(&id)
	} else {
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM events WHERE title = ? AND location = ?`, ev.Title, ev.Location).Scan(&id)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("look up event: %w", err)
	}

	return id, nil
}

func insertEvent(ctx context.Context, tx *sql.Tx, ev models.Event, now time.Time) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO events (title, start_date, end_date, location, image_url, details_url, source_name, source_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.Title, ev.Start.UTC(), ev.End.UTC(), ev.Location, ev.ImageURL, ev.DetailsURL,
		ev.SourceName, ev.SourceURL, now, now)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}

func updateEvent(ctx context.Context, tx *sql.Tx, id int64, ev models.Event, now time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE events
		 SET title = ?, start_date = ?, end_date = ?, location = ?, image_url = ?, details_url = ?, source_name = ?, source_url = ?, updated_at = ?
		 WHERE id = ?`,
		ev.Title, ev.Start.UTC(), ev.End.UTC(), ev.Location, ev.ImageURL, ev.DetailsURL,
		ev.SourceName, ev.SourceURL, now, id)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}

	return nil
}

// ListFilter narrows a listing query. Zero values mean "no constraint".
type ListFilter struct {
	Source string
	From   time.Time
}

// ListEvents returns stored events ordered by start date, optionally
// filtered by source name and by a minimum start date.
func (r *Repository) ListEvents(ctx context.Context, filter ListFilter) ([]models.StoredEvent, error) {
	query := `SELECT id, title, start_date, end_date, location, image_url, details_url, source_name, source_url, created_at, updated_at
		FROM events WHERE 1=1`

	var args []any

	if filter.Source != "" {
		query += ` AND source_name = ?`
		args = append(args, filter.Source)
	}

	if !filter.From.IsZero() {
		query += ` AND start_date >= ?`
		args = append(args, filter.From.UTC())
	}

	query += ` ORDER BY start_date, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []models.StoredEvent

	for rows.Next() {
		var ev models.StoredEvent

		err := rows.Scan(&ev.ID, &ev.Title, &ev.Start, &ev.End, &ev.Location, &ev.ImageURL,
			&ev.DetailsURL, &ev.SourceName, &ev.SourceURL, &ev.CreatedAt, &ev.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		out = append(out, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return out, nil
}

// CountEvents returns the total number of stored events.
func (r *Repository) CountEvents(ctx context.Context) (int, error) {
	var n int

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}

	return n, nil
}
