package steps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/healthtrack/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type EntryParams struct {
	UserID int
	From   *time.Time
	To     *time.Time
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, entry Entry) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.steps.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if entry.Steps <= 0 {
		return nil, errors.New("steps must be greater than 0")
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO step_log
				(user_id, steps, distance_km, calories, logged_at)
				VALUES ($1, $2, $3, $4, $5)
			RETURNING id;`,
		entry.UserID, entry.Steps, entry.DistanceKm, entry.Calories, entry.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.Int("entry.id", id))

	entry.ID = id
	return &entry, nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.steps.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM step_log WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// ListAll returns all step entries of a user, optionally bounded by time.
func (r *Repo) ListAll(ctx context.Context, params EntryParams) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.steps.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", params.UserID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, user_id, steps, distance_km, calories, logged_at FROM step_log
				WHERE user_id = $1
				AND ($2::timestamptz IS NULL OR logged_at >= $2)
				AND ($3::timestamptz IS NULL OR logged_at <= $3)
			ORDER BY logged_at DESC;`,
		params.UserID, params.From, params.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return r.rows2entries(rows)
}

// DailyTotal sums the steps of a user for the calendar day of the given
// moment, in the moment's location.
func (r *Repo) DailyTotal(ctx context.Context, userID int, day time.Time) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.steps.dailytotal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	rows, err := r.db.Query(ctx, `
		SELECT COALESCE(SUM(steps), 0) FROM step_log
			WHERE user_id = $1
			AND logged_at >= $2
			AND logged_at < $3;
	`,
		userID, dayStart, dayEnd,
	)
	if err != nil {
		return -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return -1, err
	}

	if rows.Next() {
		var total int
		if err := rows.Scan(&total); err == nil {
			return total, nil
		}
	}

	return -1, errors.New("unexpected error, failed to get daily steps total")
}

func (r *Repo) rows2entries(rows pgx.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Steps, &e.DistanceKm, &e.Calories, &e.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if entries == nil {
		entries = make([]Entry, 0)
	}

	return entries, nil
}
