package health

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

type RecordParams struct {
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

func (r *Repo) Add(ctx context.Context, rec Record) (_ *Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO health_record
				(user_id, weight_kg, sleep_hours, mood_score, energy_level, notes, record_date, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id;`,
		rec.UserID, rec.WeightKg, rec.SleepHours, rec.MoodScore, rec.EnergyLevel, rec.Notes, rec.RecordDate, rec.CreatedAt,
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

	span.SetAttributes(attribute.Int("record.id", id))

	rec.ID = id
	return &rec, nil
}

// Latest returns the most recent health record of a user.
func (r *Repo) Latest(ctx context.Context, userID int) (_ *Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.latest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))

	rows, err := r.db.Query(
		ctx,
		recordSelectColumns+`
			WHERE user_id = $1
			ORDER BY record_date DESC, created_at DESC
			LIMIT 1;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	records, err := r.rows2records(rows)
	if err != nil {
		return nil, err
	}

	if len(records) != 1 {
		return nil, ErrRecordNotFound
	}

	return &records[0], nil
}

// ListAll returns all health records of a user, optionally bounded by time.
func (r *Repo) ListAll(ctx context.Context, params RecordParams) (_ []Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", params.UserID))

	rows, err := r.db.Query(
		ctx,
		recordSelectColumns+`
			WHERE user_id = $1
			AND ($2::timestamptz IS NULL OR record_date >= $2)
			AND ($3::timestamptz IS NULL OR record_date <= $3)
			ORDER BY record_date DESC;`,
		params.UserID, params.From, params.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return r.rows2records(rows)
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM health_record WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

const recordSelectColumns = `
	SELECT
		id, user_id, weight_kg, sleep_hours, mood_score, energy_level, notes, record_date, created_at
	FROM health_record`

func (r *Repo) rows2records(rows pgx.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.WeightKg, &rec.SleepHours, &rec.MoodScore,
			&rec.EnergyLevel, &rec.Notes, &rec.RecordDate, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if records == nil {
		records = make([]Record, 0)
	}

	return records, nil
}
