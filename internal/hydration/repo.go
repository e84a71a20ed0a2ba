package hydration

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

type IntakeParams struct {
	UserID int
	From   *time.Time
	To     *time.Time
}

type ListParams struct {
	IntakeParams
	Page int
	Size int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, event IntakeEvent) (_ *IntakeEvent, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.hydration.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := event.Validate(); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO water_log
				(user_id, amount, note, logged_at)
				VALUES ($1, $2, $3, $4)
			RETURNING id;`,
		event.UserID, event.Amount, event.Note, event.Timestamp,
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

	span.SetAttributes(attribute.Int("intake.id", id))

	event.ID = id
	return &event, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *IntakeEvent, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.hydration.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, amount, note, logged_at FROM water_log WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	events, err := r.rows2events(rows)
	if err != nil {
		return nil, err
	}

	if len(events) != 1 {
		return nil, ErrIntakeNotFound
	}

	return &events[0], nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.hydration.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM water_log WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrIntakeNotFound
	}
	return nil
}

// ListAll returns all intake events of a user, optionally bounded by time.
func (r *Repo) ListAll(ctx context.Context, params IntakeParams) (_ []IntakeEvent, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.hydration.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", params.UserID))
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, user_id, amount, note, logged_at FROM water_log
				WHERE user_id = $1
				AND ($2::timestamptz IS NULL OR logged_at >= $2)
				AND ($3::timestamptz IS NULL OR logged_at <= $3)
			ORDER BY logged_at ASC;`,
		params.UserID, params.From, params.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	events, err := r.rows2events(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2events: %w", err)
	}
	return events, nil
}

// List is like ListAll, but it returns the specific PAGE of a user's intake
// events, i.e. is used for pagination.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []IntakeEvent, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.hydration.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))
	span.SetAttributes(attribute.Int("user_id", params.UserID))

	if params.Page < 1 {
		return nil, -1, errors.New("page must be greater than 0")
	}
	if params.Size < 1 {
		return nil, -1, errors.New("size must be greater than 0")
	}

	limit := params.Size
	offset := (params.Page - 1) * params.Size
	countAll, err := r.IntakesCount(ctx, params.IntakeParams)
	if err != nil {
		return nil, -1, err
	}

	if countAll <= limit {
		limit = countAll
		offset = 0
	}

	if countAll-offset < limit {
		offset = countAll - limit
	}

	span.SetAttributes(attribute.Int("count_all", countAll))
	span.SetAttributes(attribute.Int("limit", limit))
	span.SetAttributes(attribute.Int("offset", offset))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, user_id, amount, note, logged_at FROM water_log
				WHERE user_id = $1
				AND ($4::timestamptz IS NULL OR logged_at >= $4)
				AND ($5::timestamptz IS NULL OR logged_at <= $5)
			ORDER BY logged_at DESC
			LIMIT $2
			OFFSET $3;`,
		params.UserID, limit, offset, params.From, params.To,
	)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, -1, err
	}

	events, err := r.rows2events(rows)
	if err != nil {
		return nil, -1, err
	}
	return events, countAll, nil
}

func (r *Repo) IntakesCount(ctx context.Context, params IntakeParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.hydration.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT COUNT(*) FROM water_log
			WHERE user_id = $1
			AND ($2::timestamptz IS NULL OR logged_at >= $2)
			AND ($3::timestamptz IS NULL OR logged_at <= $3);
	`,
		params.UserID, params.From, params.To,
	)
	if err != nil {
		return -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return -1, err
	}

	if rows.Next() {
		var count int
		if err := rows.Scan(&count); err == nil {
			return count, nil
		}
	}

	return -1, errors.New("unexpected error, failed to get intakes count")
}

// DailyTotal sums the intake amounts of a user for the calendar day of the
// given moment, in the moment's location.
func (r *Repo) DailyTotal(ctx context.Context, userID int, day time.Time) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.hydration.dailytotal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	rows, err := r.db.Query(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM water_log
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

	return -1, errors.New("unexpected error, failed to get daily total")
}

func (r *Repo) rows2events(rows pgx.Rows) ([]IntakeEvent, error) {
	var events []IntakeEvent
	for rows.Next() {
		var id int
		var userID int
		var amount int
		var note string
		var loggedAt time.Time
		if err := rows.Scan(&id, &userID, &amount, &note, &loggedAt); err != nil {
			return nil, err
		}

		events = append(events, IntakeEvent{
			ID:        id,
			UserID:    userID,
			Amount:    amount,
			Note:      note,
			Timestamp: loggedAt,
		})
	}

	if events == nil {
		events = make([]IntakeEvent, 0)
	}

	return events, nil
}
