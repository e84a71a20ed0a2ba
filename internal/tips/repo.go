package tips

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/healthtrack/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Seed loads the starting tips into an empty table. A table with any
// tips in it is left alone.
func (r *Repo) Seed(ctx context.Context) error {
	count, err := r.Count(ctx)
	if err != nil {
		return fmt.Errorf("count tips: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, tip := range seedTips {
		if _, err := r.Add(ctx, tip); err != nil {
			return fmt.Errorf("seed tip: %w", err)
		}
	}

	log.Debugf("seeded %d health tips", len(seedTips))
	return nil
}

func (r *Repo) Add(ctx context.Context, tip Tip) (_ *Tip, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tips.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if tip.Content == "" {
		return nil, errors.New("tip content empty")
	}
	if tip.CreatedAt.IsZero() {
		tip.CreatedAt = time.Now()
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO health_tip (category, content, created_at) VALUES ($1, $2, $3) RETURNING id;`,
		tip.Category, tip.Content, tip.CreatedAt,
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

	span.SetAttributes(attribute.Int("tip.id", id))

	tip.ID = id
	return &tip, nil
}

// Random returns a random tip, optionally narrowed down to a category.
func (r *Repo) Random(ctx context.Context, category string) (_ *Tip, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tips.random")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("category", category))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, category, content, created_at FROM health_tip
				WHERE ($1::text = '' OR category = $1)
			ORDER BY random()
			LIMIT 1;`,
		category,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrNoTips
	}

	var tip Tip
	if err := rows.Scan(&tip.ID, &tip.Category, &tip.Content, &tip.CreatedAt); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	return &tip, nil
}

func (r *Repo) Count(ctx context.Context) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tips.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT COUNT(*) FROM health_tip;`)
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

	return -1, errors.New("unexpected error, failed to get tips count")
}
