package user

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

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, u User) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.user.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if u.PhoneNumber == "" {
		return nil, errors.New("phone number empty")
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO app_user
				(phone_number, name, age, gender, height_cm, weight_kg, activity_level, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id;`,
		u.PhoneNumber, u.Name, u.Age, u.Gender, u.HeightCm, u.WeightKg, u.ActivityLevel, u.CreatedAt, u.UpdatedAt,
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

	span.SetAttributes(attribute.Int("user.id", id))

	u.ID = id
	return &u, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.user.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		userSelectColumns+` WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	users, err := r.rows2users(rows)
	if err != nil {
		return nil, err
	}

	if len(users) != 1 {
		return nil, ErrUserNotFound
	}

	return &users[0], nil
}

func (r *Repo) GetByPhone(ctx context.Context, phoneNumber string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.user.getByPhone")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		userSelectColumns+` WHERE phone_number = $1;`,
		phoneNumber,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	users, err := r.rows2users(rows)
	if err != nil {
		return nil, err
	}

	if len(users) != 1 {
		return nil, ErrUserNotFound
	}

	return &users[0], nil
}

func (r *Repo) Update(ctx context.Context, u *User) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.user.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", u.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE app_user SET name = $1, age = $2, gender = $3, height_cm = $4, weight_kg = $5, activity_level = $6, updated_at = $7 WHERE id = $8;`,
		u.Name, u.Age, u.Gender, u.HeightCm, u.WeightKg, u.ActivityLevel, time.Now(), u.ID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

const userSelectColumns = `
	SELECT
		id, phone_number, name, age, gender, height_cm, weight_kg, activity_level, created_at, updated_at
	FROM app_user`

func (r *Repo) rows2users(rows pgx.Rows) ([]User, error) {
	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID, &u.PhoneNumber, &u.Name, &u.Age, &u.Gender,
			&u.HeightCm, &u.WeightKg, &u.ActivityLevel, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	if users == nil {
		users = make([]User, 0)
	}

	return users, nil
}
