package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taskchat/internal/storeerr"
)

// NewPostgresStore returns a Postgres-backed task Store.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

type pgStore struct {
	pool *pgxpool.Pool
}

// InitSchema creates the tasks table and its ownership/listing indexes.
// Idempotent; safe to call on every startup. A package function rather than
// a Store method so callers don't need the concrete Postgres type just to
// run migrations at boot.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS tasks (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    owner TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS tasks_owner_created_idx ON tasks(owner, created_at ASC, id ASC);
`)
	return err
}

func (s *pgStore) Create(ctx context.Context, owner, title, description string) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > 255 {
		return Task{}, fmt.Errorf("title: %w", storeerr.ErrValidation)
	}
	if len(description) > 2000 {
		return Task{}, fmt.Errorf("description: %w", storeerr.ErrValidation)
	}
	var t Task
	row := s.pool.QueryRow(ctx, `
INSERT INTO tasks (owner, title, description)
VALUES ($1, $2, $3)
RETURNING id, owner, title, description, completed, created_at, updated_at`,
		owner, title, description)
	if err := row.Scan(&t.ID, &t.Owner, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (s *pgStore) List(ctx context.Context, owner string, params ListParams) ([]Task, int, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	where := []string{"owner = $1"}
	args := []any{owner}
	if params.Completed != nil {
		args = append(args, *params.Completed)
		where = append(where, fmt.Sprintf("completed = $%d", len(args)))
	}
	if strings.TrimSpace(params.Search) != "" {
		args = append(args, "%"+strings.ToLower(params.Search)+"%")
		where = append(where, fmt.Sprintf("LOWER(title) LIKE $%d", len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
SELECT id, owner, title, description, completed, created_at, updated_at
FROM tasks
WHERE %s
ORDER BY created_at ASC, id ASC
LIMIT $%d OFFSET $%d`, whereClause, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Task, 0, limit)
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Owner, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

func (s *pgStore) Update(ctx context.Context, owner string, taskID int64, title, description *string) (Task, error) {
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" || len(trimmed) > 255 {
			return Task{}, fmt.Errorf("title: %w", storeerr.ErrValidation)
		}
		title = &trimmed
	}
	if description != nil && len(*description) > 2000 {
		return Task{}, fmt.Errorf("description: %w", storeerr.ErrValidation)
	}

	row := s.pool.QueryRow(ctx, `
UPDATE tasks
SET title = COALESCE($3, title),
    description = COALESCE($4, description),
    updated_at = NOW()
WHERE id = $1 AND owner = $2
RETURNING id, owner, title, description, completed, created_at, updated_at`,
		taskID, owner, title, description)

	var t Task
	if err := row.Scan(&t.ID, &t.Owner, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, storeerr.ErrNotFound
		}
		return Task{}, err
	}
	return t, nil
}

func (s *pgStore) SetCompleted(ctx context.Context, owner string, taskID int64, completed bool) (Task, error) {
	row := s.pool.QueryRow(ctx, `
UPDATE tasks
SET completed = $3, updated_at = NOW()
WHERE id = $1 AND owner = $2
RETURNING id, owner, title, description, completed, created_at, updated_at`,
		taskID, owner, completed)

	var t Task
	if err := row.Scan(&t.ID, &t.Owner, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, storeerr.ErrNotFound
		}
		return Task{}, err
	}
	return t, nil
}

func (s *pgStore) Delete(ctx context.Context, owner string, taskID int64) (Deleted, error) {
	row := s.pool.QueryRow(ctx, `
DELETE FROM tasks
WHERE id = $1 AND owner = $2
RETURNING id, title`, taskID, owner)

	var d Deleted
	if err := row.Scan(&d.ID, &d.Title); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Deleted{}, storeerr.ErrNotFound
		}
		return Deleted{}, err
	}
	return d, nil
}
