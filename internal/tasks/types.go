// Package tasks implements the task store adapter (C1): typed CRUD on tasks
// scoped by owner, returning structured results rather than raw rows.
package tasks

import (
	"context"
	"time"
)

// Task is the stored representation of one task (spec.md §3).
type Task struct {
	ID          int64     `json:"id"`
	Owner       string    `json:"owner"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListParams bounds and filters a list operation (spec.md §4.1).
type ListParams struct {
	Completed *bool
	Search    string
	Limit     int
	Offset    int
}

// Deleted is returned by Delete, carrying just enough of the destroyed row
// for the caller to report what happened.
type Deleted struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Store is the C1 contract. Every method requires an owner and every
// operation is scoped by it; "not found" covers both an absent id and an id
// owned by someone else (storeerr.ErrNotFound), so callers can never probe
// for the existence of another user's tasks.
type Store interface {
	Create(ctx context.Context, owner, title, description string) (Task, error)
	List(ctx context.Context, owner string, params ListParams) ([]Task, int, error)
	Update(ctx context.Context, owner string, taskID int64, title, description *string) (Task, error)
	SetCompleted(ctx context.Context, owner string, taskID int64, completed bool) (Task, error)
	Delete(ctx context.Context, owner string, taskID int64) (Deleted, error)
}
