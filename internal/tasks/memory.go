package tasks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"taskchat/internal/storeerr"
)

// NewMemoryStore returns an in-memory Store, used in unit tests so they
// don't need a live Postgres instance (spec.md §10 ambient test tooling).
func NewMemoryStore() Store {
	return &memStore{byID: map[int64]Task{}}
}

type memStore struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]Task
}

func (s *memStore) Create(ctx context.Context, owner, title, description string) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > 255 {
		return Task{}, fmt.Errorf("title: %w", storeerr.ErrValidation)
	}
	if len(description) > 2000 {
		return Task{}, fmt.Errorf("description: %w", storeerr.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := time.Now().UTC()
	t := Task{ID: s.nextID, Owner: owner, Title: title, Description: description, CreatedAt: now, UpdatedAt: now}
	s.byID[t.ID] = t
	return t, nil
}

func (s *memStore) List(ctx context.Context, owner string, params ListParams) ([]Task, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(params.Search))
	matched := make([]Task, 0, len(s.byID))
	for _, t := range s.byID {
		if t.Owner != owner {
			continue
		}
		if params.Completed != nil && t.Completed != *params.Completed {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Title), search) {
			continue
		}
		matched = append(matched, t)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	total := len(matched)

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []Task{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	out := make([]Task, end-offset)
	copy(out, matched[offset:end])
	return out, total, nil
}

func (s *memStore) Update(ctx context.Context, owner string, taskID int64, title, description *string) (Task, error) {
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

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[taskID]
	if !ok || t.Owner != owner {
		return Task{}, storeerr.ErrNotFound
	}
	if title != nil {
		t.Title = *title
	}
	if description != nil {
		t.Description = *description
	}
	t.UpdatedAt = time.Now().UTC()
	s.byID[taskID] = t
	return t, nil
}

func (s *memStore) SetCompleted(ctx context.Context, owner string, taskID int64, completed bool) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[taskID]
	if !ok || t.Owner != owner {
		return Task{}, storeerr.ErrNotFound
	}
	t.Completed = completed
	t.UpdatedAt = time.Now().UTC()
	s.byID[taskID] = t
	return t, nil
}

func (s *memStore) Delete(ctx context.Context, owner string, taskID int64) (Deleted, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[taskID]
	if !ok || t.Owner != owner {
		return Deleted{}, storeerr.ErrNotFound
	}
	delete(s.byID, taskID)
	return Deleted{ID: t.ID, Title: t.Title}, nil
}
