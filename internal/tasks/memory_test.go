package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"taskchat/internal/storeerr"
)

func TestMemoryStore_CreateListOwnerScoped(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Create(ctx, "u1", "Buy milk", "")
	require.NoError(t, err)
	_, err = s.Create(ctx, "u2", "Buy eggs", "")
	require.NoError(t, err)

	list, total, err := s.List(ctx, "u1", ListParams{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, list, 1)
	require.Equal(t, "Buy milk", list[0].Title)
}

func TestMemoryStore_UpdateForeignOwnerNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	task, err := s.Create(ctx, "u1", "Buy milk", "")
	require.NoError(t, err)

	_, err = s.Update(ctx, "u2", task.ID, nil, nil)
	require.True(t, errors.Is(err, storeerr.ErrNotFound))
}

func TestMemoryStore_SetCompletedAdvancesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	task, err := s.Create(ctx, "u1", "Buy milk", "")
	require.NoError(t, err)

	updated, err := s.SetCompleted(ctx, "u1", task.ID, true)
	require.NoError(t, err)
	require.True(t, updated.Completed)
	require.False(t, updated.UpdatedAt.Before(task.UpdatedAt))
}

func TestMemoryStore_DeleteReturnsTitleAndForgets(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	task, err := s.Create(ctx, "u1", "Buy milk", "")
	require.NoError(t, err)

	deleted, err := s.Delete(ctx, "u1", task.ID)
	require.NoError(t, err)
	require.Equal(t, "Buy milk", deleted.Title)

	_, err = s.Delete(ctx, "u1", task.ID)
	require.True(t, errors.Is(err, storeerr.ErrNotFound))
}

func TestMemoryStore_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.Create(ctx, "u1", "Buy Milk", "")
	require.NoError(t, err)
	_, err = s.Create(ctx, "u1", "Walk dog", "")
	require.NoError(t, err)

	list, total, err := s.List(ctx, "u1", ListParams{Search: "milk"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, list, 1)
	require.Equal(t, "Buy Milk", list[0].Title)
}

func TestMemoryStore_CreateRejectsEmptyTitle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.Create(ctx, "u1", "   ", "")
	require.True(t, errors.Is(err, storeerr.ErrValidation))
}
