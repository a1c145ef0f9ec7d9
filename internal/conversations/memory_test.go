package conversations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"taskchat/internal/storeerr"
)

func TestMemoryStore_AppendThenReadPreservesOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	conv, err := s.CreateConversation(ctx, "u1")
	require.NoError(t, err)

	drafts := []Draft{
		{Role: RoleUser, Content: "Add a task to buy milk"},
		{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "call_1", Name: "add_task"}}},
		{Role: RoleTool, ToolCallID: "call_1", ToolName: "add_task", Content: `{"success":true}`},
		{Role: RoleAssistant, Content: "Added \"Buy milk\"."},
	}
	appended, err := s.AppendMessages(ctx, "u1", conv.ID, drafts)
	require.NoError(t, err)
	require.Len(t, appended, 4)

	history, err := s.ReadHistory(ctx, "u1", conv.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 4)
	for i := 1; i < len(history); i++ {
		require.False(t, history[i].CreatedAt.Before(history[i-1].CreatedAt))
	}
	require.Equal(t, RoleTool, history[2].Role)
	require.Equal(t, "call_1", history[2].ToolCallID)
}

func TestMemoryStore_ForeignOwnerGetsNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	conv, err := s.CreateConversation(ctx, "u1")
	require.NoError(t, err)

	_, err = s.GetConversation(ctx, "u2", conv.ID)
	require.True(t, errors.Is(err, storeerr.ErrNotFound))

	_, err = s.AppendMessages(ctx, "u2", conv.ID, []Draft{{Role: RoleUser, Content: "hi"}})
	require.True(t, errors.Is(err, storeerr.ErrNotFound))

	_, err = s.ReadHistory(ctx, "u2", conv.ID, 0)
	require.True(t, errors.Is(err, storeerr.ErrNotFound))
}

func TestMemoryStore_ReadHistoryBoundsToLimit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	conv, err := s.CreateConversation(ctx, "u1")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := s.AppendMessages(ctx, "u1", conv.ID, []Draft{{Role: RoleUser, Content: "hi"}})
		require.NoError(t, err)
	}

	history, err := s.ReadHistory(ctx, "u1", conv.ID, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
}

func TestMemoryStore_UnknownConversationNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.GetConversation(ctx, "u1", "does-not-exist")
	require.True(t, errors.Is(err, storeerr.ErrNotFound))
}
