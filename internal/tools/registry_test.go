package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"taskchat/internal/tasks"
)

func TestRegistry_AddTaskThenListTasks(t *testing.T) {
	ctx := context.Background()
	store := tasks.NewMemoryStore()
	reg, err := NewTaskRegistry(store)
	require.NoError(t, err)

	addEnv := reg.Invoke(ctx, "add_task", json.RawMessage(`{"title":"Buy milk"}`), "u1")
	require.True(t, addEnv.Success)

	listEnv := reg.Invoke(ctx, "list_tasks", json.RawMessage(`{}`), "u1")
	require.True(t, listEnv.Success)
	list, ok := listEnv.Data["tasks"].([]tasks.Task)
	require.True(t, ok)
	require.Len(t, list, 1)
	require.Equal(t, "Buy milk", list[0].Title)
}

func TestRegistry_UnknownToolReturnsToolUnknown(t *testing.T) {
	ctx := context.Background()
	reg, err := NewTaskRegistry(tasks.NewMemoryStore())
	require.NoError(t, err)

	env := reg.Invoke(ctx, "nonexistent_tool", json.RawMessage(`{}`), "u1")
	require.False(t, env.Success)
	require.Equal(t, ErrToolUnknown, env.Error)
}

func TestRegistry_ValidationErrorOnMissingRequiredField(t *testing.T) {
	ctx := context.Background()
	reg, err := NewTaskRegistry(tasks.NewMemoryStore())
	require.NoError(t, err)

	env := reg.Invoke(ctx, "add_task", json.RawMessage(`{}`), "u1")
	require.False(t, env.Success)
	require.Equal(t, ErrValidation, env.Error)
}

func TestRegistry_OwnerFieldIsAlwaysOverridden(t *testing.T) {
	ctx := context.Background()
	store := tasks.NewMemoryStore()
	reg, err := NewTaskRegistry(store)
	require.NoError(t, err)

	// The LLM attempts to smuggle a foreign owner into the arguments; the
	// registry must strip it so the task is still created for the caller.
	env := reg.Invoke(ctx, "add_task", json.RawMessage(`{"title":"Buy milk","owner":"someone-else"}`), "u1")
	require.True(t, env.Success)

	list, _, err := store.List(ctx, "someone-else", tasks.ListParams{})
	require.NoError(t, err)
	require.Empty(t, list)

	list, _, err = store.List(ctx, "u1", tasks.ListParams{})
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestRegistry_DeleteMissingTaskReturnsTaskNotFound(t *testing.T) {
	ctx := context.Background()
	reg, err := NewTaskRegistry(tasks.NewMemoryStore())
	require.NoError(t, err)

	env := reg.Invoke(ctx, "delete_task", json.RawMessage(`{"task_id":999999}`), "u1")
	require.False(t, env.Success)
	require.Equal(t, ErrTaskNotFound, env.Error)
}

func TestRegistry_CatalogListsAllFiveTools(t *testing.T) {
	reg, err := NewTaskRegistry(tasks.NewMemoryStore())
	require.NoError(t, err)

	names := map[string]bool{}
	for _, s := range reg.Catalog() {
		names[s.Name] = true
	}
	require.True(t, names["add_task"])
	require.True(t, names["list_tasks"])
	require.True(t, names["update_task"])
	require.True(t, names["complete_task"])
	require.True(t, names["delete_task"])
}
