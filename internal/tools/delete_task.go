package tools

import (
	"context"
	"encoding/json"
	"errors"

	"taskchat/internal/storeerr"
	"taskchat/internal/tasks"
)

// DeleteTask exposes tasks.Store.Delete as the delete_task tool.
type DeleteTask struct {
	Store tasks.Store
}

func (DeleteTask) Name() string { return "delete_task" }

func (DeleteTask) Description() string {
	return "Permanently delete a task by id. Use list_tasks first if the id is not already known from context; confirm the title in your reply so the user knows what was removed."
}

func (DeleteTask) JSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"task_id": map[string]any{
				"type":        "integer",
				"description": "The id of the task to delete.",
			},
		},
		"required":             []any{"task_id"},
		"additionalProperties": false,
	}
}

type deleteTaskArgs struct {
	TaskID int64 `json:"task_id"`
}

func (t DeleteTask) Call(ctx context.Context, args json.RawMessage, callerUserID string) Envelope {
	var a deleteTaskArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fail(ErrValidation, "could not parse arguments")
	}
	deleted, err := t.Store.Delete(ctx, callerUserID, a.TaskID)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return fail(ErrTaskNotFound, "no such task")
		}
		return fail(ErrDatabase, "could not delete task")
	}
	return ok(map[string]any{"id": deleted.ID, "title": deleted.Title})
}
