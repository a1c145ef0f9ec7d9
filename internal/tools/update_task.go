package tools

import (
	"context"
	"encoding/json"
	"errors"

	"taskchat/internal/storeerr"
	"taskchat/internal/tasks"
)

// UpdateTask exposes tasks.Store.Update as the update_task tool.
type UpdateTask struct {
	Store tasks.Store
}

func (UpdateTask) Name() string { return "update_task" }

func (UpdateTask) Description() string {
	return "Change the title and/or description of an existing task identified by its id. Use list_tasks first if the id is not already known from context."
}

func (UpdateTask) JSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"task_id": map[string]any{
				"type":        "integer",
				"description": "The id of the task to update, as returned by add_task or list_tasks.",
			},
			"title": map[string]any{
				"type":        "string",
				"description": "New title, at most 255 characters. Omit to leave unchanged.",
				"maxLength":   255,
			},
			"description": map[string]any{
				"type":        "string",
				"description": "New description, at most 2000 characters. Omit to leave unchanged.",
				"maxLength":   2000,
			},
		},
		"required":             []any{"task_id"},
		"additionalProperties": false,
	}
}

type updateTaskArgs struct {
	TaskID      int64   `json:"task_id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (t UpdateTask) Call(ctx context.Context, args json.RawMessage, callerUserID string) Envelope {
	var a updateTaskArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fail(ErrValidation, "could not parse arguments")
	}
	task, err := t.Store.Update(ctx, callerUserID, a.TaskID, a.Title, a.Description)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return fail(ErrTaskNotFound, "no such task")
		}
		if errors.Is(err, storeerr.ErrValidation) {
			return fail(ErrValidation, err.Error())
		}
		return fail(ErrDatabase, "could not update task")
	}
	return ok(map[string]any{"task": task})
}
