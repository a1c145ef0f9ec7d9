package tools

import (
	"context"
	"encoding/json"
	"errors"

	"taskchat/internal/storeerr"
	"taskchat/internal/tasks"
)

// CompleteTask exposes tasks.Store.SetCompleted as the complete_task tool.
type CompleteTask struct {
	Store tasks.Store
}

func (CompleteTask) Name() string { return "complete_task" }

func (CompleteTask) Description() string {
	return "Mark a task as completed or not completed. Use this when the user says they finished something, or asks to reopen a task."
}

func (CompleteTask) JSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"task_id": map[string]any{
				"type":        "integer",
				"description": "The id of the task to update.",
			},
			"completed": map[string]any{
				"type":        "boolean",
				"description": "True to mark it done, false to reopen it.",
			},
		},
		"required":             []any{"task_id", "completed"},
		"additionalProperties": false,
	}
}

type completeTaskArgs struct {
	TaskID    int64 `json:"task_id"`
	Completed bool  `json:"completed"`
}

func (t CompleteTask) Call(ctx context.Context, args json.RawMessage, callerUserID string) Envelope {
	var a completeTaskArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fail(ErrValidation, "could not parse arguments")
	}
	task, err := t.Store.SetCompleted(ctx, callerUserID, a.TaskID, a.Completed)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return fail(ErrTaskNotFound, "no such task")
		}
		return fail(ErrDatabase, "could not update task")
	}
	return ok(map[string]any{"task": task})
}
