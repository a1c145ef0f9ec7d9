package tools

import (
	"context"
	"encoding/json"
	"errors"

	"taskchat/internal/storeerr"
	"taskchat/internal/tasks"
)

// AddTask exposes tasks.Store.Create as the add_task tool.
type AddTask struct {
	Store tasks.Store
}

func (AddTask) Name() string { return "add_task" }

func (AddTask) Description() string {
	return "Create a new task owned by the current user. Use this whenever the user asks to add, create, or remember a task or to-do item."
}

func (AddTask) JSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short summary of the task, e.g. \"Buy milk\". Required, at most 255 characters.",
				"maxLength":   255,
			},
			"description": map[string]any{
				"type":        "string",
				"description": "Optional longer detail for the task, at most 2000 characters.",
				"maxLength":   2000,
			},
		},
		"required":             []any{"title"},
		"additionalProperties": false,
	}
}

type addTaskArgs struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (t AddTask) Call(ctx context.Context, args json.RawMessage, callerUserID string) Envelope {
	var a addTaskArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return fail(ErrValidation, "could not parse arguments")
	}
	task, err := t.Store.Create(ctx, callerUserID, a.Title, a.Description)
	if err != nil {
		if errors.Is(err, storeerr.ErrValidation) {
			return fail(ErrValidation, err.Error())
		}
		return fail(ErrDatabase, "could not create task")
	}
	return ok(map[string]any{"task": task})
}
