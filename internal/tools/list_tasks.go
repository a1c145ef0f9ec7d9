package tools

import (
	"context"
	"encoding/json"

	"taskchat/internal/tasks"
)

// ListTasks exposes tasks.Store.List as the list_tasks tool.
type ListTasks struct {
	Store tasks.Store
}

func (ListTasks) Name() string { return "list_tasks" }

func (ListTasks) Description() string {
	return "List the current user's tasks, optionally filtered by completion status or a title search term. Use this to answer questions about what tasks exist, or before referencing a task by position (e.g. \"the first one\")."
}

func (ListTasks) JSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"completed": map[string]any{
				"type":        "boolean",
				"description": "If present, only return tasks with this completion status.",
			},
			"search": map[string]any{
				"type":        "string",
				"description": "Case-insensitive substring to match against task titles.",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Maximum number of tasks to return, 1-100.",
				"minimum":     1,
				"maximum":     100,
			},
			"offset": map[string]any{
				"type":        "integer",
				"description": "Number of matching tasks to skip, for pagination.",
				"minimum":     0,
			},
		},
		"additionalProperties": false,
	}
}

type listTasksArgs struct {
	Completed *bool  `json:"completed"`
	Search    string `json:"search"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
}

func (t ListTasks) Call(ctx context.Context, args json.RawMessage, callerUserID string) Envelope {
	var a listTasksArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return fail(ErrValidation, "could not parse arguments")
		}
	}
	list, total, err := t.Store.List(ctx, callerUserID, tasks.ListParams{
		Completed: a.Completed, Search: a.Search, Limit: a.Limit, Offset: a.Offset,
	})
	if err != nil {
		return fail(ErrDatabase, "could not list tasks")
	}
	return ok(map[string]any{"tasks": list, "total": total})
}
