package tools

import "taskchat/internal/tasks"

// NewTaskRegistry builds the closed, five-tool catalog spec.md §4.2 names,
// all backed by the same task store.
func NewTaskRegistry(store tasks.Store) (Registry, error) {
	return NewRegistry(
		AddTask{Store: store},
		ListTasks{Store: store},
		UpdateTask{Store: store},
		CompleteTask{Store: store},
		DeleteTask{Store: store},
	)
}
