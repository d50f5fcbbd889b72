package core

import (
	"slices"
	"strings"
)

// AddTask returns tasks with a new entry appended. Blank text leaves the
// list unchanged.
func AddTask(tasks []TodoItem, text string) []TodoItem {
	return AddTaskWith(DefaultIDs, tasks, text)
}

// AddTaskWith is AddTask with an explicit id generator.
func AddTaskWith(gen IDGenerator, tasks []TodoItem, text string) []TodoItem {
	out := cloneTasks(tasks)
	text = strings.TrimSpace(text)
	if text == "" {
		return out
	}

	id := gen.NewID()
	for hasTask(out, id) {
		id = gen.NewID()
	}
	return append(out, TodoItem{ID: id, Text: text})
}

// ToggleTask flips the completion state of the task with the given id.
func ToggleTask(tasks []TodoItem, id string) []TodoItem {
	out := cloneTasks(tasks)
	for i := range out {
		if out[i].ID == id {
			out[i].Completed = !out[i].Completed
		}
	}
	return out
}

// EditTask replaces the text of the task with the given id. Blank text is rejected.
func EditTask(tasks []TodoItem, id, text string) []TodoItem {
	out := cloneTasks(tasks)
	text = strings.TrimSpace(text)
	if text == "" {
		return out
	}
	for i := range out {
		if out[i].ID == id {
			out[i].Text = text
		}
	}
	return out
}

// RemoveTask drops the task with the given id.
func RemoveTask(tasks []TodoItem, id string) []TodoItem {
	out := cloneTasks(tasks)
	return slices.DeleteFunc(out, func(t TodoItem) bool { return t.ID == id })
}

// TasksEqual compares two checklists entry by entry.
// Editing screens use it to decide whether there are unsaved changes.
func TasksEqual(a, b []TodoItem) bool {
	return slices.Equal(a, b)
}

// CompletedCount returns how many tasks are checked.
func CompletedCount(tasks []TodoItem) int {
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

func hasTask(tasks []TodoItem, id string) bool {
	return slices.ContainsFunc(tasks, func(t TodoItem) bool { return t.ID == id })
}

func cloneTasks(tasks []TodoItem) []TodoItem {
	out := make([]TodoItem, len(tasks), len(tasks)+1)
	copy(out, tasks)
	return out
}
