package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jotbox/pkg/core"
)

// fixedIDs hands out the same id until exhausted, to force collisions.
type fixedIDs struct {
	ids []string
}

func (f *fixedIDs) NewID() string {
	id := f.ids[0]
	if len(f.ids) > 1 {
		f.ids = f.ids[1:]
	}
	return id
}

func TestAddTask(t *testing.T) {
	t.Run("Appends Trimmed Task", func(t *testing.T) {
		original := []core.TodoItem{{ID: "1", Text: "milk"}}

		got := core.AddTask(original, "  eggs  ")

		require.Len(t, got, 2)
		assert.Equal(t, "eggs", got[1].Text)
		assert.False(t, got[1].Completed)
		assert.NotEmpty(t, got[1].ID)
		assert.Len(t, original, 1, "input must not be modified")
	})

	t.Run("Rejects Blank Text", func(t *testing.T) {
		original := []core.TodoItem{{ID: "1", Text: "milk"}}

		got := core.AddTask(original, " \t\n")

		assert.Equal(t, original, got)
	})

	t.Run("Rapid Calls Produce Distinct IDs", func(t *testing.T) {
		var tasks []core.TodoItem
		for range 50 {
			tasks = core.AddTask(tasks, "task")
		}

		seen := make(map[string]bool)
		for _, task := range tasks {
			assert.False(t, seen[task.ID], "duplicate id %s", task.ID)
			seen[task.ID] = true
		}
	})

	t.Run("Colliding Generator Is Retried", func(t *testing.T) {
		gen := &fixedIDs{ids: []string{"42", "42", "43"}}

		tasks := core.AddTaskWith(gen, nil, "first")
		tasks = core.AddTaskWith(gen, tasks, "second")

		require.Len(t, tasks, 2)
		assert.Equal(t, "42", tasks[0].ID)
		assert.Equal(t, "43", tasks[1].ID)
	})
}

func TestToggleTask(t *testing.T) {
	original := []core.TodoItem{{ID: "1", Text: "a"}, {ID: "2", Text: "b"}}

	got := core.ToggleTask(original, "2")
	assert.True(t, got[1].Completed)
	assert.False(t, original[1].Completed, "input must not be modified")

	got = core.ToggleTask(got, "2")
	assert.False(t, got[1].Completed)

	assert.Equal(t, original, core.ToggleTask(original, "missing"))
}

func TestEditTask(t *testing.T) {
	original := []core.TodoItem{{ID: "1", Text: "a"}}

	got := core.EditTask(original, "1", " updated ")
	assert.Equal(t, "updated", got[0].Text)
	assert.Equal(t, "a", original[0].Text)

	assert.Equal(t, original, core.EditTask(original, "1", "   "))
	assert.Equal(t, original, core.EditTask(original, "nope", "text"))
}

func TestRemoveTask(t *testing.T) {
	original := []core.TodoItem{{ID: "1", Text: "a"}, {ID: "2", Text: "b"}}

	got := core.RemoveTask(original, "1")
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
	assert.Len(t, original, 2)

	assert.Equal(t, original, core.RemoveTask(original, "missing"))
}

func TestTasksEqual(t *testing.T) {
	a := []core.TodoItem{{ID: "1", Text: "a"}}

	assert.True(t, core.TasksEqual(a, core.ToggleTask(core.ToggleTask(a, "1"), "1")))
	assert.False(t, core.TasksEqual(a, core.ToggleTask(a, "1")))
	assert.Equal(t, 1, core.CompletedCount(core.ToggleTask(a, "1")))
}
