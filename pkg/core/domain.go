// Package core holds the domain types and storage contracts shared by the
// note store, the exporter and the backup engine.
package core

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// NoteType discriminates the two note variants.
type NoteType string

const (
	TypeNote NoteType = "note"
	TypeTodo NoteType = "todo"
)

const (
	// MaxTitleLength is the longest title accepted at the edit boundary.
	MaxTitleLength = 100

	// DateLayout is the display format of Note.Date.
	DateLayout = "1/2/2006"

	// TimestampLayout is used when stamping LastModified and backup timestamps.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Palette lists the swatches a note can be painted with. The first entry is the default.
var Palette = []string{"#ffb3ba", "#baffc9", "#bae1ff", "#ffffba", "#e6baff"}

// DefaultColor is the swatch applied when none is chosen.
var DefaultColor = Palette[0]

// ValidColor reports whether c belongs to the palette.
func ValidColor(c string) bool {
	return slices.Contains(Palette, c)
}

// TodoItem is one checklist entry. It only has identity inside its parent note.
type TodoItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Note is a persisted document, either free text or a checklist.
type Note struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Tasks        []TodoItem `json:"tasks,omitempty"`
	Date         string     `json:"date"`
	LastModified time.Time  `json:"lastModified"`
	Color        string     `json:"color"`
	Type         NoteType   `json:"type,omitempty"`
}

// Kind returns the variant of the note. Records written before the type tag
// existed are classified by the presence of tasks.
func (n Note) Kind() NoteType {
	switch n.Type {
	case TypeNote, TypeTodo:
		return n.Type
	}
	if n.Tasks != nil {
		return TypeTodo
	}
	return TypeNote
}

// IsTodo is shorthand for Kind() == TypeTodo.
func (n Note) IsTodo() bool {
	return n.Kind() == TypeTodo
}

// Clone returns a copy that shares no task storage with n.
func (n Note) Clone() Note {
	if n.Tasks != nil {
		n.Tasks = slices.Clone(n.Tasks)
	}
	return n
}

// NewNote builds a plain note stamped with a fresh id, date and modification time.
func NewNote(gen IDGenerator, now time.Time, title, content, color string) Note {
	if color == "" {
		color = DefaultColor
	}
	return Note{
		ID:           gen.NewID(),
		Title:        strings.TrimSpace(title),
		Content:      content,
		Date:         now.Format(DateLayout),
		LastModified: Stamp(now),
		Color:        color,
		Type:         TypeNote,
	}
}

// NewTodo builds a checklist note. Content is always empty for todos.
func NewTodo(gen IDGenerator, now time.Time, title string, tasks []TodoItem, color string) Note {
	n := NewNote(gen, now, title, "", color)
	n.Type = TypeTodo
	n.Tasks = slices.Clone(tasks)
	if n.Tasks == nil {
		n.Tasks = []TodoItem{}
	}
	return n
}

// Stamp normalises t to the precision and zone used for persisted timestamps.
func Stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// ValidateDraft applies the rules enforced by the editing screens before a
// note is handed to the store. The store itself does not call it.
func ValidateDraft(n Note) error {
	title := strings.TrimSpace(n.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidNote)
	}
	if len([]rune(title)) > MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrInvalidNote, MaxTitleLength)
	}
	if n.Color != "" && !ValidColor(n.Color) {
		return fmt.Errorf("%w: color %q is not in the palette", ErrInvalidNote, n.Color)
	}
	if n.IsTodo() && len(n.Tasks) == 0 {
		return fmt.Errorf("%w: a to-do list needs at least one task", ErrInvalidNote)
	}
	return nil
}

// EventType represents the type of change observed on a storage key.
type EventType string

const (
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change of a storage key made outside this process.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Key)
}
