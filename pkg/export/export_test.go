package export_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/jotbox/pkg/adapters/share"
	"github.com/aretw0/jotbox/pkg/core"
	"github.com/aretw0/jotbox/pkg/export"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func sampleNotes() []core.Note {
	return []core.Note{
		{
			ID: "1714564800000", Title: "Shopping", Content: "bread and cheese",
			Date: "5/1/2024", LastModified: base, Color: "#ffb3ba", Type: core.TypeNote,
		},
		{
			ID: "1714564800001", Title: "Groceries",
			Tasks: []core.TodoItem{{ID: "a", Text: "Milk"}, {ID: "b", Text: "Eggs", Completed: true}},
			Date:  "5/1/2024", LastModified: base, Color: "#baffc9", Type: core.TypeTodo,
		},
	}
}

func TestTextSerializer(t *testing.T) {
	data, err := export.TextSerializer{}.Serialize(sampleNotes())
	require.NoError(t, err)

	want := "Shopping\nDate: 5/1/2024\n\nbread and cheese\n" +
		"\n----------------------------------------\n\n" +
		"Groceries\nDate: 5/1/2024\n\n[ ] Milk\n[x] Eggs\n"
	assert.Equal(t, want, string(data))
}

func TestMarkdownSerializer(t *testing.T) {
	data, err := export.MarkdownSerializer{}.Serialize(sampleNotes())
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "# Shopping\n\nbread and cheese\n")
	assert.Contains(t, out, "# Groceries\n\n- [ ] Milk\n- [x] Eggs\n")

	// The first front matter block decodes back to the note metadata.
	parts := strings.SplitN(out, "---\n", 3)
	require.Len(t, parts, 3)
	var fm map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))
	assert.Equal(t, "1714564800000", fm["id"])
	assert.Equal(t, "note", fm["type"])
	assert.Equal(t, "#ffb3ba", fm["color"])
	assert.Equal(t, "2024-05-01T12:00:00.000Z", fm["lastModified"])
}

func TestJSONSerializer(t *testing.T) {
	data, err := export.JSONSerializer{}.Serialize(sampleNotes())
	require.NoError(t, err)

	var got []core.Note
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, sampleNotes(), got)

	empty, err := export.JSONSerializer{}.Serialize(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestExport(t *testing.T) {
	ctx := context.Background()

	t.Run("Writes and Shares", func(t *testing.T) {
		dir := t.TempDir()
		dest := t.TempDir()
		e := export.NewExporter(dir, share.NewDirSharer(dest, nil))

		path, err := e.Export(ctx, sampleNotes(), export.FormatText)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "notes_export.txt"), path)

		shared, err := os.ReadFile(filepath.Join(dest, "notes_export.txt"))
		require.NoError(t, err)
		assert.Contains(t, string(shared), "[x] Eggs")
	})

	t.Run("Default Format Is Text", func(t *testing.T) {
		dir := t.TempDir()
		e := export.NewExporter(dir, share.NewDirSharer(t.TempDir(), nil))

		path, err := e.Export(ctx, sampleNotes()[:1], "")
		require.NoError(t, err)
		assert.Equal(t, ".txt", filepath.Ext(path))
	})

	t.Run("Sharing Unavailable Keeps File", func(t *testing.T) {
		dir := t.TempDir()
		e := export.NewExporter(dir, share.Unavailable{})

		path, err := e.Export(ctx, sampleNotes(), export.FormatMarkdown)
		assert.ErrorIs(t, err, core.ErrExport)
		assert.ErrorIs(t, err, core.ErrSharingUnavailable)
		assert.FileExists(t, path)
	})

	t.Run("Nothing Selected", func(t *testing.T) {
		e := export.NewExporter(t.TempDir(), share.Unavailable{})

		_, err := e.Export(ctx, nil, export.FormatText)
		assert.ErrorIs(t, err, core.ErrExport)
	})

	t.Run("Unknown Format", func(t *testing.T) {
		e := export.NewExporter(t.TempDir(), share.Unavailable{})

		_, err := e.Export(ctx, sampleNotes(), "pdf")
		assert.ErrorIs(t, err, core.ErrExport)
	})
}

func TestSelect(t *testing.T) {
	notes := sampleNotes()

	t.Run("By IDs Keeps Collection Order", func(t *testing.T) {
		got := export.SelectByIDs(notes, []string{"1714564800001", "1714564800000", "missing"})
		require.Len(t, got, 2)
		assert.Equal(t, "Shopping", got[0].Title)
		assert.Equal(t, "Groceries", got[1].Title)
	})

	t.Run("By Pattern", func(t *testing.T) {
		tests := []struct {
			pattern string
			want    int
		}{
			{"*", 2},
			{"groc*", 1},
			{"GROC*", 1},
			{"*ing", 1},
			{"work/**", 0},
		}
		for _, tt := range tests {
			got, err := export.SelectByPattern(notes, tt.pattern)
			require.NoError(t, err)
			assert.Len(t, got, tt.want, tt.pattern)
		}
	})

	t.Run("Invalid Pattern", func(t *testing.T) {
		_, err := export.SelectByPattern(notes, "[abc")
		assert.ErrorIs(t, err, core.ErrExport)
	})
}
