package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/jotbox/pkg/core"
)

// Serializer renders a set of notes as one document.
type Serializer interface {
	// Extension is the file extension, including the dot.
	Extension() string
	// MIMEType is announced to the share sheet.
	MIMEType() string
	// Serialize converts the notes to bytes.
	Serialize(notes []core.Note) ([]byte, error)
}

// Format names a registered serializer.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// DefaultSerializers returns the standard set of serializers.
func DefaultSerializers() map[Format]Serializer {
	return map[Format]Serializer{
		FormatText:     TextSerializer{},
		FormatMarkdown: MarkdownSerializer{},
		FormatJSON:     JSONSerializer{},
	}
}

const separator = "----------------------------------------"

// --- Text Serializer ---

// TextSerializer produces the plain text aggregation offered by the share button.
type TextSerializer struct{}

func (TextSerializer) Extension() string { return ".txt" }
func (TextSerializer) MIMEType() string  { return "text/plain" }

func (TextSerializer) Serialize(notes []core.Note) ([]byte, error) {
	var buf bytes.Buffer
	for i, n := range notes {
		if i > 0 {
			buf.WriteString("\n" + separator + "\n\n")
		}
		buf.WriteString(n.Title + "\n")
		if n.Date != "" {
			fmt.Fprintf(&buf, "Date: %s\n", n.Date)
		}
		buf.WriteString("\n")

		if n.IsTodo() {
			for _, t := range n.Tasks {
				buf.WriteString(checkbox(t) + " " + t.Text + "\n")
			}
			continue
		}
		buf.WriteString(strings.TrimRight(n.Content, "\n") + "\n")
	}
	return buf.Bytes(), nil
}

// --- Markdown Serializer ---

// MarkdownSerializer writes one section per note, each prefixed with YAML front matter.
type MarkdownSerializer struct{}

func (MarkdownSerializer) Extension() string { return ".md" }
func (MarkdownSerializer) MIMEType() string  { return "text/markdown" }

type frontmatter struct {
	ID           string `yaml:"id"`
	Type         string `yaml:"type"`
	Date         string `yaml:"date,omitempty"`
	LastModified string `yaml:"lastModified,omitempty"`
	Color        string `yaml:"color,omitempty"`
}

func (MarkdownSerializer) Serialize(notes []core.Note) ([]byte, error) {
	var buf bytes.Buffer
	for _, n := range notes {
		fm := frontmatter{
			ID:    n.ID,
			Type:  string(n.Kind()),
			Date:  n.Date,
			Color: n.Color,
		}
		if !n.LastModified.IsZero() {
			fm.LastModified = n.LastModified.Format(core.TimestampLayout)
		}

		buf.WriteString("---\n")
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(fm); err != nil {
			return nil, fmt.Errorf("failed to encode front matter for %s: %w", n.ID, err)
		}
		encoder.Close()
		buf.WriteString("---\n")

		fmt.Fprintf(&buf, "# %s\n\n", n.Title)
		if n.IsTodo() {
			for _, t := range n.Tasks {
				fmt.Fprintf(&buf, "- %s %s\n", checkbox(t), t.Text)
			}
		} else if n.Content != "" {
			buf.WriteString(strings.TrimRight(n.Content, "\n") + "\n")
		}
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// --- JSON Serializer ---

// JSONSerializer writes the notes exactly as they are persisted, indented.
type JSONSerializer struct{}

func (JSONSerializer) Extension() string { return ".json" }
func (JSONSerializer) MIMEType() string  { return "application/json" }

func (JSONSerializer) Serialize(notes []core.Note) ([]byte, error) {
	if notes == nil {
		notes = []core.Note{}
	}
	return json.MarshalIndent(notes, "", "  ")
}

func checkbox(t core.TodoItem) string {
	if t.Completed {
		return "[x]"
	}
	return "[ ]"
}
