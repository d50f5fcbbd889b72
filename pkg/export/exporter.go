// Package export turns a selection of notes into a shareable file.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/jotbox/pkg/adapters/fs"
	"github.com/aretw0/jotbox/pkg/core"
)

// BaseName is the file name, without extension, of every export.
const BaseName = "notes_export"

// Exporter writes selected notes to its directory and hands the file to the
// share sheet. It never touches stored state.
type Exporter struct {
	dir         string
	sharer      core.SharePlatform
	serializers map[Format]Serializer
	logger      *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger for the exporter.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSerializer registers (or replaces) the serializer for a format.
func WithSerializer(f Format, s Serializer) Option {
	return func(e *Exporter) {
		e.serializers[f] = s
	}
}

// NewExporter creates an exporter writing into dir.
func NewExporter(dir string, sharer core.SharePlatform, opts ...Option) *Exporter {
	e := &Exporter{
		dir:         dir,
		sharer:      sharer,
		serializers: DefaultSerializers(),
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export renders notes in the given format, writes the file and shares it.
// It returns the path of the written file; the file is kept even when
// sharing fails. Every failure wraps core.ErrExport.
func (e *Exporter) Export(ctx context.Context, notes []core.Note, format Format) (string, error) {
	if len(notes) == 0 {
		return "", fmt.Errorf("%w: no notes selected", core.ErrExport)
	}
	if format == "" {
		format = FormatText
	}
	s, ok := e.serializers[format]
	if !ok {
		return "", fmt.Errorf("%w: unknown format %q", core.ErrExport, format)
	}

	data, err := s.Serialize(notes)
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrExport, err)
	}

	if err := os.MkdirAll(e.dir, 0700); err != nil {
		return "", fmt.Errorf("%w: failed to create export directory: %w", core.ErrExport, err)
	}
	path := filepath.Join(e.dir, BaseName+s.Extension())
	if err := fs.WriteFileAtomic(path, data, 0600); err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrExport, err)
	}
	e.logger.Debug("export written", "path", path, "notes", len(notes), "format", format)

	if e.sharer == nil || !e.sharer.Available(ctx) {
		return path, fmt.Errorf("%w: %w", core.ErrExport, core.ErrSharingUnavailable)
	}
	if err := e.sharer.Share(ctx, core.ShareRequest{Path: path, MIMEType: s.MIMEType(), Title: "Export notes"}); err != nil {
		return path, fmt.Errorf("%w: %w", core.ErrExport, err)
	}

	e.logger.Info("notes exported", "path", path, "notes", len(notes))
	return path, nil
}

// SelectByIDs keeps the notes whose id is listed, in collection order.
func SelectByIDs(notes []core.Note, ids []string) []core.Note {
	out := []core.Note{}
	for _, n := range notes {
		if slices.Contains(ids, n.ID) {
			out = append(out, n)
		}
	}
	return out
}

// SelectByPattern keeps the notes whose lower-cased title matches the glob
// pattern (e.g. "*groceries*", "work/**"). The pattern is lower-cased too.
func SelectByPattern(notes []core.Note, pattern string) ([]core.Note, error) {
	pattern = strings.ToLower(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: invalid pattern %q", core.ErrExport, pattern)
	}

	out := []core.Note{}
	for _, n := range notes {
		ok, err := doublestar.Match(pattern, strings.ToLower(n.Title))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrExport, err)
		}
		if ok {
			out = append(out, n)
		}
	}
	return out, nil
}
