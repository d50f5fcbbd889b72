// Package share provides desktop stand-ins for the device share sheet and
// document picker.
package share

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/jotbox/pkg/core"
)

// DirSharer "shares" a file by copying it into a destination directory,
// the way a user would pick "Save to Files" on the share sheet.
type DirSharer struct {
	Dir    string
	Logger *slog.Logger
}

// NewDirSharer returns a sharer writing into dir. An empty dir makes the
// sharer unavailable.
func NewDirSharer(dir string, logger *slog.Logger) *DirSharer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DirSharer{Dir: dir, Logger: logger}
}

func (s *DirSharer) Available(ctx context.Context) bool {
	if s.Dir == "" {
		return false
	}
	info, err := os.Stat(s.Dir)
	return err == nil && info.IsDir()
}

func (s *DirSharer) Share(ctx context.Context, req core.ShareRequest) error {
	if !s.Available(ctx) {
		return core.ErrSharingUnavailable
	}

	dst := filepath.Join(s.Dir, filepath.Base(req.Path))
	if samePath(dst, req.Path) {
		return nil
	}

	if err := copyFile(req.Path, dst); err != nil {
		return fmt.Errorf("share %s: %w", req.Path, err)
	}
	s.Logger.Info("file shared", "title", req.Title, "mime", req.MIMEType, "dest", dst)
	return nil
}

// Unavailable is a SharePlatform for devices without a share sheet.
type Unavailable struct{}

func (Unavailable) Available(context.Context) bool { return false }

func (Unavailable) Share(context.Context, core.ShareRequest) error {
	return core.ErrSharingUnavailable
}

// PathPicker answers every pick with a preselected path. An empty path
// behaves like a dismissed picker.
type PathPicker struct {
	Path string
}

func (p PathPicker) Pick(ctx context.Context, mimeType string) (string, error) {
	if p.Path == "" {
		return "", core.ErrPickCancelled
	}
	if mimeType == "application/json" && !strings.EqualFold(filepath.Ext(p.Path), ".json") {
		return "", fmt.Errorf("%s is not a json document", p.Path)
	}
	return p.Path, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

var (
	_ core.SharePlatform = (*DirSharer)(nil)
	_ core.SharePlatform = Unavailable{}
	_ core.FilePicker    = PathPicker{}
)
