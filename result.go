package jotbox

import (
	"errors"

	"github.com/aretw0/jotbox/pkg/core"
)

// Action names the operation a Result belongs to.
type Action string

const (
	ActionLoad    Action = "load"
	ActionSave    Action = "save"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionExport  Action = "export"
	ActionBackup  Action = "backup"
	ActionRestore Action = "restore"
)

var messages = map[Action][2]string{
	ActionLoad:    {"Notes loaded", "Failed to load notes"},
	ActionSave:    {"Note saved", "Failed to save note"},
	ActionUpdate:  {"Note updated", "Failed to update note"},
	ActionDelete:  {"Note deleted", "Failed to delete note"},
	ActionExport:  {"Notes exported", "Failed to export notes"},
	ActionBackup:  {"Backup created", "Failed to create backup"},
	ActionRestore: {"Backup restored successfully", "Failed to restore backup"},
}

// Result is what every App operation reports to the UI: a success flag plus
// the failure, if any. A failed Result with a nil Err was cancelled by the user.
type Result struct {
	Action  Action
	Success bool
	Err     error
}

func succeeded(a Action) Result { return Result{Action: a, Success: true} }

func failed(a Action, err error) Result { return Result{Action: a, Err: err} }

// Cancelled reports whether the user backed out of the operation.
func (r Result) Cancelled() bool {
	return !r.Success && r.Err == nil
}

// Message returns the text to display for the result.
func (r Result) Message() string {
	m := messages[r.Action]
	switch {
	case r.Success:
		return m[0]
	case r.Err == nil:
		return "Cancelled"
	case errors.Is(r.Err, core.ErrSharingUnavailable):
		return "Sharing is not available on this device"
	case errors.Is(r.Err, core.ErrInvalidNote), errors.Is(r.Err, core.ErrReadOnly):
		return m[1] + ": " + r.Err.Error()
	}
	if m[1] == "" {
		return r.Err.Error()
	}
	return m[1]
}
