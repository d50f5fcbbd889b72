package core

import "errors"

// Common errors.
var (
	ErrStorageRead         = errors.New("storage read failed")
	ErrStorageWrite        = errors.New("storage write failed")
	ErrDecode              = errors.New("stored data is not valid json")
	ErrInvalidBackupFormat = errors.New("invalid backup file format")
	ErrSharingUnavailable  = errors.New("sharing is not available on this device")
	ErrNotFound            = errors.New("note not found")
	ErrExport              = errors.New("export failed")
	ErrDuplicateID         = errors.New("note id already exists")
	ErrInvalidNote         = errors.New("invalid note")
	ErrReadOnly            = errors.New("storage is in read-only mode")
	ErrPickCancelled       = errors.New("file selection cancelled")
)
