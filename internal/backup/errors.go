package backup

import (
	"errors"
	"fmt"
)

// Common backup and restore errors.
var (
	// ErrInvalidData is returned when a backup artifact cannot be decoded.
	ErrInvalidData = errors.New("invalid or corrupted backup data")

	// ErrNotFound is returned when the requested backup artifact does not exist.
	ErrNotFound = errors.New("backup file not found")

	// ErrExportFailed is returned when an export artifact cannot be produced.
	ErrExportFailed = errors.New("export failed")

	// ErrImportFailed is returned when a backup cannot be imported.
	ErrImportFailed = errors.New("import failed")
)

// BackupError wraps errors with context about the backup operation that
// failed.
type BackupError struct {
	// Op is the operation that failed (e.g., "ExportJSON", "Import").
	Op string

	// Err is the underlying error.
	Err error

	// Reason provides additional context about the failure.
	Reason string
}

// Error implements the error interface.
func (e *BackupError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("backup: %s failed: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("backup: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *BackupError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *BackupError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// newBackupError creates a BackupError for the given operation.
func newBackupError(op string, err error, reason string) *BackupError {
	return &BackupError{Op: op, Err: err, Reason: reason}
}
