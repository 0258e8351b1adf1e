// pkg/atomicfile/errors.go
package atomicfile

import "errors"

var (
	// ErrTargetExists is returned when the target exists and the policy is Fail
	ErrTargetExists = errors.New("target file already exists")

	// ErrMissingDir is returned when the parent directory does not exist
	// and directory creation was not requested
	ErrMissingDir = errors.New("parent directory does not exist")

	// ErrNoEntries is returned when a set write is given nothing to write
	ErrNoEntries = errors.New("no entries to write")
)
