// pkg/discover/errors.go
package discover

import "errors"

var (
	// ErrNoPaths indicates Collect was called with nothing to scan
	ErrNoPaths = errors.New("no input paths provided")

	// ErrPathOverlap indicates two inputs map to the same relative path
	ErrPathOverlap = errors.New("input paths overlap")
)
