// SPDX-License-Identifier: MIT
package store

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the loader.
var (
	// ErrEmpty indicates that the table holds no data rows.
	ErrEmpty = errors.New("store: no data rows")

	// ErrColumnCount indicates a row whose column count differs from the first row.
	ErrColumnCount = errors.New("store: inconsistent column count")

	// ErrValue indicates a cell that is not a finite float32.
	ErrValue = errors.New("store: invalid value")

	// ErrMeta indicates a malformed metadata line.
	ErrMeta = errors.New("store: malformed meta line")

	// ErrMetaCount indicates that the sidecar does not describe every column.
	ErrMetaCount = errors.New("store: meta line count does not match column count")
)

// LoadError ties a loader failure to the 1-based line it was found on.
// Line is 0 for failures that concern the file as a whole.
type LoadError struct {
	File string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	case e.File != "":
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}

	return e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }
