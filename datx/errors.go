// Package datx decodes hierarchical instrument files (HDF5 containers such as
// Zygo .datx) into a generic tree of groups, datasets, sequences and scalars.
package datx

import "errors"

// Common errors
var (
	ErrFileAccess  = errors.New("file cannot be opened")
	ErrFormat      = errors.New("not a valid container file")
	ErrUnsupported = errors.New("unsupported source value")
	ErrNotFound    = errors.New("node not found")
	ErrInvalidPath = errors.New("invalid path")
)
