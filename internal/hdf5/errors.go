// Package hdf5 reads the HDF5 files a measurement container is stored in.
// It resolves groups, datasets and attributes on top of the low-level
// format packages and writes the subset of the format the container uses.
package hdf5

import "errors"

// Common errors
var (
	ErrNotFound    = errors.New("object not found")
	ErrNotDataset  = errors.New("object is not a dataset")
	ErrUnsupported = errors.New("unsupported feature")
	ErrClosed      = errors.New("file is closed")
	ErrLinkDepth   = errors.New("maximum link depth exceeded")
	ErrReadOnly    = errors.New("file is not writable")
)

// MaxLinkDepth is the maximum number of soft/external links that can be followed
// in a single path resolution.
const MaxLinkDepth = 100
