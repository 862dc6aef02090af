package hdf5

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/robert-malhotra/go-datx/internal/alloc"
	"github.com/robert-malhotra/go-datx/internal/binary"
	"github.com/robert-malhotra/go-datx/internal/object"
	"github.com/robert-malhotra/go-datx/internal/superblock"
)

// File represents an open HDF5 file.
type File struct {
	path          string
	file          *os.File
	reader        *binary.Reader
	superblock    *superblock.Superblock
	root          *Group
	closed        bool
	externalFiles map[string]*File

	// Write support fields
	writable  bool
	writer    *binary.Writer
	allocator *alloc.Allocator
}

// Open opens an HDF5 file for reading.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	sb, err := superblock.Read(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading superblock: %w", err)
	}

	hdf := &File{
		path:       path,
		file:       f,
		reader:     binary.NewReader(f, sb.ReaderConfig()),
		superblock: sb,
	}

	root, err := hdf.openGroupAt(sb.RootGroupAddress, "/")
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening root group: %w", err)
	}
	hdf.root = root

	return hdf, nil
}

// Close closes the file and all opened external files. A file created
// with Create is flushed first.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	if f.writable {
		if err := f.flush(); err != nil {
			f.file.Close()
			return err
		}
	}

	for _, ext := range f.externalFiles {
		ext.Close()
	}
	f.externalFiles = nil

	return f.file.Close()
}

// Root returns the root group of the file.
func (f *File) Root() *Group {
	return f.root
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

func (f *File) openGroupAt(address uint64, path string) (*Group, error) {
	if f.closed {
		return nil, ErrClosed
	}
	header, err := object.Read(f.reader, address)
	if err != nil {
		return nil, fmt.Errorf("reading object header: %w", err)
	}
	return &Group{file: f, path: path, header: header, addr: address}, nil
}

func (f *File) openDatasetAt(address uint64, path string) (*Dataset, error) {
	if f.closed {
		return nil, ErrClosed
	}
	header, err := object.Read(f.reader, address)
	if err != nil {
		return nil, fmt.Errorf("reading object header: %w", err)
	}
	return newDataset(f, path, header)
}

// splitPath splits an absolute or relative path into its components.
func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// findByAbsolutePath navigates an absolute path, as stored in a soft link.
// The visited map tracks link targets to detect cycles.
func (f *File) findByAbsolutePath(absPath string, visited map[string]bool) (*linkResolution, error) {
	parts := splitPath(absPath)
	if len(parts) == 0 {
		return &linkResolution{address: f.superblock.RootGroupAddress}, nil
	}

	current := f.root
	currentFile := f

	for i, name := range parts {
		res, err := current.findChild(name, visited)
		if err != nil {
			return nil, fmt.Errorf("resolving %q in path %s: %w", name, absPath, err)
		}
		if res.file != nil {
			currentFile = res.file
		}
		if i == len(parts)-1 {
			return res, nil
		}
		if res.isDataset {
			return nil, fmt.Errorf("%q is not a group in path %s", name, absPath)
		}
		next, err := currentFile.openGroupAt(res.address, "")
		if err != nil {
			return nil, fmt.Errorf("opening group %q: %w", name, err)
		}
		current = next
	}
	return nil, fmt.Errorf("empty path")
}

// openExternalFile opens filename relative to this file's directory. Opened
// files are cached until Close.
func (f *File) openExternalFile(filename string) (*File, error) {
	if ext, ok := f.externalFiles[filename]; ok {
		return ext, nil
	}

	extPath := filepath.Join(filepath.Dir(f.path), filename)
	ext, err := Open(extPath)
	if err != nil {
		return nil, fmt.Errorf("opening external file %q: %w", extPath, err)
	}

	if f.externalFiles == nil {
		f.externalFiles = make(map[string]*File)
	}
	f.externalFiles[filename] = ext
	return ext, nil
}

func (f *File) resolveExternalLink(extFile, extPath string, visited map[string]bool) (*linkResolution, error) {
	if len(visited) >= MaxLinkDepth {
		return nil, ErrLinkDepth
	}
	key := extFile + ":" + extPath
	if visited[key] {
		return nil, fmt.Errorf("circular external link detected: %s", key)
	}
	visited[key] = true

	target, err := f.openExternalFile(extFile)
	if err != nil {
		return nil, err
	}
	res, err := target.findByAbsolutePath(extPath, visited)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q in external file %q: %w", extPath, extFile, err)
	}
	if res.file == nil {
		res.file = target
	}
	return res, nil
}
