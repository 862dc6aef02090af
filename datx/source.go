package datx

import "io"

// Container is a source node with named children, such as an HDF5 group.
type Container interface {
	// Members returns the child names.
	Members() ([]string, error)

	// Child opens the named child. The result is a Container, a Leaf or a
	// raw value.
	Child(name string) (any, error)

	// Attrs returns the metadata attached to the container.
	Attrs() (AttributeSet, error)
}

// AttributeSet is a named collection of raw attribute values.
type AttributeSet interface {
	Keys() []string
	Get(name string) (any, bool)
}

// Leaf is a source node carrying a payload, such as an HDF5 dataset.
type Leaf interface {
	Attrs() (AttributeSet, error)

	// Value reads the payload. An error means the dataset is empty.
	Value() (any, error)
}

// Described is implemented by leaves that can report their shape and
// element type without reading the payload.
type Described interface {
	Shape() ([]int, error)
	Dtype() string
}

// Root is an open container file.
type Root interface {
	Container
	io.Closer
}

// Opener opens the container file at path. Implementations report
// ErrFileAccess and ErrFormat through wrapped errors.
type Opener func(path string) (Root, error)

// Record is one row of a structured (multi-field) type.
type Record struct {
	Names  []string
	Values []any
}

// RecordArray is an array of records sharing the same field names.
type RecordArray []Record

// Attributes is an ordered AttributeSet backed by a slice.
type Attributes []Attribute

// Attribute is a single raw attribute.
type Attribute struct {
	Name  string
	Value any
}

// Keys returns the attribute names in order.
func (a Attributes) Keys() []string {
	keys := make([]string, len(a))
	for i, attr := range a {
		keys[i] = attr.Name
	}
	return keys
}

// Get returns the named attribute value.
func (a Attributes) Get(name string) (any, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return nil, false
}
