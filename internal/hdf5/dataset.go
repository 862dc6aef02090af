package hdf5

import (
	"fmt"
	"path"

	"github.com/robert-malhotra/go-datx/internal/layout"
	"github.com/robert-malhotra/go-datx/internal/message"
	"github.com/robert-malhotra/go-datx/internal/object"
)

// Dataset represents an HDF5 dataset.
type Dataset struct {
	file      *File
	path      string
	header    *object.Header
	dataspace *message.Dataspace
	datatype  *message.Datatype
	layout    layout.Layout
}

func newDataset(f *File, path string, header *object.Header) (*Dataset, error) {
	ds := &Dataset{
		file:      f,
		path:      path,
		header:    header,
		dataspace: header.Dataspace(),
		datatype:  header.Datatype(),
	}
	if ds.dataspace == nil {
		return nil, fmt.Errorf("dataset missing dataspace message")
	}
	if ds.datatype == nil {
		return nil, fmt.Errorf("dataset missing datatype message")
	}
	layoutMsg := header.DataLayout()
	if layoutMsg == nil {
		return nil, fmt.Errorf("dataset missing layout message")
	}

	var err error
	ds.layout, err = layout.New(layoutMsg, ds.dataspace, ds.datatype, header.FilterPipeline(), f.reader)
	if err != nil {
		return nil, fmt.Errorf("creating layout: %w", err)
	}
	return ds, nil
}

// Name returns the last component of the dataset path.
func (d *Dataset) Name() string {
	return path.Base(d.path)
}

// Path returns the full path to this dataset.
func (d *Dataset) Path() string {
	return d.path
}

// Shape returns the dimensions of the dataset followed by the dimensions of
// an array element type. A scalar dataset of a scalar type has no dimensions.
func (d *Dataset) Shape() []int {
	var shape []int
	if !d.dataspace.IsScalar() {
		for _, dim := range d.dataspace.Dimensions {
			shape = append(shape, int(dim))
		}
	}
	return append(shape, arrayDims(d.datatype)...)
}

// NumElements returns the number of dataspace elements.
func (d *Dataset) NumElements() uint64 {
	return d.dataspace.NumElements()
}

// Dtype names the element type: a Go numeric type name, "string" or
// "compound".
func (d *Dataset) Dtype() string {
	return typeName(d.datatype)
}

// Read reads the whole payload. Numeric data is returned as a flat typed
// slice ([]float64, []uint16, ...), text as []string and compound data as
// []Compound.
func (d *Dataset) Read() (any, error) {
	raw, err := d.layout.Read()
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}
	return decodeValues(d.datatype, raw, d.NumElements(), d.file.reader)
}

// Attrs returns the attributes of this dataset in storage order.
func (d *Dataset) Attrs() []*Attribute {
	return attributes(d.header, d.file)
}

// Attr returns an attribute by name, or nil if not found.
func (d *Dataset) Attr(name string) *Attribute {
	return findAttribute(d.header, d.file, name)
}
