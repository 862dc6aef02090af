package hdf5

import (
	"fmt"

	"github.com/robert-malhotra/go-datx/internal/binary"
	"github.com/robert-malhotra/go-datx/internal/message"
)

// Attribute represents an HDF5 attribute attached to a dataset or group.
type Attribute struct {
	msg    *message.Attribute
	reader *binary.Reader // For resolving global heap references
}

// Name returns the attribute name.
func (a *Attribute) Name() string {
	return a.msg.Name
}

// Shape returns the dimensions of the attribute value, including the
// dimensions of an array element type.
func (a *Attribute) Shape() []int {
	var shape []int
	if a.msg.Dataspace != nil && !a.msg.Dataspace.IsScalar() {
		for _, dim := range a.msg.Dataspace.Dimensions {
			shape = append(shape, int(dim))
		}
	}
	return append(shape, arrayDims(a.msg.Datatype)...)
}

// NumElements returns the number of dataspace elements.
func (a *Attribute) NumElements() uint64 {
	if a.msg.Dataspace == nil {
		return 1
	}
	return a.msg.Dataspace.NumElements()
}

// Read decodes the attribute value the same way Dataset.Read does.
func (a *Attribute) Read() (any, error) {
	if a.msg.Datatype == nil {
		return nil, fmt.Errorf("attribute %q has no datatype", a.msg.Name)
	}
	return decodeValues(a.msg.Datatype, a.msg.Data, a.NumElements(), a.reader)
}
