package datx

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"reflect"
	"sort"

	"github.com/robert-malhotra/go-datx/internal/hdf5"
)

// errEmptyDataset is returned by Value for datasets without elements.
var errEmptyDataset = errors.New("dataset is empty")

// OpenHDF5 opens an HDF5 file with the pure Go reader and exposes its root
// group as a Container. It is the default Opener.
func OpenHDF5(path string) (Root, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileAccess, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrFileAccess, path)
	}

	f, err := openFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrFileAccess, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrFormat, path, err)
	}
	return &h5Root{h5Group: h5Group{g: f.Root()}, f: f}, nil
}

func openFile(path string) (f *hdf5.File, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reader panic: %v", r)
		}
	}()
	return hdf5.Open(path)
}

// guard turns a panic escaping the HDF5 reader into an error and marks
// reader failures with ErrFormat.
func guard(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("reader panic: %v", r)
	}
	if *err == nil || errors.Is(*err, ErrFormat) || errors.Is(*err, ErrNotFound) || errors.Is(*err, ErrUnsupported) {
		return
	}
	if errors.Is(*err, hdf5.ErrUnsupported) {
		*err = fmt.Errorf("%w: %w", ErrUnsupported, *err)
		return
	}
	*err = fmt.Errorf("%w: %w", ErrFormat, *err)
}

type h5Root struct {
	h5Group
	f *hdf5.File
}

func (r *h5Root) Close() error {
	return r.f.Close()
}

type h5Group struct {
	g *hdf5.Group
}

// Members returns subgroup and dataset names in name order.
func (g *h5Group) Members() (names []string, err error) {
	defer guard(&err)
	names, err = g.g.Members()
	if err != nil {
		return nil, err
	}
	names = append([]string(nil), names...)
	sort.Strings(names)
	return names, nil
}

func (g *h5Group) Child(name string) (c any, err error) {
	defer guard(&err)
	obj, err := g.g.Open(name)
	if errors.Is(err, hdf5.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path.Join(g.g.Path(), name))
	}
	if err != nil {
		return nil, err
	}
	switch o := obj.(type) {
	case *hdf5.Group:
		return &h5Group{g: o}, nil
	case *hdf5.Dataset:
		return &h5Dataset{d: o}, nil
	}
	return nil, fmt.Errorf("%w: %T at %s", ErrUnsupported, obj, path.Join(g.g.Path(), name))
}

func (g *h5Group) Attrs() (set AttributeSet, err error) {
	defer guard(&err)
	return readAttrs(g.g.Attrs())
}

type h5Dataset struct {
	d *hdf5.Dataset
}

func (d *h5Dataset) Attrs() (set AttributeSet, err error) {
	defer guard(&err)
	return readAttrs(d.d.Attrs())
}

func (d *h5Dataset) Value() (any, error) {
	if d.d.NumElements() == 0 {
		return nil, errEmptyDataset
	}
	return d.read()
}

func (d *h5Dataset) read() (v any, err error) {
	defer guard(&err)
	raw, err := d.d.Read()
	if err != nil {
		return nil, err
	}
	return toRaw(raw, d.d.Shape()), nil
}

func (d *h5Dataset) Shape() ([]int, error) {
	shape := d.d.Shape()
	if shape == nil {
		shape = []int{}
	}
	return shape, nil
}

func (d *h5Dataset) Dtype() string {
	return d.d.Dtype()
}

// readAttrs reads every attribute eagerly, in storage order.
func readAttrs(list []*hdf5.Attribute) (Attributes, error) {
	attrs := make(Attributes, 0, len(list))
	for _, a := range list {
		v, err := a.Read()
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", a.Name(), err)
		}
		attrs = append(attrs, Attribute{Name: a.Name(), Value: toRaw(v, a.Shape())})
	}
	return attrs, nil
}

// toRaw converts a value read by the HDF5 reader into the raw forms the
// Decoder dispatches on. Numeric slices become an Array of the given shape
// and compound values a RecordArray.
func toRaw(v any, shape []int) any {
	switch val := v.(type) {
	case []hdf5.Compound:
		return toRecords(val)
	case []string:
		return val
	}
	if isNumericSlice(v) {
		return Array{Shape: shape, Data: v}
	}
	return v
}

func toRecords(cs []hdf5.Compound) RecordArray {
	records := make(RecordArray, len(cs))
	for i, c := range cs {
		rec := Record{
			Names:  c.Names,
			Values: make([]any, len(c.Values)),
		}
		for j, field := range c.Values {
			rec.Values[j] = memberRaw(field)
		}
		records[i] = rec
	}
	return records
}

// memberRaw converts a single compound member value. Array members keep
// their length as a one-dimensional shape.
func memberRaw(v any) any {
	switch val := v.(type) {
	case hdf5.Compound:
		return toRecords([]hdf5.Compound{val})
	case []hdf5.Compound:
		return toRecords(val)
	case []string:
		return val
	}
	if isNumericSlice(v) {
		return Array{Shape: []int{reflect.ValueOf(v).Len()}, Data: v}
	}
	return v
}

func isNumericSlice(v any) bool {
	t := reflect.TypeOf(v)
	if t == nil || t.Kind() != reflect.Slice {
		return false
	}
	switch t.Elem().Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
