package hdf5

import (
	stdbinary "encoding/binary"
	"fmt"
	"os"
	"path"
	"reflect"

	"github.com/robert-malhotra/go-datx/internal/alloc"
	"github.com/robert-malhotra/go-datx/internal/binary"
	"github.com/robert-malhotra/go-datx/internal/dtype"
	"github.com/robert-malhotra/go-datx/internal/message"
	"github.com/robert-malhotra/go-datx/internal/object"
	"github.com/robert-malhotra/go-datx/internal/superblock"
)

// Create creates a new HDF5 file at path with a version 2 superblock and
// version 2 object headers. Groups, datasets and attributes added to it are
// written when the file is closed.
func Create(path string) (*File, error) {
	osFile, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	writer := binary.NewWriter(osFile, binary.Config{
		ByteOrder:  stdbinary.LittleEndian,
		OffsetSize: 8,
		LengthSize: 8,
	})

	sb := superblock.NewSuperblock()
	sb.OffsetSize = 8
	sb.LengthSize = 8

	rootAddr := uint64(sb.Size())
	sb.RootGroupAddress = rootAddr

	rootMessages := object.NewEmptyGroupHeader()
	headerSize := object.HeaderSizeWithMinChunk(writer, rootMessages, object.MinGroupChunkSize)
	sb.EOFAddress = rootAddr + uint64(headerSize)

	fail := func(err error) (*File, error) {
		osFile.Close()
		os.Remove(path)
		return nil, err
	}
	if _, err := sb.Write(writer); err != nil {
		return fail(err)
	}
	if _, err := object.WriteHeaderWithMinChunk(writer.At(int64(rootAddr)), rootMessages, object.MinGroupChunkSize); err != nil {
		return fail(err)
	}

	f := &File{
		path:       path,
		file:       osFile,
		superblock: sb,
		writable:   true,
		writer:     writer,
		allocator:  alloc.New(sb.EOFAddress),
	}
	f.root = &Group{file: f, path: "/", addr: rootAddr}
	return f, nil
}

// flush rewrites the superblock with the current root address and EOF.
func (f *File) flush() error {
	f.superblock.EOFAddress = f.allocator.EOFAddr()
	if _, err := f.superblock.Write(f.writer.At(0)); err != nil {
		return err
	}
	return f.file.Sync()
}

func (f *File) allocate(size int) uint64 {
	return f.allocator.Alloc(uint64(size))
}

// CreateGroup creates a new subgroup with the given name.
func (g *Group) CreateGroup(name string) (*Group, error) {
	if !g.file.writable {
		return nil, ErrReadOnly
	}
	if name == "" {
		return nil, fmt.Errorf("group name cannot be empty")
	}

	messages := object.NewEmptyGroupHeader()
	addr := g.file.allocate(object.HeaderSize(g.file.writer, messages))
	if _, err := object.WriteHeader(g.file.writer.At(int64(addr)), messages); err != nil {
		return nil, fmt.Errorf("writing group header: %w", err)
	}

	if err := g.addLink(message.NewHardLink(name, addr)); err != nil {
		return nil, fmt.Errorf("adding link to parent: %w", err)
	}

	return &Group{
		file:   g.file,
		path:   path.Join(g.path, name),
		addr:   addr,
		parent: g,
	}, nil
}

// SetAttr attaches an attribute to the group, replacing one of the same
// name. See WithAttribute for the supported values.
func (g *Group) SetAttr(name string, value any) error {
	if !g.file.writable {
		return ErrReadOnly
	}
	attr, err := newAttributeMessage(name, value)
	if err != nil {
		return fmt.Errorf("creating attribute %q: %w", name, err)
	}
	for i, a := range g.pendingAttrs {
		if a.Name == name {
			g.pendingAttrs[i] = attr
			return g.rewriteHeader()
		}
	}
	g.pendingAttrs = append(g.pendingAttrs, attr)
	return g.rewriteHeader()
}

// DatasetOption configures dataset creation.
type DatasetOption func(*datasetOptions)

type datasetOptions struct {
	attributes []*attrDef
}

type attrDef struct {
	name  string
	value any
}

// WithAttribute adds an attribute to the dataset. The value can be a
// scalar or slice of a fixed-size Go numeric type, a string, a []string or
// a Compound whose members hold strings, numbers or numeric slices.
func WithAttribute(name string, value any) DatasetOption {
	return func(o *datasetOptions) {
		o.attributes = append(o.attributes, &attrDef{name: name, value: value})
	}
}

// CreateDataset creates a contiguous dataset holding data, a flat
// row-major numeric slice, with the given shape. A shape with a zero
// dimension creates an empty dataset.
func (g *Group) CreateDataset(name string, shape []int, data any, opts ...DatasetOption) error {
	if !g.file.writable {
		return ErrReadOnly
	}
	if name == "" {
		return fmt.Errorf("dataset name cannot be empty")
	}

	options := &datasetOptions{}
	for _, opt := range opts {
		opt(options)
	}

	val := reflect.ValueOf(data)
	if val.Kind() != reflect.Slice {
		return fmt.Errorf("%w: dataset data must be a slice, got %T", ErrUnsupported, data)
	}
	dims := make([]uint64, len(shape))
	n := 1
	for i, s := range shape {
		dims[i] = uint64(s)
		n *= s
	}
	if val.Len() != n {
		return fmt.Errorf("dataset %q: %d values for shape %v", name, val.Len(), shape)
	}

	datatype, err := numericDatatype(val.Type().Elem())
	if err != nil {
		return fmt.Errorf("dataset %q: %w", name, err)
	}
	raw, err := dtype.Encode(datatype, data)
	if err != nil {
		return fmt.Errorf("encoding data: %w", err)
	}

	dataAddr := g.file.allocate(len(raw))
	if err := g.file.writer.At(int64(dataAddr)).WriteBytes(raw); err != nil {
		return fmt.Errorf("writing data: %w", err)
	}

	messages := object.NewDatasetHeader(
		message.NewDataspace(dims, nil),
		datatype,
		message.NewContiguousLayout(dataAddr, uint64(len(raw))),
	)
	for _, attr := range options.attributes {
		msg, err := newAttributeMessage(attr.name, attr.value)
		if err != nil {
			return fmt.Errorf("creating attribute %q: %w", attr.name, err)
		}
		messages = append(messages, msg)
	}

	addr := g.file.allocate(object.HeaderSize(g.file.writer, messages))
	if _, err := object.WriteHeader(g.file.writer.At(int64(addr)), messages); err != nil {
		return fmt.Errorf("writing dataset header: %w", err)
	}

	return g.addLink(message.NewHardLink(name, addr))
}

func (g *Group) addLink(link *message.Link) error {
	g.pendingLinks = append(g.pendingLinks, link)
	return g.rewriteHeader()
}

// rewriteHeader writes the group header with all links and attributes to a
// new location and repoints the parent, or the superblock for the root.
func (g *Group) rewriteHeader() error {
	messages := object.NewGroupHeader(g.pendingLinks)
	for _, attr := range g.pendingAttrs {
		messages = append(messages, attr)
	}

	size := object.HeaderSizeWithMinChunk(g.file.writer, messages, object.MinGroupChunkSize)
	addr := g.file.allocate(size)
	if _, err := object.WriteHeaderWithMinChunk(g.file.writer.At(int64(addr)), messages, object.MinGroupChunkSize); err != nil {
		return err
	}
	g.addr = addr

	if g.parent == nil {
		g.file.superblock.RootGroupAddress = addr
		return nil
	}
	name := path.Base(g.path)
	for _, link := range g.parent.pendingLinks {
		if link.Name == name {
			link.ObjectAddress = addr
		}
	}
	return g.parent.rewriteHeader()
}

func numericDatatype(t reflect.Type) (*message.Datatype, error) {
	switch t.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return dtype.GoTypeToDatatype(t)
	}
	return nil, fmt.Errorf("%w: Go type %v", ErrUnsupported, t)
}

func newAttributeMessage(name string, value any) (*message.Attribute, error) {
	switch v := value.(type) {
	case string:
		dt, data := fixedString([]string{v})
		return message.NewAttribute(name, dt, message.NewScalarDataspace(), data), nil
	case []string:
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: empty string list", ErrUnsupported)
		}
		dt, data := fixedString(v)
		return message.NewAttribute(name, dt, message.NewDataspace([]uint64{uint64(len(v))}, nil), data), nil
	case Compound:
		dt, data, err := encodeCompound(v)
		if err != nil {
			return nil, err
		}
		return message.NewAttribute(name, dt, message.NewScalarDataspace(), data), nil
	}

	val := reflect.ValueOf(value)
	space := message.NewScalarDataspace()
	elem := val.Type()
	if val.Kind() == reflect.Slice {
		space = message.NewDataspace([]uint64{uint64(val.Len())}, nil)
		elem = elem.Elem()
	}
	dt, err := numericDatatype(elem)
	if err != nil {
		return nil, err
	}
	data, err := dtype.Encode(dt, value)
	if err != nil {
		return nil, fmt.Errorf("encoding attribute value: %w", err)
	}
	return message.NewAttribute(name, dt, space, data), nil
}

// fixedString encodes strs as null-terminated strings sized to the longest.
func fixedString(strs []string) (*message.Datatype, []byte) {
	size := 0
	for _, s := range strs {
		size = max(size, len(s))
	}
	size++
	data := make([]byte, size*len(strs))
	for i, s := range strs {
		copy(data[i*size:], s)
	}
	return message.NewStringDatatype(uint32(size), message.PadNullTerm, message.CharsetASCII), data
}

// encodeCompound packs the members of c without padding, in order.
func encodeCompound(c Compound) (*message.Datatype, []byte, error) {
	if len(c.Names) != len(c.Values) {
		return nil, nil, fmt.Errorf("compound has %d names for %d values", len(c.Names), len(c.Values))
	}
	members := make([]message.CompoundMember, len(c.Names))
	parts := make([][]byte, len(c.Names))
	var offset uint32
	for i, name := range c.Names {
		dt, data, err := encodeMember(c.Values[i])
		if err != nil {
			return nil, nil, fmt.Errorf("compound member %q: %w", name, err)
		}
		members[i] = message.CompoundMember{Name: name, ByteOffset: offset, Type: dt}
		parts[i] = data
		offset += dt.Size
	}

	data := make([]byte, 0, offset)
	for _, p := range parts {
		data = append(data, p...)
	}
	return message.NewCompoundDatatype(offset, members), data, nil
}

func encodeMember(v any) (*message.Datatype, []byte, error) {
	if s, ok := v.(string); ok {
		dt, data := fixedString([]string{s})
		return dt, data, nil
	}

	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Slice {
		dt, err := numericDatatype(val.Type())
		if err != nil {
			return nil, nil, err
		}
		data, err := dtype.Encode(dt, v)
		return dt, data, err
	}

	base, err := numericDatatype(val.Type().Elem())
	if err != nil {
		return nil, nil, err
	}
	data, err := dtype.Encode(base, v)
	if err != nil {
		return nil, nil, err
	}
	return message.NewArrayDatatype([]uint32{uint32(val.Len())}, base), data, nil
}
