package hdf5

import (
	"fmt"
	"reflect"

	"github.com/robert-malhotra/go-datx/internal/binary"
	"github.com/robert-malhotra/go-datx/internal/dtype"
	"github.com/robert-malhotra/go-datx/internal/message"
)

// Compound is one element of a compound type. Names and Values follow the
// member order of the type.
type Compound struct {
	Names  []string
	Values []any
}

// Get returns the value of the named member.
func (c Compound) Get(name string) (any, bool) {
	for i, n := range c.Names {
		if n == name {
			return c.Values[i], true
		}
	}
	return nil, false
}

// decodeValues converts n elements of raw data. Numeric types produce a flat
// typed slice, strings a []string and compound types a []Compound. Array
// types are flattened into a slice of their base type.
func decodeValues(dt *message.Datatype, data []byte, n uint64, reader *binary.Reader) (any, error) {
	switch dt.Class {
	case message.ClassFixedPoint, message.ClassFloatPoint, message.ClassEnum:
		goType, err := dtype.GoType(dt)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnsupported, err)
		}
		dest := reflect.New(reflect.SliceOf(goType))
		dest.Elem().Set(reflect.MakeSlice(dest.Elem().Type(), 0, int(n)))
		if err := dtype.ConvertWithReader(dt, data, n, dest.Interface(), reader); err != nil {
			return nil, err
		}
		return dest.Elem().Interface(), nil

	case message.ClassString:
		out := make([]string, n)
		if err := dtype.ConvertWithReader(dt, data, n, &out, reader); err != nil {
			return nil, err
		}
		return out, nil

	case message.ClassVarLen:
		if !dt.IsVarLenString {
			return nil, fmt.Errorf("%w: variable-length sequence", ErrUnsupported)
		}
		out := make([]string, n)
		if err := dtype.ConvertWithReader(dt, data, n, &out, reader); err != nil {
			return nil, err
		}
		return out, nil

	case message.ClassCompound:
		return decodeCompound(dt, data, n, reader)

	case message.ClassArray:
		if dt.BaseType == nil {
			return nil, fmt.Errorf("%w: array type without base type", ErrUnsupported)
		}
		count := n
		for _, d := range dt.ArrayDims {
			count *= uint64(d)
		}
		return decodeValues(dt.BaseType, data, count, reader)
	}
	return nil, fmt.Errorf("%w: datatype class %d", ErrUnsupported, dt.Class)
}

func decodeCompound(dt *message.Datatype, data []byte, n uint64, reader *binary.Reader) ([]Compound, error) {
	out := make([]Compound, n)
	for i := range out {
		base := uint64(i) * uint64(dt.Size)
		c := Compound{
			Names:  make([]string, len(dt.Members)),
			Values: make([]any, len(dt.Members)),
		}
		for j, m := range dt.Members {
			if m.Type == nil {
				return nil, fmt.Errorf("compound member %q has no datatype", m.Name)
			}
			start := base + uint64(m.ByteOffset)
			end := start + uint64(m.Type.Size)
			if end > uint64(len(data)) {
				return nil, fmt.Errorf("compound member %q of element %d is truncated", m.Name, i)
			}
			v, err := decodeValues(m.Type, data[start:end], 1, reader)
			if err != nil {
				return nil, fmt.Errorf("compound member %q: %w", m.Name, err)
			}
			if m.Type.Class != message.ClassArray {
				v = first(v)
			}
			c.Names[j] = m.Name
			c.Values[j] = v
		}
		out[i] = c
	}
	return out, nil
}

// first unwraps a one-element slice.
func first(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.Len() == 1 {
		return rv.Index(0).Interface()
	}
	return v
}

func arrayDims(dt *message.Datatype) []int {
	if dt == nil || dt.Class != message.ClassArray {
		return nil
	}
	dims := make([]int, len(dt.ArrayDims))
	for i, d := range dt.ArrayDims {
		dims[i] = int(d)
	}
	return dims
}

func typeName(dt *message.Datatype) string {
	if dt == nil {
		return "unknown"
	}
	switch dt.Class {
	case message.ClassFixedPoint, message.ClassFloatPoint, message.ClassEnum:
		t, err := dtype.GoType(dt)
		if err != nil {
			return "unknown"
		}
		return t.String()
	case message.ClassString:
		return "string"
	case message.ClassVarLen:
		if dt.IsVarLenString {
			return "string"
		}
		return "sequence"
	case message.ClassCompound:
		return "compound"
	case message.ClassArray:
		return typeName(dt.BaseType)
	}
	return "unknown"
}
