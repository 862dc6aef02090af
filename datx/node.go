package datx

import (
	"fmt"
	"sort"
)

// AttributesKey is the reserved key holding decoded metadata in a Group or
// Dataset.
const AttributesKey = "attributes"

// ValuesKey is the reserved key holding a dataset payload.
const ValuesKey = "values"

// Node is a decoded value. The set of implementations is closed:
// Group, *Dataset, Sequence, Array, Int, Uint, Float, Bool and String.
type Node interface {
	node()
}

// Group maps child names to decoded nodes. Group attributes, when present,
// live under AttributesKey as a nested Group.
type Group map[string]Node

// Dataset is a decoded leaf. Attributes is never nil. Values is nil when the
// underlying payload could not be read (an empty dataset).
type Dataset struct {
	Attributes Group
	Values     Node
}

// Sequence is an ordered list of nodes. Decoding never produces a
// Sequence of length one.
type Sequence []Node

// Array is a bulk numeric payload kept as a flat, row-major typed slice
// ([]float64, []int32, ...) together with its shape.
type Array struct {
	Shape []int
	Data  any
}

// Scalars.
type (
	Int    int64
	Uint   uint64
	Float  float64
	Bool   bool
	String string
)

func (Group) node()    {}
func (*Dataset) node() {}
func (Sequence) node() {}
func (Array) node()    {}
func (Int) node()      {}
func (Uint) node()     {}
func (Float) node()    {}
func (Bool) node()     {}
func (String) node()   {}

// Keys returns the group keys in sorted order.
func (g Group) Keys() []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Attrs returns the attributes entry of the group, or nil.
func (g Group) Attrs() Group {
	a, _ := g[AttributesKey].(Group)
	return a
}

// HasValues reports whether the dataset payload was read.
func (d *Dataset) HasValues() bool {
	return d.Values != nil
}

// Len returns the number of elements in the array.
func (a Array) Len() int {
	n := 1
	for _, s := range a.Shape {
		n *= s
	}
	return n
}

// Rank returns the number of dimensions.
func (a Array) Rank() int {
	return len(a.Shape)
}

// Dtype returns the Go element type name of the payload.
func (a Array) Dtype() string {
	switch a.Data.(type) {
	case []float64:
		return "float64"
	case []float32:
		return "float32"
	case []int64:
		return "int64"
	case []int32:
		return "int32"
	case []int16:
		return "int16"
	case []int8:
		return "int8"
	case []uint64:
		return "uint64"
	case []uint32:
		return "uint32"
	case []uint16:
		return "uint16"
	case []uint8:
		return "uint8"
	}
	return fmt.Sprintf("%T", a.Data)
}

// Float64s returns a float64 copy of the payload.
func (a Array) Float64s() ([]float64, error) {
	switch d := a.Data.(type) {
	case []float64:
		return append([]float64(nil), d...), nil
	case []float32:
		return widen(d), nil
	case []int64:
		return widen(d), nil
	case []int32:
		return widen(d), nil
	case []int16:
		return widen(d), nil
	case []int8:
		return widen(d), nil
	case []uint64:
		return widen(d), nil
	case []uint32:
		return widen(d), nil
	case []uint16:
		return widen(d), nil
	case []uint8:
		return widen(d), nil
	}
	return nil, fmt.Errorf("%w: array element type %T", ErrUnsupported, a.Data)
}

// At returns element i of the flat payload as a scalar node.
func (a Array) At(i int) (Node, error) {
	if i < 0 || i >= a.Len() {
		return nil, fmt.Errorf("index %d out of range for array of %d elements", i, a.Len())
	}
	switch d := a.Data.(type) {
	case []float64:
		return Float(d[i]), nil
	case []float32:
		return Float(d[i]), nil
	case []int64:
		return Int(d[i]), nil
	case []int32:
		return Int(d[i]), nil
	case []int16:
		return Int(d[i]), nil
	case []int8:
		return Int(d[i]), nil
	case []uint64:
		return Uint(d[i]), nil
	case []uint32:
		return Uint(d[i]), nil
	case []uint16:
		return Uint(d[i]), nil
	case []uint8:
		return Uint(d[i]), nil
	}
	return nil, fmt.Errorf("%w: array element type %T", ErrUnsupported, a.Data)
}

type number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

func widen[T number](in []T) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

// AsFloat returns the numeric value of a scalar node.
func AsFloat(n Node) (float64, bool) {
	switch v := n.(type) {
	case Float:
		return float64(v), true
	case Int:
		return float64(v), true
	case Uint:
		return float64(v), true
	}
	return 0, false
}

// AsString returns the text of a String node.
func AsString(n Node) (string, bool) {
	s, ok := n.(String)
	return string(s), ok
}
