package datx

import (
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"
)

// Decoder normalises source nodes into decoded trees.
type Decoder struct {
	log *zap.Logger
}

// NewDecoder returns a Decoder configured with opts.
func NewDecoder(opts ...Option) *Decoder {
	o := newOptions(opts)
	return &Decoder{log: o.logger}
}

// Decode normalises v with a default Decoder.
func Decode(v any) (Node, error) {
	return NewDecoder().Decode(v)
}

// Decode normalises v. Dispatch is by capability, in priority order:
//
//  1. Container: Group of decoded children, plus "attributes" when the
//     container carries metadata.
//  2. AttributeSet: Group of decoded attribute values.
//  3. Leaf: *Dataset; the payload is omitted if it cannot be read.
//  4. Array, RecordArray, []any, []string: one-element numeric arrays become
//     scalars, record arrays become Sequences of Groups, element lists are
//     decoded and normalised as Sequences.
//  5. Record: Sequence of decoded field values, normalised.
//  6. Sequence: a single element is unwrapped.
//  7. []byte: UTF-8 text.
//  8. Scalars and decoded nodes are returned as they are.
//
// Any other value fails with ErrUnsupported.
func (d *Decoder) Decode(v any) (Node, error) {
	return d.decode(v, "/")
}

func (d *Decoder) decode(v any, at string) (Node, error) {
	switch src := v.(type) {
	case Container:
		return d.decodeContainer(src, at)
	case AttributeSet:
		return d.decodeAttributes(src, at)
	case Leaf:
		return d.decodeLeaf(src, at)
	case Array:
		return decodeArray(src)
	case RecordArray:
		return d.decodeRecords(src, at)
	case []any:
		seq := make(Sequence, len(src))
		for i, elem := range src {
			n, err := d.decode(elem, indexPath(at, i))
			if err != nil {
				return nil, err
			}
			seq[i] = n
		}
		return normalize(seq), nil
	case []string:
		seq := make(Sequence, len(src))
		for i, s := range src {
			seq[i] = String(s)
		}
		return normalize(seq), nil
	case Record:
		seq := make(Sequence, len(src.Values))
		for i, field := range src.Values {
			n, err := d.decode(field, indexPath(at, i))
			if err != nil {
				return nil, err
			}
			seq[i] = n
		}
		return normalize(seq), nil
	case Sequence:
		return normalize(src), nil
	case []byte:
		return String(strings.ToValidUTF8(string(src), "�")), nil
	case Node:
		return src, nil
	}
	if n, ok := scalar(v); ok {
		return n, nil
	}
	return nil, fmt.Errorf("%w: %T at %s", ErrUnsupported, v, at)
}

func (d *Decoder) decodeContainer(c Container, at string) (Group, error) {
	names, err := c.Members()
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", at, err)
	}
	g := make(Group, len(names)+1)
	for _, name := range names {
		childPath := path.Join(at, name)
		child, err := c.Child(name)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", childPath, err)
		}
		n, err := d.decode(child, childPath)
		if err != nil {
			return nil, err
		}
		g[name] = n
	}

	attrs, err := c.Attrs()
	if err != nil {
		return nil, fmt.Errorf("reading attributes of %s: %w", at, err)
	}
	if attrs != nil && len(attrs.Keys()) > 0 {
		a, err := d.decodeAttributes(attrs, at)
		if err != nil {
			return nil, err
		}
		g[AttributesKey] = a
	}
	return g, nil
}

func (d *Decoder) decodeAttributes(attrs AttributeSet, at string) (Group, error) {
	g := Group{}
	if attrs == nil {
		return g, nil
	}
	for _, name := range attrs.Keys() {
		raw, ok := attrs.Get(name)
		if !ok {
			continue
		}
		n, err := d.decode(raw, JoinAttrPath(at, name))
		if err != nil {
			return nil, err
		}
		g[name] = n
	}
	return g, nil
}

func (d *Decoder) decodeLeaf(l Leaf, at string) (*Dataset, error) {
	attrs, err := l.Attrs()
	if err != nil {
		return nil, fmt.Errorf("reading attributes of %s: %w", at, err)
	}
	a, err := d.decodeAttributes(attrs, at)
	if err != nil {
		return nil, err
	}
	ds := &Dataset{Attributes: a}

	raw, err := l.Value()
	if err != nil {
		d.log.Debug("dataset has no readable values",
			zap.String("path", at), zap.Error(err))
		return ds, nil
	}
	ds.Values, err = d.decode(raw, at)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func (d *Decoder) decodeRecords(records RecordArray, at string) (Node, error) {
	seq := make(Sequence, len(records))
	for i, rec := range records {
		if len(rec.Names) != len(rec.Values) {
			return nil, fmt.Errorf("%w: record %d at %s has %d names for %d fields",
				ErrUnsupported, i, at, len(rec.Names), len(rec.Values))
		}
		g := make(Group, len(rec.Names))
		for j, name := range rec.Names {
			n, err := d.decode(rec.Values[j], path.Join(indexPath(at, i), name))
			if err != nil {
				return nil, err
			}
			g[name] = n
		}
		seq[i] = g
	}
	return normalize(seq), nil
}

func decodeArray(a Array) (Node, error) {
	if a.Len() == 1 {
		return a.At(0)
	}
	return a, nil
}

func normalize(seq Sequence) Node {
	if len(seq) == 1 {
		return seq[0]
	}
	return seq
}

func scalar(v any) (Node, bool) {
	switch x := v.(type) {
	case int:
		return Int(x), true
	case int8:
		return Int(x), true
	case int16:
		return Int(x), true
	case int32:
		return Int(x), true
	case int64:
		return Int(x), true
	case uint:
		return Uint(x), true
	case uint8:
		return Uint(x), true
	case uint16:
		return Uint(x), true
	case uint32:
		return Uint(x), true
	case uint64:
		return Uint(x), true
	case float32:
		return Float(x), true
	case float64:
		return Float(x), true
	case bool:
		return Bool(x), true
	case string:
		return String(x), true
	}
	return nil, false
}

func indexPath(at string, i int) string {
	return fmt.Sprintf("%s[%d]", at, i)
}
