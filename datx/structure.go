package datx

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// structureIndent is the indentation added per nesting level.
const structureIndent = 4

// Structure lists the groups and datasets of the container at path, one
// line per object, without reading dataset payloads:
//
//	[Group] Measurement
//	    [Dataset] Surface - Shape: (480, 640), Dtype: float32
//
// The file is opened when iteration starts and closed when it ends or the
// caller stops early. An error is yielded once, as the final element.
func Structure(path string, opts ...Option) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		o := newOptions(opts)
		root, err := o.opener(path)
		if err != nil {
			yield("", err)
			return
		}
		defer root.Close()

		if err := walkStructure(root, 0, yield); err != nil && !errors.Is(err, errStopped) {
			yield("", err)
		}
	}
}

// errStopped signals that the consumer stopped iterating.
var errStopped = errors.New("structure listing stopped")

func walkStructure(c Container, depth int, yield func(string, error) bool) error {
	names, err := c.Members()
	if err != nil {
		return err
	}
	indent := strings.Repeat(" ", depth*structureIndent)
	for _, name := range names {
		child, err := c.Child(name)
		if err != nil {
			return fmt.Errorf("opening %s: %w", name, err)
		}
		switch obj := child.(type) {
		case Container:
			if !yield(indent+"[Group] "+name, nil) {
				return errStopped
			}
			if err := walkStructure(obj, depth+1, yield); err != nil {
				return err
			}
		case Leaf:
			if !yield(indent+"[Dataset] "+name+describe(obj), nil) {
				return errStopped
			}
		}
	}
	return nil
}

func describe(l Leaf) string {
	d, ok := l.(Described)
	if !ok {
		return ""
	}
	shape, err := d.Shape()
	if err != nil {
		return fmt.Sprintf(" - Shape: ?, Dtype: %s", d.Dtype())
	}
	return fmt.Sprintf(" - Shape: %s, Dtype: %s", FormatShape(shape), d.Dtype())
}

// FormatShape renders a shape as a tuple: "()", "(5,)", "(480, 640)".
func FormatShape(shape []int) string {
	parts := make([]string, len(shape))
	for i, s := range shape {
		parts[i] = strconv.Itoa(s)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
