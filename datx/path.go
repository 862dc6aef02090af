package datx

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAttrPath parses an attribute path into object path and attribute name.
// Path format: /group/subgroup/object@attribute_name
//
// Examples:
//   - "/@root_attr" -> objectPath="/", attrName="root_attr"
//   - "/Measurement/Surface@Unit" -> objectPath="/Measurement/Surface", attrName="Unit"
//
// Attribute names may contain spaces ("No Data").
func ParseAttrPath(path string) (objectPath, attrName string, err error) {
	if path == "" {
		return "", "", fmt.Errorf("%w: empty attribute path", ErrInvalidPath)
	}

	atIdx := strings.LastIndex(path, "@")
	if atIdx == -1 {
		return "", "", fmt.Errorf("%w: attribute path must contain '@' separator: %s", ErrInvalidPath, path)
	}

	objectPath = path[:atIdx]
	attrName = path[atIdx+1:]

	if attrName == "" {
		return "", "", fmt.Errorf("%w: attribute name cannot be empty: %s", ErrInvalidPath, path)
	}
	return CleanPath(objectPath), attrName, nil
}

// JoinAttrPath creates an attribute path from object path and attribute name.
func JoinAttrPath(objectPath, attrName string) string {
	if objectPath == "/" {
		return "/@" + attrName
	}
	return objectPath + "@" + attrName
}

// SplitPath splits a path into its components.
// Leading and trailing slashes are handled, empty components are removed.
func SplitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return []string{}
	}
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CleanPath normalizes a path, ensuring it starts with "/" and has no trailing slash.
func CleanPath(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimSuffix(path, "/")
}

// Lookup resolves a slash-separated path in a decoded tree. Components
// step into Group children, the "attributes" and "values" of a Dataset,
// and numeric indexes of a Sequence.
//
//	Lookup(root, "/Measurement/Surface/values")
//	Lookup(root, "/Measurement/Surface/attributes/X Converter/Parameters")
func Lookup(root Group, path string) (Node, error) {
	var cur Node = root
	walked := ""
	for _, part := range SplitPath(path) {
		walked += "/" + part
		next, ok := child(cur, part)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, walked)
		}
		cur = next
	}
	return cur, nil
}

// LookupAttr resolves an attribute path such as
// "/Measurement/Surface@No Data". It works for both Group and Dataset
// owners.
func LookupAttr(root Group, path string) (Node, error) {
	objectPath, name, err := ParseAttrPath(path)
	if err != nil {
		return nil, err
	}
	owner, err := Lookup(root, objectPath)
	if err != nil {
		return nil, err
	}

	var attrs Group
	switch o := owner.(type) {
	case *Dataset:
		attrs = o.Attributes
	case Group:
		attrs = o.Attrs()
	default:
		return nil, fmt.Errorf("%w: %s has no attributes", ErrNotFound, objectPath)
	}
	n, ok := attrs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return n, nil
}

func child(n Node, name string) (Node, bool) {
	switch v := n.(type) {
	case Group:
		c, ok := v[name]
		return c, ok
	case *Dataset:
		switch name {
		case AttributesKey:
			return v.Attributes, true
		case ValuesKey:
			return v.Values, v.Values != nil
		}
	case Sequence:
		i, err := strconv.Atoi(name)
		if err != nil || i < 0 || i >= len(v) {
			return nil, false
		}
		return v[i], true
	case Array:
		i, err := strconv.Atoi(name)
		if err != nil {
			return nil, false
		}
		elem, err := v.At(i)
		return elem, err == nil
	}
	return nil, false
}
