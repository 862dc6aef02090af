package datx

import (
	"errors"
	"path"
)

// WalkFunc is called for each node during traversal.
// p is the slash path of the node; the root group is "/".
// Return nil to continue, SkipGroup to skip the children of a Group, or
// any other error to stop.
type WalkFunc func(p string, n Node) error

// SkipGroup can be returned from a WalkFunc visiting a Group to skip its
// children.
var SkipGroup = errors.New("skip this group")

// ErrStopWalk can be returned from a WalkFunc to stop walking without an error.
var ErrStopWalk = &walkStopError{}

type walkStopError struct{}

func (e *walkStopError) Error() string { return "walk stopped" }

// IsStopWalk returns true if the error is ErrStopWalk.
func IsStopWalk(err error) bool {
	_, ok := err.(*walkStopError)
	return ok
}

// Walk traverses a decoded tree depth-first in sorted key order, starting
// with root itself. Groups are descended, including their "attributes"
// entry; datasets, sequences and scalars are leaves of the walk.
//
// Example:
//
//	Walk(root, func(p string, n Node) error {
//	    if ds, ok := n.(*Dataset); ok && ds.HasValues() {
//	        fmt.Println("dataset:", p)
//	    }
//	    return nil
//	})
func Walk(root Group, fn WalkFunc) error {
	err := walkNode("/", root, fn)
	if IsStopWalk(err) || errors.Is(err, SkipGroup) {
		return nil
	}
	return err
}

func walkNode(p string, n Node, fn WalkFunc) error {
	err := fn(p, n)
	g, isGroup := n.(Group)
	if err != nil || !isGroup {
		return err
	}
	for _, name := range g.Keys() {
		if err := walkNode(path.Join(p, name), g[name], fn); err != nil {
			if errors.Is(err, SkipGroup) {
				continue
			}
			return err
		}
	}
	return nil
}
