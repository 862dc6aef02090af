package datx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalk(t *testing.T) {
	root := decodedSample(t)

	var paths []string
	err := Walk(root, func(p string, n Node) error {
		paths = append(paths, p)
		return nil
	})
	require.NoError(t, err)

	want := []string{
		"/",
		"/Attributes",
		"/Measurement",
		"/Measurement/Intensity",
		"/Measurement/Surface",
		"/attributes",
		"/attributes/File Layout Version",
	}
	assert.Equal(t, want, paths)
}

func TestWalkSkipGroup(t *testing.T) {
	root := decodedSample(t)

	var paths []string
	err := Walk(root, func(p string, n Node) error {
		paths = append(paths, p)
		if p == "/Measurement" || p == "/attributes" {
			return SkipGroup
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/", "/Attributes", "/Measurement", "/attributes"}, paths)
}

func TestWalkStop(t *testing.T) {
	root := decodedSample(t)

	var visited int
	err := Walk(root, func(p string, n Node) error {
		visited++
		if _, ok := n.(*Dataset); ok {
			return ErrStopWalk
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, visited)
}

func TestWalkError(t *testing.T) {
	root := decodedSample(t)
	boom := errors.New("boom")

	err := Walk(root, func(p string, n Node) error {
		if p == "/Measurement/Surface" {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestIsStopWalk(t *testing.T) {
	assert.True(t, IsStopWalk(ErrStopWalk))
	assert.False(t, IsStopWalk(errors.New("walk stopped")))
	assert.False(t, IsStopWalk(nil))
}
