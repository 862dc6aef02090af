package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-datx/datx"
)

func TestDiffCommand(t *testing.T) {
	out, err := run(t, "diff", "scan.datx", "scan.datx")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = run(t, "diff", "scan.datx", "micro.datx", "--path", "/Measurement/Surface/attributes")
	require.NoError(t, err)
	assert.Contains(t, out, "- Unit: NanoMeters\n")
	assert.Contains(t, out, "+ Unit: MicroMeters\n")
	assert.NotContains(t, out, "Category")

	_, err = run(t, "diff", "scan.datx", "other.datx")
	assert.ErrorIs(t, err, datx.ErrFileAccess)

	_, err = run(t, "diff", "scan.datx", "micro.datx", "--path", "/Nope")
	assert.ErrorIs(t, err, datx.ErrNotFound)
}

func TestWriteDiff(t *testing.T) {
	var b strings.Builder
	writeDiff(&b, diffLines("a\nb\nc\nd\ne\n", "a\nb\nX\nd\ne\n"), false)
	assert.Equal(t, "  b\n- c\n+ X\n  d\n", b.String())

	b.Reset()
	writeDiff(&b, diffLines("a\nb\nc\nd\ne\nf\n", "A\nb\nc\nd\ne\nF\n"), false)
	assert.Equal(t, "- a\n+ A\n  b\n  ...\n  e\n- f\n+ F\n", b.String())

	b.Reset()
	writeDiff(&b, diffLines("same\n", "same\n"), false)
	assert.Empty(t, b.String())
}
