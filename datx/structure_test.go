package datx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructure(t *testing.T) {
	root := sampleRoot()

	var lines []string
	for line, err := range Structure("sample.datx", WithOpener(fakeOpener(root))) {
		require.NoError(t, err)
		lines = append(lines, line)
	}

	want := []string{
		"[Group] Attributes",
		"[Group] Measurement",
		"    [Dataset] Intensity - Shape: (0,), Dtype: uint16",
		"    [Dataset] Surface - Shape: (2, 3), Dtype: float32",
	}
	assert.Equal(t, want, lines)
	assert.Equal(t, 1, root.closed)
}

func TestStructureIsLazy(t *testing.T) {
	root := sampleRoot()
	seq := Structure("sample.datx", WithOpener(fakeOpener(root)))
	assert.Equal(t, 0, root.closed, "nothing opened before iteration")

	for line := range seq {
		assert.Equal(t, "[Group] Attributes", line)
		break
	}
	assert.Equal(t, 1, root.closed, "file closed after early stop")
}

func TestStructureOpenError(t *testing.T) {
	open := func(string) (Root, error) {
		return nil, ErrFileAccess
	}
	var errs []error
	for _, err := range Structure("missing.datx", WithOpener(open)) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], ErrFileAccess))
}

func TestStructureListingError(t *testing.T) {
	root := &fakeRoot{fakeGroup: &fakeGroup{children: map[string]any{
		"broken": &fakeGroup{failList: true},
	}}}

	var lines []string
	var last error
	for line, err := range Structure("broken.datx", WithOpener(fakeOpener(root))) {
		if err != nil {
			last = err
			continue
		}
		lines = append(lines, line)
	}
	assert.Equal(t, []string{"[Group] broken"}, lines)
	assert.Error(t, last)
	assert.Equal(t, 1, root.closed)
}

func TestFormatShape(t *testing.T) {
	tests := []struct {
		shape []int
		want  string
	}{
		{nil, "()"},
		{[]int{5}, "(5,)"},
		{[]int{480, 640}, "(480, 640)"},
		{[]int{2, 3, 4}, "(2, 3, 4)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatShape(tt.shape))
		})
	}
}
