package datx

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadClosesOnSuccess(t *testing.T) {
	root := sampleRoot()
	g, err := Read("sample.datx", WithOpener(fakeOpener(root)))
	require.NoError(t, err)
	assert.Equal(t, 1, root.closed)

	surface, err := Lookup(g, "/Measurement/Surface")
	require.NoError(t, err)
	assert.IsType(t, &Dataset{}, surface)
}

func TestReadClosesOnDecodeError(t *testing.T) {
	root := &fakeRoot{fakeGroup: &fakeGroup{children: map[string]any{
		"odd": struct{}{},
	}}}
	_, err := Read("odd.datx", WithOpener(fakeOpener(root)))
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Equal(t, 1, root.closed)
}

func TestReadOpenerError(t *testing.T) {
	open := func(string) (Root, error) {
		return nil, ErrFormat
	}
	_, err := Read("x.datx", WithOpener(open))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestReadNotExists(t *testing.T) {
	_, err := Read("/nonexistent/path/to/file.datx")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileAccess)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReadNotHDF5(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notHDF5.datx")
	require.NoError(t, os.WriteFile(path, []byte("This is not an HDF5 file, just some text."), 0o644))

	_, err := Read(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFormat)
	assert.NotErrorIs(t, err, ErrFileAccess)
	assert.Equal(t, 1, strings.Count(err.Error(), ErrFormat.Error()), "ErrFormat wrapped once: %v", err)
}

func TestReadDirectory(t *testing.T) {
	_, err := Read(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileAccess)
	assert.NotErrorIs(t, err, ErrFormat)
}

func TestReadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.datx")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := Read(path)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestReadSampleFile(t *testing.T) {
	g, err := Read(writeSample(t))
	require.NoError(t, err)

	assert.Equal(t, Int(1), g.Attrs()["File Layout Version"])
	assert.Equal(t, []string{"Attributes", "Measurement", AttributesKey}, g.Keys())

	m, err := Lookup(g, "/Measurement")
	require.NoError(t, err)
	require.IsType(t, Group{}, m)
	assert.Equal(t, String("sample"), m.(Group).Attrs()["Name"])

	n, err := Lookup(g, "/Measurement/Surface")
	require.NoError(t, err)
	surface := n.(*Dataset)
	require.True(t, surface.HasValues())
	assert.Equal(t, Array{Shape: []int{3, 4}, Data: sampleSurface}, surface.Values)
	assert.Equal(t, String("NanoMeters"), surface.Attributes["Unit"])
	assert.Equal(t, Float(sampleNoData), surface.Attributes["No Data"])

	want := Group{
		"Category":   String("LateralCat"),
		"Parameters": Array{Shape: []int{4}, Data: []float64{0, 2e-6, 0, 0}},
	}
	assert.Equal(t, want, surface.Attributes["X Converter"])

	pitch, err := Lookup(g, "/Measurement/Surface/attributes/Y Converter/Parameters/1")
	require.NoError(t, err)
	assert.Equal(t, Float(3e-6), pitch)

	n, err = Lookup(g, "/Measurement/Intensity")
	require.NoError(t, err)
	intensity := n.(*Dataset)
	assert.False(t, intensity.HasValues())
	assert.NotNil(t, intensity.Attributes)
}

func TestReadNestedGroupAttributes(t *testing.T) {
	g, err := Read(writeSample(t))
	require.NoError(t, err)

	n, err := Lookup(g, "/Attributes/Data Context")
	require.NoError(t, err)
	ctx, ok := n.(Group)
	require.True(t, ok, "got %T", n)

	want := Group{
		"Instrument":         String("Profiler"),
		"Lens Magnification": Float(50),
	}
	assert.Equal(t, want, ctx.Attrs())

	v, err := LookupAttr(g, "/Attributes/Data Context@Instrument")
	require.NoError(t, err)
	assert.Equal(t, String("Profiler"), v)
}

func TestStructureSampleFile(t *testing.T) {
	var lines []string
	for line, err := range Structure(writeSample(t)) {
		require.NoError(t, err)
		lines = append(lines, line)
	}

	want := []string{
		"[Group] Attributes",
		"    [Group] Data Context",
		"[Group] Measurement",
		"    [Dataset] Intensity - Shape: (0,), Dtype: uint16",
		"    [Dataset] Surface - Shape: (3, 4), Dtype: float64",
	}
	assert.Equal(t, want, lines)
}
