package cmd

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/robert-malhotra/go-datx/datx"
	"github.com/robert-malhotra/go-datx/grid"
)

func TestStructCommand(t *testing.T) {
	out, err := run(t, "struct", "scan.datx")
	require.NoError(t, err)

	want := "[Group] Measurement\n" +
		"    [Dataset] Intensity - Shape: (0,), Dtype: uint16\n" +
		"    [Dataset] Surface - Shape: (3, 4), Dtype: float64\n"
	assert.Equal(t, want, out)
}

func TestStructCommandMissingFile(t *testing.T) {
	_, err := run(t, "struct", "other.datx")
	assert.ErrorIs(t, err, datx.ErrFileAccess)
}

func TestNewPainterPlain(t *testing.T) {
	paint := newPainter(&strings.Builder{}, false)
	assert.Equal(t, "    [Group] a", paint("    [Group] a"))
}

func TestLsCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "root",
			args: nil,
			want: []string{
				"/\tgroup",
				"/Measurement\tgroup",
				"/Measurement/Intensity\tdataset (empty)",
				"/Measurement/Surface\tdataset float64 (3, 4)",
			},
		},
		{
			name: "with attributes",
			args: []string{"--attrs"},
			want: []string{
				"/\tgroup",
				"/Measurement\tgroup",
				"/Measurement/Intensity\tdataset (empty)",
				"/Measurement/Surface\tdataset float64 (3, 4)",
				"/attributes\tgroup",
				"/attributes/File Layout Version\tint",
			},
		},
		{
			name: "subgroup",
			args: []string{"--path", "Measurement"},
			want: []string{
				"/Measurement\tgroup",
				"/Measurement/Intensity\tdataset (empty)",
				"/Measurement/Surface\tdataset float64 (3, 4)",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"ls", "scan.datx"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.Split(strings.TrimSuffix(out, "\n"), "\n"))
		})
	}

	_, err := run(t, "ls", "scan.datx", "--path", "/Measurement/Surface")
	assert.Error(t, err)
	_, err = run(t, "ls", "scan.datx", "--path", "/Nope")
	assert.ErrorIs(t, err, datx.ErrNotFound)
}

func TestDumpCommand(t *testing.T) {
	out, err := run(t, "dump", "scan.datx", "--path", "/Measurement/Surface")
	require.NoError(t, err)
	assert.Contains(t, out, "Unit: NanoMeters")
	assert.Contains(t, out, "Category: LateralCat")
	assert.Contains(t, out, "<float64 (3, 4)>")

	out, err = run(t, "dump", "scan.datx", "--path", "/Measurement/Surface", "--full")
	require.NoError(t, err)
	var doc struct {
		Attributes map[string]any `yaml:"attributes"`
		Values     struct {
			Dtype string    `yaml:"dtype"`
			Shape []int     `yaml:"shape"`
			Data  []float64 `yaml:"data"`
		} `yaml:"values"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "float64", doc.Values.Dtype)
	assert.Equal(t, []int{3, 4}, doc.Values.Shape)
	assert.Len(t, doc.Values.Data, 12)
	assert.Equal(t, "NanoMeters", doc.Attributes["Unit"])
}

func TestDumpEmptyDataset(t *testing.T) {
	out, err := run(t, "dump", "scan.datx", "--path", "/Measurement/Intensity")
	require.NoError(t, err)
	assert.Contains(t, out, "attributes")
	assert.NotContains(t, out, "values")
}

func TestQuantitiesCommand(t *testing.T) {
	out, err := run(t, "quantities", "scan.datx")
	require.NoError(t, err)
	assert.Equal(t, "Surface\n", out)
}

func TestProcessCommand(t *testing.T) {
	t.Run("raw to stdout", func(t *testing.T) {
		out, err := run(t, "process", "scan.datx", "-q", "Surface")
		require.NoError(t, err)

		ms, err := grid.ReadText(strings.NewReader(out))
		require.NoError(t, err)
		require.Len(t, ms, 3)
		assert.InDelta(t, 3.0, ms[0].At(2, 3), 1e-9)
		assert.InDelta(t, 2.0, ms[1].At(2, 3), 1e-9)
		assert.True(t, math.IsNaN(ms[2].At(2, 3)))
		assert.InDelta(t, 1.5, ms[2].At(1, 1), 1e-12)
	})

	t.Run("baseline to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "surface.txt")
		out, err := run(t, "process", "scan.datx", "--op", "baseline", "-o", path)
		require.NoError(t, err)
		assert.Empty(t, out)

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()
		ms, err := grid.ReadText(f)
		require.NoError(t, err)
		require.Len(t, ms, 3)
		assert.InDelta(t, 0, stat.Mean(ms[2].RawMatrix().Data, nil), 1e-9)
	})

	t.Run("profile", func(t *testing.T) {
		dir := t.TempDir()
		output := filepath.Join(dir, "filled.txt")
		profile := filepath.Join(dir, "profile.yaml")
		require.NoError(t, os.WriteFile(profile, []byte(
			"quantity: Surface\nop: fill\noutput: "+output+"\nlogging:\n  level: error\n"), 0o600))

		_, err := run(t, "process", "scan.datx", "--config", profile)
		require.NoError(t, err)

		f, err := os.Open(output)
		require.NoError(t, err)
		defer f.Close()
		ms, err := grid.ReadText(f)
		require.NoError(t, err)
		require.Len(t, ms, 3)
		assert.Equal(t, 0, grid.Summarize(ms[2]).Missing)
	})

	t.Run("flags override profile", func(t *testing.T) {
		profile := filepath.Join(t.TempDir(), "profile.yaml")
		require.NoError(t, os.WriteFile(profile, []byte("op: fill\n"), 0o600))

		out, err := run(t, "process", "scan.datx", "--config", profile, "--op", "raw")
		require.NoError(t, err)
		ms, err := grid.ReadText(strings.NewReader(out))
		require.NoError(t, err)
		assert.True(t, math.IsNaN(ms[2].At(2, 3)))
	})

	t.Run("errors", func(t *testing.T) {
		_, err := run(t, "process", "scan.datx", "-q", "Missing")
		assert.ErrorIs(t, err, datx.ErrNotFound)

		_, err = run(t, "process", "scan.datx", "--op", "smooth")
		assert.Error(t, err)

		_, err = run(t, "process", "scan.datx", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
