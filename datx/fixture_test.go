package datx

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-datx/internal/hdf5"
)

// sampleNoData is the no-data sentinel of the sample surface.
var sampleNoData = math.MaxFloat64

// sampleSurface is the 3×4 height map stored in the sample file.
var sampleSurface = []float64{
	1, 2, 3, 4,
	5, sampleNoData, 7, 8,
	9, 10, 11, 12,
}

// writeSample writes a file laid out like a profilometer export:
//
//	/                       @File Layout Version
//	/Attributes/Data Context @Instrument @Lens Magnification
//	/Measurement            @Name
//	/Measurement/Surface    3×4 float64 with unit, no-data and converters
//	/Measurement/Intensity  empty uint16
func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.datx")

	f, err := hdf5.Create(path)
	require.NoError(t, err)
	root := f.Root()
	require.NoError(t, root.SetAttr("File Layout Version", int32(1)))

	attrs, err := root.CreateGroup("Attributes")
	require.NoError(t, err)
	ctx, err := attrs.CreateGroup("Data Context")
	require.NoError(t, err)
	require.NoError(t, ctx.SetAttr("Instrument", "Profiler"))
	require.NoError(t, ctx.SetAttr("Lens Magnification", 50.0))

	m, err := root.CreateGroup("Measurement")
	require.NoError(t, err)
	require.NoError(t, m.SetAttr("Name", "sample"))

	converter := func(pitch float64) hdf5.Compound {
		return hdf5.Compound{
			Names:  []string{"Category", "Parameters"},
			Values: []any{"LateralCat", []float64{0, pitch, 0, 0}},
		}
	}
	require.NoError(t, m.CreateDataset("Surface", []int{3, 4}, sampleSurface,
		hdf5.WithAttribute("No Data", []float64{sampleNoData}),
		hdf5.WithAttribute("Unit", "NanoMeters"),
		hdf5.WithAttribute("X Converter", converter(2e-6)),
		hdf5.WithAttribute("Y Converter", converter(3e-6)),
	))
	require.NoError(t, m.CreateDataset("Intensity", []int{0}, []uint16{}))

	require.NoError(t, f.Close())
	return path
}
