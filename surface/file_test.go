package surface

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-datx/datx"
	"github.com/robert-malhotra/go-datx/internal/hdf5"
)

func writeMeasurement(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tilted.datx")

	f, err := hdf5.Create(path)
	require.NoError(t, err)
	m, err := f.Root().CreateGroup(MeasurementGroup)
	require.NoError(t, err)

	conv := func(pitch float64) hdf5.Compound {
		return hdf5.Compound{
			Names:  []string{"Category", "Parameters"},
			Values: []any{"LateralCat", []float64{0, pitch, 0, 0}},
		}
	}
	z := []float64{
		0, 1000, 2000, 3000,
		500, 1500, 2500, 3500,
		1000, 2000, 3000, noData,
	}
	require.NoError(t, m.CreateDataset("Surface", []int{3, 4}, z,
		hdf5.WithAttribute(AttrNoData, []float64{noData}),
		hdf5.WithAttribute(AttrUnit, "NanoMeters"),
		hdf5.WithAttribute(AttrXConverter, conv(2e-6)),
		hdf5.WithAttribute(AttrYConverter, conv(4e-6)),
	))
	require.NoError(t, m.CreateDataset("Intensity", []int{0}, []uint16{},
		hdf5.WithAttribute(AttrUnit, "")))
	require.NoError(t, f.Close())
	return path
}

func TestExtractFromFile(t *testing.T) {
	root, err := datx.Read(writeMeasurement(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"Surface"}, Quantities(root))

	s, err := Extract(root, "Surface")
	require.NoError(t, err)
	assert.Equal(t, "μm", s.Unit)
	assert.InDelta(t, 2.0, s.PitchX, 1e-12)
	assert.InDelta(t, 4.0, s.PitchY, 1e-12)
	assert.InDelta(t, 1.5, s.Z.At(1, 1), 1e-12)
	assert.Equal(t, noData*1e-3, s.NoData)

	_, err = Extract(root, "Intensity")
	assert.ErrorIs(t, err, ErrNotSurface)
}
