package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/robert-malhotra/go-datx/datx"
	"github.com/robert-malhotra/go-datx/grid"
)

const noData = 1.7976931348623157e308

func converter(pitch float64) datx.Group {
	return datx.Group{
		"Category":   datx.String("LateralCat"),
		"Parameters": datx.Array{Shape: []int{4}, Data: []float64{0, pitch, 0, 0}},
	}
}

// measurement builds a decoded file with a 3×4 tilted surface in
// nanometres and one missing cell.
func measurement() datx.Group {
	z := []float64{
		0, 1000, 2000, 3000,
		500, 1500, 2500, 3500,
		1000, 2000, 3000, noData,
	}
	surface := &datx.Dataset{
		Attributes: datx.Group{
			AttrNoData:     datx.Float(noData),
			AttrUnit:       datx.String("NanoMeters"),
			AttrXConverter: converter(2e-6),
			AttrYConverter: converter(4e-6),
		},
		Values: datx.Array{Shape: []int{3, 4}, Data: z},
	}
	return datx.Group{
		MeasurementGroup: datx.Group{
			"Surface": surface,
			"Intensity": &datx.Dataset{
				Attributes: datx.Group{AttrUnit: datx.String("")},
			},
			"Quality": &datx.Dataset{
				Attributes: datx.Group{},
				Values:     datx.Array{Shape: []int{2, 2}, Data: []uint16{1, 2, 3, 4}},
			},
		},
	}
}

func TestQuantities(t *testing.T) {
	assert.Equal(t, []string{"Quality", "Surface"}, Quantities(measurement()))
	assert.Nil(t, Quantities(datx.Group{}))
}

func TestExtract(t *testing.T) {
	s, err := Extract(measurement(), "Surface")
	require.NoError(t, err)

	assert.Equal(t, "Surface", s.Name)
	assert.Equal(t, "μm", s.Unit)
	assert.InDelta(t, 2.0, s.PitchX, 1e-12)
	assert.InDelta(t, 4.0, s.PitchY, 1e-12)
	assert.InDelta(t, 1.5, s.Z.At(1, 1), 1e-12)
	assert.Equal(t, noData*1e-3, s.NoData)

	r, c := s.Z.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 4, c)
	assert.InDelta(t, 6.0, s.X.At(2, 3), 1e-9)
	assert.InDelta(t, 8.0, s.Y.At(2, 3), 1e-9)
}

func TestExtractKeepsOtherUnits(t *testing.T) {
	root := measurement()
	ds := root[MeasurementGroup].(datx.Group)["Surface"].(*datx.Dataset)
	ds.Attributes[AttrUnit] = datx.String("MicroMeters")

	s, err := Extract(root, "Surface")
	require.NoError(t, err)
	assert.Equal(t, "MicroMeters", s.Unit)
	assert.Equal(t, 1500.0, s.Z.At(1, 1))
	assert.Equal(t, noData, s.NoData)
}

func TestExtractErrors(t *testing.T) {
	_, err := Extract(measurement(), "Missing")
	assert.ErrorIs(t, err, datx.ErrNotFound)

	_, err = Extract(measurement(), "Intensity")
	assert.ErrorIs(t, err, ErrNotSurface)

	for _, name := range []string{AttrNoData, AttrUnit, AttrXConverter, AttrYConverter} {
		t.Run(name, func(t *testing.T) {
			root := measurement()
			ds := root[MeasurementGroup].(datx.Group)["Surface"].(*datx.Dataset)
			delete(ds.Attributes, name)

			_, err := Extract(root, "Surface")
			assert.ErrorIs(t, err, ErrMissingAttribute)
		})
	}

	root := measurement()
	ds := root[MeasurementGroup].(datx.Group)["Surface"].(*datx.Dataset)
	ds.Attributes[AttrXConverter] = datx.Group{"Parameters": datx.String("n/a")}
	_, err = Extract(root, "Surface")
	assert.ErrorIs(t, err, ErrMissingAttribute)

	ds.Values = datx.Array{Shape: []int{12}, Data: make([]float64, 12)}
	_, err = Extract(root, "Surface")
	assert.ErrorIs(t, err, ErrNotSurface)
}

func TestExtractFromDecodedRecords(t *testing.T) {
	raw := datx.Attributes{
		{Name: AttrNoData, Value: datx.Array{Shape: []int{1}, Data: []float64{-1}}},
		{Name: AttrUnit, Value: []byte("NanoMeters")},
		{Name: AttrXConverter, Value: datx.RecordArray{{
			Names:  []string{"Category", "Parameters"},
			Values: []any{[]byte("LateralCat"), datx.Array{Shape: []int{2}, Data: []float64{0, 1e-6}}},
		}}},
		{Name: AttrYConverter, Value: datx.RecordArray{{
			Names:  []string{"Category", "Parameters"},
			Values: []any{[]byte("LateralCat"), datx.Array{Shape: []int{2}, Data: []float64{0, 1e-6}}},
		}}},
	}
	attrs, err := datx.Decode(raw)
	require.NoError(t, err)

	root := datx.Group{MeasurementGroup: datx.Group{"Surface": &datx.Dataset{
		Attributes: attrs.(datx.Group),
		Values:     datx.Array{Shape: []int{2, 2}, Data: []float64{1000, -1, 3000, 4000}},
	}}}
	s, err := Extract(root, "Surface")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, s.PitchX, 1e-12)
	assert.InDelta(t, -1e-3, s.NoData, 1e-15)

	res, err := s.Apply(OpFill)
	require.NoError(t, err)
	assert.Equal(t, 0, grid.Summarize(res.Z).Missing)
}

func TestSurfaceDoesNotShareValues(t *testing.T) {
	root := measurement()
	s, err := Extract(root, "Surface")
	require.NoError(t, err)
	s.Z.Set(0, 0, 42)

	again, err := Extract(root, "Surface")
	require.NoError(t, err)
	assert.Equal(t, 0.0, again.Z.At(0, 0))
	assert.False(t, mat.Equal(s.Z, again.Z))
}
