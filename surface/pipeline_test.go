package surface

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/robert-malhotra/go-datx/grid"
)

func TestParseOp(t *testing.T) {
	tests := []struct {
		in      string
		want    Op
		wantErr bool
	}{
		{"raw", OpRaw, false},
		{"fill", OpFill, false},
		{"Baseline", OpBaseline, false},
		{"level", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOp(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply(t *testing.T) {
	s, err := Extract(measurement(), "Surface")
	require.NoError(t, err)

	raw, err := s.Apply(OpRaw)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(raw.Z.At(2, 3)))
	assert.InDelta(t, 3.5, raw.Z.At(1, 3), 1e-12)
	assert.Nil(t, raw.Plane)
	assert.Equal(t, "μm", raw.Unit)

	fill, err := s.Apply(OpFill)
	require.NoError(t, err)
	// (2, 2) is 2 μm away, (1, 3) is 4 μm away.
	assert.InDelta(t, 3.0, fill.Z.At(2, 3), 1e-12)
	assert.Same(t, s.X, fill.X)

	base, err := s.Apply(OpBaseline)
	require.NoError(t, err)
	require.NotNil(t, base.Plane)
	assert.InDelta(t, 0, stat.Mean(base.Z.RawMatrix().Data, nil), 1e-9)

	assert.Equal(t, noData*1e-3, s.Z.At(2, 3), "surface modified")

	_, err = s.Apply(Op("smooth"))
	assert.Error(t, err)
}

func TestApplyAllMissing(t *testing.T) {
	s, err := Extract(measurement(), "Surface")
	require.NoError(t, err)
	s.Z.Apply(func(_, _ int, _ float64) float64 { return s.NoData }, s.Z)

	_, err = s.Apply(OpFill)
	assert.ErrorIs(t, err, grid.ErrInsufficientData)
	_, err = s.Apply(OpBaseline)
	assert.ErrorIs(t, err, grid.ErrInsufficientData)

	raw, err := s.Apply(OpRaw)
	require.NoError(t, err)
	ticks, labels := Ticks(raw.Z, raw.Unit)
	assert.Nil(t, ticks)
	assert.Nil(t, labels)
}

func TestTicks(t *testing.T) {
	z := mat.NewDense(3, 3, []float64{0, 1, 2, 3, math.NaN(), 5, 6, 7, 8})

	ticks, labels := Ticks(z, "μm")
	require.Len(t, ticks, 9)
	assert.Equal(t, 0.0, ticks[0])
	assert.Equal(t, 8.0, ticks[8])
	assert.InDelta(t, 4.0, ticks[4], 1e-12)
	assert.Equal(t, []string{
		"0.00 μm", "1.00", "2.00", "3.00", "4.00", "5.00", "6.00", "7.00", "8.00 μm",
	}, labels)
}
