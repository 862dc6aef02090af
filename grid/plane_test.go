package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func TestRemovePlaneRecoversPlane(t *testing.T) {
	want := Plane{A: 0.3, B: -1.2, C: 4}
	x, y := Meshgrid(6, 4, 0.5, 2)
	z := mat.NewDense(4, 6, nil)
	z.Apply(func(i, j int, _ float64) float64 {
		return want.At(x.At(i, j), y.At(i, j))
	}, z)
	before := mat.DenseCopyOf(z)

	got, residual, err := RemovePlane(x, y, z)
	require.NoError(t, err)

	assert.InDelta(t, want.A, got.A, 1e-9)
	assert.InDelta(t, want.B, got.B, 1e-9)
	assert.InDelta(t, want.C, got.C, 1e-9)
	for _, v := range values(residual) {
		assert.InDelta(t, 0, v, 1e-9)
	}
	assert.True(t, mat.Equal(before, z), "input modified")
}

func TestRemovePlaneSampleGrid(t *testing.T) {
	x, y, z := sampleGrid()

	_, residual, err := RemovePlane(x, y, z)
	require.NoError(t, err)
	assert.InDelta(t, 0, stat.Mean(values(residual), nil), 1e-6)

	filled, err := FillMissing(x, y, z, noData)
	require.NoError(t, err)
	_, residual, err = RemovePlane(x, y, filled)
	require.NoError(t, err)
	assert.InDelta(t, 0, stat.Mean(values(residual), nil), 1e-6)
}

func TestRemovePlaneDegenerate(t *testing.T) {
	tests := []struct {
		name string
		x, y *mat.Dense
	}{
		{
			name: "constant y",
			x:    mat.NewDense(1, 5, []float64{0, 1, 2, 3, 4}),
			y:    mat.NewDense(1, 5, nil),
		},
		{
			name: "points on a diagonal",
			x:    mat.NewDense(1, 4, []float64{0, 1, 2, 3}),
			y:    mat.NewDense(1, 4, []float64{0, 1, 2, 3}),
		},
		{
			name: "too few samples",
			x:    mat.NewDense(1, 2, []float64{0, 1}),
			y:    mat.NewDense(1, 2, []float64{0, 1}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, c := tt.x.Dims()
			z := mat.NewDense(r, c, nil)
			_, _, err := RemovePlane(tt.x, tt.y, z)
			assert.ErrorIs(t, err, ErrFit)
		})
	}
}

func TestRemovePlaneNonFinite(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		x, y, _ := sampleGrid()
		z := mat.NewDense(5, 5, nil)
		z.Set(1, 3, bad)

		_, _, err := RemovePlane(x, y, z)
		assert.ErrorIs(t, err, ErrFit, "z contains %v", bad)
	}

	x, y, z := sampleGrid()
	x.Set(0, 0, math.NaN())
	_, _, err := RemovePlane(x, y, z)
	assert.ErrorIs(t, err, ErrFit)
}

func TestPlaneString(t *testing.T) {
	assert.Equal(t, "z = 0.5*x + -2*y + 1", Plane{A: 0.5, B: -2, C: 1}.String())
}
