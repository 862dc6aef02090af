package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFillMissing(t *testing.T) {
	x, y, z := sampleGrid()
	before := mat.DenseCopyOf(z)

	filled, err := FillMissing(x, y, z, noData)
	require.NoError(t, err)

	rows, cols := filled.Dims()
	require.Equal(t, 5, rows)
	require.Equal(t, 5, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := filled.At(i, j)
			assert.NotEqual(t, float64(noData), v, "cell (%d, %d)", i, j)
			assert.False(t, math.IsNaN(v), "cell (%d, %d)", i, j)
			if z.At(i, j) != noData {
				assert.Equal(t, z.At(i, j), v, "valid cell (%d, %d) changed", i, j)
			}
		}
	}
	// (2, 2) has four neighbours at distance 1.
	assert.Contains(t, []float64{8, 12, 14, 18}, filled.At(2, 2))
	assert.True(t, mat.Equal(before, z), "input modified")
}

func TestFillMissingNearest(t *testing.T) {
	x := mat.NewDense(1, 4, []float64{0, 1, 2.9, 4})
	y := mat.NewDense(1, 4, nil)
	z := mat.NewDense(1, 4, []float64{1, -1, -1, 5})

	filled, err := FillMissing(x, y, z, -1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 5, 5}, values(filled))
}

func TestFillMissingNaN(t *testing.T) {
	x := mat.NewDense(1, 3, []float64{0, 1, 2.5})
	y := mat.NewDense(1, 3, nil)
	z := mat.NewDense(1, 3, []float64{1, math.NaN(), 4})

	filled, err := FillMissing(x, y, z, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 4}, values(filled))
}

func TestFillMissingDeterministic(t *testing.T) {
	x, y, z := sampleGrid()

	first, err := FillMissing(x, y, z, noData)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := FillMissing(x, y, z, noData)
		require.NoError(t, err)
		assert.True(t, mat.Equal(first, again))
	}
}

func TestFillMissingAllMissing(t *testing.T) {
	x, y := Meshgrid(3, 3, 1, 1)
	z := mat.NewDense(3, 3, nil)
	z.Apply(func(_, _ int, _ float64) float64 { return noData }, z)

	_, err := FillMissing(x, y, z, noData)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestFillMissingLarge(t *testing.T) {
	const rows, cols = 40, 60
	x, y := Meshgrid(cols, rows, 0.25, 0.25)
	z := mat.NewDense(rows, cols, nil)
	z.Apply(func(i, j int, _ float64) float64 {
		if (i+j)%7 == 0 {
			return noData
		}
		return float64(i*cols + j)
	}, z)

	filled, err := FillMissing(x, y, z, noData)
	require.NoError(t, err)
	s := Summarize(filled)
	assert.Equal(t, rows*cols, s.Valid)
	assert.GreaterOrEqual(t, s.Min, 0.0)
}
