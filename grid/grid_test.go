package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const noData = -999

// sampleGrid is a 5×5 unit grid with two missing cells.
func sampleGrid() (x, y, z *mat.Dense) {
	x, y = Meshgrid(5, 5, 1, 1)
	z = mat.NewDense(5, 5, []float64{
		1, 2, 3, 4, 5,
		6, 7, 8, 9, 10,
		11, 12, noData, 14, 15,
		16, 17, 18, noData, 20,
		21, 22, 23, 24, 25,
	})
	return x, y, z
}

func TestMeshgrid(t *testing.T) {
	x, y := Meshgrid(3, 2, 0.5, 2)

	r, c := x.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, []float64{0, 0.5, 1, 0, 0.5, 1}, values(x))
	assert.Equal(t, []float64{0, 0, 0, 2, 2, 2}, values(y))
}

func TestRemoveMissing(t *testing.T) {
	z := mat.NewDense(1, 4, []float64{1, 10, 11, 9})
	before := mat.DenseCopyOf(z)

	got := RemoveMissing(z, 10)

	assert.Equal(t, 1.0, got.At(0, 0))
	assert.True(t, math.IsNaN(got.At(0, 1)), "value equal to threshold")
	assert.True(t, math.IsNaN(got.At(0, 2)), "value above threshold")
	assert.Equal(t, 9.0, got.At(0, 3))
	assert.True(t, mat.Equal(before, z), "input modified")
}

func TestRemoveMissingSampleGrid(t *testing.T) {
	_, _, z := sampleGrid()

	got := RemoveMissing(z, noData)

	// Every sample is >= -999, so the whole field is masked.
	assert.True(t, math.IsNaN(got.At(2, 2)))
	assert.True(t, math.IsNaN(got.At(3, 3)))
	assert.Equal(t, 25, Summarize(got).Missing)
}

// FillMissing matches the threshold exactly while RemoveMissing masks
// everything at or above it.
func TestThresholdAsymmetry(t *testing.T) {
	x, y := Meshgrid(3, 1, 1, 1)
	z := mat.NewDense(1, 3, []float64{5, 10, 11})

	filled, err := FillMissing(x, y, z, 10)
	require.NoError(t, err)
	assert.Equal(t, 11.0, filled.At(0, 2), "above threshold is kept by fill")

	removed := RemoveMissing(z, 10)
	assert.True(t, math.IsNaN(removed.At(0, 2)), "above threshold is masked by remove")
}

func TestShapeMismatch(t *testing.T) {
	x, y := Meshgrid(4, 3, 1, 1)
	z := mat.NewDense(3, 3, nil)

	_, err := FillMissing(x, y, z, 0)
	assert.ErrorIs(t, err, ErrShape)

	_, _, err = RemovePlane(x, y, z)
	assert.ErrorIs(t, err, ErrShape)

	wide, _ := Meshgrid(3, 3, 1, 1)
	_, err = FillMissing(wide, y, z, 0)
	assert.ErrorIs(t, err, ErrShape)
}

func TestSummarize(t *testing.T) {
	s := Summarize(mat.NewDense(2, 2, []float64{1, 2, 3, math.NaN()}))

	assert.Equal(t, 3, s.Valid)
	assert.Equal(t, 1, s.Missing)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 3.0, s.Max)
	assert.InDelta(t, 2.0, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(2.0/3), s.StdDev, 1e-12)
	assert.InDelta(t, math.Sqrt(14.0/3), s.RMS, 1e-12)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(mat.NewDense(1, 2, []float64{math.NaN(), math.Inf(1)}))

	assert.Equal(t, 0, s.Valid)
	assert.Equal(t, 2, s.Missing)
	assert.True(t, math.IsNaN(s.Mean))
	assert.True(t, math.IsNaN(s.Min))
}
