// Package grid implements numeric transforms over 2-D scalar fields sampled
// on rectangular coordinate grids: missing-value interpolation, masking and
// planar tilt removal.
//
// X, Y and Z are row-major *mat.Dense matrices of identical shape. Every
// operation returns new matrices and leaves its inputs untouched.
package grid

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrShape indicates X, Y and Z do not share the same shape.
	ErrShape = errors.New("grid shape mismatch")

	// ErrInsufficientData indicates there are no valid samples to interpolate from.
	ErrInsufficientData = errors.New("no valid samples")

	// ErrFit indicates the plane regression failed, either because the
	// input holds non-finite values or the geometry is degenerate.
	ErrFit = errors.New("plane fit failed")
)

// Meshgrid returns coordinate matrices for a rows×cols grid with pitch dx
// along columns and dy along rows: x[i][j] = j*dx and y[i][j] = i*dy.
// rows and cols must be positive.
func Meshgrid(cols, rows int, dx, dy float64) (x, y *mat.Dense) {
	x = mat.NewDense(rows, cols, nil)
	y = mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			x.Set(i, j, float64(j)*dx)
			y.Set(i, j, float64(i)*dy)
		}
	}
	return x, y
}

// RemoveMissing returns a copy of z where every value greater than or equal
// to thr is NaN. Unlike FillMissing, values above the threshold count as
// missing too.
func RemoveMissing(z *mat.Dense, thr float64) *mat.Dense {
	out := mat.DenseCopyOf(z)
	out.Apply(func(_, _ int, v float64) float64 {
		if v >= thr {
			return math.NaN()
		}
		return v
	}, out)
	return out
}

func checkShape(x, y, z *mat.Dense) (rows, cols int, err error) {
	rows, cols = z.Dims()
	xr, xc := x.Dims()
	yr, yc := y.Dims()
	if xr != rows || xc != cols || yr != rows || yc != cols {
		return 0, 0, fmt.Errorf("%w: x %dx%d, y %dx%d, z %dx%d",
			ErrShape, xr, xc, yr, yc, rows, cols)
	}
	return rows, cols, nil
}

// values returns the row-major contents of m.
func values(m *mat.Dense) []float64 {
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		out = append(out, m.RawRowView(i)...)
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
