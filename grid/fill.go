package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// FillMissing replaces missing cells of z with the value of the nearest valid
// sample in (x, y). A cell is missing when it equals thr exactly or is NaN.
// Every cell is re-evaluated against the valid samples, so a valid cell keeps
// its own value.
//
// Neighbour ties resolve deterministically for a given input. FillMissing
// returns ErrInsufficientData when z has no valid cell.
func FillMissing(x, y, z *mat.Dense, thr float64) (*mat.Dense, error) {
	rows, cols, err := checkShape(x, y, z)
	if err != nil {
		return nil, err
	}

	var valid samples
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := z.At(i, j)
			if v == thr || math.IsNaN(v) {
				continue
			}
			valid = append(valid, sample{x: x.At(i, j), y: y.At(i, j), z: v})
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: none of %d cells is valid", ErrInsufficientData, rows*cols)
	}

	tree := kdtree.New(valid, false)
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			got, _ := tree.Nearest(sample{x: x.At(i, j), y: y.At(i, j)})
			out.Set(i, j, got.(sample).z)
		}
	}
	return out, nil
}

// sample is a valid grid cell indexed by its (x, y) position.
type sample struct {
	x, y, z float64
}

func (s sample) coord(d kdtree.Dim) float64 {
	if d == 0 {
		return s.x
	}
	return s.y
}

func (s sample) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return s.coord(d) - c.(sample).coord(d)
}

func (s sample) Dims() int { return 2 }

// Distance returns the squared euclidean distance in the plane.
func (s sample) Distance(c kdtree.Comparable) float64 {
	o := c.(sample)
	dx, dy := s.x-o.x, s.y-o.y
	return dx*dx + dy*dy
}

type samples []sample

func (p samples) Index(i int) kdtree.Comparable         { return p[i] }
func (p samples) Len() int                              { return len(p) }
func (p samples) Slice(start, end int) kdtree.Interface { return p[start:end] }

func (p samples) Pivot(d kdtree.Dim) int {
	a := axis{samples: p, dim: d}
	return kdtree.Partition(a, kdtree.MedianOfMedians(a))
}

// axis sorts samples along one dimension.
type axis struct {
	samples
	dim kdtree.Dim
}

func (p axis) Less(i, j int) bool {
	return p.samples[i].coord(p.dim) < p.samples[j].coord(p.dim)
}

func (p axis) Swap(i, j int) {
	p.samples[i], p.samples[j] = p.samples[j], p.samples[i]
}

func (p axis) Slice(start, end int) kdtree.SortSlicer {
	p.samples = p.samples[start:end]
	return p
}
