package surface

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/robert-malhotra/go-datx/grid"
)

// Op selects how a surface is prepared.
type Op string

const (
	// OpRaw masks no-data cells with NaN.
	OpRaw Op = "raw"
	// OpFill replaces no-data cells with their nearest valid neighbour.
	OpFill Op = "fill"
	// OpBaseline fills no-data cells and subtracts the best-fit plane.
	OpBaseline Op = "baseline"
)

// Ops lists the supported operations.
var Ops = []Op{OpRaw, OpFill, OpBaseline}

// ParseOp returns the Op named s.
func ParseOp(s string) (Op, error) {
	for _, op := range Ops {
		if string(op) == strings.ToLower(s) {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown operation %q (want raw, fill or baseline)", s)
}

// Result holds the processed field with its coordinates. Plane is set for
// OpBaseline.
type Result struct {
	X, Y, Z *mat.Dense
	Unit    string
	Plane   *grid.Plane
}

// Apply runs op over the surface. The surface itself is not modified.
func (s *Surface) Apply(op Op) (*Result, error) {
	res := &Result{X: s.X, Y: s.Y, Unit: s.Unit}
	switch op {
	case OpRaw:
		res.Z = grid.RemoveMissing(s.Z, s.NoData)
	case OpFill:
		z, err := grid.FillMissing(s.X, s.Y, s.Z, s.NoData)
		if err != nil {
			return nil, fmt.Errorf("filling %s: %w", s.Name, err)
		}
		res.Z = z
	case OpBaseline:
		z, err := grid.FillMissing(s.X, s.Y, s.Z, s.NoData)
		if err != nil {
			return nil, fmt.Errorf("filling %s: %w", s.Name, err)
		}
		p, residual, err := grid.RemovePlane(s.X, s.Y, z)
		if err != nil {
			return nil, fmt.Errorf("levelling %s: %w", s.Name, err)
		}
		res.Z, res.Plane = residual, &p
	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}
	return res, nil
}

// tickCount is the number of colour scale ticks.
const tickCount = 9

// Ticks returns evenly spaced colour scale ticks between the finite minimum
// and maximum of z, with "%.2f" labels. The unit is appended to the first
// and last label. A field without finite values has no ticks.
func Ticks(z *mat.Dense, unit string) ([]float64, []string) {
	st := grid.Summarize(z)
	if st.Valid == 0 {
		return nil, nil
	}
	ticks := floats.Span(make([]float64, tickCount), st.Min, st.Max)
	labels := make([]string, len(ticks))
	for i, v := range ticks {
		labels[i] = fmt.Sprintf("%.2f", v)
	}
	labels[0] += " " + unit
	labels[len(labels)-1] += " " + unit
	return ticks, labels
}
