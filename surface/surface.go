// Package surface extracts height maps from decoded measurement files and
// runs the missing-value and tilt-removal pipeline over them.
//
// A measurement file keeps one dataset per quantity under the Measurement
// group. Each dataset carries its no-data sentinel, Z unit and lateral
// converters as attributes:
//
//	/Measurement/Surface
//	    attributes:
//	        No Data:     1.7976931348623157e+308
//	        Unit:        NanoMeters
//	        X Converter: {Category: ..., Parameters: [0, 1.7e-06, ...]}
//	        Y Converter: {Category: ..., Parameters: [0, 1.7e-06, ...]}
//	    values: 480×640 float
package surface

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/robert-malhotra/go-datx/datx"
	"github.com/robert-malhotra/go-datx/grid"
)

// ErrMissingAttribute indicates a quantity lacks metadata needed to build a surface.
var ErrMissingAttribute = errors.New("missing attribute")

// ErrNotSurface indicates the quantity payload is not a 2-D numeric array.
var ErrNotSurface = errors.New("not a 2-D surface")

// MeasurementGroup is the group holding one dataset per quantity.
const MeasurementGroup = "Measurement"

// Attribute names read from a quantity dataset.
const (
	AttrNoData     = "No Data"
	AttrUnit       = "Unit"
	AttrXConverter = "X Converter"
	AttrYConverter = "Y Converter"
)

const (
	unitNanometers  = "NanoMeters"
	unitMicrometers = "μm"
)

// Surface is a height map with micrometre lateral coordinates.
type Surface struct {
	Name   string
	Unit   string
	NoData float64

	// PitchX and PitchY are the lateral pixel sizes in micrometres.
	PitchX float64
	PitchY float64

	X, Y, Z *mat.Dense
}

// Quantities returns the names of the readable datasets under the
// Measurement group, sorted.
func Quantities(root datx.Group) []string {
	m, ok := root[MeasurementGroup].(datx.Group)
	if !ok {
		return nil
	}
	var names []string
	for name, n := range m {
		if ds, ok := n.(*datx.Dataset); ok && ds.HasValues() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Extract builds the Surface for quantity. Heights in nanometres are
// converted to micrometres together with the no-data sentinel; the lateral
// pitch is the second converter parameter, given in metres.
func Extract(root datx.Group, quantity string) (*Surface, error) {
	at := path.Join("/", MeasurementGroup, quantity)
	n, err := datx.Lookup(root, at)
	if err != nil {
		return nil, err
	}
	ds, ok := n.(*datx.Dataset)
	if !ok || !ds.HasValues() {
		return nil, fmt.Errorf("%w: %s has no values", ErrNotSurface, at)
	}
	arr, ok := ds.Values.(datx.Array)
	if !ok || arr.Rank() != 2 || arr.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotSurface, at)
	}
	data, err := arr.Float64s()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotSurface, at, err)
	}

	s := &Surface{Name: quantity}
	if s.NoData, err = number(ds, at, AttrNoData); err != nil {
		return nil, err
	}
	unit, ok := datx.AsString(ds.Attributes[AttrUnit])
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingAttribute, datx.JoinAttrPath(at, AttrUnit))
	}
	if s.PitchX, err = number(ds, at, AttrXConverter, "Parameters", "1"); err != nil {
		return nil, err
	}
	if s.PitchY, err = number(ds, at, AttrYConverter, "Parameters", "1"); err != nil {
		return nil, err
	}
	s.PitchX *= 1e6
	s.PitchY *= 1e6

	rows, cols := arr.Shape[0], arr.Shape[1]
	s.Z = mat.NewDense(rows, cols, data)
	s.Unit = unit
	if unit == unitNanometers {
		s.Z.Scale(1e-3, s.Z)
		s.NoData *= 1e-3
		s.Unit = unitMicrometers
	}
	s.X, s.Y = grid.Meshgrid(cols, rows, s.PitchX, s.PitchY)
	return s, nil
}

// number reads a numeric attribute, optionally descending into a structured
// attribute by field name or index.
func number(ds *datx.Dataset, at, name string, field ...string) (float64, error) {
	p := path.Join(append([]string{"/", name}, field...)...)
	n, err := datx.Lookup(ds.Attributes, p)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrMissingAttribute,
			datx.JoinAttrPath(at, strings.TrimPrefix(p, "/")), err)
	}
	v, ok := datx.AsFloat(n)
	if !ok {
		return 0, fmt.Errorf("%w: %s@%s is %T, not a number", ErrMissingAttribute, at, name, n)
	}
	return v, nil
}
