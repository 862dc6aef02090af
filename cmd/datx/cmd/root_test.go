package cmd

import (
	"bytes"
	"errors"
	"io"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-datx/datx"
)

const noData = 1.7976931348623157e308

type memGroup struct {
	children map[string]any
	attrs    datx.Attributes
}

func (g *memGroup) Members() ([]string, error) {
	names := make([]string, 0, len(g.children))
	for name := range g.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (g *memGroup) Child(name string) (any, error) {
	c, ok := g.children[name]
	if !ok {
		return nil, datx.ErrNotFound
	}
	return c, nil
}

func (g *memGroup) Attrs() (datx.AttributeSet, error) {
	return g.attrs, nil
}

type memRoot struct {
	*memGroup
}

func (memRoot) Close() error { return nil }

type memDataset struct {
	attrs datx.Attributes
	value any
	shape []int
	dtype string
}

func (d *memDataset) Attrs() (datx.AttributeSet, error) { return d.attrs, nil }
func (d *memDataset) Shape() ([]int, error)             { return d.shape, nil }
func (d *memDataset) Dtype() string                     { return d.dtype }

func (d *memDataset) Value() (any, error) {
	if d.value == nil {
		return nil, errors.New("no data")
	}
	return d.value, nil
}

func converter(pitch float64) datx.RecordArray {
	return datx.RecordArray{{
		Names:  []string{"Category", "Parameters"},
		Values: []any{[]byte("LateralCat"), datx.Array{Shape: []int{4}, Data: []float64{0, pitch, 0, 0}}},
	}}
}

// scan is a measurement file with a tilted 3×4 surface in nanometres and
// one missing cell.
func scan() memRoot {
	z := []float64{
		0, 1000, 2000, 3000,
		500, 1500, 2500, 3500,
		1000, 2000, 3000, noData,
	}
	return memRoot{&memGroup{
		attrs: datx.Attributes{{Name: "File Layout Version", Value: int32(1)}},
		children: map[string]any{
			"Measurement": &memGroup{children: map[string]any{
				"Surface": &memDataset{
					attrs: datx.Attributes{
						{Name: "No Data", Value: datx.Array{Shape: []int{1}, Data: []float64{noData}}},
						{Name: "Unit", Value: []byte("NanoMeters")},
						{Name: "X Converter", Value: converter(1e-6)},
						{Name: "Y Converter", Value: converter(1e-6)},
					},
					value: datx.Array{Shape: []int{3, 4}, Data: z},
					shape: []int{3, 4},
					dtype: "float64",
				},
				"Intensity": &memDataset{shape: []int{0}, dtype: "uint16"},
			}},
		},
	}}
}

// openScan serves scan.datx, and micro.datx which differs only in the
// Surface unit.
func openScan(path string) (datx.Root, error) {
	switch path {
	case "scan.datx":
		return scan(), nil
	case "micro.datx":
		r := scan()
		surface := r.children["Measurement"].(*memGroup).children["Surface"].(*memDataset)
		surface.attrs[1].Value = []byte("MicroMeters")
		return r, nil
	}
	return nil, datx.ErrFileAccess
}

// run executes the command line against the in-memory scan and returns
// what it printed to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a := &app{open: openScan}
	root := newRootCmd(a)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func TestRootRejectsBadLogLevel(t *testing.T) {
	a := &app{open: openScan}
	root := newRootCmd(a)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"quantities", "scan.datx", "--log-level", "loud"})
	require.Error(t, root.Execute())
}
