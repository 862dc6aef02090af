package datx

import (
	"errors"
	"fmt"
	"sort"
)

// fakeGroup is an in-memory Container.
type fakeGroup struct {
	children map[string]any
	attrs    Attributes
	failList bool
}

func (g *fakeGroup) Members() ([]string, error) {
	if g.failList {
		return nil, errors.New("corrupt link table")
	}
	names := make([]string, 0, len(g.children))
	for name := range g.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (g *fakeGroup) Child(name string) (any, error) {
	c, ok := g.children[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return c, nil
}

func (g *fakeGroup) Attrs() (AttributeSet, error) {
	return g.attrs, nil
}

// fakeDataset is an in-memory Leaf. A nil value reads as empty.
type fakeDataset struct {
	attrs Attributes
	value any
	shape []int
	dtype string
}

func (d *fakeDataset) Attrs() (AttributeSet, error) {
	return d.attrs, nil
}

func (d *fakeDataset) Value() (any, error) {
	if d.value == nil {
		return nil, errors.New("dataset has no storage")
	}
	return d.value, nil
}

func (d *fakeDataset) Shape() ([]int, error) {
	return d.shape, nil
}

func (d *fakeDataset) Dtype() string {
	return d.dtype
}

// fakeRoot wraps a fakeGroup and counts Close calls.
type fakeRoot struct {
	*fakeGroup
	closed int
}

func (r *fakeRoot) Close() error {
	r.closed++
	return nil
}

func fakeOpener(r *fakeRoot) Opener {
	return func(string) (Root, error) {
		return r, nil
	}
}

// sampleRoot mimics the layout of a profilometer file.
func sampleRoot() *fakeRoot {
	return &fakeRoot{fakeGroup: &fakeGroup{
		attrs: Attributes{{Name: "File Layout Version", Value: int32(1)}},
		children: map[string]any{
			"Measurement": &fakeGroup{
				children: map[string]any{
					"Surface": &fakeDataset{
						attrs: Attributes{
							{Name: "No Data", Value: Array{Shape: []int{1}, Data: []float64{1.7976931348623157e308}}},
							{Name: "Unit", Value: []byte("NanoMeters")},
							{Name: "X Converter", Value: RecordArray{{
								Names:  []string{"Category", "Parameters"},
								Values: []any{[]byte("LateralCat"), Array{Shape: []int{4}, Data: []float64{0, 2e-6, 0, 0}}},
							}}},
						},
						value: Array{Shape: []int{2, 3}, Data: []float32{1, 2, 3, 4, 5, 6}},
						shape: []int{2, 3},
						dtype: "float32",
					},
					"Intensity": &fakeDataset{
						attrs: Attributes{},
						shape: []int{0},
						dtype: "uint16",
					},
				},
			},
			"Attributes": &fakeGroup{children: map[string]any{}},
		},
	}}
}
