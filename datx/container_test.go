package datx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-datx/internal/hdf5"
)

func TestToRaw(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		shape []int
		want  any
	}{
		{"scalar", []int16{4}, nil, Array{Data: []int16{4}}},
		{"strings", []string{"a", "b"}, []int{2}, []string{"a", "b"}},
		{
			"matrix",
			[]int32{1, 2, 3, 4, 5, 6},
			[]int{2, 3},
			Array{Shape: []int{2, 3}, Data: []int32{1, 2, 3, 4, 5, 6}},
		},
		{
			"single compound",
			[]hdf5.Compound{{
				Names:  []string{"Category", "Parameters"},
				Values: []any{"LateralCat", []float64{0, 1e-6}},
			}},
			nil,
			RecordArray{{
				Names:  []string{"Category", "Parameters"},
				Values: []any{"LateralCat", Array{Shape: []int{2}, Data: []float64{0, 1e-6}}},
			}},
		},
		{
			"compound array",
			[]hdf5.Compound{
				{Names: []string{"field1", "field2"}, Values: []any{int32(1), 2.0}},
				{Names: []string{"field1", "field2"}, Values: []any{int32(3), 4.0}},
			},
			[]int{2},
			RecordArray{
				{Names: []string{"field1", "field2"}, Values: []any{int32(1), 2.0}},
				{Names: []string{"field1", "field2"}, Values: []any{int32(3), 4.0}},
			},
		},
		{
			"nested compound",
			[]hdf5.Compound{{
				Names: []string{"inner"},
				Values: []any{hdf5.Compound{
					Names:  []string{"x", "tags"},
					Values: []any{uint8(7), []string{"a", "b"}},
				}},
			}},
			nil,
			RecordArray{{
				Names: []string{"inner"},
				Values: []any{RecordArray{{
					Names:  []string{"x", "tags"},
					Values: []any{uint8(7), []string{"a", "b"}},
				}}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toRaw(tt.in, tt.shape))
		})
	}
}

func TestToRawDecodesLikeRecords(t *testing.T) {
	raw := toRaw([]hdf5.Compound{
		{Names: []string{"field1", "field2"}, Values: []any{int32(1), 2.0}},
		{Names: []string{"field1", "field2"}, Values: []any{int32(3), 4.0}},
	}, []int{2})
	got, err := Decode(raw)
	require.NoError(t, err)

	seq := got.(Sequence)
	assert.Equal(t, Int(1), seq[0].(Group)["field1"])
	assert.Equal(t, Float(4.0), seq[1].(Group)["field2"])
}

func TestGuard(t *testing.T) {
	fails := func(err error) error {
		return func() (err2 error) {
			defer guard(&err2)
			return err
		}()
	}
	panics := func() (err error) {
		defer guard(&err)
		panic("bad data layout")
	}

	assert.NoError(t, fails(nil))

	err := fails(errors.New("truncated object header"))
	assert.ErrorIs(t, err, ErrFormat)

	err = fails(fmt.Errorf("%w: wrapped", ErrFormat))
	assert.Equal(t, "not a valid container file: wrapped", err.Error(), "not wrapped twice")

	err = fails(hdf5.ErrUnsupported)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.NotErrorIs(t, err, ErrFormat)

	err = fails(ErrNotFound)
	assert.NotErrorIs(t, err, ErrFormat)

	err = panics()
	assert.ErrorIs(t, err, ErrFormat)
	assert.Contains(t, err.Error(), "bad data layout")
}

func TestOpenHDF5Adapter(t *testing.T) {
	root, err := OpenHDF5(writeSample(t))
	require.NoError(t, err)
	defer root.Close()

	names, err := root.Members()
	require.NoError(t, err)
	assert.Equal(t, []string{"Attributes", "Measurement"}, names)

	_, err = root.Child("Nope")
	assert.ErrorIs(t, err, ErrNotFound)

	m, err := root.Child("Measurement")
	require.NoError(t, err)
	c, ok := m.(Container)
	require.True(t, ok, "got %T", m)

	names, err = c.Members()
	require.NoError(t, err)
	assert.Equal(t, []string{"Intensity", "Surface"}, names)

	s, err := c.Child("Surface")
	require.NoError(t, err)
	leaf := s.(Leaf)
	d := s.(Described)
	shape, err := d.Shape()
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, shape)
	assert.Equal(t, "float64", d.Dtype())

	attrs, err := leaf.Attrs()
	require.NoError(t, err)
	assert.Equal(t, []string{"No Data", "Unit", "X Converter", "Y Converter"}, attrs.Keys())

	i, err := c.Child("Intensity")
	require.NoError(t, err)
	_, err = i.(Leaf).Value()
	assert.ErrorIs(t, err, errEmptyDataset)
}
