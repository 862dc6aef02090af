package datx

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDecodeDataset(t *testing.T) {
	values := Array{Shape: []int{2, 2}, Data: []float64{1, 2, 3, 4}}
	g := &fakeGroup{children: map[string]any{
		"data": &fakeDataset{
			attrs: Attributes{{Name: "unit", Value: "mm"}},
			value: values,
		},
	}}

	got, err := Decode(g)
	require.NoError(t, err)

	want := Group{
		"data": &Dataset{
			Attributes: Group{"unit": String("mm")},
			Values:     values,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decoded tree mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeSequenceUnwrap(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Node
	}{
		{"single element", Sequence{Float(2.5)}, Float(2.5)},
		{"single group", Sequence{Group{"a": Int(1)}}, Group{"a": Int(1)}},
		{"two elements", Sequence{Int(1), Int(2)}, Sequence{Int(1), Int(2)}},
		{"empty", Sequence{}, Sequence{}},
		{"object array of one", []any{[]byte("x")}, String("x")},
		{"object array of two", []any{int16(3), "y"}, Sequence{Int(3), String("y")}},
		{"string array of one", []string{"NanoMeters"}, String("NanoMeters")},
		{"string array of two", []string{"a", "b"}, Sequence{String("a"), String("b")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeRecordArray(t *testing.T) {
	records := RecordArray{
		{Names: []string{"field1", "field2"}, Values: []any{int32(1), 2.0}},
		{Names: []string{"field1", "field2"}, Values: []any{int32(3), 4.0}},
	}

	got, err := Decode(records)
	require.NoError(t, err)

	seq, ok := got.(Sequence)
	require.True(t, ok, "expected Sequence, got %T", got)
	require.Len(t, seq, 2)

	first := seq[0].(Group)
	second := seq[1].(Group)
	assert.Equal(t, Int(1), first["field1"])
	assert.Equal(t, Float(2.0), first["field2"])
	assert.Equal(t, Int(3), second["field1"])
	assert.Equal(t, Float(4.0), second["field2"])
}

func TestDecodeSingleRecordArrayUnwraps(t *testing.T) {
	converter := RecordArray{{
		Names: []string{"Category", "Parameters", "Unit"},
		Values: []any{
			[]byte("LateralCat"),
			Array{Shape: []int{4}, Data: []float64{0, 1.5e-6, 0, 0}},
			[]byte("Meters"),
		},
	}}

	got, err := Decode(converter)
	require.NoError(t, err)

	g, ok := got.(Group)
	require.True(t, ok, "expected Group, got %T", got)
	assert.Equal(t, String("LateralCat"), g["Category"])
	assert.Equal(t, String("Meters"), g["Unit"])

	params, ok := g["Parameters"].(Array)
	require.True(t, ok)
	p1, err := params.At(1)
	require.NoError(t, err)
	assert.Equal(t, Float(1.5e-6), p1)
}

func TestDecodeRecordMismatch(t *testing.T) {
	_, err := Decode(RecordArray{{Names: []string{"a", "b"}, Values: []any{1}}})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestDecodeRecord(t *testing.T) {
	got, err := Decode(Record{Names: []string{"a", "b"}, Values: []any{int64(7), []byte("z")}})
	require.NoError(t, err)
	assert.Equal(t, Sequence{Int(7), String("z")}, got)

	got, err = Decode(Record{Names: []string{"only"}, Values: []any{2.5}})
	require.NoError(t, err)
	assert.Equal(t, Float(2.5), got)
}

func TestDecodeBytes(t *testing.T) {
	got, err := Decode([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, String("hello"), got)
}

func TestDecodeScalarArrayCollapse(t *testing.T) {
	tests := []struct {
		name string
		in   Array
		want Node
	}{
		{"int", Array{Shape: []int{1}, Data: []int64{42}}, Int(42)},
		{"int32", Array{Shape: []int{1}, Data: []int32{42}}, Int(42)},
		{"uint16", Array{Shape: []int{1}, Data: []uint16{42}}, Uint(42)},
		{"float", Array{Shape: []int{1}, Data: []float64{4.2}}, Float(4.2)},
		{"nested 1x1", Array{Shape: []int{1, 1}, Data: []float32{0.5}}, Float(0.5)},
		{"scalar dataspace", Array{Shape: []int{}, Data: []int8{-3}}, Int(-3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeBulkArrayUnchanged(t *testing.T) {
	in := Array{Shape: []int{3}, Data: []float64{1, 2, 3}}
	got, err := Decode(in)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestDecodeScalarsUnchanged(t *testing.T) {
	tests := []struct {
		in   any
		want Node
	}{
		{int(5), Int(5)},
		{uint32(5), Uint(5)},
		{float32(0.5), Float(0.5)},
		{true, Bool(true)},
		{"text", String("text")},
		{String("already"), String("already")},
	}
	for _, tt := range tests {
		got, err := Decode(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := Decode(struct{ X int }{1})
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Decode(Array{Shape: []int{1}, Data: []complex64{1}})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestDecodeNestedCollapse(t *testing.T) {
	// Normalisation applies at every depth.
	in := []any{
		[]any{Array{Shape: []int{1}, Data: []float64{9}}},
		RecordArray{{Names: []string{"v"}, Values: []any{[]any{[]byte("deep")}}}},
	}
	got, err := Decode(in)
	require.NoError(t, err)
	assert.Equal(t, Sequence{Float(9), Group{"v": String("deep")}}, got)
}

func TestDecodeGroupAttributes(t *testing.T) {
	root := sampleRoot()
	got, err := Decode(root)
	require.NoError(t, err)
	g := got.(Group)

	assert.Equal(t, Group{"File Layout Version": Int(1)}, g.Attrs())

	// Groups without metadata carry no attributes entry.
	m := g["Measurement"].(Group)
	_, has := m[AttributesKey]
	assert.False(t, has)

	// Datasets always do.
	surface := m["Surface"].(*Dataset)
	require.NotNil(t, surface.Attributes)
	assert.Equal(t, String("NanoMeters"), surface.Attributes["Unit"])
	assert.Equal(t, Float(1.7976931348623157e308), surface.Attributes["No Data"])

	conv := surface.Attributes["X Converter"].(Group)
	assert.Equal(t, String("LateralCat"), conv["Category"])

	empty := g["Attributes"].(Group)
	assert.Empty(t, empty)
}

func TestDecodeEmptyDataset(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	d := NewDecoder(WithLogger(zap.New(core)))

	got, err := d.Decode(sampleRoot())
	require.NoError(t, err)

	intensity := got.(Group)["Measurement"].(Group)["Intensity"].(*Dataset)
	assert.False(t, intensity.HasValues())
	assert.NotNil(t, intensity.Attributes)

	entries := logs.FilterField(zap.String("path", "/Measurement/Intensity")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
}

func TestDecodeListingFailure(t *testing.T) {
	g := &fakeGroup{children: map[string]any{
		"bad": &fakeGroup{failList: true},
	}}
	_, err := Decode(g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/bad")
}

func TestDecodeDoesNotShareState(t *testing.T) {
	root := sampleRoot()
	a, err := Decode(root)
	require.NoError(t, err)
	b, err := Decode(root)
	require.NoError(t, err)

	a.(Group)["Measurement"].(Group)["extra"] = Int(1)
	_, leaked := b.(Group)["Measurement"].(Group)["extra"]
	assert.False(t, leaked)
}
