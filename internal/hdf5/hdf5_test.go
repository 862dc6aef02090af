package hdf5

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func createTestFile(t *testing.T, build func(root *Group) error) string {
	t.Helper()
	testFile := filepath.Join(t.TempDir(), "test.h5")

	f, err := Create(testFile)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := build(f.Root()); err != nil {
		f.Close()
		t.Fatalf("building file failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return testFile
}

func openTestFile(t *testing.T, path string) *File {
	t.Helper()
	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func openGroup(t *testing.T, g *Group, name string) *Group {
	t.Helper()
	obj, err := g.Open(name)
	if err != nil {
		t.Fatalf("Open(%q) failed: %v", name, err)
	}
	sub, ok := obj.(*Group)
	if !ok {
		t.Fatalf("Open(%q) returned %T, want *Group", name, obj)
	}
	return sub
}

func openDataset(t *testing.T, g *Group, name string) *Dataset {
	t.Helper()
	obj, err := g.Open(name)
	if err != nil {
		t.Fatalf("Open(%q) failed: %v", name, err)
	}
	ds, ok := obj.(*Dataset)
	if !ok {
		t.Fatalf("Open(%q) returned %T, want *Dataset", name, obj)
	}
	return ds
}

func readAttr(t *testing.T, attrs []*Attribute, name string) any {
	t.Helper()
	for _, a := range attrs {
		if a.Name() == name {
			v, err := a.Read()
			if err != nil {
				t.Fatalf("reading attribute %q: %v", name, err)
			}
			return v
		}
	}
	t.Fatalf("attribute %q not found", name)
	return nil
}

func TestNestedGroupAttributes(t *testing.T) {
	path := createTestFile(t, func(root *Group) error {
		if err := root.SetAttr("version", "1.0"); err != nil {
			return err
		}
		level1, err := root.CreateGroup("level1")
		if err != nil {
			return err
		}
		level2, err := level1.CreateGroup("level2")
		if err != nil {
			return err
		}
		if err := level2.SetAttr("gain", []float64{1.5, 2.5}); err != nil {
			return err
		}
		return level2.SetAttr("label", "deep")
	})

	f := openTestFile(t, path)
	if got := readAttr(t, f.Root().Attrs(), "version"); !reflect.DeepEqual(got, []string{"1.0"}) {
		t.Errorf("root version = %v", got)
	}

	level2 := openGroup(t, openGroup(t, f.Root(), "level1"), "level2")
	if level2.Path() != "/level1/level2" {
		t.Errorf("Path() = %q, want /level1/level2", level2.Path())
	}

	attrs := level2.Attrs()
	if len(attrs) != 2 {
		t.Fatalf("got %d attributes on level2, want 2", len(attrs))
	}
	if attrs[0].Name() != "gain" || attrs[1].Name() != "label" {
		t.Errorf("attribute order = %q, %q", attrs[0].Name(), attrs[1].Name())
	}
	if got := readAttr(t, attrs, "gain"); !reflect.DeepEqual(got, []float64{1.5, 2.5}) {
		t.Errorf("gain = %v", got)
	}
	if got := readAttr(t, attrs, "label"); !reflect.DeepEqual(got, []string{"deep"}) {
		t.Errorf("label = %v", got)
	}
	if level2.Attr("missing") != nil {
		t.Error("Attr(missing) should be nil")
	}
}

func TestDatasetRoundTrip(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	path := createTestFile(t, func(root *Group) error {
		g, err := root.CreateGroup("data")
		if err != nil {
			return err
		}
		if err := g.CreateDataset("matrix", []int{2, 3}, data, WithAttribute("scale", 0.5)); err != nil {
			return err
		}
		return g.CreateDataset("counts", []int{4}, []uint16{1, 2, 3, 65535})
	})

	f := openTestFile(t, path)
	g := openGroup(t, f.Root(), "data")

	members, err := g.Members()
	if err != nil {
		t.Fatalf("Members failed: %v", err)
	}
	if !reflect.DeepEqual(members, []string{"matrix", "counts"}) {
		t.Errorf("Members() = %v", members)
	}

	ds := openDataset(t, g, "matrix")
	if !reflect.DeepEqual(ds.Shape(), []int{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", ds.Shape())
	}
	if ds.Dtype() != "float64" {
		t.Errorf("Dtype() = %q, want float64", ds.Dtype())
	}
	got, err := ds.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !reflect.DeepEqual(got, data) {
		t.Errorf("Read() = %v, want %v", got, data)
	}
	if got := readAttr(t, ds.Attrs(), "scale"); !reflect.DeepEqual(got, []float64{0.5}) {
		t.Errorf("scale = %v", got)
	}

	counts := openDataset(t, g, "counts")
	if counts.Dtype() != "uint16" {
		t.Errorf("Dtype() = %q, want uint16", counts.Dtype())
	}
	got, err = counts.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !reflect.DeepEqual(got, []uint16{1, 2, 3, 65535}) {
		t.Errorf("Read() = %v", got)
	}
}

func TestEmptyDataset(t *testing.T) {
	path := createTestFile(t, func(root *Group) error {
		return root.CreateDataset("empty", []int{0}, []uint16{})
	})

	f := openTestFile(t, path)
	ds := openDataset(t, f.Root(), "empty")
	if ds.NumElements() != 0 {
		t.Errorf("NumElements() = %d, want 0", ds.NumElements())
	}
	if !reflect.DeepEqual(ds.Shape(), []int{0}) {
		t.Errorf("Shape() = %v, want [0]", ds.Shape())
	}
}

func TestCompoundAttribute(t *testing.T) {
	conv := Compound{
		Names:  []string{"Category", "Parameters", "Offset"},
		Values: []any{"LateralCat", []float64{0, 1.5e-6, 0, 0}, int32(-3)},
	}
	path := createTestFile(t, func(root *Group) error {
		return root.CreateDataset("surface", []int{1, 2}, []float32{1, 2}, WithAttribute("X Converter", conv))
	})

	f := openTestFile(t, path)
	attr := openDataset(t, f.Root(), "surface").Attr("X Converter")
	if attr == nil {
		t.Fatal("X Converter not found")
	}
	if attr.Shape() != nil {
		t.Errorf("Shape() = %v, want scalar", attr.Shape())
	}
	v, err := attr.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	got, ok := v.([]Compound)
	if !ok || len(got) != 1 {
		t.Fatalf("Read() = %#v, want one Compound", v)
	}
	if !reflect.DeepEqual(got[0], conv) {
		t.Errorf("Read() = %#v, want %#v", got[0], conv)
	}
	if p, ok := got[0].Get("Parameters"); !ok || !reflect.DeepEqual(p, []float64{0, 1.5e-6, 0, 0}) {
		t.Errorf("Get(Parameters) = %v, %v", p, ok)
	}
}

func TestStringListAttribute(t *testing.T) {
	path := createTestFile(t, func(root *Group) error {
		return root.SetAttr("names", []string{"a", "longer", ""})
	})

	f := openTestFile(t, path)
	got := readAttr(t, f.Root().Attrs(), "names")
	if !reflect.DeepEqual(got, []string{"a", "longer", ""}) {
		t.Errorf("names = %v", got)
	}
}

func TestSetAttrReplaces(t *testing.T) {
	path := createTestFile(t, func(root *Group) error {
		if err := root.SetAttr("n", int64(1)); err != nil {
			return err
		}
		return root.SetAttr("n", int64(2))
	})

	f := openTestFile(t, path)
	attrs := f.Root().Attrs()
	if len(attrs) != 1 {
		t.Fatalf("got %d attributes, want 1", len(attrs))
	}
	if got := readAttr(t, attrs, "n"); !reflect.DeepEqual(got, []int64{2}) {
		t.Errorf("n = %v", got)
	}
}

func TestOpenMissingChild(t *testing.T) {
	path := createTestFile(t, func(root *Group) error {
		_, err := root.CreateGroup("present")
		return err
	})

	f := openTestFile(t, path)
	_, err := f.Root().Open("absent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Open(absent) error = %v, want ErrNotFound", err)
	}
}

func TestOpenNotHDF5(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.h5")
	if err := os.WriteFile(path, []byte("plain text, no superblock here"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("expected error opening a text file")
	}
}

func TestCreateDatasetErrors(t *testing.T) {
	f, err := Create(filepath.Join(t.TempDir(), "bad.h5"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer f.Close()

	if err := f.Root().CreateDataset("short", []int{2, 2}, []float64{1, 2, 3}); err == nil {
		t.Error("expected error for data not matching shape")
	}
	if err := f.Root().CreateDataset("text", []int{1}, []string{"x"}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("string dataset error = %v, want ErrUnsupported", err)
	}
	if err := f.Root().SetAttr("bad", map[string]int{}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("map attribute error = %v, want ErrUnsupported", err)
	}
}

func TestWriteOnReadOnlyFile(t *testing.T) {
	path := createTestFile(t, func(*Group) error { return nil })
	f := openTestFile(t, path)
	if _, err := f.Root().CreateGroup("x"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("CreateGroup error = %v, want ErrReadOnly", err)
	}
}
