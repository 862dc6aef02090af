package datx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttrPath(t *testing.T) {
	tests := []struct {
		path       string
		wantObject string
		wantAttr   string
		wantErr    bool
	}{
		{"/@root_attr", "/", "root_attr", false},
		{"/data@units", "/data", "units", false},
		{"/Measurement/Surface@No Data", "/Measurement/Surface", "No Data", false},
		{"/a/b/c@d", "/a/b/c", "d", false},
		{"data@attr", "/data", "attr", false}, // relative path normalized
		{"/data/@attr", "/data", "attr", false},
		{"", "", "", true},            // empty
		{"/path/no/at", "", "", true}, // missing @
		{"/path@", "", "", true},      // empty attr name
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			obj, attr, err := ParseAttrPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.path)
				}
				assert.ErrorIs(t, err, ErrInvalidPath)
				return
			}
			if err != nil {
				t.Errorf("unexpected error for %q: %v", tt.path, err)
				return
			}
			if obj != tt.wantObject {
				t.Errorf("object path: got %q, want %q", obj, tt.wantObject)
			}
			if attr != tt.wantAttr {
				t.Errorf("attr name: got %q, want %q", attr, tt.wantAttr)
			}
		})
	}
}

func TestJoinAttrPath(t *testing.T) {
	tests := []struct {
		objectPath string
		attrName   string
		want       string
	}{
		{"/", "attr", "/@attr"},
		{"/data", "units", "/data@units"},
		{"/Measurement/Surface", "X Converter", "/Measurement/Surface@X Converter"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := JoinAttrPath(tt.objectPath, tt.attrName)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitPathUtil(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"/", []string{}},
		{"/foo", []string{"foo"}},
		{"/foo/bar", []string{"foo", "bar"}},
		{"/a/b/c", []string{"a", "b", "c"}},
		{"foo/bar", []string{"foo", "bar"}},
		{"/foo//bar/", []string{"foo", "bar"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitPath(tt.path))
		})
	}
}

func TestCleanPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"foo", "/foo"},
		{"/foo/", "/foo"},
		{"/a/b", "/a/b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanPath(tt.path), "CleanPath(%q)", tt.path)
	}
}

func decodedSample(t *testing.T) Group {
	t.Helper()
	n, err := Decode(sampleRoot())
	require.NoError(t, err)
	return n.(Group)
}

func TestLookup(t *testing.T) {
	root := decodedSample(t)

	tests := []struct {
		path string
		want Node
	}{
		{"/Measurement/Surface/attributes/Unit", String("NanoMeters")},
		{"/Measurement/Surface/attributes/X Converter/Category", String("LateralCat")},
		{"/Measurement/Surface/attributes/X Converter/Parameters/1", Float(2e-6)},
		{"/attributes/File Layout Version", Int(1)},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := Lookup(root, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	got, err := Lookup(root, "/")
	require.NoError(t, err)
	assert.Equal(t, root, got)

	values, err := Lookup(root, "Measurement/Surface/values")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, values.(Array).Shape)
}

func TestLookupNotFound(t *testing.T) {
	root := decodedSample(t)

	for _, p := range []string{
		"/Nope",
		"/Measurement/Intensity/values", // empty dataset
		"/Measurement/Surface/other",
		"/Measurement/Surface/attributes/Unit/deeper",
		"/Measurement/Surface/attributes/X Converter/Parameters/9",
	} {
		_, err := Lookup(root, p)
		assert.ErrorIs(t, err, ErrNotFound, p)
	}
}

func TestLookupAttr(t *testing.T) {
	root := decodedSample(t)

	got, err := LookupAttr(root, "/Measurement/Surface@Unit")
	require.NoError(t, err)
	assert.Equal(t, String("NanoMeters"), got)

	got, err = LookupAttr(root, "/@File Layout Version")
	require.NoError(t, err)
	assert.Equal(t, Int(1), got)

	_, err = LookupAttr(root, "/Measurement/Surface@Missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = LookupAttr(root, "/Measurement@Unit")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = LookupAttr(root, "/Measurement/Surface")
	assert.ErrorIs(t, err, ErrInvalidPath)
}
