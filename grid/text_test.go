package grid

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestWriteText(t *testing.T) {
	x, y := Meshgrid(2, 1, 1, 1)
	z := mat.NewDense(1, 2, []float64{-1.5, math.NaN()})

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, x, y, z))

	want := "0.000000000000000000e+00 1.000000000000000000e+00\n\n" +
		"0.000000000000000000e+00 0.000000000000000000e+00\n\n" +
		"-1.500000000000000000e+00 nan\n\n"
	assert.Equal(t, want, buf.String())
}

func TestTextRoundTrip(t *testing.T) {
	x, y, z := sampleGrid()
	z = RemoveMissing(z, 20)
	z.Set(0, 0, 1.0/3)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, x, y, z))

	got, err := ReadText(&buf)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, mat.Equal(x, got[0]))
	assert.True(t, mat.Equal(y, got[1]))

	want, read := values(z), values(got[2])
	require.Len(t, read, len(want))
	for i := range want {
		if math.IsNaN(want[i]) {
			assert.True(t, math.IsNaN(read[i]), "cell %d", i)
			continue
		}
		assert.Equal(t, want[i], read[i], "cell %d", i)
	}
}

func TestReadTextErrors(t *testing.T) {
	_, err := ReadText(strings.NewReader("1 2\n3\n"))
	assert.ErrorIs(t, err, ErrShape)

	_, err = ReadText(strings.NewReader("1 two\n"))
	assert.Error(t, err)
}

func TestReadTextSeparators(t *testing.T) {
	got, err := ReadText(strings.NewReader("\n1 2\n3 4\n\n\n5\n"))
	require.NoError(t, err)
	require.Len(t, got, 2)

	r, c := got[0].Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 5.0, got[1].At(0, 0))
}
