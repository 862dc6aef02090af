package grid

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

const maxLine = 16 << 20

// WriteText writes each matrix as rows of space separated "%.18e" values,
// one row per line, followed by a blank line. The layout matches numpy's
// savetxt defaults, so the output loads with numpy.loadtxt.
func WriteText(w io.Writer, ms ...*mat.Dense) error {
	bw := bufio.NewWriter(w)
	for _, m := range ms {
		rows, cols := m.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				if j > 0 {
					bw.WriteByte(' ')
				}
				bw.WriteString(formatValue(m.At(i, j)))
			}
			bw.WriteByte('\n')
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func formatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return fmt.Sprintf("%.18e", v)
}

// ReadText reads matrices written by WriteText. Blank lines separate
// matrices; every row of a matrix must have the same number of columns.
func ReadText(r io.Reader) ([]*mat.Dense, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		out  []*mat.Dense
		data []float64
		rows int
		cols int
		line int
	)
	flush := func() {
		if rows > 0 {
			out = append(out, mat.NewDense(rows, cols, data))
		}
		data, rows, cols = nil, 0, 0
	}
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			flush()
			continue
		}
		if rows > 0 && len(fields) != cols {
			return nil, fmt.Errorf("%w: line %d has %d columns, want %d",
				ErrShape, line, len(fields), cols)
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			data = append(data, v)
		}
		cols = len(fields)
		rows++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return out, nil
}
