package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/katalvlaran/matfree/operator"
)

var errMatrixMarket = errors.New("matrix market")

// mtxPreallocLimit caps the entry slice preallocated from the header count.
const mtxPreallocLimit = 1 << 16

// mtxMatrix is a coordinate matrix read from a Matrix Market file.
type mtxMatrix struct {
	Rows, Cols int
	Symmetric  bool
	Entries    []operator.Triplet
}

// readMatrixMarket parses the coordinate format of the Matrix Market exchange
// format (real, integer or pattern fields; general or symmetric storage).
// Symmetric files store one triangle; the mirror entries are added here.
func readMatrixMarket(r io.Reader) (*mtxMatrix, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	// Stage 1: banner.
	if !sc.Scan() {
		return nil, fmt.Errorf("%w: empty input", errMatrixMarket)
	}
	banner := strings.Fields(strings.ToLower(sc.Text()))
	if len(banner) != 5 || banner[0] != "%%matrixmarket" || banner[1] != "matrix" {
		return nil, fmt.Errorf("%w: bad banner %q", errMatrixMarket, sc.Text())
	}
	if banner[2] != "coordinate" {
		return nil, fmt.Errorf("%w: only coordinate format is supported, got %s", errMatrixMarket, banner[2])
	}
	field, symmetry := banner[3], banner[4]
	switch field {
	case "real", "integer", "pattern":
	default:
		return nil, fmt.Errorf("%w: unsupported field %s", errMatrixMarket, field)
	}
	m := &mtxMatrix{}
	switch symmetry {
	case "general":
	case "symmetric":
		m.Symmetric = true
	default:
		return nil, fmt.Errorf("%w: unsupported symmetry %s", errMatrixMarket, symmetry)
	}

	// Stage 2: size line after comments.
	var (
		line   int
		nnz    int
		fields []string
		err    error
	)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "%") {
			continue
		}
		fields = strings.Fields(text)
		break
	}
	if len(fields) != 3 {
		return nil, fmt.Errorf("%w: missing size line", errMatrixMarket)
	}
	if m.Rows, err = strconv.Atoi(fields[0]); err == nil {
		if m.Cols, err = strconv.Atoi(fields[1]); err == nil {
			nnz, err = strconv.Atoi(fields[2])
		}
	}
	if err != nil || m.Rows <= 0 || m.Cols <= 0 || nnz < 0 {
		return nil, fmt.Errorf("%w: bad size line %q", errMatrixMarket, strings.Join(fields, " "))
	}
	if m.Symmetric && m.Rows != m.Cols {
		return nil, fmt.Errorf("%w: symmetric matrix must be square, got %dx%d", errMatrixMarket, m.Rows, m.Cols)
	}
	if m.Cols <= math.MaxInt/m.Rows && nnz > m.Rows*m.Cols {
		return nil, fmt.Errorf("%w: header announces %d entries for %dx%d cells", errMatrixMarket, nnz, m.Rows, m.Cols)
	}

	// Stage 3: entries.
	m.Entries = make([]operator.Triplet, 0, min(nnz, mtxPreallocLimit))
	var (
		i, j  int
		v     float64
		count int
	)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "%") {
			continue
		}
		fields = strings.Fields(text)
		want := 3
		if field == "pattern" {
			want = 2
		}
		if len(fields) != want {
			return nil, fmt.Errorf("%w: line %d: want %d fields, got %d", errMatrixMarket, line+1, want, len(fields))
		}
		if i, err = strconv.Atoi(fields[0]); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", errMatrixMarket, line+1, err)
		}
		if j, err = strconv.Atoi(fields[1]); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", errMatrixMarket, line+1, err)
		}
		v = 1
		if field != "pattern" {
			if v, err = strconv.ParseFloat(fields[2], 64); err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", errMatrixMarket, line+1, err)
			}
		}
		if i < 1 || i > m.Rows || j < 1 || j > m.Cols {
			return nil, fmt.Errorf("%w: line %d: index (%d,%d) outside %dx%d", errMatrixMarket, line+1, i, j, m.Rows, m.Cols)
		}
		m.Entries = append(m.Entries, operator.Triplet{Row: i - 1, Col: j - 1, Value: v})
		if m.Symmetric && i != j {
			m.Entries = append(m.Entries, operator.Triplet{Row: j - 1, Col: i - 1, Value: v})
		}
		count++
	}
	if err = sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", errMatrixMarket, err)
	}
	if count != nnz {
		return nil, fmt.Errorf("%w: header announces %d entries, found %d", errMatrixMarket, nnz, count)
	}

	return m, nil
}

// Operator builds the CSR operator of m.
func (m *mtxMatrix) Operator(symmetric bool) (*operator.LinearOperator, error) {
	s, err := operator.NewSparse(m.Rows, m.Cols, m.Entries)
	if err != nil {
		return nil, err
	}

	return s.Operator(symmetric || m.Symmetric)
}
