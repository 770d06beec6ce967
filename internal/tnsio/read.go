package tnsio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/danmuck/sparten/internal/axis"
	"github.com/danmuck/sparten/internal/tensor"
)

var (
	ErrEmptyFile     = errors.New("tnsio: empty file")
	ErrHeader        = errors.New("tnsio: malformed header")
	ErrElement       = errors.New("tnsio: malformed element")
	ErrIndexOverflow = errors.New("tnsio: index does not fit the index type")
)

// ReadOptions control parsing.
type ReadOptions struct {
	// IndexOffset is subtracted from every file coordinate. Indices in this
	// library are zero-based; set 1 for files written by one-based tools.
	IndexOffset int64
}

// Read parses a fully sparse COO tensor from r.
func Read[IT axis.Index, VT axis.Value](r io.Reader, opts ReadOptions) (*tensor.COO[IT, VT], error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	ln := 0
	nextLine := func() (string, bool, error) {
		for sc.Scan() {
			ln++
			line := strings.TrimSpace(sc.Text())
			if line != "" {
				return line, true, nil
			}
		}
		return "", false, sc.Err()
	}

	line, ok, err := nextLine()
	if err != nil {
		return nil, fmt.Errorf("tnsio: %w", err)
	}
	if !ok {
		return nil, ErrEmptyFile
	}
	ndim, err := strconv.Atoi(line)
	if err != nil || ndim < 0 {
		return nil, fmt.Errorf("%w: line %d: invalid axis count %q", ErrHeader, ln, line)
	}
	if ndim == 0 {
		return tensor.NewCOO[IT, VT](nil, nil)
	}

	line, ok, err = nextLine()
	if err != nil {
		return nil, fmt.Errorf("tnsio: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: line %d: missing axis bounds", ErrHeader, ln+1)
	}
	second, err := parseInts(line, ndim)
	if err != nil {
		return nil, fmt.Errorf("%w: line %d: %v", ErrHeader, ln, err)
	}

	// The canonical header continues with an upper-bounds line of ndim
	// integers. A legacy header has only the lengths line, so the next line
	// is either an element (ndim+1 fields) or absent.
	lower, upper := second, []int64(nil)
	var pending string
	line, ok, err = nextLine()
	if err != nil {
		return nil, fmt.Errorf("tnsio: %w", err)
	}
	if ok {
		if u, uerr := parseInts(line, ndim); uerr == nil {
			upper = u
		} else {
			pending = line
		}
	}
	if upper == nil {
		// Legacy: second line held zero-based lengths.
		upper = second
		lower = make([]int64, ndim)
	}

	shape := make(axis.Axes[IT], ndim)
	for i := range shape {
		lo, lok := castIndex[IT](lower[i])
		hi, hok := castIndex[IT](upper[i])
		if !lok || !hok {
			return nil, fmt.Errorf("%w: axis %d bounds [%d..%d)", ErrIndexOverflow, i, lower[i], upper[i])
		}
		shape[i] = axis.Range(lo, hi)
	}
	t, err := tensor.NewCOO[IT, VT](shape, nil)
	if err != nil {
		return nil, fmt.Errorf("tnsio: %w", err)
	}

	index := make([]IT, ndim)
	block := make([]VT, 1)
	element := func(line string, lineNo int) error {
		fields := strings.Fields(line)
		if len(fields) != ndim+1 {
			return fmt.Errorf("%w: line %d: got %d fields, want %d", ErrElement, lineNo, len(fields), ndim+1)
		}
		for i := 0; i < ndim; i++ {
			v, err := strconv.ParseInt(fields[i], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: line %d: invalid index %q", ErrElement, lineNo, fields[i])
			}
			v -= opts.IndexOffset
			idx, ok := castIndex[IT](v)
			if !ok {
				return fmt.Errorf("%w: line %d: index %d", ErrIndexOverflow, lineNo, v)
			}
			index[i] = idx
		}
		v, err := strconv.ParseFloat(fields[ndim], 64)
		if err != nil {
			return fmt.Errorf("%w: line %d: invalid value %q", ErrElement, lineNo, fields[ndim])
		}
		block[0] = VT(v)
		if err := t.Push(index, block); err != nil {
			return fmt.Errorf("tnsio: line %d: %w", lineNo, err)
		}
		return nil
	}

	if pending != "" {
		if err := element(pending, ln); err != nil {
			return nil, err
		}
	}
	for {
		line, ok, err = nextLine()
		if err != nil {
			return nil, fmt.Errorf("tnsio: %w", err)
		}
		if !ok {
			break
		}
		if err := element(line, ln); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func parseInts(line string, n int) ([]int64, error) {
	fields := strings.Fields(line)
	if len(fields) != n {
		return nil, fmt.Errorf("got %d fields, want %d", len(fields), n)
	}
	out := make([]int64, n)
	for i, f := range fields {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", f)
		}
		out[i] = v
	}
	return out, nil
}

// castIndex converts v to IT, rejecting values the type cannot hold.
func castIndex[IT axis.Index](v int64) (IT, bool) {
	it := IT(v)
	if int64(it) != v {
		return 0, false
	}
	if v < 0 {
		var zero IT
		if zero-1 > zero { // unsigned index type
			return 0, false
		}
	}
	return it, true
}
