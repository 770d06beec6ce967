package tnsio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/danmuck/sparten/internal/axis"
	"github.com/danmuck/sparten/internal/tensor"
)

// WriteOptions control formatting.
type WriteOptions struct {
	// Format renders one value. Defaults to scientific notation with six
	// fractional digits, e.g. "1.000000e+00".
	Format func(v float64) string
}

// Write emits t in the canonical three-line-header text format, elements in
// storage order.
func Write[IT axis.Index, VT axis.Value](w io.Writer, t *tensor.COO[IT, VT], opts WriteOptions) error {
	format := opts.Format
	if format == nil {
		format = func(v float64) string {
			return strconv.FormatFloat(v, 'e', 6, 64)
		}
	}

	bw := bufio.NewWriter(w)
	shape := t.Shape()
	fmt.Fprintf(bw, "%d\n", len(shape))
	if len(shape) == 0 {
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("tnsio: %w", err)
		}
		return nil
	}

	for i, ax := range shape {
		if i > 0 {
			fmt.Fprint(bw, " ")
		}
		fmt.Fprintf(bw, "%v", ax.Lower())
	}
	fmt.Fprintln(bw)
	for i, ax := range shape {
		if i > 0 {
			fmt.Fprint(bw, " ")
		}
		fmt.Fprintf(bw, "%v", ax.Upper())
	}
	fmt.Fprintln(bw)

	for index, v := range t.Iter() {
		for _, i := range index {
			fmt.Fprintf(bw, "%v\t", i)
		}
		fmt.Fprintf(bw, "%s\n", format(float64(v)))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("tnsio: %w", err)
	}
	return nil
}
