/*package catalog reads and writes the whitespace-separated text columns which
the toolbox's modes take on stdin and write to stdout.
*/
package catalog

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// CommentString returns a header line describing the columns written by
// FormatCols. order has the same meaning as in FormatCols, and sizes gives
// the number of columns taken up by each named quantity.
func CommentString(
	intNames, floatNames []string, order, sizes []int,
) string {
	names := append(append([]string{}, intNames...), floatNames...)

	tokens := []string{"# Column contents:"}
	n := 0
	for _, idx := range order {
		if idx >= len(names) {
			panic("Column ordering out of range.")
		}

		if sizes[idx] == 1 {
			tokens = append(tokens, fmt.Sprintf("%s(%d)", names[idx], n))
		} else {
			tokens = append(tokens, fmt.Sprintf("%s(%d-%d)",
				names[idx], n, n+sizes[idx]-1))
		}
		n += sizes[idx]
	}

	return strings.Join(tokens, " ")
}

// FormatCols lays out integer and float columns as right-aligned text. order
// indexes into the concatenation of intCols and floatCols.
func FormatCols(intCols [][]int, floatCols [][]float64, order []int) []string {
	if (len(intCols) == 0 && len(floatCols) == 0) ||
		(len(intCols) > 0 && len(intCols[0]) == 0) ||
		(len(floatCols) > 0 && len(floatCols[0]) == 0) {
		return []string{}
	}

	cols := make([][]string, 0, len(intCols)+len(floatCols))
	height := -1
	for i := range intCols {
		cols = append(cols, formatCol(intCols[i], "%d", "%*d"))
		height = checkHeight(height, len(intCols[i]))
	}
	for i := range floatCols {
		cols = append(cols, formatCol(floatCols[i], "%.6g", "%*.6g"))
		height = checkHeight(height, len(floatCols[i]))
	}

	orderedCols := make([][]string, len(order))
	for i, idx := range order {
		if idx >= len(cols) {
			panic("Column ordering out of range.")
		}
		orderedCols[i] = cols[idx]
	}

	lines := make([]string, height)
	tokens := make([]string, len(orderedCols))
	for i := 0; i < height; i++ {
		for j := range orderedCols {
			tokens[j] = orderedCols[j][i]
		}
		lines[i] = strings.Join(tokens, " ")
	}

	return lines
}

func checkHeight(height, n int) int {
	if height != -1 && height != n {
		panic("Columns of unequal height.")
	}
	return n
}

func formatCol[T int | float64](col []T, verb, padded string) []string {
	width := 0
	for i := range col {
		if n := len(fmt.Sprintf(verb, col[i])); n > width {
			width = n
		}
	}

	out := make([]string, len(col))
	for i := range col {
		out[i] = fmt.Sprintf(padded, width, col[i])
	}
	return out
}

// ParseCols parses the requested integer and float columns out of a slice of
// lines. Anything after a '#' is a comment, and blank lines are skipped. Every
// data line must have the same number of columns.
func ParseCols(lines []string, icolIdxs, fcolIdxs []int) (
	[][]int, [][]float64, error,
) {
	icols := make([][]int, len(icolIdxs))
	fcols := make([][]float64, len(fcolIdxs))

	width := -1
	for i, line := range lines {
		if comment := strings.IndexByte(line, '#'); comment != -1 {
			line = line[:comment]
		}
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		if width == -1 {
			width = len(words)
			if err := checkIndices(width, icolIdxs, fcolIdxs); err != nil {
				return nil, nil, fmt.Errorf("Line %d: %w", i+1, err)
			}
		} else if len(words) != width {
			return nil, nil, fmt.Errorf(
				"Line %d has %d columns, but previous lines had %d.",
				i+1, len(words), width,
			)
		}

		for j, idx := range icolIdxs {
			x, err := strconv.Atoi(words[idx])
			if err != nil {
				return nil, nil, fmt.Errorf("I could not parse column %d "+
					"of line %d, '%s', as an integer.", idx, i+1, words[idx])
			}
			icols[j] = append(icols[j], x)
		}
		for j, idx := range fcolIdxs {
			x, err := strconv.ParseFloat(words[idx], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("I could not parse column %d "+
					"of line %d, '%s', as a number.", idx, i+1, words[idx])
			}
			fcols[j] = append(fcols[j], x)
		}
	}

	for j := range icols {
		if icols[j] == nil {
			icols[j] = []int{}
		}
	}
	for j := range fcols {
		if fcols[j] == nil {
			fcols[j] = []float64{}
		}
	}
	return icols, fcols, nil
}

func checkIndices(width int, icolIdxs, fcolIdxs []int) error {
	for _, idxs := range [][]int{icolIdxs, fcolIdxs} {
		for _, idx := range idxs {
			if idx < 0 || idx >= width {
				return fmt.Errorf("I need column %d, but lines only have "+
					"%d columns.", idx, width)
			}
		}
	}
	return nil
}

// Parse parses the specified columns in a byte block.
func Parse(data []byte, icolIdxs, fcolIdxs []int) (
	[][]int, [][]float64, error,
) {
	return ParseCols(strings.Split(string(data), "\n"), icolIdxs, fcolIdxs)
}

// ReadFile parses the specified columns of a text file.
func ReadFile(fname string, icolIdxs, fcolIdxs []int) (
	[][]int, [][]float64, error,
) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, nil, err
	}
	icols, fcols, err := Parse(data, icolIdxs, fcolIdxs)
	if err != nil {
		return nil, nil, fmt.Errorf("In %s: %w", fname, err)
	}
	return icols, fcols, nil
}
