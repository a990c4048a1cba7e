package output

import "strings"

// Column describes one table column of a record list.
type Column[T any] struct {
	Header string
	// Wide columns are shown only in wide mode.
	Wide  bool
	Value func(T) string
}

// Rows builds a table from items using the given columns.
func Rows[T any](items []T, wide bool, cols ...Column[T]) *Table {
	table := &Table{}
	var shown []Column[T]
	for _, c := range cols {
		if c.Wide && !wide {
			continue
		}
		shown = append(shown, c)
		table.Headers = append(table.Headers, c.Header)
	}

	for _, item := range items {
		row := make([]string, len(shown))
		for i, c := range shown {
			row[i] = orDash(clean(c.Value(item)))
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 3 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// clean keeps multi-line values on one table row.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
