package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Table renders rows of declarations or types in aligned columns
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
	noColor bool
}

// NewTable creates a new table with the given headers
func NewTable(w io.Writer, noColor bool, headers ...string) *Table {
	return &Table{writer: w, headers: headers, noColor: noColor}
}

// AddRow adds a row. Missing cells render empty; extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows
func (t *Table) Len() int { return len(t.rows) }

// SortBy orders the rows by the given column
func (t *Table) SortBy(column int) {
	sort.SliceStable(t.rows, func(i, j int) bool {
		return t.rows[i][column] < t.rows[j][column]
	})
}

// Render writes the header, a separator and every row
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], width(cell))
		}
	}

	bold := color.New(color.Bold, color.FgCyan)
	gray := color.New(color.FgHiBlack)
	if t.noColor {
		bold.DisableColor()
		gray.DisableColor()
	}

	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("─", w)
	}

	t.line(bold, t.headers, widths)
	t.line(gray, rule, widths)
	for _, row := range t.rows {
		t.line(nil, row, widths)
	}
}

func (t *Table) line(c *color.Color, cells []string, widths []int) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		if i == len(cells)-1 {
			parts[i] = cell
		} else {
			parts[i] = padRight(cell, widths[i])
		}
	}
	text := strings.Join(parts, "  ")
	if c != nil {
		c.Fprintln(t.writer, text)
		return
	}
	fmt.Fprintln(t.writer, text)
}

func width(s string) int { return utf8.RuneCountInString(s) }

// padRight pads s with spaces to w runes
func padRight(s string, w int) string {
	if n := width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}

// KeyValueTable renders labelled values, one per line
type KeyValueTable struct {
	writer  io.Writer
	keys    []string
	values  []string
	noColor bool
}

// NewKeyValueTable creates a new key-value table
func NewKeyValueTable(w io.Writer, noColor bool) *KeyValueTable {
	return &KeyValueTable{writer: w, noColor: noColor}
}

// AddRow adds a key-value pair to the table
func (t *KeyValueTable) AddRow(key, value string) {
	t.keys = append(t.keys, key)
	t.values = append(t.values, value)
}

// Render renders the key-value table
func (t *KeyValueTable) Render() {
	keyWidth := 0
	for _, k := range t.keys {
		keyWidth = max(keyWidth, width(k)+1)
	}

	cyan := color.New(color.FgCyan)
	if t.noColor {
		cyan.DisableColor()
	}
	for i, k := range t.keys {
		cyan.Fprint(t.writer, padRight(k+":", keyWidth))
		fmt.Fprintf(t.writer, " %s\n", t.values[i])
	}
}

// Tree renders an indented outline, used for nested parameter lists
type Tree struct {
	writer  io.Writer
	noColor bool
}

// NewTree creates a tree writer
func NewTree(w io.Writer, noColor bool) *Tree {
	return &Tree{writer: w, noColor: noColor}
}

// Node writes one entry at depth with an optional dimmed note
func (t *Tree) Node(depth int, label, note string) {
	gray := color.New(color.FgHiBlack)
	if t.noColor {
		gray.DisableColor()
	}
	fmt.Fprintf(t.writer, "%s• %s", strings.Repeat("  ", depth), label)
	if note != "" {
		gray.Fprintf(t.writer, "  %s", note)
	}
	fmt.Fprintln(t.writer)
}

// Header renders a bold title with a rule under it
func Header(w io.Writer, title string, noColor bool) {
	bold := color.New(color.Bold, color.FgCyan)
	gray := color.New(color.FgHiBlack)
	if noColor {
		bold.DisableColor()
		gray.DisableColor()
	}
	bold.Fprintln(w, title)
	gray.Fprintln(w, strings.Repeat("─", width(title)))
}
