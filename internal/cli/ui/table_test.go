package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, true, "NAME", "KIND", "TYPE")

	table.AddRow("Box", "class", "app.core::Box<T>")
	table.AddRow("run", "function")
	table.AddRow("A", "class", "app.core::A", "dropped")
	table.SortBy(0)
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"NAME  KIND      TYPE",
		"────  ────────  ────────────────",
		"A     class     app.core::A",
		"Box   class     app.core::Box<T>",
		"run   function  ",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	if table.Len() != 3 {
		t.Errorf("Len() = %d, want 3", table.Len())
	}
}

func TestTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf, true).Render()

	if buf.Len() != 0 {
		t.Errorf("expected no output for a table without headers, got %q", buf.String())
	}
}

func TestKeyValueTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewKeyValueTable(&buf, true)
	table.AddRow("type", "app.core::Box<lang::String>")
	table.AddRow("declaration", "class")
	table.Render()

	want := "type:        app.core::Box<lang::String>\ndeclaration: class\n"
	if buf.String() != want {
		t.Errorf("Render() = %q, want %q", buf.String(), want)
	}
}

func TestTree(t *testing.T) {
	var buf bytes.Buffer
	tree := NewTree(&buf, true)
	tree.Node(0, "fn", "")
	tree.Node(1, "element", "sequenced")

	want := "• fn\n  • element  sequenced\n"
	if buf.String() != want {
		t.Errorf("Tree output = %q, want %q", buf.String(), want)
	}
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	Header(&buf, "app.core", true)

	if buf.String() != "app.core\n────────\n" {
		t.Errorf("Header() = %q", buf.String())
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"ab", 4, "ab  "},
		{"abcd", 2, "abcd"},
		{"ü", 3, "ü  "},
	}
	for _, tt := range tests {
		if got := padRight(tt.s, tt.width); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
		}
	}
}
