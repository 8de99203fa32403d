// Package lexer tokenizes type signatures: the compact textual encoding of
// a full type expression stored in compiled declaration metadata.
//
// The lexer never allocates tokens ahead of time. Peek classifies the lexeme
// at the current offset and Eat consumes it, so backtracking is just a saved
// offset (see Mark and Reset).
package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/typegraph-lang/typegraph/internal/errors"
)

// State is the complete position of a Lexer. Restoring a State returns the
// lexer to exactly the point it was captured at.
type State struct {
	Input string
	Index int
	Marks []int
}

// Lexer scans one signature at a time.
//
// Thread Safety: Lexer values are NOT thread-safe. The signature parser
// creates one per decode call.
type Lexer struct {
	input string
	index int
	marks []int
}

// New creates a Lexer positioned at the start of input
func New(input string) *Lexer {
	l := &Lexer{}
	l.Setup(input)
	return l
}

// Setup resets the lexer to the start of a new signature
func (l *Lexer) Setup(input string) {
	l.input = input
	l.index = 0
	l.marks = l.marks[:0]
}

// Input returns the signature being scanned
func (l *Lexer) Input() string { return l.input }

// Offset returns the byte offset of the next lexeme
func (l *Lexer) Offset() int { return l.index }

// Peek classifies the next lexeme without consuming it
func (l *Lexer) Peek() TokenType {
	t, _ := l.scan(l.index)
	return t
}

// LookingAt reports whether the next lexeme is of type t
func (l *Lexer) LookingAt(t TokenType) bool {
	return l.Peek() == t
}

// Eat consumes the next lexeme whatever it is. Consuming past the end of
// the signature or over an illegal character is an error.
func (l *Lexer) Eat() error {
	t, end := l.scan(l.index)
	switch t {
	case TOKEN_EOT:
		return errors.NewExpectedToken(l.input, l.index, "any token", TOKEN_EOT.Symbol())
	case TOKEN_ILLEGAL:
		return l.illegal()
	}
	l.index = end
	return nil
}

// EatToken consumes the next lexeme only if it is of type t
func (l *Lexer) EatToken(t TokenType) error {
	found, end := l.scan(l.index)
	if found == TOKEN_ILLEGAL {
		return l.illegal()
	}
	if found != t {
		return errors.NewExpectedToken(l.input, l.index, t.Symbol(), l.describe(found, end))
	}
	l.index = end
	return nil
}

// EatWord consumes a WORD and returns its text
func (l *Lexer) EatWord() (string, error) {
	start := l.index
	if err := l.EatToken(TOKEN_WORD); err != nil {
		return "", err
	}
	return l.input[start:l.index], nil
}

// Mark pushes the current offset so a lookahead can be undone with Reset
func (l *Lexer) Mark() {
	l.marks = append(l.marks, l.index)
}

// Reset returns to the most recent Mark and discards it. Reset without a
// matching Mark is a no-op.
func (l *Lexer) Reset() {
	n := len(l.marks)
	if n == 0 {
		return
	}
	l.index = l.marks[n-1]
	l.marks = l.marks[:n-1]
}

// State captures the full lexer position
func (l *Lexer) State() State {
	marks := make([]int, len(l.marks))
	copy(marks, l.marks)
	return State{Input: l.input, Index: l.index, Marks: marks}
}

// Restore returns the lexer to a captured State
func (l *Lexer) Restore(s State) {
	l.input = s.Input
	l.index = s.Index
	l.marks = append(l.marks[:0], s.Marks...)
}

// scan classifies the lexeme starting at i and returns its end offset
func (l *Lexer) scan(i int) (TokenType, int) {
	if i >= len(l.input) {
		return TOKEN_EOT, len(l.input)
	}

	switch l.input[i] {
	case '.':
		return TOKEN_DOT, i + 1
	case '<':
		return TOKEN_LT, i + 1
	case '>':
		return TOKEN_GT, i + 1
	case ',':
		return TOKEN_COMMA, i + 1
	case '|':
		return TOKEN_OR, i + 1
	case '&':
		return TOKEN_AND, i + 1
	case ':':
		if i+1 < len(l.input) && l.input[i+1] == ':' {
			return TOKEN_DBLCOLON, i + 2
		}
		return TOKEN_ILLEGAL, i
	}

	r, size := utf8.DecodeRuneInString(l.input[i:])
	if !isWordStart(r) {
		return TOKEN_ILLEGAL, i
	}

	end := i + size
	for end < len(l.input) {
		r, size = utf8.DecodeRuneInString(l.input[end:])
		if !isWordPart(r) {
			break
		}
		end += size
	}

	// variance keywords carry their trailing space
	word := l.input[i:end]
	if end < len(l.input) && l.input[end] == ' ' {
		switch word {
		case "in":
			return TOKEN_IN, end + 1
		case "out":
			return TOKEN_OUT, end + 1
		}
	}
	return TOKEN_WORD, end
}

func (l *Lexer) illegal() error {
	r, _ := utf8.DecodeRuneInString(l.input[l.index:])
	return errors.NewUnknownCharacter(l.input, l.index, r)
}

func (l *Lexer) describe(t TokenType, end int) string {
	if t == TOKEN_EOT {
		return t.Symbol()
	}
	return "'" + l.input[l.index:end] + "'"
}

func isWordStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$'
}

func isWordPart(r rune) bool {
	return isWordStart(r) || unicode.IsDigit(r)
}
