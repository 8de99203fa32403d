// Package names decodes parameter-name signatures: the compact encoding of
// the parameter names of a functional parameter, e.g. "(f(x,!g()),rest*)".
package names

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/typegraph-lang/typegraph/internal/errors"
)

// TokenType represents the type of a lexeme in a name signature
type TokenType int

const (
	TOKEN_COMMA       TokenType = iota // ,
	TOKEN_LEFT_PAREN                   // (
	TOKEN_RIGHT_PAREN                  // )
	TOKEN_IDENT                        // letters, digits and underscore
	TOKEN_PLUS                         // +
	TOKEN_STAR                         // *
	TOKEN_BANG                         // !
	TOKEN_EOI                          // end of input
	TOKEN_ILLEGAL                      // any other character
)

// TokenTypeNames maps token types to their string representations
var TokenTypeNames = map[TokenType]string{
	TOKEN_COMMA:       "COMMA",
	TOKEN_LEFT_PAREN:  "LEFT_PAREN",
	TOKEN_RIGHT_PAREN: "RIGHT_PAREN",
	TOKEN_IDENT:       "IDENT",
	TOKEN_PLUS:        "PLUS",
	TOKEN_STAR:        "STAR",
	TOKEN_BANG:        "BANG",
	TOKEN_EOI:         "EOI",
	TOKEN_ILLEGAL:     "ILLEGAL",
}

// String returns the string representation of a TokenType
func (t TokenType) String() string {
	if name, ok := TokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", t)
}

// Lexer scans a name signature. The grammar is LL(1) so there is no
// backtracking.
type Lexer struct {
	input string
	index int
}

// NewLexer creates a Lexer positioned at the start of input
func NewLexer(input string) *Lexer {
	l := &Lexer{}
	l.Setup(input)
	return l
}

// Setup resets the lexer to the start of input
func (l *Lexer) Setup(input string) {
	l.input = input
	l.index = 0
}

// Peek classifies the next lexeme without consuming it
func (l *Lexer) Peek() TokenType {
	if l.index >= len(l.input) {
		return TOKEN_EOI
	}
	switch l.input[l.index] {
	case '(':
		return TOKEN_LEFT_PAREN
	case ')':
		return TOKEN_RIGHT_PAREN
	case ',':
		return TOKEN_COMMA
	case '+':
		return TOKEN_PLUS
	case '*':
		return TOKEN_STAR
	case '!':
		return TOKEN_BANG
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.index:])
	if isIdentifierPart(r) {
		return TOKEN_IDENT
	}
	return TOKEN_ILLEGAL
}

// LookingAt reports whether the next lexeme is of type t
func (l *Lexer) LookingAt(t TokenType) bool {
	return l.Peek() == t
}

// Eat consumes the next lexeme. Eating at the end of input does nothing.
func (l *Lexer) Eat() error {
	switch l.Peek() {
	case TOKEN_EOI:
		return nil
	case TOKEN_ILLEGAL:
		r, _ := utf8.DecodeRuneInString(l.input[l.index:])
		return errors.NewUnknownCharacter(l.input, l.index, r)
	case TOKEN_IDENT:
		for l.index < len(l.input) {
			r, size := utf8.DecodeRuneInString(l.input[l.index:])
			if !isIdentifierPart(r) {
				break
			}
			l.index += size
		}
	default:
		l.index++
	}
	return nil
}

// EatToken consumes the next lexeme only if it is of type t
func (l *Lexer) EatToken(t TokenType) error {
	found := l.Peek()
	if found == TOKEN_ILLEGAL {
		return l.Eat()
	}
	if found != t {
		return errors.NewExpectedToken(l.input, l.index, t.String(), found.String())
	}
	return l.Eat()
}

// EatIdentifier consumes an IDENT and returns its text
func (l *Lexer) EatIdentifier() (string, error) {
	start := l.index
	if err := l.EatToken(TOKEN_IDENT); err != nil {
		return "", err
	}
	return l.input[start:l.index], nil
}

// Offset returns the byte offset of the next lexeme
func (l *Lexer) Offset() int { return l.index }

func isIdentifierPart(r rune) bool {
	return unicode.IsLower(r) || unicode.IsUpper(r) || unicode.IsDigit(r) || r == '_'
}
