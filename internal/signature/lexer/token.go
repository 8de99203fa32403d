package lexer

import "fmt"

// TokenType represents the type of a lexeme in a type signature
type TokenType int

const (
	// TOKEN_EOT marks the end of the signature text.
	TOKEN_EOT TokenType = iota
	// TOKEN_ILLEGAL marks a character outside the signature alphabet.
	TOKEN_ILLEGAL

	// TOKEN_WORD is an identifier: a package segment, type or member name.
	TOKEN_WORD

	// Delimiters
	TOKEN_DOT      // .
	TOKEN_DBLCOLON // ::
	TOKEN_LT       // <
	TOKEN_GT       // >
	TOKEN_COMMA    // ,

	// Type operators
	TOKEN_OR  // |
	TOKEN_AND // &

	// Variance keywords, each followed by a single space
	TOKEN_IN  // "in "
	TOKEN_OUT // "out "
)

// TokenTypeNames maps token types to their string representations
var TokenTypeNames = map[TokenType]string{
	TOKEN_EOT:      "EOT",
	TOKEN_ILLEGAL:  "ILLEGAL",
	TOKEN_WORD:     "WORD",
	TOKEN_DOT:      "DOT",
	TOKEN_DBLCOLON: "DBLCOLON",
	TOKEN_LT:       "LT",
	TOKEN_GT:       "GT",
	TOKEN_COMMA:    "COMMA",
	TOKEN_OR:       "OR",
	TOKEN_AND:      "AND",
	TOKEN_IN:       "IN",
	TOKEN_OUT:      "OUT",
}

// tokenSymbols is how a token is written in error messages
var tokenSymbols = map[TokenType]string{
	TOKEN_EOT:      "end of signature",
	TOKEN_WORD:     "identifier",
	TOKEN_DOT:      "'.'",
	TOKEN_DBLCOLON: "'::'",
	TOKEN_LT:       "'<'",
	TOKEN_GT:       "'>'",
	TOKEN_COMMA:    "','",
	TOKEN_OR:       "'|'",
	TOKEN_AND:      "'&'",
	TOKEN_IN:       "'in'",
	TOKEN_OUT:      "'out'",
}

// String returns the string representation of a TokenType
func (t TokenType) String() string {
	if name, ok := TokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", t)
}

// Symbol returns the token as written in a signature, for error messages
func (t TokenType) Symbol() string {
	if sym, ok := tokenSymbols[t]; ok {
		return sym
	}
	return t.String()
}
