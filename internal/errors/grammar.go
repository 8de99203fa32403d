package errors

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// GrammarError reports a syntax problem in a signature string. Column is the
// zero-based offset of the failure inside Signature.
type GrammarError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Signature string    `json:"signature"`
	Column    int       `json:"column"`
	Expected  string    `json:"expected,omitempty"`
	Found     string    `json:"found,omitempty"`
}

// Error implements the error interface
func (e *GrammarError) Error() string {
	return e.Message + "\n" + e.Caret()
}

// ErrorCode returns the error code
func (e *GrammarError) ErrorCode() ErrorCode { return e.Code }

// ErrorCategory returns CategoryGrammar
func (e *GrammarError) ErrorCategory() ErrorCategory { return CategoryGrammar }

// Caret returns the signature followed by a line with a caret under Column.
// Column is a byte offset; the caret is placed by rune.
func (e *GrammarError) Caret() string {
	col := min(max(e.Column, 0), len(e.Signature))
	pad := utf8.RuneCountInString(e.Signature[:col]) + max(e.Column-len(e.Signature), 0)
	return e.Signature + "\n" + strings.Repeat(" ", pad) + "^"
}

// NewUnknownCharacter creates a SIG001 error
func NewUnknownCharacter(signature string, column int, c rune) *GrammarError {
	return &GrammarError{
		Code:      ErrUnknownCharacter,
		Message:   fmt.Sprintf("Invalid character '%c' in signature", c),
		Signature: signature,
		Column:    column,
		Found:     string(c),
	}
}

// NewExpectedToken creates a SIG002 error
func NewExpectedToken(signature string, column int, expected, found string) *GrammarError {
	return &GrammarError{
		Code:      ErrExpectedToken,
		Message:   fmt.Sprintf("Missing expected token: %s (found %s)", expected, found),
		Signature: signature,
		Column:    column,
		Expected:  expected,
		Found:     found,
	}
}

// NewTrailingInput creates a SIG003 error
func NewTrailingInput(signature string, column int) *GrammarError {
	rest := ""
	if column >= 0 && column < len(signature) {
		rest = signature[column:]
	}
	return &GrammarError{
		Code:      ErrTrailingInput,
		Message:   fmt.Sprintf("Junk lexemes remaining: %s", rest),
		Signature: signature,
		Column:    column,
		Found:     rest,
	}
}
