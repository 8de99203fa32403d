// Package errors provides the structured errors raised while decoding type
// signatures, resolving declarations and completing lazy declarations.
// Every error carries a stable code and category so it can be rendered for
// a terminal or serialized to JSON.
package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
)

// ErrorCode represents a unique error code
type ErrorCode string

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	// CategoryGrammar represents signature syntax errors (SIG001-099)
	CategoryGrammar ErrorCategory = "grammar"
	// CategoryResolution represents name resolution errors (RES001-099)
	CategoryResolution ErrorCategory = "resolution"
	// CategoryCompletion represents lazy completion failures (CMP001-099)
	CategoryCompletion ErrorCategory = "completion"
)

// Grammar error codes
const (
	// ErrUnknownCharacter indicates a character outside the token alphabet
	ErrUnknownCharacter ErrorCode = "SIG001"
	// ErrExpectedToken indicates a specific token was expected but not found
	ErrExpectedToken ErrorCode = "SIG002"
	// ErrTrailingInput indicates lexemes remained after a complete parse
	ErrTrailingInput ErrorCode = "SIG003"
)

// Resolution error codes
const (
	// ErrNotFound indicates a name could not be resolved
	ErrNotFound ErrorCode = "RES001"
	// ErrNotAType indicates a name resolved to a declaration where a type was required
	ErrNotAType ErrorCode = "RES002"
	// ErrMemberNotFound indicates a nested name is missing from its qualifying declaration
	ErrMemberNotFound ErrorCode = "RES003"
	// ErrInvalidName indicates a malformed or inconsistent name was requested
	ErrInvalidName ErrorCode = "RES004"
)

// Completion error codes
const (
	// ErrCompletionFailed indicates the completer failed to populate a declaration
	ErrCompletionFailed ErrorCode = "CMP001"
)

// Coded is implemented by every error in this package.
type Coded interface {
	error
	ErrorCode() ErrorCode
	ErrorCategory() ErrorCategory
}

// ToJSON returns the error as an indented JSON document. Signatures are
// written verbatim, so '<' and '>' are not escaped.
func ToJSON(err Coded) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if jsonErr := enc.Encode(err); jsonErr != nil {
		return "", jsonErr
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// AsCoded finds the first Coded error in err's chain.
func AsCoded(err error) (Coded, bool) {
	var coded Coded
	if stderrors.As(err, &coded) {
		return coded, true
	}
	return nil, false
}

// IsGrammar reports whether err's chain contains a GrammarError
func IsGrammar(err error) bool {
	var target *GrammarError
	return stderrors.As(err, &target)
}

// IsResolution reports whether err's chain contains a ResolutionError
func IsResolution(err error) bool {
	var target *ResolutionError
	return stderrors.As(err, &target)
}

// IsCompletion reports whether err's chain contains a CompletionError
func IsCompletion(err error) bool {
	var target *CompletionError
	return stderrors.As(err, &target)
}

// As is errors.As from the standard library, so that importers of this
// package need not alias it
func As(err error, target any) bool { return stderrors.As(err, target) }
