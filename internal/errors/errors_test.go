package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrammarError_Caret(t *testing.T) {
	err := NewExpectedToken("Foo<", 4, "GT", "EOT")

	assert.Equal(t, ErrExpectedToken, err.ErrorCode())
	assert.Equal(t, CategoryGrammar, err.ErrorCategory())
	assert.Equal(t, "Foo<\n    ^", err.Caret())
	assert.True(t, strings.HasPrefix(err.Error(), "Missing expected token: GT"))
}

func TestGrammarError_NegativeColumn(t *testing.T) {
	err := NewUnknownCharacter("#", -3, '#')
	assert.Equal(t, "#\n^", err.Caret())
}

func TestNewTrailingInput(t *testing.T) {
	err := NewTrailingInput("A B", 2)
	assert.Equal(t, "B", err.Found)
	assert.Contains(t, err.Message, "Junk lexemes remaining: B")

	err = NewTrailingInput("A", 10)
	assert.Equal(t, "", err.Found)
}

func TestResolutionErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     *ResolutionError
		code    ErrorCode
		message string
	}{
		{"not found", NewNotFound("Bogus"), ErrNotFound, "Could not find type 'Bogus'"},
		{"not a type", NewNotAType("pkg::run"), ErrNotAType, "Type is a declaration (should be a Type): 'pkg::run'"},
		{"member", NewMemberNotFound("Inner", "pkg::Outer"), ErrMemberNotFound, "Failed to resolve inner type or declaration Inner in pkg::Outer"},
		{"invalid", NewInvalidName("", "empty name"), ErrInvalidName, "Invalid name '': empty name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.ErrorCode())
			assert.Equal(t, CategoryResolution, tt.err.ErrorCategory())
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestCompletionError_Unwrap(t *testing.T) {
	cause := stderrors.New("mirror is gone")
	err := NewCompletionError("pkg::Foo", TierFull, cause)

	wrapped := fmt.Errorf("inspect: %w", err)
	assert.True(t, IsCompletion(wrapped))
	assert.False(t, IsGrammar(wrapped))
	assert.True(t, stderrors.Is(wrapped, cause))
	assert.Equal(t, "mirror is gone", err.Cause)
}

func TestAsCoded(t *testing.T) {
	wrapped := fmt.Errorf("decode: %w", NewNotFound("X"))

	coded, ok := AsCoded(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrNotFound, coded.ErrorCode())
	assert.True(t, IsResolution(wrapped))

	_, ok = AsCoded(stderrors.New("plain"))
	assert.False(t, ok)
}

func TestToJSON(t *testing.T) {
	out, err := ToJSON(NewExpectedToken("A<B", 3, "GT", "EOT"))
	require.NoError(t, err)
	assert.Contains(t, out, `"code": "SIG002"`)
	assert.Contains(t, out, `"signature": "A<B"`)
	assert.Contains(t, out, `"column": 3`)
	assert.NotContains(t, out, `\u003c`)
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestCaretCountsRunes(t *testing.T) {
	sig := "Größe#"
	e := NewUnknownCharacter(sig, strings.IndexByte(sig, '#'), '#')
	assert.Equal(t, "Größe#\n     ^", e.Caret())

	e = NewExpectedToken("A<", 2, "GT", "EOT")
	assert.Equal(t, "A<\n  ^", e.Caret())
}
