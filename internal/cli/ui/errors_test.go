package ui

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/typegraph-lang/typegraph/internal/errors"
)

func TestFormatError(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		opts     ErrorOptions
		contains []string
	}{
		{
			name: "basic error",
			opts: ErrorOptions{
				Level:   ErrorLevelError,
				Context: "resolution error",
				Problem: "Could not find type 'Bogus'",
			},
			contains: []string{"❌", "RESOLUTION ERROR:", "Could not find type 'Bogus'"},
		},
		{
			name: "error with code and excerpt",
			opts: ErrorOptions{
				Level:   ErrorLevelError,
				Code:    errors.ErrExpectedToken,
				Problem: "Missing expected token",
				Excerpt: "Foo<\n    ^",
			},
			contains: []string{"❌ [SIG002] Missing expected token", "   Foo<\n", "       ^\n"},
		},
		{
			name: "error with suggestions",
			opts: ErrorOptions{
				Level:       ErrorLevelError,
				Problem:     "Could not find type 'Bx'",
				Suggestions: []string{"Box", "B"},
			},
			contains: []string{"Did you mean: Box, B?"},
		},
		{
			name: "error with help commands",
			opts: ErrorOptions{
				Level:        ErrorLevelError,
				Problem:      "bad",
				HelpCommands: []string{"Get help: typegraph decode --help"},
			},
			contains: []string{"→ Get help: typegraph decode --help"},
		},
		{
			name:     "warning message",
			opts:     ErrorOptions{Level: ErrorLevelWarning, Problem: "2 declarations failed"},
			contains: []string{"⚠️", "2 declarations failed"},
		},
		{
			name:     "info message",
			opts:     ErrorOptions{Level: ErrorLevelInfo, Problem: "nothing to inspect"},
			contains: []string{"ℹ️", "nothing to inspect"},
		},
		{
			name: "error with consequence",
			opts: ErrorOptions{
				Level:       ErrorLevelError,
				Problem:     "Cannot complete app.core::Broken.",
				Consequence: "decode failed",
			},
			contains: []string{"Cannot complete app.core::Broken.", "   decode failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatError(tt.opts)

			for _, expected := range tt.contains {
				if !strings.Contains(result, expected) {
					t.Errorf("FormatError() output missing expected string:\nExpected to contain: %q\nGot: %q", expected, result)
				}
			}
		})
	}
}

func TestSignatureError_Grammar(t *testing.T) {
	err := fmt.Errorf("decode: %w", errors.NewExpectedToken("Foo<", 4, "GT", "EOI"))

	result := SignatureError(err, []string{"ignored"}, true)

	for _, expected := range []string{
		"[SIG002] SIGNATURE ERROR: Missing expected token: GT (found EOI)",
		"   Foo<\n       ^\n",
		"typegraph decode --help",
	} {
		if !strings.Contains(result, expected) {
			t.Errorf("missing %q in %q", expected, result)
		}
	}
	if strings.Contains(result, "Did you mean") {
		t.Error("grammar errors must not carry suggestions")
	}
}

func TestSignatureError_Resolution(t *testing.T) {
	result := SignatureError(errors.NewNotFound("app.core.Bx"), []string{"Box"}, true)

	for _, expected := range []string{
		"[RES001] RESOLUTION ERROR: Could not find type 'app.core.Bx'",
		"Did you mean: Box?",
	} {
		if !strings.Contains(result, expected) {
			t.Errorf("missing %q in %q", expected, result)
		}
	}
}

func TestSignatureError_Completion(t *testing.T) {
	cause := fmt.Errorf("decode %q: %w", "app.core::Missing", errors.NewNotFound("app.core.Missing"))
	err := errors.NewCompletionError("app.core::Broken", errors.TierFull, cause)

	result := SignatureError(err, nil, true)

	for _, expected := range []string{
		"[CMP001] COMPLETION FAILED: Cannot complete app.core::Broken.",
		"Could not find type 'app.core.Missing'",
	} {
		if !strings.Contains(result, expected) {
			t.Errorf("missing %q in %q", expected, result)
		}
	}
}

func TestSignatureError_Plain(t *testing.T) {
	result := SignatureError(fmt.Errorf("boom"), nil, true)
	if !strings.Contains(result, "❌ boom") {
		t.Errorf("unexpected output %q", result)
	}
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	WriteError(&buf, ErrorOptions{Level: ErrorLevelError, Problem: "Test error", NoColor: true})

	if !strings.Contains(buf.String(), "Test error") {
		t.Errorf("WriteError() output missing error message")
	}
}

func TestFormatSuccess(t *testing.T) {
	result := FormatSuccess("12 declarations completed", true)
	if result != "✓ 12 declarations completed" {
		t.Errorf("FormatSuccess() = %q", result)
	}

	var buf bytes.Buffer
	WriteSuccess(&buf, "done", true)
	if buf.String() != "✓ done\n" {
		t.Errorf("WriteSuccess() = %q", buf.String())
	}
}

func TestArtifactError(t *testing.T) {
	result := ArtifactError("build/app.tga", fmt.Errorf("no such file"), true)

	for _, expected := range []string{"ARTIFACT ERROR", "build/app.tga", "no such file", "typegraph.yaml"} {
		if !strings.Contains(result, expected) {
			t.Errorf("ArtifactError() missing %q", expected)
		}
	}
}

func TestConfigError(t *testing.T) {
	result := ConfigError("inspect.jobs must be at least 1", nil, true)

	if !strings.Contains(result, "CONFIGURATION ERROR") || !strings.Contains(result, "inspect.jobs") {
		t.Errorf("ConfigError() = %q", result)
	}
}

func TestWarningAndInfo(t *testing.T) {
	if result := Warning("slow", []string{"--jobs 8"}, true); !strings.Contains(result, "⚠️ slow") || !strings.Contains(result, "--jobs 8") {
		t.Errorf("Warning() = %q", result)
	}
	if result := Info("no packages", true); !strings.Contains(result, "ℹ️ no packages") {
		t.Errorf("Info() = %q", result)
	}
}
