package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/typegraph-lang/typegraph/internal/errors"
)

// ErrorLevel represents the severity of an error message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level   ErrorLevel
	Code    errors.ErrorCode
	Context string
	Problem string

	// Excerpt is printed verbatim below the problem, e.g. a caret line
	Excerpt      string
	Consequence  string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// FormatError creates a standardized error message with suggestions and help commands
//
// Example output:
//
//	❌ [SIG002] SIGNATURE ERROR: Missing expected token: GT (found EOI)
//	   app.core::Box<T
//	                  ^
//
//	   → Get help: typegraph decode --help
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	var headerColor, bodyColor *color.Color
	var symbol string

	switch opts.Level {
	case ErrorLevelError:
		headerColor = color.New(color.FgRed, color.Bold)
		bodyColor = color.New(color.FgRed)
		symbol = "❌"
	case ErrorLevelWarning:
		headerColor = color.New(color.FgYellow, color.Bold)
		bodyColor = color.New(color.FgYellow)
		symbol = "⚠️"
	default:
		headerColor = color.New(color.FgCyan, color.Bold)
		bodyColor = color.New(color.FgCyan)
		symbol = "ℹ️"
	}

	if opts.NoColor {
		headerColor.DisableColor()
		bodyColor.DisableColor()
	}

	header := symbol
	if opts.Code != "" {
		header += " [" + string(opts.Code) + "]"
	}
	if opts.Context != "" {
		header += " " + strings.ToUpper(opts.Context) + ":"
	}
	headerColor.Fprintf(&b, "%s %s\n", header, opts.Problem)

	if opts.Excerpt != "" {
		for _, line := range strings.Split(opts.Excerpt, "\n") {
			fmt.Fprintf(&b, "   %s\n", line)
		}
	}

	if opts.Consequence != "" {
		b.WriteString("\n")
		bodyColor.Fprintf(&b, "   %s\n", opts.Consequence)
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		yellow := color.New(color.FgYellow)
		if opts.NoColor {
			yellow.DisableColor()
		}
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		cyan := color.New(color.FgCyan)
		if opts.NoColor {
			cyan.DisableColor()
		}
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

// WriteError writes a formatted error message to the writer
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// SignatureError renders an error returned while decoding or completing a
// signature. Grammar errors get a caret under the failing column,
// resolution errors the suggestions passed in.
func SignatureError(err error, suggestions []string, noColor bool) string {
	opts := ErrorOptions{
		Level:   ErrorLevelError,
		Problem: err.Error(),
		NoColor: noColor,
	}

	var grammar *errors.GrammarError
	var resolution *errors.ResolutionError
	var completion *errors.CompletionError
	switch {
	case errors.As(err, &grammar):
		opts.Code = grammar.Code
		opts.Context = "signature error"
		opts.Problem = grammar.Message
		opts.Excerpt = grammar.Caret()
		opts.HelpCommands = []string{"Get help: typegraph decode --help"}
	case errors.As(err, &completion):
		opts.Code = completion.Code
		opts.Context = "completion failed"
		opts.Problem = fmt.Sprintf("Cannot complete %s.", completion.Declaration)
		opts.Consequence = completion.Cause
		opts.HelpCommands = []string{"Inspect the package: typegraph inspect <package>"}
	case errors.As(err, &resolution):
		opts.Code = resolution.Code
		opts.Context = "resolution error"
		opts.Problem = resolution.Message
		opts.Suggestions = suggestions
		opts.HelpCommands = []string{"List declarations: typegraph inspect <package>"}
	}
	return FormatError(opts)
}

// ArtifactError creates a standardized error for unreadable artifacts
func ArtifactError(path string, err error, noColor bool) string {
	opts := ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "ARTIFACT ERROR",
		Problem:     fmt.Sprintf("Cannot load artifact '%s'.", path),
		Consequence: err.Error(),
		HelpCommands: []string{
			"Check the artifacts list: cat typegraph.yaml",
			"Get help: typegraph --help",
		},
		NoColor: noColor,
	}
	return FormatError(opts)
}

// ConfigError creates a standardized configuration error
func ConfigError(message string, suggestions []string, noColor bool) string {
	opts := ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "CONFIGURATION ERROR",
		Problem:     message,
		Suggestions: suggestions,
		HelpCommands: []string{
			"View config: cat typegraph.yaml",
			"Get help: typegraph --help",
		},
		NoColor: noColor,
	}
	return FormatError(opts)
}

// Warning creates a standardized warning message
func Warning(message string, suggestions []string, noColor bool) string {
	opts := ErrorOptions{
		Level:       ErrorLevelWarning,
		Problem:     message,
		Suggestions: suggestions,
		NoColor:     noColor,
	}
	return FormatError(opts)
}

// Info creates a standardized info message
func Info(message string, noColor bool) string {
	opts := ErrorOptions{
		Level:   ErrorLevelInfo,
		Problem: message,
		NoColor: noColor,
	}
	return FormatError(opts)
}
