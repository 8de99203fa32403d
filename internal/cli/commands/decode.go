package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/typegraph-lang/typegraph/internal/cli/ui"
	"github.com/typegraph-lang/typegraph/internal/errors"
	"github.com/typegraph-lang/typegraph/internal/model"
)

var (
	decodeScope string
	decodeLoad  bool
)

// NewDecodeCommand creates the decode command
func NewDecodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <signature>...",
		Short: "Decode type signatures against the loaded artifacts",
		Long: `Decode one or more type signatures and print the resulting types.

Names are resolved against the configured module and the modules it
imports. Declarations are only completed when --load is given, so decoding
alone shows what the parser needs without loading whole declarations.

Examples:
  typegraph decode 'app.core::Box<lang::String>'
  typegraph decode 'lang::String|lang::Object' 'app.core::Box<out T>' --scope app.core::Box
  typegraph decode 'app.core::Box<lang::String>' --load
  typegraph decode 'Foo<' --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runDecode,
	}

	cmd.Flags().StringVar(&decodeScope, "scope", "", "Signature of the declaration whose type parameters and member types are in scope")
	cmd.Flags().BoolVarP(&decodeLoad, "load", "l", false, "Complete the decoded declarations and print their members")

	return cmd
}

// decodeResult is one decoded signature, or the error it produced
type decodeResult struct {
	Signature   string           `json:"signature"`
	Type        string           `json:"type,omitempty"`
	Kind        string           `json:"kind,omitempty"`
	Declaration *declarationInfo `json:"declaration,omitempty"`
	Error       json.RawMessage  `json:"error,omitempty"`
}

func runDecode(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	out := cmd.OutOrStdout()
	results := make([]decodeResult, 0, len(args))
	failed := 0

	for _, sig := range args {
		r := decodeResult{Signature: sig}

		t, err := s.decode(sig, decodeScope)
		if err == nil {
			r.Type = t.String()
			r.Kind = typeKind(t)
			if decodeLoad && t.Declaration() != nil {
				var info declarationInfo
				info, err = describe(t.Declaration())
				r.Declaration = &info
			}
		}
		if err != nil {
			failed++
			r.Error = errorJSON(err)
			if outputFormat != "json" {
				fmt.Fprint(cmd.ErrOrStderr(), ui.SignatureError(err, s.suggestions(err), noColor))
			}
		}
		results = append(results, r)
	}

	if outputFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		printDecodeResults(out, results)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d signatures failed", failed, len(args))
	}
	return nil
}

func typeKind(t model.Type) string {
	switch {
	case t.IsUnion():
		return "union"
	case t.IsIntersection():
		return "intersection"
	case t.Declaration() != nil:
		return t.Declaration().Kind().String()
	}
	return ""
}

// errorJSON renders coded errors with their structured fields and anything
// else as a message
func errorJSON(err error) json.RawMessage {
	if coded, ok := errors.AsCoded(err); ok {
		if text, jerr := errors.ToJSON(coded); jerr == nil {
			return json.RawMessage(text)
		}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(map[string]string{"message": err.Error()})
	return bytes.TrimRight(buf.Bytes(), "\n")
}

func printDecodeResults(w io.Writer, results []decodeResult) {
	titleColor := color.New(color.FgCyan, color.Bold)
	if noColor {
		titleColor.DisableColor()
	}

	for i, r := range results {
		if r.Error != nil {
			continue
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		titleColor.Fprintln(w, r.Signature)

		table := ui.NewKeyValueTable(w, noColor)
		table.AddRow("type", r.Type)
		table.AddRow("kind", r.Kind)
		if d := r.Declaration; d != nil {
			addDeclarationRows(table, d)
		}
		table.Render()
	}
}

func addDeclarationRows(table *ui.KeyValueTable, d *declarationInfo) {
	table.AddRow("declaration", d.Name)
	if len(d.TypeParameters) > 0 {
		table.AddRow("type parameters", joinList(d.TypeParameters))
	}
	if d.Extends != "" {
		table.AddRow("extends", d.Extends)
	}
	if len(d.Satisfies) > 0 {
		table.AddRow("satisfies", joinList(d.Satisfies))
	}
	if d.Parameters != "" {
		table.AddRow("parameters", d.Parameters)
	}
	if len(d.Members) > 0 {
		table.AddRow("members", joinList(d.Members))
	}
}
