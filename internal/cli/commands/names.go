package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/typegraph-lang/typegraph/internal/cli/ui"
	"github.com/typegraph-lang/typegraph/internal/model"
	"github.com/typegraph-lang/typegraph/internal/signature/names"
)

// NewNamesCommand creates the names command
func NewNamesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "names <signature>",
		Short: "Parse a functional parameter name signature",
		Long: `Parse the parameter names of a functional parameter, as stored for
callable parameters in compiled artifacts.

Each name may be prefixed with ! (declared void) and suffixed with + (one
or more) or * (zero or more), and may be followed by its own parameter
lists.

Examples:
  typegraph names '(element)'
  typegraph names '(a,b*,!callback(x)(y+))'`,
		Args: cobra.ExactArgs(1),
		RunE: runNames,
	}
}

// nameInfo is the JSON form of one parsed parameter
type nameInfo struct {
	Name         string       `json:"name"`
	DeclaredVoid bool         `json:"declared_void,omitempty"`
	Sequenced    bool         `json:"sequenced,omitempty"`
	AtLeastOne   bool         `json:"at_least_one,omitempty"`
	Lists        [][]nameInfo `json:"parameter_lists,omitempty"`
}

func runNames(cmd *cobra.Command, args []string) error {
	pl, err := names.Parse(args[0])
	if err != nil {
		if outputFormat == "json" {
			fmt.Fprintln(cmd.OutOrStdout(), string(errorJSON(err)))
		} else {
			fmt.Fprint(cmd.ErrOrStderr(), ui.SignatureError(err, nil, noColor))
		}
		return fmt.Errorf("invalid name signature %q", args[0])
	}

	if outputFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(toNameInfos(pl))
	}

	tree := ui.NewTree(cmd.OutOrStdout(), noColor)
	if len(pl.Parameters) == 0 {
		tree.Node(0, "()", "no parameters")
	}
	printNames(tree, pl, 0)
	return nil
}

func toNameInfos(pl *model.ParameterList) []nameInfo {
	out := make([]nameInfo, len(pl.Parameters))
	for i, p := range pl.Parameters {
		out[i] = nameInfo{
			Name:         p.Name,
			DeclaredVoid: p.DeclaredVoid,
			Sequenced:    p.Sequenced,
			AtLeastOne:   p.AtLeastOne,
		}
		for _, nested := range p.ParameterLists {
			out[i].Lists = append(out[i].Lists, toNameInfos(nested))
		}
	}
	return out
}

func printNames(tree *ui.Tree, pl *model.ParameterList, depth int) {
	for _, p := range pl.Parameters {
		var notes []string
		if p.DeclaredVoid {
			notes = append(notes, "void")
		}
		switch {
		case p.AtLeastOne:
			notes = append(notes, "one or more")
		case p.Sequenced:
			notes = append(notes, "zero or more")
		}
		switch n := len(p.ParameterLists); {
		case n == 1:
			notes = append(notes, "callable")
		case n > 1:
			notes = append(notes, fmt.Sprintf("callable, %d parameter lists", n))
		}
		tree.Node(depth, p.Name, strings.Join(notes, ", "))
		for _, nested := range p.ParameterLists {
			printNames(tree, nested, depth+1)
		}
	}
}
