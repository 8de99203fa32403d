package commands

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/typegraph-lang/typegraph/internal/errors"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "typegraph",
		Short: "Decode type signatures against compiled artifacts",
		Long: color.CyanString(`typegraph - lazy type graph for compiled artifacts

typegraph reads compiled artifacts, decodes the type signatures they store
and builds the declaration graph they describe. Declarations are loaded
lazily: a name is only completed once something asks for its details.

Features:
  • Signature grammar with unions, intersections and use-site variance
  • Lazy, thread-safe declaration loading with cycle support
  • Structured errors with codes and caret excerpts
  • Parallel inspection of whole packages`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addSessionFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewDecodeCommand())
	rootCmd.AddCommand(NewInspectCommand())
	rootCmd.AddCommand(NewNamesCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the typegraph version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			// Set GoVersion to actual runtime if not set at build time
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			titleColor := color.New(color.FgCyan, color.Bold)
			valueColor := color.New(color.FgWhite)
			if noColor {
				titleColor.DisableColor()
				valueColor.DisableColor()
			}

			out := cmd.OutOrStdout()
			titleColor.Fprint(out, "typegraph version: ")
			valueColor.Fprintln(out, Version)

			titleColor.Fprint(out, "Git commit: ")
			valueColor.Fprintln(out, GitCommit)

			titleColor.Fprint(out, "Build date: ")
			valueColor.Fprintln(out, BuildDate)

			titleColor.Fprint(out, "Go version: ")
			valueColor.Fprintln(out, goVer)
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		var rendered *renderedError
		if errors.As(err, &rendered) {
			fmt.Fprint(rootCmd.ErrOrStderr(), rendered.text)
			return err
		}
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
