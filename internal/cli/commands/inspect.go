package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/typegraph-lang/typegraph/internal/cli/ui"
	"github.com/typegraph-lang/typegraph/internal/loader"
	"github.com/typegraph-lang/typegraph/internal/model"
)

var inspectJobs int

// NewInspectCommand creates the inspect command
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [package...]",
		Short: "Load and complete every declaration of packages",
		Long: `Enumerate packages and complete each of their declarations.

Completion runs on --jobs goroutines at once. All of them share the
loader, so this doubles as a check that every signature stored in the
artifacts decodes. Without arguments every package of the configured
module is inspected.

Examples:
  typegraph inspect app.core
  typegraph inspect app.core app.util --jobs 16
  typegraph inspect --format json`,
		RunE: runInspect,
	}

	cmd.Flags().IntVarP(&inspectJobs, "jobs", "j", 0, "Declarations completed concurrently (default: inspect.jobs from config)")

	return cmd
}

// inspectFailure is a declaration that could not be completed
type inspectFailure struct {
	Declaration string          `json:"declaration"`
	Error       json.RawMessage `json:"error"`
	err         error
}

// inspectReport is the JSON document printed by inspect --format json
type inspectReport struct {
	Packages     []string          `json:"packages"`
	Declarations []declarationInfo `json:"declarations"`
	Failures     []inspectFailure  `json:"failures,omitempty"`
	Stats        loader.Stats      `json:"stats"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	jobs := s.cfg.Inspect.Jobs
	if cmd.Flags().Changed("jobs") {
		jobs = inspectJobs
	}
	if jobs < 1 {
		return fmt.Errorf("--jobs must be at least 1, got %d", jobs)
	}

	pkgs, err := s.packages(args)
	if err != nil {
		return err
	}

	var decls []model.Declaration
	report := inspectReport{}
	for _, pkg := range pkgs {
		if _, err := s.loader.LoadPackage(pkg.Module(), pkg.Name(), true); err != nil {
			return fmt.Errorf("failed to enumerate %s: %w", pkg.Name(), err)
		}
		report.Packages = append(report.Packages, pkg.Name())
		decls = append(decls, pkg.Members()...)
	}

	start := time.Now()
	infos := make([]declarationInfo, len(decls))
	errs := make([]error, len(decls))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(jobs)
	for i, d := range decls {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			infos[i], errs[i] = describe(d)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, err := range errs {
		if err != nil {
			report.Failures = append(report.Failures, inspectFailure{
				Declaration: decls[i].QualifiedName(),
				Error:       errorJSON(err),
				err:         err,
			})
			continue
		}
		report.Declarations = append(report.Declarations, infos[i])
	}
	report.Stats = s.loader.Stats()
	s.log.Info("inspect finished",
		zap.Int("declarations", len(decls)),
		zap.Int("failures", len(report.Failures)),
		zap.Int("jobs", jobs),
		zap.Duration("elapsed", time.Since(start)))

	if outputFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printInspectReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), report)
	}

	if len(report.Failures) > 0 {
		return fmt.Errorf("%d of %d declarations failed to complete", len(report.Failures), len(decls))
	}
	return nil
}

// packages resolves package names against the session module, or returns
// every package of the module when names is empty
func (s *session) packages(names []string) ([]*model.Package, error) {
	if len(names) == 0 {
		pkgs := s.module.Packages()
		sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].Name() < pkgs[j].Name() })
		return pkgs, nil
	}

	var known []string
	for _, m := range append([]*model.Module{s.module}, s.module.Imports()...) {
		for _, p := range m.Packages() {
			known = append(known, p.Name())
		}
	}

	pkgs := make([]*model.Package, 0, len(names))
	for _, name := range names {
		pkg := s.module.Package(name)
		if pkg == nil {
			err := fmt.Errorf("package %q is not visible from module %s", name, s.module.Key())
			return nil, &renderedError{err: err, text: ui.FormatError(ui.ErrorOptions{
				Level:        ui.ErrorLevelError,
				Context:      "package not found",
				Problem:      err.Error(),
				Suggestions:  ui.Suggest(name, known),
				HelpCommands: []string{"Inspect every package: typegraph inspect"},
				NoColor:      noColor,
			})}
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs, nil
}

func printInspectReport(out, errOut io.Writer, report inspectReport) {
	ui.Header(out, strings.Join(report.Packages, ", "), noColor)

	table := ui.NewTable(out, noColor, "NAME", "KIND", "TYPE PARAMETERS", "SUPERTYPES", "TYPE", "MEMBERS")
	for _, d := range report.Declarations {
		supertypes := d.Satisfies
		if d.Extends != "" {
			supertypes = append([]string{d.Extends}, supertypes...)
		}
		members := ""
		if len(d.Members) > 0 {
			members = fmt.Sprint(len(d.Members))
		}
		table.AddRow(d.Name, d.Kind, joinList(d.TypeParameters), joinList(supertypes), d.Type+d.Parameters, members)
	}
	table.SortBy(0)
	table.Render()
	fmt.Fprintln(out)

	for _, f := range report.Failures {
		fmt.Fprint(errOut, ui.SignatureError(f.err, nil, noColor))
	}

	ui.WriteSuccess(out, fmt.Sprintf("%d declarations completed in %s (%d completions, %d packages)",
		len(report.Declarations),
		report.Stats.CompletionDuration.Round(time.Microsecond),
		report.Stats.Completions,
		report.Stats.PackagesLoaded), noColor)
	if len(report.Failures) > 0 {
		fmt.Fprint(errOut, ui.Warning(fmt.Sprintf("%d declarations failed to complete", len(report.Failures)), nil, noColor))
	}
}
