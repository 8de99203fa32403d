package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/typegraph-lang/typegraph/internal/cli/config"
	"github.com/typegraph-lang/typegraph/internal/cli/ui"
	"github.com/typegraph-lang/typegraph/internal/errors"
	"github.com/typegraph-lang/typegraph/internal/loader"
	"github.com/typegraph-lang/typegraph/internal/mirror/artifact"
	"github.com/typegraph-lang/typegraph/internal/model"
	"github.com/typegraph-lang/typegraph/internal/signature/parser"
)

var (
	// Global flags shared by every command that loads artifacts
	configPath    string
	artifactPaths []string
	moduleName    string
	noColor       bool
	outputFormat  string
)

func addSessionFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to typegraph.yaml (default: nearest one)")
	flags.StringSliceVarP(&artifactPaths, "artifact", "a", nil, "Artifact file to load (repeatable, added to the configured ones)")
	flags.StringVarP(&moduleName, "module", "m", "", "Module to decode signatures against (default: configured module)")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&outputFormat, "format", "text", "Output format: text or json")
}

// session is a loader with every configured artifact registered
type session struct {
	cfg     *config.Config
	log     *zap.Logger
	repo    *artifact.Repository
	loader  *loader.Loader
	modules map[string]*model.Module

	// module is the one signatures are decoded against
	module *model.Module
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

// openSession loads the configuration and artifacts and registers every
// artifact module with a new loader. The base module, when present, is
// imported by all others; the others import each other.
func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, &renderedError{err: err, text: ui.ConfigError(err.Error(), nil, noColor)}
	}
	cfg.Artifacts = append(cfg.Artifacts, artifactPaths...)
	if moduleName != "" {
		cfg.Module = moduleName
	}
	if len(cfg.Artifacts) == 0 {
		err := fmt.Errorf("no artifacts configured")
		return nil, &renderedError{err: err, text: ui.ConfigError(err.Error()+": add them to typegraph.yaml or pass --artifact", nil, noColor)}
	}

	repo := artifact.NewRepository()
	for _, path := range cfg.Artifacts {
		a, err := artifact.Open(path)
		if err == nil {
			err = repo.Add(a)
		}
		if err != nil {
			return nil, &renderedError{err: err, text: ui.ArtifactError(path, err, noColor)}
		}
	}

	log := config.NewLogger(cfg.Log)
	l := loader.New(repo, loader.Options{
		Logger:           log,
		HiddenTypes:      cfg.HiddenTypes,
		LoadedFromSource: cfg.LoadedFromSource,
	})
	s := &session{cfg: cfg, log: log, repo: repo, loader: l, modules: make(map[string]*model.Module)}

	artifacts := repo.Modules()
	sort.SliceStable(artifacts, func(i, j int) bool {
		return artifacts[i].Module == loader.BaseModule && artifacts[j].Module != loader.BaseModule
	})
	var base *model.Module
	var registered []*model.Module
	for _, a := range artifacts {
		pkgs := make([]string, len(a.Packages))
		for i, p := range a.Packages {
			pkgs[i] = loader.UnquoteKeywords(p.Name)
		}
		var imports []*model.Module
		if base != nil {
			imports = append(imports, base)
		}
		m := l.AddModule(a.Module, a.Version, pkgs, imports...)
		if a.Module == loader.BaseModule {
			base = m
			continue
		}
		registered = append(registered, m)
		s.modules[a.Module] = m
	}
	if base != nil {
		s.modules[base.Name()] = base
	}
	for _, m := range registered {
		for _, other := range registered {
			if other != m {
				m.AddImport(other)
			}
		}
	}

	switch {
	case cfg.Module != "":
		s.module = s.modules[cfg.Module]
		if s.module == nil {
			err := fmt.Errorf("module %q is not in any artifact", cfg.Module)
			return nil, &renderedError{err: err, text: ui.ConfigError(err.Error(), ui.Suggest(cfg.Module, s.moduleNames()), noColor)}
		}
	case len(registered) > 0:
		s.module = registered[0]
	default:
		s.module = base
	}

	log.Debug("session opened",
		zap.Stringer("session", l.Session()),
		zap.Int("modules", len(s.modules)),
		zap.String("module", s.module.Key()))
	return s, nil
}

func (s *session) close() {
	_ = s.log.Sync()
}

func (s *session) moduleNames() []string {
	names := make([]string, 0, len(s.modules))
	for name := range s.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// decode decodes signature against the session module. A non-empty
// scopeSignature is decoded first and its declaration used as the scope.
func (s *session) decode(signature, scopeSignature string) (model.Type, error) {
	p := parser.New(s.loader)

	var scope model.Scope
	if scopeSignature != "" {
		t, err := p.DecodeType(scopeSignature, nil, s.module, nil)
		if err != nil {
			return nil, fmt.Errorf("scope: %w", err)
		}
		if t.Declaration() == nil {
			return nil, fmt.Errorf("scope %s is not a declaration", t)
		}
		scope = t.Declaration()
	}
	return p.DecodeType(signature, scope, s.module, nil)
}

// suggestions proposes declaration names for a failed resolution, taken
// from the package the missing name was looked up in
func (s *session) suggestions(err error) []string {
	var rerr *errors.ResolutionError
	if !errors.As(err, &rerr) || rerr.Name == "" {
		return nil
	}

	if rerr.Qualifier != "" {
		return s.memberSuggestions(rerr)
	}
	name := rerr.Name
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return nil
	}
	pkgName, simple := name[:i], name[i+1:]

	pkg := s.module.Package(pkgName)
	if pkg == nil {
		return nil
	}
	if _, err := s.loader.LoadPackage(pkg.Module(), pkg.Name(), true); err != nil {
		return nil
	}
	var candidates []string
	for _, d := range pkg.Members() {
		candidates = append(candidates, d.Name())
	}
	return ui.Suggest(simple, candidates)
}

// memberSuggestions proposes member names of the qualifying declaration
func (s *session) memberSuggestions(rerr *errors.ResolutionError) []string {
	t, err := s.decode(rerr.Qualifier, "")
	if err != nil || t.Declaration() == nil {
		return nil
	}
	info, err := describe(t.Declaration())
	if err != nil {
		return nil
	}
	return ui.Suggest(rerr.Name, info.Members)
}

// renderedError is an error that already has its terminal rendering
type renderedError struct {
	err  error
	text string
}

func (e *renderedError) Error() string { return e.err.Error() }

func (e *renderedError) Unwrap() error { return e.err }
