package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typegraph-lang/typegraph/internal/errors"
	"github.com/typegraph-lang/typegraph/internal/loader"
	"github.com/typegraph-lang/typegraph/internal/mirror"
	"github.com/typegraph-lang/typegraph/internal/mirror/artifact"
)

func meta(name, value string) artifact.Annotation {
	return artifact.Annotation{Name: name, Value: value}
}

// writeFixture saves a base and an app artifact plus a typegraph.yaml
// listing them, and returns the configuration path
func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	base := artifact.New(loader.BaseModule, "1.0")
	base.Package("lang").Classes = []*artifact.Class{
		{Name: "Object", Annotations: []artifact.Annotation{meta(mirror.Kind, mirror.KindClass)}},
		{Name: "String", Annotations: []artifact.Annotation{meta(mirror.Kind, mirror.KindClass), meta(mirror.ExtendedType, "lang::Object")}},
	}

	app := artifact.New("app", "1.0")
	app.Package("app.core").Classes = []*artifact.Class{
		{
			Name:           "Box",
			Annotations:    []artifact.Annotation{meta(mirror.Kind, mirror.KindClass), meta(mirror.ExtendedType, "lang::Object")},
			TypeParameters: []artifact.TypeParameter{{Name: "T", Variance: "out"}},
			Methods: []artifact.Method{
				{Name: "get", Annotations: []artifact.Annotation{meta(mirror.TypeInfo, "T")}},
			},
		},
		{
			Name:        "Broken",
			Annotations: []artifact.Annotation{meta(mirror.Kind, mirror.KindClass), meta(mirror.ExtendedType, "app.core::Missing")},
		},
	}
	app.Package("app.util").Classes = []*artifact.Class{
		{Name: "Helper", Annotations: []artifact.Annotation{meta(mirror.Kind, mirror.KindInterface)}},
	}

	require.NoError(t, artifact.Save(filepath.Join(dir, "base.tga"), base))
	require.NoError(t, artifact.Save(filepath.Join(dir, "app.tga"), app))

	cfg := filepath.Join(dir, "typegraph.yaml")
	content := "module: app\nartifacts:\n  - base.tga\n  - app.tga\nlog:\n  level: error\ninspect:\n  jobs: 2\n"
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0644))
	return cfg
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "typegraph", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, expected := range []string{"version", "decode", "inspect", "names"} {
		assert.Contains(t, names, expected)
	}

	for _, flag := range []string{"config", "artifact", "module", "no-color", "format"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	GitCommit = "abc123"
	defer func() { Version, GitCommit = "dev", "unknown" }()

	stdout, _, err := run(t, "version", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, stdout, "typegraph version: 1.0.0-test")
	assert.Contains(t, stdout, "Git commit: abc123")
	assert.Contains(t, stdout, "Go version: ")
}

func TestDecode(t *testing.T) {
	cfg := writeFixture(t)

	stdout, stderr, err := run(t, "--config", cfg, "--no-color", "decode", "app.core::Box<lang::String>", "lang::String|lang::Object")
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "type: app.core::Box<lang::String>")
	assert.Contains(t, stdout, "kind: class")
	assert.Contains(t, stdout, "type: lang::String|lang::Object")
	assert.Contains(t, stdout, "kind: union")
	assert.NotContains(t, stdout, "members:")
}

func TestDecode_Load(t *testing.T) {
	cfg := writeFixture(t)

	stdout, stderr, err := run(t, "--config", cfg, "--no-color", "decode", "--load", "app.core::Box<lang::String>")
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "declaration:     app.core::Box")
	assert.Contains(t, stdout, "type parameters: out T")
	assert.Contains(t, stdout, "extends:         lang::Object")
	assert.Contains(t, stdout, "members:         get")
}

func TestDecode_Scope(t *testing.T) {
	cfg := writeFixture(t)

	stdout, stderr, err := run(t, "--config", cfg, "--no-color", "decode", "--scope", "app.core::Box", "T")
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "kind: type parameter")
}

func TestDecode_JSON(t *testing.T) {
	cfg := writeFixture(t)

	stdout, _, err := run(t, "--config", cfg, "--format", "json", "decode", "app.core::Box<lang::String>", "Foo<")
	require.Error(t, err)
	assert.Equal(t, "1 of 2 signatures failed", err.Error())
	assert.Contains(t, stdout, `"type": "app.core::Box<lang::String>"`)
	assert.Contains(t, stdout, `"signature": "Foo<"`)
	assert.NotContains(t, stdout, `\u003c`)

	var results []decodeResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &results))
	require.Len(t, results, 2)

	assert.Equal(t, "app.core::Box<lang::String>", results[0].Type)
	assert.Nil(t, results[0].Error)

	var grammar errors.GrammarError
	require.NoError(t, json.Unmarshal(results[1].Error, &grammar))
	assert.Equal(t, errors.ErrExpectedToken, grammar.Code)
	assert.Equal(t, "Foo<", grammar.Signature)
}

func TestDecode_GrammarError(t *testing.T) {
	cfg := writeFixture(t)

	_, stderr, err := run(t, "--config", cfg, "--no-color", "decode", "app.core::Box<")
	require.Error(t, err)

	assert.Contains(t, stderr, "[SIG002] SIGNATURE ERROR:")
	assert.Contains(t, stderr, "   app.core::Box<\n")
	assert.Contains(t, stderr, strings.Repeat(" ", 3+len("app.core::Box<"))+"^")
}

func TestDecode_NotFoundSuggests(t *testing.T) {
	cfg := writeFixture(t)

	_, stderr, err := run(t, "--config", cfg, "--no-color", "decode", "app.core::Bx")
	require.Error(t, err)

	assert.Contains(t, stderr, "[RES001]")
	assert.Contains(t, stderr, "Could not find type 'app.core.Bx'")
	assert.Contains(t, stderr, "Did you mean: Box?")
}

func TestInspect(t *testing.T) {
	cfg := writeFixture(t)

	stdout, stderr, err := run(t, "--config", cfg, "--no-color", "inspect", "app.util")
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "app.util\n────────\n")
	assert.Contains(t, stdout, "app.util::Helper")
	assert.Contains(t, stdout, "interface")
	assert.Contains(t, stdout, "✓ 1 declarations completed")
}

func TestInspect_ReportsFailures(t *testing.T) {
	cfg := writeFixture(t)

	stdout, stderr, err := run(t, "--config", cfg, "--no-color", "inspect", "app.core", "--jobs", "4")
	require.Error(t, err)
	assert.Equal(t, "1 of 2 declarations failed to complete", err.Error())

	assert.Contains(t, stdout, "app.core::Box")
	assert.Contains(t, stdout, "out T")
	assert.Contains(t, stderr, "[CMP001] COMPLETION FAILED: Cannot complete app.core::Broken.")
	assert.Contains(t, stderr, "app.core.Missing")
	assert.Contains(t, stderr, "1 declarations failed to complete")
}

func TestInspect_JSON(t *testing.T) {
	cfg := writeFixture(t)

	stdout, _, err := run(t, "--config", cfg, "--format", "json", "inspect")
	require.Error(t, err)

	var report inspectReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, []string{"app.core", "app.util"}, report.Packages)
	assert.Len(t, report.Declarations, 2)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "app.core::Broken", report.Failures[0].Declaration)
	assert.Equal(t, 1, report.Stats.Failures)
}

func TestInspect_UnknownPackage(t *testing.T) {
	cfg := writeFixture(t)

	_, _, err := run(t, "--config", cfg, "--no-color", "inspect", "app.cor")
	require.Error(t, err)

	var rendered *renderedError
	require.True(t, errors.As(err, &rendered))
	assert.Contains(t, rendered.text, "PACKAGE NOT FOUND")
	assert.Contains(t, rendered.text, "Did you mean: app.core?")
}

func TestInspect_InvalidJobs(t *testing.T) {
	cfg := writeFixture(t)

	_, _, err := run(t, "--config", cfg, "inspect", "--jobs", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--jobs must be at least 1")
}

func TestSession_Errors(t *testing.T) {
	cfg := writeFixture(t)

	_, _, err := run(t, "--config", cfg, "--module", "ap", "decode", "lang::String")
	var rendered *renderedError
	require.True(t, errors.As(err, &rendered))
	assert.Contains(t, rendered.text, `module "ap" is not in any artifact`)
	assert.Contains(t, rendered.text, "Did you mean: app?")

	empty := filepath.Join(t.TempDir(), "typegraph.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("module: app\n"), 0644))
	_, _, err = run(t, "--config", empty, "decode", "lang::String")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no artifacts configured")

	_, _, err = run(t, "--config", empty, "--artifact", filepath.Join(t.TempDir(), "missing.tga"), "decode", "lang::String")
	require.True(t, errors.As(err, &rendered))
	assert.Contains(t, rendered.text, "ARTIFACT ERROR")
}

func TestNames(t *testing.T) {
	stdout, _, err := run(t, "--no-color", "names", "(a,b*,!c(x+))")
	require.NoError(t, err)

	assert.Equal(t, "• a\n• b  zero or more\n• c  void, callable\n  • x  one or more\n", stdout)
}

func TestNames_JSON(t *testing.T) {
	stdout, _, err := run(t, "--format", "json", "names", "(a,f(x)(y))")
	require.NoError(t, err)

	var infos []nameInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &infos))
	require.Len(t, infos, 2)
	assert.Equal(t, "a", infos[0].Name)
	require.Len(t, infos[1].Lists, 2)
	assert.Equal(t, "y", infos[1].Lists[1][0].Name)
}

func TestNames_Invalid(t *testing.T) {
	_, stderr, err := run(t, "--no-color", "names", "(a,)")
	require.Error(t, err)
	assert.Contains(t, stderr, "[SIG002]")
}
