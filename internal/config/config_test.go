package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codedoc/internal/render"
)

// Test Plan for Config System:
// - Default() returns valid configuration with all expected defaults
// - Load() uses defaults when no config file exists
// - Load() loads from .codedoc/config.yml and .codedoc/config.yaml
// - Load() merges a partial config file with defaults
// - Load() reads an explicit config file and fails when it is missing
// - Environment variables override config file values
// - Environment variables override defaults, including comma-separated ignore lists
// - Flags that were set override environment and file; unset flags do not
// - Load() always reports the loader's root directory
// - Load() returns error for malformed YAML and for invalid values
// - Validate() rejects unknown style, negative concurrency, empty suffix/output, bad globs
// - Validate() returns multiple errors for multiple invalid fields
// - Conversions to walker and render options

func writeConfig(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, ConfigDir)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, "documentation.md", cfg.Output)
	assert.Equal(t, "detailed", cfg.Style)
	assert.Equal(t, ".py", cfg.Suffix)
	assert.Equal(t, 0, cfg.Concurrency)
	assert.Equal(t, render.DefaultTitle, cfg.Title)
	assert.Contains(t, cfg.Ignore, ".git/**")
	assert.Contains(t, cfg.Ignore, "__pycache__/**")

	assert.NoError(t, Validate(cfg))
}

func TestLoadConfig_UsesDefaultsWhenNoConfigFile(t *testing.T) {
	tempDir := t.TempDir()

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	expected := Default()
	assert.Equal(t, expected.Output, cfg.Output)
	assert.Equal(t, expected.Style, cfg.Style)
	assert.Equal(t, expected.Suffix, cfg.Suffix)
	assert.Equal(t, expected.Ignore, cfg.Ignore)
	assert.Equal(t, tempDir, cfg.Root)
}

func TestLoadConfig_LoadsFromConfigYml(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
output: docs/api.md
style: brief
suffix: .pyi
concurrency: 4
title: Pets API
ignore:
  - "tests/**"
  - "migrations/**"
`)

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	assert.Equal(t, "docs/api.md", cfg.Output)
	assert.Equal(t, "brief", cfg.Style)
	assert.Equal(t, ".pyi", cfg.Suffix)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, "Pets API", cfg.Title)
	assert.Equal(t, []string{"tests/**", "migrations/**"}, cfg.Ignore)
}

func TestLoadConfig_LoadsFromConfigYaml(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yaml", "style: brief\n")

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)
	assert.Equal(t, "brief", cfg.Style)
}

func TestLoadConfig_MergesConfigWithDefaults(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", "title: Only The Title\n")

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	assert.Equal(t, "Only The Title", cfg.Title)
	assert.Equal(t, "documentation.md", cfg.Output)
	assert.Equal(t, ".py", cfg.Suffix)
	assert.Equal(t, Default().Ignore, cfg.Ignore)
}

func TestLoadConfig_ExplicitConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("output: out.md\n"), 0644))

	cfg, err := NewLoader(tempDir, WithConfigFile(path)).Load()
	require.NoError(t, err)
	assert.Equal(t, "out.md", cfg.Output)

	_, err = NewLoader(tempDir, WithConfigFile(filepath.Join(tempDir, "missing.yml"))).Load()
	assert.Error(t, err)
}

func TestLoadConfig_EnvironmentVariablesOverrideConfigFile(t *testing.T) {
	// Note: Cannot use t.Parallel() with t.Setenv()
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
style: detailed
output: from-file.md
`)

	t.Setenv("CODEDOC_STYLE", "brief")
	t.Setenv("CODEDOC_OUTPUT", "from-env.md")

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	assert.Equal(t, "brief", cfg.Style)
	assert.Equal(t, "from-env.md", cfg.Output)
}

func TestLoadConfig_EnvironmentVariablesOverrideDefaults(t *testing.T) {
	// Note: Cannot use t.Parallel() with t.Setenv()
	tempDir := t.TempDir()

	t.Setenv("CODEDOC_CONCURRENCY", "3")
	t.Setenv("CODEDOC_SUFFIX", ".pyi")
	t.Setenv("CODEDOC_IGNORE", "build/**,dist/**")

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, ".pyi", cfg.Suffix)
	assert.Equal(t, []string{"build/**", "dist/**"}, cfg.Ignore)
}

func TestLoadConfig_FlagsOverrideEnvironmentAndFile(t *testing.T) {
	// Note: Cannot use t.Parallel() with t.Setenv()
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
title: From File
output: from-file.md
`)
	t.Setenv("CODEDOC_STYLE", "brief")

	fs := pflag.NewFlagSet("generate", pflag.ContinueOnError)
	fs.String("style", "detailed", "")
	fs.String("title", "", "")
	fs.String("output", "documentation.md", "")
	fs.Int("concurrency", 0, "")
	fs.Bool("watch", false, "")
	require.NoError(t, fs.Parse([]string{"--title", "From Flag", "--concurrency=2"}))

	cfg, err := NewLoader(tempDir, WithFlags(fs)).Load()
	require.NoError(t, err)

	assert.Equal(t, "From Flag", cfg.Title)
	assert.Equal(t, 2, cfg.Concurrency)
	// Unset flags leave lower-priority sources alone.
	assert.Equal(t, "brief", cfg.Style)
	assert.Equal(t, "from-file.md", cfg.Output)
}

func TestLoadConfig_ReturnsErrorForMalformedYaml(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
style: "unclosed quote
concurrency: [
`)

	cfg, err := NewLoader(tempDir).Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfig_ReturnsErrorForInvalidValues(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
style: verbose
concurrency: -2
`)

	cfg, err := NewLoader(tempDir).Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidStyle)
	assert.ErrorIs(t, err, ErrInvalidConcurrency)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestValidate_RejectsInvalidStyle(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Style = "fancy"

	err := Validate(cfg)
	assert.ErrorIs(t, err, ErrInvalidStyle)
	assert.Contains(t, err.Error(), "fancy")
}

func TestValidate_AcceptsStyleCaseInsensitively(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Style = "BRIEF"

	require.NoError(t, Validate(cfg))
	assert.Equal(t, render.Brief, cfg.RenderStyle())
}

func TestValidate_RejectsNegativeConcurrency(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Concurrency = -1

	assert.ErrorIs(t, Validate(cfg), ErrInvalidConcurrency)
}

func TestValidate_RejectsEmptySuffix(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Suffix = ""

	assert.ErrorIs(t, Validate(cfg), ErrEmptySuffix)
}

func TestValidate_RejectsEmptyOutput(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Output = ""

	assert.ErrorIs(t, Validate(cfg), ErrEmptyOutput)
}

func TestValidate_RejectsInvalidIgnorePattern(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Ignore = []string{"ok/**", "["}

	err := Validate(cfg)
	assert.ErrorIs(t, err, ErrInvalidIgnorePattern)
	assert.Contains(t, err.Error(), "ignore[1]")
}

func TestValidate_ReturnsMultipleErrors(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Style = "fancy"
	cfg.Suffix = ""
	cfg.Output = ""

	err := Validate(cfg)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errs, 3)
	assert.ErrorIs(t, err, ErrInvalidStyle)
	assert.ErrorIs(t, err, ErrEmptySuffix)
	assert.ErrorIs(t, err, ErrEmptyOutput)
	assert.Contains(t, err.Error(), "validation failed:\n  - ")
}

func TestConfig_Conversions(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Style = "brief"
	cfg.Title = "T"
	cfg.Concurrency = 2
	cfg.Ignore = []string{"x/**"}

	wopts := cfg.WalkerOptions()
	assert.Equal(t, ".py", wopts.Suffix)
	assert.Equal(t, 2, wopts.Concurrency)
	assert.Equal(t, []string{"x/**"}, wopts.Ignore)

	ropts := cfg.RenderOptions()
	assert.Equal(t, render.Brief, ropts.Style)
	assert.Equal(t, "T", ropts.Title)
}
