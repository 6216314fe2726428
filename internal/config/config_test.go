// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pgfuncdoc

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/pgfuncdoc"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(LoadOptions{Dir: t.TempDir(), Environ: []string{}})
	require.NoError(t, err)

	assert.Equal(t, "html", cfg.Format)
	assert.Equal(t, "github", cfg.Style)
	assert.Equal(t, "json", cfg.ExampleFormat)
	assert.True(t, cfg.LineNumbers)
	assert.Equal(t, pgfuncdoc.DefaultCopyResetDelay, cfg.CopyReset)
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Empty(t, cfg.File)
	assert.Empty(t, cfg.WatchedFiles())
}

func TestLoadPrecedence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), `
title: From file
style: monokai
format: markdown
copy_reset: 3s
catalog: functions.json
`)
	writeFile(t, filepath.Join(dir, EnvFileName), `
PGFUNCDOC_STYLE=dracula
PGFUNCDOC_ADDR=0.0.0.0:9000
UNRELATED=1
`)

	cfg, err := Load(LoadOptions{
		Dir:       dir,
		Environ:   []string{"PGFUNCDOC_ADDR=127.0.0.1:7000", "PGFUNCDOC_WATCH=true", "HOME=/root"},
		Overrides: map[string]any{"title": "From flag"},
	})
	require.NoError(t, err)

	assert.Equal(t, "From flag", cfg.Title)
	assert.Equal(t, "dracula", cfg.Style)
	assert.Equal(t, "127.0.0.1:7000", cfg.Addr)
	assert.Equal(t, "markdown", cfg.Format)
	assert.Equal(t, 3*time.Second, cfg.CopyReset)
	assert.True(t, cfg.Watch)
	assert.Equal(t, filepath.Join(dir, FileName), cfg.File)
	assert.Equal(t, []string{"functions.json", filepath.Join(dir, FileName)}, cfg.WatchedFiles())
}

func TestLoadAlternateFileName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileNameAlt), "example_format: yaml\n")

	cfg, err := Load(LoadOptions{Dir: dir, Environ: []string{}})
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.ExampleFormat)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	t.Parallel()

	_, err := Load(LoadOptions{File: filepath.Join(t.TempDir(), "missing.yaml"), Environ: []string{}})
	require.ErrorIs(t, err, ErrLoadConfig)
}

func TestLoadMalformedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "title: [broken\n")

	_, err := Load(LoadOptions{Dir: dir, Environ: []string{}})
	require.ErrorIs(t, err, ErrLoadConfig)
}

func TestLoadRejectsNegativeCopyReset(t *testing.T) {
	t.Parallel()

	_, err := Load(LoadOptions{
		Dir:       t.TempDir(),
		Environ:   []string{},
		Overrides: map[string]any{"copy_reset": "-1s"},
	})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRenderOptions(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Title:         "Docs",
		Format:        "markdown",
		Style:         "monokai",
		ExampleFormat: "yaml",
		LineNumbers:   false,
		CopyReset:     2 * time.Second,
	}

	opt := cfg.RenderOptions()
	assert.Equal(t, "Docs", opt.Title)
	assert.Equal(t, pgfuncdoc.FormatMarkdown, opt.Format)
	assert.Equal(t, "monokai", opt.Style)
	assert.True(t, opt.HideLineNumbers)
	assert.Equal(t, pgfuncdoc.ExampleFormatYAML, opt.ExampleFormat)
	assert.Equal(t, 2*time.Second, opt.CopyResetDelay)
}

func TestEnvKey(t *testing.T) {
	t.Parallel()

	key, ok := envKey("PGFUNCDOC_EXAMPLE_FORMAT")
	assert.True(t, ok)
	assert.Equal(t, "example_format", key)

	_, ok = envKey("PATH")
	assert.False(t, ok)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
