// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pgfuncdoc

package pgfuncdoc

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"cdr.dev/slog"
)

const (
	// FormatHTML renders a self-contained HTML page.
	FormatHTML Format = "html"
	// FormatMarkdown renders a CommonMark document.
	FormatMarkdown Format = "markdown"
)

// Format selects output document type.
type Format string

const (
	// DefaultCopyResetDelay is how long the copy confirmation stays visible.
	DefaultCopyResetDelay = 1500 * time.Millisecond
	// defaultListMarker is used for markdown list items.
	defaultListMarker = "-"
)

// Options configures page rendering.
type Options struct {
	// Title overrides the page title from content.
	Title string
	// Format selects html or markdown output; html when empty.
	Format Format
	// TemplateText replaces the built-in template for the selected format.
	TemplateText string
	// Style is a chroma style name for highlighted blocks.
	Style string
	// HideLineNumbers disables line numbers in the example queries block.
	HideLineNumbers bool
	// ExampleFormat selects json or yaml presentation of example returns.
	ExampleFormat ExampleFormat
	// CopyResetDelay is how long "Copied!" stays visible; DefaultCopyResetDelay when zero.
	CopyResetDelay time.Duration
	// Content overrides bundled static blocks.
	Content *Content
	// LiveReloadPath enables page reload on server-sent "reload" events from this path.
	LiveReloadPath string
	// Logger receives diagnostics such as example returns fallbacks.
	Logger slog.Logger
}

// RenderFile reads catalog from file and renders the page.
func RenderFile(path string, opt Options) (string, error) {
	catalog, err := LoadCatalogFile(path)
	if err != nil {
		return "", err
	}

	return Render(catalog, opt)
}

// Render renders the page for catalog.
func Render(catalog *Catalog, opt Options) (string, error) {
	return RenderContext(context.Background(), catalog, opt)
}

// RenderContext renders the page for catalog, logging diagnostics with ctx.
func RenderContext(ctx context.Context, catalog *Catalog, opt Options) (string, error) {
	format, err := normalizeFormat(opt.Format)
	if err != nil {
		return "", err
	}

	view, err := buildPageView(ctx, catalog, opt, format)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	switch format {
	case FormatMarkdown:
		tpl, err := resolveMarkdownTemplate(opt)
		if err != nil {
			return "", err
		}

		if err := tpl.Execute(&out, view); err != nil {
			return "", fmt.Errorf("%w: %w", ErrExecuteTemplate, err)
		}

		return ensureTrailingNewline(normalizeMarkdownOutput(out.String())), nil

	default:
		tpl, err := resolveHTMLTemplate(opt)
		if err != nil {
			return "", err
		}

		if err := tpl.Execute(&out, view); err != nil {
			return "", fmt.Errorf("%w: %w", ErrExecuteTemplate, err)
		}

		return ensureTrailingNewline(out.String()), nil
	}
}

// Formats returns supported output formats.
func Formats() []Format {
	return []Format{FormatHTML, FormatMarkdown}
}

// normalizeFormat validates output format and falls back to html.
func normalizeFormat(format Format) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(string(format)))) {
	case "", FormatHTML:
		return FormatHTML, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// BuiltinTemplateNames returns all available built-in template names.
func BuiltinTemplateNames() []string {
	names := make([]string, 0, len(builtInTemplateFiles))
	for name := range builtInTemplateFiles {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// BuiltinTemplate returns one built-in template by name.
func BuiltinTemplate(name string) (string, error) {
	name = normalizeTemplateName(name)
	path, ok := builtInTemplateFiles[name]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownBuiltinTemplate, name)
	}

	data, err := templateFS.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadBuiltinTemplate, err)
	}

	return string(data), nil
}
