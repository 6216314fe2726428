// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pgfuncdoc

package pgfuncdoc

import (
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"unicode"
)

// templateFS stores built-in page templates embedded into the package.
//
//go:embed templates/*.gotmpl
var templateFS embed.FS

// assetFS stores stylesheet and script inlined into the html page.
//
//go:embed assets/page.css assets/page.js
var assetFS embed.FS

// builtInTemplateFiles maps template aliases to embedded file paths.
var builtInTemplateFiles = map[string]string{
	string(FormatHTML):     "templates/page.html.gotmpl",
	string(FormatMarkdown): "templates/page.md.gotmpl",
}

// resolveHTMLTemplate resolves either custom or built-in html template.
func resolveHTMLTemplate(opt Options) (*htmltemplate.Template, error) {
	name, text, err := templateSource(opt, FormatHTML)
	if err != nil {
		return nil, err
	}

	parsed, err := htmltemplate.New(name).Funcs(htmltemplate.FuncMap(templateFuncs())).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrParseTemplate, name, err)
	}

	return parsed, nil
}

// resolveMarkdownTemplate resolves either custom or built-in markdown template.
func resolveMarkdownTemplate(opt Options) (*texttemplate.Template, error) {
	name, text, err := templateSource(opt, FormatMarkdown)
	if err != nil {
		return nil, err
	}

	parsed, err := texttemplate.New(name).Funcs(texttemplate.FuncMap(templateFuncs())).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrParseTemplate, name, err)
	}

	return parsed, nil
}

// templateSource returns template name and text for the selected format.
func templateSource(opt Options, format Format) (string, string, error) {
	if text := strings.TrimSpace(opt.TemplateText); text != "" {
		return "custom", text, nil
	}

	text, err := BuiltinTemplate(string(format))
	if err != nil {
		return "", "", err
	}

	return string(format), text, nil
}

// readAsset returns one embedded page asset.
func readAsset(name string) (string, error) {
	data, err := assetFS.ReadFile("assets/" + name)
	if err != nil {
		return "", fmt.Errorf("%w: asset %q: %w", ErrReadBuiltinTemplate, name, err)
	}

	return string(data), nil
}

// normalizeTemplateName normalizes built-in template identifiers.
func normalizeTemplateName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "md" {
		return string(FormatMarkdown)
	}

	return name
}

// templateFuncs provides utility functions available inside page templates.
func templateFuncs() map[string]any {
	return map[string]any{
		"headingAnchor": markdownHeadingAnchor,
		"inlineCode":    inlineCode,
		"codeFence":     codeFence,
		"listMarker":    func() string { return defaultListMarker },
	}
}

// markdownHeadingAnchor converts heading text into a markdown anchor slug.
func markdownHeadingAnchor(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return ""
	}

	var out strings.Builder
	out.Grow(len(trimmed))

	lastDash := false
	for _, r := range trimmed {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			out.WriteRune(r)
			lastDash = false
		case unicode.IsSpace(r), r == '-':
			if lastDash || out.Len() == 0 {
				continue
			}

			out.WriteByte('-')
			lastDash = true
		}
	}

	return strings.Trim(out.String(), "-")
}
