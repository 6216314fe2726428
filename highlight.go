// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pgfuncdoc

package pgfuncdoc

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// defaultStyle is the chroma style used when caller does not provide one.
const defaultStyle = "github"

// sqlLanguage is the lexer alias used for function source and example queries.
const sqlLanguage = "postgresql"

// Highlighter renders source text to class-based HTML with one chroma style.
type Highlighter struct {
	style     *chroma.Style
	styleName string
}

// NewHighlighter creates highlighter for a chroma style, falling back to the default style.
func NewHighlighter(styleName string) *Highlighter {
	name := strings.ToLower(strings.TrimSpace(styleName))
	if _, ok := styles.Registry[name]; !ok {
		name = defaultStyle
	}

	return &Highlighter{
		style:     styles.Get(name),
		styleName: name,
	}
}

// StyleName returns resolved chroma style name.
func (h *Highlighter) StyleName() string {
	return h.styleName
}

// Highlight tokenises code with the language lexer and formats it as HTML.
// Unknown languages use the plain text fallback lexer.
func (h *Highlighter) Highlight(code, language string, lineNumbers bool) (template.HTML, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}

	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrHighlight, language, err)
	}

	var out strings.Builder
	if err := h.formatter(lineNumbers).Format(&out, h.style, iterator); err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrHighlight, language, err)
	}

	//nolint:gosec // chroma escapes token text.
	return template.HTML(out.String()), nil
}

// CSS returns stylesheet for the classes emitted by Highlight.
func (h *Highlighter) CSS() (string, error) {
	var out strings.Builder
	if err := h.formatter(true).WriteCSS(&out, h.style); err != nil {
		return "", fmt.Errorf("%w: write css: %w", ErrHighlight, err)
	}

	return out.String(), nil
}

// formatter builds class-based HTML formatter.
func (h *Highlighter) formatter(lineNumbers bool) *chromahtml.Formatter {
	return chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.WithLineNumbers(lineNumbers),
		chromahtml.TabWidth(4),
	)
}

// StyleNames returns all registered chroma style names.
func StyleNames() []string {
	names := make([]string, 0, len(styles.Registry))
	for name := range styles.Registry {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}
