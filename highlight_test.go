// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pgfuncdoc

package pgfuncdoc

import (
	"strings"
	"testing"
)

func TestNewHighlighterFallsBackToDefaultStyle(t *testing.T) {
	t.Parallel()

	if got := NewHighlighter("no-such-style").StyleName(); got != defaultStyle {
		t.Fatalf("style = %q, want %q", got, defaultStyle)
	}

	if got := NewHighlighter(" Monokai ").StyleName(); got != "monokai" {
		t.Fatalf("style = %q, want monokai", got)
	}
}

func TestHighlightSQLUsesClasses(t *testing.T) {
	t.Parallel()

	out, err := NewHighlighter("").Highlight("SELECT 1;", sqlLanguage, false)
	if err != nil {
		t.Fatalf("Highlight: %v", err)
	}

	html := string(out)
	assertContains(t, html, `class="chroma"`)
	assertContains(t, html, "SELECT")
	assertNotContains(t, html, "style=")
}

func TestHighlightEscapesText(t *testing.T) {
	t.Parallel()

	out, err := NewHighlighter("").Highlight("<script>alert(1)</script>", "unknown-language", false)
	if err != nil {
		t.Fatalf("Highlight: %v", err)
	}

	assertNotContains(t, string(out), "<script>")
	assertContains(t, string(out), "&lt;script&gt;")
}

func TestHighlightLineNumbers(t *testing.T) {
	t.Parallel()

	highlighter := NewHighlighter("")
	with, err := highlighter.Highlight("SELECT 1;\nSELECT 2;", sqlLanguage, true)
	if err != nil {
		t.Fatalf("Highlight: %v", err)
	}

	without, err := highlighter.Highlight("SELECT 1;\nSELECT 2;", sqlLanguage, false)
	if err != nil {
		t.Fatalf("Highlight: %v", err)
	}

	if !strings.Contains(string(with), `class="ln"`) {
		t.Fatalf("line numbers missing: %s", with)
	}

	if strings.Contains(string(without), `class="ln"`) {
		t.Fatalf("unexpected line numbers: %s", without)
	}
}

func TestHighlighterCSS(t *testing.T) {
	t.Parallel()

	css, err := NewHighlighter("github").CSS()
	if err != nil {
		t.Fatalf("CSS: %v", err)
	}

	assertContains(t, css, ".chroma")
}

func TestStyleNamesSorted(t *testing.T) {
	t.Parallel()

	names := StyleNames()
	if len(names) == 0 {
		t.Fatal("no styles registered")
	}

	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("style names not sorted at %d: %q > %q", i, names[i-1], names[i])
		}
	}

	found := false
	for _, name := range names {
		if name == defaultStyle {
			found = true
		}
	}

	if !found {
		t.Fatalf("default style %q not registered", defaultStyle)
	}
}
