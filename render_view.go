// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pgfuncdoc

package pgfuncdoc

import (
	"context"
	"html/template"
	"strings"

	"cdr.dev/slog"
)

// Static section anchors rendered before function sections.
const (
	anchorRules      = "rules"
	anchorConnection = "connection"
	anchorExample    = "example"
)

// pageView is the root view model passed to page templates.
type pageView struct {
	Title          string
	FunctionsTitle string
	StaticLinks    []navLink
	Rules          rulesView
	Connection     connectionView
	Examples       examplesView
	Functions      []sectionView
	CSS            template.CSS
	Script         template.JS
	CopyResetMS    int64
	LiveReloadPath string
	StyleName      string
}

// navLink is one sidebar entry.
type navLink struct {
	Anchor string
	Label  string
}

// rulesView is the rendered rules block.
type rulesView struct {
	Anchor   string
	Title    string
	Text     string
	HTML     template.HTML
	Markdown bool
}

// connectionView is the rendered connection block.
type connectionView struct {
	Anchor    string
	Title     string
	Intro     string
	IntroHTML template.HTML
	Fields    []ConnectionField
}

// examplesView is the rendered example queries block.
type examplesView struct {
	Anchor string
	Title  string
	Text   string
	HTML   template.HTML
}

// sectionView represents one function section.
type sectionView struct {
	Name               string
	Anchor             string
	Description        string
	Parameters         []Parameter
	HasParameters      bool
	Returns            string
	Usage              string
	HasUsage           bool
	ExampleReturns     string
	ExampleReturnsHTML template.HTML
	ExampleLanguage    string
	HasExampleReturns  bool
	Code               string
	CodeHTML           template.HTML
}

// buildPageView prepares data for page template rendering.
func buildPageView(ctx context.Context, catalog *Catalog, opt Options, format Format) (pageView, error) {
	exampleFormat, err := normalizeExampleFormat(opt.ExampleFormat)
	if err != nil {
		return pageView{}, err
	}

	content := DefaultContent()
	if opt.Content != nil {
		content = *opt.Content
	}

	title := sanitizeText(opt.Title)
	if title == "" {
		title = sanitizeText(content.Title)
	}

	delay := opt.CopyResetDelay
	if delay <= 0 {
		delay = DefaultCopyResetDelay
	}

	view := pageView{
		Title:          title,
		FunctionsTitle: sanitizeText(content.FunctionsTitle),
		StaticLinks: []navLink{
			{Anchor: anchorRules, Label: "Rules"},
			{Anchor: anchorConnection, Label: sanitizeText(content.Connection.Title)},
			{Anchor: anchorExample, Label: sanitizeText(content.Examples.Title)},
		},
		Rules: rulesView{
			Anchor:   anchorRules,
			Title:    sanitizeText(content.Rules.Title),
			Text:     strings.TrimSpace(normalizeLineEndings(content.Rules.Text)),
			Markdown: content.Rules.Markdown,
		},
		Connection: connectionView{
			Anchor: anchorConnection,
			Title:  sanitizeText(content.Connection.Title),
			Intro:  strings.TrimSpace(content.Connection.Intro),
			Fields: content.Connection.Fields,
		},
		Examples: examplesView{
			Anchor: anchorExample,
			Title:  sanitizeText(content.Examples.Title),
			Text:   content.Examples.CopyText(),
		},
		Functions:      make([]sectionView, 0, catalog.Len()),
		CopyResetMS:    delay.Milliseconds(),
		LiveReloadPath: strings.TrimSpace(opt.LiveReloadPath),
	}

	for _, fn := range catalog.Functions() {
		view.Functions = append(view.Functions, buildSectionView(ctx, fn, exampleFormat, opt.Logger))
	}

	if format != FormatHTML {
		return view, nil
	}

	if err := decorateHTMLView(&view, opt); err != nil {
		return pageView{}, err
	}

	return view, nil
}

// buildSectionView converts one catalog record; example returns failures are logged, never returned.
func buildSectionView(ctx context.Context, fn FunctionDoc, exampleFormat ExampleFormat, logger slog.Logger) sectionView {
	section := sectionView{
		Name:          fn.Name,
		Anchor:        fn.Name,
		Description:   strings.TrimSpace(fn.Description),
		Parameters:    fn.Parameters,
		HasParameters: len(fn.Parameters) > 0,
		Returns:       strings.TrimSpace(fn.Returns),
		HasUsage:      fn.HasUsage(),
		Code:          strings.Trim(normalizeLineEndings(fn.Code), "\n"),
	}

	if section.HasUsage {
		section.Usage = strings.TrimSpace(fn.Usage)
	}

	if fn.HasExampleReturns() {
		formatted, err := formatExample(fn.ExampleReturns, exampleFormat)
		if err != nil {
			logger.Warn(ctx, "example returns shown as raw text",
				slog.F("function", fn.Name),
				slog.Error(err),
			)
		}

		section.HasExampleReturns = true
		section.ExampleReturns = formatted
		section.ExampleLanguage = exampleLanguage(exampleFormat)
		if err != nil {
			section.ExampleLanguage = "text"
		}
	}

	return section
}

// decorateHTMLView adds highlighted blocks, markdown blocks and inline assets.
func decorateHTMLView(view *pageView, opt Options) error {
	highlighter := NewHighlighter(opt.Style)
	view.StyleName = highlighter.StyleName()

	var err error
	view.Examples.HTML, err = highlighter.Highlight(view.Examples.Text, sqlLanguage, !opt.HideLineNumbers)
	if err != nil {
		return err
	}

	if view.Rules.Markdown {
		view.Rules.HTML, err = markdownToHTML(view.Rules.Text)
		if err != nil {
			return err
		}
	}

	if view.Connection.Intro != "" {
		view.Connection.IntroHTML, err = markdownToHTML(view.Connection.Intro)
		if err != nil {
			return err
		}
	}

	for i := range view.Functions {
		section := &view.Functions[i]

		section.CodeHTML, err = highlighter.Highlight(section.Code, sqlLanguage, false)
		if err != nil {
			return err
		}

		if section.HasExampleReturns {
			section.ExampleReturnsHTML, err = highlighter.Highlight(section.ExampleReturns, section.ExampleLanguage, false)
			if err != nil {
				return err
			}
		}
	}

	highlightCSS, err := highlighter.CSS()
	if err != nil {
		return err
	}

	pageCSS, err := readAsset("page.css")
	if err != nil {
		return err
	}

	pageJS, err := readAsset("page.js")
	if err != nil {
		return err
	}

	//nolint:gosec // embedded stylesheet and chroma output.
	view.CSS = template.CSS(pageCSS + "\n" + highlightCSS)
	//nolint:gosec // embedded script.
	view.Script = template.JS(pageJS)
	return nil
}
