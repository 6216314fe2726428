// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pgfuncdoc

package pgfuncdoc

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// defaultContentYAML holds static page blocks bundled with the page.
//
//go:embed data/content.yaml
var defaultContentYAML []byte

// markdownRenderer converts content markdown blocks; raw HTML is not passed through.
var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Content holds static text blocks rendered around the function sections.
type Content struct {
	Title          string            `yaml:"title"`
	FunctionsTitle string            `yaml:"functions_title"`
	Rules          RulesBlock        `yaml:"rules"`
	Connection     ConnectionBlock   `yaml:"connection"`
	Examples       ExampleQueryBlock `yaml:"examples"`
}

// RulesBlock is the rules summary section.
type RulesBlock struct {
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
	// Markdown renders Text through markdown instead of keeping line breaks verbatim.
	Markdown bool `yaml:"markdown"`
}

// ConnectionBlock is the database connection instructions section.
type ConnectionBlock struct {
	Title  string            `yaml:"title"`
	Intro  string            `yaml:"intro"`
	Fields []ConnectionField `yaml:"fields"`
}

// ConnectionField is one label/value line of connection instructions.
type ConnectionField struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

// ExampleQueryBlock is the copyable example queries section.
type ExampleQueryBlock struct {
	Title   string `yaml:"title"`
	Queries string `yaml:"queries"`
}

// CopyText returns the exact text placed on the clipboard by the copy action.
func (b ExampleQueryBlock) CopyText() string {
	return strings.TrimSpace(b.Queries)
}

// DefaultContent returns the bundled static blocks.
func DefaultContent() Content {
	var content Content
	if err := yaml.Unmarshal(defaultContentYAML, &content); err != nil {
		panic(fmt.Sprintf("embedded content: %v", err))
	}

	return content
}

// LoadContentFile reads YAML content and overlays it on the bundled defaults.
// Keys missing from the file keep their default values.
func LoadContentFile(path string) (Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Content{}, fmt.Errorf("%w: %w", ErrReadContentFile, err)
	}

	return LoadContent(data)
}

// LoadContent decodes YAML content over the bundled defaults.
func LoadContent(data []byte) (Content, error) {
	content := DefaultContent()
	if len(bytes.TrimSpace(data)) == 0 {
		return content, nil
	}

	if err := yaml.Unmarshal(data, &content); err != nil {
		return Content{}, fmt.Errorf("%w: %w", ErrDecodeContent, err)
	}

	return content, nil
}

// markdownToHTML converts one content block to HTML.
func markdownToHTML(text string) (template.HTML, error) {
	var out bytes.Buffer
	if err := markdownRenderer.Convert([]byte(strings.TrimSpace(text)), &out); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRenderMarkdown, err)
	}

	//nolint:gosec // goldmark output with unsafe rendering disabled.
	return template.HTML(out.String()), nil
}
