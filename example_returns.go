// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pgfuncdoc

package pgfuncdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ExampleFormatJSON shows example returns as indented JSON.
	ExampleFormatJSON ExampleFormat = "json"
	// ExampleFormatYAML shows example returns as YAML.
	ExampleFormatYAML ExampleFormat = "yaml"
)

// ExampleFormat configures presentation of example returns blocks.
type ExampleFormat string

// exampleIndent is the indentation unit for formatted example returns.
const exampleIndent = "  "

// FormatExampleReturns re-indents JSON text with two spaces, keeping key order.
// When raw is not valid JSON, raw is returned unchanged with a decode error.
func FormatExampleReturns(raw string) (string, error) {
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(strings.TrimSpace(raw)), "", exampleIndent); err != nil {
		return raw, fmt.Errorf("%w: %w", ErrDecodeExampleReturns, err)
	}

	return strings.TrimRight(out.String(), " \t\r\n"), nil
}

// FormatExampleReturnsYAML converts JSON text to block YAML, keeping key order.
// When raw is not valid JSON, raw is returned unchanged with a decode error.
func FormatExampleReturnsYAML(raw string) (string, error) {
	trimmed := []byte(strings.TrimSpace(raw))
	if !json.Valid(trimmed) {
		// yaml would accept most plain text as a scalar, so reuse the JSON error text.
		_, err := FormatExampleReturns(raw)
		return raw, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return raw, fmt.Errorf("%w: %w", ErrDecodeExampleReturns, err)
	}

	clearYAMLStyle(&doc)

	var out bytes.Buffer
	encoder := yaml.NewEncoder(&out)
	encoder.SetIndent(len(exampleIndent))
	if err := encoder.Encode(&doc); err != nil {
		return raw, fmt.Errorf("%w: %w", ErrEncodeExampleYAML, err)
	}

	if err := encoder.Close(); err != nil {
		return raw, fmt.Errorf("%w: %w", ErrEncodeExampleYAML, err)
	}

	return strings.TrimRight(out.String(), "\n"), nil
}

// formatExample applies selected example format.
func formatExample(raw string, format ExampleFormat) (string, error) {
	switch format {
	case ExampleFormatYAML:
		return FormatExampleReturnsYAML(raw)
	default:
		return FormatExampleReturns(raw)
	}
}

// normalizeExampleFormat validates example format and falls back to JSON.
func normalizeExampleFormat(format ExampleFormat) (ExampleFormat, error) {
	switch ExampleFormat(strings.ToLower(strings.TrimSpace(string(format)))) {
	case "", ExampleFormatJSON:
		return ExampleFormatJSON, nil
	case ExampleFormatYAML, "yml":
		return ExampleFormatYAML, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownExampleFormat, format)
	}
}

// exampleLanguage returns highlighter language for example format.
func exampleLanguage(format ExampleFormat) string {
	if format == ExampleFormatYAML {
		return "yaml"
	}

	return "json"
}

// clearYAMLStyle drops flow and quoting styles inherited from JSON input.
// The encoder still quotes strings that would otherwise resolve to another type.
func clearYAMLStyle(node *yaml.Node) {
	if node == nil {
		return
	}

	node.Style = 0
	for _, child := range node.Content {
		clearYAMLStyle(child)
	}
}
