// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pgfuncdoc

package pgfuncdoc

import (
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestFormatExampleReturnsPretty(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		input string
		want  string
	}{
		"object": {
			input: `{"a":1}`,
			want:  "{\n  \"a\": 1\n}",
		},
		"key order": {
			input: `{"b":1,"a":[1,2]}`,
			want:  "{\n  \"b\": 1,\n  \"a\": [\n    1,\n    2\n  ]\n}",
		},
		"surrounding whitespace": {
			input: "  [true]\n",
			want:  "[\n  true\n]",
		},
		"scalar": {
			input: `"text"`,
			want:  `"text"`,
		},
		"empty object": {
			input: `{}`,
			want:  `{}`,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := FormatExampleReturns(tc.input)
			if err != nil {
				t.Fatalf("FormatExampleReturns: %v", err)
			}

			if got != tc.want {
				t.Fatalf("formatted = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFormatExampleReturnsFallsBackToRaw(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"not json", "", `{"a":1} trailing`, " Session started "} {
		got, err := FormatExampleReturns(input)
		if !errors.Is(err, ErrDecodeExampleReturns) {
			t.Fatalf("input %q: error = %v, want ErrDecodeExampleReturns", input, err)
		}

		if got != input {
			t.Fatalf("input %q: got %q, want raw input", input, got)
		}
	}
}

func TestFormatExampleReturnsYAMLKeepsOrderAndTypes(t *testing.T) {
	t.Parallel()

	got, err := FormatExampleReturnsYAML(`{"b":1,"a":"x","flag":"true"}`)
	if err != nil {
		t.Fatalf("FormatExampleReturnsYAML: %v", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal([]byte(got), &node); err != nil {
		t.Fatalf("output is not yaml: %v\n%s", err, got)
	}

	mapping := node.Content[0]
	if mapping.Kind != yaml.MappingNode {
		t.Fatalf("root kind = %v, want mapping", mapping.Kind)
	}

	keys := []string{mapping.Content[0].Value, mapping.Content[2].Value, mapping.Content[4].Value}
	if keys[0] != "b" || keys[1] != "a" || keys[2] != "flag" {
		t.Fatalf("keys = %v, want [b a flag]", keys)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}

	if decoded["flag"] != "true" {
		t.Fatalf("flag = %#v, want string \"true\"", decoded["flag"])
	}

	if decoded["b"] != 1 {
		t.Fatalf("b = %#v, want 1", decoded["b"])
	}
}

func TestFormatExampleReturnsYAMLFallsBackToRaw(t *testing.T) {
	t.Parallel()

	got, err := FormatExampleReturnsYAML("plain: yaml but not json")
	if !errors.Is(err, ErrDecodeExampleReturns) {
		t.Fatalf("error = %v, want ErrDecodeExampleReturns", err)
	}

	if got != "plain: yaml but not json" {
		t.Fatalf("got %q, want raw input", got)
	}
}

func TestNormalizeExampleFormat(t *testing.T) {
	t.Parallel()

	if got, err := normalizeExampleFormat(""); err != nil || got != ExampleFormatJSON {
		t.Fatalf("empty format = %q, %v", got, err)
	}

	if got, err := normalizeExampleFormat("YML"); err != nil || got != ExampleFormatYAML {
		t.Fatalf("yml format = %q, %v", got, err)
	}

	if _, err := normalizeExampleFormat("xml"); !errors.Is(err, ErrUnknownExampleFormat) {
		t.Fatalf("error = %v, want ErrUnknownExampleFormat", err)
	}
}
