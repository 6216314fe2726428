// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pgfuncdoc

package pgfuncdoc

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefaultCatalogLoads(t *testing.T) {
	t.Parallel()

	catalog := DefaultCatalog()
	if catalog.Len() == 0 {
		t.Fatal("embedded catalog is empty")
	}

	names := catalog.Names()
	if names[0] != "register_user" {
		t.Fatalf("first function = %q, want register_user", names[0])
	}

	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			t.Fatalf("duplicate function %q in embedded catalog", name)
		}

		seen[name] = struct{}{}
	}

	fn, ok := catalog.Lookup("get_card_types")
	if !ok {
		t.Fatal("get_card_types not found")
	}

	if len(fn.Parameters) != 0 {
		t.Fatalf("get_card_types parameters = %d, want 0", len(fn.Parameters))
	}
}

func TestDefaultCatalogMatchesEmbeddedJSON(t *testing.T) {
	t.Parallel()

	catalog, err := LoadCatalog(DefaultCatalogJSON(), CatalogFormatJSON)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	if !reflect.DeepEqual(catalog.Names(), DefaultCatalog().Names()) {
		t.Fatalf("names mismatch:\n%v\n%v", catalog.Names(), DefaultCatalog().Names())
	}
}

func TestLoadCatalogPreservesOrder(t *testing.T) {
	t.Parallel()

	catalog := mustCatalog(t, `[
  {"name": "zeta", "description": "z", "parameters": [], "returns": "r", "code": "c"},
  {"name": "alpha", "description": "a", "parameters": [], "returns": "r", "code": "c"},
  {"name": "mid", "description": "m", "parameters": [], "returns": "r", "code": "c"}
]`)

	got := strings.Join(catalog.Names(), ",")
	if got != "zeta,alpha,mid" {
		t.Fatalf("names = %q, want zeta,alpha,mid", got)
	}
}

func TestLoadCatalogRejectsDuplicateNames(t *testing.T) {
	t.Parallel()

	_, err := LoadCatalog([]byte(`[
  {"name": "f", "description": "", "parameters": [], "returns": "", "code": ""},
  {"name": " f ", "description": "", "parameters": [], "returns": "", "code": ""}
]`), CatalogFormatJSON)
	if !errors.Is(err, ErrDuplicateFunctionName) {
		t.Fatalf("error = %v, want ErrDuplicateFunctionName", err)
	}
}

func TestLoadCatalogRejectsEmptyName(t *testing.T) {
	t.Parallel()

	_, err := LoadCatalog([]byte(`[{"name": "  ", "parameters": [], "code": ""}]`), CatalogFormatJSON)
	if !errors.Is(err, ErrEmptyFunctionName) {
		t.Fatalf("error = %v, want ErrEmptyFunctionName", err)
	}
}

func TestLoadCatalogRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"syntax":        `[{"name": "f",}]`,
		"unknown field": `[{"name": "f", "retuns": "typo"}]`,
		"not array":     `{"name": "f"}`,
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadCatalog([]byte(input), CatalogFormatJSON)
			if !errors.Is(err, ErrDecodeCatalog) {
				t.Fatalf("error = %v, want ErrDecodeCatalog", err)
			}
		})
	}
}

func TestLoadCatalogUnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := LoadCatalog([]byte(`[]`), CatalogFormat("toml"))
	if !errors.Is(err, ErrUnknownCatalogFormat) {
		t.Fatalf("error = %v, want ErrUnknownCatalogFormat", err)
	}
}

func TestLoadCatalogYAMLMatchesJSON(t *testing.T) {
	t.Parallel()

	fromJSON := mustCatalog(t, `[
  {
    "name": "login_user",
    "description": "Logs in.",
    "parameters": [{"name": "p_login", "type": "TEXT", "description": "Login."}],
    "returns": "Token.",
    "usage": "SELECT login_user('a', 'b');",
    "exampleReturns": "{\"token\":\"x\"}",
    "code": "SELECT 1;"
  }
]`)

	fromYAML, err := LoadCatalog([]byte(`
- name: login_user
  description: Logs in.
  parameters:
    - name: p_login
      type: TEXT
      description: Login.
  returns: Token.
  usage: SELECT login_user('a', 'b');
  exampleReturns: '{"token":"x"}'
  code: SELECT 1;
`), CatalogFormatYAML)
	if err != nil {
		t.Fatalf("LoadCatalog yaml: %v", err)
	}

	if !reflect.DeepEqual(fromJSON.Functions(), fromYAML.Functions()) {
		t.Fatalf("yaml catalog differs\njson: %#v\nyaml: %#v", fromJSON.Functions(), fromYAML.Functions())
	}
}

func TestLoadCatalogFileSelectsDecoderByExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "functions.yml")
	content := "- name: f\n  description: d\n  parameters: []\n  returns: r\n  code: c\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	catalog, err := LoadCatalogFile(path)
	if err != nil {
		t.Fatalf("LoadCatalogFile: %v", err)
	}

	if catalog.Len() != 1 {
		t.Fatalf("catalog len = %d, want 1", catalog.Len())
	}
}

func TestLoadCatalogFileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadCatalogFile(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, ErrReadCatalogFile) {
		t.Fatalf("error = %v, want ErrReadCatalogFile", err)
	}
}

func TestCatalogFunctionsReturnsCopy(t *testing.T) {
	t.Parallel()

	catalog := mustCatalog(t, `[{"name": "f", "description": "d", "parameters": [], "returns": "r", "code": "c"}]`)
	functions := catalog.Functions()
	functions[0].Name = "mutated"

	if _, ok := catalog.Lookup("f"); !ok {
		t.Fatal("catalog mutated through Functions result")
	}

	if catalog.Names()[0] != "f" {
		t.Fatalf("name = %q, want f", catalog.Names()[0])
	}
}

func TestCatalogCheckReportsRawExampleReturns(t *testing.T) {
	t.Parallel()

	catalog := mustCatalog(t, `[
  {"name": "ok", "description": "d", "parameters": [], "returns": "r", "exampleReturns": "[1]", "code": "c"},
  {"name": "raw", "description": "d", "parameters": [], "returns": "r", "exampleReturns": "not json", "code": "c"}
]`)

	diagnostics := catalog.Check()
	if len(diagnostics) != 1 {
		t.Fatalf("diagnostics = %v, want one entry", diagnostics)
	}

	if diagnostics[0].Function != "raw" {
		t.Fatalf("diagnostic function = %q, want raw", diagnostics[0].Function)
	}
}

// mustCatalog decodes JSON catalog fixture and fails test on error.
func mustCatalog(t *testing.T, data string) *Catalog {
	t.Helper()

	catalog, err := LoadCatalog([]byte(data), CatalogFormatJSON)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	return catalog
}
