// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pgfuncdoc

package pgfuncdoc

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	// CatalogFormatJSON decodes catalog as JSON array.
	CatalogFormatJSON CatalogFormat = "json"
	// CatalogFormatYAML decodes catalog as YAML sequence.
	CatalogFormatYAML CatalogFormat = "yaml"
)

// CatalogFormat selects catalog file decoder.
type CatalogFormat string

// defaultCatalogJSON is the function catalog bundled with the page.
//
//go:embed data/functions.json
var defaultCatalogJSON []byte

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *Catalog
)

// Parameter documents one function argument.
type Parameter struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
}

// FunctionDoc documents one stored function.
type FunctionDoc struct {
	Name           string      `json:"name" yaml:"name"`
	Description    string      `json:"description" yaml:"description"`
	Parameters     []Parameter `json:"parameters" yaml:"parameters"`
	Returns        string      `json:"returns" yaml:"returns"`
	Usage          string      `json:"usage,omitempty" yaml:"usage,omitempty"`
	ExampleReturns string      `json:"exampleReturns,omitempty" yaml:"exampleReturns,omitempty"`
	Code           string      `json:"code" yaml:"code"`
}

// HasUsage reports whether function carries example invocation text.
func (f FunctionDoc) HasUsage() bool {
	return strings.TrimSpace(f.Usage) != ""
}

// HasExampleReturns reports whether function carries example result text.
func (f FunctionDoc) HasExampleReturns() bool {
	return strings.TrimSpace(f.ExampleReturns) != ""
}

// Catalog is an immutable ordered set of function descriptions.
type Catalog struct {
	functions []FunctionDoc
	index     map[string]int
}

// Diagnostic is one non-fatal catalog finding.
type Diagnostic struct {
	Function string
	Message  string
}

// String formats diagnostic as single line.
func (d Diagnostic) String() string {
	return d.Function + ": " + d.Message
}

// DefaultCatalog returns the catalog embedded into the binary.
// The embedded asset is part of the build, so a decode failure panics.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		catalog, err := LoadCatalog(defaultCatalogJSON, CatalogFormatJSON)
		if err != nil {
			panic(fmt.Sprintf("embedded catalog: %v", err))
		}

		defaultCatalog = catalog
	})

	return defaultCatalog
}

// DefaultCatalogJSON returns a copy of the embedded catalog source.
func DefaultCatalogJSON() []byte {
	return bytes.Clone(defaultCatalogJSON)
}

// NewCatalog validates records and builds a catalog preserving their order.
func NewCatalog(functions []FunctionDoc) (*Catalog, error) {
	catalog := &Catalog{
		functions: make([]FunctionDoc, 0, len(functions)),
		index:     make(map[string]int, len(functions)),
	}

	for i, fn := range functions {
		name := strings.TrimSpace(fn.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: record %d", ErrEmptyFunctionName, i)
		}

		if prev, ok := catalog.index[name]; ok {
			return nil, fmt.Errorf("%w %q: records %d and %d", ErrDuplicateFunctionName, name, prev, i)
		}

		fn.Name = name
		fn.Parameters = append([]Parameter(nil), fn.Parameters...)
		catalog.index[name] = len(catalog.functions)
		catalog.functions = append(catalog.functions, fn)
	}

	return catalog, nil
}

// LoadCatalogFile reads catalog from file, selecting decoder by extension.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadCatalogFile, err)
	}

	return LoadCatalog(data, CatalogFormatForPath(path))
}

// LoadCatalog decodes catalog bytes in the selected format.
func LoadCatalog(data []byte, format CatalogFormat) (*Catalog, error) {
	var functions []FunctionDoc

	switch normalizeCatalogFormat(format) {
	case CatalogFormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&functions); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecodeCatalog, err)
		}

	case CatalogFormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&functions); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecodeCatalog, err)
		}

	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownCatalogFormat, format)
	}

	return NewCatalog(functions)
}

// CatalogFormatForPath maps file extension to catalog format, defaulting to JSON.
func CatalogFormatForPath(path string) CatalogFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return CatalogFormatYAML
	default:
		return CatalogFormatJSON
	}
}

// normalizeCatalogFormat normalizes catalog format identifiers.
func normalizeCatalogFormat(format CatalogFormat) CatalogFormat {
	value := CatalogFormat(strings.ToLower(strings.TrimSpace(string(format))))
	switch value {
	case "":
		return CatalogFormatJSON
	case "yml":
		return CatalogFormatYAML
	default:
		return value
	}
}

// Len returns number of functions in catalog.
func (c *Catalog) Len() int {
	return len(c.functions)
}

// Functions returns a copy of catalog records in file order.
func (c *Catalog) Functions() []FunctionDoc {
	out := make([]FunctionDoc, len(c.functions))
	copy(out, c.functions)
	return out
}

// Names returns function names in file order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.functions))
	for _, fn := range c.functions {
		names = append(names, fn.Name)
	}

	return names
}

// Lookup returns one function by name.
func (c *Catalog) Lookup(name string) (FunctionDoc, bool) {
	i, ok := c.index[strings.TrimSpace(name)]
	if !ok {
		return FunctionDoc{}, false
	}

	return c.functions[i], true
}

// Check reports non-fatal findings, such as example returns that fall back to raw text.
func (c *Catalog) Check() []Diagnostic {
	var out []Diagnostic
	for _, fn := range c.functions {
		if strings.TrimSpace(fn.Description) == "" {
			out = append(out, Diagnostic{Function: fn.Name, Message: "description is empty"})
		}

		if strings.TrimSpace(fn.Code) == "" {
			out = append(out, Diagnostic{Function: fn.Name, Message: "code is empty"})
		}

		for i, param := range fn.Parameters {
			if strings.TrimSpace(param.Name) == "" {
				out = append(out, Diagnostic{Function: fn.Name, Message: fmt.Sprintf("parameter %d has no name", i)})
			}
		}

		if !fn.HasExampleReturns() {
			continue
		}

		if _, err := FormatExampleReturns(fn.ExampleReturns); err != nil {
			out = append(out, Diagnostic{Function: fn.Name, Message: "example returns shown as raw text: " + err.Error()})
		}
	}

	return out
}

// MarshalJSON encodes catalog as JSON array of records.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.functions)
}
