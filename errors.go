// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pgfuncdoc

package pgfuncdoc

import "errors"

var (
	// ErrReadCatalogFile is returned when catalog file loading fails.
	ErrReadCatalogFile = errors.New("read catalog file")
	// ErrDecodeCatalog is returned when catalog JSON or YAML decoding fails.
	ErrDecodeCatalog = errors.New("decode catalog")
	// ErrUnknownCatalogFormat is returned when catalog format cannot be resolved.
	ErrUnknownCatalogFormat = errors.New("unknown catalog format")
	// ErrEmptyFunctionName is returned when a catalog record has no name.
	ErrEmptyFunctionName = errors.New("function name is empty")
	// ErrDuplicateFunctionName is returned when two catalog records share one name.
	ErrDuplicateFunctionName = errors.New("duplicate function name")
	// ErrReadContentFile is returned when static content file loading fails.
	ErrReadContentFile = errors.New("read content file")
	// ErrDecodeContent is returned when static content YAML decoding fails.
	ErrDecodeContent = errors.New("decode content")
	// ErrExecuteTemplate is returned when page template execution fails.
	ErrExecuteTemplate = errors.New("execute page template")
	// ErrUnknownBuiltinTemplate is returned when requested built-in template name is not registered.
	ErrUnknownBuiltinTemplate = errors.New("unknown built-in template")
	// ErrReadBuiltinTemplate is returned when built-in template file loading fails.
	ErrReadBuiltinTemplate = errors.New("read built-in template")
	// ErrParseTemplate is returned when built-in or custom template parsing fails.
	ErrParseTemplate = errors.New("parse page template")
	// ErrUnknownFormat is returned when output format is not supported.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrUnknownExampleFormat is returned when example returns format is not supported.
	ErrUnknownExampleFormat = errors.New("unknown example format")
	// ErrDecodeExampleReturns is returned when example returns text is not valid JSON.
	ErrDecodeExampleReturns = errors.New("decode example returns")
	// ErrEncodeExampleYAML is returned when example returns YAML encoding fails.
	ErrEncodeExampleYAML = errors.New("encode example yaml")
	// ErrHighlight is returned when source highlighting fails.
	ErrHighlight = errors.New("highlight source")
	// ErrRenderMarkdown is returned when content markdown conversion fails.
	ErrRenderMarkdown = errors.New("render content markdown")
)
