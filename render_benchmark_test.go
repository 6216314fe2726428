// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pgfuncdoc

package pgfuncdoc

import (
	"testing"
)

// BenchmarkLoadCatalog measures decoding and validation of the bundled catalog.
func BenchmarkLoadCatalog(b *testing.B) {
	data := DefaultCatalogJSON()

	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	for i := 0; i < b.N; i++ {
		if _, err := LoadCatalog(data, CatalogFormatJSON); err != nil {
			b.Fatalf("LoadCatalog: %v", err)
		}
	}
}

// BenchmarkRenderHTML measures full html page render with highlighting.
func BenchmarkRenderHTML(b *testing.B) {
	benchmarkRender(b, FormatHTML)
}

// BenchmarkRenderMarkdown measures markdown render flow.
func BenchmarkRenderMarkdown(b *testing.B) {
	benchmarkRender(b, FormatMarkdown)
}

// BenchmarkFormatExampleReturns measures pretty printing of one example result.
func BenchmarkFormatExampleReturns(b *testing.B) {
	raw := `{"status":"ok","players":[{"id":1,"login":"alice","score":12},{"id":2,"login":"bob","score":9}]}`

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := FormatExampleReturns(raw); err != nil {
			b.Fatalf("FormatExampleReturns: %v", err)
		}
	}
}

// benchmarkRender runs one render benchmark for the selected format.
func benchmarkRender(b *testing.B, format Format) {
	b.Helper()

	catalog := DefaultCatalog()
	opt := Options{Format: format}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Render(catalog, opt); err != nil {
			b.Fatalf("Render: %v", err)
		}
	}
}
