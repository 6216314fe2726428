// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pgfuncdoc

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/woozymasta/pgfuncdoc"
)

// returnsWidth caps the returns column in terminal tables.
const returnsWidth = 48

// writeFunctionTable renders one row per function in table, markdown or csv form.
func writeFunctionTable(w io.Writer, catalog *pgfuncdoc.Catalog, format string) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Name", "Parameters", "Returns", "Usage", "Example", "Code lines"})

	for i, fn := range catalog.Functions() {
		t.AppendRow(table.Row{
			i + 1,
			fn.Name,
			parameterSummary(fn.Parameters),
			strings.Join(strings.Fields(fn.Returns), " "),
			yesNo(fn.HasUsage()),
			yesNo(fn.HasExampleReturns()),
			strings.Count(strings.Trim(fn.Code, "\n"), "\n") + 1,
		})
	}

	switch format {
	case "markdown", "md":
		t.RenderMarkdown()
	case "csv":
		t.RenderCSV()
	case "", "table":
		t.SetColumnConfigs([]table.ColumnConfig{
			{Name: "Returns", WidthMax: returnsWidth},
		})
		t.Render()
		_, _ = fmt.Fprintf(w, "(%d functions)\n", catalog.Len())
	default:
		return fmt.Errorf("unknown list format %q", format)
	}

	return nil
}

// parameterSummary joins "name type" pairs of a parameter list.
func parameterSummary(params []pgfuncdoc.Parameter) string {
	if len(params) == 0 {
		return "-"
	}

	parts := make([]string, 0, len(params))
	for _, param := range params {
		parts = append(parts, strings.TrimSpace(param.Name+" "+param.Type))
	}

	return strings.Join(parts, ", ")
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}

	return "no"
}
