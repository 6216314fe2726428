// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pgfuncdoc

/*
Package pgfuncdoc renders a documentation page for PostgreSQL stored functions.

The page is built from a static catalog of function descriptions (name,
description, parameters, returns, optional usage and example result, source
code) and a few static content blocks (rules, connection instructions, example
queries). The catalog is bundled as JSON and loaded once; nothing is fetched at
render time.

Render the bundled catalog to HTML:

	page, err := pgfuncdoc.Render(pgfuncdoc.DefaultCatalog(), pgfuncdoc.Options{})
	if err != nil {
		return err
	}

	fmt.Println(page)

Render a custom catalog file to markdown:

	md, err := pgfuncdoc.RenderFile("functions.json", pgfuncdoc.Options{
		Format: pgfuncdoc.FormatMarkdown,
	})
	if err != nil {
		return err
	}

	fmt.Println(md)

Format example returns the way the page does. Invalid JSON comes back unchanged
together with an error the caller may log:

	pretty, err := pgfuncdoc.FormatExampleReturns(`{"a":1}`)
	fmt.Println(pretty) // {\n  "a": 1\n}

Every function section gets an anchor equal to the function name, so
"page.html#register_user" deep-links to it from the sidebar or elsewhere.
*/
package pgfuncdoc
