// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pgfuncdoc

package pgfuncdoc

import (
	"strings"
)

// sanitizeText trims and squashes repeated whitespace in plain text fields.
func sanitizeText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	return strings.Join(strings.Fields(text), " ")
}

// inlineCode wraps value in a backtick span long enough to hold its own backticks.
func inlineCode(value string) string {
	value = sanitizeText(value)
	if value == "" {
		return ""
	}

	ticks := strings.Repeat("`", longestBacktickRun(value)+1)
	if strings.HasPrefix(value, "`") || strings.HasSuffix(value, "`") {
		return ticks + " " + value + " " + ticks
	}

	return ticks + value + ticks
}

// codeFence wraps body into a fenced code block with optional info string.
func codeFence(language, body string) string {
	body = strings.Trim(normalizeLineEndings(body), "\n")
	fenceLen := longestBacktickRun(body) + 1
	if fenceLen < 3 {
		fenceLen = 3
	}

	fence := strings.Repeat("`", fenceLen)
	return fence + language + "\n" + body + "\n" + fence
}

// longestBacktickRun returns length of the longest consecutive backtick sequence.
func longestBacktickRun(value string) int {
	longest, current := 0, 0
	for _, r := range value {
		if r != '`' {
			current = 0
			continue
		}

		current++
		if current > longest {
			longest = current
		}
	}

	return longest
}

// normalizeLineEndings converts CRLF/CR to LF.
func normalizeLineEndings(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text
}

// normalizeMarkdownOutput collapses extra blank lines outside fenced blocks.
func normalizeMarkdownOutput(text string) string {
	text = normalizeLineEndings(text)
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	fence := ""
	blankCount := 0
	for _, rawLine := range lines {
		line := rawLine
		trimmed := strings.TrimSpace(line)
		if fence == "" {
			line = strings.TrimRight(rawLine, " \t")
		}

		if marker := fenceMarker(trimmed); marker != "" {
			switch {
			case fence == "":
				fence = marker
			case strings.HasPrefix(trimmed, fence) && strings.Trim(trimmed, "`") == "":
				fence = ""
			}

			out = append(out, line)
			blankCount = 0
			continue
		}

		if fence == "" && trimmed == "" {
			if blankCount == 0 {
				out = append(out, "")
			}

			blankCount++
			continue
		}

		blankCount = 0
		out = append(out, line)
	}

	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}

// fenceMarker returns leading backtick fence of a line, if any.
func fenceMarker(trimmed string) string {
	if !strings.HasPrefix(trimmed, "```") {
		return ""
	}

	end := strings.IndexFunc(trimmed, func(r rune) bool { return r != '`' })
	if end < 0 {
		return trimmed
	}

	return trimmed[:end]
}

// ensureTrailingNewline guarantees exactly one trailing newline in output.
func ensureTrailingNewline(value string) string {
	value = strings.TrimRight(value, "\n")
	return value + "\n"
}
