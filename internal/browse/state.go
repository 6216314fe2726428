// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pgfuncdoc

package browse

// CodeVisibility tracks which function sections show their source code.
// Missing entries are hidden.
type CodeVisibility map[string]bool

// Toggle flips visibility of one section and returns the new value.
func (v CodeVisibility) Toggle(name string) bool {
	v[name] = !v[name]
	return v[name]
}

// Visible reports whether the section shows its code.
func (v CodeVisibility) Visible(name string) bool {
	return v[name]
}

// CopyFeedback is the transient "Copied!" confirmation.
// Every Copy starts a new generation; only the reset of the latest one clears the flag.
type CopyFeedback struct {
	Copied bool
	Seq    uint64
}

// Copy raises the flag and returns the generation its reset must carry.
func (f *CopyFeedback) Copy() uint64 {
	f.Copied = true
	f.Seq++
	return f.Seq
}

// Reset clears the flag if seq is the latest generation.
func (f *CopyFeedback) Reset(seq uint64) bool {
	if seq != f.Seq {
		return false
	}

	f.Copied = false
	return true
}
