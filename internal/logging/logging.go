// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pgfuncdoc

// Package logging carries a cdr.dev/slog logger in context.Context.
package logging

import (
	"context"
	"io"
	"os"

	"cdr.dev/slog"
	"cdr.dev/slog/sloggers/sloghuman"
)

type loggerKey struct{}

// New returns a human readable logger writing to w.
// Verbose raises the level to debug.
func New(w io.Writer, verbose bool) slog.Logger {
	l := slog.Make(sloghuman.Sink(w))
	if verbose {
		return l.Leveled(slog.LevelDebug)
	}

	return l.Leveled(slog.LevelInfo)
}

// With stores l in ctx.
func With(ctx context.Context, l slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// Stderr stores a stderr logger in ctx.
func Stderr(ctx context.Context, verbose bool) context.Context {
	return With(ctx, New(os.Stderr, verbose))
}

// From returns the logger stored in ctx.
// Without one it returns a logger with no sinks, so logging is a no-op.
func From(ctx context.Context) slog.Logger {
	l, ok := ctx.Value(loggerKey{}).(slog.Logger)
	if !ok {
		return slog.Logger{}
	}

	return l
}

// Named appends name to the logger in ctx.
func Named(ctx context.Context, name string) context.Context {
	return With(ctx, From(ctx).Named(name))
}

func Debug(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	From(ctx).Debug(ctx, msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	From(ctx).Info(ctx, msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	From(ctx).Warn(ctx, msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	From(ctx).Error(ctx, msg, fields...)
}

// Sync flushes the logger in ctx.
func Sync(ctx context.Context) {
	From(ctx).Sync()
}
