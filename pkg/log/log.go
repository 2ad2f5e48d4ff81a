// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/filexor/pkg/status"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Width for source and output names
	statusWidth = 15 // Width for status text
)

// 📦 PassOperation describes one processing pass for logging
type PassOperation struct {
	Number int    // Pass counter, starting at 1
	Dir    string // Input directory
	Mask   string // Input mask
	Output string // Output directory
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	formatter status.FileFormatter
	mu        sync.Mutex
	current   *PassOperation
}

// 🏭 NewWithLogger creates a logger on top of an existing zerolog logger
func NewWithLogger(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:      zlog,
		console:   console,
		formatter: status.NewDefaultFileFormatter(),
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a silent one if none was set
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return NewWithLogger(io.Discard, zerolog.Nop())
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatEntry formats a file entry for display
func (l *Logger) formatEntry(e status.Entry) string {
	var symbol rune
	var symbolColor color.Attribute
	var label string
	switch {
	case e.Outcome == status.Succeeded && e.DeleteErr != nil:
		symbol, symbolColor, label = '!', color.FgYellow, "KEPT SOURCE"
	case e.Outcome == status.Succeeded && e.Deleted:
		symbol, symbolColor, label = '✓', color.FgGreen, "MOVED"
	case e.Outcome == status.Succeeded:
		symbol, symbolColor, label = '✓', color.FgGreen, "WRITTEN"
	case e.Outcome == status.SkippedUnreadable:
		symbol, symbolColor, label = '✗', color.FgRed, "UNREADABLE"
	default:
		symbol, symbolColor, label = '✗', color.FgRed, "UNWRITABLE"
	}

	output := e.Output
	if output == "" {
		output = "-"
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, e.Source),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%-*s", nameWidth, output)),
		fmt.Sprintf("%-*s", statusWidth, label))
}

// 📝 LogEntry logs the result of one file
func (l *Logger) LogEntry(ctx context.Context, e status.Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatEntry(e))

	var ev *zerolog.Event
	switch {
	case e.Outcome != status.Succeeded:
		ev = l.zlog.Warn().Err(e.Err)
	case e.DeleteErr != nil:
		ev = l.zlog.Warn().AnErr("delete_error", e.DeleteErr)
	default:
		ev = l.zlog.Info()
	}
	ev.
		Str("source", e.Source).
		Str("output", e.Output).
		Str("outcome", e.Outcome.String()).
		Int("size", e.Size).
		Bool("deleted", e.Deleted).
		Msg(l.formatter.FormatEntry(e))
}

// 📝 StartPass starts a new processing pass
func (l *Logger) StartPass(ctx context.Context, op PassOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = &op

	l.zlog.Debug().
		Int("pass", op.Number).
		Str("dir", op.Dir).
		Str("mask", op.Mask).
		Str("output", op.Output).
		Msg("starting pass")
}

// 📝 EndPass ends the current pass and prints its summary if it touched any file
func (l *Logger) EndPass(ctx context.Context, report *status.Report) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return
	}

	counts := report.Counts()
	msg := l.formatter.FormatSummary(counts)

	ev := l.zlog.Info()
	if report.Empty() {
		ev = l.zlog.Debug()
	} else {
		fmt.Fprintf(l.console, "%s %s\n",
			color.New(color.FgMagenta).Sprint("◆"),
			color.New(color.Faint).Sprint(msg))
	}
	ev.
		Int("pass", l.current.Number).
		Int("succeeded", counts.Succeeded).
		Int("unreadable", counts.Unreadable).
		Int("unwritable", counts.Unwritable).
		Int("delete_failed", counts.DeleteFailed).
		Dur("duration", report.Duration()).
		Msg(msg)

	l.current = nil
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("filexor")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
