// Copyright 2025 the NMdata authors
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

// Package nmlog renders batch edit results for humans on the console
// while mirroring everything into zerolog for debugging.
package nmlog

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/andersone1/NMdata/pkg/editor"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // base width for file paths
	modelWidth  = 15 // width for model names
	statusWidth = 15 // width for status text
)

// 🎯 Reporter handles structured logging with console output
type Reporter struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	quiet   bool
}

// 🏭 New creates a new reporter
func New(console io.Writer, level zerolog.Level, quiet bool) *Reporter {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Reporter{
		zlog:    zlog,
		console: console,
		quiet:   quiet,
	}
}

// statusOf summarizes a file result as a status word.
func statusOf(res editor.FileResult) string {
	switch {
	case !res.Modified:
		return "unchanged"
	case res.OutPath == "":
		return "edited (text)"
	default:
		return "written"
	}
}

// 📝 formatFileResult formats one file's outcome for display
func (r *Reporter) formatFileResult(res editor.FileResult) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case !res.Modified:
		symbol = '-'
		symbolColor = color.FgYellow
	case res.OutPath == "":
		symbol = '•'
		symbolColor = color.FgCyan
	default:
		symbol = '⟳'
		symbolColor = color.FgBlue
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, res.Path),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%-*s", modelWidth, res.Model)),
		fmt.Sprintf("%-*s", statusWidth, statusOf(res)))
}

// 📝 LogFileResult logs the outcome of editing one file
func (r *Reporter) LogFileResult(res editor.FileResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.quiet {
		fmt.Fprintln(r.console, r.formatFileResult(res))
		for _, sec := range res.Sections {
			if !sec.Found {
				fmt.Fprintf(r.console, "%*s%s section $%s not found, skipped\n",
					fileIndent*2, "",
					color.New(color.FgYellow).Sprint("!"),
					sec.Section)
			}
		}
		if res.BackupPath != "" {
			fmt.Fprintf(r.console, "%*s%s backup at %s\n",
				fileIndent*2, "",
				color.New(color.Faint).Sprint("↳"),
				res.BackupPath)
		}
	}

	evt := r.zlog.Info().
		Str("file", res.Path).
		Str("model", res.Model).
		Str("status", statusOf(res)).
		Bool("modified", res.Modified)
	if res.OutPath != "" {
		evt = evt.Str("out", res.OutPath)
	}
	if res.BackupPath != "" {
		evt = evt.Str("backup", res.BackupPath)
	}
	evt.Msg("file edited")
}

// 📝 Header prints the run header
func (r *Reporter) Header(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.quiet {
		return
	}
	name := color.New(color.Bold, color.FgCyan).Sprint("nmwrite")
	fmt.Fprintf(r.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
}

// 📝 Summary prints the batch summary line
func (r *Reporter) Summary(results []editor.FileResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	modified := 0
	for _, res := range results {
		if res.Modified {
			modified++
		}
	}
	r.zlog.Info().Int("files", len(results)).Int("modified", modified).Msg("batch complete")
	if r.quiet {
		return
	}
	if len(results) == 0 {
		fmt.Fprintf(r.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint("no files matched, nothing to do"))
		return
	}
	fmt.Fprintf(r.console, "\n✅ %s\n",
		color.New(color.FgGreen).Sprintf("%d file(s) processed, %d modified", len(results), modified))
}

// 📝 Error logs an error message
func (r *Reporter) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	r.zlog.Error().Msg(msg)
}

// 📝 Errorf logs a formatted error message
func (r *Reporter) Errorf(format string, args ...interface{}) {
	r.Error(fmt.Sprintf(format, args...))
}
