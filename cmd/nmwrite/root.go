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

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/andersone1/NMdata/pkg/ctl"
	"github.com/andersone1/NMdata/pkg/editor"
	"github.com/andersone1/NMdata/pkg/nmlog"
	"github.com/andersone1/NMdata/pkg/settings"
)

// rootFlags holds all flag values for the root command.
type rootFlags struct {
	files    []string
	dir      string
	pattern  string
	regex    string
	dataFile string

	section  string
	text     string
	textFile string
	specFile string

	location string
	output   string
	stdout   bool

	backup        bool
	trailingBlank bool
	unwrapSingle  bool
	quiet         bool
	debug         bool
	async         bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "nmwrite",
		Short: "Edit sections of NONMEM control streams",
		Long: `nmwrite locates a named section (like $EST or $DATA) in one or more
control streams and replaces, inserts or appends text there. Overwritten
files are backed up to a sibling NMdata_backup directory first.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, flags)
		},
	}

	cmd.Flags().StringSliceVarP(&flags.files, "file", "f", nil, "control stream to edit (repeatable)")
	cmd.Flags().StringVar(&flags.dir, "dir", "", "directory to discover control streams in")
	cmd.Flags().StringVar(&flags.pattern, "pattern", "", "doublestar pattern for discovery, e.g. '*.mod'")
	cmd.Flags().StringVar(&flags.regex, "file-regex", "", "regex filter on discovered base names")
	cmd.Flags().StringVar(&flags.dataFile, "data-file", "", "only edit control streams whose $DATA names this file")

	cmd.Flags().StringVarP(&flags.section, "section", "s", "", "section to edit, e.g. EST or $EST")
	cmd.Flags().StringVarP(&flags.text, "text", "t", "", "new text for the section")
	cmd.Flags().StringVar(&flags.textFile, "text-file", "", "file holding the new text")
	cmd.Flags().StringVar(&flags.specFile, "spec", "", "edit-spec file (YAML or HCL) with ordered section edits")

	cmd.Flags().StringVarP(&flags.location, "location", "l", "replace", "insertion policy: replace, before, after or last")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write result to this path instead of overwriting")
	cmd.Flags().BoolVar(&flags.stdout, "stdout", false, "print result instead of writing any file")

	cmd.Flags().BoolVar(&flags.backup, "backup", true, "back up originals before overwriting")
	cmd.Flags().BoolVar(&flags.trailingBlank, "trailing-blank", true, "append one blank line after inserted text")
	cmd.Flags().BoolVar(&flags.unwrapSingle, "unwrap-single", true, "print a bare document when exactly one file was processed")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress informational output")
	cmd.Flags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	cmd.Flags().BoolVar(&flags.async, "async", false, "edit the files of a batch concurrently")

	cmd.AddCommand(newVersionCmd())

	return cmd
}

// buildSpec assembles the EditSpec from flags: either the single
// section+text pair or a spec file, never both, never neither.
func buildSpec(cmd *cobra.Command, flags *rootFlags) (editor.EditSpec, error) {
	single := flags.section != ""
	fromFile := flags.specFile != ""

	switch {
	case single && fromFile:
		return nil, errors.Errorf("%w: --section and --spec are mutually exclusive", editor.ErrUsage)
	case !single && !fromFile:
		return nil, errors.Errorf("%w: give either --section with text or --spec", editor.ErrUsage)
	case fromFile:
		if flags.text != "" || flags.textFile != "" {
			return nil, errors.Errorf("%w: --text cannot be combined with --spec", editor.ErrUsage)
		}
		return editor.LoadSpec(cmd.Context(), flags.specFile)
	}

	var text string
	switch {
	case flags.text != "" && flags.textFile != "":
		return nil, errors.Errorf("%w: --text and --text-file are mutually exclusive", editor.ErrUsage)
	case flags.text != "":
		text = flags.text
	case flags.textFile != "":
		data, err := os.ReadFile(flags.textFile)
		if err != nil {
			return nil, errors.Errorf("reading --text-file: %w", err)
		}
		text = string(data)
	default:
		return nil, errors.Errorf("%w: --section needs --text or --text-file", editor.ErrUsage)
	}

	return editor.EditSpec{{Section: flags.section, Lines: ctl.ParseText(text)}}, nil
}

func buildSettings(flags *rootFlags) (*settings.Store, error) {
	conf := settings.New()
	for name, value := range map[string]bool{
		settings.OptBackup:        flags.backup,
		settings.OptTrailingBlank: flags.trailingBlank,
		settings.OptUnwrapSingle:  flags.unwrapSingle,
		settings.OptQuiet:         flags.quiet,
	} {
		if err := conf.Set(name, value); err != nil {
			return nil, err
		}
	}
	return conf, nil
}

func runEdit(cmd *cobra.Command, flags *rootFlags) error {
	ctx := cmd.Context()

	// All argument problems surface here, before any file is touched.
	spec, err := buildSpec(cmd, flags)
	if err != nil {
		return err
	}

	policy, err := ctl.ParsePolicy(flags.location)
	if err != nil {
		return errors.Errorf("%w: %w", editor.ErrUsage, err)
	}

	output := editor.OutputOverwrite()
	switch {
	case flags.stdout && flags.output != "":
		return errors.Errorf("%w: --stdout and --output are mutually exclusive", editor.ErrUsage)
	case flags.stdout:
		output = editor.OutputText()
	case flags.output != "":
		output = editor.OutputPath(flags.output)
	}

	conf, err := buildSettings(flags)
	if err != nil {
		return err
	}

	ed, err := editor.New(editor.Options{
		Spec:     spec,
		Policy:   policy,
		Output:   output,
		Settings: conf,
		Async:    flags.async,
	})
	if err != nil {
		return err
	}

	files, err := editor.Resolve(ctx, editor.FileQuery{
		Files:    flags.files,
		Dir:      flags.dir,
		Pattern:  flags.pattern,
		Regex:    flags.regex,
		DataFile: flags.dataFile,
	})
	if err != nil {
		return err
	}

	if len(files) == 0 && !flags.quiet {
		nmlog.NewUserLogger(ctx).LogBatchChange("no control streams matched, nothing to do")
		return nil
	}

	level := zerolog.InfoLevel
	if flags.debug {
		level = zerolog.DebugLevel
	}
	reporter := nmlog.New(os.Stderr, level, flags.quiet)
	reporter.Header(fmt.Sprintf("editing %d section(s) in %d file(s)", len(spec), len(files)))

	results, err := ed.Apply(ctx, files)
	if err != nil {
		reporter.Errorf("batch failed: %v", err)
		return err
	}

	for _, res := range results {
		reporter.LogFileResult(res)
	}
	reporter.Summary(results)

	if flags.stdout {
		unwrap, err := conf.Bool(settings.OptUnwrapSingle)
		if err != nil {
			return err
		}
		printDocuments(cmd.OutOrStdout(), unwrap, results)
	}
	return nil
}

// printDocuments writes text-only results to w. With exactly one result
// and unwrap enabled, the document is printed bare; otherwise each
// document is preceded by its path.
func printDocuments(w io.Writer, unwrapSingle bool, results []editor.FileResult) {
	if len(results) == 1 && unwrapSingle {
		fmt.Fprint(w, results[0].Document.Text())
		return
	}
	for _, res := range results {
		fmt.Fprintf(w, "==> %s\n%s", res.Path, res.Document.Text())
	}
}
