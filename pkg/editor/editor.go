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

package editor

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/andersone1/NMdata/pkg/ctl"
	"github.com/andersone1/NMdata/pkg/fileio"
	"github.com/andersone1/NMdata/pkg/settings"
)

// ErrUsage marks contradictory or incomplete edit arguments. It is raised
// before any file is touched.
var ErrUsage = errors.Base("invalid edit arguments")

// SectionEdit pairs a section name with its replacement lines.
type SectionEdit struct {
	Section string
	Lines   ctl.Document
}

// EditSpec is an ordered list of section edits. Order matters: each edit
// re-locates its section in the output of the previous one.
type EditSpec []SectionEdit

// Validate checks the spec in isolation from any file.
func (s EditSpec) Validate() error {
	if len(s) == 0 {
		return errors.Errorf("%w: no section edits given", ErrUsage)
	}
	for i, e := range s {
		if ctl.NormalizeSection(e.Section) == "" {
			return errors.Errorf("%w: edit %d has an empty section name", ErrUsage, i+1)
		}
	}
	return nil
}

// outputMode selects where the edited document goes.
type outputMode int

const (
	outputOverwrite outputMode = iota
	outputPath
	outputText
)

// OutputTarget routes the final document: back over the original file, to
// an explicit path, or nowhere (text-only result).
type OutputTarget struct {
	mode outputMode
	path string
}

// OutputOverwrite writes the result over the input file, honoring the
// backup setting.
func OutputOverwrite() OutputTarget { return OutputTarget{mode: outputOverwrite} }

// OutputPath writes the result to an explicit path. No backup is taken
// unless the path resolves to the input file itself.
func OutputPath(path string) OutputTarget { return OutputTarget{mode: outputPath, path: path} }

// OutputText performs no disk I/O; the result is returned only.
func OutputText() OutputTarget { return OutputTarget{mode: outputText} }

// 🔧 Options configures an Editor.
type Options struct {
	// Spec is the ordered list of section edits. Required.
	Spec EditSpec
	// Policy is the insertion policy. Defaults to replace. Any other
	// policy requires a single-edit spec.
	Policy ctl.Policy
	// Output routes the edited document. Defaults to overwrite.
	Output OutputTarget
	// Settings supplies backup, trailing-blank, quiet and model name
	// defaults. Defaults to settings.New().
	Settings *settings.Store
	// Async processes the files of a batch concurrently. The batch
	// still fails fast: the first error cancels the others.
	Async bool
}

// 🎯 Editor applies an EditSpec to one or more control stream files.
type Editor struct {
	spec   EditSpec
	policy ctl.Policy
	output OutputTarget
	conf   *settings.Store
	async  bool
}

// 🏭 New validates the options and builds an Editor. Argument problems are
// reported here, before any file is read.
func New(opts Options) (*Editor, error) {
	if err := opts.Spec.Validate(); err != nil {
		return nil, err
	}
	policy := opts.Policy
	if policy == "" {
		policy = ctl.PolicyReplace
	}
	if _, err := ctl.ParsePolicy(string(policy)); err != nil {
		return nil, errors.Errorf("%w: %w", ErrUsage, err)
	}
	if len(opts.Spec) > 1 && policy != ctl.PolicyReplace {
		return nil, errors.Errorf("%w: multiple section edits require the replace policy, got %q", ErrUsage, policy)
	}
	conf := opts.Settings
	if conf == nil {
		conf = settings.New()
	}
	return &Editor{
		spec:   opts.Spec,
		policy: policy,
		output: opts.Output,
		conf:   conf,
		async:  opts.Async,
	}, nil
}

// SectionResult records the outcome of one section edit within a file.
type SectionResult struct {
	Section string
	Found   bool
}

// FileResult records the outcome of editing one file.
type FileResult struct {
	// Path is the input file.
	Path string
	// Model is the model name derived from Path.
	Model string
	// OutPath is where the result was written; empty for text-only runs.
	OutPath string
	// BackupPath is where the pristine original was copied, if a backup
	// was taken.
	BackupPath string
	// Document is the final edited document.
	Document ctl.Document
	// Sections reports each edit in spec order.
	Sections []SectionResult
	// Modified reports whether the document differs from the input.
	Modified bool
}

// Apply edits every file in order and returns one result per file. The
// batch fails fast: the first file error aborts processing (in async mode
// the remaining files are cancelled).
func (e *Editor) Apply(ctx context.Context, files []string) ([]FileResult, error) {
	if len(files) == 0 {
		zerolog.Ctx(ctx).Info().Msg("no files to edit, nothing to do")
		return nil, nil
	}
	if e.async {
		return e.applyAsync(ctx, files)
	}

	results := make([]FileResult, 0, len(files))
	for _, path := range files {
		res, err := e.applyFile(ctx, path)
		if err != nil {
			return nil, errors.Errorf("editing %s: %w", path, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// applyAsync fans the batch out across goroutines. Each file is an
// independent read-modify-write; the shared settings store is read-only
// during the run.
func (e *Editor) applyAsync(ctx context.Context, files []string) ([]FileResult, error) {
	results := make([]FileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			res, err := e.applyFile(ctx, path)
			if err != nil {
				return errors.Errorf("editing %s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// applyFile runs the full read, fold, route sequence for one file.
func (e *Editor) applyFile(ctx context.Context, path string) (FileResult, error) {
	logger := zerolog.Ctx(ctx).With().Str("file", path).Logger()

	doc, err := fileio.ReadDocument(ctx, path)
	if err != nil {
		return FileResult{}, err
	}

	res := FileResult{Path: path}
	if d, derr := e.conf.Derivation(settings.OptModelName); derr == nil {
		res.Model = d.Resolve(path)
	}

	original := doc
	doc, res.Sections, err = e.fold(ctx, &logger, doc)
	if err != nil {
		return FileResult{}, err
	}
	res.Document = doc
	res.Modified = !equalDocs(original, doc)

	if err := e.route(ctx, path, &res); err != nil {
		return FileResult{}, err
	}
	return res, nil
}

// fold reduces the ordered edit list over the document. Each edit
// re-locates its section in the output of the previous edit, so later
// lookups see earlier edits' effects. This sequencing is required, not
// incidental.
func (e *Editor) fold(ctx context.Context, logger *zerolog.Logger, doc ctl.Document) (ctl.Document, []SectionResult, error) {
	trailingBlank, err := e.conf.Bool(settings.OptTrailingBlank)
	if err != nil {
		return nil, nil, err
	}
	quiet, err := e.conf.Bool(settings.OptQuiet)
	if err != nil {
		return nil, nil, err
	}
	opts := ctl.SpliceOptions{TrailingBlank: trailingBlank}

	sections := make([]SectionResult, 0, len(e.spec))
	for _, edit := range e.spec {
		rng, err := ctl.FindSection(doc, edit.Section)
		if err != nil {
			return nil, nil, errors.Errorf("locating section %s: %w", edit.Section, err)
		}
		found := !rng.IsEmpty()
		sections = append(sections, SectionResult{Section: ctl.NormalizeSection(edit.Section), Found: found})

		if !found && e.policy != ctl.PolicyLast {
			// Absent section is a no-op, not an error.
			evt := logger.Info()
			if quiet {
				evt = logger.Debug()
			}
			evt.Str("section", ctl.NormalizeSection(edit.Section)).Msg("section not found, skipping edit")
			continue
		}

		doc, err = ctl.Splice(doc, rng, edit.Lines, e.policy, opts)
		if err != nil {
			return nil, nil, errors.Errorf("splicing section %s: %w", edit.Section, err)
		}
	}
	return doc, sections, nil
}

// route sends the final document to its output target, taking a backup
// first when the target is the input file itself.
func (e *Editor) route(ctx context.Context, path string, res *FileResult) error {
	target := e.output.path
	switch e.output.mode {
	case outputText:
		return nil
	case outputOverwrite:
		target = path
	case outputPath:
		// An explicit path naming the input file is an overwrite and
		// keeps its backup semantics.
	}

	if samePath(target, path) {
		backup, err := e.conf.Bool(settings.OptBackup)
		if err != nil {
			return err
		}
		if backup {
			dir, err := e.conf.String(settings.OptBackupDir)
			if err != nil {
				return err
			}
			backupPath, err := fileio.Backup(ctx, path, dir)
			if err != nil {
				return err
			}
			res.BackupPath = backupPath
		}
	}

	if err := fileio.WriteDocument(ctx, target, res.Document); err != nil {
		return err
	}
	res.OutPath = target
	return nil
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

func equalDocs(a, b ctl.Document) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
