package editor

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/andersone1/NMdata/pkg/ctl"
	"github.com/andersone1/NMdata/pkg/fileio"
)

// 🔍 FileQuery selects the control streams a batch operates on: either an
// explicit file list or a directory plus a doublestar pattern, optionally
// narrowed by a base-name regex and a data-file filter.
type FileQuery struct {
	// Files are explicit paths. Every one must exist.
	Files []string
	// Dir and Pattern discover files: Pattern is a doublestar glob
	// evaluated under Dir.
	Dir     string
	Pattern string
	// Regex optionally filters discovered base names.
	Regex string
	// DataFile optionally restricts the set to control streams whose
	// $DATA section names exactly this file.
	DataFile string
}

// Validate checks that the query selects files one way or the other.
func (q FileQuery) Validate() error {
	explicit := len(q.Files) > 0
	discover := q.Dir != "" || q.Pattern != ""
	if !explicit && !discover {
		return errors.Errorf("%w: give either explicit files or a directory and pattern", ErrUsage)
	}
	if explicit && discover {
		return errors.Errorf("%w: explicit files and directory discovery are mutually exclusive", ErrUsage)
	}
	if discover && q.Pattern == "" {
		return errors.Errorf("%w: directory discovery needs a pattern", ErrUsage)
	}
	return nil
}

// Resolve expands the query into a sorted list of existing paths. Explicit
// paths that do not exist are errors; a discovery or filter that matches
// nothing is an empty (no-op) result.
func Resolve(ctx context.Context, q FileQuery) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	if err := q.Validate(); err != nil {
		return nil, err
	}

	var files []string
	if len(q.Files) > 0 {
		for _, path := range q.Files {
			if _, err := os.Stat(path); err != nil {
				return nil, errors.Errorf("file not found: %s: %w", path, err)
			}
			files = append(files, path)
		}
	} else {
		dir := q.Dir
		if dir == "" {
			dir = "."
		}
		matches, err := doublestar.FilepathGlob(filepath.Join(dir, q.Pattern))
		if err != nil {
			return nil, errors.Errorf("matching pattern %q under %s: %w", q.Pattern, dir, err)
		}
		files = matches
		sort.Strings(files)
	}

	if q.Regex != "" {
		re, err := regexp.Compile(q.Regex)
		if err != nil {
			return nil, errors.Errorf("%w: bad file regex %q: %w", ErrUsage, q.Regex, err)
		}
		files = filterFiles(files, func(path string) bool {
			return re.MatchString(filepath.Base(path))
		})
	}

	if q.DataFile != "" {
		filtered, err := filterByDataFile(ctx, files, q.DataFile)
		if err != nil {
			return nil, err
		}
		files = filtered
	}

	logger.Debug().Int("files", len(files)).Msg("resolved input files")
	return files, nil
}

// filterByDataFile keeps only control streams whose $DATA section names
// exactly the wanted file.
func filterByDataFile(ctx context.Context, files []string, want string) ([]string, error) {
	var out []string
	for _, path := range files {
		doc, err := fileio.ReadDocument(ctx, path)
		if err != nil {
			return nil, err
		}
		if ctl.DataFileName(doc) == want {
			out = append(out, path)
		}
	}
	return out, nil
}

func filterFiles(files []string, keep func(string) bool) []string {
	var out []string
	for _, f := range files {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}
