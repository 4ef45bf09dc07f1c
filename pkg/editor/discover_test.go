package editor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   FileQuery
		wantErr string
	}{
		{name: "explicit_files", query: FileQuery{Files: []string{"run1.mod"}}},
		{name: "dir_and_pattern", query: FileQuery{Dir: "models", Pattern: "*.mod"}},
		{name: "pattern_only", query: FileQuery{Pattern: "*.mod"}},
		{name: "nothing", query: FileQuery{}, wantErr: "either explicit files or a directory"},
		{name: "both", query: FileQuery{Files: []string{"a"}, Pattern: "*.mod"}, wantErr: "mutually exclusive"},
		{name: "dir_without_pattern", query: FileQuery{Dir: "models"}, wantErr: "needs a pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUsage)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestResolve_ExplicitFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := writeRun(t, dir, "run1.mod", run1)

	files, err := Resolve(ctx, FileQuery{Files: []string{path}})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)

	// Explicit paths must exist.
	_, err = Resolve(ctx, FileQuery{Files: []string{filepath.Join(dir, "gone.mod")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestResolve_Glob(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeRun(t, dir, "run1.mod", run1)
	writeRun(t, dir, "run2.mod", run1)
	writeRun(t, dir, "notes.txt", "not a model\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	writeRun(t, filepath.Join(dir, "sub"), "run3.mod", run1)

	files, err := Resolve(ctx, FileQuery{Dir: dir, Pattern: "*.mod"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "run1.mod"),
		filepath.Join(dir, "run2.mod"),
	}, files)

	// Doublestar patterns reach into subdirectories.
	files, err = Resolve(ctx, FileQuery{Dir: dir, Pattern: "**/*.mod"})
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestResolve_RegexFilter(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeRun(t, dir, "run1.mod", run1)
	writeRun(t, dir, "run2.mod", run1)
	writeRun(t, dir, "final.mod", run1)

	files, err := Resolve(ctx, FileQuery{Dir: dir, Pattern: "*.mod", Regex: `^run\d+`})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "run1.mod"),
		filepath.Join(dir, "run2.mod"),
	}, files)

	_, err = Resolve(ctx, FileQuery{Dir: dir, Pattern: "*.mod", Regex: `[`})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUsage)
}

func TestResolve_DataFileFilter(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeRun(t, dir, "run1.mod", "$PROBLEM a\n$DATA data1.csv IGNORE=@\n$EST METHOD=1\n")
	writeRun(t, dir, "run2.mod", "$PROBLEM b\n$DATA data2.csv IGNORE=@\n$EST METHOD=1\n")

	files, err := Resolve(ctx, FileQuery{Dir: dir, Pattern: "*.mod", DataFile: "data1.csv"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "run1.mod")}, files)

	// Filtering everything away is an empty result, not an error.
	files, err = Resolve(ctx, FileQuery{Dir: dir, Pattern: "*.mod", DataFile: "data9.csv"})
	require.NoError(t, err)
	assert.Empty(t, files)
}
