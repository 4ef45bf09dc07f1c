package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andersone1/NMdata/pkg/editor"
)

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(os.Stderr)
	return cmd.ExecuteContext(context.Background())
}

func TestRoot_EditSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run1.mod")
	original := "$PROBLEM run 1\n$EST METHOD=0\nMAXEVAL=9999\n$COV\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0o644))

	err := runCommand(t,
		"--file", path,
		"--section", "EST",
		"--text", "$EST METHOD=1",
		"--quiet",
	)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "$PROBLEM run 1\n$EST METHOD=1\n\n$COV\n", string(data))

	backup, err := os.ReadFile(filepath.Join(dir, "NMdata_backup", "run1.mod"))
	require.NoError(t, err)
	assert.Equal(t, original, string(backup))
}

func TestRoot_NoBackupFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run1.mod")
	require.NoError(t, os.WriteFile(path, []byte("$PROBLEM x\n$EST METHOD=0\n"), 0o644))

	err := runCommand(t,
		"--file", path,
		"--section", "EST",
		"--text", "$EST METHOD=1",
		"--backup=false",
		"--quiet",
	)
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(dir, "NMdata_backup"))
}

func TestRoot_SpecFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run1.mod")
	require.NoError(t, os.WriteFile(path, []byte("$PROBLEM x\n$EST METHOD=0\n$COV\n"), 0o644))

	specPath := filepath.Join(dir, "edits.yaml")
	require.NoError(t, os.WriteFile(specPath, []byte(`edits:
  - section: EST
    text: "$EST METHOD=1"
  - section: COV
    text: "$COV PRINT=E"
`), 0o644))

	err := runCommand(t, "--file", path, "--spec", specPath, "--quiet")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "$PROBLEM x\n$EST METHOD=1\n\n$COV PRINT=E\n\n", string(data))
}

func TestRoot_StdoutUnwrapSingle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run1.mod")
	require.NoError(t, os.WriteFile(path, []byte("$PROBLEM x\n$EST METHOD=0\n"), 0o644))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{
		"--file", path,
		"--section", "EST",
		"--text", "$EST METHOD=1",
		"--stdout",
		"--quiet",
	})
	cmd.SetOut(&out)
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	// A single result with unwrap.single on prints the bare document.
	assert.Equal(t, "$PROBLEM x\n$EST METHOD=1\n\n", out.String())

	// The input file stays untouched in stdout mode.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "$PROBLEM x\n$EST METHOD=0\n", string(data))
}

func TestRoot_StdoutUnwrapSingleDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run1.mod")
	require.NoError(t, os.WriteFile(path, []byte("$PROBLEM x\n$EST METHOD=0\n"), 0o644))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{
		"--file", path,
		"--section", "EST",
		"--text", "$EST METHOD=1",
		"--stdout",
		"--unwrap-single=false",
		"--quiet",
	})
	cmd.SetOut(&out)
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Equal(t, "==> "+path+"\n$PROBLEM x\n$EST METHOD=1\n\n", out.String())
}

func TestRoot_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no_edit_arguments", args: []string{"--file", "x.mod"}},
		{name: "section_without_text", args: []string{"--file", "x.mod", "--section", "EST"}},
		{name: "section_and_spec", args: []string{"--file", "x.mod", "--section", "EST", "--text", "y", "--spec", "e.yaml"}},
		{name: "text_and_text_file", args: []string{"--file", "x.mod", "--section", "EST", "--text", "y", "--text-file", "z"}},
		{name: "stdout_and_output", args: []string{"--file", "x.mod", "--section", "EST", "--text", "y", "--stdout", "--output", "o.mod"}},
		{name: "first_policy", args: []string{"--file", "x.mod", "--section", "EST", "--text", "y", "--location", "first"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runCommand(t, tt.args...)
			require.Error(t, err)
			// Usage errors fire before any file I/O, so the missing
			// x.mod is never reported.
			assert.ErrorIs(t, err, editor.ErrUsage)
		})
	}
}

func TestFormatVersion(t *testing.T) {
	out := FormatVersion()
	assert.Contains(t, out, "nmwrite version info")
	assert.Contains(t, out, "Go:")
}
