package editor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andersone1/NMdata/pkg/ctl"
)

func writeSpecFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSpec_YAML(t *testing.T) {
	path := writeSpecFile(t, "edits.yaml", `edits:
  - section: EST
    text: |
      $EST METHOD=1 INTER
      MAXEVAL=9999
  - section: COV
    text: "$COV PRINT=E"
`)

	spec, err := LoadSpec(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, spec, 2)

	assert.Equal(t, "EST", spec[0].Section)
	assert.Equal(t, ctl.Document{"$EST METHOD=1 INTER", "MAXEVAL=9999"}, spec[0].Lines)
	assert.Equal(t, "COV", spec[1].Section)
	assert.Equal(t, ctl.Document{"$COV PRINT=E"}, spec[1].Lines)
}

func TestLoadSpec_YAMLUnknownField(t *testing.T) {
	path := writeSpecFile(t, "edits.yaml", `edits:
  - section: EST
    body: nope
`)

	_, err := LoadSpec(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}

func TestLoadSpec_HCL(t *testing.T) {
	path := writeSpecFile(t, "edits.hcl", `edit "EST" {
  text = "$EST METHOD=1 INTER\nMAXEVAL=9999"
}

edit "COV" {
  text = "$COV PRINT=E"
}
`)

	spec, err := LoadSpec(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, spec, 2)

	assert.Equal(t, "EST", spec[0].Section)
	assert.Equal(t, ctl.Document{"$EST METHOD=1 INTER", "MAXEVAL=9999"}, spec[0].Lines)
	assert.Equal(t, "COV", spec[1].Section)
}

func TestLoadSpec_EmptySectionRejected(t *testing.T) {
	path := writeSpecFile(t, "edits.yaml", `edits:
  - section: ""
    text: "$EST METHOD=1"
`)

	_, err := LoadSpec(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUsage)
}

func TestLoadSpec_NoParser(t *testing.T) {
	path := writeSpecFile(t, "edits.toml", `x = 1`)

	_, err := LoadSpec(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no parser found")
}

func TestGetSpecParser(t *testing.T) {
	assert.IsType(t, &YAMLSpecParser{}, GetSpecParser("edits.yml"))
	assert.IsType(t, &HCLSpecParser{}, GetSpecParser("edits.hcl"))
	assert.Nil(t, GetSpecParser("edits.json"))
}
