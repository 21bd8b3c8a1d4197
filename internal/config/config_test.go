package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slicevec/internal/corpus"
	"slicevec/internal/export"
)

func TestDefault_IsValidAndMatchesPublishedCorpus(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, corpus.DefaultGrid(), cfg.CorpusGrid())
	assert.Equal(t, corpus.Reference(), cfg.Reference)
	assert.Equal(t, export.DefaultNames(), cfg.Output.Names)
	assert.Equal(t, 9, cfg.Output.GzipLevel)
	assert.Equal(t, 1, cfg.Workers)
	assert.False(t, cfg.Compat.AliasZeroStart)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_OverridesSubset(t *testing.T) {
	cfg, err := Parse([]byte(`
grid:
  min: -3
  max: 3
  include_absent: false
reference: [1, 2, 3]
output:
  dir: vectors
  names:
    compact: a.json
    pretty: b.json
    gzip: a.json.gz
    base64: a.json.gz.b64
workers: 4
compat:
  alias_zero_start: true
`))
	require.NoError(t, err)

	assert.Equal(t, corpus.Grid{Min: -3, Max: 3}, cfg.CorpusGrid())
	assert.Equal(t, []int{1, 2, 3}, cfg.Reference)
	assert.Equal(t, "vectors", cfg.Output.Dir)
	assert.Equal(t, "a.json.gz.b64", cfg.Output.Names.Base64)
	assert.Equal(t, 9, cfg.Output.GzipLevel, "unset keys keep their defaults")
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.Compat.AliasZeroStart)
}

func TestParse_EmptyDocumentIsDefault(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":       "grid:\n  minimum: 1\n",
		"inverted grid":     "grid:\n  min: 5\n  max: 1\n",
		"too many workers":  "workers: 1000\n",
		"zero workers":      "workers: 0\n",
		"bad gzip level":    "output:\n  gzip_level: 11\n",
		"empty output dir":  "output:\n  dir: \"\"\n",
		"path in name":      "output:\n  names:\n    gzip: sub/test.gz\n",
		"duplicate name":    "output:\n  names:\n    pretty: test.json\n",
		"not yaml sequence": "reference: 7\n",
		"grid too large":    "grid:\n  min: -4096\n  max: 4096\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestValidate_SpecLimit(t *testing.T) {
	// 159 values per component: 159*159*158 = 3994398 specs.
	cfg := Default()
	cfg.Grid = Grid{Min: -79, Max: 79}
	require.NoError(t, cfg.Validate())
	require.LessOrEqual(t, cfg.CorpusGrid().Size(), MaxSpecs)

	cfg.Grid = Grid{Min: -79, Max: 79, IncludeAbsent: true}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "specs")
}

func TestLoad_OversizedGridIsConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grid:\n  min: -4096\n  max: 4096\n"), 0o644))

	_, err := Load(path)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, path, cerr.Path)
}

func TestLoad_WrapsErrorsWithPath(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "missing.yaml")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("workers: -1\n"), 0o644))
	_, err = Load(bad)
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, bad, cerr.Path)
}
