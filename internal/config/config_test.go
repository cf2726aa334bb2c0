package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/cgpa/internal/grades"
	"github.com/jeanpaul/cgpa/internal/schema"
)

// TestDefaultMode verifies catalog mode is the default
func TestDefaultMode(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ModeCatalog, cfg.Mode)
	assert.Equal(t, FormatCSV, cfg.Export.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode: free
export:
  dir: $CGPA_TEST_OUT
  format: xlsx
log:
  file: "-"
  level: debug
`), 0644))
	t.Setenv("CGPA_TEST_OUT", "/tmp/out")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ModeFree, cfg.Mode)
	assert.Equal(t, "/tmp/out", cfg.Export.Dir)
	assert.Equal(t, FormatXLSX, cfg.Export.Format)
	assert.Equal(t, "-", cfg.Log.File)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: catalog\n"), 0644))
	t.Setenv("CGPA_MODE", "free")
	t.Setenv("CGPA_EXPORT_FORMAT", "xlsx")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ModeFree, cfg.Mode)
	assert.Equal(t, FormatXLSX, cfg.Export.Format)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate_Rejects(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = "fixed"
	assert.ErrorContains(t, cfg.Validate(), "mode")

	cfg = DefaultConfig()
	cfg.Export.Format = "pdf"
	assert.ErrorContains(t, cfg.Validate(), "export.format")

	cfg = DefaultConfig()
	cfg.Log.Level = "trace"
	assert.ErrorContains(t, cfg.Validate(), "log.level")
}

func TestCatalogFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cat", "catalog.yaml")
	require.NoError(t, WriteCatalogFile(path, grades.DefaultCatalog()))

	c, err := ReadCatalogFile(path, schema.NewValidator())
	require.NoError(t, err)
	assert.Equal(t, grades.DefaultCatalog().Labels(), c.Labels())
}

func TestReadCatalogFile_SchemaViolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("semesters:\n  - label: s1\n    credits: -2\n"), 0644))

	_, err := ReadCatalogFile(path, schema.NewValidator())
	assert.ErrorContains(t, err, "schema validation failed")
}

func TestReadCatalogFile_Duplicate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
semesters:
  - {label: s1, credits: 20}
  - {label: s1, credits: 18}
`), 0644))

	_, err := ReadCatalogFile(path, schema.NewValidator())
	assert.ErrorIs(t, err, grades.ErrValidation)
}

func TestLoadCatalog_DefaultWhenUnset(t *testing.T) {
	c, err := LoadCatalog(DefaultConfig(), schema.NewValidator())
	require.NoError(t, err)
	assert.Equal(t, 8, c.Len())
}
