package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granodigital/report-annotate/internal/annotate"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "config.yml", `
logger:
  level: debug
annotate:
  max_per_type: 5
  reports:
    - junit=build/reports/*.xml
  matchers:
    junit:
      format: xml
      item: //testcase[failure]
      message: failure/text()
`)

	cfg, err := LoadConfig(path, false)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 5, cfg.Annotate.MaxPerType)
	assert.Equal(t, []string{"junit=build/reports/*.xml"}, cfg.Annotate.Reports)
	require.Contains(t, cfg.Annotate.Matchers, "junit")
	assert.Equal(t, "//testcase[failure]", cfg.Annotate.Matchers["junit"].Item)
}

func TestLoadConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yml")

	cfg, err := LoadConfig(path, true)
	require.NoError(t, err, "a missing optional config falls back to the zero value")
	assert.Zero(t, cfg.Annotate.MaxPerType)

	_, err = LoadConfig(path, false)
	assert.Error(t, err)
}

func TestLoadConfigDirectory(t *testing.T) {
	_, err := LoadConfig(t.TempDir(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}

func TestLoadMatchers(t *testing.T) {
	path := writeFile(t, "matchers.yml", `
checkstyle:
  format: xml
  item: //file/error
  message: "@message"
  file: ../@name
  startLine: "@line"
  level:
    warning: "@severity = 'warning'"
    notice: "@severity = 'info'"
`)

	matchers, err := LoadMatchers(path)
	require.NoError(t, err)
	require.Contains(t, matchers, "checkstyle")

	spec := matchers["checkstyle"]
	assert.Equal(t, "//file/error", spec.Item)
	assert.Equal(t, "../@name", spec.File)
	require.Len(t, spec.Levels, 2)
	assert.Equal(t, annotate.SeverityWarning, spec.Levels[0].Severity)
	assert.Equal(t, annotate.SeverityNotice, spec.Levels[1].Severity)
}

func TestLoadMatchersMissingFile(t *testing.T) {
	_, err := LoadMatchers(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}
