package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/hookdoc/internal/foundation/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hookdoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, "./src/hooks", cfg.Hooks.Directory)
	assert.Equal(t, "index.ts", cfg.Hooks.SourceFile)
	assert.Equal(t, "./README.md", cfg.Output.Path)
	assert.Equal(t, "(React) `useHooks`", cfg.Document.Title)
	assert.Equal(t, "tsx", cfg.Document.CodeLanguage)
	assert.Len(t, cfg.Document.Native.Hooks, 10)
	assert.Equal(t, "useState", cfg.Document.Native.Hooks[0])
	assert.Equal(t, "useDebugValue", cfg.Document.Native.Hooks[9])
	assert.Equal(t, DefaultReferences(), cfg.Document.References)
	assert.Equal(t, 300*time.Millisecond, cfg.Watch.DebounceDuration())
	assert.Zero(t, cfg.Watch.IntervalDuration())
	require.NoError(t, ValidateConfig(cfg))
}

func TestLoad(t *testing.T) {
	t.Setenv("HOOKDOC_TEST_OUT", "docs/HOOKS.md")
	path := writeConfig(t, `version: "1.0"
hooks:
  directory: ./hooks
  source_file: index.tsx
  exclude: [internal]
output:
  path: ${HOOKDOC_TEST_OUT}
document:
  code_language: typescript
  native:
    hooks: []
watch:
  debounce: 1s
  interval: 5m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./hooks", cfg.Hooks.Directory)
	assert.Equal(t, "index.tsx", cfg.Hooks.SourceFile)
	assert.Equal(t, []string{"internal"}, cfg.Hooks.Exclude)
	assert.Equal(t, "docs/HOOKS.md", cfg.Output.Path)
	assert.Equal(t, "typescript", cfg.Document.CodeLanguage)
	assert.Empty(t, cfg.Document.Native.Hooks, "explicit empty list must be kept")
	assert.Equal(t, DefaultNativeBaseURL, cfg.Document.Native.BaseURL)
	assert.Equal(t, DefaultTitle, cfg.Document.Title)
	assert.Equal(t, time.Second, cfg.Watch.DebounceDuration())
	assert.Equal(t, 5*time.Minute, cfg.Watch.IntervalDuration())
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		category ferrors.ErrorCategory
	}{
		{"unknown field", "hooks:\n  dir: x\n", ferrors.CategoryConfig},
		{"bad version", "version: \"2.0\"\n", ferrors.CategoryConfig},
		{"source file path", "hooks:\n  source_file: a/index.ts\n", ferrors.CategoryValidation},
		{"bad language", "document:\n  code_language: \"ts x\"\n", ferrors.CategoryValidation},
		{"relative base url", "document:\n  native:\n    base_url: /docs\n", ferrors.CategoryValidation},
		{"reference without name", "document:\n  references:\n    - url: https://example.com\n", ferrors.CategoryValidation},
		{"bad debounce", "watch:\n  debounce: soon\n", ferrors.CategoryValidation},
		{"short interval", "watch:\n  interval: 10ms\n", ferrors.CategoryValidation},
		{"bad listen", "metrics:\n  listen: localhost\n", ferrors.CategoryValidation},
		{"missing template", "document:\n  template: /does/not/exist.tmpl\n", ferrors.CategoryValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, ferrors.HasCategory(err, tt.category), "got %v", err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestResolve(t *testing.T) {
	t.Run("built-in defaults without a file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cfg, used, err := Resolve("")
		require.NoError(t, err)
		assert.Empty(t, used)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("picks up hookdoc.yaml from the working directory", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		require.NoError(t, os.WriteFile(DefaultConfigFile, []byte("output:\n  path: HOOKS.md\n"), 0o600))

		cfg, used, err := Resolve("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfigFile, used)
		assert.Equal(t, "HOOKS.md", cfg.Output.Path)
	})

	t.Run("explicit missing path fails", func(t *testing.T) {
		_, _, err := Resolve(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})
}

func TestValidateConfig_OutputIsDirectory(t *testing.T) {
	cfg := Default()
	cfg.Output.Path = t.TempDir()
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hookdoc.yaml")

	require.NoError(t, Init(path, false))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	err = Init(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, Init(path, true))
}
