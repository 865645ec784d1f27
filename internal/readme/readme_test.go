package readme

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/hookdoc/internal/config"
	ferrors "git.home.luguber.info/inful/hookdoc/internal/foundation/errors"
	herrors "git.home.luguber.info/inful/hookdoc/internal/hooks/errors"
	"git.home.luguber.info/inful/hookdoc/internal/markdown"
	"git.home.luguber.info/inful/hookdoc/internal/metrics"
	rerrors "git.home.luguber.info/inful/hookdoc/internal/readme/errors"
)

var updateGolden = flag.Bool("update-golden", false, "update golden test files")

func testConfig(hooksDir, output string) *config.Config {
	cfg := config.Default()
	cfg.Hooks.Directory = hooksDir
	cfg.Output.Path = output
	return cfg
}

func writeHook(t *testing.T, root, dir, source string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, dir, config.DefaultSourceFile), []byte(source), 0o600))
}

func newGenerator(t *testing.T, cfg *config.Config, opts ...Option) *Generator {
	t.Helper()
	g, err := NewGenerator(cfg, opts...)
	require.NoError(t, err)
	return g
}

func TestGenerate_Golden(t *testing.T) {
	output := filepath.Join(t.TempDir(), "README.md")
	g := newGenerator(t, testConfig(filepath.Join("testdata", "hooks"), output))

	res, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Hooks)
	assert.Empty(t, res.AnchorProblems)

	// #nosec G304 -- test output
	got, err := os.ReadFile(output)
	require.NoError(t, err)

	golden := filepath.Join("testdata", "golden", "README.md")
	if *updateGolden {
		require.NoError(t, os.WriteFile(golden, got, 0o600))
	}
	// #nosec G304 -- test file
	want, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestGenerate_TwoHookScenario(t *testing.T) {
	root := t.TempDir()
	toggle := "export const useToggle = () => {};"
	debounce := "export const useDebounce = () => {};"
	writeHook(t, root, "use-toggle", toggle)
	writeHook(t, root, "use-debounce", debounce)
	output := filepath.Join(t.TempDir(), "README.md")

	_, err := newGenerator(t, testConfig(root, output)).Generate(context.Background())
	require.NoError(t, err)

	// #nosec G304 -- test output
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	doc := string(data)

	order := []string{
		"  - [useDebounce](#usedebounce)\n",
		"  - [useToggle](#usetoggle)\n",
		"### useDebounce\n\n```tsx\n" + debounce + "\n```\n",
		"### useToggle\n\n```tsx\n" + toggle + "\n```\n",
	}
	last := -1
	for _, want := range order {
		idx := strings.Index(doc, want)
		require.GreaterOrEqual(t, idx, 0, "missing %q", want)
		assert.Greater(t, idx, last, "%q out of order", want)
		last = idx
	}
}

func TestGenerate_EmbedsSourcesWithoutLoss(t *testing.T) {
	root := t.TempDir()
	sources := map[string]string{
		"use-fetch":         "import { useEffect } from 'react';\n\n// <T> & \"quotes\" {{ .Title }}\nexport const useFetch = () => {};\n",
		"use-local-storage": "export const useLocalStorage = (key: string) => key;\n",
		"use-fenced":        "/**\n * ```ts\n * useFenced();\n * ```\n */\nexport const useFenced = () => {};\n",
	}
	for dir, src := range sources {
		writeHook(t, root, dir, src)
	}
	output := filepath.Join(t.TempDir(), "README.md")

	_, err := newGenerator(t, testConfig(root, output)).Generate(context.Background())
	require.NoError(t, err)

	// #nosec G304 -- test output
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	outline, err := markdown.ParseOutline(data)
	require.NoError(t, err)
	assert.Empty(t, outline.VerifyAnchors())

	for anchor, dir := range map[string]string{"usefetch": "use-fetch", "uselocalstorage": "use-local-storage", "usefenced": "use-fenced"} {
		_, ok := outline.HeadingByID(anchor)
		require.True(t, ok, "heading %s", anchor)
		blocks := outline.CodeBlocksUnder(anchor)
		require.Len(t, blocks, 1, anchor)
		assert.Equal(t, "tsx", blocks[0].Language)
		assert.Equal(t, sources[dir], string(blocks[0].Content), anchor)
	}
	assert.Contains(t, string(data), "````tsx\n/**\n * ```ts")
}

func TestGenerate_Idempotent(t *testing.T) {
	output := filepath.Join(t.TempDir(), "README.md")
	g := newGenerator(t, testConfig(filepath.Join("testdata", "hooks"), output))

	first, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.True(t, first.Changed)
	// #nosec G304 -- test output
	before, err := os.ReadFile(output)
	require.NoError(t, err)

	second, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.NotEqual(t, first.RunID, second.RunID)
	// #nosec G304 -- test output
	after, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestGenerate_MissingRootLeavesOutputAbsent(t *testing.T) {
	output := filepath.Join(t.TempDir(), "README.md")
	g := newGenerator(t, testConfig(filepath.Join(t.TempDir(), "missing"), output))

	_, err := g.Generate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, herrors.ErrDirectoryRead)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
	assert.NoFileExists(t, output)
}

func TestGenerate_UnreadableSourceKeepsPreviousOutput(t *testing.T) {
	root := t.TempDir()
	writeHook(t, root, "use-a", "export const useA = 1;\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "use-b"), 0o750))
	output := filepath.Join(t.TempDir(), "README.md")
	require.NoError(t, os.WriteFile(output, []byte("previous\n"), 0o600))

	_, err := newGenerator(t, testConfig(root, output)).Generate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, herrors.ErrFileRead)

	// #nosec G304 -- test output
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "previous\n", string(data))
}

func TestGenerate_DuplicateIdentifierKeepsPreviousOutput(t *testing.T) {
	root := t.TempDir()
	writeHook(t, root, "use-x", "export const useX = 1;\n")
	writeHook(t, root, "use--x", "export const useX = 2;\n")
	output := filepath.Join(t.TempDir(), "README.md")
	require.NoError(t, os.WriteFile(output, []byte("previous\n"), 0o600))

	_, err := newGenerator(t, testConfig(root, output)).Generate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, herrors.ErrDuplicateIdentifier)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	// #nosec G304 -- test output
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "previous\n", string(data))
}

func TestGenerate_FailureNotLoggedAsError(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	output := filepath.Join(t.TempDir(), "README.md")

	_, err := newGenerator(t, testConfig(filepath.Join(t.TempDir(), "missing"), output), WithLogger(logger)).
		Generate(context.Background())
	require.Error(t, err)
	assert.Contains(t, logs.String(), "README generation failed")
	assert.NotContains(t, logs.String(), "level=ERROR")
}

func TestGenerate_WriteFailure(t *testing.T) {
	// The output path is an existing non-empty directory, so the final rename fails.
	output := filepath.Join(t.TempDir(), "README.md")
	require.NoError(t, os.MkdirAll(output, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(output, "keep"), []byte("x"), 0o600))

	_, err := newGenerator(t, testConfig(filepath.Join("testdata", "hooks"), output)).Generate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, rerrors.ErrFileWrite)
	assert.FileExists(t, filepath.Join(output, "keep"))

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(output), ".README.md.*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestGenerate_CancelledContext(t *testing.T) {
	output := filepath.Join(t.TempDir(), "README.md")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newGenerator(t, testConfig(filepath.Join("testdata", "hooks"), output)).Generate(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, output)
}

func TestGenerate_RecordsMetrics(t *testing.T) {
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	output := filepath.Join(t.TempDir(), "README.md")

	g := newGenerator(t, testConfig(filepath.Join("testdata", "hooks"), output), WithRecorder(rec))
	res, err := g.Generate(context.Background())
	require.NoError(t, err)

	g = newGenerator(t, testConfig(filepath.Join(t.TempDir(), "missing"), output), WithRecorder(rec))
	_, err = g.Generate(context.Background())
	require.Error(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			case m.GetCounter() != nil:
				values[mf.GetName()+"/"+m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
			}
		}
	}
	assert.InDelta(t, 3, values["hookdoc_hooks_discovered"], 0)
	assert.InDelta(t, float64(res.Bytes), values["hookdoc_document_bytes"], 0)
	assert.InDelta(t, 1, values["hookdoc_generation_outcomes_total/success"], 0)
	assert.InDelta(t, 1, values["hookdoc_generation_outcomes_total/failed"], 0)
	n, err := testutil.GatherAndCount(reg, "hookdoc_generation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewGenerator_TemplateOverride(t *testing.T) {
	tmpl := filepath.Join(t.TempDir(), "readme.tmpl")
	require.NoError(t, os.WriteFile(tmpl, []byte("# {{ .Title }}\n{{ range .Hooks }}- {{ .Identifier }} ({{ .Directory }})\n{{ end }}"), 0o600))

	cfg := testConfig(filepath.Join("testdata", "hooks"), filepath.Join(t.TempDir(), "README.md"))
	cfg.Document.Template = tmpl
	cfg.Document.Title = "Hooks"
	g := newGenerator(t, cfg)
	assert.Equal(t, tmpl, g.renderer.TemplateSource())

	doc, err := g.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "# Hooks\n- useEffectOnce (use-effect-once)\n- useIsFirstRender (use-is-first-render)\n- useToggle (use-toggle)\n", string(doc.Content))
}

func TestNewGenerator_TemplateErrors(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.tmpl")
	require.NoError(t, os.WriteFile(broken, []byte("{{ range .Hooks }"), 0o600))

	for name, path := range map[string]string{"missing": filepath.Join(dir, "nope.tmpl"), "unparsable": broken} {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig(filepath.Join("testdata", "hooks"), filepath.Join(dir, "README.md"))
			cfg.Document.Template = path
			_, err := NewGenerator(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, rerrors.ErrTemplate)
			assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
		})
	}
}

func TestRender_UnknownFieldFailsAsDocsError(t *testing.T) {
	tmpl := filepath.Join(t.TempDir(), "readme.tmpl")
	require.NoError(t, os.WriteFile(tmpl, []byte("{{ .Missing }}"), 0o600))
	r, err := NewRenderer(Options{TemplatePath: tmpl})
	require.NoError(t, err)

	_, err = r.Render(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, rerrors.ErrTemplate)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryDocs))
}

func TestCheck(t *testing.T) {
	output := filepath.Join(t.TempDir(), "README.md")
	g := newGenerator(t, testConfig(filepath.Join("testdata", "hooks"), output))
	ctx := context.Background()

	res, err := g.Check(ctx)
	require.NoError(t, err)
	assert.True(t, res.Missing)
	assert.ErrorIs(t, res.Err(), rerrors.ErrStale)
	assert.True(t, ferrors.HasCategory(res.Err(), ferrors.CategoryDocs))
	assert.NoFileExists(t, output)

	gen, err := g.Generate(ctx)
	require.NoError(t, err)
	res, err = g.Check(ctx)
	require.NoError(t, err)
	assert.True(t, res.UpToDate)
	assert.Equal(t, gen.Fingerprint, res.DiskFingerprint)
	assert.NoError(t, res.Err())

	require.NoError(t, os.WriteFile(output, []byte("# edited\n"), 0o600))
	res, err = g.Check(ctx)
	require.NoError(t, err)
	assert.False(t, res.UpToDate)
	assert.NotEqual(t, res.Fingerprint, res.DiskFingerprint)
	assert.ErrorIs(t, res.Err(), rerrors.ErrStale)
}

func TestCheck_CollidingAnchor(t *testing.T) {
	root := t.TempDir()
	writeHook(t, root, "native", "export const native = 1;\n")
	output := filepath.Join(t.TempDir(), "README.md")
	g := newGenerator(t, testConfig(root, output))

	gen, err := g.Generate(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, gen.AnchorProblems)

	res, err := g.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, res.UpToDate)
	err = res.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, rerrors.ErrDanglingAnchor))
}

func TestFenceFor(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"plain", "```"},
		{"inline `code` and ``two``", "```"},
		{"```ts\nx\n```", "````"},
		{"`````", "``````"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fenceFor([]byte(tt.src)), tt.src)
	}
}

func TestCodeBody(t *testing.T) {
	assert.Empty(t, codeBody(nil))
	assert.Equal(t, "a\n", codeBody([]byte("a")))
	assert.Equal(t, "a\n", codeBody([]byte("a\n")))
}

func TestWriteFile_PreservesModeAndCreatesParents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "docs", "README.md")
	require.NoError(t, WriteFile(path, []byte("one\n")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, defaultFileMode, info.Mode().Perm())

	require.NoError(t, os.Chmod(path, 0o600))
	require.NoError(t, WriteFile(path, []byte("two\n")))
	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// #nosec G304 -- test output
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two\n", string(data))
}
