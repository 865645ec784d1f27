package readme

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/hookdoc/internal/config"
	ferrors "git.home.luguber.info/inful/hookdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/hookdoc/internal/hooks"
	"git.home.luguber.info/inful/hookdoc/internal/logfields"
	"git.home.luguber.info/inful/hookdoc/internal/markdown"
	"git.home.luguber.info/inful/hookdoc/internal/metrics"
)

// Document is a rendered README held in memory.
type Document struct {
	Sections       []hooks.Section
	Content        []byte
	Fingerprint    string
	AnchorProblems []markdown.AnchorProblem
}

// Result summarises one Generate run.
type Result struct {
	RunID          string
	Output         string
	Hooks          int
	Bytes          int
	Fingerprint    string
	Changed        bool // content differs from what was on disk before the run
	Duration       time.Duration
	AnchorProblems []markdown.AnchorProblem
}

// Generator renders the hooks README for one configuration.
type Generator struct {
	discovery *hooks.Discovery
	renderer  *Renderer
	output    string
	recorder  metrics.Recorder
	logger    *slog.Logger
}

// Option customises a Generator.
type Option func(*Generator)

// WithRecorder sets the metrics recorder. The default records nothing.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithLogger sets the logger used for run summaries. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGenerator builds a generator from cfg. The layout template is parsed here so a
// broken override fails before any file is touched.
func NewGenerator(cfg *config.Config, opts ...Option) (*Generator, error) {
	renderer, err := NewRenderer(OptionsFromConfig(cfg.Document))
	if err != nil {
		return nil, err
	}
	g := &Generator{
		discovery: hooks.NewDiscovery(cfg.Hooks.Directory, cfg.Hooks.SourceFile, cfg.Hooks.Exclude),
		renderer:  renderer,
		output:    cfg.Output.Path,
		recorder:  metrics.NoopRecorder{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Output returns the path the document is written to.
func (g *Generator) Output() string { return g.output }

// Build discovers hooks, reads every source and renders the document without writing
// it. Any read failure aborts the build.
func (g *Generator) Build(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sections, err := g.discovery.Sections()
	if err != nil {
		return nil, err
	}
	content, err := g.renderer.Render(sections)
	if err != nil {
		return nil, err
	}

	outline, err := markdown.ParseOutline(content)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "analyse rendered document").Build()
	}

	return &Document{
		Sections:       sections,
		Content:        content,
		Fingerprint:    fingerprint(content),
		AnchorProblems: outline.VerifyAnchors(),
	}, nil
}

// Generate builds the document and replaces the output file with it.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := g.logger.With(logfields.RunID(runID))

	res, err := g.generate(ctx, runID, log)
	elapsed := time.Since(start)
	g.recorder.ObserveGenerationDuration(elapsed)
	if err != nil {
		g.recorder.IncGenerationOutcome(metrics.OutcomeFailed)
		log.Debug("README generation failed", logfields.Duration(elapsed), logfields.Error(err))
		return nil, err
	}
	res.Duration = elapsed
	g.recorder.IncGenerationOutcome(metrics.OutcomeSuccess)

	log.Info("README generated",
		logfields.Output(res.Output),
		logfields.Count(res.Hooks),
		logfields.Bytes(res.Bytes),
		logfields.Fingerprint(res.Fingerprint),
		slog.Bool("changed", res.Changed),
		logfields.Duration(elapsed))
	return res, nil
}

func (g *Generator) generate(ctx context.Context, runID string, log *slog.Logger) (*Result, error) {
	doc, err := g.Build(ctx)
	if err != nil {
		return nil, err
	}
	g.recorder.SetHooksDiscovered(len(doc.Sections))
	for _, p := range doc.AnchorProblems {
		log.Warn("Dangling anchor in generated document", slog.String("anchor", p.Anchor), slog.String("reason", p.Reason))
	}

	previous, _, err := readExisting(g.output)
	if err != nil {
		log.Debug("Previous document unreadable", logfields.Output(g.output), logfields.Error(err))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := WriteFile(g.output, doc.Content); err != nil {
		return nil, err
	}
	g.recorder.SetDocumentBytes(len(doc.Content))

	return &Result{
		RunID:          runID,
		Output:         g.output,
		Hooks:          len(doc.Sections),
		Bytes:          len(doc.Content),
		Fingerprint:    doc.Fingerprint,
		Changed:        !bytes.Equal(previous, doc.Content),
		AnchorProblems: doc.AnchorProblems,
	}, nil
}

// readExisting returns the current output content. A missing file is not an error.
func readExisting(path string) ([]byte, bool, error) {
	// #nosec G304 -- output path comes from configuration.
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func fingerprint(content []byte) string {
	return mdfp.CalculateFingerprintFromParts("", string(content))
}
