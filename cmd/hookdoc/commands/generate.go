package commands

import (
	"fmt"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/hookdoc/internal/config"
	"git.home.luguber.info/inful/hookdoc/internal/logfields"
	"git.home.luguber.info/inful/hookdoc/internal/metrics"
	"git.home.luguber.info/inful/hookdoc/internal/readme"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Target TargetFlags `embed:""`

	MetricsTextfile string `name:"metrics-textfile" help:"Write Prometheus metrics to this node_exporter textfile (overrides metrics.textfile)" placeholder:"PATH"`
}

// Run executes the generate command.
func (g *GenerateCmd) Run(globals *Global, root *CLI) error {
	cfg, err := loadConfig(root, g.Target)
	if err != nil {
		return err
	}
	if g.MetricsTextfile != "" {
		cfg.Metrics.Textfile = g.MetricsTextfile
	}

	ctx, cancel := signalContext()
	defer cancel()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var registry *prom.Registry
	if cfg.Metrics.Textfile != "" {
		registry = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	gen, err := readme.NewGenerator(cfg, readme.WithRecorder(recorder), readme.WithLogger(globals.Logger))
	if err != nil {
		return err
	}
	res, genErr := gen.Generate(ctx)
	if registry != nil {
		exportTextfile(cfg, registry)
	}
	if genErr != nil {
		return genErr
	}

	//nolint:forbidigo // fmt is used for user-facing messages
	fmt.Fprintf(globals.Out, "Wrote %s (%d hooks, %d bytes)\n", res.Output, res.Hooks, res.Bytes)
	return nil
}

func exportTextfile(cfg *config.Config, g prom.Gatherer) {
	if err := metrics.WriteTextfile(cfg.Metrics.Textfile, g); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
		return
	}
	slog.Debug("Metrics textfile written", logfields.Path(cfg.Metrics.Textfile))
}
