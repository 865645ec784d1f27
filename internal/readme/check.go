package readme

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	ferrors "git.home.luguber.info/inful/hookdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/hookdoc/internal/logfields"
	"git.home.luguber.info/inful/hookdoc/internal/markdown"
	rerrors "git.home.luguber.info/inful/hookdoc/internal/readme/errors"
)

// CheckResult reports whether the document on disk matches a fresh render.
type CheckResult struct {
	Output          string
	Missing         bool
	UpToDate        bool
	Fingerprint     string // fingerprint of the freshly rendered document
	DiskFingerprint string // fingerprint of the file on disk, empty when missing
	AnchorProblems  []markdown.AnchorProblem
}

// Err converts the result into a docs-category error, nil when the document is current
// and every anchor resolves.
func (r *CheckResult) Err() error {
	switch {
	case r.Missing:
		return ferrors.WrapError(fmt.Errorf("%w: %s does not exist", rerrors.ErrStale, r.Output), ferrors.CategoryDocs, "document is missing, run hookdoc generate").
			WithContext("path", r.Output).
			Build()
	case !r.UpToDate:
		return ferrors.WrapError(rerrors.ErrStale, ferrors.CategoryDocs, "document is out of date, run hookdoc generate").
			WithContext("path", r.Output).
			WithContext("fingerprint", r.Fingerprint).
			WithContext("disk_fingerprint", r.DiskFingerprint).
			Build()
	case len(r.AnchorProblems) > 0:
		descs := make([]string, 0, len(r.AnchorProblems))
		for _, p := range r.AnchorProblems {
			descs = append(descs, p.String())
		}
		return ferrors.WrapError(fmt.Errorf("%w: %s", rerrors.ErrDanglingAnchor, strings.Join(descs, "; ")), ferrors.CategoryDocs, "document has broken links").
			WithContext("path", r.Output).
			Build()
	}
	return nil
}

// Check renders the document in memory and compares it with the output file. Nothing
// is written. Errors are returned only when the document cannot be rendered or the
// output exists but cannot be read; staleness is reported through the result.
func (g *Generator) Check(ctx context.Context) (*CheckResult, error) {
	doc, err := g.Build(ctx)
	if err != nil {
		return nil, err
	}

	res := &CheckResult{
		Output:         g.output,
		Fingerprint:    doc.Fingerprint,
		AnchorProblems: doc.AnchorProblems,
	}

	disk, exists, err := readExisting(g.output)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read existing document").
			WithContext("path", g.output).
			Build()
	}
	if !exists {
		res.Missing = true
	} else {
		res.DiskFingerprint = fingerprint(disk)
		res.UpToDate = bytes.Equal(disk, doc.Content)
	}

	g.logger.Debug("README checked",
		logfields.Output(g.output),
		slog.Bool("up_to_date", res.UpToDate),
		slog.Bool("missing", res.Missing),
		logfields.Fingerprint(res.Fingerprint))
	return res, nil
}
