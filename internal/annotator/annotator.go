// Package annotator orchestrates a full annotation run: report discovery,
// matcher application, the capped annotation pipeline and, on overflow, the
// pull request comment reconciliation.
package annotator

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/granodigital/report-annotate/internal/annotate"
	"github.com/granodigital/report-annotate/internal/comments"
	"github.com/granodigital/report-annotate/internal/matcher"
	"github.com/granodigital/report-annotate/internal/report"
	"github.com/granodigital/report-annotate/pkg/shared/config"
	"github.com/granodigital/report-annotate/pkg/shared/files"
)

// ReportRef pairs a matcher name with a file glob, parsed from "name=glob".
type ReportRef struct {
	Matcher string
	Pattern string
}

// ParseReportRef splits a "name=glob" report reference.
func ParseReportRef(raw string) (ReportRef, error) {
	name, pattern, ok := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	pattern = strings.TrimSpace(pattern)
	if !ok || name == "" || pattern == "" {
		return ReportRef{}, fmt.Errorf("report reference %q is not in name=glob form", raw)
	}
	return ReportRef{Matcher: name, Pattern: pattern}, nil
}

// Annotator executes annotation runs for a fixed set of settings.
type Annotator struct {
	settings config.Settings
	parser   *report.Parser
	logger   hclog.Logger
}

// New creates an Annotator.
func New(settings config.Settings, logger hclog.Logger) *Annotator {
	return &Annotator{
		settings: settings,
		parser:   report.NewParser(logger),
		logger:   logger,
	}
}

// Collect expands every configured report reference and parses the matched
// files through their matcher, accumulating findings in file-then-item order.
// Everything on this path is fail-fast: a malformed report, a bad selector or
// an unknown matcher aborts the run rather than under-reporting.
func (a *Annotator) Collect() ([]annotate.Finding, error) {
	var findings []annotate.Finding
	for _, raw := range a.settings.Reports {
		ref, err := ParseReportRef(raw)
		if err != nil {
			return nil, err
		}

		spec, ok := a.settings.Matchers[ref.Matcher]
		if !ok {
			return nil, fmt.Errorf("no matcher named %q for report %q", ref.Matcher, raw)
		}
		format, err := report.ParseFormat(spec.Format)
		if err != nil {
			return nil, fmt.Errorf("matcher %q: %w", ref.Matcher, err)
		}

		pattern, err := files.ExpandPath(ref.Pattern)
		if err != nil {
			return nil, fmt.Errorf("report pattern %q: %w", ref.Pattern, err)
		}
		paths, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid report pattern %q: %w", ref.Pattern, err)
		}
		if len(paths) == 0 {
			a.logger.Warn("no report files matched pattern", "matcher", ref.Matcher, "pattern", ref.Pattern)
			continue
		}
		sort.Strings(paths)

		for _, path := range paths {
			parsed, err := a.parseFile(spec, format, path)
			if err != nil {
				return nil, err
			}
			findings = append(findings, parsed...)
		}
	}
	return findings, nil
}

func (a *Annotator) parseFile(spec matcher.Spec, format report.Format, path string) ([]annotate.Finding, error) {
	a.logger.Debug("parsing report file", "path", path)
	data, err := files.ReadReportFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := report.ParseDocument(format, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("report %q: %w", path, err)
	}
	parsed, err := a.parser.Parse(spec, doc)
	if err != nil {
		return nil, fmt.Errorf("report %q: %w", path, err)
	}
	return parsed, nil
}

// Run collects all findings, pushes them through the capped pipeline and, if
// anything was skipped, reconciles the overflow onto the pull request. The
// returned tally covers emitted findings only and is reported regardless of
// whether a comment was created.
func (a *Annotator) Run(ctx context.Context, sink annotate.Sink, reconciler *comments.Reconciler, target comments.Target) (annotate.Tally, error) {
	findings, err := a.Collect()
	if err != nil {
		return annotate.Tally{}, err
	}

	if grouper, ok := sink.(annotate.Grouper); ok {
		grouper.Group("Annotations")
		defer grouper.EndGroup()
	}

	pipeline := annotate.NewPipeline(a.settings.MaxPerType, a.logger)
	tally, skipped := pipeline.Process(findings, sink)

	if n := skipped.Total(); n > 0 {
		a.logger.Warn("annotation limit exceeded; reporting the overflow on the pull request",
			"max_per_type", pipeline.MaxPerType, "skipped", n)
		if reconciler != nil {
			reconciler.Reconcile(ctx, target, skipped, pipeline.MaxPerType)
		}
	}
	return tally, nil
}
