package annotate

import (
	"github.com/hashicorp/go-hclog"
)

// DefaultMaxPerType is the built-in cap on emitted annotations per severity.
const DefaultMaxPerType = 10

// Sink receives accepted findings. Emission is fire-and-forget; the order of
// Emit calls is externally observable and must match the emission order.
type Sink interface {
	Emit(f Finding)
}

// Grouper is an optional sink capability for collapsible log sections.
type Grouper interface {
	Group(name string)
	EndGroup()
}

// Pipeline orders findings by severity, caps each severity independently and
// emits the accepted remainder to a sink.
type Pipeline struct {
	MaxPerType int
	Logger     hclog.Logger
}

// NewPipeline creates a Pipeline with the provided cap, falling back to
// DefaultMaxPerType when the cap is not positive.
func NewPipeline(maxPerType int, logger hclog.Logger) *Pipeline {
	if maxPerType <= 0 {
		maxPerType = DefaultMaxPerType
	}
	return &Pipeline{MaxPerType: maxPerType, Logger: logger}
}

// Process partitions findings by severity preserving encounter order, caps
// each severity list at MaxPerType and emits the accepted findings in
// error, warning, notice order. It returns the tally of emitted findings and
// the per-severity skipped remainder. Capping is per severity, never global,
// so a flood of notices cannot crowd out a single error.
func (p *Pipeline) Process(findings []Finding, sink Sink) (Tally, SkippedSet) {
	var errors, warnings, notices []Finding
	for _, f := range findings {
		switch f.Severity {
		case SeverityError:
			errors = append(errors, f)
		case SeverityWarning:
			warnings = append(warnings, f)
		case SeverityNotice:
			notices = append(notices, f)
		}
	}

	var tally Tally
	var skipped SkippedSet
	skipped.Errors = p.emit(errors, sink, &tally.Errors, &tally.Total)
	skipped.Warnings = p.emit(warnings, sink, &tally.Warnings, &tally.Total)
	skipped.Notices = p.emit(notices, sink, &tally.Notices, &tally.Total)
	return tally, skipped
}

// emit sends up to MaxPerType findings to the sink and returns the remainder.
func (p *Pipeline) emit(findings []Finding, sink Sink, accepted, total *int) []Finding {
	limit := p.MaxPerType
	if limit <= 0 {
		limit = DefaultMaxPerType
	}
	for i, f := range findings {
		if i >= limit {
			return findings[i:]
		}
		sink.Emit(f)
		*accepted++
		*total++
	}
	return nil
}
