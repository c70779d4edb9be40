package annotate

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	emitted []Finding
}

func (s *recordingSink) Emit(f Finding) {
	s.emitted = append(s.emitted, f)
}

func repeat(severity Severity, n int) []Finding {
	findings := make([]Finding, n)
	for i := range findings {
		findings[i] = Finding{Severity: severity, Message: severity.String(), StartLine: 1}
	}
	return findings
}

func TestProcessCapsEachSeverityIndependently(t *testing.T) {
	testCases := []struct {
		name       string
		maxPerType int
		errors     int
		warnings   int
		notices    int
	}{
		{name: "NoOverflow", maxPerType: 10, errors: 3, warnings: 2, notices: 1},
		{name: "AllOverflow", maxPerType: 2, errors: 5, warnings: 4, notices: 3},
		{name: "OneSeverityOnly", maxPerType: 10, notices: 25},
		{name: "ExactCap", maxPerType: 4, errors: 4, warnings: 4, notices: 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var findings []Finding
			findings = append(findings, repeat(SeverityNotice, tc.notices)...)
			findings = append(findings, repeat(SeverityError, tc.errors)...)
			findings = append(findings, repeat(SeverityWarning, tc.warnings)...)

			sink := &recordingSink{}
			tally, skipped := NewPipeline(tc.maxPerType, hclog.NewNullLogger()).Process(findings, sink)

			accept := func(n int) int {
				if n > tc.maxPerType {
					return tc.maxPerType
				}
				return n
			}
			skip := func(n int) int {
				if n > tc.maxPerType {
					return n - tc.maxPerType
				}
				return 0
			}

			assert.Equal(t, accept(tc.errors), tally.Errors)
			assert.Equal(t, accept(tc.warnings), tally.Warnings)
			assert.Equal(t, accept(tc.notices), tally.Notices)
			assert.Equal(t, accept(tc.errors)+accept(tc.warnings)+accept(tc.notices), tally.Total)

			assert.Len(t, skipped.Errors, skip(tc.errors))
			assert.Len(t, skipped.Warnings, skip(tc.warnings))
			assert.Len(t, skipped.Notices, skip(tc.notices))
		})
	}
}

func TestProcessSeverityPriorityNeverTradesCaps(t *testing.T) {
	// One error and one warning with a cap of one per type: the error is
	// accepted and the warning is also accepted, because caps are per
	// severity. A warning arriving first must not displace the error.
	findings := []Finding{
		{Severity: SeverityWarning, Message: "w", StartLine: 1},
		{Severity: SeverityError, Message: "e", StartLine: 1},
	}

	sink := &recordingSink{}
	tally, skipped := NewPipeline(1, hclog.NewNullLogger()).Process(findings, sink)

	require.Len(t, sink.emitted, 2)
	assert.Equal(t, SeverityError, sink.emitted[0].Severity, "errors are emitted before warnings")
	assert.Equal(t, SeverityWarning, sink.emitted[1].Severity)
	assert.Equal(t, 1, tally.Errors)
	assert.Equal(t, 1, tally.Warnings)
	assert.Equal(t, 0, skipped.Total())
}

func TestProcessEmitsInSeverityThenEncounterOrder(t *testing.T) {
	findings := []Finding{
		{Severity: SeverityNotice, Message: "n1", StartLine: 1},
		{Severity: SeverityError, Message: "e1", StartLine: 1},
		{Severity: SeverityWarning, Message: "w1", StartLine: 1},
		{Severity: SeverityError, Message: "e2", StartLine: 1},
	}

	sink := &recordingSink{}
	NewPipeline(10, hclog.NewNullLogger()).Process(findings, sink)

	var order []string
	for _, f := range sink.emitted {
		order = append(order, f.Message)
	}
	assert.Equal(t, []string{"e1", "e2", "w1", "n1"}, order)
}

func TestProcessSkipsPreserveEncounterOrder(t *testing.T) {
	findings := []Finding{
		{Severity: SeverityError, Message: "first", StartLine: 1},
		{Severity: SeverityError, Message: "second", StartLine: 1},
		{Severity: SeverityError, Message: "third", StartLine: 1},
	}

	sink := &recordingSink{}
	tally, skipped := NewPipeline(1, hclog.NewNullLogger()).Process(findings, sink)

	assert.Equal(t, 1, tally.Errors)
	require.Len(t, skipped.Errors, 2)
	assert.Equal(t, "second", skipped.Errors[0].Message)
	assert.Equal(t, "third", skipped.Errors[1].Message)
}
