package annotator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granodigital/report-annotate/internal/annotate"
	"github.com/granodigital/report-annotate/internal/comments"
	"github.com/granodigital/report-annotate/internal/matcher"
	"github.com/granodigital/report-annotate/pkg/shared/config"
)

const checkstyleReport = `<?xml version="1.0" encoding="UTF-8"?>
<checkstyle version="8.0">
  <file name="src/eval.c">
    <error line="12" column="5" severity="error" message="missing return"/>
    <error line="30" column="1" severity="warning" message="long line"/>
  </file>
</checkstyle>`

func checkstyleSpec() matcher.Spec {
	return matcher.Spec{
		Format:      "xml",
		Item:        "//file/error",
		Message:     "@message",
		File:        "../@name",
		StartLine:   "@line",
		StartColumn: "@column",
		Levels: []matcher.LevelRule{
			{Severity: annotate.SeverityWarning, Expr: "@severity = 'warning'"},
		},
	}
}

func writeReport(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestParseReportRef(t *testing.T) {
	tests := []struct {
		raw     string
		want    ReportRef
		wantErr bool
	}{
		{raw: "junit=build/*.xml", want: ReportRef{Matcher: "junit", Pattern: "build/*.xml"}},
		{raw: " junit = build/*.xml ", want: ReportRef{Matcher: "junit", Pattern: "build/*.xml"}},
		{raw: "junit", wantErr: true},
		{raw: "=build/*.xml", wantErr: true},
		{raw: "junit=", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseReportRef(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, "ref %q", tt.raw)
			continue
		}
		require.NoError(t, err, "ref %q", tt.raw)
		assert.Equal(t, tt.want, got)
	}
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "b.xml", checkstyleReport)
	writeReport(t, dir, "a.xml", checkstyleReport)

	a := New(config.Settings{
		Matchers: map[string]matcher.Spec{"checkstyle": checkstyleSpec()},
		Reports:  []string{"checkstyle=" + filepath.Join(dir, "*.xml")},
	}, hclog.NewNullLogger())

	findings, err := a.Collect()
	require.NoError(t, err)
	require.Len(t, findings, 4, "two findings per report file")

	first := findings[0]
	assert.Equal(t, annotate.SeverityError, first.Severity)
	assert.Equal(t, "missing return", first.Message)
	assert.Equal(t, "src/eval.c", first.File)
	assert.Equal(t, 12, first.StartLine)
	assert.Equal(t, 5, first.StartColumn)
	assert.Equal(t, annotate.SeverityWarning, findings[1].Severity)
}

func TestCollectUnknownMatcher(t *testing.T) {
	a := New(config.Settings{Reports: []string{"ghost=*.xml"}}, hclog.NewNullLogger())

	_, err := a.Collect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no matcher named "ghost"`)
}

func TestCollectNoMatchingFilesIsNotAnError(t *testing.T) {
	a := New(config.Settings{
		Matchers: map[string]matcher.Spec{"checkstyle": checkstyleSpec()},
		Reports:  []string{"checkstyle=" + filepath.Join(t.TempDir(), "*.xml")},
	}, hclog.NewNullLogger())

	findings, err := a.Collect()
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestCollectMalformedReportFailsFast(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "broken.xml", "<checkstyle><file></checkstyle>")

	a := New(config.Settings{
		Matchers: map[string]matcher.Spec{"checkstyle": checkstyleSpec()},
		Reports:  []string{"checkstyle=" + filepath.Join(dir, "*.xml")},
	}, hclog.NewNullLogger())

	_, err := a.Collect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.xml")
}

type tallySink struct {
	emitted []annotate.Finding
}

func (s *tallySink) Emit(f annotate.Finding) { s.emitted = append(s.emitted, f) }

func TestRunTallyCoversEmittedOnly(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "report.xml", checkstyleReport)

	a := New(config.Settings{
		MaxPerType: 1,
		Matchers:   map[string]matcher.Spec{"checkstyle": checkstyleSpec()},
		Reports:    []string{"checkstyle=" + filepath.Join(dir, "*.xml")},
	}, hclog.NewNullLogger())

	sink := &tallySink{}
	tally, err := a.Run(context.Background(), sink, nil, comments.Target{})
	require.NoError(t, err)

	assert.Equal(t, 1, tally.Errors)
	assert.Equal(t, 1, tally.Warnings)
	assert.Equal(t, 2, tally.Total)
	assert.Len(t, sink.emitted, 2)
}
