package annotate

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WorkflowSink emits findings as GitHub Actions workflow commands
// (e.g. "::error file=app.go,line=3::message") on the provided writer,
// which the runner picks up from stdout.
type WorkflowSink struct {
	out io.Writer
}

// NewWorkflowSink creates a sink writing workflow commands to out.
func NewWorkflowSink(out io.Writer) *WorkflowSink {
	return &WorkflowSink{out: out}
}

// Emit writes one annotation command for the finding.
func (s *WorkflowSink) Emit(f Finding) {
	command := f.Severity.String()
	props := formatProperties(f)
	if props != "" {
		fmt.Fprintf(s.out, "::%s %s::%s\n", command, props, escapeData(f.Message))
		return
	}
	fmt.Fprintf(s.out, "::%s::%s\n", command, escapeData(f.Message))
}

// Group opens a collapsible log section in the workflow output.
func (s *WorkflowSink) Group(name string) {
	fmt.Fprintf(s.out, "::group::%s\n", escapeData(name))
}

// EndGroup closes the current log section.
func (s *WorkflowSink) EndGroup() {
	fmt.Fprintln(s.out, "::endgroup::")
}

// formatProperties renders the set annotation properties in the order the
// runner documents them: file, line, endLine, col, endColumn, title.
func formatProperties(f Finding) string {
	var props []string
	add := func(key, value string) {
		props = append(props, key+"="+escapeProperty(value))
	}
	if f.File != "" {
		add("file", f.File)
	}
	if f.StartLine > 0 {
		add("line", strconv.Itoa(f.StartLine))
	}
	if f.EndLine > 0 {
		add("endLine", strconv.Itoa(f.EndLine))
	}
	if f.StartColumn > 0 {
		add("col", strconv.Itoa(f.StartColumn))
	}
	if f.EndColumn > 0 {
		add("endColumn", strconv.Itoa(f.EndColumn))
	}
	if f.Title != "" {
		add("title", f.Title)
	}
	return strings.Join(props, ",")
}

// escapeData escapes the message part of a workflow command.
func escapeData(s string) string {
	r := strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	return r.Replace(s)
}

// escapeProperty escapes a property value of a workflow command.
func escapeProperty(s string) string {
	r := strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
	return r.Replace(s)
}
