package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/ChrisTrenkamp/goxpath/tree"
	"github.com/hashicorp/go-hclog"

	"github.com/granodigital/report-annotate/internal/annotate"
	"github.com/granodigital/report-annotate/internal/matcher"
)

// Parser applies one matcher specification to one parsed document.
type Parser struct {
	eval   *matcher.Evaluator
	logger hclog.Logger
}

// NewParser creates a Parser with a fresh evaluator.
func NewParser(logger hclog.Logger) *Parser {
	return &Parser{eval: matcher.NewEvaluator(), logger: logger}
}

// Parse evaluates the matcher's item selector against the document and
// extracts one finding per matched item. A document with no matching items is
// not an error; the run continues with zero findings. Any selector failure
// while processing an item is logged and then returned, aborting the run:
// a malformed report must fail rather than silently under-report.
func (p *Parser) Parse(spec matcher.Spec, doc tree.Node) ([]annotate.Finding, error) {
	items, err := p.eval.Nodes(spec.Item, doc)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		p.logger.Warn("no items found in report", "selector", spec.Item)
		return nil, nil
	}

	var findings []annotate.Finding
	for _, item := range items {
		finding, ok, err := p.extract(spec, item)
		if err != nil {
			p.logger.Warn("failed to evaluate report item", "error", err)
			return nil, err
		}
		if !ok {
			continue
		}
		findings = append(findings, finding)
	}
	return findings, nil
}

// extract builds a finding from one item node. ok is false when the item is
// discarded: an ignored severity or an empty message.
func (p *Parser) extract(spec matcher.Spec, item tree.Node) (annotate.Finding, bool, error) {
	severity, err := p.resolveSeverity(spec, item)
	if err != nil {
		return annotate.Finding{}, false, err
	}
	if severity == annotate.SeverityIgnore {
		return annotate.Finding{}, false, nil
	}

	message, err := p.eval.String(spec.Message, item)
	if err != nil {
		return annotate.Finding{}, false, fmt.Errorf("message: %w", err)
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return annotate.Finding{}, false, nil
	}

	finding := annotate.Finding{Severity: severity, Message: message}
	if finding.Title, err = p.optionalString(spec.Title, item); err != nil {
		return annotate.Finding{}, false, fmt.Errorf("title: %w", err)
	}
	if finding.File, err = p.optionalString(spec.File, item); err != nil {
		return annotate.Finding{}, false, fmt.Errorf("file: %w", err)
	}
	if finding.StartLine, err = p.optionalNumber(spec.StartLine, item); err != nil {
		return annotate.Finding{}, false, fmt.Errorf("startLine: %w", err)
	}
	if finding.EndLine, err = p.optionalNumber(spec.EndLine, item); err != nil {
		return annotate.Finding{}, false, fmt.Errorf("endLine: %w", err)
	}
	if finding.StartColumn, err = p.optionalNumber(spec.StartColumn, item); err != nil {
		return annotate.Finding{}, false, fmt.Errorf("startColumn: %w", err)
	}
	if finding.EndColumn, err = p.optionalNumber(spec.EndColumn, item); err != nil {
		return annotate.Finding{}, false, fmt.Errorf("endColumn: %w", err)
	}

	// Location-capable sinks always get a start line.
	if finding.StartLine == 0 {
		finding.StartLine = 1
	}
	return finding, true, nil
}

// resolveSeverity walks the level rules in declaration order; the first rule
// whose selector evaluates true wins. Items matching no rule are errors.
func (p *Parser) resolveSeverity(spec matcher.Spec, item tree.Node) (annotate.Severity, error) {
	for _, rule := range spec.Levels {
		ok, err := p.eval.Boolean(rule.Expr, item)
		if err != nil {
			return annotate.SeverityError, fmt.Errorf("level %s: %w", rule.Severity, err)
		}
		if ok {
			return rule.Severity, nil
		}
	}
	return annotate.SeverityError, nil
}

func (p *Parser) optionalString(selector string, item tree.Node) (string, error) {
	if selector == "" {
		return "", nil
	}
	value, err := p.eval.String(selector, item)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// optionalNumber evaluates a numeric selector; an omitted selector, a
// non-numeric result or a value below one all leave the field unset.
func (p *Parser) optionalNumber(selector string, item tree.Node) (int, error) {
	if selector == "" {
		return 0, nil
	}
	value, err := p.eval.Number(selector, item)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || value < 1 {
		return 0, nil
	}
	return int(value), nil
}
