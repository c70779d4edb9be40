// Package matcher defines the declarative field-extraction specification for
// report files and the XPath evaluator that applies its selectors.
package matcher

import (
	"fmt"

	yaml "gopkg.in/yaml.v2"

	"github.com/granodigital/report-annotate/internal/annotate"
)

// LevelRule maps a severity to a boolean selector. Rules are evaluated in
// declaration order against each item; the first rule that evaluates true
// determines the item's severity.
type LevelRule struct {
	Severity annotate.Severity
	Expr     string
}

// Spec describes how findings are extracted from one report format. The item
// selector locates the repeating unit within a document; every other selector
// is evaluated relative to a matched item node. Selectors left empty keep the
// corresponding finding field unset.
type Spec struct {
	Format      string
	Item        string
	Levels      []LevelRule
	Message     string
	Title       string
	File        string
	StartLine   string
	EndLine     string
	StartColumn string
	EndColumn   string
}

// UnmarshalYAML decodes a matcher specification, preserving the declaration
// order of the level rules. The parsed severity names are validated here so a
// bad matcher fails at configuration time rather than mid-run.
func (s *Spec) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw struct {
		Format      string        `yaml:"format"`
		Item        string        `yaml:"item"`
		Level       yaml.MapSlice `yaml:"level"`
		Message     string        `yaml:"message"`
		Title       string        `yaml:"title"`
		File        string        `yaml:"file"`
		StartLine   string        `yaml:"startLine"`
		EndLine     string        `yaml:"endLine"`
		StartColumn string        `yaml:"startColumn"`
		EndColumn   string        `yaml:"endColumn"`
	}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	s.Format = raw.Format
	s.Item = raw.Item
	s.Message = raw.Message
	s.Title = raw.Title
	s.File = raw.File
	s.StartLine = raw.StartLine
	s.EndLine = raw.EndLine
	s.StartColumn = raw.StartColumn
	s.EndColumn = raw.EndColumn

	s.Levels = nil
	for _, entry := range raw.Level {
		name, ok := entry.Key.(string)
		if !ok {
			return fmt.Errorf("matcher level key %v is not a string", entry.Key)
		}
		expr, ok := entry.Value.(string)
		if !ok {
			return fmt.Errorf("matcher level %q does not map to a selector string", name)
		}
		severity, err := annotate.ParseSeverity(name)
		if err != nil {
			return fmt.Errorf("matcher level %q: %w", name, err)
		}
		s.Levels = append(s.Levels, LevelRule{Severity: severity, Expr: expr})
	}
	return nil
}
