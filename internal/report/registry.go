// Package report applies matcher specifications to parsed report documents,
// producing findings for the annotation pipeline.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/ChrisTrenkamp/goxpath/tree"
	"github.com/ChrisTrenkamp/goxpath/tree/xmltree"
)

// Format identifies a supported report document format.
type Format int

const (
	// FormatUnknown indicates the format could not be identified.
	FormatUnknown Format = iota
	// FormatXML identifies tree-queryable XML reports.
	FormatXML
)

// String returns the human-readable string representation of a Format.
func (f Format) String() string {
	switch f {
	case FormatXML:
		return "xml"
	default:
		return "unknown"
	}
}

// ParseFormat converts a string identifier into a Format value. Adding a
// format means adding a variant here and a handler in ParseDocument.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "xml":
		return FormatXML, nil
	default:
		return FormatUnknown, fmt.Errorf("unsupported report format %q", raw)
	}
}

// ParseDocument parses raw report content into a queryable document tree.
func ParseDocument(format Format, r io.Reader) (tree.Node, error) {
	switch format {
	case FormatXML:
		doc, err := xmltree.ParseXML(r)
		if err != nil {
			return nil, fmt.Errorf("parse xml document: %w", err)
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}
