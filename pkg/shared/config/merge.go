package config

import (
	"github.com/granodigital/report-annotate/internal/annotate"
	"github.com/granodigital/report-annotate/internal/matcher"
)

// Settings are the effective annotation options after layering command-line
// values over the file configuration over built-in defaults.
type Settings struct {
	MaxPerType int
	Matchers   map[string]matcher.Spec
	Reports    []string
}

// DefaultSettings returns the built-in annotation settings.
func DefaultSettings() Settings {
	return Settings{MaxPerType: annotate.DefaultMaxPerType}
}

// MergeSettings layers flag values over file configuration over defaults,
// field by field; the first layer with a set value wins. An empty report or
// matcher list counts as unset and falls through to the next layer, so an
// intentionally empty flag list cannot suppress configured reports.
func MergeSettings(flags, file, defaults Settings) Settings {
	out := defaults
	for _, layer := range []Settings{file, flags} {
		if layer.MaxPerType > 0 {
			out.MaxPerType = layer.MaxPerType
		}
		if len(layer.Matchers) > 0 {
			out.Matchers = layer.Matchers
		}
		if len(layer.Reports) > 0 {
			out.Reports = layer.Reports
		}
	}
	return out
}
