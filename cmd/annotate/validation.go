package annotate

import (
	"fmt"
	"strings"

	"github.com/granodigital/report-annotate/internal/annotator"
)

// validateAnnotateArgs validates the command options before the run starts.
func validateAnnotateArgs(options *RunOptions, args []string) error {
	var issues []string

	if len(args) > 0 {
		issues = append(issues, fmt.Sprintf("unexpected positional arguments: %s", strings.Join(args, ", ")))
	}
	if options.MaxPerType < 0 {
		issues = append(issues, "'max-per-type' cannot be negative")
	}
	for _, raw := range options.Reports {
		if _, err := annotator.ParseReportRef(raw); err != nil {
			issues = append(issues, err.Error())
		}
	}

	if len(issues) > 0 {
		return fmt.Errorf("%s", strings.Join(issues, "; "))
	}

	return nil
}
