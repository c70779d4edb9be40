package ci

import (
	"fmt"
	"os"

	"github.com/granodigital/report-annotate/internal/annotate"
)

// AppendTallyOutputs appends the run counters as step outputs to the file at
// path, in the order errors, warnings, notices, total.
func AppendTallyOutputs(path string, tally annotate.Tally) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open output file %q: %w", path, err)
	}
	defer f.Close()

	outputs := []struct {
		name  string
		value int
	}{
		{"errors", tally.Errors},
		{"warnings", tally.Warnings},
		{"notices", tally.Notices},
		{"total", tally.Total},
	}
	for _, out := range outputs {
		if _, err := fmt.Fprintf(f, "%s=%d\n", out.name, out.value); err != nil {
			return fmt.Errorf("write output %q: %w", out.name, err)
		}
	}
	return nil
}
