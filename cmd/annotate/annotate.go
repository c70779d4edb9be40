package annotate

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/granodigital/report-annotate/internal/annotate"
	"github.com/granodigital/report-annotate/internal/annotator"
	"github.com/granodigital/report-annotate/internal/ci"
	"github.com/granodigital/report-annotate/pkg/shared/config"
	"github.com/granodigital/report-annotate/pkg/shared/errors"
)

// RunOptions holds the command-line arguments for the annotate command.
type RunOptions struct {
	MatchersFile string   `json:"matchers_file,omitempty"`
	Reports      []string `json:"reports,omitempty"`
	MaxPerType   int      `json:"max_per_type,omitempty"`
	Token        string   `json:"-"`
}

// Global variables for configuration and command arguments
var (
	AppConfig       *config.Config
	logger          hclog.Logger
	annotateOptions RunOptions

	exampleAnnotateUsage = `  # Annotate using the matchers and reports from config.yml
  report-annotate annotate

  # Annotate JUnit XML reports with an explicit matcher file and a tighter cap
  report-annotate annotate --matchers matchers.yml --report "junit=build/test-results/**/*.xml" --max-per-type 5`

	AnnotateCmd = &cobra.Command{
		Use:                   "annotate [--matchers FILE] [--report NAME=GLOB ...] [--max-per-type N]",
		Short:                 "Extract findings from reports and surface them as workflow annotations",
		Example:               exampleAnnotateUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runAnnotate,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	if err := validateAnnotateArgs(&annotateOptions, args); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid arguments: %w", err), 1)
	}

	settings, err := prepareSettings(AppConfig, &annotateOptions)
	if err != nil {
		logger.Error("failed to prepare annotation settings", "error", err)
		return errors.NewCommandError(err, 1)
	}

	runCtx := ci.Resolve()
	if annotateOptions.Token != "" {
		runCtx.Token = annotateOptions.Token
	}

	reconciler, target, err := prepareReconciler(cmd.Context(), AppConfig, runCtx, logger)
	if err != nil {
		logger.Error("failed to prepare comment reconciler", "error", err)
		return errors.NewCommandError(err, 1)
	}

	sink := annotate.NewWorkflowSink(os.Stdout)
	tally, err := annotator.New(settings, logger).Run(cmd.Context(), sink, reconciler, target)
	if err != nil {
		logger.Error("annotation run failed", "error", err)
		return errors.NewCommandError(err, 1)
	}

	logger.Info("annotation run complete",
		"errors", tally.Errors, "warnings", tally.Warnings, "notices", tally.Notices, "total", tally.Total)
	if runCtx.OutputPath != "" {
		if err := ci.AppendTallyOutputs(runCtx.OutputPath, tally); err != nil {
			logger.Warn("failed to write step outputs", "error", err)
		}
	}
	return nil
}

func init() {
	AnnotateCmd.Flags().StringVarP(&annotateOptions.MatchersFile, "matchers", "m", "", "YAML file with matcher specifications (name to matcher)")
	AnnotateCmd.Flags().StringArrayVarP(&annotateOptions.Reports, "report", "r", nil, "Report to process as NAME=GLOB, where NAME is a matcher (repeatable)")
	AnnotateCmd.Flags().IntVar(&annotateOptions.MaxPerType, "max-per-type", 0, "Maximum annotations per severity type (default 10)")
	AnnotateCmd.Flags().StringVar(&annotateOptions.Token, "token", "", "API token for pull request comments (defaults to GITHUB_TOKEN)")
	AnnotateCmd.Flags().BoolP("help", "h", false, "Show help for annotate command.")
}
