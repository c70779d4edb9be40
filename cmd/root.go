package cmd

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	annotatecmd "github.com/granodigital/report-annotate/cmd/annotate"
	"github.com/granodigital/report-annotate/cmd/version"
	"github.com/granodigital/report-annotate/pkg/shared/config"
	"github.com/granodigital/report-annotate/pkg/shared/errors"
	"github.com/granodigital/report-annotate/pkg/shared/logger"
)

const defaultConfigFile = "config.yml"

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "report-annotate [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Report-annotate turns test and lint reports into workflow annotations.",
		Long: `Report-annotate extracts findings from machine-generated test and lint
reports using declarative matchers, surfaces them as workflow annotations with a
per-severity cap, and reports the overflow on the pull request.`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml)")
	rootCmd.AddCommand(annotatecmd.AnnotateCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var cmdErr *errors.CommandError
		if stderrors.As(err, &cmdErr) {
			return cmdErr.ExitCode
		}
		return 1
	}
	return 0
}

func initConfig() {
	var err error

	// The config file is optional unless the user pointed at one explicitly.
	optional := cfgFile == ""
	if cfgFile == "" {
		cfgFile = defaultConfigFile
	}
	AppConfig, err = config.LoadConfig(cfgFile, optional)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize configuration: %v\n", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	annotatecmd.Init(AppConfig, logger.NewLogger(AppConfig, "core"))
}
