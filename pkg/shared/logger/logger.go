package logger

import (
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/granodigital/report-annotate/pkg/shared/config"
)

// NewLogger builds an hclog logger honoring the configured level first and
// the REPORT_ANNOTATE_LOG_LEVEL environment variable second.
func NewLogger(config *config.Config, name string) hclog.Logger {
	var logLevel hclog.Level

	if config != nil && config.Logger.Level != "" {
		logLevel = getLogLevel(strings.ToUpper(config.Logger.Level))
	} else {
		// env variables have the second priority
		logLevelEnv := os.Getenv("REPORT_ANNOTATE_LOG_LEVEL")
		logLevel = getLogLevel(strings.ToUpper(logLevelEnv))
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:        name,
		DisableTime: true,
		Output:      os.Stderr,
		Level:       logLevel,
	})

	return logger
}

func getLogLevel(levelStr string) hclog.Level {
	switch levelStr {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO":
		return hclog.Info
	case "WARN":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	default:
		return hclog.Info
	}
}
