package annotate

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/granodigital/report-annotate/internal/ci"
	"github.com/granodigital/report-annotate/internal/comments"
	"github.com/granodigital/report-annotate/pkg/shared/config"
	"github.com/granodigital/report-annotate/pkg/shared/errors"
	"github.com/granodigital/report-annotate/pkg/shared/files"
	"github.com/granodigital/report-annotate/pkg/shared/httpclient"
)

// prepareSettings layers the command-line options over the file configuration
// over the built-in defaults and validates the result.
func prepareSettings(cfg *config.Config, options *RunOptions) (config.Settings, error) {
	flags := config.Settings{
		MaxPerType: options.MaxPerType,
		Reports:    options.Reports,
	}
	if options.MatchersFile != "" {
		path, err := files.ExpandPath(options.MatchersFile)
		if err != nil {
			return config.Settings{}, fmt.Errorf("matchers file %q: %w", options.MatchersFile, err)
		}
		matchers, err := config.LoadMatchers(path)
		if err != nil {
			return config.Settings{}, err
		}
		flags.Matchers = matchers
	}

	file := config.Settings{}
	if cfg != nil {
		file = config.Settings{
			MaxPerType: cfg.Annotate.MaxPerType,
			Matchers:   cfg.Annotate.Matchers,
			Reports:    cfg.Annotate.Reports,
		}
	}

	settings := config.MergeSettings(flags, file, config.DefaultSettings())
	if err := config.ValidateMatchers(settings.Matchers); err != nil {
		return config.Settings{}, errors.NewConfigError("matchers", err)
	}
	if len(settings.Reports) == 0 {
		return config.Settings{}, errors.NewConfigError("reports", fmt.Errorf("no reports configured; pass --report or set annotate.reports in the config file"))
	}
	return settings, nil
}

// prepareReconciler builds the GitHub-backed comment reconciler and its
// pull request target. Construction makes no network calls; without a pull
// request context the reconciler short-circuits before any API traffic.
func prepareReconciler(ctx context.Context, cfg *config.Config, runCtx ci.Context, logger hclog.Logger) (*comments.Reconciler, comments.Target, error) {
	rest := httpclient.InitializeRestyClient(logger, cfg)
	api, err := comments.NewGitHubAPI(ctx, runCtx.Token, runCtx.APIURL, runCtx.GraphQLURL, rest)
	if err != nil {
		return nil, comments.Target{}, err
	}

	target := comments.Target{
		Owner:     runCtx.Owner,
		Repo:      runCtx.Repo,
		ServerURL: runCtx.ServerURL,
	}
	if runCtx.IsPullRequest() {
		target.PullRequest = runCtx.PullRequest
	}
	return comments.NewReconciler(api, logger), target, nil
}
