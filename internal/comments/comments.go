// Package comments implements the reconciliation of overflow findings with a
// pull request discussion: prior run-generated comments are discovered by a
// body-prefix convention, minimized as outdated, and replaced by one fresh
// summary comment.
package comments

import (
	"context"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/granodigital/report-annotate/internal/annotate"
)

const (
	// Marker is the heading that opens every comment this tool creates. It is
	// the sole identity mechanism for discovering prior comments; changing it
	// breaks discovery of comments created under the old marker.
	Marker = "## Skipped Annotations"

	// ClassifierOutdated is the minimize classification applied to stale comments.
	ClassifierOutdated = "OUTDATED"

	defaultPageSize = 100
)

// Comment is a prior pull request comment as fetched from the API. Comment
// identities are never persisted across runs; they are re-discovered each run.
type Comment struct {
	ID     int64
	NodeID string
	Body   string
}

// API is the capability the reconciler talks to the discussion platform
// through. All methods may fail; failures never abort the overall run.
type API interface {
	ListComments(ctx context.Context, owner, repo string, number, page, perPage int) ([]Comment, error)
	MinimizeComment(ctx context.Context, nodeID, classifier string) error
	CreateComment(ctx context.Context, owner, repo string, number int, body string) error
}

// Target identifies the pull request to reconcile against. A zero PullRequest
// means the run was not triggered by a pull request.
type Target struct {
	Owner       string
	Repo        string
	PullRequest int
	ServerURL   string
}

// Reconciler drives the per-run comment reconciliation state machine.
type Reconciler struct {
	api      API
	logger   hclog.Logger
	pageSize int
}

// NewReconciler creates a Reconciler with the default discovery page size.
func NewReconciler(api API, logger hclog.Logger) *Reconciler {
	return &Reconciler{api: api, logger: logger, pageSize: defaultPageSize}
}

// Reconcile posts the skipped findings as a single comment on the target pull
// request, minimizing every previous comment of this tool first so a viewer
// never sees two live overflow comments. The whole protocol is best effort:
// every failure is logged and the run continues, because the primary
// annotations were already emitted.
func (r *Reconciler) Reconcile(ctx context.Context, target Target, skipped annotate.SkippedSet, maxPerType int) {
	if target.PullRequest <= 0 {
		r.logger.Info("run is not associated with a pull request; skipping overflow comment")
		return
	}

	prior, err := r.discover(ctx, target)
	if err != nil {
		// Without the prior comment list, posting could leave two live
		// comments side by side. Losing the overflow notification is the
		// lesser harm.
		r.logger.Error("failed to list pull request comments", "error", err)
		return
	}

	for _, c := range prior {
		if !strings.HasPrefix(c.Body, Marker) {
			continue
		}
		if err := r.api.MinimizeComment(ctx, c.NodeID, ClassifierOutdated); err != nil {
			r.logger.Warn("failed to minimize outdated comment", "comment_id", c.ID, "error", err)
		}
	}

	body := ComposeBody(target, skipped, maxPerType)
	if err := r.api.CreateComment(ctx, target.Owner, target.Repo, target.PullRequest, body); err != nil {
		r.logger.Error("failed to create overflow comment", "error", err)
	}
}

// discover pages through all comments on the pull request, continuing while
// the last page came back full.
func (r *Reconciler) discover(ctx context.Context, target Target) ([]Comment, error) {
	var all []Comment
	for page := 1; ; page++ {
		batch, err := r.api.ListComments(ctx, target.Owner, target.Repo, target.PullRequest, page, r.pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < r.pageSize {
			return all, nil
		}
	}
}
