package comments

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/go-github/v47/github"
	"golang.org/x/oauth2"
)

const defaultGraphQLURL = "https://api.github.com/graphql"

// minimizeMutation classifies a comment as minimized; only the GraphQL API
// exposes this operation.
const minimizeMutation = `mutation($subject: ID!, $classifier: ReportedContentClassifiers!) {
  minimizeComment(input: {subjectId: $subject, classifier: $classifier}) {
    minimizedComment { isMinimized }
  }
}`

// GitHubAPI implements API against GitHub: the REST API for listing and
// creating issue comments and the GraphQL API for minimizing them.
type GitHubAPI struct {
	client     *github.Client
	rest       *resty.Client
	graphqlURL string
	token      string
}

// NewGitHubAPI builds a GitHub-backed comment API. apiURL and graphqlURL
// override the public endpoints for GitHub Enterprise deployments; empty
// values select the defaults.
func NewGitHubAPI(ctx context.Context, token, apiURL, graphqlURL string, rest *resty.Client) (*GitHubAPI, error) {
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))

	client := github.NewClient(httpClient)
	if apiURL != "" {
		enterprise, err := github.NewEnterpriseClient(apiURL, apiURL, httpClient)
		if err != nil {
			return nil, fmt.Errorf("configure github api client for %q: %w", apiURL, err)
		}
		client = enterprise
	}
	if graphqlURL == "" {
		graphqlURL = defaultGraphQLURL
	}

	return &GitHubAPI{
		client:     client,
		rest:       rest,
		graphqlURL: graphqlURL,
		token:      token,
	}, nil
}

// ListComments fetches one page of issue comments on the pull request.
func (g *GitHubAPI) ListComments(ctx context.Context, owner, repo string, number, page, perPage int) ([]Comment, error) {
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{Page: page, PerPage: perPage},
	}
	raw, _, err := g.client.Issues.ListComments(ctx, owner, repo, number, opts)
	if err != nil {
		return nil, fmt.Errorf("list comments for %s/%s#%d: %w", owner, repo, number, err)
	}

	result := make([]Comment, 0, len(raw))
	for _, c := range raw {
		if c == nil {
			continue
		}
		result = append(result, Comment{
			ID:     safeInt64(c.ID),
			NodeID: safeString(c.NodeID),
			Body:   safeString(c.Body),
		})
	}
	return result, nil
}

// MinimizeComment issues the minimizeComment GraphQL mutation for one comment.
func (g *GitHubAPI) MinimizeComment(ctx context.Context, nodeID, classifier string) error {
	var out struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}

	resp, err := g.rest.R().
		SetContext(ctx).
		SetHeader("Authorization", "bearer "+g.token).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"query": minimizeMutation,
			"variables": map[string]interface{}{
				"subject":    nodeID,
				"classifier": classifier,
			},
		}).
		SetResult(&out).
		Post(g.graphqlURL)
	if err != nil {
		return fmt.Errorf("minimize comment %s: %w", nodeID, err)
	}
	if resp.IsError() {
		return fmt.Errorf("minimize comment %s: unexpected status %s", nodeID, resp.Status())
	}
	if len(out.Errors) > 0 {
		messages := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			messages = append(messages, e.Message)
		}
		return fmt.Errorf("minimize comment %s: %s", nodeID, strings.Join(messages, "; "))
	}
	return nil
}

// CreateComment posts a new issue comment on the pull request.
func (g *GitHubAPI) CreateComment(ctx context.Context, owner, repo string, number int, body string) error {
	_, _, err := g.client.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{Body: github.String(body)})
	if err != nil {
		return fmt.Errorf("create comment on %s/%s#%d: %w", owner, repo, number, err)
	}
	return nil
}

// safeString safely dereferences a string pointer, returning an empty string if the pointer is nil.
func safeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// safeInt64 safely dereferences an int64 pointer, returning 0 if the pointer is nil.
func safeInt64(i *int64) int64 {
	if i == nil {
		return 0
	}
	return *i
}
