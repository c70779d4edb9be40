// Package ci resolves the run context from the GitHub Actions environment.
package ci

import (
	"os"
	"regexp"
	"strconv"
	"strings"
)

// LookupFunc fetches environment variables and defaults to os.Getenv.
type LookupFunc func(string) string

// pullRefPattern matches pull request refs such as refs/pull/42/merge.
var pullRefPattern = regexp.MustCompile(`^refs/pull/(\d+)/`)

// Context captures the repository, event and endpoint metadata of the
// current run. A zero PullRequest means the triggering event is not
// associated with a pull request.
type Context struct {
	CI          bool   // CI reports whether the execution runs inside a CI environment.
	EventName   string // EventName is the workflow event that triggered the run.
	Owner       string // Owner is the repository owner or organization.
	Repo        string // Repo is the repository slug without the owner.
	PullRequest int    // PullRequest is the pull request number, zero when absent.
	ServerURL   string // ServerURL is the scheme and host of the VCS server.
	APIURL      string // APIURL overrides the REST endpoint for enterprise deployments.
	GraphQLURL  string // GraphQLURL overrides the GraphQL endpoint for enterprise deployments.
	Token       string // Token authenticates comment API calls.
	OutputPath  string // OutputPath is the step output file, empty outside Actions.
}

// Resolve builds the run context from the process environment.
func Resolve() Context {
	return resolveWithLookup(os.Getenv)
}

// resolveWithLookup resolves the run context with the supplied lookup function.
func resolveWithLookup(lookup LookupFunc) Context {
	if lookup == nil {
		lookup = os.Getenv
	}

	ci, _ := strconv.ParseBool(lookup("CI"))

	fullName := lookup("GITHUB_REPOSITORY")
	owner, repo := splitRepository(fullName)
	if owner == "" {
		owner = lookup("GITHUB_REPOSITORY_OWNER")
	}

	return Context{
		CI:          ci,
		EventName:   lookup("GITHUB_EVENT_NAME"),
		Owner:       owner,
		Repo:        repo,
		PullRequest: parsePullRequest(lookup("GITHUB_REF")),
		ServerURL:   lookup("GITHUB_SERVER_URL"),
		APIURL:      lookup("GITHUB_API_URL"),
		GraphQLURL:  lookup("GITHUB_GRAPHQL_URL"),
		Token:       lookup("GITHUB_TOKEN"),
		OutputPath:  lookup("GITHUB_OUTPUT"),
	}
}

// IsPullRequest reports whether the current event targets a pull request.
func (c Context) IsPullRequest() bool {
	return c.PullRequest > 0
}

// splitRepository splits an "owner/name" slug into its parts.
func splitRepository(fullName string) (owner, repo string) {
	i := strings.LastIndex(fullName, "/")
	if i < 0 {
		return "", fullName
	}
	return fullName[:i], fullName[i+1:]
}

// parsePullRequest extracts the pull request number from a fully qualified
// git reference; non-pull refs yield zero.
func parsePullRequest(ref string) int {
	m := pullRefPattern.FindStringSubmatch(ref)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
