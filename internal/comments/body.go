package comments

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"

	"github.com/granodigital/report-annotate/internal/annotate"
)

const defaultServerURL = "https://github.com"

// mentionPattern finds "@user" tokens, capturing a preceding backtick so that
// tokens already wrapped in inline code are left alone.
var mentionPattern = regexp.MustCompile("`?@[A-Za-z0-9][A-Za-z0-9-]*")

// ComposeBody renders the overflow comment: the marker heading, a summary
// line naming the cap, then one collapsible section per severity that has
// skipped findings, in error, warning, notice order.
func ComposeBody(target Target, skipped annotate.SkippedSet, maxPerType int) string {
	var b strings.Builder
	b.WriteString(Marker)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Annotations were limited to %d per type. The remaining %d findings are listed below.\n",
		maxPerType, skipped.Total())

	writeSection(&b, target, "🛑 Errors", skipped.Errors)
	writeSection(&b, target, "⚠️ Warnings", skipped.Warnings)
	writeSection(&b, target, "ℹ️ Notices", skipped.Notices)
	return b.String()
}

// writeSection appends one collapsible block listing the skipped findings of
// a single severity. Severities without skipped findings get no section.
func writeSection(b *strings.Builder, target Target, title string, findings []annotate.Finding) {
	if len(findings) == 0 {
		return
	}
	fmt.Fprintf(b, "\n<details>\n<summary>%s (%d skipped)</summary>\n\n", title, len(findings))
	for _, f := range findings {
		b.WriteString("> ")
		if link := fileLink(target, f); link != "" {
			b.WriteString(link)
			b.WriteString(" ")
		}
		b.WriteString(escapeMentions(f.Message))
		b.WriteString("\n")
	}
	b.WriteString("\n</details>\n")
}

// fileLink builds a link into the pull request's file-diff view, anchored at
// the finding's file and start line, keeping the reader inside the review
// context. Findings without a file get no link.
func fileLink(target Target, f annotate.Finding) string {
	if f.File == "" || f.StartLine < 1 {
		return ""
	}
	server := target.ServerURL
	if server == "" {
		server = defaultServerURL
	}
	anchor := fmt.Sprintf("diff-%xR%d", sha256.Sum256([]byte(f.File)), f.StartLine)
	return fmt.Sprintf("[`%s:%d`](%s/%s/%s/pull/%d/files#%s)",
		f.File, f.StartLine, strings.TrimSuffix(server, "/"), target.Owner, target.Repo, target.PullRequest, anchor)
}

// escapeMentions wraps "@user" tokens in inline code so they cannot trigger a
// notification. Tokens that are already escaped are left untouched.
func escapeMentions(s string) string {
	return mentionPattern.ReplaceAllStringFunc(s, func(m string) string {
		if strings.HasPrefix(m, "`") {
			return m
		}
		return "`" + m + "`"
	})
}
