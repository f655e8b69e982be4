// Package report renders the patch proposal for the terminal, the artifact
// file, and the PR comment.
package report

import (
	"fmt"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// Diffstat summarizes a unified diff per file, git-diffstat style. Returns ""
// when the text does not parse as a diff; the proposal is still usable
// without the stat line.
func Diffstat(diffText string) string {
	fileDiffs, err := diff.ParseMultiFileDiff([]byte(diffText))
	if err != nil || len(fileDiffs) == 0 {
		return ""
	}

	var b strings.Builder
	var added, deleted int32
	for _, fd := range fileDiffs {
		stat := fd.Stat()
		a := stat.Added + stat.Changed
		d := stat.Deleted + stat.Changed
		added += a
		deleted += d
		fmt.Fprintf(&b, "%s | +%d -%d\n", displayName(fd), a, d)
	}
	fmt.Fprintf(&b, "%d file(s) changed, %d insertion(s), %d deletion(s)", len(fileDiffs), added, deleted)
	return b.String()
}

func displayName(fd *diff.FileDiff) string {
	name := fd.NewName
	if name == "" || name == "/dev/null" {
		name = fd.OrigName
	}
	name = strings.TrimPrefix(name, "b/")
	return strings.TrimPrefix(name, "a/")
}

// ProposalMarkdown is the artifact persisted after propose, and what the
// apply command reads back.
func ProposalMarkdown(costLine, stat, diffText string) string {
	var b strings.Builder
	b.WriteString("Repo Doctor suggestion\n\n")
	b.WriteString(costLine)
	b.WriteString("\n\n")
	if stat != "" {
		b.WriteString(stat)
		b.WriteString("\n\n")
	}
	b.WriteString("```diff\n")
	b.WriteString(diffText)
	b.WriteString("\n```")
	return b.String()
}

// CommentBody is the PR comment posted by ci-run, with the patch folded into
// a details block.
func CommentBody(costLine, diffText string) string {
	return fmt.Sprintf("### Repo Doctor\n%s\n\n<details>\n<summary>Proposed patch</summary>\n\n```diff\n%s\n```\n\n</details>", costLine, diffText)
}
