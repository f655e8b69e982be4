package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleDiff = `diff --git a/f.py b/f.py
--- a/f.py
+++ b/f.py
@@ -1,2 +1,2 @@
 def f():
-    return 1
+    return 2
`

func TestDiffstat(t *testing.T) {
	stat := Diffstat(sampleDiff)
	assert.Contains(t, stat, "f.py")
	assert.Contains(t, stat, "1 file(s) changed")
}

func TestDiffstatGarbageInput(t *testing.T) {
	assert.Equal(t, "", Diffstat("this is not a diff"))
}

func TestProposalMarkdown(t *testing.T) {
	out := ProposalMarkdown("tokens in 10, out 5, est cost $0.0001", "f.py | +1 -1", "-a\n+b")
	assert.True(t, strings.HasPrefix(out, "Repo Doctor suggestion"))
	assert.Contains(t, out, "```diff\n-a\n+b\n```")
	assert.Contains(t, out, "est cost")
}

func TestProposalMarkdownWithoutStat(t *testing.T) {
	out := ProposalMarkdown("cost", "", "-a\n+b")
	assert.NotContains(t, out, "\n\n\n")
}

func TestCommentBody(t *testing.T) {
	out := CommentBody("cost line", "-a\n+b")
	assert.True(t, strings.HasPrefix(out, "### Repo Doctor"))
	assert.Contains(t, out, "<details>")
	assert.Contains(t, out, "```diff\n-a\n+b\n```")
}
