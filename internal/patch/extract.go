package patch

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Extract pulls the first fenced code block labeled "diff" or "patch" out of
// model-generated markdown, with trailing blank lines stripped. Later blocks
// are ignored. When no such fence exists the whole input, trimmed, is treated
// as the diff.
func Extract(markdown string) string {
	source := []byte(markdown)
	parser := goldmark.DefaultParser()
	root := parser.Parse(text.NewReader(source))

	var found string
	var ok bool
	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || ok {
			return ast.WalkContinue, nil
		}
		fenced, isFence := node.(*ast.FencedCodeBlock)
		if !isFence {
			return ast.WalkContinue, nil
		}
		lang := ""
		if fenced.Info != nil {
			lang = strings.TrimSpace(string(fenced.Info.Text(source)))
		}
		if lang != "diff" && lang != "patch" {
			return ast.WalkSkipChildren, nil
		}

		var content bytes.Buffer
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			content.Write(line.Value(source))
		}
		found = trimTrailingBlankLines(content.String())
		ok = true
		return ast.WalkStop, nil
	}

	if err := ast.Walk(root, walker); err != nil || !ok {
		return strings.TrimSpace(markdown)
	}
	return found
}

// trimTrailingBlankLines drops whitespace-only lines from the end of s.
func trimTrailingBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
