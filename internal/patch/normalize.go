package patch

import (
	"regexp"
	"strings"
)

var headerRegex = regexp.MustCompile(`^(---|\+\+\+)\s+(.*)$`)

// Normalize rewrites diff headers into canonical git-style form so that
// `git apply` accepts output that drifts from strict unified-diff format:
// line endings become LF, header paths get forward slashes and a/ b/
// prefixes, a missing `diff --git` preamble is inserted, and the text ends
// with exactly one newline. Pure function; normalizing twice is a no-op.
func Normalize(diffText string) string {
	text := strings.ReplaceAll(diffText, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var aPath, bPath string
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		m := headerRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		marker, path := m[1], strings.TrimSpace(m[2])
		path = strings.ReplaceAll(path, "\\", "/")
		if !strings.HasPrefix(path, "a/") && !strings.HasPrefix(path, "b/") && !strings.HasPrefix(path, "/dev/null") {
			path = strings.TrimPrefix(path, "./")
			if marker == "---" {
				path = "a/" + path
			} else {
				path = "b/" + path
			}
		}
		if marker == "---" && path != "/dev/null" && aPath == "" {
			aPath = path
		}
		if marker == "+++" && path != "/dev/null" && bPath == "" {
			bPath = path
		}
		lines[i] = marker + " " + path
	}

	normalized := strings.Join(lines, "\n")
	if aPath != "" && bPath != "" {
		if !strings.HasPrefix(strings.TrimLeft(normalized, " \t\n"), "diff --git ") {
			normalized = "diff --git " + aPath + " " + bPath + "\n" + normalized
		}
	}
	if !strings.HasSuffix(normalized, "\n") {
		normalized += "\n"
	}
	return normalized
}
