package patch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// errNoHunks marks a diff with no parsable hunk bodies at all.
var errNoHunks = errors.New("no hunks found in diff")

var (
	targetHeaderRegex = regexp.MustCompile(`(?m)^\+\+\+\s+(.+)$`)
	// The @@ line may carry trailing function context after the second @@.
	hunkBodyRegex = regexp.MustCompile(`(?m)^@@.*\n((?:[ \t+-].*\n)+)`)
)

// applyFallback applies the diff's hunks by search-and-replace against the
// target file's current content. It handles small patches that lack full
// context or carry headers git apply refuses.
//
// Only the first +++ header is resolved: every hunk in the diff is applied
// against that one file. Multi-file diffs must be split before calling this.
//
// The file is rewritten only after every hunk matched in memory; a single
// mismatch discards the buffer and leaves the file untouched. Returns the
// number of hunks applied.
func (p *Pipeline) applyFallback(diffText string) (int, error) {
	text := strings.ReplaceAll(diffText, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	m := targetHeaderRegex.FindStringSubmatch(text)
	if m == nil {
		return 0, ErrNoTargetHeader
	}
	target := stripDiffPrefix(strings.TrimSpace(m[1]))

	path := target
	if p.cfg.WorkDir != "" {
		path = filepath.Join(p.cfg.WorkDir, target)
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrTargetNotFound, target)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrReadFailure, target, err)
	}
	content := string(raw)

	changed := 0
	for _, hm := range hunkBodyRegex.FindAllStringSubmatch(text, -1) {
		body := strings.Split(strings.TrimSuffix(hm[1], "\n"), "\n")
		applied, next := applyHunk(content, body)
		if !applied {
			return 0, ErrHunkMismatch
		}
		content = next
		changed++
	}

	if changed == 0 {
		return 0, errNoHunks
	}
	if err := os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrWriteFailure, target, err)
	}
	return changed, nil
}

// applyHunk rewrites content for one hunk body. The primary strategy matches
// the full pattern of context plus removed lines; when that fails it falls
// back to the removal-only block, then to just the first removed line. All
// replacements hit the first occurrence only.
func applyHunk(content string, body []string) (bool, string) {
	var patternLines, replacementLines []string
	var removed, added []string
	for _, line := range body {
		switch {
		case strings.HasPrefix(line, " "), strings.HasPrefix(line, "\t"):
			patternLines = append(patternLines, line[1:])
			replacementLines = append(replacementLines, line[1:])
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			patternLines = append(patternLines, line[1:])
			removed = append(removed, line[1:])
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			replacementLines = append(replacementLines, line[1:])
			added = append(added, line[1:])
		}
	}

	pattern := strings.Join(patternLines, "\n")
	replacement := strings.Join(replacementLines, "\n")

	if pattern != "" && strings.Contains(content, pattern) {
		return true, strings.Replace(content, pattern, replacement, 1)
	}

	if len(removed) > 0 {
		remBlock := strings.Join(removed, "\n")
		addBlock := strings.Join(added, "\n")
		if strings.Contains(content, remBlock) {
			return true, strings.Replace(content, remBlock, addBlock, 1)
		}
		if strings.Contains(content, removed[0]) {
			return true, strings.Replace(content, removed[0], addBlock, 1)
		}
	}
	return false, content
}
