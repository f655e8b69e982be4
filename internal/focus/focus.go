// Package focus picks the source files most likely involved in a failure and
// renders numbered excerpts of them for the model prompt.
package focus

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	maxTraceFiles = 8
	maxWalkFiles  = 6
	maxSliceBytes = 3000
)

var (
	fileRefRegex = regexp.MustCompile(`([\w\-/\\.]+\.py):(\d+)`)
	importRegex  = regexp.MustCompile(`from ([\w.]+) import`)
)

var sourceExtensions = map[string]struct{}{
	".py": {}, ".js": {}, ".ts": {}, ".tsx": {}, ".jsx": {},
	".json": {}, ".toml": {}, ".yaml": {}, ".yml": {}, ".md": {},
}

// Selector builds prompt context from a repository root.
type Selector struct {
	Root string
}

// New creates a Selector rooted at dir, or the current directory when dir is
// empty.
func New(dir string) *Selector {
	if dir == "" {
		dir = "."
	}
	return &Selector{Root: dir}
}

// Build returns the focused file list (one path per line) and the annotated
// excerpts for those files. Files are pulled from the traceback tail first;
// when none are found a small repository walk stands in.
func (s *Selector) Build(tail string) (fileList, excerpts string) {
	files := s.FromTrace(tail)
	if len(files) == 0 {
		files = s.walk(maxWalkFiles)
	}

	var slices []string
	for _, f := range files {
		slices = append(slices, fmt.Sprintf("--- %s\n%s", f, s.slice(f)))
	}
	return strings.Join(files, "\n"), strings.Join(slices, "\n\n")
}

// FromTrace pulls likely files out of a traceback tail: direct `file.py:12`
// references plus modules named in `from X import` lines that resolve to a
// file on disk.
func (s *Selector) FromTrace(tail string) []string {
	var candidates []string
	for _, m := range fileRefRegex.FindAllStringSubmatch(tail, -1) {
		candidates = append(candidates, filepath.FromSlash(strings.ReplaceAll(m[1], "\\", "/")))
	}
	for _, m := range importRegex.FindAllStringSubmatch(tail, -1) {
		module := m[1]
		if strings.HasPrefix(module, ".") {
			continue
		}
		candidates = append(candidates, filepath.FromSlash(strings.ReplaceAll(module, ".", "/")+".py"))
	}

	seen := make(map[string]struct{})
	var out []string
	for _, c := range candidates {
		if _, dup := seen[c]; dup {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.Root, c)); err != nil {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
		if len(out) >= maxTraceFiles {
			break
		}
	}
	return out
}

// walk collects up to limit source-ish files under the root as a last-resort
// context when the trace named nothing.
func (s *Selector) walk(limit int) []string {
	var files []string
	filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if strings.HasPrefix(name, ".") && path != s.Root {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := sourceExtensions[filepath.Ext(path)]; !ok {
			return nil
		}
		rel, relErr := filepath.Rel(s.Root, path)
		if relErr != nil {
			rel = path
		}
		files = append(files, rel)
		if len(files) >= limit {
			return fs.SkipAll
		}
		return nil
	})
	return files
}

// slice renders the file with right-aligned line numbers, capped in size.
func (s *Selector) slice(rel string) string {
	data, err := os.ReadFile(filepath.Join(s.Root, rel))
	if err != nil {
		return ""
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	var b strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&b, "%4d %s\n", i+1, line)
		if b.Len() >= maxSliceBytes {
			break
		}
	}
	out := b.String()
	if len(out) > maxSliceBytes {
		out = out[:maxSliceBytes]
	}
	return out
}
