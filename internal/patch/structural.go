package patch

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// applyModes are the git apply variants tried in order. Whitespace fixing is
// the most forgiving for model output, path-strip variants cover diffs whose
// headers lack prefixes, and --reject is the last resort that applies what it
// can and leaves .rej files for the rest.
var applyModes = [][]string{
	{"--whitespace=fix"},
	{"--ignore-whitespace"},
	{"-p0"},
	{"-p1"},
	{"--reject"},
}

// applyStructural writes the diff to a temp file and runs git apply in each
// compatibility mode until one exits zero. It returns the winning mode and an
// empty diagnostic on success, or the last mode's combined output on failure.
// The temp file is removed on every exit path.
func (p *Pipeline) applyStructural(diffText string) (mode, diag string) {
	tmp, err := os.CreateTemp(p.cfg.TempDir, "repodoc-*.patch")
	if err != nil {
		return "", fmt.Sprintf("create temp patch file: %v", err)
	}
	patchPath := tmp.Name()
	defer os.Remove(patchPath)

	if _, err := tmp.WriteString(diffText); err != nil {
		tmp.Close()
		return "", fmt.Sprintf("write temp patch file: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Sprintf("close temp patch file: %v", err)
	}

	var lastOut string
	for _, flags := range applyModes {
		args := append([]string{"apply"}, flags...)
		args = append(args, patchPath)
		cmd := exec.Command(p.cfg.GitBin, args...)
		cmd.Dir = p.cfg.WorkDir
		out, err := cmd.CombinedOutput()
		if err == nil {
			return strings.Join(flags, " "), ""
		}
		lastOut = strings.TrimSpace(string(out))
		if lastOut == "" {
			lastOut = err.Error()
		}
	}
	return "", lastOut
}
