// Package patch turns free-form model output into applied changes on the
// working tree. The pipeline is: extract the fenced diff, normalize its
// headers into git-style form, try `git apply` in several compatibility
// modes, and fall back to a hunk-based search/replace engine when the
// structural tool rejects the diff entirely.
package patch

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure modes of the pipeline. They never escape
// Apply; they are folded into the Result message so callers can report the
// cause without unwinding.
var (
	ErrEmptyDiff       = errors.New("empty diff content")
	ErrNoTargetHeader  = errors.New("no +++ header found")
	ErrTargetNotFound  = errors.New("target file not found")
	ErrReadFailure     = errors.New("cannot read target file")
	ErrWriteFailure    = errors.New("cannot write target file")
	ErrHunkMismatch    = errors.New("unable to match hunk to file content")
	ErrStructuralApply = errors.New("git apply failed")
)

// Result is the sole output of one pipeline invocation.
type Result struct {
	Applied bool
	Message string
}

// Config carries the process-level knobs the pipeline needs. Everything is
// explicit so tests can point the pipeline at a scratch directory and a
// stand-in git binary.
type Config struct {
	// WorkDir is the directory git apply runs in and fallback targets are
	// resolved against. Empty means the current working directory.
	WorkDir string
	// TempDir receives the temporary patch files. Empty means os.TempDir.
	TempDir string
	// GitBin is the git executable name. Empty means "git".
	GitBin string
}

// Pipeline applies unified diffs. Invocations are synchronous and the
// pipeline keeps no state between calls.
type Pipeline struct {
	cfg Config
}

// New creates a Pipeline with defaults filled in.
func New(cfg Config) *Pipeline {
	if cfg.GitBin == "" {
		cfg.GitBin = "git"
	}
	return &Pipeline{cfg: cfg}
}

// Apply normalizes diffText and applies it, first structurally via git apply
// and then through the hunk fallback engine. Every exit is a Result value;
// Apply never returns an error.
func (p *Pipeline) Apply(diffText string) Result {
	diffText = strings.TrimSpace(diffText)
	if diffText == "" {
		return Result{Applied: false, Message: ErrEmptyDiff.Error()}
	}
	diffText = Normalize(diffText)

	mode, diag := p.applyStructural(diffText)
	if diag == "" {
		return Result{Applied: true, Message: fmt.Sprintf("patch applied successfully (apply %s)", mode)}
	}

	applied, err := p.applyFallback(diffText)
	if err != nil {
		return Result{
			Applied: false,
			Message: fmt.Sprintf("%s: %s; fallback: %s", ErrStructuralApply.Error(), diag, err),
		}
	}
	return Result{Applied: true, Message: fmt.Sprintf("patch applied via fallback: %d hunk(s)", applied)}
}
