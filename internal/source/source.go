// Package source retrieves the proposal text the apply command works on.
package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/repodoc/repodoc/internal/ui"
)

// Provider determines where the proposal markdown comes from: piped stdin
// first, then the clipboard when requested, then the persisted proposal file.
type Provider struct {
	UseClipboard bool
	ProposalPath string
}

// New creates a Provider.
func New(useClipboard bool, proposalPath string) *Provider {
	return &Provider{UseClipboard: useClipboard, ProposalPath: proposalPath}
}

// GetContent returns the proposal text, or "" when no source has anything.
func (p *Provider) GetContent() (string, error) {
	stat, _ := os.Stdin.Stat()
	isPiped := (stat.Mode() & os.ModeCharDevice) == 0

	if isPiped {
		ui.Header("--- Reading from stdin ---")
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read from stdin: %w", err)
		}
		if strings.TrimSpace(string(content)) != "" {
			return string(content), nil
		}
	}

	if p.UseClipboard {
		ui.Header("--- Reading from clipboard ---")
		content, err := clipboard.ReadAll()
		if err != nil {
			return "", fmt.Errorf("read from clipboard: %w", err)
		}
		if strings.TrimSpace(content) == "" {
			ui.Warning("Clipboard is empty.")
			return "", nil
		}
		return content, nil
	}

	if p.ProposalPath != "" {
		if data, err := os.ReadFile(p.ProposalPath); err == nil {
			ui.Header("--- Reading %s ---", p.ProposalPath)
			return string(data), nil
		}
	}
	return "", nil
}
