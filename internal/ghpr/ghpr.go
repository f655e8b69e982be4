// Package ghpr posts the proposal as a comment on the pull request that
// triggered a GitHub Actions run.
package ghpr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

const defaultAPIBase = "https://api.github.com"

// Poster holds the GitHub Actions environment needed to comment on a PR.
type Poster struct {
	APIBase string
	Client  *http.Client

	token     string
	eventPath string
	repo      string
}

// New reads the GitHub Actions environment. The poster is disabled when any
// of the variables is missing.
func New() *Poster {
	return &Poster{
		APIBase:   defaultAPIBase,
		Client:    &http.Client{Timeout: 30 * time.Second},
		token:     os.Getenv("GITHUB_TOKEN"),
		eventPath: os.Getenv("GITHUB_EVENT_PATH"),
		repo:      os.Getenv("GITHUB_REPOSITORY"),
	}
}

// Enabled reports whether the process runs with enough Actions context to
// post a comment.
func (p *Poster) Enabled() bool {
	return p.token != "" && p.eventPath != "" && p.repo != ""
}

// Post comments on the current PR. It is a no-op outside GitHub Actions and
// on events without a pull request number.
func (p *Poster) Post(ctx context.Context, body string) error {
	if !p.Enabled() {
		return nil
	}

	eventData, err := os.ReadFile(p.eventPath)
	if err != nil {
		return fmt.Errorf("read event payload: %w", err)
	}
	var event struct {
		PullRequest struct {
			Number int `json:"number"`
		} `json:"pull_request"`
	}
	if err := json.Unmarshal(eventData, &event); err != nil {
		return fmt.Errorf("decode event payload: %w", err)
	}
	if event.PullRequest.Number == 0 {
		return nil
	}

	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return fmt.Errorf("encode comment: %w", err)
	}

	url := fmt.Sprintf("%s/repos/%s/issues/%d/comments", p.APIBase, p.repo, event.PullRequest.Number)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build comment request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("post comment: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("post comment: unexpected status %s", resp.Status)
	}
	return nil
}
