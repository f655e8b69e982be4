package ghpr

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostOutsideActionsIsNoop(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITHUB_EVENT_PATH", "")
	t.Setenv("GITHUB_REPOSITORY", "")

	p := New()
	assert.False(t, p.Enabled())
	assert.NoError(t, p.Post(context.Background(), "hi"))
}

func TestPostCommentsOnPR(t *testing.T) {
	eventPath := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(eventPath, []byte(`{"pull_request":{"number":7}}`), 0o644))

	var gotPath, gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		var payload map[string]string
		_ = json.Unmarshal(data, &payload)
		gotBody = payload["body"]
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	t.Setenv("GITHUB_TOKEN", "gh-token")
	t.Setenv("GITHUB_EVENT_PATH", eventPath)
	t.Setenv("GITHUB_REPOSITORY", "acme/widgets")

	p := New()
	p.APIBase = srv.URL
	require.NoError(t, p.Post(context.Background(), "### Repo Doctor"))

	assert.Equal(t, "/repos/acme/widgets/issues/7/comments", gotPath)
	assert.Equal(t, "Bearer gh-token", gotAuth)
	assert.Equal(t, "### Repo Doctor", gotBody)
}

func TestPostSkipsNonPREvents(t *testing.T) {
	eventPath := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(eventPath, []byte(`{"ref":"refs/heads/main"}`), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for non-PR events")
	}))
	defer srv.Close()

	t.Setenv("GITHUB_TOKEN", "gh-token")
	t.Setenv("GITHUB_EVENT_PATH", eventPath)
	t.Setenv("GITHUB_REPOSITORY", "acme/widgets")

	p := New()
	p.APIBase = srv.URL
	assert.NoError(t, p.Post(context.Background(), "body"))
}
