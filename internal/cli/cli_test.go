package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timmy/arbitrage/internal/domain"
)

// fakeBackend serves the analysis API from memory.
type fakeBackend struct {
	mu      sync.Mutex
	polls   int
	deletes []string
}

func (b *fakeBackend) server(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"upload_id":"u1","total_items":2}`))
	})
	mux.HandleFunc("GET /status/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.polls++
		n := b.polls
		b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if n < 2 {
			_, _ = w.Write([]byte(`{"upload_id":"u1","status":"processing","processed_items":1,"total_items":2,"summary":{"total_profit":5}}`))
			return
		}
		_, _ = w.Write([]byte(`{"upload_id":"u1","filename":"pallet.csv","status":"completed","processed_items":2,"total_items":2,
			"summary":{"total_profit":12.5},"items":[{"title":"lamp","profit":4},{"title":"rug","profit":8.5}]}`))
	})
	mux.HandleFunc("GET /history", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"uploads":[{"upload_id":"u1","filename":"pallet.csv","upload_name":"Friday","status":"completed","total_items":2,"processed_items":2,"created_at":"2025-03-01T10:00:00Z"}]}`))
	})
	mux.HandleFunc("DELETE /upload/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.deletes = append(b.deletes, r.PathValue("id"))
		b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"deleted"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand("test", "abc123", "today")
	cmd.SetArgs(append(args, "--no-color"))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func setupBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{}
	srv := b.server(t)
	t.Chdir(t.TempDir())
	t.Setenv("ANALYZER_API_URL", srv.URL)
	t.Setenv("ANALYZER_POLL_INTERVAL", "10ms")
	return b
}

func TestSubmitFollowsToCompletion(t *testing.T) {
	setupBackend(t)
	path := filepath.Join(t.TempDir(), "pallet.csv")
	require.NoError(t, os.WriteFile(path, []byte("title,msrp\nlamp,10\nrug,20\n"), 0o600))

	stdout, stderr, err := run(t, "", "submit", path)

	require.NoError(t, err)
	assert.Contains(t, stderr, "✓ Processing 2 items...")
	assert.Contains(t, stderr, "✓ Analysis completed successfully!")
	assert.Contains(t, stdout, "completed")
	assert.Contains(t, stdout, "Total Profit:")
	assert.Contains(t, stdout, "12.50")
	assert.Contains(t, stdout, "lamp  profit=4")
}

func TestSubmitDetachedJSON(t *testing.T) {
	setupBackend(t)

	stdout, _, err := run(t, "a,b\n1,2\n", "submit", "--stdin", "--detach", "-o", "json")

	require.NoError(t, err)
	var job domain.Job
	require.NoError(t, json.Unmarshal([]byte(stdout), &job))
	assert.Equal(t, "u1", job.ID)
	assert.Equal(t, domain.JobStatusProcessing, job.Status)
	assert.Equal(t, domain.PastedFilename, job.Source.Filename)
}

func TestSubmitRequiresInput(t *testing.T) {
	setupBackend(t)

	_, _, err := run(t, "", "submit")
	assert.ErrorContains(t, err, "no manifest given")

	_, stderr, err := run(t, "   ", "submit", "--stdin")
	assert.Error(t, err)
	assert.Contains(t, stderr, "✗ Please paste CSV data first")
}

func TestHistoryCommand(t *testing.T) {
	setupBackend(t)

	stdout, _, err := run(t, "", "history")

	require.NoError(t, err)
	assert.Contains(t, stdout, "UPLOAD ID")
	assert.Contains(t, stdout, "Friday")
	assert.Contains(t, stdout, "completed")
}

func TestDeleteCommandConfirmation(t *testing.T) {
	b := setupBackend(t)

	_, stderr, err := run(t, "n\n", "delete", "u1")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Aborted.")
	assert.Empty(t, b.deletes)

	_, stderr, err = run(t, "", "delete", "u1", "--yes")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, b.deletes)
	assert.Contains(t, stderr, "✓ Upload deleted successfully!")
}

func TestCheckItemValidation(t *testing.T) {
	setupBackend(t)

	_, stderr, err := run(t, "", "check-item", "--msrp", "10")

	assert.Error(t, err)
	assert.Contains(t, stderr, "✗ Please enter an item title")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := run(t, "", "version")

	require.NoError(t, err)
	assert.Contains(t, stdout, "analyzer test (abc123) built on today")
}

func TestProgressLine(t *testing.T) {
	assert.Equal(t, "Processing items...", progressLine(&domain.Job{}))
	assert.Equal(t, "Processing items: 1 / 4 (25%)", progressLine(&domain.Job{ProcessedItems: 1, TotalItems: 4}))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "Total Profit", humanize("total_profit"))
	assert.Equal(t, "3", formatValue(3.0))
	assert.Equal(t, "3.14", formatValue(3.14159))
	assert.Equal(t, "", formatValue(nil))
	assert.Equal(t, `{"a":1}`, formatValue(map[string]any{"a": 1}))
	assert.Equal(t, "abc…", truncate("abcdef", 4))
	assert.Equal(t, "ab", truncate("ab", 4))
}
