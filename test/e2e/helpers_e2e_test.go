//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// getenv returns the value of the environment variable k or def if empty.
func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

var baseURL = strings.TrimRight(getenv("E2E_BASE_URL", "http://localhost:8080"), "/")

// liveAI reports whether tests may spend real inference calls.
func liveAI() bool { return os.Getenv("E2E_LIVE_AI") == "1" }

func newClient() *http.Client { return &http.Client{Timeout: 120 * time.Second} }

// requireApp skips the test when the server is not reachable.
func requireApp(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("short mode")
	}
	resp, err := (&http.Client{Timeout: 2 * time.Second}).Get(baseURL + "/healthz")
	if err != nil {
		t.Skip("App not available; skipping E2E")
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Skipf("App not healthy (%d); skipping E2E", resp.StatusCode)
	}
}

func postJSON(t *testing.T, path string, body any) (int, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := newClient().Post(baseURL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}
