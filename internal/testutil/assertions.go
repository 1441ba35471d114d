package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v and verifies success
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertErrorResponse verifies error response with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	// Error responses are plain text in this API
	assert.Contains(t, string(body), expectedMessage, "error message mismatch")
}

// AssertDocumentIDs checks every listed document carries a distinct id
func AssertDocumentIDs(t *testing.T, docs []map[string]json.RawMessage) {
	t.Helper()

	seen := make(map[string]bool, len(docs))
	for i, doc := range docs {
		raw, ok := doc["id"]
		require.True(t, ok, "document %d has no id", i)
		var id string
		require.NoError(t, json.Unmarshal(raw, &id))
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
