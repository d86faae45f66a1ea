package webpage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Sample Page</title>
  <style>body { color: red; }</style>
  <script>console.log("hidden");</script>
</head>
<body>
  <h1>Welcome</h1>
  <p>This is   the body
  text.</p>
  <noscript>enable js</noscript>
</body>
</html>`

func TestExtractText(t *testing.T) {
	title, text := extractText([]byte(samplePage))

	assert.Equal(t, "Sample Page", title)
	assert.Contains(t, text, "Welcome")
	assert.Contains(t, text, "This is the body text.")
	assert.NotContains(t, text, "console.log")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "enable js")
}

func TestReadPage_FetchesAndExtracts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	out, err := New().Execute(context.Background(), map[string]any{"url": server.URL})
	require.NoError(t, err)

	resp := out.(Response)
	assert.Equal(t, "Sample Page", resp.Title)
	assert.Contains(t, resp.Text, "Welcome")
}

func TestReadPage_RejectsBadURL(t *testing.T) {
	_, err := New().Execute(context.Background(), map[string]any{"url": "ftp://example.com"})
	require.Error(t, err)

	_, err = New().Execute(context.Background(), map[string]any{"url": ""})
	require.Error(t, err)
}

func TestReadPage_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := New().Execute(context.Background(), map[string]any{"url": server.URL})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestNormalizeWS(t *testing.T) {
	assert.Equal(t, "a b c", normalizeWS("  a \n\t b   c  "))
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", maxTextRunes+10)
	got := truncate(long, maxTextRunes)
	assert.Less(t, len([]rune(got)), maxTextRunes+2)
}
