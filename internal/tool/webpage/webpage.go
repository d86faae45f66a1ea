// Package webpage provides the bundled read_page tool: fetch a URL and
// extract its readable text for the model.
package webpage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/Cyclone1070/piperun/internal/orchestrator/adapter"
	"github.com/Cyclone1070/piperun/internal/pipe/models"
	"golang.org/x/net/html"
)

const maxBodyBytes = 2 * 1024 * 1024
const maxTextRunes = 20000

// Request are the read_page arguments.
type Request struct {
	URL string `mapstructure:"url"`
}

// Validate implements adapter.Validator
func (r Request) Validate() error {
	if r.URL == "" {
		return errors.New("url must not be empty")
	}
	u, err := url.Parse(r.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return nil
}

// Response is the read_page result.
type Response struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
}

// New returns the read_page tool.
func New() adapter.Tool {
	client := &http.Client{Timeout: 30 * time.Second}
	return adapter.NewTypedTool(
		"read_page",
		"Fetches a web page and returns its readable text",
		&models.ParameterSchema{
			Type: "object",
			Properties: map[string]models.PropertySchema{
				"url": {
					Type:        "string",
					Description: "Absolute http(s) URL to fetch",
				},
			},
			Required: []string{"url"},
		},
		func(ctx context.Context, req Request) (Response, error) {
			return fetch(ctx, client, req.URL)
		},
	)
}

func fetch(ctx context.Context, client *http.Client, pageURL string) (Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return Response{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Response{}, fmt.Errorf("read page: %w", err)
	}

	title, text := extractText(body)
	return Response{URL: pageURL, Title: title, Text: truncate(text, maxTextRunes)}, nil
}

// extractText walks the parsed document collecting text nodes, skipping
// script, style and noscript subtrees.
func extractText(data []byte) (title, text string) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", normalizeWS(string(data))
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n == nil {
			return
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "title":
				if title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteRune(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return title, normalizeWS(sb.String())
}

func normalizeWS(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && sb.Len() > 0 {
			sb.WriteRune(' ')
		}
		space = false
		sb.WriteRune(r)
	}
	return sb.String()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
