// Package webfetch turns a web page into plain text suitable for pasting
// into a council query as context.
package webfetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	fetchTimeout = 30 * time.Second

	// maxContentLen caps extracted text so a huge page cannot blow up the
	// downstream prompts.
	maxContentLen = 100_000

	userAgent = "LLM-Council-Fetcher/1.0"
)

// Fetcher downloads pages and extracts their readable text, caching
// results per URL.
type Fetcher struct {
	client *http.Client
	cache  *pageCache
}

// New creates a fetcher whose results stay cached for ttl.
func New(ttl time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: fetchTimeout},
		cache:  newPageCache(ttl),
	}
}

// Content fetches url and returns its readable text. Repeated fetches of
// the same URL within the cache TTL are served from memory.
func (f *Fetcher) Content(ctx context.Context, url string) (string, error) {
	if content, ok := f.cache.Get(url); ok {
		return content, nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	content := ExtractText(doc)
	if content == "" {
		return "", fmt.Errorf("no readable content found")
	}

	f.cache.Set(url, content)
	return content, nil
}

// ExtractText pulls the readable text out of an HTML document, preferring
// the main content region and dropping script, style, and navigation
// chrome.
func ExtractText(doc *goquery.Document) string {
	doc.Find("script, style, noscript, nav, header, footer, aside").Remove()

	// Prefer semantic content containers, fall back to body.
	region := doc.Find("main, article").First()
	if region.Length() == 0 {
		region = doc.Find("body")
	}

	var b strings.Builder
	region.Find("h1, h2, h3, h4, h5, h6, p, li, pre, blockquote, td").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	})

	content := strings.TrimSpace(b.String())
	if content == "" {
		// A page without any of the usual blocks still gets its raw text.
		content = strings.TrimSpace(region.Text())
	}
	content = collapseWhitespace(content)

	if len(content) > maxContentLen {
		content = content[:maxContentLen]
	}
	return content
}

// collapseWhitespace squeezes runs of blank lines and intra-line spaces
// left behind by HTML stripping.
func collapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
