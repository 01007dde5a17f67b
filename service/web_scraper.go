package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// minContentLength rejects near-empty or paywalled pages
const minContentLength = 100

// ExtractionError reports a failed content extraction with its cause
type ExtractionError struct {
	URL    string
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed for %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("extraction failed for %s: %s", e.URL, e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Markup elements stripped before text extraction
var skippedElements = map[string]bool{
	"script": true,
	"style":  true,
	"nav":    true,
	"footer": true,
	"header": true,
	"aside":  true,
	"iframe": true,
}

// WebScraperService extracts textual content from legal document URLs
type WebScraperService struct {
	client *http.Client
	logger *zap.Logger
}

// NewWebScraperService creates a scraper with the given fetch timeout
func NewWebScraperService(timeout time.Duration, logger *zap.Logger) *WebScraperService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebScraperService{
		// Redirects are followed by the default client policy
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// ExtractContent fetches the URL and returns its cleaned plain text, one line
// per markup block, blank lines discarded. Fails with *ExtractionError on bad
// status, timeout, network error, or insufficient content.
func (s *WebScraperService) ExtractContent(ctx context.Context, url string) (string, error) {
	s.logger.Info("extracting content", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &ExtractionError{URL: url, Reason: "invalid request", Err: err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &ExtractionError{URL: url, Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ExtractionError{URL: url, Reason: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	root, err := html.Parse(resp.Body)
	if err != nil {
		return "", &ExtractionError{URL: url, Reason: "parsing HTML", Err: err}
	}

	content := extractText(root)
	if len(content) < minContentLength {
		return "", &ExtractionError{URL: url, Reason: fmt.Sprintf("insufficient content (%d characters)", len(content))}
	}

	s.logger.Info("content extracted", zap.String("url", url), zap.Int("chars", len(content)))
	return content, nil
}

// extractText walks the parsed tree, skipping non-content elements, and joins
// the remaining text as newline-separated non-blank lines.
func extractText(root *html.Node) string {
	var lines []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			for _, line := range strings.Split(n.Data, "\n") {
				if cleaned := strings.TrimSpace(line); cleaned != "" {
					lines = append(lines, cleaned)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	return strings.Join(lines, "\n")
}
