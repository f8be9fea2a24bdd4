// internal/scraper/seed_extractor.go
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/unclebandit/sem-planner-backend/internal/logger"
	"github.com/unclebandit/sem-planner-backend/internal/metrics"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultTimeout   = 10 * time.Second

	maxSeedKeywords = 10
	maxBodyBytes    = 5 << 20
)

// FallbackSeedKeywords are returned whenever a page cannot be fetched or parsed.
var FallbackSeedKeywords = []string{
	"digital marketing",
	"online services",
	"web solutions",
	"business consulting",
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {}, "you": {},
	"all": {}, "can": {}, "her": {}, "was": {}, "one": {}, "our": {}, "had": {},
	"words": {}, "use": {}, "each": {}, "which": {}, "she": {}, "how": {}, "its": {},
	"said": {}, "from": {}, "they": {}, "this": {}, "been": {}, "have": {},
	"their": {}, "with": {}, "that": {},
}

const minSeedLength = 3

// HTTPClient is satisfied by *http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// SeedExtractor turns a web page into a short list of seed keywords.
type SeedExtractor struct {
	Client    HTTPClient
	UserAgent string
	Timeout   time.Duration
	Logger    logger.Logger
}

func NewSeedExtractor(client HTTPClient, userAgent string, timeout time.Duration, log logger.Logger) *SeedExtractor {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &SeedExtractor{
		Client:    client,
		UserAgent: userAgent,
		Timeout:   timeout,
		Logger:    log,
	}
}

// ExtractSeedKeywords never fails: on any error it logs and returns a copy
// of FallbackSeedKeywords.
func (e *SeedExtractor) ExtractSeedKeywords(ctx context.Context, websiteURL string) []string {
	text, err := e.fetchPageText(ctx, websiteURL)
	if err != nil {
		e.Logger.Warn("seed extraction failed, using fallback keywords", map[string]interface{}{
			"url":   websiteURL,
			"error": err.Error(),
		})
		metrics.SeedFallbacks.Inc()
		return append([]string(nil), FallbackSeedKeywords...)
	}

	seeds := KeywordsFromText(text)
	e.Logger.Debug("extracted seed keywords", map[string]interface{}{
		"url":   websiteURL,
		"seeds": seeds,
	})
	return seeds
}

func (e *SeedExtractor) fetchPageText(ctx context.Context, websiteURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, websiteURL, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", e.UserAgent)

	resp, err := e.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	// Error statuses still carry a page worth scanning.
	doc, err := html.Parse(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("parsing page: %w", err)
	}
	return PageText(doc), nil
}

// PageText joins the title, meta description and h1-h3 text of doc with
// single spaces, lower-cased.
func PageText(doc *html.Node) string {
	var title string
	var description string
	var headings []string
	titleFound := false
	descriptionFound := false

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Title:
				if !titleFound {
					title = nodeText(n)
					titleFound = true
				}
			case atom.Meta:
				if !descriptionFound && attr(n, "name") == "description" {
					description = attr(n, "content")
					descriptionFound = true
				}
			case atom.H1, atom.H2, atom.H3:
				headings = append(headings, nodeText(n))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	parts := []string{}
	if titleFound {
		parts = append(parts, title)
	}
	if descriptionFound {
		parts = append(parts, description)
	}
	parts = append(parts, headings...)
	return strings.ToLower(strings.Join(parts, " "))
}

// KeywordsFromText extracts up to 10 unique tokens that are not stop words, in
// first-seen order. A token is a whole word (a run of Unicode letters, digits
// and underscores) made only of ASCII letters, at least three long; "café"
// yields nothing rather than "caf".
func KeywordsFromText(text string) []string {
	seen := map[string]struct{}{}
	keywords := []string{}
	for _, word := range strings.FieldsFunc(strings.ToLower(text), isWordSeparator) {
		if len(word) < minSeedLength || !isASCIIWord(word) {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
		if len(keywords) == maxSeedKeywords {
			break
		}
	}
	return keywords
}

func isWordSeparator(r rune) bool {
	return !(unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_')
}

func isASCIIWord(word string) bool {
	for i := 0; i < len(word); i++ {
		c := word[i]
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
