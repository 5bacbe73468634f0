// Package scraper turns an arbitrary web page into a readable article: it
// fetches the page with a browser-like identity, repairs lazy-loaded images,
// runs readability extraction and sanitizes the result for storage.
package scraper

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

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
)

var (
	// ErrFetch marks an upstream failure: the URL was unreachable or
	// answered with a non-success status.
	ErrFetch = errors.New("fetch failed")

	// ErrUnparseable marks a page that readability could not reduce to an
	// article. Nothing from such a page may be persisted.
	ErrUnparseable = errors.New("could not parse article")
)

// lazyAttrs are the lazy-load placeholder attributes recognized on images,
// checked in priority order. The first one present wins.
var lazyAttrs = []string{"data-src", "data-original", "data-url"}

// Result is the transient output of a scrape: the extracted title and the
// sanitized article HTML. It is not a stored record.
type Result struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Scraper struct {
	client    *http.Client
	userAgent string
}

func New(timeout time.Duration, userAgent string) *Scraper {
	return &Scraper{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Scrape fetches rawURL and normalizes the response body into an article.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*Result, error) {
	body, err := s.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return Normalize(body, rawURL)
}

func (s *Scraper) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	// Some sites refuse unknown clients or serve them stripped-down markup.
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %s returned %s", ErrFetch, rawURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return body, nil
}

// Normalize extracts a readable article from raw HTML. sourceURL is the page
// the HTML came from; every image reference is resolved against it, since
// readability output full of relative src paths renders broken once served
// from another origin.
func Normalize(rawHTML []byte, sourceURL string) (*Result, error) {
	base, err := url.Parse(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("invalid source url %q: %w", sourceURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	resolveImages(doc, base)

	normalized, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	article, err := readability.FromReader(strings.NewReader(normalized), base)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, ErrUnparseable
	}

	return &Result{
		Title:   article.Title,
		Content: sanitize(article.Content),
	}, nil
}

// resolveImages promotes lazy-load placeholder attributes into src and
// rewrites every image source as an absolute URL.
func resolveImages(doc *goquery.Document, base *url.URL) {
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		for _, attr := range lazyAttrs {
			if v, ok := img.Attr(attr); ok && strings.TrimSpace(v) != "" {
				img.SetAttr("src", strings.TrimSpace(v))
				break
			}
		}

		src, ok := img.Attr("src")
		if !ok || strings.TrimSpace(src) == "" {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(src))
		if err != nil {
			return
		}
		img.SetAttr("src", base.ResolveReference(ref).String())
	})
}

// sanitize strips scripts and unsafe attributes while keeping the structural
// HTML the reader renders, images included.
func sanitize(raw string) string {
	p := bluemonday.UGCPolicy()
	p.AllowElements("article", "section", "figure", "figcaption", "main")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src", "alt", "title").OnElements("img")
	p.AllowURLSchemes("http", "https", "mailto")

	return p.Sanitize(raw)
}
