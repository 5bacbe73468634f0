// Package hackernews is a small client for the Firebase Hacker News API,
// serving the reader's HN browsing tab.
package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// PageSize is the number of stories per top-stories page.
	PageSize = 20

	// maxComments caps how many top-level comments are fetched per story.
	maxComments = 20

	defaultBaseURL = "https://hacker-news.firebaseio.com/v0"
)

// Item mirrors the HN API item shape for both stories and comments.
type Item struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type,omitempty"`
	By          string  `json:"by,omitempty"`
	Title       string  `json:"title,omitempty"`
	URL         string  `json:"url,omitempty"`
	Text        string  `json:"text,omitempty"`
	Score       int     `json:"score,omitempty"`
	Time        int64   `json:"time,omitempty"`
	Descendants int     `json:"descendants,omitempty"`
	Kids        []int64 `json:"kids,omitempty"`
}

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// TopStories returns one page of the current top stories. Individual story
// fetches that fail are skipped, the page just comes back shorter.
func (c *Client) TopStories(ctx context.Context, page int) ([]Item, error) {
	if page < 0 {
		page = 0
	}

	var ids []int64
	if err := c.get(ctx, "/topstories.json", &ids); err != nil {
		return nil, err
	}

	start := page * PageSize
	if start >= len(ids) {
		return []Item{}, nil
	}
	end := start + PageSize
	if end > len(ids) {
		end = len(ids)
	}

	return c.fetchItems(ctx, ids[start:end]), nil
}

// Comments returns up to maxComments top-level comments of a story, skipping
// deleted or unfetchable ones.
func (c *Client) Comments(ctx context.Context, storyID int64) ([]Item, error) {
	story, err := c.item(ctx, storyID)
	if err != nil {
		return nil, err
	}

	kids := story.Kids
	if len(kids) > maxComments {
		kids = kids[:maxComments]
	}
	return c.fetchItems(ctx, kids), nil
}

// fetchItems resolves ids concurrently, preserving order and dropping
// failures.
func (c *Client) fetchItems(ctx context.Context, ids []int64) []Item {
	results := make([]*Item, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			item, err := c.item(ctx, id)
			if err != nil {
				return nil
			}
			results[i] = item
			return nil
		})
	}
	_ = g.Wait()

	items := make([]Item, 0, len(ids))
	for _, item := range results {
		if item != nil && item.ID != 0 {
			items = append(items, *item)
		}
	}
	return items
}

func (c *Client) item(ctx context.Context, id int64) (*Item, error) {
	var item Item
	if err := c.get(ctx, fmt.Sprintf("/item/%d.json", id), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("hacker news api: %s returned %s", path, resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
