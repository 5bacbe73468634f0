// Package fetcher refreshes all feed subscriptions: every feed is fetched
// and parsed in parallel, and one feed's failure never poisons the batch.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"

	"github.com/blackpirateapps/reader/internal/feed"
	"github.com/blackpirateapps/reader/internal/model"
	"github.com/blackpirateapps/reader/internal/reporter"
)

type FeedProvider interface {
	All(ctx context.Context) ([]model.Feed, error)
}

type ItemStore interface {
	// InsertItem reports whether a new row was written; duplicates return
	// false without error.
	InsertItem(ctx context.Context, item model.FeedItem) (bool, error)
}

type Fetcher struct {
	feeds     FeedProvider
	items     ItemStore
	client    *http.Client
	userAgent string
	reporter  *reporter.Reporter
}

func New(
	feeds FeedProvider,
	items ItemStore,
	timeout time.Duration,
	userAgent string,
	rep *reporter.Reporter,
) *Fetcher {
	return &Fetcher{
		feeds:     feeds,
		items:     items,
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		reporter:  rep,
	}
}

// Probe fetches and parses a single feed URL without touching storage. Used
// to validate a subscription and learn its title before it is stored.
func (f *Fetcher) Probe(ctx context.Context, url string) (feed.Feed, error) {
	raw, err := f.fetch(ctx, url)
	if err != nil {
		return feed.Feed{}, err
	}
	return feed.Parse(raw), nil
}

// RefreshAll fetches every subscribed feed concurrently and inserts whatever
// items are new. Per-feed failures are logged and reported, never returned:
// the result is the number of newly inserted items across all feeds that did
// respond.
func (f *Fetcher) RefreshAll(ctx context.Context) (int, error) {
	feeds, err := f.feeds.All(ctx)
	if err != nil {
		return 0, err
	}

	var (
		wg       sync.WaitGroup
		inserted atomic.Int64
	)

	for _, fd := range feeds {
		wg.Add(1)
		go func(fd model.Feed) {
			defer wg.Done()

			n, err := f.refreshOne(ctx, fd)
			if err != nil {
				log.Printf("[ERROR] failed to refresh feed %d (%s): %v", fd.ID, fd.URL, err)
				f.reporter.Errorf("feed refresh failed for %s: %v", fd.URL, err)
				return
			}
			inserted.Add(int64(n))
		}(fd)
	}
	wg.Wait()

	return int(inserted.Load()), nil
}

func (f *Fetcher) refreshOne(ctx context.Context, fd model.Feed) (int, error) {
	raw, err := f.fetch(ctx, fd.URL)
	if err != nil {
		return 0, err
	}

	items := lo.Map(feed.Parse(raw).Items, func(item feed.Item, _ int) model.FeedItem {
		return model.FeedItem{
			FeedID:  fd.ID,
			GUID:    item.GUID,
			Title:   item.Title,
			URL:     item.Link,
			PubDate: item.PubDate,
		}
	})

	count := 0
	for _, item := range items {
		wrote, err := f.items.InsertItem(ctx, item)
		if err != nil {
			// One bad row must not abort the rest of the batch.
			log.Printf("[ERROR] failed to insert item %q for feed %d: %v", item.GUID, fd.ID, err)
			continue
		}
		if wrote {
			count++
		}
	}
	return count, nil
}

func (f *Fetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%s returned %s", url, resp.Status)
	}

	return io.ReadAll(resp.Body)
}
