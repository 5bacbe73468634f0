package hackernews

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var itemPath = regexp.MustCompile(`^/item/(\d+)\.json$`)

// newFakeAPI serves topstories plus items; ids listed in broken return 500.
func newFakeAPI(t *testing.T, ids []int64, broken map[int64]bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/topstories.json" {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, "[")
			for i, id := range ids {
				if i > 0 {
					fmt.Fprint(w, ",")
				}
				fmt.Fprint(w, id)
			}
			fmt.Fprint(w, "]")
			return
		}
		if m := itemPath.FindStringSubmatch(r.URL.Path); m != nil {
			id, _ := strconv.ParseInt(m[1], 10, 64)
			if broken[id] {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"id": %d, "type": "story", "title": "Story %d", "url": "https://example.com/%d", "kids": [%d, %d]}`,
				id, id, id, id*10+1, id*10+2)
			return
		}
		http.NotFound(w, r)
	}))
}

func manyIDs(n int) []int64 {
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	return ids
}

func TestTopStoriesFirstPage(t *testing.T) {
	srv := newFakeAPI(t, manyIDs(50), nil)
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	items, err := c.TopStories(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, items, PageSize)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, "Story 1", items[0].Title)
	assert.Equal(t, int64(20), items[19].ID)
}

func TestTopStoriesSecondPage(t *testing.T) {
	srv := newFakeAPI(t, manyIDs(30), nil)
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	items, err := c.TopStories(context.Background(), 1)
	require.NoError(t, err)

	// Only 10 stories remain on page two.
	require.Len(t, items, 10)
	assert.Equal(t, int64(21), items[0].ID)
}

func TestTopStoriesPastTheEnd(t *testing.T) {
	srv := newFakeAPI(t, manyIDs(5), nil)
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	items, err := c.TopStories(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestTopStoriesSkipsFailedItems(t *testing.T) {
	srv := newFakeAPI(t, manyIDs(5), map[int64]bool{3: true})
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	items, err := c.TopStories(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, items, 4)
	for _, item := range items {
		assert.NotEqual(t, int64(3), item.ID)
	}
}

func TestComments(t *testing.T) {
	srv := newFakeAPI(t, manyIDs(1), nil)
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	comments, err := c.Comments(context.Background(), 7)
	require.NoError(t, err)

	// Story 7 advertises kids 71 and 72.
	require.Len(t, comments, 2)
	assert.Equal(t, int64(71), comments[0].ID)
	assert.Equal(t, int64(72), comments[1].ID)
}

func TestCommentsStoryFetchFailure(t *testing.T) {
	srv := newFakeAPI(t, manyIDs(1), map[int64]bool{7: true})
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	_, err := c.Comments(context.Background(), 7)
	assert.Error(t, err)
}
