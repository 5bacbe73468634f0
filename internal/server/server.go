// Package server is the HTTP surface of the reader: a small JSON API with a
// shared-secret header check in front of every endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/blackpirateapps/reader/internal/feed"
	"github.com/blackpirateapps/reader/internal/hackernews"
	"github.com/blackpirateapps/reader/internal/model"
	"github.com/blackpirateapps/reader/internal/scraper"
	"github.com/blackpirateapps/reader/internal/storage"
	"github.com/blackpirateapps/reader/internal/summary"
)

type ArticleStore interface {
	Save(ctx context.Context, url, title, content string, hnID *int64) (int64, error)
	List(ctx context.Context, archived bool) ([]model.Article, error)
	Read(ctx context.Context, id int64) (*model.Article, error)
	Search(ctx context.Context, query string) ([]model.Article, error)
	SetArchived(ctx context.Context, id int64, archived bool) error
	Delete(ctx context.Context, id int64) error
}

type HighlightStore interface {
	Add(ctx context.Context, articleID int64, quote, note string) (int64, error)
	ByArticle(ctx context.Context, articleID int64) ([]model.Highlight, error)
	All(ctx context.Context) ([]model.Highlight, error)
	Delete(ctx context.Context, id int64) error
}

type FeedStore interface {
	Add(ctx context.Context, url, title string) (int64, error)
	All(ctx context.Context) ([]model.Feed, error)
	Delete(ctx context.Context, id int64) error
	Unread(ctx context.Context) ([]model.FeedItem, error)
	MarkRead(ctx context.Context, id int64) error
}

type Scraper interface {
	Scrape(ctx context.Context, url string) (*scraper.Result, error)
}

type Refresher interface {
	Probe(ctx context.Context, url string) (feed.Feed, error)
	RefreshAll(ctx context.Context) (int, error)
}

type NewsClient interface {
	TopStories(ctx context.Context, page int) ([]hackernews.Item, error)
	Comments(ctx context.Context, storyID int64) ([]hackernews.Item, error)
}

type Server struct {
	authKey    string
	articles   ArticleStore
	highlights HighlightStore
	feeds      FeedStore
	scraper    Scraper
	refresher  Refresher
	news       NewsClient
	summarizer summary.Summarizer
}

func New(
	authKey string,
	articles ArticleStore,
	highlights HighlightStore,
	feeds FeedStore,
	scr Scraper,
	refresher Refresher,
	news NewsClient,
	summarizer summary.Summarizer,
) *Server {
	return &Server{
		authKey:    authKey,
		articles:   articles,
		highlights: highlights,
		feeds:      feeds,
		scraper:    scr,
		refresher:  refresher,
		news:       news,
		summarizer: summarizer,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("/api", s.requireAuthKey)
	api.Any("/library", s.handleLibrary)
	api.Any("/feeds", s.handleFeeds)
	api.GET("/hn", s.handleHackerNews)

	// Single-purpose aliases kept for older clients.
	api.GET("/list", s.listArticles)
	api.GET("/read", func(c echo.Context) error { return s.readArticle(c, decode(c)) })
	api.POST("/save", func(c echo.Context) error { return s.saveArticle(c, decode(c)) })
	api.POST("/delete", func(c echo.Context) error { return s.deleteArticle(c, decode(c)) })
}

// requireAuthKey compares the shared-secret header by exact string equality
// before anything else runs.
func (s *Server) requireAuthKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get("X-Auth-Key") != s.authKey {
			return c.JSON(http.StatusUnauthorized, errResp("Unauthorized"))
		}
		return next(c)
	}
}

// apiRequest is the merged request shape of the discriminated endpoints: the
// client sends the type either as a query parameter or as a body field, and
// ids/urls the same way.
type apiRequest struct {
	Type      string `json:"type"`
	URL       string `json:"url"`
	ID        int64  `json:"id"`
	Action    string `json:"action"`
	ArticleID int64  `json:"article_id"`
	Quote     string `json:"quote"`
	Note      string `json:"note"`
	HNID      *int64 `json:"hn_id"`
}

// decode fills an apiRequest from the JSON body (for non-GET requests) and
// then from query parameters, which win when both are present.
func decode(c echo.Context) *apiRequest {
	req := &apiRequest{}

	if c.Request().Method != http.MethodGet && c.Request().Body != nil {
		if err := json.NewDecoder(c.Request().Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
			log.Printf("[WARN] ignoring malformed request body: %v", err)
		}
	}

	if v := c.QueryParam("type"); v != "" {
		req.Type = v
	}
	if v := c.QueryParam("url"); v != "" {
		req.URL = v
	}
	if v, ok := queryInt(c, "id"); ok {
		req.ID = v
	}
	if v, ok := queryInt(c, "article_id"); ok {
		req.ArticleID = v
	}

	return req
}

func queryInt(c echo.Context, name string) (int64, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func errResp(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// fail maps an error to a response status. Not-found is the only error class
// surfaced with its own status; everything else (fetch, extraction, storage)
// is a server error with the message passed through, as the original API did.
func (s *Server) fail(c echo.Context, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return c.JSON(http.StatusNotFound, errResp("Not found"))
	}

	log.Printf("[ERROR] %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	return c.JSON(http.StatusInternalServerError, errResp(err.Error()))
}
