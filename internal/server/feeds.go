package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blackpirateapps/reader/internal/model"
)

// handleFeeds routes the feed subscription actions.
func (s *Server) handleFeeds(c echo.Context) error {
	req := decode(c)

	switch req.Type {
	case "add_feed":
		return s.addFeed(c, req)
	case "refresh_feeds":
		return s.refreshFeeds(c)
	case "get_unread":
		return s.unreadItems(c)
	case "mark_read":
		return s.markItemRead(c, req)
	case "get_subscriptions":
		return s.listFeeds(c)
	case "delete_feed":
		return s.deleteFeed(c, req)
	case "preview":
		return s.previewItem(c, req)
	default:
		return c.JSON(http.StatusBadRequest, errResp("Invalid action type"))
	}
}

// addFeed probes the URL first: a subscription is only stored once the feed
// fetched and parsed, so the stored title is the feed's own.
func (s *Server) addFeed(c echo.Context, req *apiRequest) error {
	if req.URL == "" {
		return c.JSON(http.StatusBadRequest, errResp("URL required"))
	}

	ctx := c.Request().Context()
	parsed, err := s.refresher.Probe(ctx, req.URL)
	if err != nil {
		return s.fail(c, err)
	}

	if _, err := s.feeds.Add(ctx, req.URL, parsed.Title); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (s *Server) refreshFeeds(c echo.Context) error {
	n, err := s.refresher.RefreshAll(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "new_items": n})
}

func (s *Server) unreadItems(c echo.Context) error {
	items, err := s.feeds.Unread(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	if items == nil {
		items = []model.FeedItem{}
	}
	return c.JSON(http.StatusOK, items)
}

func (s *Server) markItemRead(c echo.Context, req *apiRequest) error {
	if req.ID == 0 {
		return c.JSON(http.StatusBadRequest, errResp("ID required"))
	}

	if err := s.feeds.MarkRead(c.Request().Context(), req.ID); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (s *Server) listFeeds(c echo.Context) error {
	feeds, err := s.feeds.All(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	if feeds == nil {
		feeds = []model.Feed{}
	}
	return c.JSON(http.StatusOK, feeds)
}

func (s *Server) deleteFeed(c echo.Context, req *apiRequest) error {
	if req.ID == 0 {
		return c.JSON(http.StatusBadRequest, errResp("ID required"))
	}

	if err := s.feeds.Delete(c.Request().Context(), req.ID); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// previewItem scrapes a feed item's page and returns the cleaned content
// without persisting anything, so the user can read before saving.
func (s *Server) previewItem(c echo.Context, req *apiRequest) error {
	if req.URL == "" {
		return c.JSON(http.StatusBadRequest, errResp("URL required"))
	}

	result, err := s.scraper.Scrape(c.Request().Context(), req.URL)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"title":   result.Title,
		"content": result.Content,
		"url":     req.URL,
	})
}
