package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// handleHackerNews proxies the HN browsing tab so the client only ever talks
// to this server.
func (s *Server) handleHackerNews(c echo.Context) error {
	switch c.QueryParam("type") {
	case "top":
		page := 0
		if v, ok := queryInt(c, "page"); ok {
			page = int(v)
		}
		items, err := s.news.TopStories(c.Request().Context(), page)
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(http.StatusOK, items)

	case "comments":
		id, ok := queryInt(c, "id")
		if !ok {
			return c.JSON(http.StatusBadRequest, errResp("ID required"))
		}
		comments, err := s.news.Comments(c.Request().Context(), id)
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(http.StatusOK, comments)

	default:
		return c.JSON(http.StatusBadRequest, errResp("Invalid action type"))
	}
}
