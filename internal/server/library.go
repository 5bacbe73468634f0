package server

import (
	"errors"
	"html"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"

	"github.com/blackpirateapps/reader/internal/highlight"
	"github.com/blackpirateapps/reader/internal/model"
	"github.com/blackpirateapps/reader/internal/storage"
)

// handleLibrary routes the article and highlight actions by their type
// discriminator.
func (s *Server) handleLibrary(c echo.Context) error {
	req := decode(c)

	switch req.Type {
	case "list":
		return s.listArticles(c)
	case "read":
		return s.readArticle(c, req)
	case "search":
		return s.searchArticles(c)
	case "save":
		return s.saveArticle(c, req)
	case "archive":
		return s.archiveArticle(c, req)
	case "delete":
		return s.deleteArticle(c, req)
	case "add_highlight":
		return s.addHighlight(c, req)
	case "get_highlights":
		return s.getHighlights(c, req)
	case "all_highlights":
		return s.allHighlights(c)
	case "delete_highlight":
		return s.deleteHighlight(c, req)
	case "summarize":
		return s.summarizeArticle(c, req)
	default:
		return c.JSON(http.StatusBadRequest, errResp("Invalid action type"))
	}
}

func (s *Server) listArticles(c echo.Context) error {
	archived := c.QueryParam("archived") == "true"

	articles, err := s.articles.List(c.Request().Context(), archived)
	if err != nil {
		return s.fail(c, err)
	}
	if articles == nil {
		articles = []model.Article{}
	}
	return c.JSON(http.StatusOK, articles)
}

func (s *Server) readArticle(c echo.Context, req *apiRequest) error {
	if req.ID == 0 {
		return c.JSON(http.StatusBadRequest, errResp("ID required"))
	}

	ctx := c.Request().Context()
	article, err := s.articles.Read(ctx, req.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return c.JSON(http.StatusNotFound, errResp("Article not found"))
	}
	if err != nil {
		return s.fail(c, err)
	}

	// annotated=true bakes the stored highlights into the content so a
	// client without its own anchoring logic can render them directly.
	if c.QueryParam("annotated") == "true" {
		highlights, err := s.highlights.ByArticle(ctx, req.ID)
		if err != nil {
			return s.fail(c, err)
		}
		article.Content = highlight.Apply(article.Content, highlights)
	}

	return c.JSON(http.StatusOK, article)
}

func (s *Server) searchArticles(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusOK, []model.Article{})
	}

	articles, err := s.articles.Search(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	if articles == nil {
		articles = []model.Article{}
	}
	return c.JSON(http.StatusOK, articles)
}

func (s *Server) saveArticle(c echo.Context, req *apiRequest) error {
	if req.URL == "" {
		return c.JSON(http.StatusBadRequest, errResp("URL required"))
	}

	ctx := c.Request().Context()
	result, err := s.scraper.Scrape(ctx, req.URL)
	if err != nil {
		return s.fail(c, err)
	}

	id, err := s.articles.Save(ctx, req.URL, result.Title, result.Content, req.HNID)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"id":      id,
		"title":   result.Title,
	})
}

func (s *Server) archiveArticle(c echo.Context, req *apiRequest) error {
	if req.ID == 0 {
		return c.JSON(http.StatusBadRequest, errResp("ID required"))
	}

	archived := req.Action == "archive"
	if err := s.articles.SetArchived(c.Request().Context(), req.ID, archived); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (s *Server) deleteArticle(c echo.Context, req *apiRequest) error {
	if req.ID == 0 {
		return c.JSON(http.StatusBadRequest, errResp("ID required"))
	}

	if err := s.articles.Delete(c.Request().Context(), req.ID); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (s *Server) addHighlight(c echo.Context, req *apiRequest) error {
	if req.ArticleID == 0 || req.Quote == "" {
		return c.JSON(http.StatusBadRequest, errResp("Missing data"))
	}

	id, err := s.highlights.Add(c.Request().Context(), req.ArticleID, req.Quote, req.Note)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "id": id})
}

func (s *Server) getHighlights(c echo.Context, req *apiRequest) error {
	if req.ArticleID == 0 {
		return c.JSON(http.StatusBadRequest, errResp("Missing data"))
	}

	highlights, err := s.highlights.ByArticle(c.Request().Context(), req.ArticleID)
	if err != nil {
		return s.fail(c, err)
	}
	if highlights == nil {
		highlights = []model.Highlight{}
	}
	return c.JSON(http.StatusOK, highlights)
}

func (s *Server) allHighlights(c echo.Context) error {
	highlights, err := s.highlights.All(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	if highlights == nil {
		highlights = []model.Highlight{}
	}
	return c.JSON(http.StatusOK, highlights)
}

func (s *Server) deleteHighlight(c echo.Context, req *apiRequest) error {
	if req.ID == 0 {
		return c.JSON(http.StatusBadRequest, errResp("ID required"))
	}

	if err := s.highlights.Delete(c.Request().Context(), req.ID); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (s *Server) summarizeArticle(c echo.Context, req *apiRequest) error {
	if s.summarizer == nil {
		return c.JSON(http.StatusBadRequest, errResp("Summarization not configured"))
	}
	if req.ID == 0 {
		return c.JSON(http.StatusBadRequest, errResp("ID required"))
	}

	article, err := s.articles.Read(c.Request().Context(), req.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return c.JSON(http.StatusNotFound, errResp("Article not found"))
	}
	if err != nil {
		return s.fail(c, err)
	}

	text, err := s.summarizer.Summarize(stripTags(article.Content))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"summary": text})
}

// stripTags reduces stored article HTML to plain text for the model.
func stripTags(content string) string {
	return html.UnescapeString(bluemonday.StrictPolicy().Sanitize(content))
}
