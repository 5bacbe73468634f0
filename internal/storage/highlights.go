package storage

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/blackpirateapps/reader/internal/model"
)

const allHighlightsLimit = 100

type HighlightStore struct {
	db *sqlx.DB
}

func NewHighlightStore(db *sqlx.DB) *HighlightStore {
	return &HighlightStore{db: db}
}

func (s *HighlightStore) Add(ctx context.Context, articleID int64, quote, note string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO highlights (article_id, quote, note) VALUES ($1, $2, $3) RETURNING id`,
		articleID, quote, note,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ByArticle returns an article's highlights in creation order, the order
// they are reapplied in when rendering.
func (s *HighlightStore) ByArticle(ctx context.Context, articleID int64) ([]model.Highlight, error) {
	var highlights []model.Highlight
	err := s.db.SelectContext(ctx, &highlights,
		`SELECT id, article_id, quote, note, created_at
		 FROM highlights
		 WHERE article_id = $1
		 ORDER BY id ASC`,
		articleID,
	)
	return highlights, err
}

// All returns the newest highlights across all articles, joined with the
// owning article's title.
func (s *HighlightStore) All(ctx context.Context) ([]model.Highlight, error) {
	var highlights []model.Highlight
	err := s.db.SelectContext(ctx, &highlights,
		`SELECT h.id, h.article_id, h.quote, h.note, h.created_at, a.title
		 FROM highlights h
		 JOIN articles a ON h.article_id = a.id
		 ORDER BY h.created_at DESC
		 LIMIT $1`,
		allHighlightsLimit,
	)
	return highlights, err
}

func (s *HighlightStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM highlights WHERE id = $1`, id)
	return err
}
