package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/blackpirateapps/reader/internal/model"
)

const (
	listLimit   = 50
	searchLimit = 20
)

type ArticleStore struct {
	db *sqlx.DB
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

func (s *ArticleStore) Save(ctx context.Context, url, title, content string, hnID *int64) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO articles (url, title, content, hn_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		url, title, content, hnID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// List returns article metadata (no content) for the inbox or the archive,
// newest first.
func (s *ArticleStore) List(ctx context.Context, archived bool) ([]model.Article, error) {
	var articles []model.Article
	err := s.db.SelectContext(ctx, &articles,
		`SELECT id, url, title, hn_id, created_at, is_archived
		 FROM articles
		 WHERE is_archived = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		archived, listLimit,
	)
	return articles, err
}

func (s *ArticleStore) Read(ctx context.Context, id int64) (*model.Article, error) {
	var article model.Article
	err := s.db.GetContext(ctx, &article,
		`SELECT id, url, title, content, hn_id, created_at, is_archived FROM articles WHERE id = $1`,
		id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// Search matches the query as a case-insensitive substring of the title or
// the content.
func (s *ArticleStore) Search(ctx context.Context, query string) ([]model.Article, error) {
	pattern := "%" + query + "%"

	var articles []model.Article
	err := s.db.SelectContext(ctx, &articles,
		`SELECT id, url, title, hn_id, created_at, is_archived
		 FROM articles
		 WHERE title ILIKE $1 OR content ILIKE $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		pattern, searchLimit,
	)
	return articles, err
}

func (s *ArticleStore) SetArchived(ctx context.Context, id int64, archived bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE articles SET is_archived = $1 WHERE id = $2`, archived, id)
	return err
}

func (s *ArticleStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	return err
}
