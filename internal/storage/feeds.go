package storage

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/blackpirateapps/reader/internal/model"
)

const unreadLimit = 100

type FeedStore struct {
	db *sqlx.DB
}

func NewFeedStore(db *sqlx.DB) *FeedStore {
	return &FeedStore{db: db}
}

func (s *FeedStore) Add(ctx context.Context, url, title string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO feeds (url, title) VALUES ($1, $2) RETURNING id`,
		url, title,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *FeedStore) All(ctx context.Context) ([]model.Feed, error) {
	var feeds []model.Feed
	err := s.db.SelectContext(ctx, &feeds,
		`SELECT id, url, title FROM feeds ORDER BY title ASC`)
	return feeds, err
}

// Delete removes a feed and its items. Items go first, and the two deletes
// are deliberately separate statements: if the second one never runs, the
// worst case is a childless feed row, never orphaned items.
func (s *FeedStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM feed_items WHERE feed_id = $1`, id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM feeds WHERE id = $1`, id)
	return err
}

// InsertItem inserts a feed item unless one with the same (feed_id, guid)
// already exists. It reports whether a row was actually written, so a refresh
// can count genuinely new items.
func (s *FeedStore) InsertItem(ctx context.Context, item model.FeedItem) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO feed_items (feed_id, guid, title, url, pub_date)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (feed_id, guid) DO NOTHING`,
		item.FeedID, item.GUID, item.Title, item.URL, item.PubDate,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Unread returns unread items across all feeds, newest first by the stored
// pub_date text.
func (s *FeedStore) Unread(ctx context.Context) ([]model.FeedItem, error) {
	var items []model.FeedItem
	err := s.db.SelectContext(ctx, &items,
		`SELECT i.id, i.feed_id, i.guid, i.title, i.url, i.pub_date, i.is_read, f.title AS feed_title
		 FROM feed_items i
		 JOIN feeds f ON i.feed_id = f.id
		 WHERE NOT i.is_read
		 ORDER BY i.pub_date DESC
		 LIMIT $1`,
		unreadLimit,
	)
	return items, err
}

func (s *FeedStore) MarkRead(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE feed_items SET is_read = TRUE WHERE id = $1`, id)
	return err
}
