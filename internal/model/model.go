// Package model defines the data structures stored by the reader: saved
// articles, highlights anchored to them, feed subscriptions and their items.
package model

import "time"

type Article struct {
	ID         int64     `db:"id" json:"id"`
	URL        string    `db:"url" json:"url"`
	Title      string    `db:"title" json:"title"`
	Content    string    `db:"content" json:"content,omitempty"`
	HNID       *int64    `db:"hn_id" json:"hn_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	IsArchived bool      `db:"is_archived" json:"is_archived"`
}

type Highlight struct {
	ID        int64     `db:"id" json:"id"`
	ArticleID int64     `db:"article_id" json:"article_id"`
	Quote     string    `db:"quote" json:"quote"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Title is the owning article's title, populated only by joined queries.
	Title string `db:"title" json:"title,omitempty"`
}

type Feed struct {
	ID    int64  `db:"id" json:"id"`
	URL   string `db:"url" json:"url"`
	Title string `db:"title" json:"title"`
}

// FeedItem keeps PubDate as the raw string taken from the feed document.
// Items are ordered by this text value, matching how they were stored.
type FeedItem struct {
	ID      int64  `db:"id" json:"id"`
	FeedID  int64  `db:"feed_id" json:"feed_id"`
	GUID    string `db:"guid" json:"guid"`
	Title   string `db:"title" json:"title"`
	URL     string `db:"url" json:"url"`
	PubDate string `db:"pub_date" json:"pub_date"`
	IsRead  bool   `db:"is_read" json:"is_read"`

	// FeedTitle is populated only by joined queries.
	FeedTitle string `db:"feed_title" json:"feed_title,omitempty"`
}
