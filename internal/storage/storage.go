// Package storage is the Postgres persistence layer. Stores hold a shared
// *sqlx.DB handed in by the caller; there is no package-level connection.
package storage

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS articles (
	id          BIGSERIAL PRIMARY KEY,
	url         TEXT        NOT NULL,
	title       TEXT        NOT NULL,
	content     TEXT        NOT NULL,
	hn_id       BIGINT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	is_archived BOOLEAN     NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS highlights (
	id         BIGSERIAL PRIMARY KEY,
	article_id BIGINT      NOT NULL REFERENCES articles (id) ON DELETE CASCADE,
	quote      TEXT        NOT NULL,
	note       TEXT        NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS feeds (
	id    BIGSERIAL PRIMARY KEY,
	url   TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS feed_items (
	id       BIGSERIAL PRIMARY KEY,
	feed_id  BIGINT  NOT NULL,
	guid     TEXT    NOT NULL,
	title    TEXT    NOT NULL DEFAULT '',
	url      TEXT    NOT NULL DEFAULT '',
	pub_date TEXT    NOT NULL DEFAULT '',
	is_read  BOOLEAN NOT NULL DEFAULT FALSE,
	UNIQUE (feed_id, guid)
);
`

// EnsureSchema creates the tables if they do not exist yet. Statements are
// idempotent, so running it on every start is safe.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
