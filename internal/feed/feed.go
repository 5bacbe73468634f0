// Package feed extracts titles, links, guids and publish dates from RSS and
// Atom documents. It is deliberately permissive: unknown dialects, missing
// fields and broken markup degrade to fallbacks instead of errors, so one bad
// feed can never take down a batch refresh.
package feed

import (
	"bytes"
	"strings"
	"time"

	"github.com/beevik/etree"
)

const (
	FallbackFeedTitle = "Unknown Feed"
	FallbackItemTitle = "No Title"
)

type Feed struct {
	Title string
	Items []Item
}

// Item is one entry of a parsed feed. PubDate is kept verbatim as it appeared
// in the document; when the document carries no usable date at all it is
// stamped with the current time, which means re-parsing the same feed yields
// different values. That gap is accepted, callers dedupe on GUID, not PubDate.
type Item struct {
	Title   string
	Link    string
	GUID    string
	PubDate string
}

// pubDateTags are the publish-date elements recognized per item, tried in
// priority order: RSS pubDate first, then the Atom pair.
var pubDateTags = []string{"pubDate", "published", "updated"}

// Parse extracts a feed from raw XML. It never fails: a document that cannot
// be parsed as markup yields the fallback title and no items.
func Parse(raw []byte) Feed {
	out := Feed{Title: FallbackFeedTitle}

	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if _, err := doc.ReadFrom(bytes.NewReader(raw)); err != nil {
		return out
	}

	root := doc.Root()
	if root == nil {
		return out
	}

	if title := feedTitle(doc); title != "" {
		out.Title = title
	}

	for _, el := range itemElements(root) {
		item := parseItem(el)

		// An item without a link cannot be deduplicated or displayed.
		if item.Link == "" {
			continue
		}
		out.Items = append(out.Items, item)
	}

	return out
}

// feedTitle resolves the channel/feed-level title: RSS keeps it under
// <channel>, Atom directly under the <feed> root.
func feedTitle(doc *etree.Document) string {
	for _, path := range []string{"//channel/title", "//feed/title"} {
		if el := doc.FindElement(path); el != nil {
			if title := strings.TrimSpace(el.Text()); title != "" {
				return title
			}
		}
	}
	return ""
}

// itemElements collects every RSS <item> and Atom <entry> in document order.
func itemElements(el *etree.Element) []*etree.Element {
	var items []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == "item" || child.Tag == "entry" {
			items = append(items, child)
			continue
		}
		items = append(items, itemElements(child)...)
	}
	return items
}

func parseItem(el *etree.Element) Item {
	item := Item{Title: FallbackItemTitle}

	if t := childText(el, "title"); t != "" {
		item.Title = t
	}

	// RSS puts the link in the element text, Atom in an href attribute.
	// Both fall back through the same first <link> child.
	if link := el.SelectElement("link"); link != nil {
		item.Link = strings.TrimSpace(link.Text())
		if item.Link == "" {
			item.Link = strings.TrimSpace(link.SelectAttrValue("href", ""))
		}
	}

	item.GUID = itemGUID(el)
	if item.GUID == "" {
		item.GUID = item.Link
	}

	item.PubDate = itemPubDate(el)

	return item
}

// itemGUID returns the text of the first <guid> (RSS) or <id> (Atom) child.
func itemGUID(el *etree.Element) string {
	for _, child := range el.ChildElements() {
		if child.Tag == "guid" || child.Tag == "id" {
			return strings.TrimSpace(child.Text())
		}
	}
	return ""
}

func itemPubDate(el *etree.Element) string {
	for _, tag := range pubDateTags {
		if d := childText(el, tag); d != "" {
			return d
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}
