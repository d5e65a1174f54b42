// Package desk is a client for the parts of the Desk API v2 that shuttle
// reads and writes: help-center topics, articles and their translations.
package desk

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a topic, article or translation does not
// exist.
var ErrNotFound = errors.New("desk: not found")

// Link is a HAL link.
type Link struct {
	Href  string `json:"href"`
	Class string `json:"class,omitempty"`
}

// Links is the _links object of a Desk resource.
type Links struct {
	Self Link `json:"self"`
}

// Topic is a help-center topic.
type Topic struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Position        int    `json:"position,omitempty"`
	InSupportCenter bool   `json:"in_support_center"`
	ShowInPortal    bool   `json:"show_in_portal"`
	Links           Links  `json:"_links"`
}

// APIHref is the topic's canonical API path.
func (t Topic) APIHref() string { return t.Links.Self.Href }

// ID is the last segment of APIHref.
func (t Topic) ID() string { return IDFromHref(t.Links.Self.Href) }

// Article is a help-center article (a tutorial).
type Article struct {
	Subject         string `json:"subject"`
	Body            string `json:"body"`
	Locale          string `json:"locale,omitempty"`
	InSupportCenter bool   `json:"in_support_center"`
	Links           Links  `json:"_links"`
}

// APIHref is the article's canonical API path.
func (a Article) APIHref() string { return a.Links.Self.Href }

// ID is the last segment of APIHref.
func (a Article) ID() string { return IDFromHref(a.Links.Self.Href) }

// TopicTranslation is a topic in one locale. Empty fields are left
// unchanged on update.
type TopicTranslation struct {
	Locale          string `json:"locale"`
	Name            string `json:"name,omitempty"`
	Description     string `json:"description,omitempty"`
	InSupportCenter *bool  `json:"in_support_center,omitempty"`
	Outdated        bool   `json:"outdated,omitempty"`
}

// ArticleTranslation is an article in one locale. Empty fields are left
// unchanged on update.
type ArticleTranslation struct {
	Locale   string `json:"locale"`
	Subject  string `json:"subject,omitempty"`
	Body     string `json:"body,omitempty"`
	Outdated bool   `json:"outdated,omitempty"`
}

// IDFromHref returns the last path segment of a Desk API href such as
// "/api/v2/articles/42".
func IDFromHref(href string) string {
	href = strings.TrimRight(href, "/")
	if i := strings.LastIndex(href, "/"); i >= 0 {
		return href[i+1:]
	}
	return href
}
