package desk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/minios-linux/shuttle/rest"
)

const (
	apiPrefix = "/api/v2"
	perPage   = 100
)

// Config holds the connection settings for Client.
type Config struct {
	Sitename string
	User     string
	Password string
	// BaseURL overrides https://<sitename>.desk.com.
	BaseURL    string
	Proxy      string
	Timeout    time.Duration
	MaxRetries int
}

// Client talks to the Desk API v2 of one site.
type Client struct {
	rc *rest.Client
}

// NewClient returns a Client for cfg.
func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.desk.com", cfg.Sitename)
	}
	return &Client{rc: rest.New(rest.Options{
		BaseURL:    base,
		Username:   cfg.User,
		Password:   cfg.Password,
		Proxy:      cfg.Proxy,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
	})}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	err := c.rc.Do(ctx, method, path, in, out)
	var se *rest.StatusError
	if errors.As(err, &se) && se.NotFound() {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return err
}

type page struct {
	Links struct {
		Next *Link `json:"next"`
	} `json:"_links"`
	Embedded struct {
		Entries json.RawMessage `json:"entries"`
	} `json:"_embedded"`
}

// list follows _links.next from path and returns the entries of every
// page.
func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var all []T
	next := fmt.Sprintf("%s?per_page=%d", path, perPage)
	for next != "" {
		var p page
		if err := c.do(ctx, http.MethodGet, next, nil, &p); err != nil {
			return nil, err
		}
		if len(p.Embedded.Entries) > 0 {
			var entries []T
			if err := json.Unmarshal(p.Embedded.Entries, &entries); err != nil {
				return nil, fmt.Errorf("decoding %s entries: %w", path, err)
			}
			all = append(all, entries...)
		}
		next = ""
		if p.Links.Next != nil {
			next = p.Links.Next.Href
		}
	}
	return all, nil
}

func topicPath(id string) string {
	return apiPrefix + "/topics/" + url.PathEscape(id)
}

func articlePath(id string) string {
	return apiPrefix + "/articles/" + url.PathEscape(id)
}

// Topics returns every topic of the site.
func (c *Client) Topics(ctx context.Context) ([]Topic, error) {
	topics, err := list[Topic](ctx, c, apiPrefix+"/topics")
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	log.Debugf("Fetched %d topics", len(topics))
	return topics, nil
}

// Articles returns every article of the site.
func (c *Client) Articles(ctx context.Context) ([]Article, error) {
	articles, err := list[Article](ctx, c, apiPrefix+"/articles")
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	log.Debugf("Fetched %d articles", len(articles))
	return articles, nil
}

// Article returns one article by id.
func (c *Client) Article(ctx context.Context, id string) (*Article, error) {
	var a Article
	if err := c.do(ctx, http.MethodGet, articlePath(id), nil, &a); err != nil {
		return nil, fmt.Errorf("getting article %s: %w", id, err)
	}
	return &a, nil
}

// TopicTranslations returns a topic's translations keyed by locale.
func (c *Client) TopicTranslations(ctx context.Context, topicID string) (map[string]TopicTranslation, error) {
	trs, err := list[TopicTranslation](ctx, c, topicPath(topicID)+"/translations")
	if err != nil {
		return nil, fmt.Errorf("listing translations of topic %s: %w", topicID, err)
	}
	out := make(map[string]TopicTranslation, len(trs))
	for _, tr := range trs {
		out[tr.Locale] = tr
	}
	return out, nil
}

// CreateTopicTranslation adds a translation to a topic.
func (c *Client) CreateTopicTranslation(ctx context.Context, topicID string, tr TopicTranslation) error {
	if err := c.do(ctx, http.MethodPost, topicPath(topicID)+"/translations", tr, nil); err != nil {
		return fmt.Errorf("creating %s translation of topic %s: %w", tr.Locale, topicID, err)
	}
	return nil
}

// UpdateTopicTranslation patches an existing topic translation.
func (c *Client) UpdateTopicTranslation(ctx context.Context, topicID string, tr TopicTranslation) error {
	path := topicPath(topicID) + "/translations/" + url.PathEscape(tr.Locale)
	if err := c.do(ctx, http.MethodPatch, path, tr, nil); err != nil {
		return fmt.Errorf("updating %s translation of topic %s: %w", tr.Locale, topicID, err)
	}
	return nil
}

// ArticleTranslations returns an article's translations keyed by locale.
func (c *Client) ArticleTranslations(ctx context.Context, articleID string) (map[string]ArticleTranslation, error) {
	trs, err := list[ArticleTranslation](ctx, c, articlePath(articleID)+"/translations")
	if err != nil {
		return nil, fmt.Errorf("listing translations of article %s: %w", articleID, err)
	}
	out := make(map[string]ArticleTranslation, len(trs))
	for _, tr := range trs {
		out[tr.Locale] = tr
	}
	return out, nil
}

// CreateArticleTranslation adds a translation to an article.
func (c *Client) CreateArticleTranslation(ctx context.Context, articleID string, tr ArticleTranslation) error {
	if err := c.do(ctx, http.MethodPost, articlePath(articleID)+"/translations", tr, nil); err != nil {
		return fmt.Errorf("creating %s translation of article %s: %w", tr.Locale, articleID, err)
	}
	return nil
}

// UpdateArticleTranslation patches an existing article translation.
func (c *Client) UpdateArticleTranslation(ctx context.Context, articleID string, tr ArticleTranslation) error {
	path := articlePath(articleID) + "/translations/" + url.PathEscape(tr.Locale)
	if err := c.do(ctx, http.MethodPatch, path, tr, nil); err != nil {
		return fmt.Errorf("updating %s translation of article %s: %w", tr.Locale, articleID, err)
	}
	return nil
}
