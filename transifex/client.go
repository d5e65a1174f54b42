package transifex

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/minios-linux/shuttle/rest"
)

// DefaultHost is the Transifex API host.
const DefaultHost = "https://www.transifex.com"

// Config holds the connection settings for HTTPClient.
type Config struct {
	Host       string
	Username   string
	Password   string
	Proxy      string
	Timeout    time.Duration
	MaxRetries int
}

// HTTPClient implements Client against the Transifex API v2.
type HTTPClient struct {
	rc *rest.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient returns a Client talking to cfg.Host.
func NewHTTPClient(cfg Config) *HTTPClient {
	host := cfg.Host
	if host == "" {
		host = DefaultHost
	}
	return &HTTPClient{rc: rest.New(rest.Options{
		BaseURL:    host + "/api/2",
		Username:   cfg.Username,
		Password:   cfg.Password,
		Proxy:      cfg.Proxy,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
	})}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	err := c.rc.Do(ctx, method, path, in, out)
	if err == nil {
		return nil
	}
	var se *rest.StatusError
	if errors.As(err, &se) {
		switch {
		case se.NotFound():
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		case se.ServerError():
			return fmt.Errorf("%w: %v", ErrRemoteServer, err)
		}
	}
	return err
}

func resourcePath(projectSlug, slug string) string {
	return fmt.Sprintf("/project/%s/resource/%s/", url.PathEscape(projectSlug), url.PathEscape(slug))
}

// GetProject implements Client.
func (c *HTTPClient) GetProject(ctx context.Context, slug string) (*Project, error) {
	var p Project
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/project/%s/", url.PathEscape(slug)), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject implements Client.
func (c *HTTPClient) CreateProject(ctx context.Context, p *Project) error {
	return c.do(ctx, http.MethodPost, "/projects/", p, nil)
}

// GetResource implements Client. The returned resource carries no content.
func (c *HTTPClient) GetResource(ctx context.Context, projectSlug, slug string) (*Resource, error) {
	var r Resource
	if err := c.do(ctx, http.MethodGet, resourcePath(projectSlug, slug), nil, &r); err != nil {
		return nil, err
	}
	r.ProjectSlug = projectSlug
	return &r, nil
}

// CreateResource implements Client.
func (c *HTTPClient) CreateResource(ctx context.Context, r *Resource) error {
	path := fmt.Sprintf("/project/%s/resources/", url.PathEscape(r.ProjectSlug))
	return c.do(ctx, http.MethodPost, path, r, nil)
}

// UpdateResource implements Client. The name and the source content are
// separate endpoints in API v2.
func (c *HTTPClient) UpdateResource(ctx context.Context, r *Resource) error {
	path := resourcePath(r.ProjectSlug, r.Slug)
	if err := c.do(ctx, http.MethodPut, path, map[string]string{"name": r.Name}, nil); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path+"content/", map[string]string{"content": r.Content}, nil)
}

// DeleteResource implements Client.
func (c *HTTPClient) DeleteResource(ctx context.Context, projectSlug, slug string) error {
	return c.do(ctx, http.MethodDelete, resourcePath(projectSlug, slug), nil, nil)
}

// ListResources implements Client.
func (c *HTTPClient) ListResources(ctx context.Context, projectSlug string) ([]ResourceInfo, error) {
	var list []ResourceInfo
	path := fmt.Sprintf("/project/%s/resources/", url.PathEscape(projectSlug))
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetStatistics implements Client.
func (c *HTTPClient) GetStatistics(ctx context.Context, projectSlug, resourceSlug string) (Stats, error) {
	stats := Stats{}
	if err := c.do(ctx, http.MethodGet, resourcePath(projectSlug, resourceSlug)+"stats/", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// GetTranslation implements Client.
func (c *HTTPClient) GetTranslation(ctx context.Context, projectSlug, resourceSlug, lang string) (*Translation, error) {
	var tr Translation
	path := resourcePath(projectSlug, resourceSlug) + "translation/" + url.PathEscape(lang) + "/"
	if err := c.do(ctx, http.MethodGet, path, nil, &tr); err != nil {
		return nil, err
	}
	return &tr, nil
}
