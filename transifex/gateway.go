package transifex

import (
	"context"
	"errors"
	"fmt"
)

// Gateway wraps a Client with the conventions shuttle relies on: project
// slugs derived as "<prefix>-<locale>", not-found mapped to absent results,
// and a single create-or-update entry point for resources.
type Gateway struct {
	client Client
	prefix string
}

// NewGateway returns a Gateway deriving project slugs from prefix.
func NewGateway(client Client, projectSlugPrefix string) *Gateway {
	return &Gateway{client: client, prefix: projectSlugPrefix}
}

// ProjectSlug returns the project slug for locale.
func (g *Gateway) ProjectSlug(locale string) string {
	return fmt.Sprintf("%s-%s", g.prefix, locale)
}

func (g *Gateway) projectSlug(locale, override string) string {
	if override != "" {
		return override
	}
	return g.ProjectSlug(locale)
}

// ProjectOptions override the generated fields of a new project.
type ProjectOptions struct {
	SourceLanguage string
	Name           string
	Description    string
}

// GetOrCreateProject returns the project for locale, creating a private
// project with generated name and description when it does not exist.
func (g *Gateway) GetOrCreateProject(ctx context.Context, locale string, opts ProjectOptions) (*Project, error) {
	slug := g.ProjectSlug(locale)

	p, err := g.client.GetProject(ctx, slug)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("getting project %s: %w", slug, err)
	}

	p = &Project{
		Slug:               slug,
		Name:               fmt.Sprintf("Help Center (%s)", locale),
		Description:        fmt.Sprintf("Help Center pages to translate to %s", locale),
		SourceLanguageCode: DefaultSourceLanguage,
		Private:            true,
	}
	if opts.SourceLanguage != "" {
		p.SourceLanguageCode = opts.SourceLanguage
	}
	if opts.Name != "" {
		p.Name = opts.Name
	}
	if opts.Description != "" {
		p.Description = opts.Description
	}

	log.Infof("Creating project %s (%s)", slug, p.Name)
	if err := g.client.CreateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("creating project %s: %w", slug, err)
	}
	return p, nil
}

// ResourceExists looks a resource up. A missing resource is reported as
// ok == false with a nil error.
func (g *Gateway) ResourceExists(ctx context.Context, slug, locale, projectSlug string) (*Resource, bool, error) {
	ps := g.projectSlug(locale, projectSlug)
	r, err := g.client.GetResource(ctx, ps, slug)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("getting resource %s/%s: %w", ps, slug, err)
	}
	r.ProjectSlug = ps
	return r, true, nil
}

// ResourceSpec describes the desired state of a resource.
type ResourceSpec struct {
	Slug    string
	Locale  string
	Name    string
	Content string
	// I18nType applies on creation only; empty means DefaultI18nType.
	I18nType string
	// ProjectSlug overrides the slug derived from Locale.
	ProjectSlug string
}

// CreateOrUpdateResource makes the remote resource match spec. A missing
// resource is created; an existing one has its name and content replaced
// while its type is left alone. Repeating a call converges on one resource.
func (g *Gateway) CreateOrUpdateResource(ctx context.Context, spec ResourceSpec) (*Resource, error) {
	r, ok, err := g.ResourceExists(ctx, spec.Slug, spec.Locale, spec.ProjectSlug)
	if err != nil {
		return nil, err
	}

	if !ok {
		r = &Resource{
			ProjectSlug: g.projectSlug(spec.Locale, spec.ProjectSlug),
			Slug:        spec.Slug,
			Name:        spec.Name,
			I18nType:    spec.I18nType,
			Content:     spec.Content,
		}
		if r.I18nType == "" {
			r.I18nType = DefaultI18nType
		}
		log.Debugf("Creating resource %s/%s", r.ProjectSlug, r.Slug)
		if err := g.client.CreateResource(ctx, r); err != nil {
			return nil, fmt.Errorf("creating resource %s/%s: %w", r.ProjectSlug, r.Slug, err)
		}
		return r, nil
	}

	r.Name = spec.Name
	r.Content = spec.Content
	log.Debugf("Updating resource %s/%s", r.ProjectSlug, r.Slug)
	if err := g.client.UpdateResource(ctx, r); err != nil {
		return nil, fmt.Errorf("updating resource %s/%s: %w", r.ProjectSlug, r.Slug, err)
	}
	return r, nil
}

// DeleteResource removes a resource if it exists.
func (g *Gateway) DeleteResource(ctx context.Context, slug, locale string) error {
	r, ok, err := g.ResourceExists(ctx, slug, locale, "")
	if err != nil || !ok {
		return err
	}
	if err := g.client.DeleteResource(ctx, r.ProjectSlug, r.Slug); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("deleting resource %s/%s: %w", r.ProjectSlug, r.Slug, err)
	}
	return nil
}

// Statistics returns per-language completion for a resource. A missing
// resource is reported as ok == false.
func (g *Gateway) Statistics(ctx context.Context, slug, locale, projectSlug string) (Stats, bool, error) {
	ps := g.projectSlug(locale, projectSlug)
	stats, err := g.client.GetStatistics(ctx, ps, slug)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("getting statistics for %s/%s: %w", ps, slug, err)
	}
	return stats, true, nil
}

// TranslationIfExists fetches the translation of a resource into locale.
// A missing translation is reported as ok == false; server failures are
// returned as errors wrapping ErrRemoteServer rather than folded into the
// missing case.
func (g *Gateway) TranslationIfExists(ctx context.Context, slug, locale, projectSlug string) (*Translation, bool, error) {
	ps := g.projectSlug(locale, projectSlug)
	tr, err := g.client.GetTranslation(ctx, ps, slug, locale)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("getting %s translation of %s/%s: %w", locale, ps, slug, err)
	}
	return tr, true, nil
}

// ListResources lists the resources of the project for locale. Unlike the
// other lookups a missing project is an error, wrapping ErrNotFound, so
// callers can tell "no project yet" apart from "no resources".
func (g *Gateway) ListResources(ctx context.Context, locale, projectSlug string) ([]ResourceInfo, error) {
	ps := g.projectSlug(locale, projectSlug)
	list, err := g.client.ListResources(ctx, ps)
	if err != nil {
		return nil, fmt.Errorf("listing resources of %s: %w", ps, err)
	}
	return list, nil
}
