// Package transifex is the translation-platform side of shuttle: the
// resource model, the Gateway that implements the idempotent
// create-or-update protocol, and an HTTP client for the Transifex API v2.
package transifex

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrNotFound is returned by a Client when the project, resource or
	// translation does not exist.
	ErrNotFound = errors.New("transifex: not found")
	// ErrRemoteServer is returned by a Client when Transifex fails with a
	// server-side error.
	ErrRemoteServer = errors.New("transifex: remote server error")
)

const (
	// DefaultSourceLanguage is the source language of generated projects.
	DefaultSourceLanguage = "en_US"
	// DefaultI18nType is the resource type used when none is given.
	DefaultI18nType = "HTML"
)

// Project is a Transifex project.
type Project struct {
	Slug               string `json:"slug"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	SourceLanguageCode string `json:"source_language_code"`
	Private            bool   `json:"private"`
}

// Resource is a Transifex resource, identified by (ProjectSlug, Slug).
type Resource struct {
	ProjectSlug string `json:"-"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	I18nType    string `json:"i18n_type"`
	Content     string `json:"content,omitempty"`
}

// ResourceInfo is one element of a project's resource listing.
type ResourceInfo struct {
	Slug               string `json:"slug"`
	Name               string `json:"name"`
	I18nType           string `json:"i18n_type"`
	SourceLanguageCode string `json:"source_language_code"`
	Category           string `json:"category"`
}

// Translation is the translated content of a resource in one language.
type Translation struct {
	Content  string `json:"content"`
	MimeType string `json:"mimetype"`
}

// LangStats is the completion of a resource in one language.
type LangStats struct {
	Completed          string `json:"completed"`
	TranslatedEntities int    `json:"translated_entities"`
	UntranslatedWords  int    `json:"untranslated_words"`
	LastUpdate         string `json:"last_update"`
}

// Percent parses Completed ("87%") as an integer. Malformed values give 0.
func (s LangStats) Percent() int {
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s.Completed), "%")))
	if err != nil {
		return 0
	}
	return n
}

// IsComplete reports whether the language is fully translated.
func (s LangStats) IsComplete() bool {
	return s.Percent() == 100
}

// Stats maps language codes to completion.
type Stats map[string]LangStats

// Client is the subset of the Transifex API the Gateway drives.
// Implementations return errors wrapping ErrNotFound or ErrRemoteServer
// for those conditions.
type Client interface {
	GetProject(ctx context.Context, slug string) (*Project, error)
	CreateProject(ctx context.Context, p *Project) error

	GetResource(ctx context.Context, projectSlug, slug string) (*Resource, error)
	CreateResource(ctx context.Context, r *Resource) error
	UpdateResource(ctx context.Context, r *Resource) error
	DeleteResource(ctx context.Context, projectSlug, slug string) error
	ListResources(ctx context.Context, projectSlug string) ([]ResourceInfo, error)

	GetStatistics(ctx context.Context, projectSlug, resourceSlug string) (Stats, error)
	GetTranslation(ctx context.Context, projectSlug, resourceSlug, lang string) (*Translation, error)
}
