// Package syncer moves help-center content between Desk and Transifex.
//
// Four strategies exist, one per Kind. Each pushes source content from Desk
// to Transifex and pulls completed translations back. English strategies
// never push; their pull copies source fields into the English-locale
// translations on Desk.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/minios-linux/shuttle/desk"
	"github.com/minios-linux/shuttle/locale"
	"github.com/minios-linux/shuttle/transifex"
)

// Desk is the part of the Desk API the strategies use. *desk.Client and
// *desktest.Store implement it.
type Desk interface {
	Topics(ctx context.Context) ([]desk.Topic, error)
	Articles(ctx context.Context) ([]desk.Article, error)
	Article(ctx context.Context, id string) (*desk.Article, error)

	TopicTranslations(ctx context.Context, topicID string) (map[string]desk.TopicTranslation, error)
	CreateTopicTranslation(ctx context.Context, topicID string, tr desk.TopicTranslation) error
	UpdateTopicTranslation(ctx context.Context, topicID string, tr desk.TopicTranslation) error

	ArticleTranslations(ctx context.Context, articleID string) (map[string]desk.ArticleTranslation, error)
	CreateArticleTranslation(ctx context.Context, articleID string, tr desk.ArticleTranslation) error
	UpdateArticleTranslation(ctx context.Context, articleID string, tr desk.ArticleTranslation) error
}

// Kind names a strategy.
type Kind string

const (
	Topics           Kind = "topics"
	Tutorials        Kind = "tutorials"
	EnglishTopics    Kind = "english_topics"
	EnglishTutorials Kind = "english_tutorials"

	// All selects every kind.
	All Kind = "all"
)

// AllKinds lists every strategy in run order.
var AllKinds = []Kind{Topics, Tutorials, EnglishTopics, EnglishTutorials}

// ParseKind validates s. "all" is accepted and expands through Expand.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if k == All {
		return k, nil
	}
	if _, ok := constructors[k]; !ok {
		return "", fmt.Errorf("unknown type %q (want one of %s, all)", s, joinKinds(AllKinds))
	}
	return k, nil
}

// Expand returns the kinds k stands for.
func (k Kind) Expand() []Kind {
	if k == All {
		return append([]Kind(nil), AllKinds...)
	}
	return []Kind{k}
}

func joinKinds(kinds []Kind) string {
	s := make([]string, len(kinds))
	for i, k := range kinds {
		s[i] = string(k)
	}
	return strings.Join(s, ", ")
}

// Options are the per-run switches shared by every strategy.
type Options struct {
	// Force pushes tutorials even when Desk does not mark them outdated.
	Force bool
	// Resources restricts tutorial strategies to these article ids.
	Resources []string
}

func (o Options) wants(id string) bool {
	if len(o.Resources) == 0 {
		return true
	}
	for _, r := range o.Resources {
		if r == id {
			return true
		}
	}
	return false
}

// Env is everything a strategy needs. It is read-only during a run.
type Env struct {
	Desk      Desk
	Transifex transifex.Client

	Locales   []string
	VendorMap map[string]string

	TopicsProjectSlug    string
	TutorialsProjectSlug string
	// SourceLanguage is the Transifex source language; empty means
	// transifex.DefaultSourceLanguage.
	SourceLanguage string

	Options Options
}

func (e Env) sourceLanguage() string {
	if e.SourceLanguage != "" {
		return e.SourceLanguage
	}
	return transifex.DefaultSourceLanguage
}

// Strategy syncs one kind of content.
type Strategy interface {
	Kind() Kind
	// Push sends Desk source content to Transifex.
	Push(ctx context.Context) error
	// Pull applies completed Transifex translations to Desk.
	Pull(ctx context.Context) error
}

var constructors = map[Kind]func(Env) Strategy{
	Topics:           newTopics,
	Tutorials:        newTutorials,
	EnglishTopics:    newEnglishTopics,
	EnglishTutorials: newEnglishTutorials,
}

// New returns the strategy for kind.
func New(kind Kind, env Env) (Strategy, error) {
	ctor, ok := constructors[kind]
	if !ok {
		return nil, fmt.Errorf("no strategy for %q", kind)
	}
	return ctor(env), nil
}

// base carries the state every strategy shares.
type base struct {
	env    Env
	desk   Desk
	gw     *transifex.Gateway
	mapper *locale.Mapper
}

func newBase(env Env, prefix string) base {
	return base{
		env:    env,
		desk:   env.Desk,
		gw:     transifex.NewGateway(env.Transifex, prefix),
		mapper: locale.New(env.Locales, env.VendorMap),
	}
}

// articles returns the articles of the run: every article, or the ones
// named in Options.Resources. Ids Desk does not know are logged and
// skipped.
func (b *base) articles(ctx context.Context) ([]desk.Article, error) {
	if len(b.env.Options.Resources) == 0 {
		return b.desk.Articles(ctx)
	}
	var out []desk.Article
	for _, id := range b.env.Options.Resources {
		a, err := b.desk.Article(ctx, id)
		if err != nil {
			if isNotFound(err) {
				log.Errorf("Article %s not found on Desk", id)
				continue
			}
			return nil, err
		}
		out = append(out, *a)
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isNotFound(err error) bool {
	return errors.Is(err, desk.ErrNotFound)
}
