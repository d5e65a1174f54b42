package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/minios-linux/shuttle/codec"
	"github.com/minios-linux/shuttle/desk"
	"github.com/minios-linux/shuttle/locale"
	"github.com/minios-linux/shuttle/transifex"
)

// tutorialsStrategy keeps one HTML resource per article in a project per
// locale, "<prefix>-<locale>".
type tutorialsStrategy struct {
	base
}

func newTutorials(env Env) Strategy {
	return &tutorialsStrategy{base: newBase(env, env.TutorialsProjectSlug)}
}

func (s *tutorialsStrategy) Kind() Kind { return Tutorials }

// ResourceName is the Transifex resource name of an article.
func ResourceName(a desk.Article) string {
	return fmt.Sprintf("%s (%s)", a.Subject, a.ID())
}

// Push uploads every article for each locale Desk holds a translation in,
// when forced, when the resource is missing, or when Desk marks the
// translation outdated.
func (s *tutorialsStrategy) Push(ctx context.Context) error {
	articles, err := s.articles(ctx)
	if err != nil {
		return err
	}

	for _, a := range articles {
		id := a.ID()
		log.Debugf("Inspecting Desk resource %s", a.APIHref())

		translations, err := s.desk.ArticleTranslations(ctx, id)
		if err != nil {
			log.Errorf("Listing translations of article %s: %v", id, err)
			continue
		}

		for _, dl := range sortedKeys(translations) {
			tr := translations[dl]
			if !s.mapper.ShouldProcess(dl, locale.Translated) {
				log.Tracef("Skipping locale %s of article %s", dl, id)
				continue
			}
			txLocale := s.mapper.TransifexLocale(dl)

			if _, err := s.gw.GetOrCreateProject(ctx, txLocale, transifex.ProjectOptions{
				SourceLanguage: s.env.sourceLanguage(),
			}); err != nil {
				return err
			}

			push := s.env.Options.Force || tr.Outdated
			if !push {
				_, exists, err := s.gw.ResourceExists(ctx, id, txLocale, "")
				if err != nil {
					return err
				}
				push = !exists
			}
			if !push {
				log.Debugf("Resource %s up to date in %s", id, txLocale)
				continue
			}

			doc, err := codec.EncodeDocument(a.Subject, a.Body)
			if err != nil {
				return fmt.Errorf("article %s: %w", id, err)
			}
			log.Infof("Resource %s out of date in %s; updating", id, txLocale)
			if _, err := s.gw.CreateOrUpdateResource(ctx, transifex.ResourceSpec{
				Slug:    id,
				Locale:  txLocale,
				Name:    ResourceName(a),
				Content: doc,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// Pull applies every fully translated resource of each enabled locale to
// the matching Desk article translation.
func (s *tutorialsStrategy) Pull(ctx context.Context) error {
	for _, l := range s.mapper.Enabled() {
		log.Debugf("Pulling tutorials for %s", l)
		if !s.mapper.ShouldProcess(l, locale.Translated) {
			log.Debugf("Skipping locale %s", l)
			continue
		}

		resources, err := s.gw.ListResources(ctx, l, "")
		if errors.Is(err, transifex.ErrNotFound) {
			log.Errorf("No project found for locale %s", l)
			continue
		}
		if err != nil {
			return err
		}

		for _, r := range resources {
			if !s.env.Options.wants(r.Slug) {
				continue
			}
			if err := s.pullResource(ctx, r.Slug, l); err != nil {
				return err
			}
		}
	}
	return nil
}

// pullResource applies one resource in locale l. Only errors that should
// abort the pull are returned.
func (s *tutorialsStrategy) pullResource(ctx context.Context, slug, l string) error {
	stats, ok, err := s.gw.Statistics(ctx, slug, l, "")
	if err != nil {
		return err
	}
	if !ok || !stats[l].IsComplete() {
		log.Debugf("Resource %s not complete in %s", slug, l)
		return nil
	}

	log.Infof("Pulling translation for %s in %s", slug, l)
	tr, ok, err := s.gw.TranslationIfExists(ctx, slug, l, "")
	if err != nil {
		log.Errorf("Fetching translation of %s in %s: %v", slug, l, err)
		return nil
	}
	if !ok {
		log.Warnf("Resource %s reported complete in %s but has no translation", slug, l)
		return nil
	}

	doc := codec.DecodeDocument(tr.Content)
	at := desk.ArticleTranslation{Locale: s.mapper.ToCanonical(l), Body: doc.Body}
	if doc.Subject != nil {
		at.Subject = *doc.Subject
	}

	existing, err := s.desk.ArticleTranslations(ctx, slug)
	if err != nil {
		log.Errorf("Listing translations of article %s: %v", slug, err)
		return nil
	}
	if _, ok := existing[at.Locale]; ok {
		err = s.desk.UpdateArticleTranslation(ctx, slug, at)
	} else {
		err = s.desk.CreateArticleTranslation(ctx, slug, at)
	}
	if err != nil {
		log.Errorf("Error updating %s (desk ID %s): %v", at.Locale, slug, err)
	}
	return nil
}
