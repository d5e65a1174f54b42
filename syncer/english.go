package syncer

import (
	"context"

	"github.com/minios-linux/shuttle/desk"
	"github.com/minios-linux/shuttle/locale"
)

// englishTopicsStrategy copies topic names and descriptions into the
// English-locale topic translations.
type englishTopicsStrategy struct {
	base
}

func newEnglishTopics(env Env) Strategy {
	return &englishTopicsStrategy{base: newBase(env, "")}
}

func (s *englishTopicsStrategy) Kind() Kind { return EnglishTopics }

func (s *englishTopicsStrategy) Push(context.Context) error {
	log.Infof("Refusing to push topics for English locales")
	return nil
}

func (s *englishTopicsStrategy) Pull(ctx context.Context) error {
	var locales []string
	for _, l := range s.mapper.Enabled() {
		if s.mapper.ShouldProcess(l, locale.EnglishSource) {
			locales = append(locales, l)
		}
	}
	if len(locales) == 0 {
		log.Infof("No English locales enabled")
		return nil
	}

	topics, err := s.desk.Topics(ctx)
	if err != nil {
		return err
	}
	inSupportCenter := true
	for _, t := range topics {
		if !t.InSupportCenter {
			continue
		}
		existing, err := s.desk.TopicTranslations(ctx, t.ID())
		if err != nil {
			log.Errorf("Listing translations of topic %s (%s): %v", t.Name, t.APIHref(), err)
			continue
		}
		for _, l := range locales {
			log.Infof("Preparing to copy topic %s (%s) for %s", t.Name, t.APIHref(), l)
			tr := desk.TopicTranslation{
				Locale:          s.mapper.ToCanonical(l),
				Name:            t.Name,
				Description:     t.Description,
				InSupportCenter: &inSupportCenter,
			}
			if err := s.upsertTopic(ctx, t.ID(), existing, tr); err != nil {
				log.Errorf("Error updating topic %s (%s): %v", t.Name, t.APIHref(), err)
			}
		}
	}
	return nil
}

// englishTutorialsStrategy refreshes outdated English-locale article
// translations from the source article.
type englishTutorialsStrategy struct {
	base
}

func newEnglishTutorials(env Env) Strategy {
	return &englishTutorialsStrategy{base: newBase(env, "")}
}

func (s *englishTutorialsStrategy) Kind() Kind { return EnglishTutorials }

func (s *englishTutorialsStrategy) Push(context.Context) error {
	log.Infof("Refusing to push tutorials for English locales")
	return nil
}

func (s *englishTutorialsStrategy) Pull(ctx context.Context) error {
	articles, err := s.articles(ctx)
	if err != nil {
		return err
	}

	for _, a := range articles {
		id := a.ID()
		translations, err := s.desk.ArticleTranslations(ctx, id)
		if err != nil {
			log.Errorf("Listing translations of article %s: %v", id, err)
			continue
		}
		for _, dl := range sortedKeys(translations) {
			if !s.mapper.ShouldProcess(dl, locale.EnglishSource) {
				log.Tracef("Skipping locale %s", dl)
				continue
			}
			if !s.env.Options.Force && !translations[dl].Outdated {
				continue
			}
			log.Infof("Preparing to push %s for %s", id, dl)
			err := s.desk.UpdateArticleTranslation(ctx, id, desk.ArticleTranslation{
				Locale:  dl,
				Subject: a.Subject,
				Body:    a.Body,
			})
			if err != nil {
				log.Errorf("Error updating %s (desk ID %s): %v", dl, id, err)
			}
		}
	}
	return nil
}
