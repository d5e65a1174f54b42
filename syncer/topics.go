package syncer

import (
	"context"
	"fmt"

	"github.com/minios-linux/shuttle/codec"
	"github.com/minios-linux/shuttle/desk"
	"github.com/minios-linux/shuttle/locale"
	"github.com/minios-linux/shuttle/transifex"
)

const (
	// TopicsResourceSlug is the catalog resource holding every topic name.
	TopicsResourceSlug = "desk-topics"
	topicsResourceName = "Help Center Topics"
	topicsI18nType     = "PO"
)

// topicsStrategy keeps topic names in one PO catalog resource of the
// topics project.
type topicsStrategy struct {
	base
	project string
}

func newTopics(env Env) Strategy {
	return &topicsStrategy{
		base:    newBase(env, env.TopicsProjectSlug),
		project: env.TopicsProjectSlug,
	}
}

func (s *topicsStrategy) Kind() Kind { return Topics }

// Push uploads the names of the topics shown in the portal as the source
// catalog.
func (s *topicsStrategy) Push(ctx context.Context) error {
	topics, err := s.desk.Topics(ctx)
	if err != nil {
		return err
	}

	var names []string
	for _, t := range topics {
		if t.ShowInPortal {
			names = append(names, t.Name)
		}
	}

	src := s.env.sourceLanguage()
	data, err := codec.EncodeCatalog(names, codec.CatalogOptions{Project: topicsResourceName, Language: src})
	if err != nil {
		return err
	}

	log.Infof("Pushing %d topic names to %s/%s", len(names), s.project, TopicsResourceSlug)
	_, err = s.gw.CreateOrUpdateResource(ctx, transifex.ResourceSpec{
		Slug:        TopicsResourceSlug,
		Locale:      src,
		Name:        topicsResourceName,
		Content:     string(data),
		I18nType:    topicsI18nType,
		ProjectSlug: s.project,
	})
	return err
}

// Pull fetches the catalog of every enabled locale that is fully translated
// and writes the translated names to the topics in the support center.
func (s *topicsStrategy) Pull(ctx context.Context) error {
	src := s.env.sourceLanguage()
	stats, ok, err := s.gw.Statistics(ctx, TopicsResourceSlug, src, s.project)
	if err != nil {
		return err
	}
	if !ok {
		log.Warnf("Resource %s/%s does not exist; push topics first", s.project, TopicsResourceSlug)
		return nil
	}

	var locales []string
	translated := make(map[string]map[string]string)
	for _, l := range s.mapper.Enabled() {
		if !s.mapper.ShouldProcess(l, locale.Translated) {
			continue
		}
		ls, ok := stats[l]
		if !ok {
			log.Debugf("Locale %s not present when pulling topics", l)
			continue
		}
		if !ls.IsComplete() {
			log.Debugf("Topics are %s translated for %s; skipping", ls.Completed, l)
			continue
		}

		tr, ok, err := s.gw.TranslationIfExists(ctx, TopicsResourceSlug, l, s.project)
		if err != nil {
			return err
		}
		if !ok {
			log.Warnf("Topics translation for %s reported complete but not found", l)
			continue
		}
		catalog, err := codec.DecodeCatalog([]byte(tr.Content))
		if err != nil {
			return fmt.Errorf("decoding %s topics catalog: %w", l, err)
		}
		translated[l] = catalog
		locales = append(locales, l)
	}
	if len(locales) == 0 {
		log.Infof("No completed topic translations to pull")
		return nil
	}

	topics, err := s.desk.Topics(ctx)
	if err != nil {
		return err
	}
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
			name, ok := translated[l][t.Name]
			if !ok {
				log.Errorf("Topic name (%s) does not exist in locale (%s)", t.Name, l)
				continue
			}
			tr := desk.TopicTranslation{Locale: s.mapper.ToCanonical(l), Name: name}
			log.Debugf("Updating topic (%s) for locale (%s)", t.Name, tr.Locale)
			if err := s.upsertTopic(ctx, t.ID(), existing, tr); err != nil {
				log.Errorf("Error updating topic %s (%s): %v", t.Name, t.APIHref(), err)
			}
		}
	}
	return nil
}

// upsertTopic creates tr on the topic or updates the translation already there.
func (b *base) upsertTopic(ctx context.Context, topicID string, existing map[string]desk.TopicTranslation, tr desk.TopicTranslation) error {
	if _, ok := existing[tr.Locale]; ok {
		return b.desk.UpdateTopicTranslation(ctx, topicID, tr)
	}
	return b.desk.CreateTopicTranslation(ctx, topicID, tr)
}
