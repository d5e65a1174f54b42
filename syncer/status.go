package syncer

import (
	"context"
	"errors"

	"github.com/minios-linux/shuttle/locale"
	"github.com/minios-linux/shuttle/transifex"
)

// TopicsStatus is the completion of the topics catalog in one locale.
type TopicsStatus struct {
	Locale  string
	Percent int
	// Present is false when Transifex has no statistics for the locale.
	Present bool
}

// TutorialsStatus counts the complete tutorial resources of one locale.
type TutorialsStatus struct {
	Locale     string
	HasProject bool
	Complete   int
	Total      int
}

// Report is a read-only view of translation progress.
type Report struct {
	TopicsProject string
	// TopicsPushed is false when the topics catalog resource does not exist.
	TopicsPushed bool
	Topics       []TopicsStatus
	Tutorials    []TutorialsStatus
}

// Status gathers completion for every enabled, non-English locale. It
// never writes to either platform.
func Status(ctx context.Context, env Env) (*Report, error) {
	mapper := locale.New(env.Locales, env.VendorMap)
	topicsGW := transifex.NewGateway(env.Transifex, env.TopicsProjectSlug)
	tutorialsGW := transifex.NewGateway(env.Transifex, env.TutorialsProjectSlug)

	rep := &Report{TopicsProject: env.TopicsProjectSlug}

	var locales []string
	for _, l := range mapper.Enabled() {
		if mapper.ShouldProcess(l, locale.Translated) {
			locales = append(locales, l)
		}
	}

	if env.TopicsProjectSlug != "" {
		stats, ok, err := topicsGW.Statistics(ctx, TopicsResourceSlug, env.sourceLanguage(), env.TopicsProjectSlug)
		if err != nil {
			return nil, err
		}
		rep.TopicsPushed = ok
		for _, l := range locales {
			ls, present := stats[l]
			rep.Topics = append(rep.Topics, TopicsStatus{Locale: l, Percent: ls.Percent(), Present: present})
		}
	}

	if env.TutorialsProjectSlug == "" {
		return rep, nil
	}
	for _, l := range locales {
		ts := TutorialsStatus{Locale: l}
		resources, err := tutorialsGW.ListResources(ctx, l, "")
		if errors.Is(err, transifex.ErrNotFound) {
			rep.Tutorials = append(rep.Tutorials, ts)
			continue
		}
		if err != nil {
			return nil, err
		}
		ts.HasProject = true
		for _, r := range resources {
			if !env.Options.wants(r.Slug) {
				continue
			}
			ts.Total++
			stats, ok, err := tutorialsGW.Statistics(ctx, r.Slug, l, "")
			if err != nil {
				return nil, err
			}
			if ok && stats[l].IsComplete() {
				ts.Complete++
			}
		}
		rep.Tutorials = append(rep.Tutorials, ts)
	}
	return rep, nil
}
