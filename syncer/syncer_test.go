package syncer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/decred/slog"
	"github.com/hashicorp/go-multierror"

	"github.com/minios-linux/shuttle/codec"
	"github.com/minios-linux/shuttle/desk"
	"github.com/minios-linux/shuttle/desk/desktest"
	"github.com/minios-linux/shuttle/transifex"
	"github.com/minios-linux/shuttle/transifex/transifextest"
)

func TestMain(m *testing.M) {
	logger := slog.NewBackend(os.Stdout).Logger("SYNCTEST")
	logger.SetLevel(slog.LevelTrace)
	UseLogger(logger)
	os.Exit(m.Run())
}

// captureLog routes the package logger into a buffer for one test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.NewBackend(&buf).Logger("SYNCTEST")
	logger.SetLevel(slog.LevelTrace)
	old := log
	UseLogger(logger)
	t.Cleanup(func() { UseLogger(old) })
	return &buf
}

type fixture struct {
	desk *desktest.Store
	tx   *transifextest.Store
}

func newFixture() *fixture {
	return &fixture{desk: desktest.NewStore(), tx: transifextest.NewStore()}
}

func (f *fixture) env(locales ...string) Env {
	return Env{
		Desk:                 f.desk,
		Transifex:            f.tx,
		Locales:              locales,
		TopicsProjectSlug:    "hc-topics",
		TutorialsProjectSlug: "hc",
	}
}

func mustStrategy(t *testing.T, kind Kind, env Env) Strategy {
	t.Helper()
	s, err := New(kind, env)
	if err != nil {
		t.Fatalf("New(%s) error: %v", kind, err)
	}
	return s
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want []Kind
	}{
		{"topics", []Kind{Topics}},
		{" Tutorials ", []Kind{Tutorials}},
		{"english_topics", []Kind{EnglishTopics}},
		{"all", AllKinds},
	}
	for _, tt := range tests {
		k, err := ParseKind(tt.in)
		if err != nil {
			t.Fatalf("ParseKind(%q) error: %v", tt.in, err)
		}
		got := k.Expand()
		if len(got) != len(tt.want) {
			t.Fatalf("ParseKind(%q).Expand() = %v, want %v", tt.in, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("ParseKind(%q).Expand() = %v, want %v", tt.in, got, tt.want)
			}
		}
	}
	if _, err := ParseKind("articles"); err == nil {
		t.Fatalf("ParseKind(articles) should fail")
	}
}

func TestTopicsPushUploadsPortalTopics(t *testing.T) {
	f := newFixture()
	f.tx.AddProject(transifex.Project{Slug: "hc-topics"})
	f.desk.AddTopic("1", desk.Topic{Name: "Billing", ShowInPortal: true})
	f.desk.AddTopic("2", desk.Topic{Name: "Hidden"})
	f.desk.AddTopic("3", desk.Topic{Name: "Events", ShowInPortal: true})

	if err := mustStrategy(t, Topics, f.env("es")).Push(context.Background()); err != nil {
		t.Fatalf("Push error: %v", err)
	}

	r, ok := f.tx.Resource("hc-topics", TopicsResourceSlug)
	if !ok {
		t.Fatalf("resource %s was not created", TopicsResourceSlug)
	}
	if r.I18nType != "PO" || r.Name != "Help Center Topics" {
		t.Fatalf("resource = %+v, want PO named Help Center Topics", r)
	}
	for _, want := range []string{`msgid "Billing"`, `msgid "Events"`, `"Language: en_US\n"`} {
		if !strings.Contains(r.Content, want) {
			t.Fatalf("catalog missing %s:\n%s", want, r.Content)
		}
	}
	if strings.Contains(r.Content, "Hidden") {
		t.Fatalf("catalog contains a topic not shown in portal:\n%s", r.Content)
	}
}

const esTopicsCatalog = `msgid ""
msgstr ""
"Language: es\n"
"Content-Type: text/plain; charset=UTF-8\n"

msgid "Billing"
msgstr "Facturación"

msgid "Account"
msgstr "Cuenta"

msgid "Archive"
msgstr "Archivo"

msgid "Events"
msgstr ""
`

func TestTopicsPullAppliesCompletedLocales(t *testing.T) {
	f := newFixture()
	f.tx.AddResource(transifex.Resource{ProjectSlug: "hc-topics", Slug: TopicsResourceSlug, I18nType: "PO"})
	f.tx.SetStats("hc-topics", TopicsResourceSlug, transifex.Stats{
		"es": {Completed: "100%"},
		"fr": {Completed: "50%"},
	})
	f.tx.SetTranslation("hc-topics", TopicsResourceSlug, "es", esTopicsCatalog)
	f.tx.SetTranslation("hc-topics", TopicsResourceSlug, "fr", esTopicsCatalog)

	f.desk.AddTopic("1", desk.Topic{Name: "Billing", InSupportCenter: true})
	f.desk.AddTopic("2", desk.Topic{Name: "Account", InSupportCenter: true})
	f.desk.AddTopic("3", desk.Topic{Name: "Archive"})
	f.desk.AddTopic("4", desk.Topic{Name: "Events", InSupportCenter: true})
	f.desk.SetTopicTranslation("1", desk.TopicTranslation{Locale: "es", Name: "Cobros"})

	if err := mustStrategy(t, Topics, f.env("es", "fr")).Pull(context.Background()); err != nil {
		t.Fatalf("Pull error: %v", err)
	}

	if n := f.tx.Calls("GetTranslation"); n != 1 {
		t.Fatalf("GetTranslation calls = %d, want 1", n)
	}
	if tr, _ := f.desk.TopicTranslation("1", "es"); tr.Name != "Facturación" {
		t.Fatalf("Billing es name = %q, want Facturación", tr.Name)
	}
	if tr, ok := f.desk.TopicTranslation("2", "es"); !ok || tr.Name != "Cuenta" {
		t.Fatalf("Account es translation = %+v, %v; want created Cuenta", tr, ok)
	}
	if locales := f.desk.TopicLocales("3"); len(locales) != 0 {
		t.Fatalf("topic outside the support center got translations %v", locales)
	}
	if locales := f.desk.TopicLocales("4"); len(locales) != 0 {
		t.Fatalf("untranslated topic got translations %v", locales)
	}
	if n := f.desk.Calls("UpdateTopicTranslation"); n != 1 {
		t.Fatalf("UpdateTopicTranslation calls = %d, want 1", n)
	}
	if n := f.desk.Calls("CreateTopicTranslation"); n != 1 {
		t.Fatalf("CreateTopicTranslation calls = %d, want 1", n)
	}
}

func TestTopicsPullWithoutResource(t *testing.T) {
	f := newFixture()
	if err := mustStrategy(t, Topics, f.env("es")).Pull(context.Background()); err != nil {
		t.Fatalf("Pull error: %v", err)
	}
	if n := f.desk.Calls("Topics"); n != 0 {
		t.Fatalf("Topics calls = %d, want 0", n)
	}
}

func TestTutorialsPush(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.desk.AddArticle("42", desk.Article{Subject: "Intro", Body: "<p>Hi</p>"})
	f.desk.SetArticleTranslation("42", desk.ArticleTranslation{Locale: "es"})
	f.desk.SetArticleTranslation("42", desk.ArticleTranslation{Locale: "fr_ca", Outdated: true})
	f.desk.SetArticleTranslation("42", desk.ArticleTranslation{Locale: "en_us", Outdated: true})
	f.desk.SetArticleTranslation("42", desk.ArticleTranslation{Locale: "de", Outdated: true})

	s := mustStrategy(t, Tutorials, f.env("es", "fr_CA"))
	if err := s.Push(ctx); err != nil {
		t.Fatalf("Push error: %v", err)
	}

	for _, project := range []string{"hc-es", "hc-fr_CA"} {
		p, ok := f.tx.Project(project)
		if !ok {
			t.Fatalf("project %s was not created", project)
		}
		if !p.Private || p.SourceLanguageCode != "en_US" {
			t.Fatalf("project %s = %+v", project, p)
		}
		r, ok := f.tx.Resource(project, "42")
		if !ok {
			t.Fatalf("resource %s/42 was not created", project)
		}
		if r.Name != "Intro (42)" || r.I18nType != "HTML" {
			t.Fatalf("resource %s/42 = %+v", project, r)
		}
		doc := codec.DecodeDocument(r.Content)
		if doc.Subject == nil || *doc.Subject != "Intro" || doc.Body != "<p>Hi</p>" {
			t.Fatalf("resource %s/42 content = %q", project, r.Content)
		}
	}
	for _, project := range []string{"hc-en_US", "hc-de", "hc-en"} {
		if _, ok := f.tx.Project(project); ok {
			t.Fatalf("project %s should not exist", project)
		}
	}

	// es exists and is not outdated; fr_ca is still outdated on Desk.
	if err := s.Push(ctx); err != nil {
		t.Fatalf("second Push error: %v", err)
	}
	if n := f.tx.Calls("UpdateResource"); n != 1 {
		t.Fatalf("UpdateResource calls = %d, want 1", n)
	}
	if n := f.tx.Calls("CreateProject"); n != 2 {
		t.Fatalf("CreateProject calls = %d, want 2", n)
	}
}

func TestTutorialsPushForce(t *testing.T) {
	f := newFixture()
	f.tx.AddResource(transifex.Resource{ProjectSlug: "hc-es", Slug: "7", Name: "Old (7)", I18nType: "HTML"})
	f.desk.AddArticle("7", desk.Article{Subject: "New", Body: "<p>b</p>"})
	f.desk.SetArticleTranslation("7", desk.ArticleTranslation{Locale: "es"})

	env := f.env("es")
	env.Options.Force = true
	if err := mustStrategy(t, Tutorials, env).Push(context.Background()); err != nil {
		t.Fatalf("Push error: %v", err)
	}
	if r, _ := f.tx.Resource("hc-es", "7"); r.Name != "New (7)" {
		t.Fatalf("resource name = %q, want New (7)", r.Name)
	}
}

func TestTutorialsPushRejectsWrappedBody(t *testing.T) {
	f := newFixture()
	f.desk.AddArticle("9", desk.Article{Subject: "Bad", Body: "<html><body><p>x</p></body></html>"})
	f.desk.SetArticleTranslation("9", desk.ArticleTranslation{Locale: "es", Outdated: true})

	err := mustStrategy(t, Tutorials, f.env("es")).Push(context.Background())
	if !errors.Is(err, codec.ErrWrappedContent) {
		t.Fatalf("Push error = %v, want ErrWrappedContent", err)
	}
	if n := f.tx.ResourceCount("hc-es"); n != 0 {
		t.Fatalf("resource count = %d, want 0", n)
	}
}

func TestTutorialsPullOnlyCompleteResources(t *testing.T) {
	f := newFixture()
	f.tx.AddResource(transifex.Resource{ProjectSlug: "hc-es", Slug: "1", I18nType: "HTML"})
	f.tx.AddResource(transifex.Resource{ProjectSlug: "hc-es", Slug: "2", I18nType: "HTML"})
	f.tx.SetStats("hc-es", "1", transifex.Stats{"es": {Completed: "99%"}})
	f.tx.SetStats("hc-es", "2", transifex.Stats{"es": {Completed: "100%"}})
	f.tx.SetTranslation("hc-es", "1", "es", "<html><head><title>Casi</title></head><body>casi</body></html>")
	f.tx.SetTranslation("hc-es", "2", "es", "<html>\n<head><title>Hola</title></head>\n<body>\n<p>Hola</p>\n</body>\n</html>\n")

	f.desk.AddArticle("1", desk.Article{Subject: "Almost"})
	f.desk.AddArticle("2", desk.Article{Subject: "Hello"})
	f.desk.SetArticleTranslation("2", desk.ArticleTranslation{Locale: "es", Subject: "viejo", Outdated: true})

	// de has no project: logged and skipped.
	if err := mustStrategy(t, Tutorials, f.env("es", "de")).Pull(context.Background()); err != nil {
		t.Fatalf("Pull error: %v", err)
	}

	if n := f.tx.Calls("GetTranslation"); n != 1 {
		t.Fatalf("GetTranslation calls = %d, want 1", n)
	}
	tr, ok := f.desk.ArticleTranslation("2", "es")
	if !ok || tr.Subject != "Hola" || tr.Body != "<p>Hola</p>" {
		t.Fatalf("article 2 es translation = %+v, want Hola", tr)
	}
	if _, ok := f.desk.ArticleTranslation("1", "es"); ok {
		t.Fatalf("article 1 got an es translation from a 99%% resource")
	}
}

func TestTutorialsPullCreatesInVendorLocale(t *testing.T) {
	f := newFixture()
	f.tx.AddResource(transifex.Resource{ProjectSlug: "hc-pt_BR", Slug: "3"})
	f.tx.SetStats("hc-pt_BR", "3", transifex.Stats{"pt_BR": {Completed: "100%"}})
	f.tx.SetTranslation("hc-pt_BR", "3", "pt_BR", "<p>Olá</p>")
	f.desk.AddArticle("3", desk.Article{Subject: "Hi"})

	if err := mustStrategy(t, Tutorials, f.env("pt_BR")).Pull(context.Background()); err != nil {
		t.Fatalf("Pull error: %v", err)
	}
	tr, ok := f.desk.ArticleTranslation("3", "pt_br")
	if !ok || tr.Body != "<p>Olá</p>" || tr.Subject != "" {
		t.Fatalf("article 3 pt_br translation = %+v, %v", tr, ok)
	}
}

func TestTutorialsPullResourceFilter(t *testing.T) {
	f := newFixture()
	for _, id := range []string{"1", "2"} {
		f.tx.AddResource(transifex.Resource{ProjectSlug: "hc-es", Slug: id})
		f.tx.SetStats("hc-es", id, transifex.Stats{"es": {Completed: "100%"}})
		f.tx.SetTranslation("hc-es", id, "es", "<p>"+id+"</p>")
		f.desk.AddArticle(id, desk.Article{})
	}

	env := f.env("es")
	env.Options.Resources = []string{"2"}
	if err := mustStrategy(t, Tutorials, env).Pull(context.Background()); err != nil {
		t.Fatalf("Pull error: %v", err)
	}
	if _, ok := f.desk.ArticleTranslation("1", "es"); ok {
		t.Fatalf("article 1 should be filtered out")
	}
	if _, ok := f.desk.ArticleTranslation("2", "es"); !ok {
		t.Fatalf("article 2 should be pulled")
	}
}

func TestTutorialsPullTranslationErrorContinues(t *testing.T) {
	f := newFixture()
	f.tx.AddResource(transifex.Resource{ProjectSlug: "hc-es", Slug: "1"})
	f.tx.SetStats("hc-es", "1", transifex.Stats{"es": {Completed: "100%"}})
	f.tx.FailWith("GetTranslation", transifex.ErrRemoteServer)

	if err := mustStrategy(t, Tutorials, f.env("es")).Pull(context.Background()); err != nil {
		t.Fatalf("Pull error = %v, want nil", err)
	}
}

func TestTopicsPullContinuesAfterUpdateFailure(t *testing.T) {
	f := newFixture()
	f.tx.AddResource(transifex.Resource{ProjectSlug: "hc-topics", Slug: TopicsResourceSlug, I18nType: "PO"})
	f.tx.SetStats("hc-topics", TopicsResourceSlug, transifex.Stats{"es": {Completed: "100%"}})
	f.tx.SetTranslation("hc-topics", TopicsResourceSlug, "es", esTopicsCatalog)
	f.desk.AddTopic("1", desk.Topic{Name: "Billing", InSupportCenter: true})
	f.desk.AddTopic("2", desk.Topic{Name: "Account", InSupportCenter: true})
	f.desk.SetTopicTranslation("1", desk.TopicTranslation{Locale: "es", Name: "Cobros"})
	f.desk.FailWith("UpdateTopicTranslation", errors.New("desk unavailable"))
	buf := captureLog(t)

	if err := mustStrategy(t, Topics, f.env("es")).Pull(context.Background()); err != nil {
		t.Fatalf("Pull error = %v, want nil", err)
	}
	if !strings.Contains(buf.String(), "Error updating topic Billing") || !strings.Contains(buf.String(), "desk unavailable") {
		t.Fatalf("update failure not logged:\n%s", buf.String())
	}
	if tr, _ := f.desk.TopicTranslation("1", "es"); tr.Name != "Cobros" {
		t.Fatalf("Billing es name = %q, want unchanged Cobros", tr.Name)
	}
	if tr, ok := f.desk.TopicTranslation("2", "es"); !ok || tr.Name != "Cuenta" {
		t.Fatalf("Account es translation = %+v, %v; want created Cuenta", tr, ok)
	}
}

func TestTutorialsPullContinuesAfterUpdateFailure(t *testing.T) {
	f := newFixture()
	for _, id := range []string{"1", "2"} {
		f.tx.AddResource(transifex.Resource{ProjectSlug: "hc-es", Slug: id})
		f.tx.SetStats("hc-es", id, transifex.Stats{"es": {Completed: "100%"}})
		f.tx.SetTranslation("hc-es", id, "es", "<p>"+id+"</p>")
		f.desk.AddArticle(id, desk.Article{})
	}
	f.desk.SetArticleTranslation("1", desk.ArticleTranslation{Locale: "es", Body: "<p>viejo</p>", Outdated: true})
	f.desk.FailWith("UpdateArticleTranslation", errors.New("desk unavailable"))
	buf := captureLog(t)

	if err := mustStrategy(t, Tutorials, f.env("es")).Pull(context.Background()); err != nil {
		t.Fatalf("Pull error = %v, want nil", err)
	}
	if !strings.Contains(buf.String(), "Error updating es (desk ID 1)") {
		t.Fatalf("update failure not logged:\n%s", buf.String())
	}
	if tr, _ := f.desk.ArticleTranslation("1", "es"); tr.Body != "<p>viejo</p>" {
		t.Fatalf("article 1 es body = %q, want unchanged", tr.Body)
	}
	if tr, ok := f.desk.ArticleTranslation("2", "es"); !ok || tr.Body != "<p>2</p>" {
		t.Fatalf("article 2 es translation = %+v, %v; want created", tr, ok)
	}
}

func TestEnglishStrategiesRefuseToPush(t *testing.T) {
	f := newFixture()
	f.desk.AddTopic("1", desk.Topic{Name: "Billing", ShowInPortal: true})
	for _, kind := range []Kind{EnglishTopics, EnglishTutorials} {
		if err := mustStrategy(t, kind, f.env("en")).Push(context.Background()); err != nil {
			t.Fatalf("%s Push error: %v", kind, err)
		}
	}
	if n := f.desk.Calls("Topics") + f.desk.Calls("Articles"); n != 0 {
		t.Fatalf("Desk reads = %d, want 0", n)
	}
	if n := f.tx.Calls("CreateResource") + f.tx.Calls("GetResource"); n != 0 {
		t.Fatalf("Transifex calls = %d, want 0", n)
	}
}

func TestEnglishTopicsPull(t *testing.T) {
	f := newFixture()
	f.desk.AddTopic("1", desk.Topic{Name: "Billing", Description: "Payments", InSupportCenter: true})
	f.desk.AddTopic("2", desk.Topic{Name: "Internal"})
	f.desk.SetTopicTranslation("1", desk.TopicTranslation{Locale: "en_gb", Name: "Old"})

	if err := mustStrategy(t, EnglishTopics, f.env("en", "en_GB", "es")).Pull(context.Background()); err != nil {
		t.Fatalf("Pull error: %v", err)
	}

	for _, l := range []string{"en", "en_gb"} {
		tr, ok := f.desk.TopicTranslation("1", l)
		if !ok || tr.Name != "Billing" || tr.Description != "Payments" ||
			tr.InSupportCenter == nil || !*tr.InSupportCenter {
			t.Fatalf("topic 1 %s translation = %+v, %v", l, tr, ok)
		}
	}
	if _, ok := f.desk.TopicTranslation("1", "es"); ok {
		t.Fatalf("English topics pull wrote an es translation")
	}
	if locales := f.desk.TopicLocales("2"); len(locales) != 0 {
		t.Fatalf("topic outside the support center got %v", locales)
	}
}

func TestEnglishTutorialsPull(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.desk.AddArticle("5", desk.Article{Subject: "Intro", Body: "<p>new</p>"})
	f.desk.SetArticleTranslation("5", desk.ArticleTranslation{Locale: "en", Subject: "old", Outdated: true})
	f.desk.SetArticleTranslation("5", desk.ArticleTranslation{Locale: "en_gb", Subject: "old"})
	f.desk.SetArticleTranslation("5", desk.ArticleTranslation{Locale: "es", Subject: "viejo", Outdated: true})

	env := f.env("en", "en_gb", "es")
	if err := mustStrategy(t, EnglishTutorials, env).Pull(ctx); err != nil {
		t.Fatalf("Pull error: %v", err)
	}
	if tr, _ := f.desk.ArticleTranslation("5", "en"); tr.Subject != "Intro" || tr.Body != "<p>new</p>" {
		t.Fatalf("en translation = %+v, want refreshed", tr)
	}
	if tr, _ := f.desk.ArticleTranslation("5", "en_gb"); tr.Subject != "old" {
		t.Fatalf("en_gb translation = %+v, want untouched", tr)
	}
	if tr, _ := f.desk.ArticleTranslation("5", "es"); tr.Subject != "viejo" {
		t.Fatalf("es translation = %+v, want untouched", tr)
	}

	env.Options.Force = true
	if err := mustStrategy(t, EnglishTutorials, env).Pull(ctx); err != nil {
		t.Fatalf("forced Pull error: %v", err)
	}
	if tr, _ := f.desk.ArticleTranslation("5", "en_gb"); tr.Subject != "Intro" {
		t.Fatalf("forced en_gb translation = %+v, want refreshed", tr)
	}
}

func TestRunContinuesAfterStrategyFailure(t *testing.T) {
	f := newFixture()
	boom := errors.New("boom")
	f.desk.FailWith("Topics", boom)

	res, err := Run(context.Background(), f.env("es"), RunOptions{
		Kinds: []Kind{Topics, Tutorials},
		Push:  true,
		Pull:  true,
	})
	var merr *multierror.Error
	if !errors.As(err, &merr) || len(merr.Errors) != 1 {
		t.Fatalf("Run error = %v, want one combined failure", err)
	}
	if !errors.Is(merr.Errors[0], boom) || !strings.HasPrefix(merr.Errors[0].Error(), "topics push") {
		t.Fatalf("Run error[0] = %v", merr.Errors[0])
	}
	if n := f.desk.Calls("Articles"); n != 1 {
		t.Fatalf("Articles calls = %d, want 1", n)
	}
	want := []string{"tutorials push", "tutorials pull"}
	if len(res.Done) != len(want) || res.Done[0] != want[0] || res.Done[1] != want[1] {
		t.Fatalf("Run done = %v, want %v", res.Done, want)
	}
	if res.ID.String() == "" || res.Finished.Before(res.Started) {
		t.Fatalf("Run result = %+v", res)
	}
}

func TestRunStopsWhenCancelled(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, f.env("es"), RunOptions{Kinds: AllKinds, Push: true})
	var merr *multierror.Error
	if !errors.As(err, &merr) || !errors.Is(merr.Errors[0], context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if n := f.desk.Calls("Topics"); n != 0 {
		t.Fatalf("Topics calls = %d, want 0", n)
	}
}

func TestStatus(t *testing.T) {
	f := newFixture()
	f.tx.AddResource(transifex.Resource{ProjectSlug: "hc-topics", Slug: TopicsResourceSlug})
	f.tx.SetStats("hc-topics", TopicsResourceSlug, transifex.Stats{"es": {Completed: "80%"}})
	f.tx.AddResource(transifex.Resource{ProjectSlug: "hc-es", Slug: "1"})
	f.tx.AddResource(transifex.Resource{ProjectSlug: "hc-es", Slug: "2"})
	f.tx.SetStats("hc-es", "1", transifex.Stats{"es": {Completed: "100%"}})
	f.tx.SetStats("hc-es", "2", transifex.Stats{"es": {Completed: "40%"}})

	rep, err := Status(context.Background(), f.env("es", "fr", "en"))
	if err != nil {
		t.Fatalf("Status error: %v", err)
	}
	if !rep.TopicsPushed || len(rep.Topics) != 2 {
		t.Fatalf("topics status = %+v", rep.Topics)
	}
	if rep.Topics[0] != (TopicsStatus{Locale: "es", Percent: 80, Present: true}) {
		t.Fatalf("topics es = %+v", rep.Topics[0])
	}
	if rep.Topics[1].Present {
		t.Fatalf("topics fr = %+v, want not present", rep.Topics[1])
	}
	if rep.Tutorials[0] != (TutorialsStatus{Locale: "es", HasProject: true, Complete: 1, Total: 2}) {
		t.Fatalf("tutorials es = %+v", rep.Tutorials[0])
	}
	if rep.Tutorials[1].HasProject {
		t.Fatalf("tutorials fr = %+v, want no project", rep.Tutorials[1])
	}
	for _, m := range []string{"CreateResource", "UpdateResource", "CreateProject"} {
		if n := f.tx.Calls(m); n != 0 {
			t.Fatalf("%s calls = %d, want 0", m, n)
		}
	}
}
