// Package desktest provides an in-memory Desk site for tests.
package desktest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/minios-linux/shuttle/desk"
)

// Store is an in-memory Desk site exposing the same methods as
// desk.Client. Topics and articles keep their insertion order.
type Store struct {
	mu                  sync.Mutex
	topics              []desk.Topic
	articles            []desk.Article
	topicTranslations   map[string]map[string]desk.TopicTranslation
	articleTranslations map[string]map[string]desk.ArticleTranslation
	calls               map[string]int
	fail                map[string]error
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		topicTranslations:   make(map[string]map[string]desk.TopicTranslation),
		articleTranslations: make(map[string]map[string]desk.ArticleTranslation),
		calls:               make(map[string]int),
		fail:                make(map[string]error),
	}
}

// AddTopic seeds a topic with the given id.
func (s *Store) AddTopic(id string, t desk.Topic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.Links.Self.Href = "/api/v2/topics/" + id
	s.topics = append(s.topics, t)
}

// AddArticle seeds an article with the given id.
func (s *Store) AddArticle(id string, a desk.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.Links.Self.Href = "/api/v2/articles/" + id
	s.articles = append(s.articles, a)
}

// SetTopicTranslation seeds or replaces a topic translation.
func (s *Store) SetTopicTranslation(topicID string, tr desk.TopicTranslation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.topicTranslations[topicID] == nil {
		s.topicTranslations[topicID] = make(map[string]desk.TopicTranslation)
	}
	s.topicTranslations[topicID][tr.Locale] = tr
}

// SetArticleTranslation seeds or replaces an article translation.
func (s *Store) SetArticleTranslation(articleID string, tr desk.ArticleTranslation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.articleTranslations[articleID] == nil {
		s.articleTranslations[articleID] = make(map[string]desk.ArticleTranslation)
	}
	s.articleTranslations[articleID][tr.Locale] = tr
}

// TopicTranslation returns a stored topic translation.
func (s *Store) TopicTranslation(topicID, locale string) (desk.TopicTranslation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tr, ok := s.topicTranslations[topicID][locale]
	return tr, ok
}

// ArticleTranslation returns a stored article translation.
func (s *Store) ArticleTranslation(articleID, locale string) (desk.ArticleTranslation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tr, ok := s.articleTranslations[articleID][locale]
	return tr, ok
}

// FailWith makes every later call to method return err.
func (s *Store) FailWith(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[method] = err
}

// Calls returns how many times method was called.
func (s *Store) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *Store) enter(method string) error {
	s.calls[method]++
	return s.fail[method]
}

func (s *Store) Topics(context.Context) ([]desk.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("Topics"); err != nil {
		return nil, err
	}
	return append([]desk.Topic(nil), s.topics...), nil
}

func (s *Store) Articles(context.Context) ([]desk.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("Articles"); err != nil {
		return nil, err
	}
	return append([]desk.Article(nil), s.articles...), nil
}

func (s *Store) Article(_ context.Context, id string) (*desk.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("Article"); err != nil {
		return nil, err
	}
	for _, a := range s.articles {
		if a.ID() == id {
			cp := a
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: article %s", desk.ErrNotFound, id)
}

func (s *Store) hasTopic(id string) bool {
	for _, t := range s.topics {
		if t.ID() == id {
			return true
		}
	}
	return false
}

func (s *Store) hasArticle(id string) bool {
	for _, a := range s.articles {
		if a.ID() == id {
			return true
		}
	}
	return false
}

func (s *Store) TopicTranslations(_ context.Context, topicID string) (map[string]desk.TopicTranslation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("TopicTranslations"); err != nil {
		return nil, err
	}
	out := make(map[string]desk.TopicTranslation)
	for l, tr := range s.topicTranslations[topicID] {
		out[l] = tr
	}
	return out, nil
}

func (s *Store) CreateTopicTranslation(_ context.Context, topicID string, tr desk.TopicTranslation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateTopicTranslation"); err != nil {
		return err
	}
	if !s.hasTopic(topicID) {
		return fmt.Errorf("%w: topic %s", desk.ErrNotFound, topicID)
	}
	if _, ok := s.topicTranslations[topicID][tr.Locale]; ok {
		return fmt.Errorf("topic %s already has a %s translation", topicID, tr.Locale)
	}
	if s.topicTranslations[topicID] == nil {
		s.topicTranslations[topicID] = make(map[string]desk.TopicTranslation)
	}
	s.topicTranslations[topicID][tr.Locale] = tr
	return nil
}

func (s *Store) UpdateTopicTranslation(_ context.Context, topicID string, tr desk.TopicTranslation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateTopicTranslation"); err != nil {
		return err
	}
	cur, ok := s.topicTranslations[topicID][tr.Locale]
	if !ok {
		return fmt.Errorf("%w: topic %s translation %s", desk.ErrNotFound, topicID, tr.Locale)
	}
	if tr.Name != "" {
		cur.Name = tr.Name
	}
	if tr.Description != "" {
		cur.Description = tr.Description
	}
	if tr.InSupportCenter != nil {
		cur.InSupportCenter = tr.InSupportCenter
	}
	cur.Outdated = false
	s.topicTranslations[topicID][tr.Locale] = cur
	return nil
}

func (s *Store) ArticleTranslations(_ context.Context, articleID string) (map[string]desk.ArticleTranslation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ArticleTranslations"); err != nil {
		return nil, err
	}
	out := make(map[string]desk.ArticleTranslation)
	for l, tr := range s.articleTranslations[articleID] {
		out[l] = tr
	}
	return out, nil
}

func (s *Store) CreateArticleTranslation(_ context.Context, articleID string, tr desk.ArticleTranslation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateArticleTranslation"); err != nil {
		return err
	}
	if !s.hasArticle(articleID) {
		return fmt.Errorf("%w: article %s", desk.ErrNotFound, articleID)
	}
	if _, ok := s.articleTranslations[articleID][tr.Locale]; ok {
		return fmt.Errorf("article %s already has a %s translation", articleID, tr.Locale)
	}
	if s.articleTranslations[articleID] == nil {
		s.articleTranslations[articleID] = make(map[string]desk.ArticleTranslation)
	}
	s.articleTranslations[articleID][tr.Locale] = tr
	return nil
}

func (s *Store) UpdateArticleTranslation(_ context.Context, articleID string, tr desk.ArticleTranslation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateArticleTranslation"); err != nil {
		return err
	}
	cur, ok := s.articleTranslations[articleID][tr.Locale]
	if !ok {
		return fmt.Errorf("%w: article %s translation %s", desk.ErrNotFound, articleID, tr.Locale)
	}
	if tr.Subject != "" {
		cur.Subject = tr.Subject
	}
	if tr.Body != "" {
		cur.Body = tr.Body
	}
	cur.Outdated = false
	s.articleTranslations[articleID][tr.Locale] = cur
	return nil
}

// TopicLocales returns the sorted locales translated for a topic.
func (s *Store) TopicLocales(topicID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for l := range s.topicTranslations[topicID] {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
