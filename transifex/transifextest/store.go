// Package transifextest provides an in-memory transifex.Client for tests.
package transifextest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/minios-linux/shuttle/transifex"
)

type key struct{ project, slug string }

// Store is an in-memory transifex.Client. Tests seed it with projects,
// resources, statistics and translations and inspect it afterwards. Every
// method call is counted by name.
type Store struct {
	mu           sync.Mutex
	projects     map[string]*transifex.Project
	resources    map[key]*transifex.Resource
	stats        map[key]transifex.Stats
	translations map[key]map[string]*transifex.Translation
	calls        map[string]int
	fail         map[string]error
}

var _ transifex.Client = (*Store)(nil)

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		projects:     make(map[string]*transifex.Project),
		resources:    make(map[key]*transifex.Resource),
		stats:        make(map[key]transifex.Stats),
		translations: make(map[key]map[string]*transifex.Translation),
		calls:        make(map[string]int),
		fail:         make(map[string]error),
	}
}

// AddProject seeds a project.
func (s *Store) AddProject(p transifex.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.Slug] = &p
}

// AddResource seeds a resource, creating its project if needed.
func (s *Store) AddResource(r transifex.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[r.ProjectSlug]; !ok {
		s.projects[r.ProjectSlug] = &transifex.Project{Slug: r.ProjectSlug}
	}
	s.resources[key{r.ProjectSlug, r.Slug}] = &r
}

// SetStats sets the statistics of a resource.
func (s *Store) SetStats(projectSlug, slug string, stats transifex.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[key{projectSlug, slug}] = stats
}

// SetTranslation sets the translation of a resource into lang.
func (s *Store) SetTranslation(projectSlug, slug, lang, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{projectSlug, slug}
	if s.translations[k] == nil {
		s.translations[k] = make(map[string]*transifex.Translation)
	}
	s.translations[k][lang] = &transifex.Translation{Content: content}
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

// Project returns a copy of a stored project.
func (s *Store) Project(slug string) (transifex.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[slug]
	if !ok {
		return transifex.Project{}, false
	}
	return *p, true
}

// Resource returns a copy of a stored resource.
func (s *Store) Resource(projectSlug, slug string) (transifex.Resource, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[key{projectSlug, slug}]
	if !ok {
		return transifex.Resource{}, false
	}
	return *r, true
}

// ResourceCount returns the number of resources in a project.
func (s *Store) ResourceCount(projectSlug string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.resources {
		if k.project == projectSlug {
			n++
		}
	}
	return n
}

// enter counts a call and returns the injected failure, if any. The
// caller must hold s.mu.
func (s *Store) enter(method string) error {
	s.calls[method]++
	return s.fail[method]
}

func notFound(what string) error {
	return fmt.Errorf("%w: %s", transifex.ErrNotFound, what)
}

func (s *Store) GetProject(_ context.Context, slug string) (*transifex.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetProject"); err != nil {
		return nil, err
	}
	p, ok := s.projects[slug]
	if !ok {
		return nil, notFound("project " + slug)
	}
	cp := *p
	return &cp, nil
}

func (s *Store) CreateProject(_ context.Context, p *transifex.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateProject"); err != nil {
		return err
	}
	if _, ok := s.projects[p.Slug]; ok {
		return fmt.Errorf("project %s already exists", p.Slug)
	}
	cp := *p
	s.projects[p.Slug] = &cp
	return nil
}

func (s *Store) GetResource(_ context.Context, projectSlug, slug string) (*transifex.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetResource"); err != nil {
		return nil, err
	}
	r, ok := s.resources[key{projectSlug, slug}]
	if !ok {
		return nil, notFound("resource " + projectSlug + "/" + slug)
	}
	cp := *r
	cp.Content = ""
	return &cp, nil
}

func (s *Store) CreateResource(_ context.Context, r *transifex.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateResource"); err != nil {
		return err
	}
	if _, ok := s.projects[r.ProjectSlug]; !ok {
		return notFound("project " + r.ProjectSlug)
	}
	k := key{r.ProjectSlug, r.Slug}
	if _, ok := s.resources[k]; ok {
		return fmt.Errorf("resource %s/%s already exists", r.ProjectSlug, r.Slug)
	}
	cp := *r
	s.resources[k] = &cp
	return nil
}

func (s *Store) UpdateResource(_ context.Context, r *transifex.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateResource"); err != nil {
		return err
	}
	cur, ok := s.resources[key{r.ProjectSlug, r.Slug}]
	if !ok {
		return notFound("resource " + r.ProjectSlug + "/" + r.Slug)
	}
	cur.Name = r.Name
	cur.Content = r.Content
	return nil
}

func (s *Store) DeleteResource(_ context.Context, projectSlug, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteResource"); err != nil {
		return err
	}
	k := key{projectSlug, slug}
	if _, ok := s.resources[k]; !ok {
		return notFound("resource " + projectSlug + "/" + slug)
	}
	delete(s.resources, k)
	delete(s.stats, k)
	delete(s.translations, k)
	return nil
}

func (s *Store) ListResources(_ context.Context, projectSlug string) ([]transifex.ResourceInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListResources"); err != nil {
		return nil, err
	}
	if _, ok := s.projects[projectSlug]; !ok {
		return nil, notFound("project " + projectSlug)
	}
	var list []transifex.ResourceInfo
	for k, r := range s.resources {
		if k.project != projectSlug {
			continue
		}
		list = append(list, transifex.ResourceInfo{Slug: r.Slug, Name: r.Name, I18nType: r.I18nType})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Slug < list[j].Slug })
	return list, nil
}

func (s *Store) GetStatistics(_ context.Context, projectSlug, resourceSlug string) (transifex.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetStatistics"); err != nil {
		return nil, err
	}
	k := key{projectSlug, resourceSlug}
	if _, ok := s.resources[k]; !ok {
		return nil, notFound("resource " + projectSlug + "/" + resourceSlug)
	}
	out := transifex.Stats{}
	for lang, st := range s.stats[k] {
		out[lang] = st
	}
	return out, nil
}

func (s *Store) GetTranslation(_ context.Context, projectSlug, resourceSlug, lang string) (*transifex.Translation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetTranslation"); err != nil {
		return nil, err
	}
	tr, ok := s.translations[key{projectSlug, resourceSlug}][lang]
	if !ok {
		return nil, notFound("translation " + projectSlug + "/" + resourceSlug + "/" + lang)
	}
	cp := *tr
	return &cp, nil
}
