package service

import (
	"context"
	"sort"
	"sync"

	"github.com/blog-cache-api/internal/models"
	"github.com/blog-cache-api/internal/validation"
	"github.com/rs/zerolog"
)

type mutationKind int

const (
	mutationCreate mutationKind = iota
	mutationUpdate
	mutationDelete
)

// mutation is a confirmed change kept while a load is in flight, so it can be
// replayed over the snapshot that load returns
type mutation struct {
	kind    mutationKind
	id      int64
	article models.Article
}

func (m mutation) apply(articles []models.Article) []models.Article {
	switch m.kind {
	case mutationCreate:
		return prependArticle(articles, m.article)
	case mutationUpdate:
		return replaceArticle(articles, m.article)
	case mutationDelete:
		return removeArticle(articles, m.id)
	}
	return articles
}

// ArticleStore is the authoritative in-memory cache of the article collection.
//
// Loads are sequenced: only the response of the most recently issued load is
// applied, and mutations confirmed while a load is in flight are replayed
// over that load's snapshot.
type ArticleStore struct {
	api       ArticleAPI
	validator *validation.Validator
	log       zerolog.Logger

	mu       sync.RWMutex
	articles []models.Article
	token    string
	lastErr  string
	inflight int
	loadSeq  uint64
	journal  []mutation
}

// NewArticleStore creates an empty store; call Load to populate it
func NewArticleStore(api ArticleAPI, validator *validation.Validator, log zerolog.Logger) *ArticleStore {
	return &ArticleStore{
		api:       api,
		validator: validator,
		log:       log.With().Str("service", "articles").Logger(),
		articles:  []models.Article{},
	}
}

// Load fetches the full collection and replaces the cache.
// Failures are recorded in Status().Error and never returned.
func (s *ArticleStore) Load(ctx context.Context) {
	s.mu.Lock()
	s.loadSeq++
	seq := s.loadSeq
	s.inflight++
	mark := len(s.journal)
	s.mu.Unlock()

	articles, err := s.api.ListArticles(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		s.inflight--
		if s.inflight == 0 {
			s.journal = nil
		}
	}()

	if seq != s.loadSeq {
		s.log.Debug().Uint64("seq", seq).Uint64("latest", s.loadSeq).Msg("Discarding stale article load")
		return
	}

	if err != nil {
		s.lastErr = err.Error()
		s.log.Error().Err(err).Msg("Failed to load articles")
		return
	}

	next := dedupeArticles(articles)
	replayed := 0
	for _, m := range s.journal[mark:] {
		next = m.apply(next)
		replayed++
	}

	s.articles = next
	s.lastErr = ""
	s.log.Info().Int("count", len(next)).Int("replayed", replayed).Msg("Articles loaded")
}

// Refresh reloads the collection from the remote API
func (s *ArticleStore) Refresh(ctx context.Context) {
	s.Load(ctx)
}

// Create creates an article remotely and prepends the server's copy to the cache
func (s *ArticleStore) Create(ctx context.Context, draft models.ArticleDraft) (*models.Article, error) {
	token, err := s.credential()
	if err != nil {
		return nil, err
	}
	if errs := s.validator.ValidateArticleDraft(&draft); len(errs) > 0 {
		s.setError(errs)
		return nil, errs
	}

	created, err := s.api.CreateArticle(ctx, draft, token)
	if err != nil {
		s.setError(err)
		s.log.Error().Err(err).Str("title", draft.Title).Msg("Failed to create article")
		return nil, err
	}

	article := created.Clone()
	s.commit(mutation{kind: mutationCreate, id: article.ID, article: article})
	s.log.Info().Int64("article_id", article.ID).Msg("Article created")

	out := article.Clone()
	return &out, nil
}

// Update updates an article remotely and replaces the cached entry in place
func (s *ArticleStore) Update(ctx context.Context, id int64, patch models.ArticlePatch) (*models.Article, error) {
	token, err := s.credential()
	if err != nil {
		return nil, err
	}
	if errs := s.validator.ValidateArticlePatch(&patch); len(errs) > 0 {
		s.setError(errs)
		return nil, errs
	}

	updated, err := s.api.UpdateArticle(ctx, id, patch, token)
	if err != nil {
		s.setError(err)
		s.log.Error().Err(err).Int64("article_id", id).Msg("Failed to update article")
		return nil, err
	}

	article := updated.Clone()
	// The server copy replaces the entry under the requested id
	article.ID = id
	s.commit(mutation{kind: mutationUpdate, id: id, article: article})
	s.log.Info().Int64("article_id", id).Msg("Article updated")

	out := article.Clone()
	return &out, nil
}

// Delete deletes an article remotely and drops it from the cache.
// An id missing from the cache is a local no-op.
func (s *ArticleStore) Delete(ctx context.Context, id int64) error {
	token, err := s.credential()
	if err != nil {
		return err
	}

	if err := s.api.DeleteArticle(ctx, id, token); err != nil {
		s.setError(err)
		s.log.Error().Err(err).Int64("article_id", id).Msg("Failed to delete article")
		return err
	}

	s.commit(mutation{kind: mutationDelete, id: id})
	s.log.Info().Int64("article_id", id).Msg("Article deleted")
	return nil
}

// GetByID looks an article up in the cache
func (s *ArticleStore) GetByID(id int64) (models.Article, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.articles {
		if a.ID == id {
			return a.Clone(), true
		}
	}
	return models.Article{}, false
}

// Lookup returns the cached article, fetching it from the remote API on a miss.
// A fetched article is not added to the cache; the next load brings it in.
func (s *ArticleStore) Lookup(ctx context.Context, id int64) (models.Article, error) {
	if a, ok := s.GetByID(id); ok {
		return a, nil
	}

	fetched, err := s.api.GetArticle(ctx, id)
	if err != nil {
		return models.Article{}, err
	}
	s.log.Debug().Int64("article_id", id).Msg("Article served from remote on cache miss")
	return fetched.Clone(), nil
}

// GetLatest returns up to count articles, newest first, skipping the excluded ids.
// Articles with equal timestamps keep their cache order.
func (s *ArticleStore) GetLatest(count int, exclude ...int64) []models.Article {
	if count <= 0 {
		return []models.Article{}
	}

	skip := make(map[int64]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}

	latest := s.filtered(func(a models.Article) bool { return !skip[a.ID] })
	sortNewestFirst(latest)
	if len(latest) > count {
		latest = latest[:count]
	}
	return latest
}

// Articles returns a copy of the cache in cache order
func (s *ArticleStore) Articles() []models.Article {
	return s.filtered(func(models.Article) bool { return true })
}

// Sorted returns every cached article, newest first
func (s *ArticleStore) Sorted() []models.Article {
	articles := s.Articles()
	sortNewestFirst(articles)
	return articles
}

// ByCategory returns the articles under category, newest first.
// CategoryOther selects articles whose category is not a known one.
func (s *ArticleStore) ByCategory(category models.Category) []models.Article {
	articles := s.filtered(func(a models.Article) bool { return category.Matches(a.Category) })
	sortNewestFirst(articles)
	return articles
}

// SetCredential replaces the bearer token; an empty token clears it
func (s *ArticleStore) SetCredential(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// ClearCredential forgets the bearer token
func (s *ArticleStore) ClearCredential() {
	s.SetCredential("")
}

// HasCredential reports whether a bearer token is held
func (s *ArticleStore) HasCredential() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Status returns the loading flag, last error and cache size
func (s *ArticleStore) Status() models.StoreStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.StoreStatus{
		Loading:       s.inflight > 0,
		Error:         s.lastErr,
		Count:         len(s.articles),
		Authenticated: s.token != "",
	}
}

// credential returns the token, recording ErrNotAuthenticated when none is held
func (s *ArticleStore) credential() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		s.lastErr = ErrNotAuthenticated.Error()
		return "", ErrNotAuthenticated
	}
	return s.token, nil
}

func (s *ArticleStore) setError(err error) {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
}

// commit applies a confirmed mutation and journals it for in-flight loads
func (s *ArticleStore) commit(m mutation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.articles = m.apply(s.articles)
	if s.inflight > 0 {
		s.journal = append(s.journal, m)
	}
	s.lastErr = ""
}

func (s *ArticleStore) filtered(keep func(models.Article) bool) []models.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Article, 0, len(s.articles))
	for _, a := range s.articles {
		if keep(a) {
			out = append(out, a.Clone())
		}
	}
	return out
}

func sortNewestFirst(articles []models.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].CreatedAt.After(articles[j].CreatedAt.Time)
	})
}

// The helpers below never modify their input slice in place.

func prependArticle(articles []models.Article, article models.Article) []models.Article {
	out := make([]models.Article, 0, len(articles)+1)
	out = append(out, article)
	for _, a := range articles {
		if a.ID != article.ID {
			out = append(out, a)
		}
	}
	return out
}

func replaceArticle(articles []models.Article, article models.Article) []models.Article {
	out := make([]models.Article, len(articles))
	for i, a := range articles {
		if a.ID == article.ID {
			out[i] = article
		} else {
			out[i] = a
		}
	}
	return out
}

func removeArticle(articles []models.Article, id int64) []models.Article {
	out := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

func dedupeArticles(articles []models.Article) []models.Article {
	seen := make(map[int64]bool, len(articles))
	out := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		out = append(out, a.Clone())
	}
	return out
}
