package mocks

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/blog-cache-api/internal/models"
	"github.com/blog-cache-api/internal/remote"
	"github.com/blog-cache-api/internal/service"
)

// MockRemoteAPI is an in-memory stand-in for the blog REST API.
// Without overrides it behaves like the real server; the *Func fields
// replace individual calls.
type MockRemoteAPI struct {
	ListArticlesFunc  func(ctx context.Context) ([]models.Article, error)
	GetArticleFunc    func(ctx context.Context, id int64) (*models.Article, error)
	CreateArticleFunc func(ctx context.Context, draft models.ArticleDraft, token string) (*models.Article, error)
	UpdateArticleFunc func(ctx context.Context, id int64, patch models.ArticlePatch, token string) (*models.Article, error)
	DeleteArticleFunc func(ctx context.Context, id int64, token string) error
	ListCommentsFunc  func(ctx context.Context, articleID int64) ([]models.Comment, error)
	CreateCommentFunc func(ctx context.Context, draft models.CommentDraft) (*models.Comment, error)
	LoginFunc         func(ctx context.Context, username, password string) (string, error)

	// Credentials accepted by the default Login
	Username string
	Password string
	Token    string

	mu            sync.Mutex
	Articles      []models.Article
	Comments      map[int64][]models.Comment
	NextArticleID int64
	NextCommentID int64
	Calls         map[string]int
	Tokens        []string
	Now           func() time.Time
}

// Verify interface compliance
var _ service.RemoteAPI = (*MockRemoteAPI)(nil)

func NewMockRemoteAPI() *MockRemoteAPI {
	return &MockRemoteAPI{
		Username:      "admin",
		Password:      "secret",
		Token:         "token-123",
		Articles:      make([]models.Article, 0),
		Comments:      make(map[int64][]models.Comment),
		NextArticleID: 1,
		NextCommentID: 1,
		Calls:         make(map[string]int),
		Now:           time.Now,
	}
}

// SeedArticles replaces the server-side articles and advances NextArticleID past them
func (m *MockRemoteAPI) SeedArticles(articles ...models.Article) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Articles = append([]models.Article(nil), articles...)
	for _, a := range articles {
		if a.ID >= m.NextArticleID {
			m.NextArticleID = a.ID + 1
		}
	}
}

// SeedComments replaces the server-side comments of an article
func (m *MockRemoteAPI) SeedComments(articleID int64, comments ...models.Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Comments[articleID] = append([]models.Comment(nil), comments...)
	for _, c := range comments {
		if c.ID >= m.NextCommentID {
			m.NextCommentID = c.ID + 1
		}
	}
}

// CallCount returns how many times a method was invoked
func (m *MockRemoteAPI) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[method]
}

// TotalCalls returns the number of remote calls of any kind
func (m *MockRemoteAPI) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.Calls {
		total += n
	}
	return total
}

// ServerIDs returns the ids of the server-side articles
func (m *MockRemoteAPI) ServerIDs() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.Articles))
	for _, a := range m.Articles {
		ids = append(ids, a.ID)
	}
	return ids
}

func (m *MockRemoteAPI) record(method, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[method]++
	if token != "" {
		m.Tokens = append(m.Tokens, token)
	}
}

func (m *MockRemoteAPI) ListArticles(ctx context.Context) ([]models.Article, error) {
	m.record("ListArticles", "")
	if m.ListArticlesFunc != nil {
		return m.ListArticlesFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Article, len(m.Articles))
	for i, a := range m.Articles {
		out[i] = a.Clone()
	}
	return out, nil
}

func (m *MockRemoteAPI) GetArticle(ctx context.Context, id int64) (*models.Article, error) {
	m.record("GetArticle", "")
	if m.GetArticleFunc != nil {
		return m.GetArticleFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.Articles {
		if a.ID == id {
			out := a.Clone()
			return &out, nil
		}
	}
	return nil, notFound()
}

func (m *MockRemoteAPI) CreateArticle(ctx context.Context, draft models.ArticleDraft, token string) (*models.Article, error) {
	m.record("CreateArticle", token)
	if m.CreateArticleFunc != nil {
		return m.CreateArticleFunc(ctx, draft, token)
	}
	if err := m.checkToken(token); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.Now()
	article := models.Article{
		ID:        m.NextArticleID,
		Title:     draft.Title,
		Body:      draft.Body,
		ImageURL:  draft.ImageURL,
		Category:  draft.Category,
		CreatedAt: models.NewTimestamp(now),
		UpdatedAt: models.NewTimestamp(now),
		AdminID:   1,
	}
	m.NextArticleID++
	m.Articles = append(m.Articles, article.Clone())
	return &article, nil
}

func (m *MockRemoteAPI) UpdateArticle(ctx context.Context, id int64, patch models.ArticlePatch, token string) (*models.Article, error) {
	m.record("UpdateArticle", token)
	if m.UpdateArticleFunc != nil {
		return m.UpdateArticleFunc(ctx, id, patch, token)
	}
	if err := m.checkToken(token); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.Articles {
		if a.ID == id {
			updated := patch.Apply(a)
			updated.UpdatedAt = models.NewTimestamp(m.Now())
			m.Articles[i] = updated
			out := updated.Clone()
			return &out, nil
		}
	}
	return nil, notFound()
}

func (m *MockRemoteAPI) DeleteArticle(ctx context.Context, id int64, token string) error {
	m.record("DeleteArticle", token)
	if m.DeleteArticleFunc != nil {
		return m.DeleteArticleFunc(ctx, id, token)
	}
	if err := m.checkToken(token); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.Articles {
		if a.ID == id {
			m.Articles = append(m.Articles[:i:i], m.Articles[i+1:]...)
			return nil
		}
	}
	return notFound()
}

func (m *MockRemoteAPI) ListComments(ctx context.Context, articleID int64) ([]models.Comment, error) {
	m.record("ListComments", "")
	if m.ListCommentsFunc != nil {
		return m.ListCommentsFunc(ctx, articleID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Comment{}, m.Comments[articleID]...), nil
}

func (m *MockRemoteAPI) CreateComment(ctx context.Context, draft models.CommentDraft) (*models.Comment, error) {
	m.record("CreateComment", "")
	if m.CreateCommentFunc != nil {
		return m.CreateCommentFunc(ctx, draft)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	comment := models.Comment{
		ID:        m.NextCommentID,
		Name:      draft.Name,
		Message:   draft.Message,
		ArticleID: draft.ArticleID,
		CreatedAt: models.NewTimestamp(m.Now()),
	}
	m.NextCommentID++
	m.Comments[draft.ArticleID] = append([]models.Comment{comment}, m.Comments[draft.ArticleID]...)
	return &comment, nil
}

func (m *MockRemoteAPI) Login(ctx context.Context, username, password string) (string, error) {
	m.record("Login", "")
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	if username != m.Username || password != m.Password {
		return "", &remote.APIError{Status: http.StatusBadRequest, Message: "Unable to log in with provided credentials."}
	}
	return m.Token, nil
}

func (m *MockRemoteAPI) checkToken(token string) error {
	if token != m.Token {
		return &remote.APIError{Status: http.StatusUnauthorized, Message: "Invalid token."}
	}
	return nil
}

func notFound() error {
	return &remote.APIError{Status: http.StatusNotFound, Message: "Not found."}
}
