package service

import (
	"context"
	"errors"
	"io"

	"github.com/blog-cache-api/internal/models"
	"github.com/blog-cache-api/internal/repository"
	"github.com/blog-cache-api/internal/validation"
	"github.com/rs/zerolog"
)

var (
	// ErrNotAuthenticated is returned by article mutations when no credential is held
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrEmptyMessage is returned when a comment message is blank after trimming
	ErrEmptyMessage = errors.New("comment message is empty")
	// ErrSubmitInProgress is returned when a comment is posted while another post is pending
	ErrSubmitInProgress = errors.New("a comment is already being submitted")
	// ErrNotMounted is returned when a comment is posted before the loader targets an article
	ErrNotMounted = errors.New("comment loader has no article")
)

// ArticleAPI is the part of the remote client the article store needs
type ArticleAPI interface {
	ListArticles(ctx context.Context) ([]models.Article, error)
	GetArticle(ctx context.Context, id int64) (*models.Article, error)
	CreateArticle(ctx context.Context, draft models.ArticleDraft, token string) (*models.Article, error)
	UpdateArticle(ctx context.Context, id int64, patch models.ArticlePatch, token string) (*models.Article, error)
	DeleteArticle(ctx context.Context, id int64, token string) error
}

// CommentAPI is the part of the remote client the comment loader needs
type CommentAPI interface {
	ListComments(ctx context.Context, articleID int64) ([]models.Comment, error)
	CreateComment(ctx context.Context, draft models.CommentDraft) (*models.Comment, error)
}

// AuthAPI exchanges admin credentials for a token
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// RemoteAPI is everything the services consume from the blog API
type RemoteAPI interface {
	ArticleAPI
	CommentAPI
	AuthAPI
}

// ImageUploader uploads an image and returns its hosted URL
type ImageUploader interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}

// Services holds the application state containers
type Services struct {
	Articles *ArticleStore
	Auth     *AuthService
	Advert   *AdvertService
	Export   *ExportService
	Uploads  ImageUploader

	remote CommentAPI
	repos  *repository.Repositories
	log    zerolog.Logger
}

// NewServices creates all services around one article store
func NewServices(api RemoteAPI, uploader ImageUploader, repos *repository.Repositories, log zerolog.Logger) *Services {
	validator := validation.NewValidator()
	articles := NewArticleStore(api, validator, log)

	return &Services{
		Articles: articles,
		Auth:     NewAuthService(api, articles, log),
		Advert:   NewAdvertService(repos.Settings, validator, log),
		Export:   NewExportService(articles, log),
		Uploads:  uploader,
		remote:   api,
		repos:    repos,
		log:      log,
	}
}

// NewCommentLoader creates a comment loader for one article view
func (s *Services) NewCommentLoader() *CommentLoader {
	return NewCommentLoader(s.remote, s.log)
}

// HealthCheck reports whether the settings storage is reachable
func (s *Services) HealthCheck(ctx context.Context) error {
	return s.repos.HealthCheck(ctx)
}
