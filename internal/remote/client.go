package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/blog-cache-api/internal/config"
	"github.com/blog-cache-api/internal/models"
	"github.com/rs/zerolog"
)

// maxErrorBody caps how much of an error response is read
const maxErrorBody = 64 * 1024

// Client talks to the blog REST API
type Client struct {
	baseURL   string
	authURL   string
	userAgent string
	http      *http.Client
	log       zerolog.Logger
}

// NewClient creates a client for the configured API
func NewClient(cfg *config.RemoteConfig, log zerolog.Logger) *Client {
	return NewClientWithHTTP(cfg, &http.Client{Timeout: cfg.Timeout}, log)
}

// NewClientWithHTTP creates a client using the given HTTP client
func NewClientWithHTTP(cfg *config.RemoteConfig, httpClient *http.Client, log zerolog.Logger) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = base + "/api-token-auth/"
	}
	return &Client{
		baseURL:   base,
		authURL:   authURL,
		userAgent: cfg.UserAgent,
		http:      httpClient,
		log:       log.With().Str("component", "remote").Logger(),
	}
}

// ListArticles fetches the full article collection
func (c *Client) ListArticles(ctx context.Context) ([]models.Article, error) {
	var articles []models.Article
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/articles/", "", nil, &articles); err != nil {
		return nil, err
	}
	if articles == nil {
		articles = []models.Article{}
	}
	return articles, nil
}

// GetArticle fetches a single article
func (c *Client) GetArticle(ctx context.Context, id int64) (*models.Article, error) {
	var article models.Article
	if err := c.do(ctx, http.MethodGet, c.articleURL(id), "", nil, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// CreateArticle creates an article and returns the server's representation
func (c *Client) CreateArticle(ctx context.Context, draft models.ArticleDraft, token string) (*models.Article, error) {
	var article models.Article
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/articles/", token, draft, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// UpdateArticle replaces the fields set in patch and returns the server's representation
func (c *Client) UpdateArticle(ctx context.Context, id int64, patch models.ArticlePatch, token string) (*models.Article, error) {
	var article models.Article
	if err := c.do(ctx, http.MethodPut, c.articleURL(id), token, patch, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// DeleteArticle deletes an article
func (c *Client) DeleteArticle(ctx context.Context, id int64, token string) error {
	return c.do(ctx, http.MethodDelete, c.articleURL(id), token, nil, nil)
}

// ListComments fetches all comments of an article
func (c *Client) ListComments(ctx context.Context, articleID int64) ([]models.Comment, error) {
	url := c.baseURL + "/commentaires/?article=" + strconv.FormatInt(articleID, 10)
	var comments []models.Comment
	if err := c.do(ctx, http.MethodGet, url, "", nil, &comments); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

// CreateComment posts a comment; no credential is needed
func (c *Client) CreateComment(ctx context.Context, draft models.CommentDraft) (*models.Comment, error) {
	var comment models.Comment
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/commentaires/", "", draft, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// Login exchanges admin credentials for a bearer token
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	payload := map[string]string{"username": username, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, c.authURL, "", payload, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", &APIError{Message: "login response did not include a token"}
	}
	return resp.Token, nil
}

func (c *Client) articleURL(id int64) string {
	return fmt.Sprintf("%s/articles/%d/", c.baseURL, id)
}

// do performs a request and decodes a JSON response into out when out is non-nil.
// Every failure is returned as *APIError.
func (c *Client) do(ctx context.Context, method, url, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return newTransportError("encode request", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return newTransportError("build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("url", url).Msg("Remote request failed")
		return newTransportError(method+" "+url, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Remote request completed")

	if !isSuccess(resp.StatusCode) {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newResponseError(resp.StatusCode, data)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newTransportError("decode response", err)
	}
	return nil
}
