package api

import (
	"net/http"
	"strconv"

	"github.com/blog-cache-api/internal/config"
	"github.com/blog-cache-api/internal/models"
	"github.com/blog-cache-api/internal/render"
	"github.com/blog-cache-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ArticleCard is an article with the fields listing pages display
type ArticleCard struct {
	models.Article
	Excerpt       string `json:"excerpt"`
	CategoryLabel string `json:"categorie_label"`
}

func newArticleCard(a models.Article) ArticleCard {
	return ArticleCard{
		Article:       a,
		Excerpt:       render.Excerpt(a.Body, render.CardExcerptWidth),
		CategoryLabel: a.Category.Label(),
	}
}

func newArticleCards(articles []models.Article) []ArticleCard {
	cards := make([]ArticleCard, 0, len(articles))
	for _, a := range articles {
		cards = append(cards, newArticleCard(a))
	}
	return cards
}

// ArticleHandler handles article endpoints
type ArticleHandler struct {
	services    *service.Services
	latestCount int
	log         zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services:    services,
		latestCount: cfg.Server.LatestCount,
		log:         log.With().Str("handler", "article").Logger(),
	}
}

// List handles GET /v1/articles?category=...
func (h *ArticleHandler) List(c *gin.Context) {
	var articles []models.Article
	if raw := c.Query("category"); raw != "" {
		articles = h.services.Articles.ByCategory(models.ParseCategory(raw))
	} else {
		articles = h.services.Articles.Sorted()
	}

	status := h.services.Articles.Status()
	c.JSON(http.StatusOK, gin.H{
		"articles": newArticleCards(articles),
		"count":    len(articles),
		"loading":  status.Loading,
		"error":    status.Error,
	})
}

// Latest handles GET /v1/articles/latest?count=...&exclude=...
func (h *ArticleHandler) Latest(c *gin.Context) {
	count := h.latestCount
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be an integer"})
			return
		}
		count = n
	}

	exclude, err := parseIDList(c.QueryArray("exclude"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exclude must be a list of article ids"})
		return
	}

	latest := h.services.Articles.GetLatest(count, exclude...)
	c.JSON(http.StatusOK, gin.H{
		"articles": newArticleCards(latest),
		"count":    len(latest),
	})
}

// Get handles GET /v1/articles/:id
// Returns the article with its rendered body and the latest other articles
func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	article, err := h.services.Articles.Lookup(c.Request.Context(), id)
	if err != nil {
		h.log.Warn().Err(err).Int64("article_id", id).Msg("Article lookup failed")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"article": newArticleCard(article),
		"blocks":  render.Blocks(article.Body),
		"html":    render.HTML(article.Body),
		"latest":  newArticleCards(h.services.Articles.GetLatest(h.latestCount, id)),
	})
}

// Refresh handles POST /v1/articles/refresh
func (h *ArticleHandler) Refresh(c *gin.Context) {
	h.services.Articles.Refresh(c.Request.Context())

	status := h.services.Articles.Status()
	code := http.StatusOK
	if status.Error != "" {
		code = http.StatusBadGateway
	}
	c.JSON(code, status)
}

// Create handles POST /v1/articles
func (h *ArticleHandler) Create(c *gin.Context) {
	var draft models.ArticleDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := h.services.Articles.Create(c.Request.Context(), draft)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newArticleCard(*created))
}

// Update handles PUT /v1/articles/:id
// Only the fields present in the body are changed; "image_url": null removes the image
func (h *ArticleHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var patch models.ArticlePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.services.Articles.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newArticleCard(*updated))
}

// Delete handles DELETE /v1/articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Articles.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
