package api

import (
	"net/http"
	"strings"

	"github.com/blog-cache-api/internal/models"
	"github.com/blog-cache-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommentHandler handles the comment endpoints of an article.
// Every request drives its own loader, the way each article view owns one.
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

type commentRequest struct {
	Name    string `json:"nom"`
	Message string `json:"message"`
}

// List handles GET /v1/articles/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	loader := h.services.NewCommentLoader()
	loader.Load(c.Request.Context(), id)

	view := loader.Snapshot()
	if view.State == models.LoaderLoadError {
		c.JSON(http.StatusBadGateway, view)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Create handles POST /v1/articles/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		respondError(c, service.ErrEmptyMessage)
		return
	}

	loader := h.services.NewCommentLoader()
	loader.Load(c.Request.Context(), id)

	posted, err := loader.Post(c.Request.Context(), req.Name, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"comment":  posted,
		"comments": loader.Snapshot().Comments,
	})
}
