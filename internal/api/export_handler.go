package api

import (
	"net/http"
	"strconv"

	"github.com/blog-cache-api/internal/models"
	"github.com/blog-cache-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ExportHandler handles export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// StreamExport handles GET /v1/exports?resource=...&format=...&article=...
// Articles are streamed from the cache; comments are fetched for one article
func (h *ExportHandler) StreamExport(c *gin.Context) {
	ctx := c.Request.Context()

	resource := c.Query("resource")
	if resource == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource parameter is required (articles, comments)"})
		return
	}
	if resource != "articles" && resource != "comments" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource must be one of: articles, comments"})
		return
	}

	format := c.Query("format")
	if format == "" {
		format = service.FormatNDJSON // Default to NDJSON for streaming
	}
	if format != service.FormatNDJSON && format != service.FormatJSON && format != service.FormatCSV {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: ndjson, json, csv"})
		return
	}

	// CSV only supported for articles
	if format == service.FormatCSV && resource != "articles" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV format only supported for articles export"})
		return
	}

	var comments []models.Comment
	if resource == "comments" {
		articleID, err := strconv.ParseInt(c.Query("article"), 10, 64)
		if err != nil || articleID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "article parameter is required for comments export"})
			return
		}

		loader := h.services.NewCommentLoader()
		loader.Load(ctx, articleID)
		view := loader.Snapshot()
		if view.State == models.LoaderLoadError {
			c.JSON(http.StatusBadGateway, gin.H{"error": view.Error})
			return
		}
		comments = view.Comments
	}

	h.log.Info().
		Str("resource", resource).
		Str("format", format).
		Msg("Starting streaming export")

	var err error
	switch resource {
	case "articles":
		err = h.services.Export.StreamArticles(ctx, c.Writer, format)
	case "comments":
		err = h.services.Export.StreamComments(ctx, c.Writer, comments, format)
	}

	if err != nil {
		h.log.Error().Err(err).Str("resource", resource).Msg("Export failed")
		// Can't return error JSON after streaming has started
		return
	}
}
