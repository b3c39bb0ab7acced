package api

import (
	"net/http"

	"github.com/blog-cache-api/internal/models"
	"github.com/blog-cache-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AdvertHandler handles the sidebar advert setting
type AdvertHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAdvertHandler creates a new AdvertHandler
func NewAdvertHandler(services *service.Services, log zerolog.Logger) *AdvertHandler {
	return &AdvertHandler{
		services: services,
		log:      log.With().Str("handler", "advert").Logger(),
	}
}

// Get handles GET /v1/advert
func (h *AdvertHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Advert.Get(c.Request.Context()))
}

// Update handles PUT /v1/advert
func (h *AdvertHandler) Update(c *gin.Context) {
	var advert models.AdvertImage
	if err := c.ShouldBindJSON(&advert); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.services.Advert.Update(c.Request.Context(), advert); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, advert)
}
