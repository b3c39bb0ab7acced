package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/blog-cache-api/internal/imagehost"
	"github.com/blog-cache-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// multipartOverhead is allowed on top of the image size for form boundaries and fields
const multipartOverhead = 1 << 20

// UploadHandler handles image uploads for the admin panel
type UploadHandler struct {
	services *service.Services
	maxBody  int64
	log      zerolog.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(services *service.Services, maxImageSize int64, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		services: services,
		maxBody:  maxImageSize + multipartOverhead,
		log:      log.With().Str("handler", "upload").Logger(),
	}
}

// Upload handles POST /v1/uploads (multipart field "file")
// Returns the hosted URL to store as an article's image_url
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, fmt.Errorf("%w: request body exceeds %d bytes", imagehost.ErrTooLarge, tooLarge.Limit))
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	url, err := h.services.Uploads.Upload(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.log.Warn().Err(err).Str("filename", header.Filename).Int64("size", header.Size).Msg("Upload failed")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
