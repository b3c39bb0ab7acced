package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/blog-cache-api/internal/imagehost"
	"github.com/blog-cache-api/internal/remote"
	"github.com/blog-cache-api/internal/service"
	"github.com/blog-cache-api/internal/validation"
	"github.com/gin-gonic/gin"
)

// statusFor maps a service error to the HTTP status returned to clients
func statusFor(err error) int {
	var verrs validation.Errors
	var apiErr *remote.APIError
	var upErr *imagehost.UploadError

	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.As(err, &verrs),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrNotMounted):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrSubmitInProgress):
		return http.StatusConflict
	case errors.Is(err, imagehost.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, imagehost.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, imagehost.ErrNotImage):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &apiErr):
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status
		}
		return http.StatusBadGateway
	case errors.As(err, &upErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// respondError writes err as a JSON error body
func respondError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		body["error"] = "validation failed"
		body["details"] = []validation.ValidationError(verrs)
	}

	c.JSON(statusFor(err), body)
}

// parseID reads a positive integer path parameter
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}

// parseIDList reads ids given as repeated or comma separated query values
func parseIDList(values []string) ([]int64, error) {
	var ids []int64
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
