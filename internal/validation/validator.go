package validation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/blog-cache-api/internal/models"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Errors is a list of validation errors usable as an error value
type Errors []ValidationError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, ve := range e {
		parts = append(parts, ve.Field+": "+ve.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns nil for an empty list so callers can return it directly
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Validator provides validation methods. It holds no state and is safe for concurrent use.
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateArticleDraft validates the input of an article creation
func (v *Validator) ValidateArticleDraft(draft *models.ArticleDraft) Errors {
	var errors Errors

	// Validate title
	if strings.TrimSpace(draft.Title) == "" {
		errors = append(errors, ValidationError{Field: "titre", Message: "title is required"})
	}

	// Validate body
	if strings.TrimSpace(draft.Body) == "" {
		errors = append(errors, ValidationError{Field: "contenu", Message: "body is required"})
	}

	// Validate category
	if draft.Category == "" {
		errors = append(errors, ValidationError{Field: "categorie", Message: "category is required"})
	} else if !draft.Category.IsKnown() {
		errors = append(errors, ValidationError{
			Field:   "categorie",
			Message: fmt.Sprintf("invalid category, must be one of: %s", knownCategoryList()),
			Value:   string(draft.Category),
		})
	}

	// Validate image URL if present
	if draft.ImageURL != nil && *draft.ImageURL != "" && !isHTTPURL(*draft.ImageURL) {
		errors = append(errors, ValidationError{Field: "image_url", Message: "image_url must be an absolute http(s) URL", Value: *draft.ImageURL})
	}

	return errors
}

// ValidateArticlePatch validates the input of an article update
func (v *Validator) ValidateArticlePatch(patch *models.ArticlePatch) Errors {
	var errors Errors

	if patch.IsEmpty() {
		return Errors{{Field: "patch", Message: "at least one field must be set"}}
	}

	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		errors = append(errors, ValidationError{Field: "titre", Message: "title must not be empty"})
	}
	if patch.Body != nil && strings.TrimSpace(*patch.Body) == "" {
		errors = append(errors, ValidationError{Field: "contenu", Message: "body must not be empty"})
	}
	if patch.Category != nil && !patch.Category.IsKnown() {
		errors = append(errors, ValidationError{
			Field:   "categorie",
			Message: fmt.Sprintf("invalid category, must be one of: %s", knownCategoryList()),
			Value:   string(*patch.Category),
		})
	}
	if patch.Image != nil && patch.Image.URL != "" && !isHTTPURL(patch.Image.URL) {
		errors = append(errors, ValidationError{Field: "image_url", Message: "image_url must be an absolute http(s) URL", Value: patch.Image.URL})
	}

	return errors
}

// ValidateAdvert validates the advertisement setting
func (v *Validator) ValidateAdvert(advert *models.AdvertImage) Errors {
	var errors Errors

	if advert.ImageURL == "" {
		errors = append(errors, ValidationError{Field: "image_url", Message: "image_url is required"})
	} else if !isHTTPURL(advert.ImageURL) {
		errors = append(errors, ValidationError{Field: "image_url", Message: "image_url must be an absolute http(s) URL", Value: advert.ImageURL})
	}

	if advert.Link == "" {
		errors = append(errors, ValidationError{Field: "link", Message: "link is required"})
	} else if !isHTTPURL(advert.Link) {
		errors = append(errors, ValidationError{Field: "link", Message: "link must be an absolute http(s) URL", Value: advert.Link})
	}

	return errors
}

// isHTTPURL checks if a string is an absolute http or https URL
func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func knownCategoryList() string {
	names := make([]string, 0, len(models.KnownCategories))
	for _, c := range models.KnownCategories {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
