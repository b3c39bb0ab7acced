package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/blog-cache-api/internal/models"
	"github.com/rs/zerolog"
)

// Supported export formats
const (
	FormatNDJSON = "ndjson"
	FormatJSON   = "json"
	FormatCSV    = "csv"
)

// ExportService streams cached data to HTTP clients
type ExportService struct {
	articles *ArticleStore
	log      zerolog.Logger
}

// NewExportService creates an ExportService reading from articles
func NewExportService(articles *ArticleStore, log zerolog.Logger) *ExportService {
	return &ExportService{
		articles: articles,
		log:      log.With().Str("service", "export").Logger(),
	}
}

// StreamArticles streams the cached articles, newest first, in the specified format
func (s *ExportService) StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error {
	s.log.Info().Str("format", format).Msg("Starting articles export")

	articles := s.articles.Sorted()

	var err error
	switch format {
	case FormatNDJSON:
		err = streamNDJSON(ctx, w, "articles", articles)
	case FormatJSON:
		err = streamJSON(ctx, w, "articles", articles)
	case FormatCSV:
		err = s.streamArticlesCSV(ctx, w, articles)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	s.log.Info().Int("count", len(articles)).Msg("Articles export completed")
	return err
}

// StreamComments streams one article's comments in the specified format
func (s *ExportService) StreamComments(ctx context.Context, w http.ResponseWriter, comments []models.Comment, format string) error {
	s.log.Info().Str("format", format).Msg("Starting comments export")

	var err error
	switch format {
	case FormatNDJSON:
		err = streamNDJSON(ctx, w, "comments", comments)
	case FormatJSON:
		err = streamJSON(ctx, w, "comments", comments)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	s.log.Info().Int("count", len(comments)).Msg("Comments export completed")
	return err
}

func (s *ExportService) streamArticlesCSV(ctx context.Context, w http.ResponseWriter, articles []models.Article) error {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=articles.csv")

	writer := csv.NewWriter(w)
	defer writer.Flush()

	// Write header
	writer.Write([]string{"id", "titre", "categorie", "image_url", "admin", "created_at", "updated_at"})

	for _, article := range articles {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := writer.Write([]string{
			strconv.FormatInt(article.ID, 10),
			article.Title,
			string(article.Category),
			article.Image(),
			strconv.FormatInt(article.AdminID, 10),
			article.CreatedAt.UTC().Format(time.RFC3339),
			article.UpdatedAt.UTC().Format(time.RFC3339),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func streamNDJSON[T any](ctx context.Context, w http.ResponseWriter, name string, records []T) error {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", "attachment; filename="+name+".ndjson")

	flusher, _ := w.(http.Flusher)

	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		w.Write(data)
		w.Write([]byte("\n"))

		// Flush every 100 records for streaming
		if (i+1)%100 == 0 && flusher != nil {
			flusher.Flush()
		}
	}
	return nil
}

func streamJSON[T any](ctx context.Context, w http.ResponseWriter, name string, records []T) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename="+name+".json")

	w.Write([]byte("["))
	defer w.Write([]byte("]"))

	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 {
			w.Write([]byte(","))
		}
		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		w.Write(data)
	}
	return nil
}
