package service

import (
	"context"
	"strings"
	"sync"

	"github.com/blog-cache-api/internal/models"
	"github.com/rs/zerolog"
)

// CommentLoader owns the comment list of a single article view.
// Loaders are not shared between articles; pointing a loader at another
// article resets it.
type CommentLoader struct {
	api CommentAPI
	log zerolog.Logger

	mu         sync.Mutex
	articleID  int64
	comments   []models.Comment
	pending    []models.Comment // posted while a load was in flight, oldest first
	state      models.LoaderState
	lastErr    string
	loading    bool
	submitting bool
	loadSeq    uint64
	mount      uint64
}

// NewCommentLoader creates an idle loader
func NewCommentLoader(api CommentAPI, log zerolog.Logger) *CommentLoader {
	return &CommentLoader{
		api:      api,
		log:      log.With().Str("service", "comments").Logger(),
		comments: []models.Comment{},
		state:    models.LoaderIdle,
	}
}

// Load fetches the comments of articleID and replaces the list.
// Failures are recorded in the snapshot and never returned.
func (l *CommentLoader) Load(ctx context.Context, articleID int64) {
	l.mu.Lock()
	if articleID != l.articleID {
		l.remount(articleID)
	}
	l.loadSeq++
	seq := l.loadSeq
	mount := l.mount
	l.state = models.LoaderLoading
	l.loading = true
	l.lastErr = ""
	l.mu.Unlock()

	comments, err := l.api.ListComments(ctx, articleID)

	l.mu.Lock()
	defer l.mu.Unlock()

	if seq != l.loadSeq || mount != l.mount {
		return
	}
	l.loading = false
	pending := l.pending
	l.pending = nil

	if err != nil {
		l.state = models.LoaderLoadError
		l.lastErr = err.Error()
		l.log.Error().Err(err).Int64("article_id", articleID).Msg("Failed to load comments")
		return
	}

	l.comments = dedupeComments(comments)
	for _, c := range pending {
		l.comments = prependComment(l.comments, c)
	}
	l.state = models.LoaderReady
	l.log.Debug().Int64("article_id", articleID).Int("count", len(l.comments)).Msg("Comments loaded")
}

// Post submits a comment for the current article and prepends the server's copy.
// A blank message returns ErrEmptyMessage without touching any state.
func (l *CommentLoader) Post(ctx context.Context, name, message string) (*models.Comment, error) {
	l.mu.Lock()
	if strings.TrimSpace(message) == "" {
		l.mu.Unlock()
		return nil, ErrEmptyMessage
	}
	if l.articleID == 0 {
		l.mu.Unlock()
		return nil, ErrNotMounted
	}
	if l.submitting {
		l.mu.Unlock()
		return nil, ErrSubmitInProgress
	}

	draft := models.NewCommentDraft(l.articleID, name, message)
	mount := l.mount
	l.submitting = true
	l.lastErr = ""
	if !l.loading {
		l.state = models.LoaderSubmitting
	}
	l.mu.Unlock()

	created, err := l.api.CreateComment(ctx, draft)

	l.mu.Lock()
	defer l.mu.Unlock()

	if mount != l.mount {
		// The view moved to another article while the post was in flight
		return created, err
	}

	l.submitting = false
	if l.state == models.LoaderSubmitting {
		l.state = models.LoaderReady
	}

	if err != nil {
		l.lastErr = err.Error()
		l.log.Error().Err(err).Int64("article_id", draft.ArticleID).Msg("Failed to post comment")
		return nil, err
	}

	l.comments = prependComment(l.comments, *created)
	if l.loading {
		l.pending = append(l.pending, *created)
	}
	l.log.Info().Int64("article_id", draft.ArticleID).Int64("comment_id", created.ID).Msg("Comment posted")

	out := *created
	return &out, nil
}

// Snapshot returns a copy of the loader state
func (l *CommentLoader) Snapshot() models.CommentView {
	l.mu.Lock()
	defer l.mu.Unlock()

	comments := make([]models.Comment, len(l.comments))
	copy(comments, l.comments)

	return models.CommentView{
		ArticleID:  l.articleID,
		State:      l.state,
		Comments:   comments,
		Error:      l.lastErr,
		Loading:    l.loading,
		Submitting: l.submitting,
	}
}

// remount resets the loader for a new article; caller holds the lock
func (l *CommentLoader) remount(articleID int64) {
	l.articleID = articleID
	l.comments = []models.Comment{}
	l.pending = nil
	l.state = models.LoaderIdle
	l.lastErr = ""
	l.loading = false
	l.submitting = false
	l.mount++
}

func prependComment(comments []models.Comment, comment models.Comment) []models.Comment {
	out := make([]models.Comment, 0, len(comments)+1)
	out = append(out, comment)
	for _, c := range comments {
		if c.ID != comment.ID {
			out = append(out, c)
		}
	}
	return out
}

func dedupeComments(comments []models.Comment) []models.Comment {
	seen := make(map[int64]bool, len(comments))
	out := make([]models.Comment, 0, len(comments))
	for _, c := range comments {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}
