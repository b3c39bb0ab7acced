package models

import "strings"

// AnonymousName is shown and sent for comments posted without a name
const AnonymousName = "Anonymous"

// Comment represents a reader comment on an article
type Comment struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nom"`
	Message   string    `json:"message"`
	ArticleID int64     `json:"article"`
	CreatedAt Timestamp `json:"created_at"`
}

// DisplayName returns the author name, falling back to AnonymousName
func (c Comment) DisplayName() string {
	if strings.TrimSpace(c.Name) == "" {
		return AnonymousName
	}
	return c.Name
}

// CommentDraft is the payload for posting a comment
type CommentDraft struct {
	Name      string `json:"nom"`
	Message   string `json:"message"`
	ArticleID int64  `json:"article"`
}

// NewCommentDraft trims the inputs and substitutes AnonymousName for a blank name
func NewCommentDraft(articleID int64, name, message string) CommentDraft {
	name = strings.TrimSpace(name)
	if name == "" {
		name = AnonymousName
	}
	return CommentDraft{
		Name:      name,
		Message:   strings.TrimSpace(message),
		ArticleID: articleID,
	}
}

// LoaderState is the lifecycle state of a comment loader
type LoaderState string

const (
	LoaderIdle       LoaderState = "idle"
	LoaderLoading    LoaderState = "loading"
	LoaderReady      LoaderState = "ready"
	LoaderLoadError  LoaderState = "load-error"
	LoaderSubmitting LoaderState = "submitting"
)

// CommentView is a read-only snapshot of a comment loader
type CommentView struct {
	ArticleID  int64       `json:"article_id"`
	State      LoaderState `json:"state"`
	Comments   []Comment   `json:"comments"`
	Error      string      `json:"error,omitempty"`
	Loading    bool        `json:"loading"`
	Submitting bool        `json:"submitting"`
}
