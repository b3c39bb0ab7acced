package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/blog-cache-api/internal/config"
	"github.com/blog-cache-api/internal/models"
	"github.com/blog-cache-api/internal/remote"
	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *remote.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.RemoteConfig{BaseURL: srv.URL + "/api/", Timeout: 5 * time.Second, UserAgent: "test-agent"}
	return remote.NewClient(cfg, zerolog.Nop())
}

func TestListArticles(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/articles/" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("Expected user agent header, got %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte(`[
			{"id":1,"titre":"Un","contenu":"a","image_url":null,"categorie":"CONGO","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z","admin":7},
			{"id":2,"titre":"Deux","contenu":"b","image_url":"https://img/2.png","categorie":"SPORT","created_at":"2024-03-01T00:00:00Z","updated_at":"2024-03-01T00:00:00Z","admin":7}
		]`))
	})

	articles, err := client.ListArticles(context.Background())
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("Expected 2 articles, got %d", len(articles))
	}
	if articles[0].ImageURL != nil {
		t.Error("Expected nil image for first article")
	}
	if articles[1].Image() != "https://img/2.png" {
		t.Errorf("Unexpected image %q", articles[1].Image())
	}
	if articles[1].Category.IsKnown() {
		t.Error("SPORT should be an unknown category")
	}
	if articles[0].AdminID != 7 {
		t.Errorf("Expected admin 7, got %d", articles[0].AdminID)
	}
}

func TestListArticles_EmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	})

	articles, err := client.ListArticles(context.Background())
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if articles == nil || len(articles) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", articles)
	}
}

func TestCreateArticle_SendsTokenAndBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/articles/" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Token secret" {
			t.Errorf("Expected token header, got %q", got)
		}
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["titre"] != "Titre" || body["categorie"] != "FINANCE" {
			t.Errorf("Unexpected body %v", body)
		}
		if v, ok := body["image_url"]; !ok || v != nil {
			t.Errorf("Expected explicit null image_url, got %v", v)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":10,"titre":"Titre","contenu":"Corps","categorie":"FINANCE","created_at":"2024-05-01T00:00:00Z"}`))
	})

	article, err := client.CreateArticle(context.Background(), models.ArticleDraft{
		Title: "Titre", Body: "Corps", Category: models.CategoryFinance,
	}, "secret")
	if err != nil {
		t.Fatalf("CreateArticle failed: %v", err)
	}
	if article.ID != 10 {
		t.Errorf("Expected server-assigned id 10, got %d", article.ID)
	}
}

func TestUpdateArticle_SendsOnlyPatchedFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/articles/4/" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if len(body) != 2 {
			t.Errorf("Expected 2 fields, got %v", body)
		}
		if v, ok := body["image_url"]; !ok || v != nil {
			t.Errorf("Expected cleared image, got %v", v)
		}
		w.Write([]byte(`{"id":4,"titre":"Nouveau","contenu":"x","categorie":"CONGO"}`))
	})

	title := "Nouveau"
	article, err := client.UpdateArticle(context.Background(), 4, models.ArticlePatch{
		Title: &title,
		Image: &models.ImageChange{},
	}, "secret")
	if err != nil {
		t.Fatalf("UpdateArticle failed: %v", err)
	}
	if article.Title != "Nouveau" {
		t.Errorf("Unexpected title %q", article.Title)
	}
}

func TestDeleteArticle_NoContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/articles/3/" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteArticle(context.Background(), 3, "secret"); err != nil {
		t.Fatalf("DeleteArticle failed: %v", err)
	}
}

func TestListComments_FiltersByArticle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/commentaires/" || r.URL.Query().Get("article") != "12" {
			t.Errorf("Unexpected request %s", r.URL.String())
		}
		w.Write([]byte(`[{"id":1,"nom":"","message":"Salut","article":12,"created_at":"2024-01-01T10:00:00Z"}]`))
	})

	comments, err := client.ListComments(context.Background(), 12)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(comments) != 1 || comments[0].DisplayName() != models.AnonymousName {
		t.Errorf("Unexpected comments %+v", comments)
	}
}

func TestCreateComment_NoAuthorization(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("Comments must not carry a credential")
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"nom":"Anonymous"`) {
			t.Errorf("Unexpected body %s", body)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":5,"nom":"Anonymous","message":"Hello","article":1}`))
	})

	comment, err := client.CreateComment(context.Background(), models.NewCommentDraft(1, " ", "Hello"))
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	if comment.ID != 5 {
		t.Errorf("Expected id 5, got %d", comment.ID)
	}
}

func TestLogin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/api-token-auth/" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "admin" || body["password"] != "pw" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"non_field_errors":["Unable to log in with provided credentials."]}`))
			return
		}
		w.Write([]byte(`{"token":"abc123"}`))
	})

	token, err := client.Login(context.Background(), "admin", "pw")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token != "abc123" {
		t.Errorf("Expected token abc123, got %q", token)
	}

	_, err = client.Login(context.Background(), "admin", "wrong")
	if err == nil || err.Error() != "Unable to log in with provided credentials." {
		t.Errorf("Expected non_field_errors message, got %v", err)
	}
}

func TestErrorNormalization(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"detail", http.StatusUnauthorized, `{"detail":"Invalid token."}`, "Invalid token."},
		{"message", http.StatusBadRequest, `{"message":"Bad input"}`, "Bad input"},
		{"detail wins", http.StatusForbidden, `{"detail":"No","message":"Other"}`, "No"},
		{"empty body", http.StatusInternalServerError, ``, "HTTP error, status 500"},
		{"html body", http.StatusBadGateway, `<html>oops</html>`, "HTTP error, status 502"},
		{"no known field", http.StatusNotFound, `{"error":"x"}`, "HTTP error, status 404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.GetArticle(context.Background(), 1)
			var apiErr *remote.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Expected *APIError, got %T", err)
			}
			if apiErr.Status != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, apiErr.Status)
			}
			if apiErr.Message != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, apiErr.Message)
			}
			if remote.StatusOf(err) != tt.status {
				t.Errorf("StatusOf mismatch")
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := remote.NewClient(&config.RemoteConfig{BaseURL: url, Timeout: time.Second}, zerolog.Nop())
	_, err := client.ListArticles(context.Background())

	var apiErr *remote.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T", err)
	}
	if !apiErr.IsTransport() {
		t.Errorf("Expected transport error, got status %d", apiErr.Status)
	}
	if apiErr.Message == "" {
		t.Error("Transport error should carry a message")
	}
}

func TestMalformedSuccessBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})

	_, err := client.ListArticles(context.Background())
	var apiErr *remote.APIError
	if !errors.As(err, &apiErr) || !apiErr.IsTransport() {
		t.Fatalf("Expected transport-class APIError, got %v", err)
	}
}

func TestListArticles_TimestampForms(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":1,"titre":"Date","contenu":"a","categorie":"CONGO","created_at":"2024-01-01","updated_at":"2024-01-01"},
			{"id":2,"titre":"Sans zone","contenu":"b","categorie":"CONGO","created_at":"2024-01-02T10:00:00","updated_at":"2024-01-02T10:00:00.250000"},
			{"id":3,"titre":"Complet","contenu":"c","categorie":"CONGO","created_at":"2024-01-03T10:00:00.123456Z","updated_at":"2024-01-03T10:00:00Z"}
		]`))
	})

	articles, err := client.ListArticles(context.Background())
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(articles) != 3 {
		t.Fatalf("Expected 3 articles, got %d", len(articles))
	}

	want := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 10, 0, 0, 123456000, time.UTC),
	}
	for i, a := range articles {
		if !a.CreatedAt.Equal(want[i]) {
			t.Errorf("Article %d: expected created_at %v, got %v", a.ID, want[i], a.CreatedAt.Time)
		}
	}
}
