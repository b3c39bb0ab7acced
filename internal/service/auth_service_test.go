package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/blog-cache-api/internal/mocks"
	"github.com/blog-cache-api/internal/models"
	"github.com/blog-cache-api/internal/remote"
	"github.com/blog-cache-api/internal/repository"
	"github.com/blog-cache-api/internal/service"
	"github.com/blog-cache-api/internal/validation"
	"github.com/rs/zerolog"
)

func newTestServices(api *mocks.MockRemoteAPI) *service.Services {
	return service.NewServices(api, mocks.NewMockImageUploader(), repository.NewInMemory(), zerolog.Nop())
}

func TestAuthService_Login(t *testing.T) {
	api := mocks.NewMockRemoteAPI()
	services := newTestServices(api)

	session, err := services.Auth.Login(context.Background(), api.Username, api.Password)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if session == "" {
		t.Fatal("Expected a session id")
	}
	if !services.Auth.ValidSession(session) {
		t.Error("Session should be valid")
	}
	if !services.Articles.HasCredential() {
		t.Error("Article store should hold the token")
	}

	// The stored token authorizes mutations
	_, err = services.Articles.Create(context.Background(), models.ArticleDraft{Title: "t", Body: "b", Category: models.CategoryFinance})
	if err != nil {
		t.Errorf("Create after login failed: %v", err)
	}
}

func TestAuthService_LoginRejected(t *testing.T) {
	api := mocks.NewMockRemoteAPI()
	services := newTestServices(api)

	_, err := services.Auth.Login(context.Background(), api.Username, "wrong")
	if remote.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("Expected 400 APIError, got %v", err)
	}
	if err.Error() != "Unable to log in with provided credentials." {
		t.Errorf("Unexpected message %q", err.Error())
	}
	if services.Articles.HasCredential() {
		t.Error("No token should be stored after a failed login")
	}
}

func TestAuthService_LoginRequiresCredentials(t *testing.T) {
	api := mocks.NewMockRemoteAPI()
	services := newTestServices(api)

	_, err := services.Auth.Login(context.Background(), " ", "")
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("Expected validation errors, got %v", err)
	}
	if len(verrs) != 2 {
		t.Errorf("Expected 2 errors, got %v", verrs)
	}
	if api.CallCount("Login") != 0 {
		t.Error("Blank credentials must not reach the remote API")
	}
}

func TestAuthService_Logout(t *testing.T) {
	api := mocks.NewMockRemoteAPI()
	services := newTestServices(api)

	session, err := services.Auth.Login(context.Background(), api.Username, api.Password)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	services.Auth.Logout()

	if services.Auth.ValidSession(session) {
		t.Error("Session should be invalid after logout")
	}
	if services.Articles.HasCredential() {
		t.Error("Token should be cleared after logout")
	}
	_, err = services.Articles.Create(context.Background(), models.ArticleDraft{Title: "t", Body: "b", Category: models.CategoryFinance})
	if !errors.Is(err, service.ErrNotAuthenticated) {
		t.Errorf("Expected ErrNotAuthenticated after logout, got %v", err)
	}
}

func TestAuthService_NewLoginReplacesSession(t *testing.T) {
	api := mocks.NewMockRemoteAPI()
	services := newTestServices(api)

	first, _ := services.Auth.Login(context.Background(), api.Username, api.Password)
	second, _ := services.Auth.Login(context.Background(), api.Username, api.Password)

	if first == second {
		t.Fatal("Each login should issue a new session id")
	}
	if services.Auth.ValidSession(first) {
		t.Error("Old session should be invalid")
	}
	if !services.Auth.ValidSession(second) {
		t.Error("New session should be valid")
	}
}

func TestAuthService_ValidSessionWithoutLogin(t *testing.T) {
	services := newTestServices(mocks.NewMockRemoteAPI())

	if services.Auth.ValidSession("") {
		t.Error("Empty session id should never be valid")
	}
	if services.Auth.ValidSession("anything") {
		t.Error("No session should be valid before login")
	}
}
