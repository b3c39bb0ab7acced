package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/blog-cache-api/internal/mocks"
	"github.com/blog-cache-api/internal/models"
	"github.com/blog-cache-api/internal/service"
	"github.com/blog-cache-api/internal/validation"
	"github.com/rs/zerolog"
)

func TestAdvertService_DefaultWhenEmpty(t *testing.T) {
	repo := mocks.NewMockSettingsRepository()
	svc := service.NewAdvertService(repo, validation.NewValidator(), zerolog.Nop())

	if got := svc.Get(context.Background()); got != models.DefaultAdvert() {
		t.Errorf("Expected default advert, got %+v", got)
	}
}

func TestAdvertService_DefaultOnReadError(t *testing.T) {
	repo := mocks.NewMockSettingsRepository()
	repo.GetError = errors.New("connection reset")
	svc := service.NewAdvertService(repo, validation.NewValidator(), zerolog.Nop())

	if got := svc.Get(context.Background()); got != models.DefaultAdvert() {
		t.Errorf("Expected default advert, got %+v", got)
	}
}

func TestAdvertService_Update(t *testing.T) {
	repo := mocks.NewMockSettingsRepository()
	svc := service.NewAdvertService(repo, validation.NewValidator(), zerolog.Nop())

	advert := models.AdvertImage{ImageURL: "https://img/pub.png", Link: "https://shop.example", Alt: "Boutique"}
	if err := svc.Update(context.Background(), advert); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if repo.SaveCalls != 1 {
		t.Errorf("Expected 1 save, got %d", repo.SaveCalls)
	}
	if got := svc.Get(context.Background()); got != advert {
		t.Errorf("Expected stored advert, got %+v", got)
	}
}

func TestAdvertService_UpdateValidation(t *testing.T) {
	repo := mocks.NewMockSettingsRepository()
	svc := service.NewAdvertService(repo, validation.NewValidator(), zerolog.Nop())

	err := svc.Update(context.Background(), models.AdvertImage{ImageURL: "not-a-url"})
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("Expected validation errors, got %v", err)
	}
	if repo.SaveCalls != 0 {
		t.Error("Invalid advert must not be saved")
	}
}

func TestAdvertService_UpdateSaveError(t *testing.T) {
	repo := mocks.NewMockSettingsRepository()
	repo.SaveError = errors.New("disk full")
	svc := service.NewAdvertService(repo, validation.NewValidator(), zerolog.Nop())

	err := svc.Update(context.Background(), models.AdvertImage{ImageURL: "https://img/pub.png", Link: "https://shop.example"})
	if err == nil || err.Error() != "disk full" {
		t.Errorf("Expected save error, got %v", err)
	}
}
