package mocks

import (
	"context"

	"github.com/blog-cache-api/internal/models"
	"github.com/blog-cache-api/internal/repository"
)

// MockSettingsRepository is a mock implementation of SettingsRepository
type MockSettingsRepository struct {
	Advert    *models.AdvertImage
	GetError  error
	SaveError error
	GetCalls  int
	SaveCalls int
}

// Verify interface compliance
var _ repository.SettingsRepository = (*MockSettingsRepository)(nil)

func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{}
}

func (m *MockSettingsRepository) GetAdvert(ctx context.Context) (*models.AdvertImage, error) {
	m.GetCalls++
	if m.GetError != nil {
		return nil, m.GetError
	}
	if m.Advert == nil {
		return nil, nil
	}
	advert := *m.Advert
	return &advert, nil
}

func (m *MockSettingsRepository) SaveAdvert(ctx context.Context, advert *models.AdvertImage) error {
	m.SaveCalls++
	if m.SaveError != nil {
		return m.SaveError
	}
	stored := *advert
	m.Advert = &stored
	return nil
}
