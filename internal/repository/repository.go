package repository

import (
	"context"

	"github.com/blog-cache-api/internal/database"
	"github.com/blog-cache-api/internal/models"
)

// SettingsRepository defines the interface for persisted front-end settings
type SettingsRepository interface {
	GetAdvert(ctx context.Context) (*models.AdvertImage, error)
	SaveAdvert(ctx context.Context, advert *models.AdvertImage) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Settings SettingsRepository

	db *database.DB
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Settings: NewSettingsRepo(db),
		db:       db,
	}
}

// HealthCheck pings the settings database; in-memory storage is always healthy
func (r *Repositories) HealthCheck(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	return r.db.HealthCheck(ctx)
}

// NewInMemory creates repositories that keep everything in process memory
func NewInMemory() *Repositories {
	return &Repositories{
		Settings: NewMemorySettingsRepo(),
	}
}
