package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blog-cache-api/internal/database"
	"github.com/blog-cache-api/internal/models"
	"github.com/lib/pq"
)

// undefinedTable is the PostgreSQL error code for a missing relation
const undefinedTable = "42P01"

// settingsRepo stores settings as JSON values in the settings table
type settingsRepo struct {
	db *database.DB
}

// NewSettingsRepo creates a Postgres-backed settings repository
func NewSettingsRepo(db *database.DB) SettingsRepository {
	return &settingsRepo{db: db}
}

// GetAdvert returns the stored advert, or nil when none is stored
func (r *settingsRepo) GetAdvert(ctx context.Context) (*models.AdvertImage, error) {
	query := `SELECT value FROM settings WHERE key = $1`

	var raw []byte
	err := r.db.QueryRowContext(ctx, query, models.AdvertSettingKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == undefinedTable {
		// Migrations have not run yet; behave as an empty store
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var advert models.AdvertImage
	if err := json.Unmarshal(raw, &advert); err != nil {
		return nil, fmt.Errorf("decode advert setting: %w", err)
	}
	return &advert, nil
}

// SaveAdvert inserts or replaces the advert setting
func (r *settingsRepo) SaveAdvert(ctx context.Context, advert *models.AdvertImage) error {
	raw, err := json.Marshal(advert)
	if err != nil {
		return fmt.Errorf("encode advert setting: %w", err)
	}

	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	_, err = r.db.ExecContext(ctx, query, models.AdvertSettingKey, raw, time.Now())
	return err
}

// memorySettingsRepo keeps settings for the lifetime of the process
type memorySettingsRepo struct {
	mu     sync.RWMutex
	advert *models.AdvertImage
}

// NewMemorySettingsRepo creates an in-memory settings repository
func NewMemorySettingsRepo() SettingsRepository {
	return &memorySettingsRepo{}
}

func (r *memorySettingsRepo) GetAdvert(ctx context.Context) (*models.AdvertImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.advert == nil {
		return nil, nil
	}
	advert := *r.advert
	return &advert, nil
}

func (r *memorySettingsRepo) SaveAdvert(ctx context.Context, advert *models.AdvertImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *advert
	r.advert = &stored
	return nil
}
