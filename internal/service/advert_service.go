package service

import (
	"context"

	"github.com/blog-cache-api/internal/models"
	"github.com/blog-cache-api/internal/repository"
	"github.com/blog-cache-api/internal/validation"
	"github.com/rs/zerolog"
)

// AdvertService manages the sidebar advert, the only persisted setting
type AdvertService struct {
	repo      repository.SettingsRepository
	validator *validation.Validator
	log       zerolog.Logger
}

// NewAdvertService creates an AdvertService backed by repo
func NewAdvertService(repo repository.SettingsRepository, validator *validation.Validator, log zerolog.Logger) *AdvertService {
	return &AdvertService{
		repo:      repo,
		validator: validator,
		log:       log.With().Str("service", "advert").Logger(),
	}
}

// Get returns the stored advert, or the default one when nothing usable is stored
func (s *AdvertService) Get(ctx context.Context) models.AdvertImage {
	advert, err := s.repo.GetAdvert(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read advert setting, using default")
		return models.DefaultAdvert()
	}
	if advert == nil {
		return models.DefaultAdvert()
	}
	return *advert
}

// Update validates and stores a new advert
func (s *AdvertService) Update(ctx context.Context, advert models.AdvertImage) error {
	if errs := s.validator.ValidateAdvert(&advert); len(errs) > 0 {
		return errs
	}
	if err := s.repo.SaveAdvert(ctx, &advert); err != nil {
		s.log.Error().Err(err).Msg("Failed to save advert setting")
		return err
	}
	s.log.Info().Str("image_url", advert.ImageURL).Msg("Advert updated")
	return nil
}
