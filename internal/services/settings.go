package services

import (
	"context"

	"github.com/souzacred/crm-backend/internal/errs"
	"github.com/souzacred/crm-backend/internal/models"
	"github.com/souzacred/crm-backend/pkg/logger"
)

type settingsSSStore interface {
	GetSettings(ctx context.Context) (*models.Settings, error)
	SetSettings(ctx context.Context, settings *models.Settings) error
}

type settingsService struct {
	store    settingsSSStore
	defaults models.Settings
}

// NewSettingsService falls back to the given defaults whenever no settings
// document has been written yet.
func NewSettingsService(store settingsSSStore, defaults models.Settings) *settingsService {
	return &settingsService{store: store, defaults: defaults}
}

func (s *settingsService) GetSettings(ctx context.Context) (*models.Settings, error) {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		defaults := s.defaults
		return &defaults, nil
	}
	return settings, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, settings *models.Settings) error {
	if settings.DefaultPageSize < 0 || settings.BatchLimit < 0 || settings.DefaultInterestRate < 0 {
		return errs.NewValidationError("settings values cannot be negative")
	}
	if settings.BatchLimit > 500 {
		return errs.NewValidationError("batchLimit cannot exceed the store's 500-operation ceiling")
	}

	if err := s.store.SetSettings(ctx, settings); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("system settings updated")
	return nil
}
