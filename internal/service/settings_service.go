package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/posadmin/reports-gateway/internal/model"
	"github.com/posadmin/reports-gateway/pkg/validator"
)

// ErrInvalidSettings wraps threshold or timeout validation failures so the
// handler can answer 422 without touching the backend.
var ErrInvalidSettings = errors.New("invalid settings")

type SettingsBackend interface {
	Settings(ctx context.Context, token string) (model.Settings, error)
	UpdateSettings(ctx context.Context, token string, settings model.Settings) (model.Settings, error)
}

type SettingsService interface {
	Get(ctx context.Context, token string) (model.Settings, error)
	Update(ctx context.Context, token string, settings model.Settings) (model.Settings, error)
}

type settingsService struct {
	backend SettingsBackend
	log     *zap.SugaredLogger
}

func NewSettingsService(b SettingsBackend, log *zap.SugaredLogger) SettingsService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &settingsService{backend: b, log: log}
}

// Get returns the stored settings, falling back to defaults when the
// backend has no document yet. A zero-valued response is treated as
// missing, the backend never stores a zero session timeout.
func (s *settingsService) Get(ctx context.Context, token string) (model.Settings, error) {
	settings, err := s.backend.Settings(ctx, token)
	if err != nil {
		return model.Settings{}, err
	}
	if settings == (model.Settings{}) {
		s.log.Infow("no stored settings, serving defaults")
		return model.DefaultSettings(), nil
	}
	return settings, nil
}

// Update validates locally before writing through. The low threshold must
// sit strictly above the critical one; equal values would make the
// critical bucket unreachable.
func (s *settingsService) Update(ctx context.Context, token string, settings model.Settings) (model.Settings, error) {
	if errs := validator.ValidateStruct(settings); len(errs) > 0 {
		return model.Settings{}, fmt.Errorf("%w: %s", ErrInvalidSettings, validator.Message(errs))
	}
	return s.backend.UpdateSettings(ctx, token, settings)
}
