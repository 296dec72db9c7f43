package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/posadmin/reports-gateway/internal/model"
)

type fakeSettingsBackend struct {
	stored     model.Settings
	getErr     error
	updateErr  error
	updated    *model.Settings
	updateSeen bool
}

func (f *fakeSettingsBackend) Settings(context.Context, string) (model.Settings, error) {
	return f.stored, f.getErr
}

func (f *fakeSettingsBackend) UpdateSettings(_ context.Context, _ string, s model.Settings) (model.Settings, error) {
	f.updateSeen = true
	if f.updateErr != nil {
		return model.Settings{}, f.updateErr
	}
	f.updated = &s
	return s, nil
}

func TestSettingsGetFallsBackToDefaults(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsBackend{}, nil)

	settings, err := svc.Get(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)
}

func TestSettingsGetReturnsStored(t *testing.T) {
	stored := model.Settings{StockThresholdLow: 20, StockThresholdCritical: 5, SessionTimeout: 60, MaxLoginAttempts: 3}
	svc := NewSettingsService(&fakeSettingsBackend{stored: stored}, nil)

	settings, err := svc.Get(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, stored, settings)
}

func TestSettingsUpdateRejectsLowNotAboveCritical(t *testing.T) {
	b := &fakeSettingsBackend{}
	svc := NewSettingsService(b, nil)

	// Equal thresholds are invalid, low must be strictly greater.
	_, err := svc.Update(context.Background(), "tok", model.Settings{
		StockThresholdLow:      5,
		StockThresholdCritical: 5,
		SessionTimeout:         30,
		MaxLoginAttempts:       5,
	})

	assert.ErrorIs(t, err, ErrInvalidSettings)
	assert.False(t, b.updateSeen, "invalid settings must not reach the backend")
}

func TestSettingsUpdateRejectsZeroTimeout(t *testing.T) {
	b := &fakeSettingsBackend{}
	svc := NewSettingsService(b, nil)

	_, err := svc.Update(context.Background(), "tok", model.Settings{
		StockThresholdLow:      10,
		StockThresholdCritical: 3,
		SessionTimeout:         0,
		MaxLoginAttempts:       5,
	})

	assert.ErrorIs(t, err, ErrInvalidSettings)
	assert.False(t, b.updateSeen)
}

func TestSettingsUpdateWritesThrough(t *testing.T) {
	b := &fakeSettingsBackend{}
	svc := NewSettingsService(b, nil)

	want := model.Settings{StockThresholdLow: 15, StockThresholdCritical: 4, SessionTimeout: 45, MaxLoginAttempts: 4}
	got, err := svc.Update(context.Background(), "tok", want)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	require.NotNil(t, b.updated)
	assert.Equal(t, want, *b.updated)
}

func TestSettingsUpdatePropagatesBackendError(t *testing.T) {
	wantErr := errors.New("backend down")
	svc := NewSettingsService(&fakeSettingsBackend{updateErr: wantErr}, nil)

	_, err := svc.Update(context.Background(), "tok", model.DefaultSettings())
	assert.ErrorIs(t, err, wantErr)
}
