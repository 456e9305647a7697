package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dukex/flyout/pkg/config"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()

	assert.Equal(t, "http://localhost:8081/booking/flight", cfg.Endpoints.Flight)
	assert.Equal(t, "http://localhost:8081/booking/reserve-table", cfg.Endpoints.Dining)
	assert.Equal(t, "http://localhost:8081/calendar/add-events", cfg.Endpoints.Calendar)
	assert.Equal(t, "http://localhost:8081/summarizer/session", cfg.Endpoints.Summarizer)
	assert.Equal(t, 2, cfg.Retries)
	assert.Equal(t, 1, cfg.SummaryRetries)
	assert.Zero(t, cfg.RequestTimeout)
	assert.False(t, cfg.SummarizerEnabled())
	require.NoError(t, cfg.Validate(validator.New(validator.WithRequiredStructEnabled())))
}

func TestEndpointsFromBase_TrailingSlash(t *testing.T) {
	t.Parallel()

	e := config.EndpointsFromBase("https://bookings.example.com/api/")
	assert.Equal(t, "https://bookings.example.com/api/booking/hotel", e.Hotel)
	assert.Equal(t, "https://bookings.example.com/api/booking/stay", e.Rental)
}

func TestSummarizerEnabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want bool
	}{
		{"", false},
		{"   ", false},
		{config.PlaceholderAPIKey, false},
		{"sk-live-123", true},
	}

	for _, tt := range tests {
		cfg := config.Default()
		cfg.SummarizerAPIKey = tt.key
		assert.Equal(t, tt.want, cfg.SummarizerEnabled(), tt.key)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "flyout.yaml")
	content := `
base_url: https://bookings.example.com
endpoints:
  calendar: https://calendar.example.com/calendar/add-events
summarizer_api_key: sk-test
retries: 3
retry_delay: 2s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://bookings.example.com/booking/flight", cfg.Endpoints.Flight)
	assert.Equal(t, "https://calendar.example.com/calendar/add-events", cfg.Endpoints.Calendar)
	assert.Equal(t, "sk-test", cfg.SummarizerAPIKey)
	assert.Equal(t, 3, cfg.Retries)
	assert.Equal(t, 1, cfg.SummaryRetries)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Endpoints.Ride = "not a url"
	cfg.Retries = 0

	err := cfg.Validate(validator.New(validator.WithRequiredStructEnabled()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ride")
	assert.Contains(t, err.Error(), "Retries")
}
