package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, Normalize(cfg))

	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, 8, cfg.Bot.PickerPageSize)
	assert.Equal(t, 5, cfg.Bot.HistoryPageSize)
	assert.Equal(t, 10, cfg.Bot.ListingPageSize)
	assert.Equal(t, 20, cfg.Bot.ButtonLabelWidth)
	assert.Equal(t, 25, cfg.Bot.InvoiceMaxLen)
	assert.Equal(t, 65535, cfg.Bot.NoteMaxLen)
	assert.Equal(t, 30, cfg.Bot.SessionTTLMinutes)
	assert.Equal(t, "TLE", cfg.Bot.TrackingPrefix)
}

func TestNormalizeRequiresToken(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	assert.Error(t, Normalize(cfg))
}

func TestNormalizeRunModeAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
}

func TestNormalizeWebhookRequiresEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	assert.Error(t, Normalize(cfg))

	cfg.Webhook = WebhookConfig{URL: "https://example.com/hook", Listen: "0.0.0.0", Port: 8443}
	assert.NoError(t, Normalize(cfg))
}

func TestNormalizeRejectsUnknownExcludeUpdate(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{"Callback", "edited"}
	assert.Error(t, Normalize(cfg))

	cfg.RateLimit.ExcludeUpdates = []string{" Callback ", "message"}
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, []string{"callback", "message"}, cfg.RateLimit.ExcludeUpdates)
}

func TestNormalizeKeepsExplicitBotKnobs(t *testing.T) {
	cfg := validConfig()
	cfg.Bot.PickerPageSize = 6
	cfg.Bot.TrackingPrefix = "RCV"
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, 6, cfg.Bot.PickerPageSize)
	assert.Equal(t, "RCV", cfg.Bot.TrackingPrefix)
}
